/*
Package datastore defines the core interface of fieldstore's data persistence
layer.

The main interface is DocumentStore, the single entry point to a remote
document database:

	type DocumentStore interface {
	    Get(ctx context.Context, ref storagemodels.DocumentRef) (storagemodels.Document, error)
	    Set(ctx context.Context, ref storagemodels.DocumentRef, payload map[string]any, overwrite bool) error
	    Delete(ctx context.Context, ref storagemodels.DocumentRef) error
	    AllocateID(ctx context.Context, collection string) (string, error)
	    Query(ctx context.Context, q *storagemodels.Query) ([]storagemodels.Document, error)
	    Count(ctx context.Context, q *storagemodels.Query) (int64, error)
	    Commit(ctx context.Context, writes []storagemodels.Write) error
	    Close() error
	}

Implementations:
  - ddb: DynamoDB single-table implementation
  - firestore: Cloud Firestore implementation
  - sqldoc: database/sql document table, with sqlite and postgres drivers
  - mock: in-memory implementation for testing
  - metrics: Prometheus decorator for any implementation

Every implementation shares the evaluation rules in package eval and is
checked by the conformance suite in package storetest. No implementation
retries, caches or deduplicates calls.
*/
package datastore
