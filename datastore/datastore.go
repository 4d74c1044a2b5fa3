/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"

	"github.com/suparena/fieldstore/storagemodels"
)

// DocumentStore is the single entry point to a remote document database.
type DocumentStore interface {
	// Get returns the document at ref, or a NotFoundError.
	Get(ctx context.Context, ref storagemodels.DocumentRef) (storagemodels.Document, error)

	// Set writes payload at ref. With overwrite disabled an existing document
	// yields an AlreadyExistsError. Payloads that cannot be serialized yield an
	// EncodingError before anything is sent.
	Set(ctx context.Context, ref storagemodels.DocumentRef, payload map[string]any, overwrite bool) error

	// Delete removes the document at ref. Deleting a missing document succeeds.
	Delete(ctx context.Context, ref storagemodels.DocumentRef) error

	// AllocateID returns a new unique id for collection without writing data.
	AllocateID(ctx context.Context, collection string) (string, error)

	// Query runs a Query Descriptor.
	Query(ctx context.Context, q *storagemodels.Query) ([]storagemodels.Document, error)

	// Count runs a server-side count aggregation over the documents q selects.
	Count(ctx context.Context, q *storagemodels.Query) (int64, error)

	// Commit applies writes atomically: either all of them or none.
	Commit(ctx context.Context, writes []storagemodels.Write) error

	// Close releases the underlying client.
	Close() error
}
