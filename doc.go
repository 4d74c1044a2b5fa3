/*
Package fieldstore is the data-access layer of the field operations app: it
stores issues, sites, buildings, keys, inventory sites, supply requests, site
captain entries and users in a remote document database.

The layers are:
  - datastore: the DocumentStore client interface and its backends
    (Firestore, DynamoDB, SQLite, Postgres, in-memory mock)
  - query: builds Query Descriptors from optional caller parameters
  - Repository: a generic typed manager per collection
  - Batch: all-or-nothing multi-document writes
  - managers: entity-specific relationship helpers on top of repositories

Basic Usage:

	store, _ := sqlite.Open(ctx, "fieldstore.db")
	sites := fieldstore.NewRepository(store, models.SiteCodec)

	id, _ := sites.NewID(ctx)
	_ = sites.Create(ctx, models.Site{ID: id, Name: "Clark", BuildingID: "A1"})

	all, _ := sites.GetAll(ctx,
		query.Equal(models.SiteBuildingID, "A1"),
		query.Descending(false))

Errors are typed (see package errors): a missing document is a NotFoundError,
a payload that cannot be serialized is an EncodingError, a create over an
existing document is an AlreadyExistsError and transport failures are
StoreErrors wrapping the backend error.
*/
package fieldstore
