/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package fieldstore

import (
	"context"
	"log/slog"

	"github.com/suparena/fieldstore/datastore"
	"github.com/suparena/fieldstore/errors"
	"github.com/suparena/fieldstore/query"
	"github.com/suparena/fieldstore/schema"
	"github.com/suparena/fieldstore/storagemodels"
)

// Repository manages the entities of one collection. It holds only a store
// handle, a codec and a logger and is safe for concurrent use.
type Repository[T any] struct {
	store  datastore.DocumentStore
	codec  schema.Codec[T]
	logger *slog.Logger
}

// RepositoryOption configures a Repository
type RepositoryOption func(*repositoryOptions)

type repositoryOptions struct {
	logger *slog.Logger
}

// WithLogger sets the repository logger
func WithLogger(l *slog.Logger) RepositoryOption {
	return func(o *repositoryOptions) {
		o.logger = l
	}
}

// NewRepository creates a repository for the collection described by codec.
func NewRepository[T any](store datastore.DocumentStore, codec schema.Codec[T], opts ...RepositoryOption) *Repository[T] {
	o := repositoryOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return &Repository[T]{
		store:  store,
		codec:  codec,
		logger: o.logger.With("collection", codec.Schema().Collection),
	}
}

// Collection returns the collection name
func (r *Repository[T]) Collection() string {
	return r.codec.Schema().Collection
}

// Schema returns the collection schema
func (r *Repository[T]) Schema() *schema.Schema {
	return r.codec.Schema()
}

// Store returns the underlying document store
func (r *Repository[T]) Store() datastore.DocumentStore {
	return r.store
}

// Codec returns the entity codec
func (r *Repository[T]) Codec() schema.Codec[T] {
	return r.codec
}

// Ref returns the document reference of id in this collection.
func (r *Repository[T]) Ref(id string) storagemodels.DocumentRef {
	return storagemodels.Ref(r.Collection(), id)
}

// Get fetches and decodes one entity. A missing document is a NotFoundError.
func (r *Repository[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	doc, err := r.store.Get(ctx, r.Ref(id))
	if err != nil {
		return zero, err
	}
	return r.codec.Decode(doc.Ref.ID, doc.Data)
}

// NewID allocates an id for a future Create. Nothing is written.
func (r *Repository[T]) NewID(ctx context.Context) (string, error) {
	return r.store.AllocateID(ctx, r.Collection())
}

// Create stores a new entity. An entity with the same id yields an
// AlreadyExistsError and the stored document is left untouched.
func (r *Repository[T]) Create(ctx context.Context, entity T) error {
	return r.put(ctx, entity, false)
}

// Update overwrites the whole stored document of entity.
func (r *Repository[T]) Update(ctx context.Context, entity T) error {
	return r.put(ctx, entity, true)
}

func (r *Repository[T]) put(ctx context.Context, entity T, overwrite bool) error {
	id := r.codec.ID(entity)
	if id == "" {
		return errors.NewEncodingError(r.Collection(), "", string(schema.FieldID), errors.ErrInvalidInput)
	}
	payload, err := r.codec.Encode(entity)
	if err != nil {
		return err
	}
	if err := r.store.Set(ctx, r.Ref(id), payload, overwrite); err != nil {
		return err
	}
	r.logger.Debug("entity stored", "id", id, "overwrite", overwrite)
	return nil
}

// UpdateMany overwrites every entity in one atomic commit. All entities are
// encoded before the store is contacted; one failure aborts the whole call.
func (r *Repository[T]) UpdateMany(ctx context.Context, entities []T) error {
	b := NewBatch(r.store)
	for _, e := range entities {
		Stage(b, r.codec, e, true)
	}
	if err := b.Commit(ctx); err != nil {
		return err
	}
	r.logger.Debug("entities updated", "count", len(entities))
	return nil
}

// Delete removes the entity with id. Deleting a missing entity succeeds.
func (r *Repository[T]) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, r.Ref(id))
}

// GetAll lists entities selected by opts. With no options every entity of
// the collection is returned in no particular order.
func (r *Repository[T]) GetAll(ctx context.Context, opts ...query.Option) ([]T, error) {
	q, err := query.FromOptions(r.Schema(), opts...)
	if err != nil {
		return nil, err
	}
	return r.Find(ctx, q)
}

// Find runs a prebuilt descriptor. One undecodable document fails the call.
func (r *Repository[T]) Find(ctx context.Context, q *storagemodels.Query) ([]T, error) {
	if q.Collection != r.Collection() {
		return nil, errors.NewValidationError("collection",
			"query targets "+q.Collection+", repository manages "+r.Collection())
	}
	docs, err := r.store.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		e, err := r.codec.Decode(doc.Ref.ID, doc.Data)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	r.logger.Debug("query", "filters", len(q.Filters), "count", len(out))
	return out, nil
}

// First returns the first entity Find yields, or a NotFoundError.
func (r *Repository[T]) First(ctx context.Context, opts ...query.Option) (T, error) {
	var zero T
	all, err := r.GetAll(ctx, limitOne(opts)...)
	if err != nil {
		return zero, err
	}
	if len(all) == 0 {
		return zero, errors.NewNotFoundError(r.Collection(), "")
	}
	return all[0], nil
}

// Count returns the number of entities GetAll would return for opts, using
// the store's aggregation.
func (r *Repository[T]) Count(ctx context.Context, opts ...query.Option) (int64, error) {
	q, err := query.FromOptions(r.Schema(), opts...)
	if err != nil {
		return 0, err
	}
	return r.store.Count(ctx, q)
}

// limitOne appends a limit of one to a copy of opts.
func limitOne(opts []query.Option) []query.Option {
	return append(append([]query.Option(nil), opts...), query.WithLimit(1))
}

// Exists reports whether any entity matches opts.
func (r *Repository[T]) Exists(ctx context.Context, opts ...query.Option) (bool, error) {
	n, err := r.Count(ctx, limitOne(opts)...)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
