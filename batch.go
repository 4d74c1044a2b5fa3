/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package fieldstore

import (
	"context"

	"github.com/suparena/fieldstore/datastore"
	"github.com/suparena/fieldstore/errors"
	"github.com/suparena/fieldstore/schema"
	"github.com/suparena/fieldstore/storagemodels"
)

// Batch collects writes and applies them in one all-or-nothing commit.
// Entities are encoded when staged; after the first failure further staging
// is ignored and Commit returns that error without contacting the store.
// A Batch is not safe for concurrent use.
type Batch struct {
	store  datastore.DocumentStore
	writes []storagemodels.Write
	err    error
}

// NewBatch starts an empty batch against store.
func NewBatch(store datastore.DocumentStore) *Batch {
	return &Batch{store: store}
}

// Stage encodes entity and adds a write for it. With overwrite disabled the
// commit fails with an AlreadyExistsError if the document exists.
func Stage[T any](b *Batch, codec schema.Codec[T], entity T, overwrite bool) {
	if b.err != nil {
		return
	}
	id := codec.ID(entity)
	collection := codec.Schema().Collection
	if id == "" {
		b.err = errors.NewEncodingError(collection, "", string(schema.FieldID), errors.ErrInvalidInput)
		return
	}
	payload, err := codec.Encode(entity)
	if err != nil {
		b.err = err
		return
	}
	b.writes = append(b.writes, storagemodels.SetWrite(storagemodels.Ref(collection, id), payload, overwrite))
}

// StageCreate is Stage without overwrite.
func StageCreate[T any](b *Batch, codec schema.Codec[T], entity T) {
	Stage(b, codec, entity, false)
}

// StageDelete adds a delete of ref.
func StageDelete(b *Batch, ref storagemodels.DocumentRef) {
	if b.err != nil {
		return
	}
	if err := ref.Validate(); err != nil {
		b.err = err
		return
	}
	b.writes = append(b.writes, storagemodels.DeleteWrite(ref))
}

// Len returns the number of staged writes
func (b *Batch) Len() int {
	return len(b.writes)
}

// Err returns the first staging error, if any
func (b *Batch) Err() error {
	return b.err
}

// Commit applies the staged writes. An empty batch is a no-op.
func (b *Batch) Commit(ctx context.Context) error {
	if b.err != nil {
		return b.err
	}
	if len(b.writes) == 0 {
		return nil
	}
	return b.store.Commit(ctx, b.writes)
}
