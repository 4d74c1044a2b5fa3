/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package managers

import (
	"context"

	"github.com/suparena/fieldstore"
	"github.com/suparena/fieldstore/models"
	"github.com/suparena/fieldstore/query"
)

// KeySets manages key sets.
type KeySets struct {
	*fieldstore.Repository[models.KeySet]
	keys *Keys
}

// DeleteWithKeys deletes a key set and every key in it in one batch.
func (m *KeySets) DeleteWithKeys(ctx context.Context, keySetID string) error {
	keys, err := m.keys.ListForKeySet(ctx, keySetID)
	if err != nil {
		return err
	}
	b := fieldstore.NewBatch(m.Store())
	for _, k := range keys {
		fieldstore.StageDelete(b, m.keys.Ref(k.ID))
	}
	fieldstore.StageDelete(b, m.Ref(keySetID))
	return b.Commit(ctx)
}

// Keys manages individual keys.
type Keys struct {
	*fieldstore.Repository[models.Key]
}

// ListForKeySet lists the keys of a set ordered by key code.
func (m *Keys) ListForKeySet(ctx context.Context, keySetID string) ([]models.Key, error) {
	return m.GetAll(ctx, query.Equal(models.KeyKeySetID, keySetID), query.Ascending())
}
