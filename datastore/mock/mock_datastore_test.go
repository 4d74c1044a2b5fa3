/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mock_test

import (
	"context"
	"math"
	"testing"

	"github.com/suparena/fieldstore/datastore"
	"github.com/suparena/fieldstore/datastore/mock"
	"github.com/suparena/fieldstore/datastore/storetest"
	"github.com/suparena/fieldstore/errors"
	"github.com/suparena/fieldstore/storagemodels"
)

func TestMockConformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) datastore.DocumentStore {
		return mock.New()
	})
}

func TestMockDataStore(t *testing.T) {
	ctx := context.Background()

	t.Run("CopiesPayloads", func(t *testing.T) {
		store := mock.New()
		ref := storagemodels.Ref("sites", "S1")
		payload := map[string]any{"name": "Clark", "tags": []any{"lab"}}

		if err := store.Set(ctx, ref, payload, true); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		payload["name"] = "changed"

		doc, err := store.Get(ctx, ref)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if doc.Data["name"] != "Clark" {
			t.Fatalf("caller mutation leaked into the store: %v", doc.Data)
		}
		doc.Data["tags"].([]any)[0] = "changed"

		again, _ := store.Get(ctx, ref)
		if again.Data["tags"].([]any)[0] != "lab" {
			t.Fatalf("returned document shares memory with the store")
		}
	})

	t.Run("ErrorSimulation", func(t *testing.T) {
		store := mock.New()
		failure := errors.NewStoreError("get", "sites", context.DeadlineExceeded)
		store.WithGetError(failure)

		if _, err := store.Get(ctx, storagemodels.Ref("sites", "S1")); err != failure {
			t.Fatalf("Expected get error, got: %v", err)
		}

		setErr := errors.NewStoreError("set", "sites", context.Canceled)
		store.WithSetError(setErr)
		if err := store.Set(ctx, storagemodels.Ref("sites", "S1"), map[string]any{}, true); err != setErr {
			t.Fatalf("Expected set error, got: %v", err)
		}

		deleteErr := errors.NewStoreError("delete", "sites", context.Canceled)
		store.WithDeleteError(deleteErr)
		if err := store.Delete(ctx, storagemodels.Ref("sites", "S1")); err != deleteErr {
			t.Fatalf("Expected delete error, got: %v", err)
		}

		q := &storagemodels.Query{Collection: "sites"}
		queryErr := errors.NewStoreError("query", "sites", context.Canceled)
		store.WithQueryError(queryErr).WithCountError(queryErr)
		if _, err := store.Query(ctx, q); err != queryErr {
			t.Fatalf("Expected query error, got: %v", err)
		}
		if _, err := store.Count(ctx, q); err != queryErr {
			t.Fatalf("Expected count error, got: %v", err)
		}
	})

	t.Run("EncodingErrorBeforeStore", func(t *testing.T) {
		store := mock.New()
		err := store.Commit(ctx, []storagemodels.Write{
			storagemodels.SetWrite(storagemodels.Ref("buildings", "B1"), map[string]any{"latitude": math.NaN()}, true),
		})
		if !errors.IsEncodingError(err) {
			t.Fatalf("expected encoding error, got %v", err)
		}
		if calls := store.Calls(); calls.Commit != 0 {
			t.Fatalf("commit reached the store %d times", calls.Commit)
		}
	})

	t.Run("CommitErrorAppliesNothing", func(t *testing.T) {
		store := mock.New().WithCommitError(errors.NewStoreError("commit", "", context.Canceled))
		err := store.Commit(ctx, []storagemodels.Write{
			storagemodels.SetWrite(storagemodels.Ref("keys", "K1"), map[string]any{"keyCode": "A"}, true),
		})
		if !errors.IsStoreError(err) {
			t.Fatalf("expected store error, got %v", err)
		}
		if store.Len("keys") != 0 {
			t.Fatalf("failed commit wrote data")
		}
	})

	t.Run("DeleteThenCreateInOneBatch", func(t *testing.T) {
		store := mock.New()
		ref := storagemodels.Ref("keys", "K1")
		store.PutRaw(ref, map[string]any{"keyCode": "old"})

		err := store.Commit(ctx, []storagemodels.Write{
			storagemodels.DeleteWrite(ref),
			storagemodels.SetWrite(ref, map[string]any{"keyCode": "new"}, false),
		})
		if err != nil {
			t.Fatalf("Commit failed: %v", err)
		}
		if got := store.GetData("keys")["K1"]["keyCode"]; got != "new" {
			t.Fatalf("unexpected keyCode %v", got)
		}
	})

	t.Run("AllocateIDSkipsTakenIDs", func(t *testing.T) {
		next := []string{"taken", "free"}
		store := mock.New().WithIDFunc(func() string {
			id := next[0]
			next = next[1:]
			return id
		})
		store.PutRaw(storagemodels.Ref("users", "taken"), map[string]any{})

		id, err := store.AllocateID(ctx, "users")
		if err != nil {
			t.Fatalf("AllocateID failed: %v", err)
		}
		if id != "free" {
			t.Fatalf("expected free id, got %q", id)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		store := mock.New()
		store.PutRaw(storagemodels.Ref("users", "U1"), map[string]any{})
		_, _ = store.Get(ctx, storagemodels.Ref("users", "U1"))
		store.Clear()
		if store.Len("users") != 0 || store.Calls().Get != 0 {
			t.Fatalf("Clear left state behind")
		}
	})
}
