/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package storetest is the behavioural suite every DocumentStore
// implementation runs from its own tests.
package storetest

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/suparena/fieldstore/datastore"
	"github.com/suparena/fieldstore/errors"
	"github.com/suparena/fieldstore/schema"
	"github.com/suparena/fieldstore/storagemodels"
)

// Factory returns a store for one subtest. Stores may be shared between
// subtests: every subtest writes to its own collection.
type Factory func(t *testing.T) datastore.DocumentStore

// Run executes the suite against the stores produced by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("SetAndGet", func(t *testing.T) { testSetAndGet(t, newStore(t)) })
	t.Run("GetMissing", func(t *testing.T) { testGetMissing(t, newStore(t)) })
	t.Run("CreateDuplicate", func(t *testing.T) { testCreateDuplicate(t, newStore(t)) })
	t.Run("DeleteIsIdempotent", func(t *testing.T) { testDelete(t, newStore(t)) })
	t.Run("AllocateID", func(t *testing.T) { testAllocateID(t, newStore(t)) })
	t.Run("EncodingRejected", func(t *testing.T) { testEncodingRejected(t, newStore(t)) })
	t.Run("EqualityWithOrder", func(t *testing.T) { testEqualityWithOrder(t, newStore(t)) })
	t.Run("DateRangeDescending", func(t *testing.T) { testDateRangeDescending(t, newStore(t)) })
	t.Run("FilterKinds", func(t *testing.T) { testFilterKinds(t, newStore(t)) })
	t.Run("CountMatchesQuery", func(t *testing.T) { testCountMatchesQuery(t, newStore(t)) })
	t.Run("CommitApplies", func(t *testing.T) { testCommitApplies(t, newStore(t)) })
	t.Run("CommitIsAtomic", func(t *testing.T) { testCommitIsAtomic(t, newStore(t)) })
	t.Run("InvalidQuery", func(t *testing.T) { testInvalidQuery(t, newStore(t)) })
}

// Collection returns a collection name unique to this run.
func Collection(prefix string) string {
	return prefix + "_" + uuid.NewString()[:8]
}

var base = time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC)

func seed(t *testing.T, store datastore.DocumentStore, collection string, docs map[string]map[string]any) {
	t.Helper()
	ctx := context.Background()
	for id, data := range docs {
		payload := map[string]any{"id": id}
		for k, v := range data {
			payload[k] = v
		}
		if err := store.Set(ctx, storagemodels.Ref(collection, id), payload, true); err != nil {
			t.Fatalf("seed %s/%s: %v", collection, id, err)
		}
	}
}

func ids(docs []storagemodels.Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.Ref.ID
	}
	return out
}

func expectIDs(t *testing.T, docs []storagemodels.Document, want ...string) {
	t.Helper()
	got := ids(docs)
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("got ids %v, want %v", got, want)
	}
}

func testSetAndGet(t *testing.T, store datastore.DocumentStore) {
	ctx := context.Background()
	coll := Collection("roundtrip")
	ref := storagemodels.Ref(coll, "S1")
	at := time.Date(2024, 3, 4, 5, 6, 7, 123456789, time.FixedZone("CET", 3600))
	want := at.Truncate(schema.TimePrecision)

	err := store.Set(ctx, ref, map[string]any{
		"id":     "S1",
		"name":   "Clark",
		"chairs": 12,
		"lat":    32.8801,
		"open":   true,
		"at":     at,
		"tags":   []string{"lab", "printer"},
	}, false)
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	doc, err := store.Get(ctx, ref)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if doc.Ref != ref {
		t.Fatalf("unexpected ref %v", doc.Ref)
	}
	r := schema.NewReader(coll, "S1", doc.Data)
	if r.String("name") != "Clark" || r.Int("chairs") != 12 || r.Float("lat") != 32.8801 ||
		!r.Bool("open") || !r.Time("at").Equal(want) {
		t.Fatalf("round trip mismatch: %#v", doc.Data)
	}
	if tags := r.Strings("tags"); len(tags) != 2 || tags[0] != "lab" || tags[1] != "printer" {
		t.Fatalf("tags mismatch: %v", tags)
	}
	if err := r.Err(); err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	// Overwrite replaces the whole payload.
	if err := store.Set(ctx, ref, map[string]any{"id": "S1", "name": "Geisel"}, true); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	doc, err = store.Get(ctx, ref)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if doc.Data["name"] != "Geisel" {
		t.Fatalf("overwrite not applied: %#v", doc.Data)
	}
	if _, ok := doc.Data["chairs"]; ok {
		t.Fatalf("overwrite merged instead of replacing: %#v", doc.Data)
	}
}

func testGetMissing(t *testing.T, store datastore.DocumentStore) {
	_, err := store.Get(context.Background(), storagemodels.Ref(Collection("missing"), "nope"))
	if !errors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func testCreateDuplicate(t *testing.T, store datastore.DocumentStore) {
	ctx := context.Background()
	ref := storagemodels.Ref(Collection("dup"), "K1")

	if err := store.Set(ctx, ref, map[string]any{"id": "K1", "n": 1}, false); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	err := store.Set(ctx, ref, map[string]any{"id": "K1", "n": 2}, false)
	if !errors.IsAlreadyExists(err) {
		t.Fatalf("expected already exists, got %v", err)
	}
	doc, err := store.Get(ctx, ref)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if n := schema.NewReader(ref.Collection, ref.ID, doc.Data).Int("n"); n != 1 {
		t.Fatalf("rejected create changed the document: n=%d", n)
	}
}

func testDelete(t *testing.T, store datastore.DocumentStore) {
	ctx := context.Background()
	coll := Collection("delete")
	seed(t, store, coll, map[string]map[string]any{"D1": {"name": "x"}})
	ref := storagemodels.Ref(coll, "D1")

	if err := store.Delete(ctx, ref); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, ref); !errors.IsNotFound(err) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := store.Delete(ctx, ref); err != nil {
		t.Fatalf("second Delete failed: %v", err)
	}
}

func testAllocateID(t *testing.T, store datastore.DocumentStore) {
	ctx := context.Background()
	coll := Collection("alloc")
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		id, err := store.AllocateID(ctx, coll)
		if err != nil {
			t.Fatalf("AllocateID failed: %v", err)
		}
		if id == "" || seen[id] {
			t.Fatalf("AllocateID returned empty or repeated id %q", id)
		}
		seen[id] = true
	}
	n, err := store.Count(ctx, &storagemodels.Query{Collection: coll})
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 0 {
		t.Fatalf("AllocateID wrote %d documents", n)
	}
}

func testEncodingRejected(t *testing.T, store datastore.DocumentStore) {
	ctx := context.Background()
	ref := storagemodels.Ref(Collection("encoding"), "B1")

	err := store.Set(ctx, ref, map[string]any{"id": "B1", "latitude": math.NaN()}, true)
	if !errors.IsEncodingError(err) {
		t.Fatalf("expected encoding error, got %v", err)
	}
	if _, err := store.Get(ctx, ref); !errors.IsNotFound(err) {
		t.Fatalf("rejected payload was written: %v", err)
	}
}

func testEqualityWithOrder(t *testing.T, store datastore.DocumentStore) {
	ctx := context.Background()
	coll := Collection("sites")
	seed(t, store, coll, map[string]map[string]any{
		"s1": {"name": "Geisel", "buildingId": "A1"},
		"s2": {"name": "Clark", "buildingId": "A1"},
		"s3": {"name": "Atkinson", "buildingId": "B2"},
		"s4": {"name": "Mandeville", "buildingId": "A1"},
	})

	docs, err := store.Query(ctx, &storagemodels.Query{
		Collection: coll,
		Filters:    []storagemodels.Filter{{Field: "buildingId", Op: storagemodels.Eq, Value: "A1"}},
		Order:      &storagemodels.Order{Field: "name", Direction: storagemodels.Ascending},
	})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	expectIDs(t, docs, "s2", "s1", "s4")

	docs, err = store.Query(ctx, &storagemodels.Query{
		Collection: coll,
		Filters:    []storagemodels.Filter{{Field: "buildingId", Op: storagemodels.Eq, Value: "A1"}},
		Order:      &storagemodels.Order{Field: "name", Direction: storagemodels.Descending},
		Limit:      2,
	})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	expectIDs(t, docs, "s4", "s1")

	docs, err = store.Query(ctx, &storagemodels.Query{
		Collection: coll,
		Filters:    []storagemodels.Filter{{Field: "buildingId", Op: storagemodels.Eq, Value: "Z9"}},
	})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("expected empty result, got %v", ids(docs))
	}
}

func testDateRangeDescending(t *testing.T, store datastore.DocumentStore) {
	ctx := context.Background()
	coll := Collection("issues")
	seed(t, store, coll, map[string]map[string]any{
		"i1": {"siteId": "S1", "timestamp": base},
		"i2": {"siteId": "S1", "timestamp": base.Add(1 * time.Hour)},
		"i3": {"siteId": "S1", "timestamp": base.Add(2 * time.Hour)},
		"i4": {"siteId": "S2", "timestamp": base.Add(90 * time.Minute)},
		"i5": {"siteId": "S1", "timestamp": base.Add(48 * time.Hour)},
		"i6": {"siteId": "S1"},
	})

	q := &storagemodels.Query{
		Collection: coll,
		Filters: []storagemodels.Filter{
			{Field: "siteId", Op: storagemodels.Eq, Value: "S1"},
			{Field: "timestamp", Op: storagemodels.Ge, Value: base},
			{Field: "timestamp", Op: storagemodels.Le, Value: base.Add(2 * time.Hour)},
		},
		Order: &storagemodels.Order{Field: "timestamp", Direction: storagemodels.Descending},
	}
	docs, err := store.Query(ctx, q)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	expectIDs(t, docs, "i3", "i2", "i1")

	// Documents without the order field are not returned.
	docs, err = store.Query(ctx, &storagemodels.Query{
		Collection: coll,
		Order:      &storagemodels.Order{Field: "timestamp", Direction: storagemodels.Ascending},
	})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	expectIDs(t, docs, "i1", "i2", "i4", "i3", "i5")
}

func testFilterKinds(t *testing.T, store datastore.DocumentStore) {
	ctx := context.Background()
	coll := Collection("requests")
	seed(t, store, coll, map[string]map[string]any{
		"r1": {"quantity": 5, "fulfilled": false, "code": "10"},
		"r2": {"quantity": 12, "fulfilled": true, "code": "2"},
		"r3": {"quantity": 7.5, "fulfilled": false, "code": 3},
		"r4": {"quantity": "many", "fulfilled": "no"},
	})

	run := func(f storagemodels.Filter) []storagemodels.Document {
		t.Helper()
		docs, err := store.Query(ctx, &storagemodels.Query{Collection: coll, Filters: []storagemodels.Filter{f}})
		if err != nil {
			t.Fatalf("Query %+v failed: %v", f, err)
		}
		return docs
	}

	expectIDs(t, run(storagemodels.Filter{Field: "quantity", Op: storagemodels.Ge, Value: int64(6)}), "r2", "r3")
	expectIDs(t, run(storagemodels.Filter{Field: "quantity", Op: storagemodels.Lt, Value: 7.5}), "r1")
	expectIDs(t, run(storagemodels.Filter{Field: "fulfilled", Op: storagemodels.Eq, Value: false}), "r1", "r3")
	expectIDs(t, run(storagemodels.Filter{Field: "code", Op: storagemodels.Gt, Value: "1"}), "r1", "r2")
	expectIDs(t, run(storagemodels.Filter{Field: "code", Op: storagemodels.Eq, Value: int64(3)}), "r3")
}

func testCountMatchesQuery(t *testing.T, store datastore.DocumentStore) {
	ctx := context.Background()
	coll := Collection("count")
	seed(t, store, coll, map[string]map[string]any{
		"c1": {"siteId": "S1", "resolved": false, "timestamp": base},
		"c2": {"siteId": "S1", "resolved": true, "timestamp": base.Add(time.Hour)},
		"c3": {"siteId": "S2", "resolved": false, "timestamp": base.Add(2 * time.Hour)},
		"c4": {"siteId": "S1", "resolved": false},
	})

	queries := []*storagemodels.Query{
		{Collection: coll},
		{Collection: coll, Filters: []storagemodels.Filter{{Field: "siteId", Op: storagemodels.Eq, Value: "S1"}}},
		{Collection: coll, Filters: []storagemodels.Filter{{Field: "resolved", Op: storagemodels.Eq, Value: false}}},
		{Collection: coll, Order: &storagemodels.Order{Field: "timestamp"}},
		{Collection: coll, Limit: 2},
		{
			Collection: coll,
			Filters:    []storagemodels.Filter{{Field: "timestamp", Op: storagemodels.Ge, Value: base.Add(30 * time.Minute)}},
			Order:      &storagemodels.Order{Field: "timestamp", Direction: storagemodels.Descending},
		},
		{Collection: Collection("empty")},
	}
	want := []int64{4, 3, 3, 3, 2, 2, 0}
	for i, q := range queries {
		docs, err := store.Query(ctx, q)
		if err != nil {
			t.Fatalf("query %d: %v", i, err)
		}
		n, err := store.Count(ctx, q)
		if err != nil {
			t.Fatalf("count %d: %v", i, err)
		}
		if n != int64(len(docs)) || n != want[i] {
			t.Fatalf("query %d: count=%d len=%d want %d", i, n, len(docs), want[i])
		}
	}
}

func testCommitApplies(t *testing.T, store datastore.DocumentStore) {
	ctx := context.Background()
	coll := Collection("batch")
	seed(t, store, coll, map[string]map[string]any{
		"old":  {"name": "stale"},
		"keep": {"name": "before"},
	})

	err := store.Commit(ctx, []storagemodels.Write{
		storagemodels.SetWrite(storagemodels.Ref(coll, "new"), map[string]any{"id": "new", "name": "fresh"}, false),
		storagemodels.SetWrite(storagemodels.Ref(coll, "keep"), map[string]any{"id": "keep", "name": "after"}, true),
		storagemodels.DeleteWrite(storagemodels.Ref(coll, "old")),
	})
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	docs, err := store.Query(ctx, &storagemodels.Query{
		Collection: coll,
		Order:      &storagemodels.Order{Field: "name"},
	})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	expectIDs(t, docs, "keep", "new")
	if docs[0].Data["name"] != "after" {
		t.Fatalf("overwrite in batch not applied: %#v", docs[0].Data)
	}

	if err := store.Commit(ctx, nil); err != nil {
		t.Fatalf("empty Commit failed: %v", err)
	}
}

func testCommitIsAtomic(t *testing.T, store datastore.DocumentStore) {
	ctx := context.Background()
	coll := Collection("atomic")
	seed(t, store, coll, map[string]map[string]any{"B0": {"name": "existing"}})

	t.Run("EncodingFailure", func(t *testing.T) {
		err := store.Commit(ctx, []storagemodels.Write{
			storagemodels.SetWrite(storagemodels.Ref(coll, "B1"), map[string]any{"id": "B1", "latitude": 1.5}, true),
			storagemodels.SetWrite(storagemodels.Ref(coll, "B2"), map[string]any{"id": "B2", "latitude": math.Inf(1)}, true),
		})
		if !errors.IsEncodingError(err) {
			t.Fatalf("expected encoding error, got %v", err)
		}
		if _, err := store.Get(ctx, storagemodels.Ref(coll, "B1")); !errors.IsNotFound(err) {
			t.Fatalf("valid write of a rejected batch was applied: %v", err)
		}
	})

	t.Run("ConflictFailure", func(t *testing.T) {
		err := store.Commit(ctx, []storagemodels.Write{
			storagemodels.SetWrite(storagemodels.Ref(coll, "B3"), map[string]any{"id": "B3", "name": "x"}, false),
			storagemodels.SetWrite(storagemodels.Ref(coll, "B0"), map[string]any{"id": "B0", "name": "y"}, false),
		})
		if !errors.IsAlreadyExists(err) {
			t.Fatalf("expected already exists, got %v", err)
		}
		if _, err := store.Get(ctx, storagemodels.Ref(coll, "B3")); !errors.IsNotFound(err) {
			t.Fatalf("write of a rejected batch was applied: %v", err)
		}
		doc, err := store.Get(ctx, storagemodels.Ref(coll, "B0"))
		if err != nil || doc.Data["name"] != "existing" {
			t.Fatalf("existing document changed: %#v %v", doc.Data, err)
		}
	})

	t.Run("SameDocumentTwice", func(t *testing.T) {
		err := store.Commit(ctx, []storagemodels.Write{
			storagemodels.SetWrite(storagemodels.Ref(coll, "B4"), map[string]any{"id": "B4", "name": "x"}, true),
			storagemodels.DeleteWrite(storagemodels.Ref(coll, "B0")),
			storagemodels.SetWrite(storagemodels.Ref(coll, "B0"), map[string]any{"id": "B0", "name": "z"}, false),
		})
		if !errors.IsValidationError(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if _, err := store.Get(ctx, storagemodels.Ref(coll, "B4")); !errors.IsNotFound(err) {
			t.Fatalf("write of a rejected batch was applied: %v", err)
		}
		doc, err := store.Get(ctx, storagemodels.Ref(coll, "B0"))
		if err != nil || doc.Data["name"] != "existing" {
			t.Fatalf("existing document changed: %#v %v", doc.Data, err)
		}
	})
}

func testInvalidQuery(t *testing.T, store datastore.DocumentStore) {
	_, err := store.Query(context.Background(), &storagemodels.Query{
		Collection: Collection("invalid"),
		Filters:    []storagemodels.Filter{{Field: "timestamp", Op: storagemodels.Ge, Value: base}},
		Order:      &storagemodels.Order{Field: "name"},
	})
	if !errors.IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	_, err = store.Count(context.Background(), &storagemodels.Query{Collection: "a/b"})
	if !errors.IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
