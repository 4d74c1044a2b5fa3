/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/suparena/fieldstore/datastore/mock"
	"github.com/suparena/fieldstore/errors"
	"github.com/suparena/fieldstore/models"
	"github.com/suparena/fieldstore/storagemodels"
)

func TestParseQuery(t *testing.T) {
	t.Run("RangeAndWhere", func(t *testing.T) {
		q, err := parseQuery(models.IssueSchema, "list", []string{
			"-where", "siteId=S1",
			"-where", "resolved=false",
			"-from", "2024-01-01T00:00:00Z",
			"-to", "2024-02-01T00:00:00Z",
			"-desc",
			"-limit", "5",
		})
		if err != nil {
			t.Fatalf("parseQuery failed: %v", err)
		}
		if len(q.Filters) != 4 {
			t.Fatalf("expected 4 filters, got %+v", q.Filters)
		}
		if q.Filters[1].Value != false {
			t.Fatalf("bool filter not typed: %#v", q.Filters[1].Value)
		}
		if q.Filters[2].Op != storagemodels.Ge || q.Filters[3].Op != storagemodels.Le {
			t.Fatalf("range filters out of order: %+v", q.Filters)
		}
		if q.Order == nil || q.Order.Field != "timestamp" || q.Order.Direction != storagemodels.Descending {
			t.Fatalf("unexpected order %+v", q.Order)
		}
		if q.Limit != 5 {
			t.Fatalf("unexpected limit %d", q.Limit)
		}
	})

	t.Run("IntField", func(t *testing.T) {
		q, err := parseQuery(models.SiteSchema, "count", []string{"-where", "chairCount=12", "-asc"})
		if err != nil {
			t.Fatal(err)
		}
		if q.Filters[0].Value != int64(12) || q.Order.Field != "name" {
			t.Fatalf("unexpected query %+v", q)
		}
	})

	t.Run("Errors", func(t *testing.T) {
		bad := [][]string{
			{"-where", "nofield"},
			{"-where", "colour=red"},
			{"-where", "resolved=maybe"},
			{"-from", "yesterday"},
			{"-desc", "-asc"},
			{"extra"},
		}
		for _, args := range bad {
			if _, err := parseQuery(models.IssueSchema, "list", args); err == nil {
				t.Errorf("expected error for %v", args)
			}
		}
	})
}

func TestDispatch(t *testing.T) {
	ctx := context.Background()
	store := mock.New()
	at := time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC)
	p, err := models.IssueCodec.Encode(models.Issue{ID: "I1", SiteID: "S1", Timestamp: at})
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Set(ctx, storagemodels.Ref("issues", "I1"), p, false); err != nil {
		t.Fatal(err)
	}

	t.Run("Get", func(t *testing.T) {
		var buf bytes.Buffer
		if err := dispatch(ctx, store, []string{"get", "issues", "I1"}, &buf); err != nil {
			t.Fatal(err)
		}
		var got map[string]any
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatal(err)
		}
		if got["siteId"] != "S1" || got["timestamp"] != "2024-04-01T10:00:00Z" {
			t.Fatalf("unexpected output %v", got)
		}
	})

	t.Run("ListAndCount", func(t *testing.T) {
		var buf bytes.Buffer
		if err := dispatch(ctx, store, []string{"list", "issues", "-where", "siteId=S1", "-desc"}, &buf); err != nil {
			t.Fatal(err)
		}
		var docs []map[string]any
		if err := json.Unmarshal(buf.Bytes(), &docs); err != nil || len(docs) != 1 {
			t.Fatalf("list output %s, %v", buf.String(), err)
		}

		buf.Reset()
		if err := dispatch(ctx, store, []string{"count", "issues", "-where", "siteId=S2"}, &buf); err != nil {
			t.Fatal(err)
		}
		var count map[string]int64
		if err := json.Unmarshal(buf.Bytes(), &count); err != nil || count["count"] != 0 {
			t.Fatalf("count output %s, %v", buf.String(), err)
		}
	})

	t.Run("NewIDAndDelete", func(t *testing.T) {
		var buf bytes.Buffer
		if err := dispatch(ctx, store, []string{"new-id", "sites"}, &buf); err != nil {
			t.Fatal(err)
		}
		buf.Reset()
		if err := dispatch(ctx, store, []string{"delete", "issues", "I1"}, &buf); err != nil {
			t.Fatal(err)
		}
		err := dispatch(ctx, store, []string{"get", "issues", "I1"}, &buf)
		if !errors.IsNotFound(err) {
			t.Fatalf("expected not found, got %v", err)
		}
	})

	t.Run("Unknown", func(t *testing.T) {
		var buf bytes.Buffer
		if err := dispatch(ctx, store, []string{"get", "planets", "p1"}, &buf); err == nil {
			t.Fatal("expected unknown collection error")
		}
		if err := dispatch(ctx, store, []string{"frobnicate"}, &buf); err == nil {
			t.Fatal("expected unknown command error")
		}
	})
}
