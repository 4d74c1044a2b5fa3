/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package query

import (
	"testing"
	"time"

	"github.com/suparena/fieldstore/errors"
	"github.com/suparena/fieldstore/schema"
	"github.com/suparena/fieldstore/storagemodels"
)

const (
	eventName   schema.Field = "name"
	eventSite   schema.Field = "siteId"
	eventWhen   schema.Field = "timestamp"
	eventClosed schema.Field = "closed"
)

var eventSchema = &schema.Schema{
	Collection: "events",
	Fields: []schema.FieldSpec{
		{Name: eventName, Kind: schema.KindString},
		{Name: eventSite, Kind: schema.KindString},
		{Name: eventWhen, Kind: schema.KindTime},
		{Name: eventClosed, Kind: schema.KindBool},
	},
	TimeField: eventWhen,
	SortField: eventName,
}

func TestBuilder(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	t.Run("RangeThenOrder", func(t *testing.T) {
		q, err := New(eventSchema).
			OrderBy(eventWhen, storagemodels.Descending).
			Between(eventWhen, start, end).
			Build()
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}
		if len(q.Filters) != 2 {
			t.Fatalf("expected 2 filters, got %d", len(q.Filters))
		}
		if q.Filters[0].Op != storagemodels.Ge || q.Filters[1].Op != storagemodels.Le {
			t.Fatalf("range must be >= then <=, got %v %v", q.Filters[0].Op, q.Filters[1].Op)
		}
		if q.Order == nil || q.Order.Field != "timestamp" || q.Order.Direction != storagemodels.Descending {
			t.Fatalf("unexpected order %+v", q.Order)
		}
		if q.Collection != "events" {
			t.Fatalf("unexpected collection %q", q.Collection)
		}
	})

	t.Run("RangeAndOrderOnDifferentFields", func(t *testing.T) {
		_, err := New(eventSchema).
			Between(eventWhen, start, end).
			OrderBy(eventName, storagemodels.Ascending).
			Build()
		if !errors.IsValidationError(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("EqualityWithOrderOnOtherField", func(t *testing.T) {
		q, err := New(eventSchema).
			Equal(eventSite, "S1").
			OrderBy(eventName, storagemodels.Ascending).
			Build()
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}
		if len(q.Filters) != 1 || q.Filters[0].Value != "S1" {
			t.Fatalf("unexpected filters %+v", q.Filters)
		}
	})

	t.Run("UnknownField", func(t *testing.T) {
		_, err := New(eventSchema).Equal("site", "S1").Build()
		if !errors.IsValidationError(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
		_, err = New(eventSchema).OrderBy("title", storagemodels.Ascending).Build()
		if !errors.IsValidationError(err) {
			t.Fatalf("expected validation error for order, got %v", err)
		}
	})

	t.Run("FirstErrorWins", func(t *testing.T) {
		_, err := New(eventSchema).
			Equal(eventClosed, "yes").
			Equal("missing", 1).
			Build()
		ve, ok := err.(*errors.ValidationError)
		if !ok || ve.Field != "closed" {
			t.Fatalf("expected first error on closed, got %v", err)
		}
	})

	t.Run("NegativeLimit", func(t *testing.T) {
		_, err := New(eventSchema).Limit(-1).Build()
		if !errors.IsValidationError(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("TimeValuesNormalized", func(t *testing.T) {
		local := time.Date(2024, 1, 1, 3, 0, 0, 0, time.FixedZone("X", 3600))
		q, err := New(eventSchema).Where(eventWhen, storagemodels.Gt, local).Build()
		if err != nil {
			t.Fatalf("Build failed: %v", err)
		}
		if v := q.Filters[0].Value.(time.Time); v.Location() != time.UTC {
			t.Fatalf("filter time not UTC: %v", v)
		}
	})
}

func TestFromOptions(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	t.Run("NoOptions", func(t *testing.T) {
		q, err := FromOptions(eventSchema)
		if err != nil {
			t.Fatalf("FromOptions failed: %v", err)
		}
		if len(q.Filters) != 0 || q.Order != nil || q.Limit != 0 {
			t.Fatalf("expected bare collection query, got %+v", q)
		}
	})

	t.Run("RangeAndDescending", func(t *testing.T) {
		q, err := FromOptions(eventSchema, Descending(true), DateRange(start, end))
		if err != nil {
			t.Fatalf("FromOptions failed: %v", err)
		}
		if len(q.Filters) != 2 || q.Filters[0].Field != "timestamp" || q.Filters[0].Op != storagemodels.Ge {
			t.Fatalf("unexpected filters %+v", q.Filters)
		}
		if q.Order == nil || q.Order.Field != "timestamp" || q.Order.Direction != storagemodels.Descending {
			t.Fatalf("order must follow the range field, got %+v", q.Order)
		}
	})

	t.Run("SortWithoutRangeUsesSortField", func(t *testing.T) {
		q, err := FromOptions(eventSchema, Ascending())
		if err != nil {
			t.Fatalf("FromOptions failed: %v", err)
		}
		if q.Order == nil || q.Order.Field != "name" || q.Order.Direction != storagemodels.Ascending {
			t.Fatalf("unexpected order %+v", q.Order)
		}
	})

	t.Run("SortFallsBackToID", func(t *testing.T) {
		bare := &schema.Schema{Collection: "bare"}
		q, err := FromOptions(bare, Descending(false))
		if err != nil {
			t.Fatalf("FromOptions failed: %v", err)
		}
		if q.Order == nil || q.Order.Field != "id" {
			t.Fatalf("expected order on id, got %+v", q.Order)
		}
	})

	t.Run("OpenEndedRange", func(t *testing.T) {
		q, err := FromOptions(eventSchema, Since(start))
		if err != nil {
			t.Fatalf("FromOptions failed: %v", err)
		}
		if len(q.Filters) != 1 || q.Filters[0].Op != storagemodels.Ge || q.Order != nil {
			t.Fatalf("unexpected query %+v", q)
		}

		q, err = FromOptions(eventSchema, Until(end), Descending(true))
		if err != nil {
			t.Fatalf("FromOptions failed: %v", err)
		}
		if len(q.Filters) != 1 || q.Filters[0].Op != storagemodels.Le || q.Order.Field != "timestamp" {
			t.Fatalf("unexpected query %+v", q)
		}
	})

	t.Run("EqualitiesPrecedeRange", func(t *testing.T) {
		q, err := FromOptions(eventSchema,
			DateRange(start, end),
			Equal(eventSite, "S1"),
			Equal(eventClosed, false),
			WithLimit(5),
		)
		if err != nil {
			t.Fatalf("FromOptions failed: %v", err)
		}
		got := []string{}
		for _, f := range q.Filters {
			got = append(got, f.Field+string(f.Op))
		}
		want := []string{"siteId==", "closed==", "timestamp>=", "timestamp<="}
		if len(got) != len(want) {
			t.Fatalf("got %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("got %v, want %v", got, want)
			}
		}
		if q.Limit != 5 {
			t.Fatalf("expected limit 5, got %d", q.Limit)
		}
	})

	t.Run("RangeWithoutTimeField", func(t *testing.T) {
		bare := &schema.Schema{Collection: "bare"}
		_, err := FromOptions(bare, Since(start))
		if !errors.IsValidationError(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}
