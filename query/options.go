/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package query

import (
	"time"

	"github.com/suparena/fieldstore/errors"
	"github.com/suparena/fieldstore/schema"
	"github.com/suparena/fieldstore/storagemodels"
)

// Options are the optional caller parameters of a list or count call.
type Options struct {
	Direction *storagemodels.Direction
	Start     *time.Time
	End       *time.Time
	Equals    []Equality
	Limit     int
}

// Equality is one extra equality filter (site, category, user, ...).
type Equality struct {
	Field schema.Field
	Value any
}

// Option is a functional option for list and count calls
type Option func(*Options)

// Descending sets the sort direction: newest (or Z..A) first when true.
func Descending(desc bool) Option {
	return func(o *Options) {
		d := storagemodels.Ascending
		if desc {
			d = storagemodels.Descending
		}
		o.Direction = &d
	}
}

// Ascending is Descending(false).
func Ascending() Option {
	return Descending(false)
}

// DateRange restricts the schema time field to [start, end].
func DateRange(start, end time.Time) Option {
	return func(o *Options) {
		o.Start = &start
		o.End = &end
	}
}

// Since restricts the schema time field to values >= start.
func Since(start time.Time) Option {
	return func(o *Options) {
		o.Start = &start
	}
}

// Until restricts the schema time field to values <= end.
func Until(end time.Time) Option {
	return func(o *Options) {
		o.End = &end
	}
}

// Equal adds an equality filter.
func Equal(field schema.Field, value any) Option {
	return func(o *Options) {
		o.Equals = append(o.Equals, Equality{Field: field, Value: value})
	}
}

// WithLimit caps the number of results.
func WithLimit(n int) Option {
	return func(o *Options) {
		o.Limit = n
	}
}

// Apply collects opts into an Options value.
func Apply(opts ...Option) Options {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// FromOptions builds the descriptor for a list or count call over the
// collection described by s:
//  1. equality filters, in the order given;
//  2. a date range on the schema time field, >= then <=;
//  3. a sort on the time field when a range applies, otherwise on the schema
//     sort field (the id when the schema has none).
//
// With no options the result is the unfiltered, unordered collection.
func FromOptions(s *schema.Schema, opts ...Option) (*storagemodels.Query, error) {
	o := Apply(opts...)
	b := New(s)
	for _, eq := range o.Equals {
		b.Equal(eq.Field, eq.Value)
	}

	ranged := o.Start != nil || o.End != nil
	if ranged {
		if s.TimeField == "" {
			return nil, errors.NewValidationError("", "collection "+s.Collection+" has no time field for date ranges")
		}
		if o.Start != nil {
			b.Where(s.TimeField, storagemodels.Ge, *o.Start)
		}
		if o.End != nil {
			b.Where(s.TimeField, storagemodels.Le, *o.End)
		}
	}

	if o.Direction != nil {
		field := s.SortField
		if ranged {
			field = s.TimeField
		}
		if field == "" {
			field = schema.FieldID
		}
		b.OrderBy(field, *o.Direction)
	}

	return b.Limit(o.Limit).Build()
}
