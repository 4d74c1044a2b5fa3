/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package query

import (
	"fmt"

	"github.com/suparena/fieldstore/errors"
	"github.com/suparena/fieldstore/schema"
	"github.com/suparena/fieldstore/storagemodels"
)

// Builder provides a fluent interface for building a Query Descriptor over
// one collection. Field names and values are checked against the collection
// schema; the first problem is reported by Build.
type Builder struct {
	schema  *schema.Schema
	filters []storagemodels.Filter
	order   *storagemodels.Order
	limit   int
	err     error
}

// New creates a builder for the collection described by s.
func New(s *schema.Schema) *Builder {
	return &Builder{schema: s}
}

// Where adds a filter clause.
func (b *Builder) Where(field schema.Field, op storagemodels.Operator, value any) *Builder {
	if b.err != nil {
		return b
	}
	if !op.Valid() {
		b.err = errors.NewValidationError(string(field), fmt.Sprintf("unsupported operator %q", op))
		return b
	}
	v, err := b.schema.FilterValue(string(field), op, value)
	if err != nil {
		b.err = err
		return b
	}
	b.filters = append(b.filters, storagemodels.Filter{Field: string(field), Op: op, Value: v})
	return b
}

// Equal adds an equality filter.
func (b *Builder) Equal(field schema.Field, value any) *Builder {
	return b.Where(field, storagemodels.Eq, value)
}

// Between adds the inclusive range start <= field <= end, in that order.
func (b *Builder) Between(field schema.Field, start, end any) *Builder {
	return b.Where(field, storagemodels.Ge, start).Where(field, storagemodels.Le, end)
}

// OrderBy sets the sort clause. A later call replaces an earlier one.
func (b *Builder) OrderBy(field schema.Field, dir storagemodels.Direction) *Builder {
	if b.err != nil {
		return b
	}
	if _, ok := b.schema.Lookup(string(field)); !ok {
		b.err = errors.NewValidationError(string(field), "unknown field in collection "+b.schema.Collection)
		return b
	}
	b.order = &storagemodels.Order{Field: string(field), Direction: dir}
	return b
}

// Limit caps the number of documents returned. Zero means no limit.
func (b *Builder) Limit(n int) *Builder {
	b.limit = n
	return b
}

// Build constructs the final descriptor. Filters always precede the order
// clause; a range filter and an order on different fields are rejected.
func (b *Builder) Build() (*storagemodels.Query, error) {
	if b.err != nil {
		return nil, b.err
	}
	q := &storagemodels.Query{
		Collection: b.schema.Collection,
		Filters:    append([]storagemodels.Filter(nil), b.filters...),
		Limit:      b.limit,
	}
	if b.order != nil {
		o := *b.order
		q.Order = &o
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}
