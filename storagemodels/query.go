/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"fmt"

	"github.com/suparena/fieldstore/errors"
)

// Operator is a filter comparison operator.
type Operator string

const (
	Eq Operator = "=="
	Lt Operator = "<"
	Le Operator = "<="
	Gt Operator = ">"
	Ge Operator = ">="
)

// IsRange reports whether the operator is an inequality.
func (o Operator) IsRange() bool {
	switch o {
	case Lt, Le, Gt, Ge:
		return true
	}
	return false
}

// Valid reports whether the operator is supported.
func (o Operator) Valid() bool {
	return o == Eq || o.IsRange()
}

// Direction is a sort direction.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// Filter is one {field, operator, value} clause.
type Filter struct {
	Field string
	Op    Operator
	Value any
}

// Order is the optional sort clause.
type Order struct {
	Field     string
	Direction Direction
}

// Query is a Query Descriptor: filters are evaluated before the order clause.
// A zero Limit means no limit.
type Query struct {
	Collection string
	Filters    []Filter
	Order      *Order
	Limit      int
}

// Validate checks the descriptor invariants: supported operators, a single
// range field, and, when both are present, the range field and the order
// field must be the same.
func (q *Query) Validate() error {
	if q == nil {
		return errors.NewValidationError("", "query is nil")
	}
	if err := ValidateCollection(q.Collection); err != nil {
		return err
	}
	if q.Limit < 0 {
		return errors.NewValidationError("limit", "limit must not be negative")
	}
	rangeField := ""
	for _, f := range q.Filters {
		if f.Field == "" {
			return errors.NewValidationError("", "filter field is required")
		}
		if !f.Op.Valid() {
			return errors.NewValidationError(f.Field, fmt.Sprintf("unsupported operator %q", f.Op))
		}
		if !f.Op.IsRange() {
			continue
		}
		if rangeField != "" && rangeField != f.Field {
			return errors.NewValidationError(f.Field,
				fmt.Sprintf("range filters on %q and %q cannot be combined", rangeField, f.Field))
		}
		rangeField = f.Field
	}
	if q.Order != nil {
		if q.Order.Field == "" {
			return errors.NewValidationError("", "order field is required")
		}
		if rangeField != "" && rangeField != q.Order.Field {
			return errors.NewValidationError(q.Order.Field,
				fmt.Sprintf("order on %q conflicts with range filter on %q", q.Order.Field, rangeField))
		}
	}
	return nil
}

// RangeField returns the field carrying range filters, if any.
func (q *Query) RangeField() string {
	for _, f := range q.Filters {
		if f.Op.IsRange() {
			return f.Field
		}
	}
	return ""
}
