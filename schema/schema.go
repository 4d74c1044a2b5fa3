/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package schema

import (
	"fmt"
	"time"

	"github.com/suparena/fieldstore/errors"
	"github.com/suparena/fieldstore/storagemodels"
)

// Field is a document field name. Entities declare their fields once as
// Field constants and use them in the encoder, the decoder and every query.
type Field string

func (f Field) String() string { return string(f) }

// FieldID is carried by every payload so that ordering by id works on every
// backend.
const FieldID Field = "id"

// Kind is the value kind a field holds.
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindInt
	KindFloat
	KindTime
	KindStrings
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindTime:
		return "time"
	case KindStrings:
		return "[]string"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// FieldSpec declares one field of a collection.
type FieldSpec struct {
	Name Field
	Kind Kind
}

// Schema describes one collection: its fields, the timestamp field used for
// date-range queries and the field used for default ordering.
type Schema struct {
	Collection string
	Fields     []FieldSpec
	TimeField  Field
	SortField  Field
}

// Lookup returns the spec of a field. FieldID is always known.
func (s *Schema) Lookup(name string) (FieldSpec, bool) {
	for _, f := range s.Fields {
		if string(f.Name) == name {
			return f, true
		}
	}
	if name == string(FieldID) {
		return FieldSpec{Name: FieldID, Kind: KindString}, true
	}
	return FieldSpec{}, false
}

// Validate checks the schema declaration itself.
func (s *Schema) Validate() error {
	if err := storagemodels.ValidateCollection(s.Collection); err != nil {
		return err
	}
	seen := make(map[Field]bool, len(s.Fields))
	for _, f := range s.Fields {
		if f.Name == "" {
			return errors.NewValidationError("", "schema "+s.Collection+" has an unnamed field")
		}
		if seen[f.Name] {
			return errors.NewValidationError(string(f.Name), "duplicate field in schema "+s.Collection)
		}
		seen[f.Name] = true
	}
	if s.TimeField != "" {
		spec, ok := s.Lookup(string(s.TimeField))
		if !ok || spec.Kind != KindTime {
			return errors.NewValidationError(string(s.TimeField), "time field must be a declared time field")
		}
	}
	if s.SortField != "" {
		if _, ok := s.Lookup(string(s.SortField)); !ok {
			return errors.NewValidationError(string(s.SortField), "sort field is not declared")
		}
	}
	return nil
}

// FilterValue normalizes a filter value and checks it against the field kind.
// Array fields cannot be filtered on.
func (s *Schema) FilterValue(field string, op storagemodels.Operator, v any) (any, error) {
	spec, ok := s.Lookup(field)
	if !ok {
		return nil, errors.NewValidationError(field, "unknown field in collection "+s.Collection)
	}
	nv, err := NormalizeValue(v)
	if err != nil {
		return nil, errors.NewValidationError(field, err.Error())
	}
	if nv == nil {
		return nil, errors.NewValidationError(field, "filter value must not be nil")
	}
	okKind := false
	switch spec.Kind {
	case KindString:
		_, okKind = nv.(string)
	case KindBool:
		_, okKind = nv.(bool)
		if okKind && op != storagemodels.Eq {
			return nil, errors.NewValidationError(field, "bool fields only support ==")
		}
	case KindInt, KindFloat:
		switch nv.(type) {
		case int64, float64:
			okKind = true
		}
	case KindTime:
		_, okKind = nv.(time.Time)
	case KindStrings:
		return nil, errors.NewValidationError(field, "array fields cannot be filtered")
	}
	if !okKind {
		return nil, errors.NewValidationError(field,
			fmt.Sprintf("value of type %T does not match %s field", v, spec.Kind))
	}
	return nv, nil
}
