/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package schema

import (
	"github.com/suparena/fieldstore/errors"
	"github.com/suparena/fieldstore/storagemodels"
)

// Codec converts between an entity type and its stored payload.
type Codec[T any] interface {
	Schema() *Schema
	ID(entity T) string
	Encode(entity T) (Payload, error)
	Decode(id string, data map[string]any) (T, error)
}

// EncodeFunc writes an entity's fields into p. Returning an error rejects the
// entity; the error is reported as an EncodingError.
type EncodeFunc[T any] func(entity T, p Payload) error

// DecodeFunc reads an entity from r. Field errors are collected by r.
type DecodeFunc[T any] func(r *Reader) T

type funcCodec[T any] struct {
	schema *Schema
	id     func(T) string
	encode EncodeFunc[T]
	decode DecodeFunc[T]
}

// NewCodec builds a Codec from per-entity functions. Encode always stores the
// entity id under FieldID and normalizes the payload; Decode reports the first
// field mismatch as a DecodingError.
func NewCodec[T any](s *Schema, id func(T) string, encode EncodeFunc[T], decode DecodeFunc[T]) Codec[T] {
	if err := s.Validate(); err != nil {
		panic("schema: " + err.Error())
	}
	return &funcCodec[T]{schema: s, id: id, encode: encode, decode: decode}
}

func (c *funcCodec[T]) Schema() *Schema { return c.schema }

func (c *funcCodec[T]) ID(entity T) string { return c.id(entity) }

func (c *funcCodec[T]) Encode(entity T) (Payload, error) {
	id := c.id(entity)
	p := Payload{string(FieldID): id}
	if err := c.encode(entity, p); err != nil {
		if errors.IsEncodingError(err) {
			return nil, err
		}
		field := ""
		if ve, ok := err.(*errors.ValidationError); ok {
			field = ve.Field
		}
		return nil, errors.NewEncodingError(c.schema.Collection, id, field, err)
	}
	return NormalizeDocument(storagemodels.Ref(c.schema.Collection, id), p)
}

func (c *funcCodec[T]) Decode(id string, data map[string]any) (T, error) {
	r := NewReader(c.schema.Collection, id, data)
	entity := c.decode(r)
	if err := r.Err(); err != nil {
		var zero T
		return zero, err
	}
	return entity, nil
}
