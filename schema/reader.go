/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/suparena/fieldstore/errors"
)

// Reader decodes typed values out of a payload. It accepts every wire form a
// backend can hand back (times as time.Time or TimeLayout strings, numbers as
// int64, float64 or json.Number). The first mismatch is kept and reported by
// Err; later reads become no-ops returning zero values.
type Reader struct {
	collection string
	id         string
	data       map[string]any
	err        error
}

// NewReader creates a Reader over data for the document collection/id.
func NewReader(collection, id string, data map[string]any) *Reader {
	return &Reader{collection: collection, id: id, data: data}
}

// ID returns the document id the reader was created for.
func (r *Reader) ID() string { return r.id }

// Err returns the first decoding failure as a DecodingError.
func (r *Reader) Err() error { return r.err }

func (r *Reader) fail(f Field, format string, args ...any) {
	if r.err == nil {
		r.err = errors.NewDecodingError(r.collection, r.id, string(f), fmt.Errorf(format, args...))
	}
}

func (r *Reader) value(f Field, required bool) (any, bool) {
	if r.err != nil {
		return nil, false
	}
	v, ok := r.data[string(f)]
	if !ok || v == nil {
		if required {
			r.fail(f, "missing required field")
		}
		return nil, false
	}
	return v, true
}

// String reads a required string field.
func (r *Reader) String(f Field) string { return r.str(f, true) }

// OptString reads an optional string field.
func (r *Reader) OptString(f Field) string { return r.str(f, false) }

func (r *Reader) str(f Field, required bool) string {
	v, ok := r.value(f, required)
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		r.fail(f, "expected string, got %T", v)
	}
	return s
}

// Bool reads a required bool field.
func (r *Reader) Bool(f Field) bool { return r.boolean(f, true) }

// OptBool reads an optional bool field.
func (r *Reader) OptBool(f Field) bool { return r.boolean(f, false) }

func (r *Reader) boolean(f Field, required bool) bool {
	v, ok := r.value(f, required)
	if !ok {
		return false
	}
	b, ok := v.(bool)
	if !ok {
		r.fail(f, "expected bool, got %T", v)
	}
	return b
}

// Int reads a required integer field.
func (r *Reader) Int(f Field) int64 { return r.integer(f, true) }

// OptInt reads an optional integer field.
func (r *Reader) OptInt(f Field) int64 { return r.integer(f, false) }

func (r *Reader) integer(f Field, required bool) int64 {
	v, ok := r.value(f, required)
	if !ok {
		return 0
	}
	switch x := v.(type) {
	case int64:
		return x
	case int:
		return int64(x)
	case float64:
		if x != math.Trunc(x) || x >= math.MaxInt64 || x < math.MinInt64 {
			r.fail(f, "expected integer, got %v", x)
			return 0
		}
		return int64(x)
	case json.Number:
		i, err := x.Int64()
		if err != nil {
			r.fail(f, "expected integer, got %q", string(x))
		}
		return i
	}
	r.fail(f, "expected integer, got %T", v)
	return 0
}

// Float reads a required number field.
func (r *Reader) Float(f Field) float64 { return r.float(f, true) }

// OptFloat reads an optional number field.
func (r *Reader) OptFloat(f Field) float64 { return r.float(f, false) }

func (r *Reader) float(f Field, required bool) float64 {
	v, ok := r.value(f, required)
	if !ok {
		return 0
	}
	switch x := v.(type) {
	case float64:
		return x
	case int64:
		return float64(x)
	case int:
		return float64(x)
	case json.Number:
		n, err := x.Float64()
		if err != nil {
			r.fail(f, "expected number, got %q", string(x))
		}
		return n
	}
	r.fail(f, "expected number, got %T", v)
	return 0
}

// Time reads a required timestamp field.
func (r *Reader) Time(f Field) time.Time { return r.timestamp(f, true) }

// OptTime reads an optional timestamp field.
func (r *Reader) OptTime(f Field) time.Time { return r.timestamp(f, false) }

func (r *Reader) timestamp(f Field, required bool) time.Time {
	v, ok := r.value(f, required)
	if !ok {
		return time.Time{}
	}
	switch x := v.(type) {
	case time.Time:
		return x.UTC()
	case string:
		t, err := ParseTime(x)
		if err != nil {
			r.fail(f, "invalid timestamp %q", x)
		}
		return t
	}
	r.fail(f, "expected timestamp, got %T", v)
	return time.Time{}
}

// Strings reads an optional string array field.
func (r *Reader) Strings(f Field) []string {
	v, ok := r.value(f, false)
	if !ok {
		return nil
	}
	switch x := v.(type) {
	case []string:
		return append([]string(nil), x...)
	case []any:
		out := make([]string, 0, len(x))
		for i, e := range x {
			s, ok := e.(string)
			if !ok {
				r.fail(f, "element %d: expected string, got %T", i, e)
				return nil
			}
			out = append(out, s)
		}
		return out
	}
	r.fail(f, "expected string array, got %T", v)
	return nil
}
