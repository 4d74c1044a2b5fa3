/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"

	"github.com/suparena/fieldstore/errors"
	"github.com/suparena/fieldstore/storagemodels"
)

// Payload is a document body keyed by field name.
type Payload map[string]any

// Set stores v under f and returns the payload for chaining.
func (p Payload) Set(f Field, v any) Payload {
	p[string(f)] = v
	return p
}

// TimeLayout is the fixed-width UTC layout used by backends without a native
// timestamp type. Lexical order of formatted values equals chronological order.
const TimeLayout = "2006-01-02T15:04:05.000000000Z"

// TimePrecision is the resolution every backend keeps. Finer times are
// truncated on normalization.
const TimePrecision = time.Microsecond

// FormatTime renders t with TimeLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime parses TimeLayout, falling back to RFC 3339.
func ParseTime(s string) (time.Time, error) {
	if t, err := time.Parse(TimeLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// Normalize converts a payload into the canonical value domain shared by all
// backends: string, bool, int64, float64, UTC time.Time, []any,
// map[string]any and nil. Non-finite floats and unsupported types fail with
// an EncodingError naming the field path.
func Normalize(p map[string]any) (Payload, error) {
	out := make(Payload, len(p))
	for k, v := range p {
		nv, err := normalize(k, v)
		if err != nil {
			return nil, err
		}
		out[k] = nv
	}
	return out, nil
}

// NormalizeDocument is Normalize with the document reference attached to any
// resulting EncodingError.
func NormalizeDocument(ref storagemodels.DocumentRef, p map[string]any) (Payload, error) {
	out, err := Normalize(p)
	if err != nil {
		if ee, ok := err.(*errors.EncodingError); ok {
			ee.Collection, ee.ID = ref.Collection, ref.ID
		}
		return nil, err
	}
	return out, nil
}

// NormalizeValue normalizes a single value.
func NormalizeValue(v any) (any, error) {
	nv, err := normalize("", v)
	if err != nil {
		if ee, ok := err.(*errors.EncodingError); ok {
			return nil, ee.Err
		}
		return nil, err
	}
	return nv, nil
}

func encodeErr(path string, format string, args ...any) error {
	return &errors.EncodingError{Field: path, Err: fmt.Errorf(format, args...)}
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func normalize(path string, v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case string:
		return x, nil
	case bool:
		return x, nil
	case int:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int64:
		return x, nil
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint:
		return normalizeUint(path, uint64(x))
	case uint64:
		return normalizeUint(path, x)
	case float32:
		return normalizeFloat(path, float64(x))
	case float64:
		return normalizeFloat(path, x)
	case time.Time:
		return x.UTC().Truncate(TimePrecision), nil
	case *time.Time:
		if x == nil {
			return nil, nil
		}
		return x.UTC().Truncate(TimePrecision), nil
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i, nil
		}
		f, err := x.Float64()
		if err != nil {
			return nil, encodeErr(path, "invalid number %q", string(x))
		}
		return normalizeFloat(path, f)
	case []byte:
		return nil, encodeErr(path, "binary values are not supported")
	case []string:
		out := make([]any, len(x))
		for i, s := range x {
			out[i] = s
		}
		return out, nil
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			ne, err := normalize(path+"["+strconv.Itoa(i)+"]", e)
			if err != nil {
				return nil, err
			}
			out[i] = ne
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			ne, err := normalize(joinPath(path, k), e)
			if err != nil {
				return nil, err
			}
			out[k] = ne
		}
		return out, nil
	case Payload:
		return normalize(path, map[string]any(x))
	}
	return normalizeReflect(path, reflect.ValueOf(v))
}

// normalizeReflect handles named scalar types, pointers and typed
// slices/maps.
func normalizeReflect(path string, rv reflect.Value) (any, error) {
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), nil
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return normalizeUint(path, rv.Uint())
	case reflect.Float32, reflect.Float64:
		return normalizeFloat(path, rv.Float())
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		return normalize(path, rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil, nil
		}
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			ne, err := normalize(path+"["+strconv.Itoa(i)+"]", rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			out[i] = ne
		}
		return out, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, encodeErr(path, "map keys must be strings, got %s", rv.Type().Key())
		}
		if rv.IsNil() {
			return nil, nil
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := iter.Key().String()
			ne, err := normalize(joinPath(path, k), iter.Value().Interface())
			if err != nil {
				return nil, err
			}
			out[k] = ne
		}
		return out, nil
	}
	return nil, encodeErr(path, "unsupported value type %s", rv.Type())
}

func normalizeUint(path string, u uint64) (any, error) {
	if u > math.MaxInt64 {
		return nil, encodeErr(path, "integer %d overflows int64", u)
	}
	return int64(u), nil
}

func normalizeFloat(path string, f float64) (any, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, encodeErr(path, "non-finite number %v", f)
	}
	return f, nil
}
