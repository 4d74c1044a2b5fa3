/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package schema

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/suparena/fieldstore/errors"
	"github.com/suparena/fieldstore/storagemodels"
)

type widgetKind string

type widget struct {
	ID      string
	Name    string
	Count   int
	Weight  float64
	Made    time.Time
	Tags    []string
	Enabled bool
}

const (
	widgetName    Field = "name"
	widgetCount   Field = "count"
	widgetWeight  Field = "weight"
	widgetMade    Field = "made"
	widgetTags    Field = "tags"
	widgetEnabled Field = "enabled"
)

var widgetSchema = &Schema{
	Collection: "widgets",
	Fields: []FieldSpec{
		{Name: FieldID, Kind: KindString},
		{Name: widgetName, Kind: KindString},
		{Name: widgetCount, Kind: KindInt},
		{Name: widgetWeight, Kind: KindFloat},
		{Name: widgetMade, Kind: KindTime},
		{Name: widgetTags, Kind: KindStrings},
		{Name: widgetEnabled, Kind: KindBool},
	},
	TimeField: widgetMade,
	SortField: widgetName,
}

var widgetCodec = NewCodec[widget](widgetSchema,
	func(w widget) string { return w.ID },
	func(w widget, p Payload) error {
		if w.Name == "" {
			return errors.NewValidationError(string(widgetName), "name is required")
		}
		p.Set(widgetName, w.Name).
			Set(widgetCount, w.Count).
			Set(widgetWeight, w.Weight).
			Set(widgetMade, w.Made).
			Set(widgetTags, w.Tags).
			Set(widgetEnabled, w.Enabled)
		return nil
	},
	func(r *Reader) widget {
		return widget{
			ID:      r.ID(),
			Name:    r.String(widgetName),
			Count:   int(r.Int(widgetCount)),
			Weight:  r.Float(widgetWeight),
			Made:    r.Time(widgetMade),
			Tags:    r.Strings(widgetTags),
			Enabled: r.OptBool(widgetEnabled),
		}
	},
)

func TestNormalize(t *testing.T) {
	t.Run("CanonicalTypes", func(t *testing.T) {
		loc := time.FixedZone("PST", -8*3600)
		made := time.Date(2024, 3, 1, 9, 30, 0, 0, loc)
		p, err := Normalize(map[string]any{
			"i":     int32(7),
			"u":     uint16(3),
			"f":     float32(1.5),
			"t":     made,
			"named": widgetKind("lab"),
			"tags":  []string{"a", "b"},
			"nest":  map[string]int{"x": 1},
			"num":   json.Number("42"),
			"nil":   nil,
		})
		if err != nil {
			t.Fatalf("Normalize failed: %v", err)
		}
		if p["i"] != int64(7) || p["u"] != int64(3) || p["f"] != 1.5 || p["num"] != int64(42) {
			t.Fatalf("numbers not canonical: %#v", p)
		}
		if got := p["t"].(time.Time); got.Location() != time.UTC || !got.Equal(made) {
			t.Fatalf("time not converted to UTC: %v", got)
		}
		if p["named"] != "lab" {
			t.Fatalf("named string not converted: %#v", p["named"])
		}
		if tags := p["tags"].([]any); len(tags) != 2 || tags[1] != "b" {
			t.Fatalf("tags not converted: %#v", p["tags"])
		}
		if nest := p["nest"].(map[string]any); nest["x"] != int64(1) {
			t.Fatalf("nested map not converted: %#v", p["nest"])
		}
	})

	t.Run("TruncatesToMicroseconds", func(t *testing.T) {
		at := time.Date(2024, 3, 4, 5, 6, 7, 123456789, time.UTC)
		p, err := Normalize(map[string]any{"t": at, "pt": &at})
		if err != nil {
			t.Fatalf("Normalize failed: %v", err)
		}
		want := time.Date(2024, 3, 4, 5, 6, 7, 123456000, time.UTC)
		for _, k := range []string{"t", "pt"} {
			if got := p[k].(time.Time); !got.Equal(want) {
				t.Fatalf("%s: got %v, want %v", k, got, want)
			}
		}
	})

	t.Run("RejectsNonFinite", func(t *testing.T) {
		_, err := Normalize(map[string]any{"loc": map[string]any{"lat": math.NaN()}})
		if !errors.IsEncodingError(err) {
			t.Fatalf("expected encoding error, got %v", err)
		}
		if ee := err.(*errors.EncodingError); ee.Field != "loc.lat" {
			t.Fatalf("expected field path loc.lat, got %q", ee.Field)
		}
	})

	t.Run("RejectsUnsupported", func(t *testing.T) {
		cases := map[string]any{
			"chan":   make(chan int),
			"func":   func() {},
			"bytes":  []byte("x"),
			"struct": struct{ A int }{1},
			"intmap": map[int]string{1: "a"},
			"huge":   uint64(math.MaxUint64),
		}
		for name, v := range cases {
			t.Run(name, func(t *testing.T) {
				_, err := NormalizeDocument(storagemodels.Ref("widgets", "W1"), map[string]any{"v": v})
				if !errors.IsEncodingError(err) {
					t.Fatalf("expected encoding error, got %v", err)
				}
				ee := err.(*errors.EncodingError)
				if ee.Collection != "widgets" || ee.ID != "W1" {
					t.Fatalf("reference not attached: %+v", ee)
				}
			})
		}
	})
}

func TestTimeLayoutOrdering(t *testing.T) {
	a := time.Date(2024, 1, 1, 10, 0, 0, 5, time.UTC)
	b := time.Date(2024, 1, 1, 10, 0, 0, 500000000, time.UTC)
	c := time.Date(2024, 1, 1, 5, 0, 1, 0, time.FixedZone("EST", -5*3600))

	fa, fb, fc := FormatTime(a), FormatTime(b), FormatTime(c)
	if !(fa < fb && fb < fc) {
		t.Fatalf("lexical order broken: %s %s %s", fa, fb, fc)
	}
	parsed, err := ParseTime(fc)
	if err != nil || !parsed.Equal(c) {
		t.Fatalf("ParseTime(%q) = %v, %v", fc, parsed, err)
	}
	if _, err := ParseTime("2024-01-01T10:00:00+02:00"); err != nil {
		t.Fatalf("RFC 3339 fallback failed: %v", err)
	}
}

func TestCodecRoundTrip(t *testing.T) {
	w := widget{
		ID:      "W1",
		Name:    "Clark",
		Count:   3,
		Weight:  2.25,
		Made:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Tags:    []string{"lab"},
		Enabled: true,
	}
	p, err := widgetCodec.Encode(w)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if p[string(FieldID)] != "W1" {
		t.Fatalf("id not embedded: %#v", p)
	}

	got, err := widgetCodec.Decode("W1", p)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got.ID != w.ID || got.Name != w.Name || got.Count != w.Count || got.Weight != w.Weight ||
		!got.Made.Equal(w.Made) || len(got.Tags) != 1 || got.Tags[0] != "lab" || !got.Enabled {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestCodecWireForms(t *testing.T) {
	// Shapes produced by JSON and DynamoDB backends.
	data := map[string]any{
		"name":   "Clark",
		"count":  float64(3),
		"weight": json.Number("2.5"),
		"made":   "2024-05-01T12:00:00.000000000Z",
		"tags":   []any{"a"},
	}
	got, err := widgetCodec.Decode("W1", data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got.Count != 3 || got.Weight != 2.5 || got.Made.Hour() != 12 {
		t.Fatalf("wire forms not decoded: %+v", got)
	}
}

func TestCodecErrors(t *testing.T) {
	t.Run("EncodeValidation", func(t *testing.T) {
		_, err := widgetCodec.Encode(widget{ID: "W2"})
		if !errors.IsEncodingError(err) {
			t.Fatalf("expected encoding error, got %v", err)
		}
		ee := err.(*errors.EncodingError)
		if ee.Collection != "widgets" || ee.ID != "W2" || ee.Field != "name" {
			t.Fatalf("unexpected error detail: %+v", ee)
		}
	})

	t.Run("EncodeNonFinite", func(t *testing.T) {
		_, err := widgetCodec.Encode(widget{ID: "W3", Name: "x", Weight: math.Inf(1)})
		if !errors.IsEncodingError(err) {
			t.Fatalf("expected encoding error, got %v", err)
		}
	})

	t.Run("DecodeMissing", func(t *testing.T) {
		_, err := widgetCodec.Decode("W4", map[string]any{"name": "x"})
		if !errors.IsDecodingError(err) {
			t.Fatalf("expected decoding error, got %v", err)
		}
	})

	t.Run("DecodeWrongType", func(t *testing.T) {
		_, err := widgetCodec.Decode("W5", map[string]any{
			"name": "x", "count": "three", "weight": 1.0, "made": time.Now(),
		})
		if !errors.IsDecodingError(err) {
			t.Fatalf("expected decoding error, got %v", err)
		}
		if de := err.(*errors.DecodingError); de.Field != "count" {
			t.Fatalf("expected first failing field count, got %q", de.Field)
		}
	})
}

func TestSchemaFilterValue(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		op      storagemodels.Operator
		value   any
		wantErr bool
	}{
		{"string eq", "name", storagemodels.Eq, "Clark", false},
		{"int range", "count", storagemodels.Ge, 2, false},
		{"float accepts int", "weight", storagemodels.Lt, 3, false},
		{"time range", "made", storagemodels.Le, time.Now(), false},
		{"id", "id", storagemodels.Eq, "W1", false},
		{"unknown field", "colour", storagemodels.Eq, "red", true},
		{"kind mismatch", "count", storagemodels.Eq, "two", true},
		{"bool range", "enabled", storagemodels.Gt, true, true},
		{"array field", "tags", storagemodels.Eq, "lab", true},
		{"nil value", "name", storagemodels.Eq, nil, true},
		{"nan", "weight", storagemodels.Eq, math.NaN(), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := widgetSchema.FilterValue(tt.field, tt.op, tt.value)
			if tt.wantErr {
				if !errors.IsValidationError(err) {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestSchemaValidate(t *testing.T) {
	bad := []*Schema{
		{Collection: ""},
		{Collection: "a/b"},
		{Collection: "x", Fields: []FieldSpec{{Name: "a"}, {Name: "a"}}},
		{Collection: "x", Fields: []FieldSpec{{Name: "a", Kind: KindString}}, TimeField: "a"},
		{Collection: "x", SortField: "missing"},
	}
	for i, s := range bad {
		if err := s.Validate(); !errors.IsValidationError(err) {
			t.Errorf("schema %d: expected validation error, got %v", i, err)
		}
	}
	if err := widgetSchema.Validate(); err != nil {
		t.Fatalf("widget schema invalid: %v", err)
	}
}

func TestReaderIntBounds(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		want int64
		ok   bool
	}{
		{"whole", 42, 42, true},
		{"negative", -7, -7, true},
		{"min", math.MinInt64, math.MinInt64, true},
		{"fraction", 1.5, 0, false},
		{"two to the 63", 1 << 63, 0, false},
		{"beyond", 1e19, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader("widgets", "W1", map[string]any{"n": tt.v})
			got := r.Int("n")
			if tt.ok {
				if r.Err() != nil || got != tt.want {
					t.Fatalf("Int = %d, %v; want %d", got, r.Err(), tt.want)
				}
				return
			}
			if !errors.IsDecodingError(r.Err()) {
				t.Fatalf("expected decoding error, got %d, %v", got, r.Err())
			}
		})
	}
}
