/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package eval holds the query evaluation rules shared by backends that
// filter or order documents in process.
package eval

import (
	"sort"
	"strings"
	"time"

	"github.com/suparena/fieldstore/storagemodels"
)

// Compare orders two canonical values. ok is false when the values are of
// kinds that cannot be compared (a string and a number, say); numbers compare
// across int64 and float64.
func Compare(a, b any) (c int, ok bool) {
	switch x := a.(type) {
	case string:
		y, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(x, y), true
	case int64:
		switch y := b.(type) {
		case int64:
			return cmpInt(x, y), true
		case float64:
			return cmpFloat(float64(x), y), true
		}
	case float64:
		switch y := b.(type) {
		case int64:
			return cmpFloat(x, float64(y)), true
		case float64:
			return cmpFloat(x, y), true
		}
	case time.Time:
		y, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		return x.Compare(y), true
	case bool:
		y, ok := b.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case x == y:
			return 0, true
		case !x:
			return -1, true
		}
		return 1, true
	}
	return 0, false
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Matches reports whether data satisfies f. Missing fields and values of a
// different kind never match.
func Matches(data map[string]any, f storagemodels.Filter) bool {
	v, ok := data[f.Field]
	if !ok || v == nil {
		return false
	}
	c, ok := Compare(v, f.Value)
	if !ok {
		return false
	}
	switch f.Op {
	case storagemodels.Eq:
		return c == 0
	case storagemodels.Lt:
		return c < 0
	case storagemodels.Le:
		return c <= 0
	case storagemodels.Gt:
		return c > 0
	case storagemodels.Ge:
		return c >= 0
	}
	return false
}

// MatchesAll reports whether data satisfies every filter.
func MatchesAll(data map[string]any, filters []storagemodels.Filter) bool {
	for _, f := range filters {
		if !Matches(data, f) {
			return false
		}
	}
	return true
}

// Filter keeps the documents matching every filter.
func Filter(docs []storagemodels.Document, filters []storagemodels.Filter) []storagemodels.Document {
	out := docs[:0:0]
	for _, d := range docs {
		if MatchesAll(d.Data, filters) {
			out = append(out, d)
		}
	}
	return out
}

// OrderAndLimit applies the order clause and limit of q to docs that already
// passed the filters. Documents lacking the order field are dropped; ties and
// unordered queries fall back to id order.
func OrderAndLimit(docs []storagemodels.Document, q *storagemodels.Query) []storagemodels.Document {
	if q.Order != nil {
		kept := docs[:0:0]
		for _, d := range docs {
			if v, ok := d.Data[q.Order.Field]; ok && v != nil {
				kept = append(kept, d)
			}
		}
		docs = kept
	}
	sort.SliceStable(docs, func(i, j int) bool {
		if q.Order != nil {
			c := compareForOrder(docs[i].Data[q.Order.Field], docs[j].Data[q.Order.Field])
			if q.Order.Direction == storagemodels.Descending {
				c = -c
			}
			if c != 0 {
				return c < 0
			}
		}
		return docs[i].Ref.ID < docs[j].Ref.ID
	})
	if q.Limit > 0 && len(docs) > q.Limit {
		docs = docs[:q.Limit]
	}
	return docs
}

// Apply runs the whole descriptor over docs.
func Apply(docs []storagemodels.Document, q *storagemodels.Query) []storagemodels.Document {
	return OrderAndLimit(Filter(docs, q.Filters), q)
}

// compareForOrder orders incomparable values by kind, following Firestore:
// bool < number < timestamp < string < anything else.
func compareForOrder(a, b any) int {
	if c, ok := Compare(a, b); ok {
		return c
	}
	return cmpInt(int64(rank(a)), int64(rank(b)))
}

func rank(v any) int {
	switch v.(type) {
	case bool:
		return 1
	case int64, float64:
		return 2
	case time.Time:
		return 3
	case string:
		return 4
	}
	return 5
}
