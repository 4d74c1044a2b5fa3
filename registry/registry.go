/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/suparena/fieldstore/errors"
	"github.com/suparena/fieldstore/schema"
)

// DecodeFunc decodes a stored payload into its entity.
type DecodeFunc func(id string, data map[string]any) (any, error)

// Entry is the registration of one collection.
type Entry struct {
	Schema *schema.Schema
	Decode DecodeFunc
}

var (
	entries = make(map[string]Entry)
	mu      sync.RWMutex
)

// Register associates a collection schema with its decode function.
// If the collection is already registered, it panics to prevent accidental overrides.
func Register(s *schema.Schema, decode DecodeFunc) {
	if err := s.Validate(); err != nil {
		panic(fmt.Sprintf("registry: invalid schema: %v", err))
	}

	mu.Lock()
	defer mu.Unlock()
	if _, exists := entries[s.Collection]; exists {
		panic(fmt.Sprintf("registry: collection %q already registered", s.Collection))
	}
	entries[s.Collection] = Entry{Schema: s, Decode: decode}
}

// RegisterCodec registers the schema and decoder of codec.
func RegisterCodec[T any](codec schema.Codec[T]) {
	Register(codec.Schema(), func(id string, data map[string]any) (any, error) {
		return codec.Decode(id, data)
	})
}

// Lookup returns the entry registered for collection.
func Lookup(collection string) (Entry, error) {
	mu.RLock()
	defer mu.RUnlock()
	e, ok := entries[collection]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", errors.ErrNoSchema, collection)
	}
	return e, nil
}

// Collections returns every registered collection name, sorted.
func Collections() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
