/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package fieldstore

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/suparena/fieldstore/errors"
)

// Catalog is a thread-safe registry of repositories keyed by entity type.
type Catalog struct {
	mu          sync.RWMutex
	byType      map[reflect.Type]any
	collections map[string]reflect.Type
}

// NewCatalog creates an empty Catalog
func NewCatalog() *Catalog {
	return &Catalog{
		byType:      make(map[reflect.Type]any),
		collections: make(map[string]reflect.Type),
	}
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Register adds the repository for entity type T. Each type and each
// collection may be registered once.
func Register[T any](c *Catalog, repo *Repository[T]) error {
	typ := typeOf[T]()
	collection := repo.Collection()

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.byType[typ]; exists {
		return fmt.Errorf("repository for type %s already registered", typ)
	}
	if other, exists := c.collections[collection]; exists {
		return fmt.Errorf("collection %q already registered for type %s", collection, other)
	}
	c.byType[typ] = repo
	c.collections[collection] = typ
	return nil
}

// Lookup returns the repository registered for T.
func Lookup[T any](c *Catalog) (*Repository[T], error) {
	typ := typeOf[T]()

	c.mu.RLock()
	defer c.mu.RUnlock()

	repo, exists := c.byType[typ]
	if !exists {
		return nil, fmt.Errorf("%w: no repository for type %s", errors.ErrNoSchema, typ)
	}
	return repo.(*Repository[T]), nil
}

// MustLookup is Lookup that panics when T is not registered.
func MustLookup[T any](c *Catalog) *Repository[T] {
	repo, err := Lookup[T](c)
	if err != nil {
		panic(err)
	}
	return repo
}

// Collections returns the registered collection names, sorted.
func (c *Catalog) Collections() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.collections))
	for name := range c.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
