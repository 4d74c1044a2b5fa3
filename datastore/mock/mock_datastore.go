/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package mock provides an in-memory implementation of the DocumentStore
// interface for testing
package mock

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/suparena/fieldstore/datastore"
	"github.com/suparena/fieldstore/datastore/eval"
	"github.com/suparena/fieldstore/errors"
	"github.com/suparena/fieldstore/schema"
	"github.com/suparena/fieldstore/storagemodels"
)

var _ datastore.DocumentStore = (*DataStore)(nil)

// Calls counts the operations that reached the store.
type Calls struct {
	Get, Set, Delete, AllocateID, Query, Count, Commit int
}

// DataStore is an in-memory DocumentStore with the full query semantics of
// the real backends and optional error injection.
type DataStore struct {
	mu          sync.RWMutex
	data        map[string]map[string]map[string]any
	calls       Calls
	idFunc      func() string
	getError    error
	setError    error
	deleteError error
	queryError  error
	countError  error
	commitError error
}

// New creates a new mock DataStore
func New() *DataStore {
	return &DataStore{
		data:   make(map[string]map[string]map[string]any),
		idFunc: uuid.NewString,
	}
}

// WithIDFunc replaces the id generator used by AllocateID
func (m *DataStore) WithIDFunc(f func() string) *DataStore {
	m.idFunc = f
	return m
}

// WithGetError makes Get operations return an error
func (m *DataStore) WithGetError(err error) *DataStore {
	m.getError = err
	return m
}

// WithSetError makes Set operations return an error
func (m *DataStore) WithSetError(err error) *DataStore {
	m.setError = err
	return m
}

// WithDeleteError makes Delete operations return an error
func (m *DataStore) WithDeleteError(err error) *DataStore {
	m.deleteError = err
	return m
}

// WithQueryError makes Query operations return an error
func (m *DataStore) WithQueryError(err error) *DataStore {
	m.queryError = err
	return m
}

// WithCountError makes Count operations return an error
func (m *DataStore) WithCountError(err error) *DataStore {
	m.countError = err
	return m
}

// WithCommitError makes Commit operations fail server-side after validation;
// no write of the batch is applied.
func (m *DataStore) WithCommitError(err error) *DataStore {
	m.commitError = err
	return m
}

// Get retrieves a document by reference
func (m *DataStore) Get(ctx context.Context, ref storagemodels.DocumentRef) (storagemodels.Document, error) {
	if err := ref.Validate(); err != nil {
		return storagemodels.Document{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls.Get++

	if m.getError != nil {
		return storagemodels.Document{}, m.getError
	}
	data, ok := m.data[ref.Collection][ref.ID]
	if !ok {
		return storagemodels.Document{}, errors.NewNotFoundError(ref.Collection, ref.ID)
	}
	return storagemodels.Document{Ref: ref, Data: copyMap(data)}, nil
}

// Set stores a document
func (m *DataStore) Set(ctx context.Context, ref storagemodels.DocumentRef, payload map[string]any, overwrite bool) error {
	if err := ref.Validate(); err != nil {
		return err
	}
	p, err := schema.NormalizeDocument(ref, payload)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls.Set++

	if m.setError != nil {
		return m.setError
	}
	if _, exists := m.data[ref.Collection][ref.ID]; exists && !overwrite {
		return errors.NewAlreadyExistsError(ref.Collection, ref.ID)
	}
	m.put(ref, p)
	return nil
}

// Delete removes a document; deleting a missing document succeeds
func (m *DataStore) Delete(ctx context.Context, ref storagemodels.DocumentRef) error {
	if err := ref.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls.Delete++

	if m.deleteError != nil {
		return m.deleteError
	}
	delete(m.data[ref.Collection], ref.ID)
	return nil
}

// AllocateID returns a fresh id that is not in use in collection
func (m *DataStore) AllocateID(ctx context.Context, collection string) (string, error) {
	if err := storagemodels.ValidateCollection(collection); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls.AllocateID++

	for {
		id := m.idFunc()
		if _, taken := m.data[collection][id]; !taken {
			return id, nil
		}
	}
}

// Query executes a query descriptor
func (m *DataStore) Query(ctx context.Context, q *storagemodels.Query) ([]storagemodels.Document, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.calls.Query++
	if m.queryError != nil {
		m.mu.Unlock()
		return nil, m.queryError
	}
	docs := m.snapshot(q.Collection)
	m.mu.Unlock()

	return eval.Apply(docs, q), nil
}

// Count counts the documents a query descriptor selects
func (m *DataStore) Count(ctx context.Context, q *storagemodels.Query) (int64, error) {
	if err := q.Validate(); err != nil {
		return 0, err
	}

	m.mu.Lock()
	m.calls.Count++
	if m.countError != nil {
		m.mu.Unlock()
		return 0, m.countError
	}
	docs := m.snapshot(q.Collection)
	m.mu.Unlock()

	return int64(len(eval.Apply(docs, q))), nil
}

// Commit applies writes atomically. Every payload is validated before any
// write is applied.
func (m *DataStore) Commit(ctx context.Context, writes []storagemodels.Write) error {
	if err := storagemodels.ValidateWrites(writes); err != nil {
		return err
	}
	staged := make([]storagemodels.Write, len(writes))
	for i, w := range writes {
		staged[i] = w
		if w.Delete {
			continue
		}
		p, err := schema.NormalizeDocument(w.Ref, w.Payload)
		if err != nil {
			return err
		}
		staged[i].Payload = p
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls.Commit++

	if m.commitError != nil {
		return m.commitError
	}

	// Check every precondition against the state the batch would see.
	exists := make(map[storagemodels.DocumentRef]bool)
	present := func(ref storagemodels.DocumentRef) bool {
		if e, ok := exists[ref]; ok {
			return e
		}
		_, ok := m.data[ref.Collection][ref.ID]
		return ok
	}
	for _, w := range staged {
		switch {
		case w.Delete:
			exists[w.Ref] = false
		case !w.Overwrite && present(w.Ref):
			return errors.NewAlreadyExistsError(w.Ref.Collection, w.Ref.ID)
		default:
			exists[w.Ref] = true
		}
	}

	for _, w := range staged {
		if w.Delete {
			delete(m.data[w.Ref.Collection], w.Ref.ID)
			continue
		}
		m.put(w.Ref, w.Payload)
	}
	return nil
}

// Close is a no-op
func (m *DataStore) Close() error {
	return nil
}

// Helper methods for testing

// PutRaw stores data as-is, bypassing normalization (for decode failure tests)
func (m *DataStore) PutRaw(ref storagemodels.DocumentRef, data map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.put(ref, data)
}

// GetData returns a copy of one collection
func (m *DataStore) GetData(collection string) map[string]map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string]map[string]any, len(m.data[collection]))
	for id, doc := range m.data[collection] {
		result[id] = copyMap(doc)
	}
	return result
}

// Len returns the number of documents stored in collection
func (m *DataStore) Len(collection string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data[collection])
}

// Calls returns the operation counters
func (m *DataStore) Calls() Calls {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls
}

// Clear removes all data and resets the counters
func (m *DataStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string]map[string]map[string]any)
	m.calls = Calls{}
}

func (m *DataStore) put(ref storagemodels.DocumentRef, data map[string]any) {
	coll, ok := m.data[ref.Collection]
	if !ok {
		coll = make(map[string]map[string]any)
		m.data[ref.Collection] = coll
	}
	coll[ref.ID] = copyMap(data)
}

func (m *DataStore) snapshot(collection string) []storagemodels.Document {
	docs := make([]storagemodels.Document, 0, len(m.data[collection]))
	for id, data := range m.data[collection] {
		docs = append(docs, storagemodels.Document{
			Ref:  storagemodels.Ref(collection, id),
			Data: copyMap(data),
		})
	}
	return docs
}

func copyMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return copyMap(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = copyValue(e)
		}
		return out
	}
	return v
}
