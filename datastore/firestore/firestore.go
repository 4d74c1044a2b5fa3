/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package firestore implements the DocumentStore on Cloud Firestore.
// Collections map to top-level Firestore collections and payloads to
// document fields; timestamps use the native timestamp type.
package firestore

import (
	"context"
	"fmt"
	"log/slog"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/suparena/fieldstore/datastore"
	"github.com/suparena/fieldstore/errors"
	"github.com/suparena/fieldstore/schema"
	"github.com/suparena/fieldstore/storagemodels"
)

var _ datastore.DocumentStore = (*Store)(nil)

const countAlias = "all"

// Config selects the project and database. With FIRESTORE_EMULATOR_HOST set
// the client talks to the emulator and ignores credentials.
type Config struct {
	ProjectID       string
	Database        string // empty selects the default database
	CredentialsFile string // optional service account key
}

// Store is a DocumentStore backed by a Firestore client.
type Store struct {
	client *firestore.Client
	logger *slog.Logger
}

// Option configures a Store
type Option func(*Store)

// WithLogger sets the store logger
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// Open creates a Firestore client from cfg.
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	if cfg.ProjectID == "" {
		return nil, errors.NewValidationError("project", "firestore project id is required")
	}
	var clientOpts []option.ClientOption
	if cfg.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	database := cfg.Database
	if database == "" {
		database = firestore.DefaultDatabaseID
	}
	client, err := firestore.NewClientWithDatabase(ctx, cfg.ProjectID, database, clientOpts...)
	if err != nil {
		return nil, errors.NewStoreError("connect", "", err)
	}
	s := New(client, opts...)
	s.logger.Info("firestore client initialized", "project", cfg.ProjectID, "database", database)
	return s, nil
}

// New wraps an existing client.
func New(client *firestore.Client, opts ...Option) *Store {
	s := &Store{client: client, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) doc(ref storagemodels.DocumentRef) *firestore.DocumentRef {
	return s.client.Collection(ref.Collection).Doc(ref.ID)
}

// translate maps gRPC status codes onto the error taxonomy.
func translate(op string, ref storagemodels.DocumentRef, err error) error {
	switch status.Code(err) {
	case codes.OK:
		return nil
	case codes.NotFound:
		return errors.NewNotFoundError(ref.Collection, ref.ID)
	case codes.AlreadyExists:
		return errors.NewAlreadyExistsError(ref.Collection, ref.ID)
	}
	return errors.NewStoreError(op, ref.Collection, err)
}

// Get retrieves a document
func (s *Store) Get(ctx context.Context, ref storagemodels.DocumentRef) (storagemodels.Document, error) {
	if err := ref.Validate(); err != nil {
		return storagemodels.Document{}, err
	}
	snap, err := s.doc(ref).Get(ctx)
	if err != nil {
		return storagemodels.Document{}, translate("get", ref, err)
	}
	if !snap.Exists() {
		return storagemodels.Document{}, errors.NewNotFoundError(ref.Collection, ref.ID)
	}
	return snapshotDocument(ref, snap.Data())
}

func snapshotDocument(ref storagemodels.DocumentRef, raw map[string]any) (storagemodels.Document, error) {
	data, err := schema.Normalize(raw)
	if err != nil {
		return storagemodels.Document{}, errors.NewDecodingError(ref.Collection, ref.ID, "", err)
	}
	return storagemodels.Document{Ref: ref, Data: data}, nil
}

// Set writes a document with Create (no overwrite) or Set (overwrite).
func (s *Store) Set(ctx context.Context, ref storagemodels.DocumentRef, payload map[string]any, overwrite bool) error {
	if err := ref.Validate(); err != nil {
		return err
	}
	p, err := schema.NormalizeDocument(ref, payload)
	if err != nil {
		return err
	}
	if overwrite {
		_, err = s.doc(ref).Set(ctx, map[string]any(p))
	} else {
		_, err = s.doc(ref).Create(ctx, map[string]any(p))
	}
	return translate("set", ref, err)
}

// Delete removes a document; deleting a missing document succeeds
func (s *Store) Delete(ctx context.Context, ref storagemodels.DocumentRef) error {
	if err := ref.Validate(); err != nil {
		return err
	}
	_, err := s.doc(ref).Delete(ctx)
	return translate("delete", ref, err)
}

// AllocateID returns a client-generated Firestore document id
func (s *Store) AllocateID(ctx context.Context, collection string) (string, error) {
	if err := storagemodels.ValidateCollection(collection); err != nil {
		return "", err
	}
	return s.client.Collection(collection).NewDoc().ID, nil
}

func (s *Store) query(q *storagemodels.Query) firestore.Query {
	fq := s.client.Collection(q.Collection).Query
	for _, f := range q.Filters {
		fq = fq.Where(f.Field, string(f.Op), f.Value)
	}
	if q.Order != nil {
		dir := firestore.Asc
		if q.Order.Direction == storagemodels.Descending {
			dir = firestore.Desc
		}
		fq = fq.OrderBy(q.Order.Field, dir).OrderBy(firestore.DocumentID, firestore.Asc)
	}
	if q.Limit > 0 {
		fq = fq.Limit(q.Limit)
	}
	return fq
}

// Query runs the descriptor as a Firestore query
func (s *Store) Query(ctx context.Context, q *storagemodels.Query) ([]storagemodels.Document, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	iter := s.query(q).Documents(ctx)
	defer iter.Stop()

	var docs []storagemodels.Document
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.NewStoreError("query", q.Collection, err)
		}
		doc, err := snapshotDocument(storagemodels.Ref(q.Collection, snap.Ref.ID), snap.Data())
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	s.logger.Debug("firestore query", "collection", q.Collection, "filters", len(q.Filters), "documents", len(docs))
	return docs, nil
}

// Count runs a COUNT aggregation
func (s *Store) Count(ctx context.Context, q *storagemodels.Query) (int64, error) {
	if err := q.Validate(); err != nil {
		return 0, err
	}
	fq := s.query(q)
	res, err := fq.NewAggregationQuery().WithCount(countAlias).Get(ctx)
	if err != nil {
		return 0, errors.NewStoreError("count", q.Collection, err)
	}
	v, ok := res[countAlias].(*firestorepb.Value)
	if !ok {
		return 0, errors.NewStoreError("count", q.Collection, fmt.Errorf("unexpected aggregation result %T", res[countAlias]))
	}
	return v.GetIntegerValue(), nil
}

// Commit applies writes in one transaction. Creates fail the whole
// transaction when the document exists.
func (s *Store) Commit(ctx context.Context, writes []storagemodels.Write) error {
	if len(writes) == 0 {
		return nil
	}
	if err := storagemodels.ValidateWrites(writes); err != nil {
		return err
	}
	payloads := make([]schema.Payload, len(writes))
	for i, w := range writes {
		if w.Delete {
			continue
		}
		p, err := schema.NormalizeDocument(w.Ref, w.Payload)
		if err != nil {
			return err
		}
		payloads[i] = p
	}

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		for i, w := range writes {
			var err error
			switch {
			case w.Delete:
				err = tx.Delete(s.doc(w.Ref))
			case w.Overwrite:
				err = tx.Set(s.doc(w.Ref), map[string]any(payloads[i]))
			default:
				err = tx.Create(s.doc(w.Ref), map[string]any(payloads[i]))
			}
			if err != nil {
				return err
			}
		}
		return nil
	}, firestore.MaxAttempts(1))
	if err == nil {
		return nil
	}
	if status.Code(err) == codes.AlreadyExists {
		// The server does not say which create failed.
		for _, w := range writes {
			if !w.Delete && !w.Overwrite {
				return errors.NewAlreadyExistsError(w.Ref.Collection, w.Ref.ID)
			}
		}
	}
	return errors.NewStoreError("commit", "", err)
}

// Close closes the client
func (s *Store) Close() error {
	return s.client.Close()
}
