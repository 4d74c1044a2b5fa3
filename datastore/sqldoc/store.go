/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package sqldoc

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/suparena/fieldstore/datastore"
	"github.com/suparena/fieldstore/datastore/eval"
	"github.com/suparena/fieldstore/errors"
	"github.com/suparena/fieldstore/schema"
	"github.com/suparena/fieldstore/storagemodels"
)

var _ datastore.DocumentStore = (*Store)(nil)

// Store keeps every collection in one documents table keyed by
// (collection, id) with a JSON payload column.
type Store struct {
	db      *sql.DB
	dialect Dialect
	logger  *slog.Logger
	newID   func() string
}

// Option configures a Store
type Option func(*Store)

// WithLogger sets the logger used for statement tracing
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithIDFunc replaces the id generator used by AllocateID
func WithIDFunc(f func() string) Option {
	return func(s *Store) {
		s.newID = f
	}
}

// New wraps an open database. Call Migrate before first use.
func New(db *sql.DB, dialect Dialect, opts ...Option) *Store {
	s := &Store{
		db:      db,
		dialect: dialect,
		logger:  slog.Default(),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Migrate creates the documents table if it does not exist
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.Migration()); err != nil {
		return errors.NewStoreError("migrate", "", err)
	}
	return nil
}

// DB returns the underlying database handle
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) ph(n int) string {
	return s.dialect.Placeholder(n)
}

// Get retrieves a document by reference
func (s *Store) Get(ctx context.Context, ref storagemodels.DocumentRef) (storagemodels.Document, error) {
	if err := ref.Validate(); err != nil {
		return storagemodels.Document{}, err
	}

	var raw []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT payload FROM documents WHERE collection = "+s.ph(1)+" AND id = "+s.ph(2),
		ref.Collection, ref.ID,
	).Scan(&raw)
	if stderrors.Is(err, sql.ErrNoRows) {
		return storagemodels.Document{}, errors.NewNotFoundError(ref.Collection, ref.ID)
	}
	if err != nil {
		return storagemodels.Document{}, errors.NewStoreError("get", ref.Collection, err)
	}

	data, err := decodePayload(ref, raw)
	if err != nil {
		return storagemodels.Document{}, err
	}
	return storagemodels.Document{Ref: ref, Data: data}, nil
}

// Set stores a document. Without overwrite an existing row yields
// AlreadyExistsError.
func (s *Store) Set(ctx context.Context, ref storagemodels.DocumentRef, payload map[string]any, overwrite bool) error {
	if err := ref.Validate(); err != nil {
		return err
	}
	raw, err := encodePayload(ref, payload)
	if err != nil {
		return err
	}
	return s.write(ctx, s.db, ref, raw, overwrite, "set")
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) write(ctx context.Context, ex execer, ref storagemodels.DocumentRef, raw string, overwrite bool, op string) error {
	stmt := "INSERT INTO documents (collection, id, payload) VALUES (" +
		s.ph(1) + ", " + s.ph(2) + ", " + s.dialect.PayloadPlaceholder(s.ph(3)) + ")"
	if overwrite {
		stmt += " ON CONFLICT (collection, id) DO UPDATE SET payload = excluded.payload"
	}
	_, err := ex.ExecContext(ctx, stmt, ref.Collection, ref.ID, raw)
	if err == nil {
		return nil
	}
	if !overwrite && s.dialect.IsUniqueViolation(err) {
		return errors.NewAlreadyExistsError(ref.Collection, ref.ID)
	}
	return errors.NewStoreError(op, ref.Collection, err)
}

func (s *Store) remove(ctx context.Context, ex execer, ref storagemodels.DocumentRef, op string) error {
	_, err := ex.ExecContext(ctx,
		"DELETE FROM documents WHERE collection = "+s.ph(1)+" AND id = "+s.ph(2),
		ref.Collection, ref.ID)
	return errors.NewStoreError(op, ref.Collection, err)
}

// Delete removes a document; deleting a missing document succeeds
func (s *Store) Delete(ctx context.Context, ref storagemodels.DocumentRef) error {
	if err := ref.Validate(); err != nil {
		return err
	}
	return s.remove(ctx, s.db, ref, "delete")
}

// AllocateID returns a random UUID; nothing is written
func (s *Store) AllocateID(ctx context.Context, collection string) (string, error) {
	if err := storagemodels.ValidateCollection(collection); err != nil {
		return "", err
	}
	return s.newID(), nil
}

// Query runs filters in SQL and applies ordering and limit in process, so
// every dialect orders values the same way.
func (s *Store) Query(ctx context.Context, q *storagemodels.Query) ([]storagemodels.Document, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	w, err := s.where(q)
	if err != nil {
		return nil, err
	}

	stmt := "SELECT id, payload FROM documents WHERE " + w.sql() + " ORDER BY id"
	if q.Order == nil && q.Limit > 0 {
		stmt += " LIMIT " + strconv.Itoa(q.Limit)
	}
	start := time.Now()
	rows, err := s.db.QueryContext(ctx, stmt, w.args...)
	if err != nil {
		return nil, errors.NewStoreError("query", q.Collection, err)
	}
	defer rows.Close()

	var docs []storagemodels.Document
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, errors.NewStoreError("query", q.Collection, err)
		}
		ref := storagemodels.Ref(q.Collection, id)
		data, err := decodePayload(ref, raw)
		if err != nil {
			return nil, err
		}
		docs = append(docs, storagemodels.Document{Ref: ref, Data: data})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStoreError("query", q.Collection, err)
	}

	s.logger.Debug("sqldoc query",
		"dialect", s.dialect.Name(),
		"collection", q.Collection,
		"filters", len(q.Filters),
		"rows", len(docs),
		"elapsed", time.Since(start))

	return eval.OrderAndLimit(docs, q), nil
}

// Count runs COUNT(*) over the rows the query selects
func (s *Store) Count(ctx context.Context, q *storagemodels.Query) (int64, error) {
	if err := q.Validate(); err != nil {
		return 0, err
	}
	w, err := s.where(q)
	if err != nil {
		return 0, err
	}

	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents WHERE "+w.sql(), w.args...).Scan(&n); err != nil {
		return 0, errors.NewStoreError("count", q.Collection, err)
	}
	if q.Limit > 0 && n > int64(q.Limit) {
		n = int64(q.Limit)
	}
	return n, nil
}

// Commit applies writes in one transaction. Payloads are encoded before the
// transaction starts.
func (s *Store) Commit(ctx context.Context, writes []storagemodels.Write) (err error) {
	if len(writes) == 0 {
		return nil
	}
	if err := storagemodels.ValidateWrites(writes); err != nil {
		return err
	}
	encoded := make([]string, len(writes))
	for i, w := range writes {
		if w.Delete {
			continue
		}
		if encoded[i], err = encodePayload(w.Ref, w.Payload); err != nil {
			return err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewStoreError("commit", "", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !stderrors.Is(rbErr, sql.ErrTxDone) {
				s.logger.Warn("sqldoc rollback failed", "error", rbErr)
			}
		}
	}()

	for i, w := range writes {
		if w.Delete {
			err = s.remove(ctx, tx, w.Ref, "commit")
		} else {
			err = s.write(ctx, tx, w.Ref, encoded[i], w.Overwrite, "commit")
		}
		if err != nil {
			return err
		}
	}
	if err = tx.Commit(); err != nil {
		return errors.NewStoreError("commit", "", err)
	}
	return nil
}

// Close closes the database handle
func (s *Store) Close() error {
	return s.db.Close()
}

type whereClause struct {
	d       Dialect
	clauses []string
	args    []any
}

func (w *whereClause) bind(v any) string {
	w.args = append(w.args, v)
	return w.d.Placeholder(len(w.args))
}

func (w *whereClause) sql() string {
	return strings.Join(w.clauses, " AND ")
}

func (s *Store) where(q *storagemodels.Query) (*whereClause, error) {
	w := &whereClause{d: s.dialect}
	w.clauses = append(w.clauses, "collection = "+w.bind(q.Collection))

	for _, f := range q.Filters {
		typeExpr := s.dialect.TypeExpr(w.bind(s.dialect.FieldArg(f.Field)))
		names := s.dialect.TypeNames(f.Value)
		phs := make([]string, len(names))
		for i, n := range names {
			phs[i] = w.bind(n)
		}
		fieldExpr := s.dialect.FieldExpr(w.bind(s.dialect.FieldArg(f.Field)))

		valueExpr, arg, err := s.dialect.ValueArg(s.dialect.Placeholder(len(w.args)+1), f.Value)
		if err != nil {
			return nil, errors.NewValidationError(f.Field, err.Error())
		}
		w.args = append(w.args, arg)

		op := string(f.Op)
		if f.Op == storagemodels.Eq {
			op = "="
		}
		w.clauses = append(w.clauses, fmt.Sprintf("(%s IN (%s) AND %s %s %s)",
			typeExpr, strings.Join(phs, ", "), fieldExpr, op, valueExpr))
	}

	if q.Order != nil {
		typeExpr := s.dialect.TypeExpr(w.bind(s.dialect.FieldArg(q.Order.Field)))
		w.clauses = append(w.clauses, fmt.Sprintf("COALESCE(%s, %s) <> %s",
			typeExpr, w.bind(s.dialect.NullType()), w.bind(s.dialect.NullType())))
	}
	return w, nil
}

// encodePayload normalizes a payload and renders it as JSON with times in
// schema.TimeLayout.
func encodePayload(ref storagemodels.DocumentRef, payload map[string]any) (string, error) {
	p, err := schema.NormalizeDocument(ref, payload)
	if err != nil {
		return "", err
	}
	raw, err := json.Marshal(toWire(map[string]any(p)))
	if err != nil {
		return "", errors.NewEncodingError(ref.Collection, ref.ID, "", err)
	}
	return string(raw), nil
}

func toWire(v any) any {
	switch x := v.(type) {
	case time.Time:
		return schema.FormatTime(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = toWire(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = toWire(e)
		}
		return out
	}
	return v
}

// decodePayload parses a stored payload into the canonical value domain.
// Timestamps stay in their TimeLayout string form.
func decodePayload(ref storagemodels.DocumentRef, raw []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var data map[string]any
	if err := dec.Decode(&data); err != nil {
		return nil, errors.NewDecodingError(ref.Collection, ref.ID, "", err)
	}
	p, err := schema.Normalize(data)
	if err != nil {
		return nil, errors.NewDecodingError(ref.Collection, ref.ID, "", err)
	}
	return p, nil
}

func isPgUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func isSQLiteUniqueViolation(err error) bool {
	var liteErr *sqlite.Error
	if stderrors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return false
}
