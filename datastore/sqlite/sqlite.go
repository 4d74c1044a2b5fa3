/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package sqlite opens a file-backed document store on modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/suparena/fieldstore/datastore/sqldoc"
	"github.com/suparena/fieldstore/errors"
)

// Open opens (creating if needed) the database at path and migrates it.
// Use ":memory:" for a throwaway database.
func Open(ctx context.Context, path string, opts ...sqldoc.Option) (*sqldoc.Store, error) {
	if path == "" {
		return nil, errors.NewValidationError("path", "sqlite path is required")
	}
	dsn := path
	if path != ":memory:" {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.NewStoreError("open", "", err)
	}
	// One connection serializes writers and keeps :memory: databases alive.
	db.SetMaxOpenConns(1)

	store := sqldoc.New(db, sqldoc.SQLite{}, opts...)
	if err := store.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}
