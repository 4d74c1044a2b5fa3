/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package postgres opens a JSONB document store through the pgx stdlib
// driver.
package postgres

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/suparena/fieldstore/datastore/sqldoc"
	"github.com/suparena/fieldstore/errors"
)

// Open connects to dsn, verifies the connection and migrates the schema.
func Open(ctx context.Context, dsn string, opts ...sqldoc.Option) (*sqldoc.Store, error) {
	if dsn == "" {
		return nil, errors.NewValidationError("dsn", "postgres dsn is required")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, errors.NewStoreError("open", "", err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.NewStoreError("ping", "", err)
	}

	store := sqldoc.New(db, sqldoc.Postgres{}, opts...)
	if err := store.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}
