/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package backend opens the DocumentStore selected by a config.Config.
package backend

import (
	"context"
	"log/slog"

	"github.com/suparena/fieldstore/config"
	"github.com/suparena/fieldstore/datastore"
	"github.com/suparena/fieldstore/datastore/ddb"
	"github.com/suparena/fieldstore/datastore/firestore"
	"github.com/suparena/fieldstore/datastore/metrics"
	"github.com/suparena/fieldstore/datastore/mock"
	"github.com/suparena/fieldstore/datastore/postgres"
	"github.com/suparena/fieldstore/datastore/sqldoc"
	"github.com/suparena/fieldstore/datastore/sqlite"
	"github.com/suparena/fieldstore/errors"
)

// Open connects to the configured backend. When collector is non-nil the
// returned store records every call on it.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger, collector *metrics.Collector) (datastore.DocumentStore, error) {
	if cfg == nil {
		return nil, errors.NewValidationError("config", "config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	store, err := open(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("document store opened", "backend", cfg.Backend, "metrics", collector != nil)

	if collector != nil {
		return collector.Wrap(store, cfg.Backend), nil
	}
	return store, nil
}

func open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (datastore.DocumentStore, error) {
	switch cfg.Backend {
	case config.BackendMock:
		return mock.New(), nil

	case config.BackendSQLite:
		return sqlite.Open(ctx, cfg.SQLite.Path, sqldoc.WithLogger(logger))

	case config.BackendPostgres:
		return postgres.Open(ctx, cfg.Postgres.DSN, sqldoc.WithLogger(logger))

	case config.BackendDynamoDB:
		d, err := ddb.NewDynamodbDataStore(ctx, ddb.Config{
			Region:          cfg.DynamoDB.Region,
			AccessKeyID:     cfg.DynamoDB.AccessKeyID,
			SecretAccessKey: cfg.DynamoDB.SecretAccessKey,
			Table:           cfg.DynamoDB.Table,
			Endpoint:        cfg.DynamoDB.Endpoint,
		}, ddb.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		if cfg.DynamoDB.CreateTable {
			if err := d.CreateTable(ctx); err != nil {
				return nil, err
			}
		}
		return d, nil

	case config.BackendFirestore:
		return firestore.Open(ctx, firestore.Config{
			ProjectID:       cfg.Firestore.ProjectID,
			Database:        cfg.Firestore.Database,
			CredentialsFile: cfg.Firestore.CredentialsFile,
		}, firestore.WithLogger(logger))
	}
	return nil, errors.NewValidationError("backend", "unknown backend "+cfg.Backend)
}
