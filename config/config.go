/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package config loads store settings from a YAML file, an optional .env
// file and FIELDSTORE_* / AWS_* environment variables, in that order of
// increasing precedence.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/suparena/fieldstore/errors"
)

// Backend names
const (
	BackendMock      = "mock"
	BackendSQLite    = "sqlite"
	BackendPostgres  = "postgres"
	BackendDynamoDB  = "dynamodb"
	BackendFirestore = "firestore"
)

// DynamoDBConfig holds the DynamoDB backend settings
type DynamoDBConfig struct {
	Region          string `yaml:"region,omitempty"`
	AccessKeyID     string `yaml:"accessKeyId,omitempty"`
	SecretAccessKey string `yaml:"secretAccessKey,omitempty"`
	Table           string `yaml:"table,omitempty"`
	Endpoint        string `yaml:"endpoint,omitempty"`
	CreateTable     bool   `yaml:"createTable,omitempty"`
}

// FirestoreConfig holds the Firestore backend settings
type FirestoreConfig struct {
	ProjectID       string `yaml:"projectId,omitempty"`
	Database        string `yaml:"database,omitempty"`
	CredentialsFile string `yaml:"credentialsFile,omitempty"`
}

// SQLiteConfig holds the SQLite backend settings
type SQLiteConfig struct {
	Path string `yaml:"path,omitempty"`
}

// PostgresConfig holds the Postgres backend settings
type PostgresConfig struct {
	DSN string `yaml:"dsn,omitempty"`
}

// Config is the complete store configuration
type Config struct {
	Backend   string          `yaml:"backend"`
	LogLevel  string          `yaml:"logLevel,omitempty"`
	Metrics   bool            `yaml:"metrics,omitempty"`
	DynamoDB  DynamoDBConfig  `yaml:"dynamodb,omitempty"`
	Firestore FirestoreConfig `yaml:"firestore,omitempty"`
	SQLite    SQLiteConfig    `yaml:"sqlite,omitempty"`
	Postgres  PostgresConfig  `yaml:"postgres,omitempty"`
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		Backend:  BackendSQLite,
		LogLevel: "info",
		SQLite:   SQLiteConfig{Path: "fieldstore.db"},
	}
}

// Load reads path (skipped when empty), then .env in the working directory
// if present, then applies environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// godotenv never overrides variables that are already set.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from the environment. lookup is os.LookupEnv
// outside tests.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("FIELDSTORE_BACKEND", &c.Backend)
	str("FIELDSTORE_LOG_LEVEL", &c.LogLevel)
	str("AWS_REGION", &c.DynamoDB.Region)
	str("AWS_ACCESS_KEY_ID", &c.DynamoDB.AccessKeyID)
	str("AWS_SECRET_ACCESS_KEY", &c.DynamoDB.SecretAccessKey)
	str("FIELDSTORE_DDB_TABLE", &c.DynamoDB.Table)
	str("FIELDSTORE_DDB_ENDPOINT", &c.DynamoDB.Endpoint)
	str("FIELDSTORE_FIRESTORE_PROJECT", &c.Firestore.ProjectID)
	str("FIELDSTORE_FIRESTORE_DATABASE", &c.Firestore.Database)
	str("FIELDSTORE_FIRESTORE_CREDENTIALS", &c.Firestore.CredentialsFile)
	str("FIELDSTORE_SQLITE_PATH", &c.SQLite.Path)
	str("FIELDSTORE_POSTGRES_DSN", &c.Postgres.DSN)

	if v, ok := lookup("FIELDSTORE_METRICS"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.NewValidationError("FIELDSTORE_METRICS", fmt.Sprintf("invalid boolean %q", v))
		}
		c.Metrics = b
	}
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	return nil
}

// Validate checks that the selected backend has its required settings
func (c *Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	switch c.Backend {
	case BackendMock:
	case BackendSQLite:
		if c.SQLite.Path == "" {
			return errors.NewValidationError("sqlite.path", "sqlite path is required")
		}
	case BackendPostgres:
		if c.Postgres.DSN == "" {
			return errors.NewValidationError("postgres.dsn", "postgres dsn is required")
		}
	case BackendDynamoDB:
		if c.DynamoDB.Table == "" {
			return errors.NewValidationError("dynamodb.table", "dynamodb table is required")
		}
		if c.DynamoDB.Region == "" {
			return errors.NewValidationError("dynamodb.region", "aws region is required")
		}
		if (c.DynamoDB.AccessKeyID == "") != (c.DynamoDB.SecretAccessKey == "") {
			return errors.NewValidationError("dynamodb.accessKeyId", "access key id and secret must be set together")
		}
	case BackendFirestore:
		if c.Firestore.ProjectID == "" {
			return errors.NewValidationError("firestore.projectId", "firestore project id is required")
		}
	default:
		return errors.NewValidationError("backend", fmt.Sprintf("unknown backend %q", c.Backend))
	}
	return nil
}

// Level parses LogLevel
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, errors.NewValidationError("logLevel", fmt.Sprintf("invalid log level %q", c.LogLevel))
	}
	return level, nil
}
