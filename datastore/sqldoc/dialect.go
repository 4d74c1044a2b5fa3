/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package sqldoc

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/suparena/fieldstore/schema"
)

// Dialect holds the SQL that differs between database engines. Field paths
// and filter values are always bound as parameters.
type Dialect interface {
	// Name identifies the dialect in logs and metrics.
	Name() string

	// Placeholder returns the n-th (1-based) bind placeholder.
	Placeholder(n int) string

	// Migration creates the documents table.
	Migration() string

	// PayloadPlaceholder wraps a payload placeholder for insertion.
	PayloadPlaceholder(ph string) string

	// FieldArg is the bound argument naming a top-level payload field.
	FieldArg(field string) any

	// FieldExpr extracts the field bound at ph from the payload column.
	FieldExpr(ph string) string

	// TypeExpr yields the JSON type name of the field bound at ph, NULL when
	// the field is missing.
	TypeExpr(ph string) string

	// TypeNames lists the TypeExpr results comparable with a filter value.
	TypeNames(value any) []string

	// NullType is the TypeExpr result of an explicit JSON null.
	NullType() string

	// ValueArg returns the placeholder expression and the bound argument for a
	// filter value in the canonical value domain.
	ValueArg(ph string, value any) (string, any, error)

	// IsUniqueViolation reports a primary key conflict.
	IsUniqueViolation(err error) bool
}

// wireValue converts a canonical filter value to its stored JSON form.
func wireValue(v any) any {
	if t, ok := v.(time.Time); ok {
		return schema.FormatTime(t)
	}
	return v
}

// SQLite stores payloads as TEXT and reads them with the JSON1 functions.
type SQLite struct{}

func (SQLite) Name() string { return "sqlite" }

func (SQLite) Placeholder(int) string { return "?" }

func (SQLite) Migration() string {
	return `CREATE TABLE IF NOT EXISTS documents (
	collection TEXT NOT NULL,
	id         TEXT NOT NULL,
	payload    TEXT NOT NULL,
	PRIMARY KEY (collection, id)
)`
}

func (SQLite) PayloadPlaceholder(ph string) string { return ph }

func (SQLite) FieldArg(field string) any {
	return `$."` + strings.ReplaceAll(field, `"`, `\"`) + `"`
}

func (SQLite) FieldExpr(ph string) string { return "json_extract(payload, " + ph + ")" }

func (SQLite) TypeExpr(ph string) string { return "json_type(payload, " + ph + ")" }

func (SQLite) TypeNames(value any) []string {
	switch value.(type) {
	case bool:
		return []string{"true", "false"}
	case int64, float64:
		return []string{"integer", "real"}
	}
	return []string{"text"}
}

func (SQLite) NullType() string { return "null" }

func (SQLite) ValueArg(ph string, value any) (string, any, error) {
	v := wireValue(value)
	// json_extract yields 1 and 0 for JSON booleans.
	if b, ok := v.(bool); ok {
		if b {
			return ph, 1, nil
		}
		return ph, 0, nil
	}
	return ph, v, nil
}

func (SQLite) IsUniqueViolation(err error) bool {
	return isSQLiteUniqueViolation(err)
}

// Postgres stores payloads as JSONB and compares JSONB values.
type Postgres struct{}

func (Postgres) Name() string { return "postgres" }

func (Postgres) Placeholder(n int) string { return fmt.Sprintf("$%d", n) }

func (Postgres) Migration() string {
	return `CREATE TABLE IF NOT EXISTS documents (
	collection TEXT  NOT NULL,
	id         TEXT  NOT NULL,
	payload    JSONB NOT NULL,
	PRIMARY KEY (collection, id)
)`
}

func (Postgres) PayloadPlaceholder(ph string) string { return ph + "::jsonb" }

func (Postgres) FieldArg(field string) any { return field }

func (Postgres) FieldExpr(ph string) string { return "(payload -> " + ph + "::text)" }

func (Postgres) TypeExpr(ph string) string { return "jsonb_typeof(payload -> " + ph + "::text)" }

func (Postgres) TypeNames(value any) []string {
	switch value.(type) {
	case bool:
		return []string{"boolean"}
	case int64, float64:
		return []string{"number"}
	}
	return []string{"string"}
}

func (Postgres) NullType() string { return "null" }

func (Postgres) ValueArg(ph string, value any) (string, any, error) {
	raw, err := json.Marshal(wireValue(value))
	if err != nil {
		return "", nil, err
	}
	return ph + "::jsonb", string(raw), nil
}

func (Postgres) IsUniqueViolation(err error) bool {
	return isPgUniqueViolation(err)
}
