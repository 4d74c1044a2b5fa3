/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package sqldoc

import (
	"database/sql"
	"testing"
)

func TestSQLiteUniqueViolation(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`CREATE TABLE docs (
	id   TEXT PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	n    INTEGER CHECK (n >= 0)
)`)
	if err != nil {
		t.Fatalf("create table: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO docs (id, name, n) VALUES ('a', 'Clark', 1)`); err != nil {
		t.Fatalf("seed: %v", err)
	}

	tests := []struct {
		name   string
		stmt   string
		unique bool
	}{
		{"primary key", `INSERT INTO docs (id, name, n) VALUES ('a', 'Geisel', 1)`, true},
		{"unique column", `INSERT INTO docs (id, name, n) VALUES ('b', 'Clark', 1)`, true},
		{"not null", `INSERT INTO docs (id, name, n) VALUES ('c', NULL, 1)`, false},
		{"check", `INSERT INTO docs (id, name, n) VALUES ('d', 'Price', -1)`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := db.Exec(tt.stmt)
			if err == nil {
				t.Fatal("expected constraint error")
			}
			if got := (SQLite{}).IsUniqueViolation(err); got != tt.unique {
				t.Fatalf("IsUniqueViolation(%v) = %v, want %v", err, got, tt.unique)
			}
		})
	}

	if (SQLite{}).IsUniqueViolation(nil) {
		t.Fatal("nil error reported as violation")
	}
}
