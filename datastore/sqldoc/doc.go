/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package sqldoc implements the DocumentStore over a single SQL table of JSON
// documents. The SQLite and Postgres dialects differ only in how they extract
// and compare payload fields; see the sqlite and postgres packages for
// ready-to-use constructors.
package sqldoc
