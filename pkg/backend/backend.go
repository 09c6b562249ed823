// Package backend defines the query backend boundary for schemalint.
//
// A Backend executes plain textual queries against a live analytical
// engine and returns row-oriented results with column lookup by name.
// The review rules in pkg/review construct probe queries against this
// interface; concrete implementations live in pkg/backend subpackages
// and register themselves with the factory registry.
package backend

import (
	"context"
	"fmt"
	"strings"
)

// Config holds the connection settings for a backend.
type Config struct {
	// Type selects the registered backend, e.g. "postgres" or "duckdb".
	Type string

	// DSN is the driver-specific connection string. File-based engines
	// take a path; ":memory:" selects an in-memory database.
	DSN string

	// Database is the database name used when qualifying identifiers.
	Database string
}

// Row is a single result row with column lookup by name.
type Row map[string]string

// Column returns the value of the named column, or "" when absent.
func (r Row) Column(name string) string {
	return r[name]
}

// Result is a tabular query result. Column order is the order returned
// by the engine.
type Result struct {
	columns []string
	rows    []Row
}

// NewResult creates a result from already collected rows.
func NewResult(columns []string, rows []Row) *Result {
	return &Result{columns: columns, rows: rows}
}

// Columns returns the result column names in engine order.
func (r *Result) Columns() []string {
	return r.columns
}

// RowCount returns the number of rows.
func (r *Result) RowCount() int {
	return len(r.rows)
}

// Rows returns all rows in result order.
func (r *Result) Rows() []Row {
	return r.rows
}

// Backend is a handle to a remote or embedded query engine. Query is
// synchronous; cancellation and timeouts are the engine's concern,
// wired through ctx.
type Backend interface {
	// Connect establishes the connection described by cfg.
	Connect(ctx context.Context, cfg Config) error

	// Close releases the connection.
	Close() error

	// Query executes a textual statement and returns its result.
	Query(ctx context.Context, query string) (*Result, error)
}

// QuoteTable renders a fully qualified table identifier in the
// "database"."schema"."table" form the probe queries use.
func QuoteTable(database, schema, table string) string {
	return fmt.Sprintf("%q.%q.%q", database, schema, table)
}

// QuoteColumn renders a fully qualified column identifier.
func QuoteColumn(database, schema, table, column string) string {
	return fmt.Sprintf("%q.%q.%q.%q", database, schema, table, column)
}

// UnknownBackendError is returned when no backend is registered for a
// requested type.
type UnknownBackendError struct {
	Type      string
	Available []string
}

func (e *UnknownBackendError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("unknown backend type %q (no backends registered)", e.Type)
	}
	return fmt.Sprintf("unknown backend type %q (available: %s)", e.Type, strings.Join(e.Available, ", "))
}
