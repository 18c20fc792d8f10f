// Package selekt composes typed SQL SELECT statements and renders them for
// PostgreSQL, MySQL and SQLite.
//
// This package re-exports commonly used types and functions from subpackages
// for convenience. Advanced users can import subpackages directly:
//   - github.com/bawdo/selekt/managers (fluent statement builder)
//   - github.com/bawdo/selekt/nodes (typed statement tree and validation)
//   - github.com/bawdo/selekt/visitors (SQL generation)
//   - github.com/bawdo/selekt/plugins (statement transformers)
//   - github.com/bawdo/selekt/prepared (prepared statement cache)
package selekt

import (
	"github.com/bawdo/selekt/backend"
	"github.com/bawdo/selekt/managers"
	"github.com/bawdo/selekt/nodes"
	"github.com/bawdo/selekt/sqltypes"
	"github.com/bawdo/selekt/visitors"
)

// --- Backends ---

// Backend identifies a SQL dialect.
type Backend = backend.Backend

const (
	Postgres = backend.Postgres
	MySQL    = backend.MySQL
	SQLite   = backend.SQLite
)

// --- Statements ---

// SelectManager provides a fluent API for building SELECT statements.
type SelectManager = managers.SelectManager

// SelectStatement is a validated, immutable SELECT statement.
type SelectStatement = nodes.SelectStatement

// NewSelect creates a new SelectManager reading from the given source. A nil
// source makes the statement table-less.
func NewSelect(from nodes.QuerySource) *managers.SelectManager {
	return managers.NewSelectManager(from)
}

// --- Core Node Types ---

// Table represents a SQL table reference.
type Table = nodes.Table

// Attribute represents a column reference (e.g., table.column).
type Attribute = nodes.Attribute

// Expression is a typed SQL expression.
type Expression = nodes.Expression

// NewTable creates a new table reference with optional column declarations.
func NewTable(name string, cols ...nodes.ColumnDef) *nodes.Table {
	return nodes.NewTable(name, cols...)
}

// Column declares a typed column for NewTable.
func Column(name string, t sqltypes.SQLType) nodes.ColumnDef {
	return nodes.Column(name, t)
}

// Literal wraps a Go value as a bound parameter. nil becomes NULL.
func Literal(value any) nodes.Expression {
	return nodes.Literal(value)
}

// Star creates an unqualified star (*) for SELECT *.
func Star() *nodes.StarNode {
	return nodes.Star()
}

// --- Aggregate Functions ---

// Count creates a COUNT(expr) aggregate. A nil expr counts rows: COUNT(*).
func Count(expr nodes.Expression) *nodes.AggregateNode {
	return nodes.Count(expr)
}

// Sum creates a SUM(expr) aggregate.
func Sum(expr nodes.Expression) *nodes.AggregateNode {
	return nodes.Sum(expr)
}

// Avg creates an AVG(expr) aggregate.
func Avg(expr nodes.Expression) *nodes.AggregateNode {
	return nodes.Avg(expr)
}

// Min creates a MIN(expr) aggregate.
func Min(expr nodes.Expression) *nodes.AggregateNode {
	return nodes.Min(expr)
}

// Max creates a MAX(expr) aggregate.
func Max(expr nodes.Expression) *nodes.AggregateNode {
	return nodes.Max(expr)
}

// CountDistinct creates a COUNT(DISTINCT expr) aggregate.
func CountDistinct(expr nodes.Expression) *nodes.AggregateNode {
	return nodes.CountDistinct(expr)
}

// --- Rendering ---

// Build renders f for b and returns the SQL text and its bound parameters.
func Build(f nodes.QueryFragment, b backend.Backend) (string, []any, error) {
	return visitors.Build(f, b)
}

// NewVisitor creates a visitor rendering for b.
func NewVisitor(b backend.Backend, opts ...visitors.Option) *visitors.Visitor {
	return visitors.New(b, opts...)
}

// WithoutParams inlines bound values into the SQL text.
//
// WARNING: use for debugging only. SQL rendered this way must never be sent
// to a database.
func WithoutParams() visitors.Option {
	return visitors.WithoutParams()
}

// Pretty renders each top-level clause on its own line.
func Pretty() visitors.Option {
	return visitors.Pretty()
}
