package visitors

import "github.com/bawdo/selekt/backend"

// NewSQLiteVisitor creates a visitor for SQLite.
// Identifiers are quoted with double quotes (ANSI SQL). Placeholders are ?.
func NewSQLiteVisitor(opts ...Option) *Visitor {
	return New(backend.SQLite, opts...)
}
