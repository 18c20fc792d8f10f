package visitors

import "github.com/bawdo/selekt/backend"

// NewPostgresVisitor creates a visitor for PostgreSQL.
// Identifiers are quoted with double quotes: "table"."column". Placeholders
// are numbered: $1, $2.
func NewPostgresVisitor(opts ...Option) *Visitor {
	return New(backend.Postgres, opts...)
}
