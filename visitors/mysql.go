package visitors

import "github.com/bawdo/selekt/backend"

// NewMySQLVisitor creates a visitor for MySQL.
// Identifiers are quoted with backticks: `table`.`column`. Placeholders are ?.
func NewMySQLVisitor(opts ...Option) *Visitor {
	return New(backend.MySQL, opts...)
}
