// Package backend describes the SQL dialects a statement can be rendered for.
package backend

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownBackend is returned for names or values that name no backend.
var ErrUnknownBackend = errors.New("unknown backend")

// Backend tags a SQL dialect.
type Backend int

const (
	Postgres Backend = iota
	MySQL
	SQLite
)

// All lists every supported backend in declaration order.
var All = []Backend{Postgres, MySQL, SQLite}

// String returns the canonical lower-case backend name.
func (b Backend) String() string {
	if d := b.Dialect(); d != nil {
		return d.Name
	}
	return fmt.Sprintf("backend(%d)", int(b))
}

// Dialect returns the dialect table entry for b, or nil for an unknown tag.
func (b Backend) Dialect() *Dialect {
	if b < 0 || int(b) >= len(dialects) {
		return nil
	}
	return &dialects[b]
}

// Capabilities returns the feature flags of b. An unknown backend supports
// nothing optional.
func (b Backend) Capabilities() Capabilities {
	if d := b.Dialect(); d != nil {
		return d.Capabilities
	}
	return Capabilities{}
}

// Parse resolves a user supplied engine name (case-insensitive) to a Backend.
func Parse(name string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "postgres", "postgresql", "pg", "pgx":
		return Postgres, nil
	case "mysql", "mariadb":
		return MySQL, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
}
