package backend

import (
	"strconv"
	"strings"
)

// Capabilities describes the optional SQL features a dialect supports.
type Capabilities struct {
	DistinctOn          bool // DISTINCT ON (expr, ...)
	CaseInsensitiveLike bool // ILIKE
	NullsOrdering       bool // NULLS FIRST / NULLS LAST
	ArraySubqueries     bool // a nested SELECT is addressable as an array value
	OffsetWithoutLimit  bool // OFFSET may appear without LIMIT
	FullOuterJoin       bool // FULL OUTER JOIN
	ConcatOperator      bool // a || b concatenates strings
}

// Dialect is the per-backend rendering table.
type Dialect struct {
	Backend Backend
	Name    string

	// DriverName is the database/sql driver registered for this dialect.
	DriverName string

	// QuoteIdent quotes a SQL identifier (table name, column name).
	QuoteIdent func(string) string

	// Placeholder returns the bind placeholder for a 1-based parameter index.
	// PostgreSQL uses $1, $2; MySQL/SQLite use ?.
	Placeholder func(int) string

	Capabilities Capabilities
}

var dialects = [...]Dialect{
	Postgres: {
		Backend:     Postgres,
		Name:        "postgres",
		DriverName:  "pgx",
		QuoteIdent:  DoubleQuote,
		Placeholder: func(i int) string { return "$" + strconv.Itoa(i) },
		Capabilities: Capabilities{
			DistinctOn:          true,
			CaseInsensitiveLike: true,
			NullsOrdering:       true,
			ArraySubqueries:     true,
			OffsetWithoutLimit:  true,
			FullOuterJoin:       true,
			ConcatOperator:      true,
		},
	},
	MySQL: {
		Backend:     MySQL,
		Name:        "mysql",
		DriverName:  "mysql",
		QuoteIdent:  Backtick,
		Placeholder: func(_ int) string { return "?" },
	},
	SQLite: {
		Backend:     SQLite,
		Name:        "sqlite",
		DriverName:  "sqlite",
		QuoteIdent:  DoubleQuote,
		Placeholder: func(_ int) string { return "?" },
		Capabilities: Capabilities{
			NullsOrdering:  true,
			FullOuterJoin:  true,
			ConcatOperator: true,
		},
	},
}

// DoubleQuote quotes an identifier ANSI style. Embedded double quotes are doubled.
func DoubleQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Backtick quotes an identifier MySQL style. Embedded backticks are doubled.
func Backtick(s string) string {
	return "`" + strings.ReplaceAll(s, "`", "``") + "`"
}

// EscapeString escapes a string literal body by doubling single quotes and
// backslashes.
//
// SECURITY: only debug rendering inlines literals. Statements that reach a
// database bind their values as parameters.
func EscapeString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "'", "''")
}
