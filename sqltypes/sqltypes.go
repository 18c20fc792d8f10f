// Package sqltypes models the SQL types declared by expressions and
// statements, and the per-backend rule that types a nested SELECT.
package sqltypes

import (
	"strings"

	"github.com/bawdo/selekt/backend"
)

// SQLType is a declared SQL type.
type SQLType interface {
	String() string
	sqlType()
}

// Scalar is a single-column SQL type.
type Scalar string

const (
	Integer   Scalar = "Integer"
	BigInt    Scalar = "BigInt"
	Double    Scalar = "Double"
	Numeric   Scalar = "Numeric"
	Text      Scalar = "Text"
	Bool      Scalar = "Bool"
	Timestamp Scalar = "Timestamp"
	Date      Scalar = "Date"
	Bytea     Scalar = "Bytea"

	// Unknown is declared by raw SQL and untyped bind values.
	Unknown Scalar = "Unknown"
)

func (s Scalar) String() string { return string(s) }

func (Scalar) sqlType() {}

// Nullable marks a type whose values may be NULL.
type Nullable struct {
	Inner SQLType
}

func (n Nullable) String() string { return "Nullable<" + n.Inner.String() + ">" }

func (Nullable) sqlType() {}

// Array is a sequence of Elem.
type Array struct {
	Elem SQLType
}

func (a Array) String() string { return "Array<" + a.Elem.String() + ">" }

func (Array) sqlType() {}

// Record is the row type of a multi-column selection.
type Record []SQLType

func (r Record) String() string {
	parts := make([]string, len(r))
	for i, t := range r {
		parts[i] = t.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (Record) sqlType() {}

// Equal reports whether a and b denote the same SQL type.
func Equal(a, b SQLType) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.String() == b.String()
}

// Rule maps the row type of a SELECT to the type the SELECT declares when it
// is used as an expression.
type Rule func(row SQLType) SQLType

func identity(row SQLType) SQLType { return row }

func arrayOf(row SQLType) SQLType { return Array{Elem: row} }

// rules is resolved once from the dialect table.
var rules = func() map[backend.Backend]Rule {
	m := make(map[backend.Backend]Rule, len(backend.All))
	for _, b := range backend.All {
		if b.Capabilities().ArraySubqueries {
			m[b] = arrayOf
		} else {
			m[b] = identity
		}
	}
	return m
}()

// RuleFor returns the expression typing rule of b. Unknown backends use the
// row type unchanged.
func RuleFor(b backend.Backend) Rule {
	if r, ok := rules[b]; ok {
		return r
	}
	return identity
}

// ExpressionType applies the rule of b to row.
func ExpressionType(b backend.Backend, row SQLType) SQLType {
	return RuleFor(b)(row)
}
