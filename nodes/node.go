// Package nodes defines the clause slots and expression nodes that make up a
// SELECT statement, and the traversal contract every one of them implements.
package nodes

import (
	"github.com/bawdo/selekt/backend"
	"github.com/bawdo/selekt/sqltypes"
)

// QueryFragment is implemented by everything that renders into a statement.
// WalkAST appends the fragment's SQL text and bind values to pass, in the
// order they appear in the statement. Text rendering and parameter
// collection are two passes over this same walk.
type QueryFragment interface {
	WalkAST(pass Pass) error
}

// Pass is the accumulator a fragment writes into during a walk.
// The visitors package provides the implementations.
type Pass interface {
	// Backend reports the dialect being rendered.
	Backend() backend.Backend

	// PushSQL appends raw SQL text.
	PushSQL(sql string)

	// PushIdentifier appends a quoted identifier.
	PushIdentifier(name string)

	// PushBindParam appends a placeholder and records value as its parameter.
	PushBindParam(value any, t sqltypes.SQLType) error
}

// Expression is a fragment with a declared SQL type.
type Expression interface {
	QueryFragment
	SQLType() sqltypes.SQLType
}

// ClausePass is implemented by passes that lay out clause keywords
// themselves. A statement brackets its walk with EnterStatement and
// LeaveStatement so the pass can tell top-level clauses from nested ones.
type ClausePass interface {
	PushClause(keyword string)
	EnterStatement()
	LeaveStatement()
}

// pushClause emits a clause keyword such as WHERE, surrounded by spaces
// unless the pass lays it out itself.
func pushClause(pass Pass, keyword string) {
	if c, ok := pass.(ClausePass); ok {
		c.PushClause(keyword)
		return
	}
	pass.PushSQL(" " + keyword + " ")
}

// SourceChecker is implemented by nodes that reference columns, so a
// statement can reject them when its source does not provide those columns.
type SourceChecker interface {
	CheckSource(src QuerySource) error
}

// Aggregator is implemented by nodes that may contain aggregate calls.
type Aggregator interface {
	IsAggregate() bool
}

// checkSource runs CheckSource on every expression that supports it.
func checkSource(src QuerySource, exprs ...Expression) error {
	for _, e := range exprs {
		if c, ok := e.(SourceChecker); ok {
			if err := c.CheckSource(src); err != nil {
				return err
			}
		}
	}
	return nil
}

// isAggregate reports whether e is, or contains, an aggregate call.
func isAggregate(e Expression) bool {
	a, ok := e.(Aggregator)
	return ok && a.IsAggregate()
}

// checkCapability is shared by nodes that render only where a dialect flag is set.
func checkCapability(pass Pass, ok bool, feature string) error {
	if !ok {
		return backend.Unsupported(pass.Backend(), feature)
	}
	return nil
}

// walkList walks exprs separated by sep.
func walkList(pass Pass, exprs []Expression, sep string) error {
	for i, e := range exprs {
		if i > 0 {
			pass.PushSQL(sep)
		}
		if err := e.WalkAST(pass); err != nil {
			return err
		}
	}
	return nil
}

// Literal wraps a raw Go value as a bound parameter. If val already
// implements Expression, it is returned as-is; nil becomes the NULL keyword.
func Literal(val any) Expression {
	switch v := val.(type) {
	case Expression:
		return v
	case nil:
		return Null()
	}
	return NewBindParam(val, inferType(val))
}

func literals(vals []any) []Expression {
	out := make([]Expression, len(vals))
	for i, v := range vals {
		out[i] = Literal(v)
	}
	return out
}
