package nodes

import (
	"fmt"
	"slices"
	"time"

	"github.com/bawdo/selekt/sqltypes"
)

// NullNode is the NULL keyword. It is never bound as a parameter.
type NullNode struct {
	Predications
	Combinable
}

// Null returns the NULL keyword node.
func Null() *NullNode {
	n := &NullNode{}
	n.Predications.self = n
	n.Combinable.self = n
	return n
}

func (n *NullNode) WalkAST(pass Pass) error {
	pass.PushSQL("NULL")
	return nil
}

func (n *NullNode) SQLType() sqltypes.SQLType { return sqltypes.Nullable{Inner: sqltypes.Unknown} }

// StarNode represents a SQL star (*) or qualified star (table.*).
type StarNode struct {
	Table *Table // nil for unqualified *
}

// Star returns an unqualified StarNode representing SQL *.
func Star() *StarNode {
	return &StarNode{}
}

func (n *StarNode) WalkAST(pass Pass) error {
	if n.Table != nil {
		pass.PushIdentifier(n.Table.Name)
		pass.PushSQL(".")
	}
	pass.PushSQL("*")
	return nil
}

func (n *StarNode) SQLType() sqltypes.SQLType {
	if n.Table != nil {
		return n.Table.RowType()
	}
	return sqltypes.Unknown
}

func (n *StarNode) CheckSource(src QuerySource) error {
	if IsTableless(src) {
		return errStarWithoutSource
	}
	if n.Table != nil && !slices.Contains(relations(src), n.Table.Name) {
		return fmt.Errorf("%q.* does not appear on %s", n.Table.Name, sourceName(src))
	}
	return nil
}

func (n *StarNode) WriteShape(w *ShapeWriter) {
	if n.Table != nil {
		w.String(n.Table.Name)
	}
}

// SqlLiteral represents a raw SQL fragment injected verbatim into the query.
//
// SECURITY: Raw is rendered directly into SQL output without escaping or
// parameterisation. Never pass user-controlled input to Raw. Use BindParam
// for user-provided values.
type SqlLiteral struct {
	Predications
	Arithmetics
	Combinable
	Raw  string
	Type sqltypes.SQLType
}

// Raw creates a SqlLiteral declared with type t (Unknown when nil).
func Raw(raw string, t sqltypes.SQLType) *SqlLiteral {
	if t == nil {
		t = sqltypes.Unknown
	}
	n := &SqlLiteral{Raw: raw, Type: t}
	n.Predications.self = n
	n.Arithmetics.self = n
	n.Combinable.self = n
	return n
}

func (n *SqlLiteral) WalkAST(pass Pass) error {
	pass.PushSQL(n.Raw)
	return nil
}

func (n *SqlLiteral) SQLType() sqltypes.SQLType { return n.Type }

func (n *SqlLiteral) WriteShape(w *ShapeWriter) {
	w.String(n.Raw)
	w.String(n.Type.String())
}

// inferType maps a Go value to the SQL type it binds as.
func inferType(val any) sqltypes.SQLType {
	switch val.(type) {
	case string:
		return sqltypes.Text
	case bool:
		return sqltypes.Bool
	case int, int8, int16, int32, uint8, uint16:
		return sqltypes.Integer
	case int64, uint, uint32, uint64:
		return sqltypes.BigInt
	case float32, float64:
		return sqltypes.Double
	case time.Time:
		return sqltypes.Timestamp
	case []byte:
		return sqltypes.Bytea
	default:
		return sqltypes.Unknown
	}
}
