package nodes

import "github.com/bawdo/selekt/sqltypes"

// BindParamNode is a value that is always emitted as a bind parameter, or
// inlined as an escaped literal by debug rendering.
type BindParamNode struct {
	Predications
	Arithmetics
	Combinable
	Value any
	Type  sqltypes.SQLType
}

// NewBindParam creates a BindParamNode declared with type t. A nil t is
// inferred from the Go type of value.
func NewBindParam(value any, t sqltypes.SQLType) *BindParamNode {
	if t == nil {
		t = inferType(value)
	}
	n := &BindParamNode{Value: value, Type: t}
	n.Predications.self = n
	n.Arithmetics.self = n
	n.Combinable.self = n
	return n
}

func (n *BindParamNode) WalkAST(pass Pass) error {
	return pass.PushBindParam(n.Value, n.Type)
}

func (n *BindParamNode) SQLType() sqltypes.SQLType { return n.Type }

// WriteShape records the declared type only; the bound value is not part of
// the statement's shape.
func (n *BindParamNode) WriteShape(w *ShapeWriter) {
	w.String(n.Type.String())
}
