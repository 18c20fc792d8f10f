package nodes

import "github.com/bawdo/selekt/sqltypes"

// UnaryOp represents a unary postfix operator.
type UnaryOp int

const (
	OpIsNull UnaryOp = iota
	OpIsNotNull
)

// UnaryNode represents a unary predicate: Expr IS NULL / IS NOT NULL.
type UnaryNode struct {
	Combinable
	Expr Expression
	Op   UnaryOp
}

func (n *UnaryNode) WalkAST(pass Pass) error {
	if err := n.Expr.WalkAST(pass); err != nil {
		return err
	}
	if n.Op == OpIsNotNull {
		pass.PushSQL(" IS NOT NULL")
	} else {
		pass.PushSQL(" IS NULL")
	}
	return nil
}

func (n *UnaryNode) SQLType() sqltypes.SQLType { return sqltypes.Bool }

func (n *UnaryNode) CheckSource(src QuerySource) error { return checkSource(src, n.Expr) }

func (n *UnaryNode) IsAggregate() bool { return isAggregate(n.Expr) }

func (n *UnaryNode) WriteShape(w *ShapeWriter) {
	w.Int(int(n.Op))
	w.Node(n.Expr)
}
