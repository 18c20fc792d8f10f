package nodes

import "github.com/bawdo/selekt/sqltypes"

// GroupingNode wraps an expression in parentheses for precedence control.
type GroupingNode struct {
	Combinable
	Expr Expression
}

// Grouped wraps expr in a GroupingNode.
func Grouped(expr Expression) *GroupingNode {
	g := &GroupingNode{Expr: expr}
	g.self = g
	return g
}

func (n *GroupingNode) WalkAST(pass Pass) error {
	pass.PushSQL("(")
	if err := n.Expr.WalkAST(pass); err != nil {
		return err
	}
	pass.PushSQL(")")
	return nil
}

func (n *GroupingNode) SQLType() sqltypes.SQLType { return n.Expr.SQLType() }

func (n *GroupingNode) CheckSource(src QuerySource) error { return checkSource(src, n.Expr) }

func (n *GroupingNode) IsAggregate() bool { return isAggregate(n.Expr) }

func (n *GroupingNode) WriteShape(w *ShapeWriter) { w.Node(n.Expr) }
