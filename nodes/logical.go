package nodes

import "github.com/bawdo/selekt/sqltypes"

// AndNode represents a logical AND between two expressions.
type AndNode struct {
	Combinable
	Left  Expression
	Right Expression
}

func (n *AndNode) WalkAST(pass Pass) error {
	if err := n.Left.WalkAST(pass); err != nil {
		return err
	}
	pass.PushSQL(" AND ")
	return n.Right.WalkAST(pass)
}

func (n *AndNode) SQLType() sqltypes.SQLType { return sqltypes.Bool }

func (n *AndNode) CheckSource(src QuerySource) error { return checkSource(src, n.Left, n.Right) }

func (n *AndNode) IsAggregate() bool { return isAggregate(n.Left) || isAggregate(n.Right) }

func (n *AndNode) WriteShape(w *ShapeWriter) {
	w.Node(n.Left)
	w.Node(n.Right)
}

// OrNode represents a logical OR between two expressions.
type OrNode struct {
	Combinable
	Left  Expression
	Right Expression
}

func (n *OrNode) WalkAST(pass Pass) error {
	if err := n.Left.WalkAST(pass); err != nil {
		return err
	}
	pass.PushSQL(" OR ")
	return n.Right.WalkAST(pass)
}

func (n *OrNode) SQLType() sqltypes.SQLType { return sqltypes.Bool }

func (n *OrNode) CheckSource(src QuerySource) error { return checkSource(src, n.Left, n.Right) }

func (n *OrNode) IsAggregate() bool { return isAggregate(n.Left) || isAggregate(n.Right) }

func (n *OrNode) WriteShape(w *ShapeWriter) {
	w.Node(n.Left)
	w.Node(n.Right)
}

// NotNode represents a logical NOT of an expression.
type NotNode struct {
	Combinable
	Expr Expression
}

func (n *NotNode) WalkAST(pass Pass) error {
	pass.PushSQL("NOT (")
	if err := n.Expr.WalkAST(pass); err != nil {
		return err
	}
	pass.PushSQL(")")
	return nil
}

func (n *NotNode) SQLType() sqltypes.SQLType { return sqltypes.Bool }

func (n *NotNode) CheckSource(src QuerySource) error { return checkSource(src, n.Expr) }

func (n *NotNode) IsAggregate() bool { return isAggregate(n.Expr) }

func (n *NotNode) WriteShape(w *ShapeWriter) { w.Node(n.Expr) }

// And folds predicates into a left-deep AND chain. It returns nil when
// given no predicates.
func And(preds ...Expression) Expression {
	var out Expression
	for _, p := range preds {
		if out == nil {
			out = p
			continue
		}
		n := &AndNode{Left: out, Right: p}
		n.self = n
		out = n
	}
	return out
}
