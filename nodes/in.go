package nodes

import "github.com/bawdo/selekt/sqltypes"

// InNode represents an IN or NOT IN set predicate over a value list or a
// subquery. An empty value list renders as a constant predicate, since
// "IN ()" is not valid SQL.
type InNode struct {
	Combinable
	Expr     Expression
	Vals     []Expression
	Subquery *SelectStatement // used instead of Vals when non-nil
	Negate   bool
}

func (n *InNode) WalkAST(pass Pass) error {
	if n.Subquery == nil && len(n.Vals) == 0 {
		if n.Negate {
			pass.PushSQL("1=1")
		} else {
			pass.PushSQL("1=0")
		}
		return nil
	}
	if err := n.Expr.WalkAST(pass); err != nil {
		return err
	}
	if n.Negate {
		pass.PushSQL(" NOT IN (")
	} else {
		pass.PushSQL(" IN (")
	}
	var err error
	if n.Subquery != nil {
		err = n.Subquery.WalkAST(pass)
	} else {
		err = walkList(pass, n.Vals, ", ")
	}
	if err != nil {
		return err
	}
	pass.PushSQL(")")
	return nil
}

func (n *InNode) SQLType() sqltypes.SQLType { return sqltypes.Bool }

func (n *InNode) CheckSource(src QuerySource) error {
	if err := checkSource(src, n.Expr); err != nil {
		return err
	}
	if n.Subquery != nil {
		return checkScalar(n.Subquery)
	}
	return checkSource(src, n.Vals...)
}

func (n *InNode) IsAggregate() bool { return isAggregate(n.Expr) }

func (n *InNode) WriteShape(w *ShapeWriter) {
	w.Bool(n.Negate)
	w.Node(n.Expr)
	w.Int(len(n.Vals))
	for _, v := range n.Vals {
		w.Node(v)
	}
	if n.Subquery != nil {
		w.Node(n.Subquery)
	}
}

// BetweenNode represents a BETWEEN or NOT BETWEEN range predicate.
type BetweenNode struct {
	Combinable
	Expr   Expression
	Low    Expression
	High   Expression
	Negate bool
}

func (n *BetweenNode) WalkAST(pass Pass) error {
	if err := n.Expr.WalkAST(pass); err != nil {
		return err
	}
	if n.Negate {
		pass.PushSQL(" NOT BETWEEN ")
	} else {
		pass.PushSQL(" BETWEEN ")
	}
	if err := n.Low.WalkAST(pass); err != nil {
		return err
	}
	pass.PushSQL(" AND ")
	return n.High.WalkAST(pass)
}

func (n *BetweenNode) SQLType() sqltypes.SQLType { return sqltypes.Bool }

func (n *BetweenNode) CheckSource(src QuerySource) error {
	return checkSource(src, n.Expr, n.Low, n.High)
}

func (n *BetweenNode) IsAggregate() bool { return isAggregate(n.Expr) }

func (n *BetweenNode) WriteShape(w *ShapeWriter) {
	w.Bool(n.Negate)
	w.Node(n.Expr)
	w.Node(n.Low)
	w.Node(n.High)
}
