package nodes

import (
	"github.com/bawdo/selekt/backend"
	"github.com/bawdo/selekt/sqltypes"
)

// OrderDirection represents ASC or DESC ordering.
type OrderDirection int

const (
	Asc OrderDirection = iota
	Desc
)

// NullsDirection controls NULLS FIRST/LAST positioning.
type NullsDirection int

const (
	NullsDefault NullsDirection = iota
	NullsFirst
	NullsLast
)

// OrderingNode represents an ORDER BY expression with a direction.
type OrderingNode struct {
	Expr      Expression
	Direction OrderDirection
	Nulls     NullsDirection
}

// NullsFirst returns a copy of the ordering with NULLS FIRST.
func (n *OrderingNode) NullsFirst() *OrderingNode {
	c := *n
	c.Nulls = NullsFirst
	return &c
}

// NullsLast returns a copy of the ordering with NULLS LAST.
func (n *OrderingNode) NullsLast() *OrderingNode {
	c := *n
	c.Nulls = NullsLast
	return &c
}

func (n *OrderingNode) WalkAST(pass Pass) error {
	if n.Nulls != NullsDefault && !pass.Backend().Capabilities().NullsOrdering {
		return backend.Unsupported(pass.Backend(), "NULLS FIRST/LAST")
	}
	if err := n.Expr.WalkAST(pass); err != nil {
		return err
	}
	if n.Direction == Desc {
		pass.PushSQL(" DESC")
	} else {
		pass.PushSQL(" ASC")
	}
	switch n.Nulls {
	case NullsFirst:
		pass.PushSQL(" NULLS FIRST")
	case NullsLast:
		pass.PushSQL(" NULLS LAST")
	}
	return nil
}

func (n *OrderingNode) SQLType() sqltypes.SQLType { return n.Expr.SQLType() }

func (n *OrderingNode) CheckSource(src QuerySource) error { return checkSource(src, n.Expr) }

func (n *OrderingNode) IsAggregate() bool { return isAggregate(n.Expr) }

func (n *OrderingNode) WriteShape(w *ShapeWriter) {
	w.Int(int(n.Direction))
	w.Int(int(n.Nulls))
	w.Node(n.Expr)
}
