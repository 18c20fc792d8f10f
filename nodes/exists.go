package nodes

import "github.com/bawdo/selekt/sqltypes"

// ExistsNode represents an EXISTS or NOT EXISTS subquery expression.
// The subquery is walked through the enclosing pass, so its bind
// placeholders continue the outer statement's numbering.
type ExistsNode struct {
	Combinable
	Subquery *SelectStatement
	Negated  bool
}

// Exists creates an EXISTS (subquery) node.
func Exists(subquery *SelectStatement) *ExistsNode {
	n := &ExistsNode{Subquery: subquery}
	n.self = n
	return n
}

// NotExists creates a NOT EXISTS (subquery) node.
func NotExists(subquery *SelectStatement) *ExistsNode {
	n := Exists(subquery)
	n.Negated = true
	return n
}

func (n *ExistsNode) WalkAST(pass Pass) error {
	if n.Negated {
		pass.PushSQL("NOT ")
	}
	pass.PushSQL("EXISTS (")
	if err := n.Subquery.WalkAST(pass); err != nil {
		return err
	}
	pass.PushSQL(")")
	return nil
}

func (n *ExistsNode) SQLType() sqltypes.SQLType { return sqltypes.Bool }

func (n *ExistsNode) WriteShape(w *ShapeWriter) {
	w.Bool(n.Negated)
	w.Node(n.Subquery)
}
