package nodes

import "github.com/bawdo/selekt/sqltypes"

// AliasNode represents a column or expression alias: expr AS "name".
type AliasNode struct {
	Expr Expression
	Name string
}

// NewAliasNode creates an AliasNode.
func NewAliasNode(expr Expression, name string) *AliasNode {
	return &AliasNode{Expr: expr, Name: name}
}

func (n *AliasNode) WalkAST(pass Pass) error {
	if err := n.Expr.WalkAST(pass); err != nil {
		return err
	}
	pass.PushSQL(" AS ")
	pass.PushIdentifier(n.Name)
	return nil
}

func (n *AliasNode) SQLType() sqltypes.SQLType { return n.Expr.SQLType() }

func (n *AliasNode) CheckSource(src QuerySource) error { return checkSource(src, n.Expr) }

func (n *AliasNode) IsAggregate() bool { return isAggregate(n.Expr) }

func (n *AliasNode) WriteShape(w *ShapeWriter) {
	w.String(n.Name)
	w.Node(n.Expr)
}
