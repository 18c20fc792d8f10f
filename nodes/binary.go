package nodes

import (
	"github.com/bawdo/selekt/backend"
	"github.com/bawdo/selekt/sqltypes"
)

// ComparisonOp represents a binary comparison operator.
type ComparisonOp int

const (
	OpEq ComparisonOp = iota
	OpNotEq
	OpGt
	OpGtEq
	OpLt
	OpLtEq
	OpLike
	OpNotLike
	OpILike
	OpNotILike
)

var comparisonOpSQL = [...]string{
	OpEq:       "=",
	OpNotEq:    "!=",
	OpGt:       ">",
	OpGtEq:     ">=",
	OpLt:       "<",
	OpLtEq:     "<=",
	OpLike:     "LIKE",
	OpNotLike:  "NOT LIKE",
	OpILike:    "ILIKE",
	OpNotILike: "NOT ILIKE",
}

// String returns the SQL spelling of op.
func (op ComparisonOp) String() string { return comparisonOpSQL[op] }

// ComparisonNode represents a binary comparison: Left Op Right.
type ComparisonNode struct {
	Combinable
	Left  Expression
	Right Expression
	Op    ComparisonOp
}

// NewComparisonNode creates a ComparisonNode with properly initialised embedded structs.
func NewComparisonNode(left, right Expression, op ComparisonOp) *ComparisonNode {
	n := &ComparisonNode{Left: left, Right: right, Op: op}
	n.self = n
	return n
}

func (n *ComparisonNode) WalkAST(pass Pass) error {
	if (n.Op == OpILike || n.Op == OpNotILike) &&
		!pass.Backend().Capabilities().CaseInsensitiveLike {
		return backend.Unsupported(pass.Backend(), n.Op.String(), "use LOWER(...) LIKE LOWER(...)")
	}
	if err := n.Left.WalkAST(pass); err != nil {
		return err
	}
	pass.PushSQL(" " + n.Op.String() + " ")
	return n.Right.WalkAST(pass)
}

func (n *ComparisonNode) SQLType() sqltypes.SQLType { return sqltypes.Bool }

func (n *ComparisonNode) CheckSource(src QuerySource) error {
	return checkSource(src, n.Left, n.Right)
}

func (n *ComparisonNode) IsAggregate() bool {
	return isAggregate(n.Left) || isAggregate(n.Right)
}

func (n *ComparisonNode) WriteShape(w *ShapeWriter) {
	w.Int(int(n.Op))
	w.Node(n.Left)
	w.Node(n.Right)
}
