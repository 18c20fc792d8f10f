package nodes

import "github.com/bawdo/selekt/sqltypes"

// AggregateFunc identifies the aggregate function.
type AggregateFunc int

const (
	AggCount AggregateFunc = iota
	AggSum
	AggAvg
	AggMin
	AggMax
)

var aggregateFuncSQL = [...]string{
	AggCount: "COUNT",
	AggSum:   "SUM",
	AggAvg:   "AVG",
	AggMin:   "MIN",
	AggMax:   "MAX",
}

// AggregateNode represents an aggregate function call (COUNT, SUM, AVG, MIN, MAX).
type AggregateNode struct {
	Predications
	Arithmetics
	Combinable
	Func     AggregateFunc
	Expr     Expression // argument (nil for COUNT(*))
	Distinct bool       // COUNT(DISTINCT ...)
}

// NewAggregateNode creates an AggregateNode with properly initialised embedded structs.
func NewAggregateNode(fn AggregateFunc, expr Expression) *AggregateNode {
	n := &AggregateNode{Func: fn, Expr: expr}
	n.Predications.self = n
	n.Arithmetics.self = n
	n.Combinable.self = n
	return n
}

// Count creates a COUNT aggregate. Pass nil for COUNT(*).
func Count(expr Expression) *AggregateNode { return NewAggregateNode(AggCount, expr) }

// Sum creates a SUM aggregate.
func Sum(expr Expression) *AggregateNode { return NewAggregateNode(AggSum, expr) }

// Avg creates an AVG aggregate.
func Avg(expr Expression) *AggregateNode { return NewAggregateNode(AggAvg, expr) }

// Min creates a MIN aggregate.
func Min(expr Expression) *AggregateNode { return NewAggregateNode(AggMin, expr) }

// Max creates a MAX aggregate.
func Max(expr Expression) *AggregateNode { return NewAggregateNode(AggMax, expr) }

// CountDistinct creates a COUNT(DISTINCT expr) aggregate.
func CountDistinct(expr Expression) *AggregateNode {
	n := NewAggregateNode(AggCount, expr)
	n.Distinct = true
	return n
}

func (n *AggregateNode) WalkAST(pass Pass) error {
	pass.PushSQL(aggregateFuncSQL[n.Func])
	pass.PushSQL("(")
	if n.Distinct {
		pass.PushSQL("DISTINCT ")
	}
	if n.Expr == nil {
		pass.PushSQL("*")
	} else if err := n.Expr.WalkAST(pass); err != nil {
		return err
	}
	pass.PushSQL(")")
	return nil
}

// SQLType follows the usual typing of aggregates: COUNT is BigInt, AVG is
// Numeric, and every aggregate other than COUNT is NULL over an empty input.
func (n *AggregateNode) SQLType() sqltypes.SQLType {
	switch n.Func {
	case AggCount:
		return sqltypes.BigInt
	case AggAvg:
		return sqltypes.Nullable{Inner: sqltypes.Numeric}
	}
	var inner sqltypes.SQLType = sqltypes.Unknown
	if n.Expr != nil {
		inner = n.Expr.SQLType()
	}
	if _, ok := inner.(sqltypes.Nullable); ok {
		return inner
	}
	return sqltypes.Nullable{Inner: inner}
}

func (n *AggregateNode) CheckSource(src QuerySource) error {
	if n.Expr == nil {
		return nil
	}
	return checkSource(src, n.Expr)
}

func (n *AggregateNode) IsAggregate() bool { return true }

func (n *AggregateNode) WriteShape(w *ShapeWriter) {
	w.Int(int(n.Func))
	w.Bool(n.Distinct)
	if n.Expr != nil {
		w.Node(n.Expr)
	}
}
