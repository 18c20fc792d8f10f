package nodes

import (
	"errors"

	"github.com/bawdo/selekt/sqltypes"
)

// CaseWhen represents a single WHEN ... THEN ... pair in a CASE expression.
type CaseWhen struct {
	Condition Expression
	Result    Expression
}

// CaseNode represents a SQL CASE expression:
//
//	CASE [operand] WHEN cond THEN result ... [ELSE val] END
//
// If Operand is nil, it is a "searched CASE" (CASE WHEN cond THEN ...).
// CaseNode values are immutable; When and Else return extended copies.
type CaseNode struct {
	Predications
	Arithmetics
	Combinable
	Operand Expression // nil for searched CASE
	Whens   []CaseWhen
	ElseVal Expression // nil if omitted
}

// NewCase creates a CaseNode. Pass an operand for simple CASE, or nothing for searched CASE.
func NewCase(operand ...Expression) *CaseNode {
	n := &CaseNode{}
	if len(operand) > 0 {
		n.Operand = operand[0]
	}
	return n.init()
}

func (n *CaseNode) init() *CaseNode {
	n.Predications.self = n
	n.Arithmetics.self = n
	n.Combinable.self = n
	return n
}

// When returns a copy with a WHEN cond THEN result pair appended. Plain Go
// values are bound as parameters.
func (n *CaseNode) When(cond, result any) *CaseNode {
	c := *n
	c.Whens = append(append([]CaseWhen(nil), n.Whens...), CaseWhen{Condition: Literal(cond), Result: Literal(result)})
	return c.init()
}

// Else returns a copy with the ELSE value set.
func (n *CaseNode) Else(result any) *CaseNode {
	c := *n
	c.ElseVal = Literal(result)
	return c.init()
}

var errEmptyCase = errors.New("CASE expression has no WHEN branch")

func (n *CaseNode) WalkAST(pass Pass) error {
	if len(n.Whens) == 0 {
		return errEmptyCase
	}
	pass.PushSQL("CASE")
	if n.Operand != nil {
		pass.PushSQL(" ")
		if err := n.Operand.WalkAST(pass); err != nil {
			return err
		}
	}
	for _, w := range n.Whens {
		pass.PushSQL(" WHEN ")
		if err := w.Condition.WalkAST(pass); err != nil {
			return err
		}
		pass.PushSQL(" THEN ")
		if err := w.Result.WalkAST(pass); err != nil {
			return err
		}
	}
	if n.ElseVal != nil {
		pass.PushSQL(" ELSE ")
		if err := n.ElseVal.WalkAST(pass); err != nil {
			return err
		}
	}
	pass.PushSQL(" END")
	return nil
}

// SQLType is the first branch's result type. Without ELSE the expression
// yields NULL when no branch matches.
func (n *CaseNode) SQLType() sqltypes.SQLType {
	if len(n.Whens) == 0 {
		return sqltypes.Unknown
	}
	t := n.Whens[0].Result.SQLType()
	if n.ElseVal == nil && !isNullable(t) {
		return sqltypes.Nullable{Inner: t}
	}
	return t
}

func (n *CaseNode) parts() []Expression {
	var out []Expression
	if n.Operand != nil {
		out = append(out, n.Operand)
	}
	for _, w := range n.Whens {
		out = append(out, w.Condition, w.Result)
	}
	if n.ElseVal != nil {
		out = append(out, n.ElseVal)
	}
	return out
}

func (n *CaseNode) CheckSource(src QuerySource) error { return checkSource(src, n.parts()...) }

func (n *CaseNode) IsAggregate() bool {
	for _, p := range n.parts() {
		if isAggregate(p) {
			return true
		}
	}
	return false
}

func (n *CaseNode) WriteShape(w *ShapeWriter) {
	w.Bool(n.Operand != nil)
	w.Int(len(n.Whens))
	w.Bool(n.ElseVal != nil)
	for _, p := range n.parts() {
		w.Node(p)
	}
}
