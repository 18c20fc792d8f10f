package nodes

import "github.com/bawdo/selekt/sqltypes"

// InfixOp identifies the binary math or concat operator.
type InfixOp int

const (
	OpPlus InfixOp = iota
	OpMinus
	OpMultiply
	OpDivide
	OpConcat
)

var infixOpSQL = [...]string{
	OpPlus:     "+",
	OpMinus:    "-",
	OpMultiply: "*",
	OpDivide:   "/",
	OpConcat:   "||",
}

// InfixNode represents a binary math or concat expression.
type InfixNode struct {
	Predications
	Arithmetics
	Combinable
	Left  Expression
	Right Expression
	Op    InfixOp
}

// NewInfixNode creates an InfixNode with properly initialised embedded structs.
func NewInfixNode(left, right Expression, op InfixOp) *InfixNode {
	n := &InfixNode{Left: left, Right: right, Op: op}
	n.Predications.self = n
	n.Arithmetics.self = n
	n.Combinable.self = n
	return n
}

// WalkAST parenthesises nested infix operands. Dialects without the ||
// operator concatenate with CONCAT(a, b).
func (n *InfixNode) WalkAST(pass Pass) error {
	if n.Op == OpConcat && !pass.Backend().Capabilities().ConcatOperator {
		pass.PushSQL("CONCAT(")
		if err := n.Left.WalkAST(pass); err != nil {
			return err
		}
		pass.PushSQL(", ")
		if err := n.Right.WalkAST(pass); err != nil {
			return err
		}
		pass.PushSQL(")")
		return nil
	}
	if err := walkOperand(pass, n.Left); err != nil {
		return err
	}
	pass.PushSQL(" " + infixOpSQL[n.Op] + " ")
	return walkOperand(pass, n.Right)
}

func walkOperand(pass Pass, e Expression) error {
	if _, nested := e.(*InfixNode); !nested {
		return e.WalkAST(pass)
	}
	pass.PushSQL("(")
	if err := e.WalkAST(pass); err != nil {
		return err
	}
	pass.PushSQL(")")
	return nil
}

// SQLType is Text for concatenation. Math takes the left operand's type,
// falling back to the right one when the left is untyped, and is nullable
// when either side is.
func (n *InfixNode) SQLType() sqltypes.SQLType {
	if n.Op == OpConcat {
		return sqltypes.Text
	}
	l, r := n.Left.SQLType(), n.Right.SQLType()
	t := l
	if base(l) == sqltypes.Unknown {
		t = base(r)
	}
	if isNullable(l) || isNullable(r) {
		return sqltypes.Nullable{Inner: base(t)}
	}
	return t
}

func base(t sqltypes.SQLType) sqltypes.SQLType {
	if n, ok := t.(sqltypes.Nullable); ok {
		return n.Inner
	}
	return t
}

func isNullable(t sqltypes.SQLType) bool {
	_, ok := t.(sqltypes.Nullable)
	return ok
}

func (n *InfixNode) CheckSource(src QuerySource) error { return checkSource(src, n.Left, n.Right) }

func (n *InfixNode) IsAggregate() bool { return isAggregate(n.Left) || isAggregate(n.Right) }

func (n *InfixNode) WriteShape(w *ShapeWriter) {
	w.Int(int(n.Op))
	w.Node(n.Left)
	w.Node(n.Right)
}
