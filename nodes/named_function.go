package nodes

import (
	"fmt"

	"github.com/bawdo/selekt/sqltypes"
)

// NamedFunctionNode represents a named SQL function call like COALESCE or LOWER.
type NamedFunctionNode struct {
	Predications
	Arithmetics
	Combinable
	Name string
	Args []Expression
	Type sqltypes.SQLType
}

// NewNamedFunction creates a NamedFunctionNode declared with type t
// (Unknown when nil).
func NewNamedFunction(name string, t sqltypes.SQLType, args ...Expression) *NamedFunctionNode {
	if t == nil {
		t = sqltypes.Unknown
	}
	n := &NamedFunctionNode{Name: name, Args: args, Type: t}
	n.Predications.self = n
	n.Arithmetics.self = n
	n.Combinable.self = n
	return n
}

// Coalesce creates a COALESCE(args...) call typed as its first argument.
func Coalesce(args ...Expression) *NamedFunctionNode {
	var t sqltypes.SQLType = sqltypes.Unknown
	if len(args) > 0 {
		t = args[0].SQLType()
	}
	return NewNamedFunction("COALESCE", t, args...)
}

// Lower creates a LOWER(expr) function call.
func Lower(expr Expression) *NamedFunctionNode {
	return NewNamedFunction("LOWER", sqltypes.Text, expr)
}

// Upper creates an UPPER(expr) function call.
func Upper(expr Expression) *NamedFunctionNode {
	return NewNamedFunction("UPPER", sqltypes.Text, expr)
}

func (n *NamedFunctionNode) WalkAST(pass Pass) error {
	if err := validateFunctionName(n.Name); err != nil {
		return err
	}
	pass.PushSQL(n.Name)
	pass.PushSQL("(")
	if err := walkList(pass, n.Args, ", "); err != nil {
		return err
	}
	pass.PushSQL(")")
	return nil
}

func (n *NamedFunctionNode) SQLType() sqltypes.SQLType { return n.Type }

func (n *NamedFunctionNode) CheckSource(src QuerySource) error { return checkSource(src, n.Args...) }

func (n *NamedFunctionNode) IsAggregate() bool {
	for _, a := range n.Args {
		if isAggregate(a) {
			return true
		}
	}
	return false
}

func (n *NamedFunctionNode) WriteShape(w *ShapeWriter) {
	w.String(n.Name)
	w.String(n.Type.String())
	w.Int(len(n.Args))
	for _, a := range n.Args {
		w.Node(a)
	}
}

// validateFunctionName rejects names outside letters, digits and
// underscores, so a function name cannot carry injected SQL.
func validateFunctionName(name string) error {
	if name == "" {
		return fmt.Errorf("empty SQL function name")
	}
	for _, c := range name {
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') &&
			(c < '0' || c > '9') && c != '_' {
			return fmt.Errorf("invalid SQL function name character %q in %q", string(c), name)
		}
	}
	return nil
}
