package nodes

import (
	"github.com/bawdo/selekt/backend"
	"github.com/bawdo/selekt/sqltypes"
)

// castTypeNames spells each scalar type in each dialect's CAST syntax.
// An empty entry means the dialect has no cast target for the type.
var castTypeNames = [...]map[sqltypes.Scalar]string{
	backend.Postgres: {
		sqltypes.Integer:   "integer",
		sqltypes.BigInt:    "bigint",
		sqltypes.Double:    "double precision",
		sqltypes.Numeric:   "numeric",
		sqltypes.Text:      "text",
		sqltypes.Bool:      "boolean",
		sqltypes.Timestamp: "timestamp",
		sqltypes.Date:      "date",
		sqltypes.Bytea:     "bytea",
	},
	backend.MySQL: {
		sqltypes.Integer:   "SIGNED",
		sqltypes.BigInt:    "SIGNED",
		sqltypes.Double:    "DOUBLE",
		sqltypes.Numeric:   "DECIMAL",
		sqltypes.Text:      "CHAR",
		sqltypes.Timestamp: "DATETIME",
		sqltypes.Date:      "DATE",
		sqltypes.Bytea:     "BINARY",
	},
	backend.SQLite: {
		sqltypes.Integer:   "INTEGER",
		sqltypes.BigInt:    "INTEGER",
		sqltypes.Double:    "REAL",
		sqltypes.Numeric:   "NUMERIC",
		sqltypes.Text:      "TEXT",
		sqltypes.Bool:      "INTEGER",
		sqltypes.Timestamp: "TEXT",
		sqltypes.Date:      "TEXT",
		sqltypes.Bytea:     "BLOB",
	},
}

// CastNode converts an expression to a scalar type: CAST(expr AS type).
type CastNode struct {
	Predications
	Arithmetics
	Combinable
	Expr Expression
	To   sqltypes.Scalar
}

// Cast creates a CastNode. The target type is spelled per dialect at
// render time.
func Cast(expr Expression, to sqltypes.Scalar) *CastNode {
	n := &CastNode{Expr: expr, To: to}
	n.Predications.self = n
	n.Arithmetics.self = n
	n.Combinable.self = n
	return n
}

func (n *CastNode) WalkAST(pass Pass) error {
	b := pass.Backend()
	name := ""
	if int(b) >= 0 && int(b) < len(castTypeNames) {
		name = castTypeNames[b][n.To]
	}
	if name == "" {
		return backend.Unsupported(b, "CAST to "+n.To.String())
	}
	pass.PushSQL("CAST(")
	if err := n.Expr.WalkAST(pass); err != nil {
		return err
	}
	pass.PushSQL(" AS " + name + ")")
	return nil
}

// SQLType is the target type, nullable when the operand is.
func (n *CastNode) SQLType() sqltypes.SQLType {
	if isNullable(n.Expr.SQLType()) {
		return sqltypes.Nullable{Inner: n.To}
	}
	return n.To
}

func (n *CastNode) CheckSource(src QuerySource) error { return checkSource(src, n.Expr) }

func (n *CastNode) IsAggregate() bool { return isAggregate(n.Expr) }

func (n *CastNode) WriteShape(w *ShapeWriter) {
	w.String(n.To.String())
	w.Node(n.Expr)
}
