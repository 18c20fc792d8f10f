package nodes

import (
	"errors"
	"fmt"
	"slices"

	"github.com/bawdo/selekt/backend"
	"github.com/bawdo/selekt/sqltypes"
)

var errStarSubquery = errors.New("subquery must project exactly one column, not *")

// checkScalar rejects a subquery that can yield more than one column.
func checkScalar(sub *SelectStatement) error {
	if _, star := sub.sel.(DefaultSelectClause); star {
		return errStarSubquery
	}
	if list, ok := sub.sel.(SelectClause); ok {
		for _, e := range list.Exprs {
			if _, star := e.(*StarNode); star {
				return errStarSubquery
			}
		}
	}
	if row, ok := sub.RowType().(sqltypes.Record); ok && len(row) != 1 {
		return fmt.Errorf("subquery must project exactly one column, got %d", len(row))
	}
	return nil
}

// SubqueryNode is a scalar subquery used as an expression: (SELECT ...).
// It is typed for one backend, the way the statement declares itself there,
// and refuses to render for any other.
type SubqueryNode struct {
	Predications
	Arithmetics
	Combinable
	Query   *SelectStatement
	Backend backend.Backend
}

// Subquery wraps stmt as an expression typed for b. The subquery is walked
// through the enclosing pass, so its placeholders continue the outer
// numbering.
func Subquery(stmt *SelectStatement, b backend.Backend) *SubqueryNode {
	n := &SubqueryNode{Query: stmt, Backend: b}
	n.Predications.self = n
	n.Arithmetics.self = n
	n.Combinable.self = n
	return n
}

func (n *SubqueryNode) WalkAST(pass Pass) error {
	if got := pass.Backend(); got != n.Backend {
		return fmt.Errorf("subquery typed for %s rendered for %s", n.Backend, got)
	}
	pass.PushSQL("(")
	if err := n.Query.WalkAST(pass); err != nil {
		return err
	}
	pass.PushSQL(")")
	return nil
}

func (n *SubqueryNode) SQLType() sqltypes.SQLType { return n.Query.SQLType(n.Backend) }

// CheckSource validates the subquery's projection. Its columns come from
// its own source, so the outer source is not consulted.
func (n *SubqueryNode) CheckSource(QuerySource) error { return checkScalar(n.Query) }

func (n *SubqueryNode) WriteShape(w *ShapeWriter) {
	w.Int(int(n.Backend))
	w.Node(n.Query)
}

// DerivedTable is a subquery used as a source: (SELECT ...) AS "name".
// Its columns are the projected attributes and aliases of the subquery.
type DerivedTable struct {
	Query     *SelectStatement
	AliasName string
}

// Derived names stmt so it can be selected from or joined.
func Derived(stmt *SelectStatement, name string) *DerivedTable {
	return &DerivedTable{Query: stmt, AliasName: name}
}

func (d *DerivedTable) WalkAST(pass Pass) error {
	pass.PushSQL("(")
	if err := d.Query.WalkAST(pass); err != nil {
		return err
	}
	pass.PushSQL(") AS ")
	pass.PushIdentifier(d.AliasName)
	return nil
}

func (d *DerivedTable) FromClause() QueryFragment { return d }

func (d *DerivedTable) RelationName() string { return d.AliasName }

// RowType is the subquery's row, always as a Record so joins can extend it.
func (d *DerivedTable) RowType() sqltypes.SQLType {
	switch row := d.Query.RowType().(type) {
	case sqltypes.Record:
		return row
	case sqltypes.Scalar:
		if row == sqltypes.Unknown {
			return row
		}
	}
	return sqltypes.Record{d.Query.RowType()}
}

func (d *DerivedTable) Provides(relation, column string) bool {
	if relation != d.AliasName {
		return false
	}
	cols, open := d.columns()
	return open || slices.ContainsFunc(cols, func(c ColumnDef) bool { return c.Name == column })
}

// columns lists the named output columns. open reports that the subquery
// may expose columns that cannot be listed, as with SELECT * over an
// undeclared table.
func (d *DerivedTable) columns() (cols []ColumnDef, open bool) {
	switch sel := d.Query.sel.(type) {
	case DefaultSelectClause:
		return sourceColumns(d.Query.from)
	case SelectClause:
		for _, e := range sel.Exprs {
			switch x := e.(type) {
			case *Attribute:
				cols = append(cols, ColumnDef{Name: x.Name, Type: x.Type})
			case *AliasNode:
				cols = append(cols, ColumnDef{Name: x.Name, Type: x.SQLType()})
			case *StarNode:
				open = true
			}
		}
	}
	return cols, open
}

func sourceColumns(src QuerySource) ([]ColumnDef, bool) {
	switch s := src.(type) {
	case *Table:
		return s.Columns, len(s.Columns) == 0
	case *TableAlias:
		return s.Relation.Columns, len(s.Relation.Columns) == 0
	case *DerivedTable:
		return s.columns()
	}
	return nil, true
}

// Col creates an Attribute referencing an output column of the subquery.
func (d *DerivedTable) Col(name string) *Attribute {
	cols, _ := d.columns()
	typ := sqltypes.SQLType(sqltypes.Unknown)
	if i := slices.IndexFunc(cols, func(c ColumnDef) bool { return c.Name == name }); i >= 0 {
		typ = cols[i].Type
	}
	return NewAttribute(d, name, typ)
}

func (d *DerivedTable) WriteShape(w *ShapeWriter) {
	w.String(d.AliasName)
	w.Node(d.Query)
}

// relations lists the relation names a source exposes, left to right.
func relations(src QuerySource) []string {
	switch s := src.(type) {
	case *JoinSource:
		return append(relations(s.Left), s.Right.RelationName())
	case Relation:
		return []string{s.RelationName()}
	}
	return nil
}
