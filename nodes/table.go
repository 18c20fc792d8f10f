package nodes

import (
	"fmt"
	"slices"

	"github.com/bawdo/selekt/sqltypes"
)

// QuerySource is the table source slot of a statement.
type QuerySource interface {
	// FromClause returns the fragment rendered after FROM.
	FromClause() QueryFragment

	// RowType is the type of the source's default selection.
	RowType() sqltypes.SQLType

	// Provides reports whether the source exposes column on relation.
	Provides(relation, column string) bool
}

// Relation is anything a column reference can be qualified by.
type Relation interface {
	RelationName() string
}

// ColumnDef declares a column and its SQL type.
type ColumnDef struct {
	Name string
	Type sqltypes.SQLType
}

// Column declares a column for NewTable.
func Column(name string, t sqltypes.SQLType) ColumnDef {
	return ColumnDef{Name: name, Type: t}
}

// Table represents a SQL table reference. A table declared without columns
// accepts any column name and types its columns as Unknown.
type Table struct {
	Name    string
	Columns []ColumnDef
}

// NewTable creates a table reference with optional column declarations.
func NewTable(name string, cols ...ColumnDef) *Table {
	return &Table{Name: name, Columns: slices.Clone(cols)}
}

func (t *Table) WalkAST(pass Pass) error {
	pass.PushIdentifier(t.Name)
	return nil
}

func (t *Table) FromClause() QueryFragment { return t }

func (t *Table) RelationName() string { return t.Name }

func (t *Table) RowType() sqltypes.SQLType {
	if len(t.Columns) == 0 {
		return sqltypes.Unknown
	}
	row := make(sqltypes.Record, len(t.Columns))
	for i, c := range t.Columns {
		row[i] = c.Type
	}
	return row
}

func (t *Table) Provides(relation, column string) bool {
	return relation == t.Name && t.hasColumn(column)
}

func (t *Table) hasColumn(name string) bool {
	if len(t.Columns) == 0 {
		return true
	}
	_, ok := t.columnType(name)
	return ok
}

func (t *Table) columnType(name string) (sqltypes.SQLType, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c.Type, true
		}
	}
	return sqltypes.Unknown, false
}

func (t *Table) WriteShape(w *ShapeWriter) {
	w.String(t.Name)
}

// Col creates an Attribute (column reference) bound to this table.
func (t *Table) Col(name string) *Attribute {
	typ, _ := t.columnType(name)
	return NewAttribute(t, name, typ)
}

// Alias creates an aliased reference to this table.
func (t *Table) Alias(name string) *TableAlias {
	return &TableAlias{Relation: t, AliasName: name}
}

// Star creates a qualified star (table.*) for this table.
func (t *Table) Star() *StarNode {
	return &StarNode{Table: t}
}

// TableAlias represents an aliased table: "users" AS "u".
type TableAlias struct {
	Relation  *Table
	AliasName string
}

func (ta *TableAlias) WalkAST(pass Pass) error {
	pass.PushIdentifier(ta.Relation.Name)
	pass.PushSQL(" AS ")
	pass.PushIdentifier(ta.AliasName)
	return nil
}

func (ta *TableAlias) FromClause() QueryFragment { return ta }

func (ta *TableAlias) RelationName() string { return ta.AliasName }

func (ta *TableAlias) RowType() sqltypes.SQLType { return ta.Relation.RowType() }

func (ta *TableAlias) Provides(relation, column string) bool {
	return relation == ta.AliasName && ta.Relation.hasColumn(column)
}

func (ta *TableAlias) WriteShape(w *ShapeWriter) {
	w.String(ta.Relation.Name)
	w.String(ta.AliasName)
}

// Col creates an Attribute (column reference) bound to this alias.
func (ta *TableAlias) Col(name string) *Attribute {
	typ, _ := ta.Relation.columnType(name)
	return NewAttribute(ta, name, typ)
}

// NoSource is the table-less source marker. A statement over NoSource
// renders without a FROM clause.
type NoSource struct{}

func (NoSource) FromClause() QueryFragment { return nil }

func (NoSource) RowType() sqltypes.SQLType { return sqltypes.Record{} }

func (NoSource) Provides(string, string) bool { return false }

// IsTableless reports whether src is the NoSource marker.
func IsTableless(src QuerySource) bool {
	_, ok := src.(NoSource)
	return ok
}

// sourceName describes src in error messages.
func sourceName(src QuerySource) string {
	switch s := src.(type) {
	case Relation:
		return fmt.Sprintf("%q", s.RelationName())
	case NoSource:
		return "no source"
	default:
		return fmt.Sprintf("%T", src)
	}
}
