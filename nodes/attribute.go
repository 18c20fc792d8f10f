package nodes

import (
	"fmt"

	"github.com/bawdo/selekt/sqltypes"
)

// Attribute represents a column reference bound to a table or table alias.
type Attribute struct {
	Predications
	Arithmetics
	Combinable
	Name     string
	Relation Relation // *Table or *TableAlias
	Type     sqltypes.SQLType
}

// NewAttribute creates an Attribute with Predications and Combinable
// properly initialised to reference the new Attribute as self.
func NewAttribute(relation Relation, name string, t sqltypes.SQLType) *Attribute {
	if t == nil {
		t = sqltypes.Unknown
	}
	a := &Attribute{Name: name, Relation: relation, Type: t}
	a.Predications.self = a
	a.Arithmetics.self = a
	a.Combinable.self = a
	return a
}

func (a *Attribute) WalkAST(pass Pass) error {
	pass.PushIdentifier(a.Relation.RelationName())
	pass.PushSQL(".")
	pass.PushIdentifier(a.Name)
	return nil
}

func (a *Attribute) SQLType() sqltypes.SQLType { return a.Type }

func (a *Attribute) CheckSource(src QuerySource) error {
	rel := a.Relation.RelationName()
	if !src.Provides(rel, a.Name) {
		return fmt.Errorf("column %q.%q does not appear on %s", rel, a.Name, sourceName(src))
	}
	return nil
}

func (a *Attribute) WriteShape(w *ShapeWriter) {
	w.String(a.Relation.RelationName())
	w.String(a.Name)
	w.String(a.Type.String())
}

// Typed returns a copy of the Attribute declared with type t.
func (a *Attribute) Typed(t sqltypes.SQLType) *Attribute {
	return NewAttribute(a.Relation, a.Name, t)
}
