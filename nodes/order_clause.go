package nodes

import "slices"

// OrderSlot is the ORDER BY slot.
type OrderSlot interface {
	QueryFragment
	orderSlot()
}

// NoOrderClause is the sentinel for an unordered statement.
type NoOrderClause struct{}

func (NoOrderClause) orderSlot() {}

func (NoOrderClause) WalkAST(Pass) error { return nil }

// OrderClause lists the ordering expressions of a statement.
type OrderClause struct {
	Orderings []Expression
}

// OrderBy builds an OrderClause. Pass OrderingNode values
// (e.g. table.Col("name").Asc()) or bare expressions.
func OrderBy(orderings ...Expression) OrderClause {
	return OrderClause{Orderings: slices.Clone(orderings)}
}

func (OrderClause) orderSlot() {}

func (c OrderClause) WalkAST(pass Pass) error {
	if len(c.Orderings) == 0 {
		return nil
	}
	pushClause(pass, "ORDER BY")
	return walkList(pass, c.Orderings, ", ")
}

func (c OrderClause) CheckSource(src QuerySource) error { return checkSource(src, c.Orderings...) }

func (c OrderClause) WriteShape(w *ShapeWriter) {
	w.Int(len(c.Orderings))
	for _, o := range c.Orderings {
		w.Node(o)
	}
}
