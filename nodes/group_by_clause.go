package nodes

import "slices"

// GroupBySlot is the GROUP BY slot.
type GroupBySlot interface {
	QueryFragment
	groupBySlot()
}

// NoGroupByClause is the sentinel for an ungrouped statement.
type NoGroupByClause struct{}

func (NoGroupByClause) groupBySlot() {}

func (NoGroupByClause) WalkAST(Pass) error { return nil }

// GroupByClause lists the grouping expressions of a statement.
type GroupByClause struct {
	Exprs []Expression
}

// GroupBy builds a GroupByClause.
func GroupBy(exprs ...Expression) GroupByClause {
	return GroupByClause{Exprs: slices.Clone(exprs)}
}

func (GroupByClause) groupBySlot() {}

func (c GroupByClause) WalkAST(pass Pass) error {
	if len(c.Exprs) == 0 {
		return nil
	}
	pushClause(pass, "GROUP BY")
	return walkList(pass, c.Exprs, ", ")
}

func (c GroupByClause) CheckSource(src QuerySource) error { return checkSource(src, c.Exprs...) }

func (c GroupByClause) WriteShape(w *ShapeWriter) {
	w.Int(len(c.Exprs))
	for _, e := range c.Exprs {
		w.Node(e)
	}
}
