package nodes

// WhereSlot is the WHERE slot. And and Or return the slot that results from
// combining the current predicate with another.
type WhereSlot interface {
	QueryFragment
	And(pred Expression) WhereSlot
	Or(pred Expression) WhereSlot
	whereSlot()
}

// NoWhereClause is the sentinel for a statement without WHERE.
type NoWhereClause struct{}

func (NoWhereClause) whereSlot() {}

func (NoWhereClause) WalkAST(Pass) error { return nil }

func (NoWhereClause) And(pred Expression) WhereSlot { return WhereClause{Predicate: pred} }

func (NoWhereClause) Or(pred Expression) WhereSlot { return WhereClause{Predicate: pred} }

// WhereClause holds the combined predicate of a statement.
type WhereClause struct {
	Predicate Expression
}

// Where builds a WhereClause from predicates joined with AND.
func Where(preds ...Expression) WhereSlot {
	if p := And(preds...); p != nil {
		return WhereClause{Predicate: p}
	}
	return NoWhereClause{}
}

func (WhereClause) whereSlot() {}

func (c WhereClause) WalkAST(pass Pass) error {
	pushClause(pass, "WHERE")
	return c.Predicate.WalkAST(pass)
}

func (c WhereClause) And(pred Expression) WhereSlot {
	return WhereClause{Predicate: And(c.Predicate, pred)}
}

func (c WhereClause) Or(pred Expression) WhereSlot {
	or := &OrNode{Left: c.Predicate, Right: pred}
	or.self = or
	return WhereClause{Predicate: Grouped(or)}
}

func (c WhereClause) CheckSource(src QuerySource) error { return checkSource(src, c.Predicate) }

func (c WhereClause) WriteShape(w *ShapeWriter) { w.Node(c.Predicate) }
