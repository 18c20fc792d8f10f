package nodes

import (
	"errors"
	"slices"

	"github.com/bawdo/selekt/sqltypes"
)

// SelectSlot is the select-list slot. Unlike the other slots it renders and
// types itself relative to the statement's source.
type SelectSlot interface {
	WalkSelect(src QuerySource, pass Pass) error
	SelectType(src QuerySource) sqltypes.SQLType
	CheckSource(src QuerySource) error
	selectSlot()
}

var errEmptySelect = errors.New("select list is empty")

// DefaultSelectClause selects every column of the source: SELECT *.
type DefaultSelectClause struct{}

func (DefaultSelectClause) selectSlot() {}

func (DefaultSelectClause) WalkSelect(_ QuerySource, pass Pass) error {
	pass.PushSQL("*")
	return nil
}

func (DefaultSelectClause) SelectType(src QuerySource) sqltypes.SQLType { return src.RowType() }

func (DefaultSelectClause) CheckSource(src QuerySource) error {
	if IsTableless(src) {
		return errStarWithoutSource
	}
	return nil
}

// SelectClause is an explicit projection list.
type SelectClause struct {
	Exprs []Expression
}

// Select builds a SelectClause projecting exprs.
func Select(exprs ...Expression) SelectClause {
	return SelectClause{Exprs: slices.Clone(exprs)}
}

func (SelectClause) selectSlot() {}

func (c SelectClause) WalkSelect(_ QuerySource, pass Pass) error {
	if len(c.Exprs) == 0 {
		return errEmptySelect
	}
	return walkList(pass, c.Exprs, ", ")
}

// SelectType is the type of the single projected expression, or a Record of
// the projected types.
func (c SelectClause) SelectType(_ QuerySource) sqltypes.SQLType {
	if len(c.Exprs) == 1 {
		return c.Exprs[0].SQLType()
	}
	row := make(sqltypes.Record, len(c.Exprs))
	for i, e := range c.Exprs {
		row[i] = e.SQLType()
	}
	return row
}

func (c SelectClause) CheckSource(src QuerySource) error {
	if len(c.Exprs) == 0 {
		return errEmptySelect
	}
	return checkSource(src, c.Exprs...)
}

func (c SelectClause) WriteShape(w *ShapeWriter) {
	w.Int(len(c.Exprs))
	for _, e := range c.Exprs {
		w.Node(e)
	}
}
