package nodes

import "github.com/bawdo/selekt/sqltypes"

// LimitSlot is the LIMIT slot.
type LimitSlot interface {
	QueryFragment
	limitSlot()
}

// NoLimitClause is the sentinel for an unbounded statement.
type NoLimitClause struct{}

func (NoLimitClause) limitSlot() {}

func (NoLimitClause) WalkAST(Pass) error { return nil }

// LimitClause bounds the row count. The count is bound as a parameter.
type LimitClause struct {
	Count int64
}

// Limit builds a LimitClause.
func Limit(n int64) LimitClause { return LimitClause{Count: n} }

func (LimitClause) limitSlot() {}

func (c LimitClause) WalkAST(pass Pass) error {
	pushClause(pass, "LIMIT")
	return pass.PushBindParam(c.Count, sqltypes.BigInt)
}

// OffsetSlot is the OFFSET slot.
type OffsetSlot interface {
	QueryFragment
	offsetSlot()
}

// NoOffsetClause is the sentinel for a statement without OFFSET.
type NoOffsetClause struct{}

func (NoOffsetClause) offsetSlot() {}

func (NoOffsetClause) WalkAST(Pass) error { return nil }

// OffsetClause skips rows. The count is bound as a parameter.
type OffsetClause struct {
	Count int64
}

// Offset builds an OffsetClause.
func Offset(n int64) OffsetClause { return OffsetClause{Count: n} }

func (OffsetClause) offsetSlot() {}

func (c OffsetClause) WalkAST(pass Pass) error {
	pushClause(pass, "OFFSET")
	return pass.PushBindParam(c.Count, sqltypes.BigInt)
}
