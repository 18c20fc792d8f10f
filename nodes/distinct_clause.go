package nodes

import (
	"slices"

	"github.com/bawdo/selekt/backend"
)

// DistinctSlot is the DISTINCT slot.
type DistinctSlot interface {
	QueryFragment
	distinctSlot()
}

// NoDistinctClause is the sentinel for a statement without DISTINCT.
type NoDistinctClause struct{}

func (NoDistinctClause) distinctSlot() {}

func (NoDistinctClause) WalkAST(Pass) error { return nil }

// DistinctClause renders DISTINCT.
type DistinctClause struct{}

func (DistinctClause) distinctSlot() {}

func (DistinctClause) WalkAST(pass Pass) error {
	pass.PushSQL("DISTINCT ")
	return nil
}

// DistinctOnClause renders DISTINCT ON (exprs) (PostgreSQL only).
type DistinctOnClause struct {
	Exprs []Expression
}

// DistinctOn builds a DistinctOnClause.
func DistinctOn(exprs ...Expression) DistinctOnClause {
	return DistinctOnClause{Exprs: slices.Clone(exprs)}
}

func (DistinctOnClause) distinctSlot() {}

func (c DistinctOnClause) WalkAST(pass Pass) error {
	if !pass.Backend().Capabilities().DistinctOn {
		return backend.Unsupported(pass.Backend(), "DISTINCT ON")
	}
	pass.PushSQL("DISTINCT ON (")
	if err := walkList(pass, c.Exprs, ", "); err != nil {
		return err
	}
	pass.PushSQL(") ")
	return nil
}

func (c DistinctOnClause) CheckSource(src QuerySource) error { return checkSource(src, c.Exprs...) }

func (c DistinctOnClause) WriteShape(w *ShapeWriter) {
	w.Int(len(c.Exprs))
	for _, e := range c.Exprs {
		w.Node(e)
	}
}
