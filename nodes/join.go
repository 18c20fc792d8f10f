package nodes

import (
	"errors"
	"fmt"

	"github.com/bawdo/selekt/sqltypes"
)

// JoinType represents the type of SQL JOIN.
type JoinType int

const (
	InnerJoin JoinType = iota
	LeftOuterJoin
	RightOuterJoin
	FullOuterJoin
	CrossJoin
)

var joinTypeSQL = [...]string{
	InnerJoin:      "INNER JOIN",
	LeftOuterJoin:  "LEFT OUTER JOIN",
	RightOuterJoin: "RIGHT OUTER JOIN",
	FullOuterJoin:  "FULL OUTER JOIN",
	CrossJoin:      "CROSS JOIN",
}

// String returns the SQL keyword for this join type.
func (t JoinType) String() string { return joinTypeSQL[t] }

// JoinTarget is a relation that can appear on the right of a join.
// *Table, *TableAlias and *DerivedTable satisfy it.
type JoinTarget interface {
	QuerySource
	Relation
	QueryFragment
}

// JoinSource is a source built by joining a relation onto another source.
// Joins nest on the left: users JOIN posts JOIN comments.
type JoinSource struct {
	Left  QuerySource
	Right JoinTarget
	Type  JoinType
	On    Expression // nil for CROSS JOIN
}

// Join joins right onto left with the given condition.
func Join(left QuerySource, right JoinTarget, typ JoinType, on Expression) *JoinSource {
	return &JoinSource{Left: left, Right: right, Type: typ, On: on}
}

// InnerJoinOn is shorthand for Join(left, right, InnerJoin, on).
func InnerJoinOn(left QuerySource, right JoinTarget, on Expression) *JoinSource {
	return Join(left, right, InnerJoin, on)
}

// LeftJoinOn is shorthand for Join(left, right, LeftOuterJoin, on).
func LeftJoinOn(left QuerySource, right JoinTarget, on Expression) *JoinSource {
	return Join(left, right, LeftOuterJoin, on)
}

func (j *JoinSource) FromClause() QueryFragment { return j }

func (j *JoinSource) WalkAST(pass Pass) error {
	if j.Type == FullOuterJoin {
		if err := checkCapability(pass, pass.Backend().Capabilities().FullOuterJoin, j.Type.String()); err != nil {
			return err
		}
	}
	if err := j.Left.FromClause().WalkAST(pass); err != nil {
		return err
	}
	pass.PushSQL(" " + j.Type.String() + " ")
	if err := j.Right.WalkAST(pass); err != nil {
		return err
	}
	if j.On != nil {
		pass.PushSQL(" ON ")
		return j.On.WalkAST(pass)
	}
	return nil
}

// RowType concatenates both sides' columns. Columns of the side an outer
// join may leave unmatched become nullable.
func (j *JoinSource) RowType() sqltypes.SQLType {
	left, lok := j.Left.RowType().(sqltypes.Record)
	right, rok := j.Right.RowType().(sqltypes.Record)
	if !lok || !rok {
		return sqltypes.Unknown
	}
	nullLeft := j.Type == RightOuterJoin || j.Type == FullOuterJoin
	nullRight := j.Type == LeftOuterJoin || j.Type == FullOuterJoin
	row := make(sqltypes.Record, 0, len(left)+len(right))
	row = append(row, nullableAll(left, nullLeft)...)
	row = append(row, nullableAll(right, nullRight)...)
	return row
}

func nullableAll(row sqltypes.Record, on bool) sqltypes.Record {
	if !on {
		return row
	}
	out := make(sqltypes.Record, len(row))
	for i, t := range row {
		if isNullable(t) {
			out[i] = t
		} else {
			out[i] = sqltypes.Nullable{Inner: t}
		}
	}
	return out
}

func (j *JoinSource) Provides(relation, column string) bool {
	return j.Left.Provides(relation, column) || j.Right.Provides(relation, column)
}

var errJoinWithoutSource = errors.New("cannot join onto a statement without a source")

// CheckSource validates the join itself: its left side must be a real
// source, and the ON condition may only reference columns of the join.
func (j *JoinSource) CheckSource(QuerySource) error {
	if IsTableless(j.Left) {
		return errJoinWithoutSource
	}
	if c, ok := j.Left.(SourceChecker); ok {
		if err := c.CheckSource(j.Left); err != nil {
			return err
		}
	}
	if j.Type == CrossJoin {
		if j.On != nil {
			return errors.New("CROSS JOIN takes no ON condition")
		}
		return nil
	}
	if j.On == nil {
		return fmt.Errorf("%s requires an ON condition", j.Type)
	}
	return checkSource(j, j.On)
}

func (j *JoinSource) WriteShape(w *ShapeWriter) {
	w.Int(int(j.Type))
	w.Node(j.Left)
	w.Node(j.Right)
	w.Node(j.On)
}
