package nodes

import (
	"github.com/bawdo/selekt/backend"
	"github.com/bawdo/selekt/sqltypes"
)

// SelectStatement is a SELECT query held as one value per clause slot.
// Every slot is always populated; an absent clause is its sentinel value.
// A statement is immutable once built: the With methods return a new
// statement and leave the receiver untouched, so statements may be shared
// between goroutines freely.
type SelectStatement struct {
	sel      SelectSlot
	from     QuerySource
	distinct DistinctSlot
	where    WhereSlot
	order    OrderSlot
	limit    LimitSlot
	offset   OffsetSlot
	groupBy  GroupBySlot
}

// NewSelectStatement builds a statement from explicit slot values and
// validates it against DefaultRules. A nil slot is replaced by its sentinel;
// a nil source is the table-less marker.
func NewSelectStatement(
	sel SelectSlot,
	from QuerySource,
	distinct DistinctSlot,
	where WhereSlot,
	order OrderSlot,
	limit LimitSlot,
	offset OffsetSlot,
	groupBy GroupBySlot,
) (*SelectStatement, error) {
	s := &SelectStatement{
		sel:      sel,
		from:     from,
		distinct: distinct,
		where:    where,
		order:    order,
		limit:    limit,
		offset:   offset,
		groupBy:  groupBy,
	}
	s.fillDefaults()
	if err := s.Check(DefaultRules...); err != nil {
		return nil, err
	}
	return s, nil
}

// Simple builds SELECT * FROM from with every other slot at its default.
func Simple(from QuerySource) (*SelectStatement, error) {
	return NewSelectStatement(nil, from, nil, nil, nil, nil, nil, nil)
}

func (s *SelectStatement) fillDefaults() {
	if s.sel == nil {
		s.sel = DefaultSelectClause{}
	}
	if s.from == nil {
		s.from = NoSource{}
	}
	if s.distinct == nil {
		s.distinct = NoDistinctClause{}
	}
	if s.where == nil {
		s.where = NoWhereClause{}
	}
	if s.order == nil {
		s.order = NoOrderClause{}
	}
	if s.limit == nil {
		s.limit = NoLimitClause{}
	}
	if s.offset == nil {
		s.offset = NoOffsetClause{}
	}
	if s.groupBy == nil {
		s.groupBy = NoGroupByClause{}
	}
}

func (s *SelectStatement) SelectClause() SelectSlot { return s.sel }

func (s *SelectStatement) Source() QuerySource { return s.from }

func (s *SelectStatement) DistinctClause() DistinctSlot { return s.distinct }

func (s *SelectStatement) WhereClause() WhereSlot { return s.where }

func (s *SelectStatement) OrderClause() OrderSlot { return s.order }

func (s *SelectStatement) LimitClause() LimitSlot { return s.limit }

func (s *SelectStatement) OffsetClause() OffsetSlot { return s.offset }

func (s *SelectStatement) GroupByClause() GroupBySlot { return s.groupBy }

// replace copies the statement, applies edit to the copy and validates it.
func (s *SelectStatement) replace(edit func(*SelectStatement)) (*SelectStatement, error) {
	c := *s
	edit(&c)
	c.fillDefaults()
	if err := c.Check(DefaultRules...); err != nil {
		return nil, err
	}
	return &c, nil
}

// WithSelect returns a copy with the select-list replaced.
func (s *SelectStatement) WithSelect(sel SelectSlot) (*SelectStatement, error) {
	return s.replace(func(c *SelectStatement) { c.sel = sel })
}

// WithSource returns a copy reading from a different source.
func (s *SelectStatement) WithSource(from QuerySource) (*SelectStatement, error) {
	return s.replace(func(c *SelectStatement) { c.from = from })
}

// WithDistinct returns a copy with the DISTINCT slot replaced.
func (s *SelectStatement) WithDistinct(d DistinctSlot) (*SelectStatement, error) {
	return s.replace(func(c *SelectStatement) { c.distinct = d })
}

// WithWhere returns a copy with the WHERE slot replaced.
func (s *SelectStatement) WithWhere(w WhereSlot) (*SelectStatement, error) {
	return s.replace(func(c *SelectStatement) { c.where = w })
}

// Filter returns a copy whose WHERE clause is ANDed with pred.
func (s *SelectStatement) Filter(pred Expression) (*SelectStatement, error) {
	return s.WithWhere(s.where.And(pred))
}

// OrFilter returns a copy whose WHERE clause is ORed with pred.
func (s *SelectStatement) OrFilter(pred Expression) (*SelectStatement, error) {
	return s.WithWhere(s.where.Or(pred))
}

// WithOrder returns a copy with the ORDER BY slot replaced.
func (s *SelectStatement) WithOrder(o OrderSlot) (*SelectStatement, error) {
	return s.replace(func(c *SelectStatement) { c.order = o })
}

// WithLimit returns a copy with the LIMIT slot replaced.
func (s *SelectStatement) WithLimit(l LimitSlot) (*SelectStatement, error) {
	return s.replace(func(c *SelectStatement) { c.limit = l })
}

// WithOffset returns a copy with the OFFSET slot replaced.
func (s *SelectStatement) WithOffset(o OffsetSlot) (*SelectStatement, error) {
	return s.replace(func(c *SelectStatement) { c.offset = o })
}

// WithGroupBy returns a copy with the GROUP BY slot replaced.
func (s *SelectStatement) WithGroupBy(g GroupBySlot) (*SelectStatement, error) {
	return s.replace(func(c *SelectStatement) { c.groupBy = g })
}

// WalkAST renders the statement. Clauses are always emitted in the order
// DISTINCT, select-list, FROM, WHERE, GROUP BY, ORDER BY, LIMIT, OFFSET,
// and the FROM step is skipped for a table-less statement. The first slot
// that fails aborts the walk.
func (s *SelectStatement) WalkAST(pass Pass) error {
	if err := s.checkBackend(pass.Backend()); err != nil {
		return err
	}
	if c, ok := pass.(ClausePass); ok {
		c.EnterStatement()
		defer c.LeaveStatement()
	}
	pass.PushSQL("SELECT ")
	if err := s.distinct.WalkAST(pass); err != nil {
		return err
	}
	if err := s.sel.WalkSelect(s.from, pass); err != nil {
		return err
	}
	if !IsTableless(s.from) {
		pushClause(pass, "FROM")
		if err := s.from.FromClause().WalkAST(pass); err != nil {
			return err
		}
	}
	for _, clause := range []QueryFragment{s.where, s.groupBy, s.order, s.limit, s.offset} {
		if err := clause.WalkAST(pass); err != nil {
			return err
		}
	}
	return nil
}

// checkBackend rejects slot combinations the dialect cannot express.
func (s *SelectStatement) checkBackend(b backend.Backend) error {
	_, hasOffset := s.offset.(OffsetClause)
	_, noLimit := s.limit.(NoLimitClause)
	if hasOffset && noLimit && !b.Capabilities().OffsetWithoutLimit {
		return backend.Unsupported(b, "OFFSET without LIMIT")
	}
	return nil
}

// RowType is the type of one result row: the select-list's type for the
// statement's source. It does not depend on the backend.
func (s *SelectStatement) RowType() sqltypes.SQLType {
	return s.sel.SelectType(s.from)
}

// SQLType is the type the statement declares when used as an expression on
// backend b. Backends that address a nested SELECT as an array wrap the row
// type in Array; the others use it unchanged.
func (s *SelectStatement) SQLType(b backend.Backend) sqltypes.SQLType {
	return sqltypes.ExpressionType(b, s.RowType())
}

// WriteShape records every slot, in rendering order, as part of the
// statement's fingerprint.
func (s *SelectStatement) WriteShape(w *ShapeWriter) {
	w.Node(s.distinct)
	w.Node(s.sel)
	w.Node(s.from)
	w.Node(s.where)
	w.Node(s.groupBy)
	w.Node(s.order)
	w.Node(s.limit)
	w.Node(s.offset)
}

// Fingerprint returns the statement's shape identity.
func (s *SelectStatement) Fingerprint() Fingerprint {
	return ShapeOf(s)
}
