// Package managers provides a fluent API for building SELECT statements.
package managers

import (
	"slices"

	"github.com/bawdo/selekt/backend"
	"github.com/bawdo/selekt/nodes"
	"github.com/bawdo/selekt/plugins"
	"github.com/bawdo/selekt/visitors"
)

// SelectManager provides a fluent API for building SELECT queries.
// It collects clause values and produces an immutable nodes.SelectStatement
// on demand, applying transformer plugins after validation.
//
// A SelectManager is not safe for concurrent use. Use Clone to branch a
// query; the statements it produces may be shared freely.
type SelectManager struct {
	treeManager
	from     nodes.QuerySource
	sel      []nodes.Expression
	distinct nodes.DistinctSlot
	wheres   nodes.WhereSlot
	groups   []nodes.Expression
	orders   []nodes.Expression
	limit    nodes.LimitSlot
	offset   nodes.OffsetSlot
}

// NewSelectManager creates a new SelectManager reading from the given
// source. If from is nil, the statement is table-less.
func NewSelectManager(from nodes.QuerySource) *SelectManager {
	if from == nil {
		from = nodes.NoSource{}
	}
	return &SelectManager{from: from, wheres: nodes.NoWhereClause{}}
}

// Select sets the projection list, replacing any existing projections.
// With no projections the statement selects every column.
func (m *SelectManager) Select(projections ...nodes.Expression) *SelectManager {
	m.sel = slices.Clone(projections)
	return m
}

// Distinct enables or disables the DISTINCT modifier on the SELECT clause.
func (m *SelectManager) Distinct(on ...bool) *SelectManager {
	if len(on) == 0 || on[0] {
		m.distinct = nodes.DistinctClause{}
	} else {
		m.distinct = nil
	}
	return m
}

// DistinctOn sets the DISTINCT ON columns (PostgreSQL).
func (m *SelectManager) DistinctOn(cols ...nodes.Expression) *SelectManager {
	m.distinct = nodes.DistinctOn(cols...)
	return m
}

// Where ANDs one or more conditions into the WHERE clause.
func (m *SelectManager) Where(conditions ...nodes.Expression) *SelectManager {
	for _, c := range conditions {
		m.wheres = m.wheres.And(c)
	}
	return m
}

// Or ORs a condition with everything collected by Where so far.
func (m *SelectManager) Or(condition nodes.Expression) *SelectManager {
	m.wheres = m.wheres.Or(condition)
	return m
}

// From sets or changes the source. Joins added earlier are discarded.
func (m *SelectManager) From(src nodes.QuerySource) *SelectManager {
	if src == nil {
		src = nodes.NoSource{}
	}
	m.from = src
	return m
}

// Join adds a join to the query and returns a JoinContext for specifying
// the ON condition. The default join type is InnerJoin.
func (m *SelectManager) Join(table nodes.JoinTarget, joinTypes ...nodes.JoinType) *JoinContext {
	jt := nodes.InnerJoin
	if len(joinTypes) > 0 {
		jt = joinTypes[0]
	}
	return &JoinContext{manager: m, right: table, typ: jt}
}

// OuterJoin is a convenience for Join with LeftOuterJoin type.
func (m *SelectManager) OuterJoin(table nodes.JoinTarget) *JoinContext {
	return m.Join(table, nodes.LeftOuterJoin)
}

// CrossJoin adds a cross join (no ON clause).
func (m *SelectManager) CrossJoin(table nodes.JoinTarget) *SelectManager {
	m.from = nodes.Join(m.from, table, nodes.CrossJoin, nil)
	return m
}

// Group appends one or more expressions to the GROUP BY clause.
func (m *SelectManager) Group(columns ...nodes.Expression) *SelectManager {
	m.groups = append(m.groups, columns...)
	return m
}

// Order appends to the ORDER BY clause. Pass OrderingNode values
// (e.g., table.Col("name").Asc()).
func (m *SelectManager) Order(orderings ...nodes.Expression) *SelectManager {
	m.orders = append(m.orders, orderings...)
	return m
}

// Limit sets the LIMIT value.
func (m *SelectManager) Limit(n int64) *SelectManager {
	m.limit = nodes.Limit(n)
	return m
}

// Offset sets the OFFSET value.
func (m *SelectManager) Offset(n int64) *SelectManager {
	m.offset = nodes.Offset(n)
	return m
}

// Take is an alias for Limit (Ruby Arel convention).
func (m *SelectManager) Take(n int64) *SelectManager {
	return m.Limit(n)
}

// Use registers a transformer plugin to be applied before SQL generation.
func (m *SelectManager) Use(t plugins.Transformer) *SelectManager {
	m.addTransformer(t)
	return m
}

// Rules registers validation rules checked in addition to nodes.DefaultRules,
// such as nodes.GroupingRule.
func (m *SelectManager) Rules(rules ...nodes.Rule) *SelectManager {
	m.rules = append(m.rules, rules...)
	return m
}

// Clone returns an independent copy of the manager.
func (m *SelectManager) Clone() *SelectManager {
	c := *m
	c.treeManager = m.treeManager.clone()
	c.sel = slices.Clone(m.sel)
	c.groups = slices.Clone(m.groups)
	c.orders = slices.Clone(m.orders)
	return &c
}

// Statement validates the collected clauses and returns the statement with
// every registered transformer applied.
func (m *SelectManager) Statement() (*nodes.SelectStatement, error) {
	var sel nodes.SelectSlot
	if len(m.sel) > 0 {
		sel = nodes.Select(m.sel...)
	}
	var group nodes.GroupBySlot
	if len(m.groups) > 0 {
		group = nodes.GroupBy(m.groups...)
	}
	var order nodes.OrderSlot
	if len(m.orders) > 0 {
		order = nodes.OrderBy(m.orders...)
	}
	stmt, err := nodes.NewSelectStatement(sel, m.from, m.distinct, m.wheres, order, m.limit, m.offset, group)
	if err != nil {
		return nil, err
	}
	return m.finish(stmt)
}

// ToSQL builds the statement and renders it into v, which is reset first.
// Returns the SQL string, the parameter values, and any error.
func (m *SelectManager) ToSQL(v *visitors.Visitor) (string, []any, error) {
	stmt, err := m.Statement()
	if err != nil {
		return "", nil, err
	}
	v.Reset()
	if err := visitors.Walk(stmt, v); err != nil {
		return "", nil, err
	}
	return v.SQL(), v.Params(), nil
}

// Build is shorthand for ToSQL with a fresh visitor for b.
func (m *SelectManager) Build(b backend.Backend) (string, []any, error) {
	return m.ToSQL(visitors.New(b))
}

// Fingerprint returns the shape identity of the statement the manager
// currently produces.
func (m *SelectManager) Fingerprint() (nodes.Fingerprint, error) {
	stmt, err := m.Statement()
	if err != nil {
		return nodes.Fingerprint{}, err
	}
	return stmt.Fingerprint(), nil
}
