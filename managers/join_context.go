package managers

import "github.com/bawdo/selekt/nodes"

// JoinContext is returned by SelectManager.Join() and enforces that
// a join condition is provided via On() before continuing to build
// the query. This prevents incomplete JOINs in the statement.
type JoinContext struct {
	manager *SelectManager
	right   nodes.JoinTarget
	typ     nodes.JoinType
}

// On sets the join condition and returns the SelectManager for
// continued method chaining.
func (jc *JoinContext) On(condition nodes.Expression) *SelectManager {
	m := jc.manager
	m.from = nodes.Join(m.from, jc.right, jc.typ, condition)
	return m
}
