package nodes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bawdo/selekt/internal/testutil"
	"github.com/bawdo/selekt/nodes"
)

func TestFingerprintIgnoresBoundValues(t *testing.T) {
	t.Parallel()
	orders := ordersTable()
	build := func(status string, limit int64) nodes.Fingerprint {
		stmt := testutil.MustStatement(t, nodes.NewSelectStatement(nil, orders, nil,
			nodes.Where(orders.Col("status").Eq(status)), nil, nodes.Limit(limit), nil, nil))
		return stmt.Fingerprint()
	}
	assert.Equal(t, build("paid", 10), build("shipped", 99))
}

func TestFingerprintIsStableAcrossInstances(t *testing.T) {
	t.Parallel()
	a := testutil.MustStatement(t, nodes.Simple(ordersTable()))
	b := testutil.MustStatement(t, nodes.Simple(ordersTable()))
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.Len(t, a.Fingerprint().String(), 64)
}

func TestFingerprintDistinguishesShapes(t *testing.T) {
	t.Parallel()
	orders, users := ordersTable(), usersTable()
	base := testutil.MustStatement(t, nodes.Simple(orders))
	one := testutil.MustStatement(t, base.Filter(orders.Col("status").Eq("paid")))
	two := testutil.MustStatement(t, one.Filter(orders.Col("total").Gt(1)))
	otherOp := testutil.MustStatement(t, base.Filter(orders.Col("status").NotEq("paid")))
	otherCol := testutil.MustStatement(t, base.Filter(orders.Col("id").Eq("paid")))
	limited := testutil.MustStatement(t, base.WithLimit(nodes.Limit(10)))
	offset := testutil.MustStatement(t, base.WithOffset(nodes.Offset(10)))
	distinct := testutil.MustStatement(t, base.WithDistinct(nodes.DistinctClause{}))
	otherTable := testutil.MustStatement(t, nodes.Simple(users))
	inTwo := testutil.MustStatement(t, base.Filter(orders.Col("id").In(1, 2)))
	inThree := testutil.MustStatement(t, base.Filter(orders.Col("id").In(1, 2, 3)))
	raw := testutil.MustStatement(t, base.Filter(nodes.Raw("1 = 1", nil)))
	rawOther := testutil.MustStatement(t, base.Filter(nodes.Raw("2 = 2", nil)))

	all := []*nodes.SelectStatement{
		base, one, two, otherOp, otherCol, limited, offset, distinct,
		otherTable, inTwo, inThree, raw, rawOther,
	}
	seen := map[nodes.Fingerprint]int{}
	for i, s := range all {
		fp := s.Fingerprint()
		if j, dup := seen[fp]; dup {
			t.Errorf("statements %d and %d share fingerprint %s", j, i, fp)
		}
		seen[fp] = i
	}
}

func TestShapeOfFragments(t *testing.T) {
	t.Parallel()
	users := usersTable()
	assert.Equal(t,
		nodes.ShapeOf(users.Col("id").Eq(1)),
		nodes.ShapeOf(users.Col("id").Eq(2)))
	assert.NotEqual(t,
		nodes.ShapeOf(users.Col("id").Eq(1)),
		nodes.ShapeOf(users.Col("id").Eq("1")), "bind types are part of the shape")
	assert.NotEqual(t,
		nodes.ShapeOf(users.Col("id").Asc()),
		nodes.ShapeOf(users.Col("id").Desc()))
}
