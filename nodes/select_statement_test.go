package nodes_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bawdo/selekt/backend"
	"github.com/bawdo/selekt/internal/testutil"
	"github.com/bawdo/selekt/nodes"
	"github.com/bawdo/selekt/sqltypes"
	"github.com/bawdo/selekt/visitors"
)

func TestSimpleUsesSentinels(t *testing.T) {
	t.Parallel()
	stmt := testutil.MustStatement(t, nodes.Simple(usersTable()))

	assert.Equal(t, nodes.DefaultSelectClause{}, stmt.SelectClause())
	assert.Equal(t, nodes.NoDistinctClause{}, stmt.DistinctClause())
	assert.Equal(t, nodes.NoWhereClause{}, stmt.WhereClause())
	assert.Equal(t, nodes.NoOrderClause{}, stmt.OrderClause())
	assert.Equal(t, nodes.NoLimitClause{}, stmt.LimitClause())
	assert.Equal(t, nodes.NoOffsetClause{}, stmt.OffsetClause())
	assert.Equal(t, nodes.NoGroupByClause{}, stmt.GroupByClause())
	testutil.AssertBuild(t, backend.Postgres, stmt, `SELECT * FROM "users"`)
}

func TestSentinelsRenderNothing(t *testing.T) {
	t.Parallel()
	sentinels := []nodes.QueryFragment{
		nodes.NoDistinctClause{},
		nodes.NoWhereClause{},
		nodes.NoOrderClause{},
		nodes.NoLimitClause{},
		nodes.NoOffsetClause{},
		nodes.NoGroupByClause{},
	}
	for _, b := range backend.All {
		for _, s := range sentinels {
			pass := &testutil.RecordingPass{B: b, FailBinds: errors.New("unexpected bind")}
			require.NoError(t, s.WalkAST(pass))
			assert.Empty(t, pass.Events, "%T on %s", s, b)
		}
	}
}

func TestClauseOrderIsFixed(t *testing.T) {
	t.Parallel()
	orders := ordersTable()
	stmt := testutil.MustStatement(t, nodes.NewSelectStatement(
		nodes.Select(orders.Col("customer_id"), nodes.Sum(orders.Col("total"))),
		orders,
		nodes.DistinctClause{},
		nodes.Where(orders.Col("status").Eq("paid")),
		nodes.OrderBy(orders.Col("customer_id").Desc()),
		nodes.Limit(10),
		nodes.Offset(5),
		nodes.GroupBy(orders.Col("customer_id")),
	))
	testutil.AssertBuild(t, backend.Postgres, stmt,
		`SELECT DISTINCT "orders"."customer_id", SUM("orders"."total") FROM "orders"`+
			` WHERE "orders"."status" = $1 GROUP BY "orders"."customer_id"`+
			` ORDER BY "orders"."customer_id" DESC LIMIT $2 OFFSET $3`,
		"paid", int64(10), int64(5))
}

func TestOrdersScenario(t *testing.T) {
	t.Parallel()
	orders := ordersTable()
	stmt := testutil.MustStatement(t, nodes.Simple(orders))
	stmt = testutil.MustStatement(t, stmt.Filter(orders.Col("status").Eq("paid")))
	stmt = testutil.MustStatement(t, stmt.WithLimit(nodes.Limit(10)))

	testutil.AssertBuild(t, backend.Postgres, stmt,
		`SELECT * FROM "orders" WHERE "orders"."status" = $1 LIMIT $2`, "paid", int64(10))
	testutil.AssertBuild(t, backend.MySQL, stmt,
		"SELECT * FROM `orders` WHERE `orders`.`status` = ? LIMIT ?", "paid", int64(10))
}

func TestWithMethodsLeaveReceiverUntouched(t *testing.T) {
	t.Parallel()
	users := usersTable()
	base := testutil.MustStatement(t, nodes.Simple(users))

	filtered := testutil.MustStatement(t, base.Filter(users.Col("active").Eq(true)))
	ored := testutil.MustStatement(t, filtered.OrFilter(users.Col("id").Eq(1)))
	limited := testutil.MustStatement(t, ored.WithLimit(nodes.Limit(1)))

	testutil.AssertSQL(t, backend.SQLite, base, `SELECT * FROM "users"`)
	testutil.AssertSQL(t, backend.SQLite, filtered, `SELECT * FROM "users" WHERE "users"."active" = ?`)
	testutil.AssertSQL(t, backend.SQLite, ored,
		`SELECT * FROM "users" WHERE ("users"."active" = ? OR "users"."id" = ?)`)
	testutil.AssertSQL(t, backend.SQLite, limited,
		`SELECT * FROM "users" WHERE ("users"."active" = ? OR "users"."id" = ?) LIMIT ?`)

	cleared := testutil.MustStatement(t, limited.WithWhere(nil))
	assert.Equal(t, nodes.NoWhereClause{}, cleared.WhereClause())
	assert.IsType(t, nodes.WhereClause{}, limited.WhereClause())
}

func TestTablelessStatement(t *testing.T) {
	t.Parallel()
	stmt := testutil.MustStatement(t, nodes.NewSelectStatement(
		nodes.Select(nodes.Raw("1", sqltypes.Integer), nodes.NewBindParam("x", nil)),
		nil, nil, nil, nil, nil, nil, nil,
	))
	assert.True(t, nodes.IsTableless(stmt.Source()))

	pass := &testutil.RecordingPass{B: backend.Postgres}
	require.NoError(t, stmt.WalkAST(pass))
	assert.Empty(t, pass.Identifiers(), "a table-less walk visits no from-clause")
	testutil.AssertBuild(t, backend.Postgres, stmt, `SELECT 1, $1`, "x")
	assert.Equal(t, sqltypes.Record{sqltypes.Integer, sqltypes.Text}, stmt.RowType())
}

func TestTablelessRejectsDefaultSelect(t *testing.T) {
	t.Parallel()
	_, err := nodes.Simple(nodes.NoSource{})
	var verr *nodes.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "source", verr.Rule)

	_, err = nodes.NewSelectStatement(nodes.Select(nodes.Star()), nodes.NoSource{}, nil, nil, nil, nil, nil, nil)
	require.ErrorAs(t, err, &verr)
}

func TestSourceRuleRejectsForeignColumns(t *testing.T) {
	t.Parallel()
	users, orders := usersTable(), ordersTable()

	_, err := nodes.NewSelectStatement(nodes.Select(orders.Col("id")), users, nil, nil, nil, nil, nil, nil)
	require.ErrorContains(t, err, `column "orders"."id" does not appear on "users"`)

	_, err = nodes.NewSelectStatement(nil, users, nil, nodes.Where(users.Col("nope").Eq(1)), nil, nil, nil, nil)
	require.Error(t, err)

	_, err = nodes.NewSelectStatement(nil, users, nil, nil, nodes.OrderBy(orders.Col("total").Asc()), nil, nil, nil)
	require.Error(t, err)

	_, err = nodes.NewSelectStatement(nodes.Select(nodes.Raw("1", nil)), nodes.NoSource{},
		nil, nodes.Where(users.Col("id").Eq(1)), nil, nil, nil, nil)
	require.ErrorContains(t, err, "no source")

	base := testutil.MustStatement(t, nodes.Simple(users))
	_, err = base.Filter(orders.Col("id").Eq(1))
	require.Error(t, err)
}

func TestPredicateAndBoundsRules(t *testing.T) {
	t.Parallel()
	users := usersTable()

	_, err := nodes.NewSelectStatement(nil, users, nil, nodes.Where(users.Col("name")), nil, nil, nil, nil)
	var verr *nodes.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "predicate", verr.Rule)

	_, err = nodes.NewSelectStatement(nil, users, nil, nodes.Where(users.Col("active")), nil, nil, nil, nil)
	require.NoError(t, err)

	_, err = nodes.NewSelectStatement(nil, users, nil, nil, nil, nodes.Limit(-1), nil, nil)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "bounds", verr.Rule)

	_, err = nodes.NewSelectStatement(nil, users, nil, nil, nil, nil, nodes.Offset(-5), nil)
	require.ErrorAs(t, err, &verr)
}

func TestGroupingRuleIsOptIn(t *testing.T) {
	t.Parallel()
	orders := ordersTable()
	mixed := testutil.MustStatement(t, nodes.NewSelectStatement(
		nodes.Select(orders.Col("customer_id"), nodes.Count(nil)),
		orders, nil, nil, nil, nil, nil, nil,
	))
	err := mixed.Check(nodes.GroupingRule)
	var verr *nodes.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "grouping", verr.Rule)

	grouped := testutil.MustStatement(t, mixed.WithGroupBy(nodes.GroupBy(orders.Col("customer_id"))))
	require.NoError(t, grouped.Check(nodes.GroupingRule))

	aliased := testutil.MustStatement(t, grouped.WithSelect(nodes.Select(
		orders.Col("customer_id").As("customer"), nodes.Sum(orders.Col("total")).As("spent"))))
	require.NoError(t, aliased.Check(nodes.GroupingRule))

	star := testutil.MustStatement(t, nodes.Simple(orders))
	star = testutil.MustStatement(t, star.WithGroupBy(nodes.GroupBy(orders.Col("status"))))
	require.Error(t, star.Check(nodes.GroupingRule))
}

func TestCustomRule(t *testing.T) {
	t.Parallel()
	errUnbounded := errors.New("unbounded")
	requireLimit := nodes.Rule{
		Name: "require-limit",
		Check: func(s *nodes.SelectStatement) error {
			if _, ok := s.LimitClause().(nodes.NoLimitClause); ok {
				return errUnbounded
			}
			return nil
		},
	}
	stmt := testutil.MustStatement(t, nodes.Simple(usersTable()))
	err := stmt.Check(requireLimit)
	require.ErrorIs(t, err, errUnbounded)
}

func TestOffsetWithoutLimit(t *testing.T) {
	t.Parallel()
	users := usersTable()
	stmt := testutil.MustStatement(t, nodes.NewSelectStatement(nil, users, nil, nil, nil, nil, nodes.Offset(20), nil))

	testutil.AssertBuild(t, backend.Postgres, stmt, `SELECT * FROM "users" OFFSET $1`, int64(20))
	for _, b := range []backend.Backend{backend.MySQL, backend.SQLite} {
		_, err := visitors.ToSQL(stmt, b)
		var unsupported *backend.UnsupportedFeatureError
		require.ErrorAs(t, err, &unsupported, b.String())
	}
}

func TestDistinctOnOnlyOnPostgres(t *testing.T) {
	t.Parallel()
	users := usersTable()
	stmt := testutil.MustStatement(t, nodes.NewSelectStatement(
		nodes.Select(users.Col("name")), users, nodes.DistinctOn(users.Col("name")),
		nil, nil, nil, nil, nil))
	testutil.AssertSQL(t, backend.Postgres, stmt, `SELECT DISTINCT ON ("users"."name") "users"."name" FROM "users"`)
	_, err := visitors.ToSQL(stmt, backend.MySQL)
	require.Error(t, err)
}

func TestEmptySelectListIsRejected(t *testing.T) {
	t.Parallel()
	_, err := nodes.NewSelectStatement(nodes.Select(), usersTable(), nil, nil, nil, nil, nil, nil)
	require.Error(t, err)
}

// --- Type inference ---

func TestRowTypeAndBackendType(t *testing.T) {
	t.Parallel()
	users := usersTable()
	row := sqltypes.Record{
		sqltypes.BigInt,
		sqltypes.Text,
		sqltypes.Nullable{Inner: sqltypes.Text},
		sqltypes.Bool,
	}
	all := testutil.MustStatement(t, nodes.Simple(users))
	assert.Equal(t, row, all.RowType())
	assert.Equal(t, sqltypes.Array{Elem: row}, all.SQLType(backend.Postgres))
	assert.Equal(t, row, all.SQLType(backend.MySQL))
	assert.Equal(t, row, all.SQLType(backend.SQLite))

	one := testutil.MustStatement(t, all.WithSelect(nodes.Select(users.Col("id"))))
	assert.Equal(t, sqltypes.BigInt, one.RowType())
	assert.Equal(t, sqltypes.Array{Elem: sqltypes.BigInt}, one.SQLType(backend.Postgres))
	assert.Equal(t, sqltypes.BigInt, one.SQLType(backend.MySQL))
}

// --- Subqueries ---

func TestSubqueriesShareNumbering(t *testing.T) {
	t.Parallel()
	users, orders := usersTable(), ordersTable()
	sub := testutil.MustStatement(t, nodes.NewSelectStatement(
		nodes.Select(orders.Col("id")), orders, nil,
		nodes.Where(orders.Col("total").Gt(50)), nil, nodes.Limit(1), nil, nil))

	stmt := testutil.MustStatement(t, nodes.Simple(users))
	stmt = testutil.MustStatement(t, stmt.Filter(users.Col("active").Eq(true)))
	stmt = testutil.MustStatement(t, stmt.Filter(nodes.Exists(sub)))
	stmt = testutil.MustStatement(t, stmt.WithLimit(nodes.Limit(3)))

	testutil.AssertBuild(t, backend.Postgres, stmt,
		`SELECT * FROM "users" WHERE "users"."active" = $1 AND EXISTS (SELECT "orders"."id" FROM "orders"`+
			` WHERE "orders"."total" > $2 LIMIT $3) LIMIT $4`,
		true, 50, int64(1), int64(3))

	testutil.AssertSQL(t, backend.Postgres, nodes.NotExists(sub),
		`NOT EXISTS (SELECT "orders"."id" FROM "orders" WHERE "orders"."total" > $1 LIMIT $2)`)
}

// --- Joins ---

func TestJoinSources(t *testing.T) {
	t.Parallel()
	users, orders := usersTable(), ordersTable()
	u := users.Alias("u")
	left := nodes.LeftJoinOn(orders, u, orders.Col("customer_id").Eq(u.Col("id")))

	stmt := testutil.MustStatement(t, nodes.NewSelectStatement(
		nodes.Select(orders.Col("id"), u.Col("name")), left, nil, nil, nil, nil, nil, nil))
	testutil.AssertSQL(t, backend.MySQL, stmt,
		"SELECT `orders`.`id`, `u`.`name` FROM `orders` LEFT OUTER JOIN `users` AS `u` ON `orders`.`customer_id` = `u`.`id`")

	assert.Equal(t, sqltypes.Record{
		sqltypes.BigInt, sqltypes.BigInt, sqltypes.Text, sqltypes.Numeric,
		sqltypes.Nullable{Inner: sqltypes.BigInt},
		sqltypes.Nullable{Inner: sqltypes.Text},
		sqltypes.Nullable{Inner: sqltypes.Text},
		sqltypes.Nullable{Inner: sqltypes.Bool},
	}, left.RowType())

	_, err := nodes.NewSelectStatement(nil,
		nodes.InnerJoinOn(orders, users, orders.Col("customer_id").Eq(nodes.NewTable("x").Col("id"))),
		nil, nil, nil, nil, nil, nil)
	require.Error(t, err, "ON may only reference joined relations")

	_, err = nodes.NewSelectStatement(nil, nodes.Join(orders, users, nodes.CrossJoin, orders.Col("id").Eq(1)),
		nil, nil, nil, nil, nil, nil)
	require.Error(t, err)

	cross := testutil.MustStatement(t, nodes.NewSelectStatement(nil,
		nodes.Join(orders, users, nodes.CrossJoin, nil), nil, nil, nil, nil, nil, nil))
	testutil.AssertSQL(t, backend.SQLite, cross, `SELECT * FROM "orders" CROSS JOIN "users"`)

	full := testutil.MustStatement(t, nodes.NewSelectStatement(nil,
		nodes.Join(orders, users, nodes.FullOuterJoin, orders.Col("customer_id").Eq(users.Col("id"))),
		nil, nil, nil, nil, nil, nil))
	_, err = visitors.ToSQL(full, backend.MySQL)
	var unsupported *backend.UnsupportedFeatureError
	require.ErrorAs(t, err, &unsupported)
	_, err = visitors.ToSQL(full, backend.Postgres)
	require.NoError(t, err)
}
