package managers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bawdo/selekt/backend"
	"github.com/bawdo/selekt/nodes"
	"github.com/bawdo/selekt/plugins"
	"github.com/bawdo/selekt/plugins/softdelete"
	"github.com/bawdo/selekt/sqltypes"
	"github.com/bawdo/selekt/visitors"
)

func build(t *testing.T, m *SelectManager, b backend.Backend) (string, []any) {
	t.Helper()
	sql, params, err := m.Build(b)
	require.NoError(t, err)
	return sql, params
}

// --- NewSelectManager ---

func TestNewSelectManagerSelectsAll(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	sql, params := build(t, NewSelectManager(users), backend.Postgres)
	assert.Equal(t, `SELECT * FROM "users"`, sql)
	assert.Empty(t, params)
}

func TestNewSelectManagerNilFromIsTableless(t *testing.T) {
	t.Parallel()
	m := NewSelectManager(nil).Select(nodes.Raw("1", sqltypes.Integer))
	sql, _ := build(t, m, backend.MySQL)
	assert.Equal(t, "SELECT 1", sql)

	_, err := NewSelectManager(nil).Statement()
	require.Error(t, err, "SELECT * needs a source")
}

// --- Clauses ---

func TestFluentChaining(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewSelectManager(users).
		Select(users.Col("id"), users.Col("name")).
		Where(users.Col("active").Eq(true)).
		Where(users.Col("age").GtEq(18)).
		Order(users.Col("name").Asc()).
		Limit(10).
		Offset(20)

	sql, params := build(t, m, backend.Postgres)
	assert.Equal(t, `SELECT "users"."id", "users"."name" FROM "users" WHERE "users"."active" = $1`+
		` AND "users"."age" >= $2 ORDER BY "users"."name" ASC LIMIT $3 OFFSET $4`, sql)
	assert.Equal(t, []any{true, 18, int64(10), int64(20)}, params)
}

func TestSelectReplacesProjections(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewSelectManager(users).Select(users.Col("id")).Select(users.Col("name"))
	sql, _ := build(t, m, backend.SQLite)
	assert.Equal(t, `SELECT "users"."name" FROM "users"`, sql)
}

func TestWhereOr(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewSelectManager(users).
		Where(users.Col("role").Eq("admin")).
		Or(users.Col("role").Eq("owner"))
	sql, _ := build(t, m, backend.SQLite)
	assert.Equal(t, `SELECT * FROM "users" WHERE ("users"."role" = ? OR "users"."role" = ?)`, sql)
}

func TestDistinct(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewSelectManager(users).Select(users.Col("name")).Distinct()
	sql, _ := build(t, m, backend.MySQL)
	assert.Equal(t, "SELECT DISTINCT `users`.`name` FROM `users`", sql)

	m.Distinct(false)
	sql, _ = build(t, m, backend.MySQL)
	assert.Equal(t, "SELECT `users`.`name` FROM `users`", sql)

	m.DistinctOn(users.Col("name"))
	sql, _ = build(t, m, backend.Postgres)
	assert.Equal(t, `SELECT DISTINCT ON ("users"."name") "users"."name" FROM "users"`, sql)
	_, _, err := m.Build(backend.MySQL)
	require.Error(t, err)
}

func TestGroupAndRules(t *testing.T) {
	t.Parallel()
	orders := nodes.NewTable("orders")
	m := NewSelectManager(orders).
		Select(orders.Col("status"), nodes.Count(nil)).
		Rules(nodes.GroupingRule)

	_, err := m.Statement()
	var verr *nodes.ValidationError
	require.ErrorAs(t, err, &verr)

	m.Group(orders.Col("status"))
	sql, _ := build(t, m, backend.Postgres)
	assert.Equal(t, `SELECT "orders"."status", COUNT(*) FROM "orders" GROUP BY "orders"."status"`, sql)
}

func TestTakeIsAliasForLimit(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	sql, params := build(t, NewSelectManager(users).Take(3), backend.SQLite)
	assert.Equal(t, `SELECT * FROM "users" LIMIT ?`, sql)
	assert.Equal(t, []any{int64(3)}, params)
}

// --- Joins ---

func TestJoinDefaultsToInnerJoin(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	posts := nodes.NewTable("posts")
	m := NewSelectManager(users).
		Join(posts).On(posts.Col("user_id").Eq(users.Col("id"))).
		Select(users.Col("name"), posts.Col("title"))

	sql, _ := build(t, m, backend.Postgres)
	assert.Equal(t, `SELECT "users"."name", "posts"."title" FROM "users"`+
		` INNER JOIN "posts" ON "posts"."user_id" = "users"."id"`, sql)
}

func TestMultipleJoins(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	posts := nodes.NewTable("posts")
	c := nodes.NewTable("comments").Alias("c")
	m := NewSelectManager(users).
		OuterJoin(posts).On(posts.Col("user_id").Eq(users.Col("id"))).
		Join(c).On(c.Col("post_id").Eq(posts.Col("id"))).
		CrossJoin(nodes.NewTable("tags"))

	sql, _ := build(t, m, backend.SQLite)
	assert.Equal(t, `SELECT * FROM "users"`+
		` LEFT OUTER JOIN "posts" ON "posts"."user_id" = "users"."id"`+
		` INNER JOIN "comments" AS "c" ON "c"."post_id" = "posts"."id"`+
		` CROSS JOIN "tags"`, sql)
}

// --- Transformers ---

func TestUseAppliesTransformers(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewSelectManager(users).Use(softdelete.New())
	require.Len(t, m.Transformers(), 1)

	sql, _ := build(t, m, backend.Postgres)
	assert.Equal(t, `SELECT * FROM "users" WHERE "users"."deleted_at" IS NULL`, sql)
}

func TestTransformersRunInOrder(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	var order []int
	step := func(i int) plugins.Transformer {
		return plugins.TransformerFunc(func(s *nodes.SelectStatement) (*nodes.SelectStatement, error) {
			order = append(order, i)
			return s, nil
		})
	}
	_, err := NewSelectManager(users).Use(step(1)).Use(step(2)).Statement()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, order)
}

func TestTransformerErrorStopsGeneration(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	m := NewSelectManager(nodes.NewTable("users")).Use(plugins.TransformerFunc(
		func(*nodes.SelectStatement) (*nodes.SelectStatement, error) { return nil, boom }))

	v := visitors.NewPostgresVisitor()
	sql, params, err := m.ToSQL(v)
	require.ErrorIs(t, err, boom)
	assert.Empty(t, sql)
	assert.Nil(t, params)
}

// --- Visitors and identity ---

func TestToSQLResetsVisitor(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	m := NewSelectManager(users).Where(users.Col("id").Eq(7))
	v := visitors.NewPostgresVisitor()

	first, _, err := m.ToSQL(v)
	require.NoError(t, err)
	second, params, err := m.ToSQL(v)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, `SELECT * FROM "users" WHERE "users"."id" = $1`, second)
	assert.Equal(t, []any{7}, params)
}

func TestCloneIsIndependent(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	base := NewSelectManager(users).Order(users.Col("id").Asc())
	branch := base.Clone().Order(users.Col("name").Desc()).Limit(1)

	sql, _ := build(t, base, backend.SQLite)
	assert.Equal(t, `SELECT * FROM "users" ORDER BY "users"."id" ASC`, sql)
	sql, _ = build(t, branch, backend.SQLite)
	assert.Equal(t, `SELECT * FROM "users" ORDER BY "users"."id" ASC, "users"."name" DESC LIMIT ?`, sql)
}

func TestFingerprintIgnoresValues(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	a, err := NewSelectManager(users).Where(users.Col("id").Eq(1)).Fingerprint()
	require.NoError(t, err)
	b, err := NewSelectManager(users).Where(users.Col("id").Eq(2)).Fingerprint()
	require.NoError(t, err)
	c, err := NewSelectManager(users).Where(users.Col("id").Gt(2)).Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
