package visitors

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bawdo/selekt/nodes"
	"github.com/bawdo/selekt/sqltypes"
)

func ordersTable() *nodes.Table {
	return nodes.NewTable("orders",
		nodes.Column("id", sqltypes.BigInt),
		nodes.Column("customer_id", sqltypes.BigInt),
		nodes.Column("status", sqltypes.Text),
		nodes.Column("total", sqltypes.Numeric),
	)
}

func usersTable() *nodes.Table {
	return nodes.NewTable("users",
		nodes.Column("id", sqltypes.BigInt),
		nodes.Column("name", sqltypes.Text),
		nodes.Column("email", sqltypes.Nullable{Inner: sqltypes.Text}),
		nodes.Column("active", sqltypes.Bool),
	)
}

func must(t *testing.T, stmt *nodes.SelectStatement, err error) *nodes.SelectStatement {
	t.Helper()
	require.NoError(t, err)
	return stmt
}
