package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bawdo/selekt/backend"
	"github.com/bawdo/selekt/nodes"
	"github.com/bawdo/selekt/visitors"
)

// AssertSQL renders the fragment for backend b and compares the SQL text
// with the expected string.
func AssertSQL(t *testing.T, b backend.Backend, f nodes.QueryFragment, expected string) {
	t.Helper()
	got, err := visitors.ToSQL(f, b)
	require.NoError(t, err)
	assert.Equal(t, expected, got)
}

// AssertBuild renders the fragment for backend b and compares both the SQL
// text and the collected bind parameters.
func AssertBuild(t *testing.T, b backend.Backend, f nodes.QueryFragment, expected string, params ...any) {
	t.Helper()
	got, gotParams, err := visitors.Build(f, b)
	require.NoError(t, err)
	assert.Equal(t, expected, got)
	if len(params) == 0 {
		assert.Empty(t, gotParams)
		return
	}
	assert.Equal(t, params, gotParams)
}

// MustStatement fails the test if statement construction returned an error.
func MustStatement(t *testing.T, stmt *nodes.SelectStatement, err error) *nodes.SelectStatement {
	t.Helper()
	require.NoError(t, err)
	return stmt
}
