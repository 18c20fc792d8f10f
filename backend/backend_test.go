package backend

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()
	tests := map[string]Backend{
		"postgres":   Postgres,
		"PostgreSQL": Postgres,
		" pg ":       Postgres,
		"pgx":        Postgres,
		"mysql":      MySQL,
		"MariaDB":    MySQL,
		"sqlite":     SQLite,
		"sqlite3":    SQLite,
	}
	for in, want := range tests {
		got, err := Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := Parse("oracle")
	assert.True(t, errors.Is(err, ErrUnknownBackend))
}

func TestDialectTable(t *testing.T) {
	t.Parallel()
	for _, b := range All {
		d := b.Dialect()
		require.NotNil(t, d)
		assert.Equal(t, b, d.Backend)
		assert.Equal(t, d.Name, b.String())
	}
	assert.Nil(t, Backend(-1).Dialect())
	assert.Equal(t, "backend(7)", Backend(7).String())

	assert.Equal(t, "$3", Postgres.Dialect().Placeholder(3))
	assert.Equal(t, "?", MySQL.Dialect().Placeholder(3))
	assert.Equal(t, "?", SQLite.Dialect().Placeholder(3))

	assert.True(t, Postgres.Dialect().Capabilities.ArraySubqueries)
	assert.False(t, MySQL.Dialect().Capabilities.ArraySubqueries)
	assert.False(t, SQLite.Dialect().Capabilities.ArraySubqueries)
	assert.False(t, MySQL.Dialect().Capabilities.OffsetWithoutLimit)
	assert.False(t, MySQL.Dialect().Capabilities.ConcatOperator)
	assert.Equal(t, Postgres.Dialect().Capabilities, Postgres.Capabilities())
	assert.Equal(t, Capabilities{}, Backend(7).Capabilities())
}

func TestQuoting(t *testing.T) {
	t.Parallel()
	assert.Equal(t, `"users"`, DoubleQuote("users"))
	assert.Equal(t, `"a""b"`, DoubleQuote(`a"b`))
	assert.Equal(t, "`users`", Backtick("users"))
	assert.Equal(t, "`a``b`", Backtick("a`b"))
	assert.Equal(t, `O''Brien`, EscapeString("O'Brien"))
	assert.Equal(t, `a\\b`, EscapeString(`a\b`))
}

func TestUnsupportedFeatureError(t *testing.T) {
	t.Parallel()
	err := Unsupported(MySQL, "DISTINCT ON")
	assert.EqualError(t, err, "mysql: DISTINCT ON is not supported")

	err = Unsupported(SQLite, "ILIKE", "use LOWER")
	assert.EqualError(t, err, "sqlite: ILIKE is not supported: use LOWER")

	var target *UnsupportedFeatureError
	require.ErrorAs(t, err, &target)
	assert.Equal(t, SQLite, target.Backend)
}
