package sqltypes

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bawdo/selekt/backend"
)

func TestStrings(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Text", Text.String())
	assert.Equal(t, "Nullable<Text>", Nullable{Inner: Text}.String())
	assert.Equal(t, "Array<(BigInt, Nullable<Text>)>",
		Array{Elem: Record{BigInt, Nullable{Inner: Text}}}.String())
}

func TestEqual(t *testing.T) {
	t.Parallel()
	assert.True(t, Equal(Record{BigInt, Text}, Record{BigInt, Text}))
	assert.False(t, Equal(Record{BigInt}, Array{Elem: BigInt}))
	assert.False(t, Equal(Text, nil))
	assert.True(t, Equal(nil, nil))
}

func TestExpressionTypeRule(t *testing.T) {
	t.Parallel()
	row := Record{BigInt, Text}
	assert.Equal(t, Array{Elem: row}, ExpressionType(backend.Postgres, row))
	assert.Equal(t, row, ExpressionType(backend.MySQL, row))
	assert.Equal(t, row, ExpressionType(backend.SQLite, row))
	assert.Equal(t, BigInt, RuleFor(backend.Backend(99))(BigInt))
}
