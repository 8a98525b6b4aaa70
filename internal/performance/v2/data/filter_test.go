package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilter_NumericComparison(t *testing.T) {
	f := parseFilter("age >= 21")
	require.NotNil(t, f)
	assert.True(t, f.Numeric)

	row := mustRow(t, "age", "25")
	assert.True(t, f.Match(row))

	row2 := mustRow(t, "age", "18")
	assert.False(t, f.Match(row2))
}

func TestParseFilter_TextComparison(t *testing.T) {
	f := parseFilter(`status = "active"`)
	require.NotNil(t, f)
	assert.False(t, f.Numeric)

	row := mustRow(t, "status", "active")
	assert.True(t, f.Match(row))

	row2 := mustRow(t, "status", "inactive")
	assert.False(t, f.Match(row2))
}

func TestParseFilter_UnparsableExpressionReturnsNilNotError(t *testing.T) {
	f := parseFilter("not a valid filter !!")
	assert.Nil(t, f)
}

func TestParseFilter_EmptyExpressionReturnsNil(t *testing.T) {
	assert.Nil(t, parseFilter(""))
	assert.Nil(t, parseFilter("   "))
}

func TestParseFilter_MissingColumnDoesNotMatch(t *testing.T) {
	f := parseFilter("missing = 1")
	require.NotNil(t, f)
	row := mustRow(t, "present", "1")
	assert.False(t, f.Match(row))
}
