package framework

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeID(path ...string) TestID {
	return TestID{Path: path}
}

func TestRegexFiltersWithNoPatternsMatchEverything(t *testing.T) {
	var f RegexFilters
	assert.True(t, f.AsFilter(makeID("auth")))
	assert.True(t, f.AsFilter(makeID("products", "create")))
}

func TestRegexFiltersMustMatch(t *testing.T) {
	var f RegexFilters
	require.NoError(t, f.MustMatch.Set("products/create"))

	assert.True(t, f.AsFilter(makeID("products", "create")))
	assert.True(t, f.AsFilter(makeID("products")), "parent must run so the subtest can be reached")
	assert.False(t, f.AsFilter(makeID("reports")))
	assert.False(t, f.AsFilter(makeID("products", "update")))
}

func TestRegexFiltersMustNotMatch(t *testing.T) {
	var f RegexFilters
	require.NoError(t, f.MustNotMatch.Set("^reports"))

	assert.True(t, f.AsFilter(makeID("products")))
	assert.False(t, f.AsFilter(makeID("reports")))
	assert.False(t, f.AsFilter(makeID("reports", "monthly")))
}

func TestRegexListRejectsInvalidPattern(t *testing.T) {
	var r RegexList
	assert.Error(t, r.Set("("))
	assert.False(t, r.IsDefined())
}

func TestPrintFilterDescription(t *testing.T) {
	var f RegexFilters
	require.NoError(t, f.MustMatch.Set("a"))
	require.NoError(t, f.MustNotMatch.Set("b"))

	var buf bytes.Buffer
	PrintFilterDescription(&buf, f)
	assert.Contains(t, buf.String(), `skip any not matching "a"`)
	assert.Contains(t, buf.String(), `skip any matching "b"`)

	buf.Reset()
	PrintFilterDescription(&buf, RegexFilters{})
	assert.Equal(t, "", buf.String())
}
