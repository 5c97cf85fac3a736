package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTextNumber_Simple(t *testing.T) {
	cases := map[string]int64{
		"five":        5,
		"seventeen":   17,
		"forty":       40,
		"one hundred": 100,
	}
	for input, want := range cases {
		d, ok := ParseTextNumber(input)
		require.True(t, ok, input)
		assert.Equal(t, want, d.IntPart(), input)
	}
}

func TestParseTextNumber_ScaleCarry(t *testing.T) {
	d, ok := ParseTextNumber("one thousand two hundred")
	require.True(t, ok)
	assert.Equal(t, int64(1200), d.IntPart())

	d, ok = ParseTextNumber("two hundred thousand")
	require.True(t, ok)
	assert.Equal(t, int64(200000), d.IntPart())

	d, ok = ParseTextNumber("three million five hundred thousand twenty")
	require.True(t, ok)
	assert.Equal(t, int64(3500020), d.IntPart())
}

func TestParseTextNumber_Hyphenated(t *testing.T) {
	d, ok := ParseTextNumber("twenty-one")
	require.True(t, ok)
	assert.Equal(t, int64(21), d.IntPart())

	d, ok = ParseTextNumber("one hundred forty-two")
	require.True(t, ok)
	assert.Equal(t, int64(142), d.IntPart())
}

func TestParseTextNumber_Ordinals(t *testing.T) {
	d, ok := ParseTextNumber("twenty-first")
	require.True(t, ok)
	assert.Equal(t, int64(21), d.IntPart())
}

func TestParseTextNumber_Negation(t *testing.T) {
	d, ok := ParseTextNumber("negative fifty")
	require.True(t, ok)
	assert.Equal(t, int64(-50), d.IntPart())

	d, ok = ParseTextNumber("minus one thousand")
	require.True(t, ok)
	assert.Equal(t, int64(-1000), d.IntPart())
}

func TestParseTextNumber_NumericFallback(t *testing.T) {
	// No number words at all: falls back to numeric parsing.
	d, ok := ParseTextNumber("$1,500.00")
	require.True(t, ok)
	assert.True(t, d.Equal(amt("1500")))

	_, ok = ParseTextNumber("hello world")
	assert.False(t, ok)
}
