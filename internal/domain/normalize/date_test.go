package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidDate(t *testing.T) {
	valid := []string{"1/5/2024", "01/15/2024", "1/5/24", "2024-01-15", "01-15-2024"}
	for _, s := range valid {
		assert.True(t, IsValidDate(s), s)
	}

	invalid := []string{"", "15 Jan 2024", "2024/01/15", "500.00", "Jan-15", "1-5-24"}
	for _, s := range invalid {
		assert.False(t, IsValidDate(s), s)
	}
}

func TestParseDate_AcceptedShapes(t *testing.T) {
	want := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)

	for _, s := range []string{"1/15/2024", "01/15/2024", "2024-01-15", "01-15-2024", "1/15/24"} {
		got, ok := ParseDate(s)
		require.True(t, ok, s)
		assert.True(t, got.Equal(want), "%s parsed to %s", s, got)
	}
}

func TestParseDate_RoundTrip(t *testing.T) {
	// Parsing composed with a canonical formatter is stable for every
	// accepted input shape.
	for _, s := range []string{"1/15/2024", "2024-01-15", "01-15-2024"} {
		first, ok := ParseDate(s)
		require.True(t, ok, s)

		second, ok := ParseDate(first.Format("2006-01-02"))
		require.True(t, ok, s)
		assert.True(t, first.Equal(second), s)
	}
}

func TestParseDate_Rejects(t *testing.T) {
	_, ok := ParseDate("13/45/2024")
	assert.False(t, ok, "impossible calendar date")

	_, ok = ParseDate("45000")
	assert.False(t, ok, "serials are not handled by ParseDate")
}

func TestParseExcelSerial(t *testing.T) {
	// 45000 days past 1899-12-30 lands in March 2023.
	got, ok := ParseExcelSerial(45000)
	require.True(t, ok)
	assert.Equal(t, 2023, got.Year())
	assert.Equal(t, time.March, got.Month())
	assert.Equal(t, 15, got.Day())
}

func TestParseExcelSerial_WindowExcludesAmounts(t *testing.T) {
	_, ok := ParseExcelSerial(500)
	assert.False(t, ok, "small numbers are amounts, not dates")

	_, ok = ParseExcelSerial(60000)
	assert.False(t, ok, "upper bound is exclusive")

	_, ok = ParseExcelSerial(30000)
	assert.True(t, ok, "lower bound is inclusive")
}
