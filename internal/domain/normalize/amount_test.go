package normalize

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amt(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestParseAmount_Plain(t *testing.T) {
	assert.True(t, ParseAmount("1234.56").Equal(amt("1234.56")))
	assert.True(t, ParseAmount("0.99").Equal(amt("0.99")))
	assert.True(t, ParseAmount("500").Equal(amt("500")))
}

func TestParseAmount_CurrencyAndWhitespace(t *testing.T) {
	assert.True(t, ParseAmount("$1,234.56").Equal(amt("1234.56")))
	assert.True(t, ParseAmount(" $ 42.00 ").Equal(amt("42")))
	assert.True(t, ParseAmount("€99,95").Equal(amt("99.95")))
}

func TestParseAmount_AccountingParentheses(t *testing.T) {
	// Accounting convention: parentheses mean negative.
	assert.True(t, ParseAmount("(1,234.56)").Equal(amt("-1234.56")))
	assert.True(t, ParseAmount("($500.00)").Equal(amt("-500")))
}

func TestParseAmount_EuropeanSeparators(t *testing.T) {
	assert.True(t, ParseAmount("1.234,56").Equal(amt("1234.56")))
	assert.True(t, ParseAmount("1.234.567,89").Equal(amt("1234567.89")))
}

func TestParseAmount_SingleSeparatorHeuristic(t *testing.T) {
	// Two-digit tail reads as a decimal separator, otherwise grouping.
	assert.True(t, ParseAmount("1,23").Equal(amt("1.23")))
	assert.True(t, ParseAmount("1,234").Equal(amt("1234")))
	assert.True(t, ParseAmount("12.345").Equal(amt("12345")))
}

func TestParseAmount_MinusSigns(t *testing.T) {
	assert.True(t, ParseAmount("-42.00").Equal(amt("-42")))
	// Odd count of embedded minus signs is negative; even cancels out.
	assert.True(t, ParseAmount("--42.00").Equal(amt("42")))
	assert.True(t, ParseAmount("-$1,000.00").Equal(amt("-1000")))
}

func TestParseAmount_Unparseable(t *testing.T) {
	d, ok := ParseAmountOK("not a number")
	assert.False(t, ok)
	assert.True(t, d.IsZero())

	d, ok = ParseAmountOK("")
	assert.False(t, ok)
	assert.True(t, d.IsZero())
}

func TestFormatCurrency_RoundTrips(t *testing.T) {
	for _, raw := range []string{"0.00", "5.00", "1234.56", "-1234.56", "1234567.89"} {
		d := amt(raw)
		formatted := FormatCurrency(d)
		parsed, ok := ParseAmountOK(formatted)
		require.True(t, ok, "formatted %q should parse", formatted)
		assert.True(t, parsed.Equal(d), "round trip %q -> %q -> %s", raw, formatted, parsed)
	}
}

func TestFormatCurrency_Grouping(t *testing.T) {
	assert.Equal(t, "$1,234.56", FormatCurrency(amt("1234.56")))
	assert.Equal(t, "-$1,234.56", FormatCurrency(amt("-1234.56")))
	assert.Equal(t, "$12.00", FormatCurrency(amt("12")))
}
