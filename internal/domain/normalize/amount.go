// Package normalize converts loosely-structured textual representations of
// money and dates into canonical values.
//
// Bank and GL exports disagree on almost everything: currency symbols,
// thousands/decimal separator conventions, accounting-style parentheses for
// negatives, spelled-out numbers, Excel serial dates. Everything here is a
// pure function; unparseable input degrades to a zero value instead of an
// error so one bad cell never aborts a batch.
package normalize

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

var currencyRunes = map[rune]bool{
	'$': true,
	'€': true,
	'£': true,
	'¥': true,
	'₹': true,
}

// ParseAmount parses a monetary string into a signed decimal. It returns
// zero for anything it cannot make sense of; callers that care use
// ParseAmountOK to distinguish "zero" from "garbage".
func ParseAmount(raw string) decimal.Decimal {
	d, _ := ParseAmountOK(raw)
	return d
}

// ParseAmountOK parses a monetary string and reports whether the input
// actually contained a number.
//
// Handles: currency symbols, embedded whitespace, accounting parentheses
// ("(1,234.56)" is negative), both separator conventions (the later of the
// last '.' / last ',' wins as the decimal separator), and stray minus signs
// (an odd count means negative).
func ParseAmountOK(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, false
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") && len(s) > 2 {
		negative = true
		s = s[1 : len(s)-1]
	}

	s = strings.Map(func(r rune) rune {
		if currencyRunes[r] || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)

	if n := strings.Count(s, "-"); n > 0 {
		if n%2 == 1 {
			negative = !negative
		}
		s = strings.ReplaceAll(s, "-", "")
	}

	s = resolveSeparators(s)

	// Strip any non-numeric residue left over (trailing codes, stray
	// letters). One decimal point survives.
	var b strings.Builder
	seenDot := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' && !seenDot:
			seenDot = true
			b.WriteRune(r)
		}
	}
	s = b.String()
	if s == "" || s == "." {
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	if negative {
		d = d.Neg()
	}
	return d, true
}

// resolveSeparators rewrites s so that '.' is the only decimal separator and
// thousands separators are gone.
//
// With both separators present the later one is the decimal separator. With
// only one kind present, a single occurrence followed by exactly two digits
// is treated as decimal; anything else is grouping.
func resolveSeparators(s string) string {
	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastDot > lastComma {
			// 1,234.56
			return strings.ReplaceAll(s, ",", "")
		}
		// 1.234,56
		s = strings.ReplaceAll(s, ".", "")
		return strings.Replace(s, ",", ".", 1)

	case lastComma >= 0:
		if strings.Count(s, ",") == 1 && digitTail(s, lastComma) == 2 {
			return strings.Replace(s, ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "")

	case lastDot >= 0:
		if strings.Count(s, ".") == 1 && digitTail(s, lastDot) == 2 {
			return s
		}
		return strings.ReplaceAll(s, ".", "")
	}
	return s
}

// digitTail counts the digits after the separator at index i.
func digitTail(s string, i int) int {
	n := 0
	for _, r := range s[i+1:] {
		if r < '0' || r > '9' {
			return -1
		}
		n++
	}
	return n
}

// FormatCurrency renders a decimal as a display amount, e.g. "-$1,234.56".
// ParseAmount(FormatCurrency(d)) round-trips.
func FormatCurrency(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	s := d.StringFixed(2)
	dot := strings.Index(s, ".")
	whole, frac := s[:dot], s[dot:]

	var groups []string
	for len(whole) > 3 {
		groups = append([]string{whole[len(whole)-3:]}, groups...)
		whole = whole[:len(whole)-3]
	}
	groups = append([]string{whole}, groups...)

	return sign + "$" + strings.Join(groups, ",") + frac
}
