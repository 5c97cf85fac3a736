package smartmatch

import (
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

// Signal weights of the final score. The learning bias rides on top,
// clamped to +/-0.10 by the learning package.
const (
	weightAmount = 0.40
	weightText   = 0.20
	weightDate   = 0.15
	weightRef    = 0.15
)

var (
	centTolerance  = decimal.NewFromFloat(0.01)
	ratioOnePct    = decimal.NewFromFloat(0.01)
	ratioFivePct   = decimal.NewFromFloat(0.05)
	ratioTenPct    = decimal.NewFromFloat(0.10)
	missingDateVal = 0.25
)

// amountScore tiers the closeness of two magnitudes: exact (within a
// cent), within 1%, 5%, or 10% of the source amount.
func amountScore(source, candidate decimal.Decimal) float64 {
	diff := source.Sub(candidate).Abs()
	switch {
	case diff.LessThanOrEqual(centTolerance):
		return 1.0
	case diff.LessThanOrEqual(source.Mul(ratioOnePct)):
		return 0.85
	case diff.LessThanOrEqual(source.Mul(ratioFivePct)):
		return 0.6
	case diff.LessThanOrEqual(source.Mul(ratioTenPct)):
		return 0.3
	}
	return 0
}

// textScore is the Jaccard similarity of the two sides' token sets.
// Descriptions and memos are concatenated by the caller.
func textScore(a, b string) float64 {
	ta := tokenize(a)
	tb := tokenize(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	intersection := 0
	for tok := range ta {
		if tb[tok] {
			intersection++
		}
	}
	union := len(ta) + len(tb) - intersection
	return float64(intersection) / float64(union)
}

// tokenize lowercases, strips non-alphanumerics, and keeps tokens longer
// than two characters; short tokens ("of", "to", "ck") are mostly noise.
func tokenize(s string) map[string]bool {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)

	tokens := make(map[string]bool)
	for _, tok := range strings.Fields(cleaned) {
		if len(tok) > 2 {
			tokens[tok] = true
		}
	}
	return tokens
}

// dateScore decays exponentially with the day gap. The half-life derives
// from the configured date range (minimum 3 days, halved), so a wider
// configured window tolerates wider gaps. Missing dates fall back to a
// neutral default rather than zero: absence of a date is not evidence
// against a match.
func dateScore(a, b *time.Time, rangeDays int) float64 {
	if a == nil || b == nil {
		return missingDateVal
	}

	days := math.Abs(a.Sub(*b).Hours() / 24)
	if days < 1 {
		return 1.0
	}

	window := rangeDays
	if window < 3 {
		window = 3
	}
	halfLife := float64(window) / 2
	return math.Exp(-days / halfLife)
}
