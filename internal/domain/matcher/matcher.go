// Package matcher performs the one-pass automatic pairing of bank
// transactions to GL entries.
//
// The matcher is greedy first-fit over bank input order: each bank
// transaction claims the highest-scoring unclaimed GL entry above the
// threshold, and claimed entries are never revisited. It is not an
// optimal bipartite assignment; the interactive smart match pass exists
// to resolve what greedy misses. Re-running on identical inputs yields
// identical results.
package matcher

import (
	"strings"

	"github.com/eshaffer321/bankrecon/internal/domain/records"
	"github.com/shopspring/decimal"
)

// Sub-score weights. Amount dominates, check number is strong
// corroboration, date is a weak signal (see scoreDate).
const (
	weightAmount = 0.5
	weightCheck  = 0.3
	weightDate   = 0.2

	// matchThreshold must be strictly exceeded for a pair to commit.
	matchThreshold = 0.5
)

var onePercent = decimal.NewFromFloat(0.01)

// Matcher runs the automatic pass.
type Matcher struct {
	config Config
}

// NewMatcher creates a matcher with the given config.
func NewMatcher(config Config) *Matcher {
	return &Matcher{config: config}
}

// Run pairs bank transactions against GL entries and returns the
// matched/unmatched partition. Every input record lands in exactly one of
// the output sets.
func (m *Matcher) Run(bank []records.BankTransaction, gl []records.GLEntry) Result {
	result := Result{
		Matches:       make([]Match, 0),
		UnmatchedBank: make([]records.BankTransaction, 0),
		UnmatchedGL:   make([]records.GLEntry, 0),
	}
	claimed := make([]bool, len(gl))

	for _, tx := range bank {
		bestIdx := -1
		bestScore := 0.0

		for i, entry := range gl {
			if claimed[i] {
				continue
			}
			// Strictly-better comparison: ties resolve to the first
			// entry seen in GL order.
			if score := m.Score(tx, entry); score > matchThreshold && score > bestScore {
				bestIdx = i
				bestScore = score
			}
		}

		if bestIdx == -1 {
			result.UnmatchedBank = append(result.UnmatchedBank, tx)
			continue
		}

		claimed[bestIdx] = true
		result.Matches = append(result.Matches, Match{
			Bank:  tx,
			GL:    gl[bestIdx],
			Score: bestScore,
			Type:  m.matchType(tx, gl[bestIdx]),
		})
	}

	for i, entry := range gl {
		if !claimed[i] {
			result.UnmatchedGL = append(result.UnmatchedGL, entry)
		}
	}
	return result
}

// Score computes the weighted match score for one bank/GL pair.
func (m *Matcher) Score(tx records.BankTransaction, entry records.GLEntry) float64 {
	return m.scoreAmount(tx.Amount, entry.Amount) +
		m.scoreCheck(tx, entry) +
		m.scoreDate()
}

// scoreAmount awards full weight inside the absolute tolerance and 80% of
// it inside one percent of the bank amount.
func (m *Matcher) scoreAmount(bankAmt, glAmt decimal.Decimal) float64 {
	diff := bankAmt.Sub(glAmt).Abs()
	if diff.LessThanOrEqual(m.config.AmountTolerance) {
		return weightAmount
	}
	if diff.LessThanOrEqual(bankAmt.Mul(onePercent)) {
		return weightAmount * 0.8
	}
	return 0
}

// scoreCheck awards full weight when the bank check number's digits appear
// inside the GL account number's digits.
func (m *Matcher) scoreCheck(tx records.BankTransaction, entry records.GLEntry) float64 {
	checkDigits := records.Digits(tx.CheckNumber)
	if checkDigits == "" {
		return 0
	}
	if strings.Contains(records.Digits(entry.AccountNumber), checkDigits) {
		return weightCheck
	}
	return 0
}

// scoreDate is a flat half-weight when a date window is configured. GL
// entries in this model carry no dependably independent transaction date,
// so there is nothing to measure proximity against; whether this holds for
// GL sources that do carry dates is an open question, so the constant is
// kept rather than silently replaced with a proximity calculation.
func (m *Matcher) scoreDate() float64 {
	if m.config.DateRangeDays > 0 {
		return weightDate / 2
	}
	return 0
}

func (m *Matcher) matchType(tx records.BankTransaction, entry records.GLEntry) string {
	if m.scoreCheck(tx, entry) > 0 {
		return "Check #"
	}
	return "Exact Amount"
}
