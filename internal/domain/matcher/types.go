package matcher

import (
	"github.com/eshaffer321/bankrecon/internal/domain/records"
	"github.com/shopspring/decimal"
)

// Config holds matcher configuration.
type Config struct {
	// AmountTolerance is the absolute difference, in currency units,
	// inside which two amounts count as equal.
	AmountTolerance decimal.Decimal
	// DateRangeDays is the configured date window. The automatic matcher
	// only uses it as an on/off switch for the flat date sub-score; the
	// smart match engine uses it for real proximity decay.
	DateRangeDays int
}

// DefaultConfig returns sensible defaults: exact amounts within one cent,
// a five day date window.
func DefaultConfig() Config {
	return Config{
		AmountTolerance: decimal.NewFromFloat(0.01),
		DateRangeDays:   5,
	}
}

// Match pairs one bank transaction with one GL entry.
type Match struct {
	Bank  records.BankTransaction
	GL    records.GLEntry
	Score float64
	// Type is free-text provenance: "Exact Amount" or "Check #" for
	// automatic matches.
	Type string
}

// Result is the matched/unmatched partition produced by a run.
type Result struct {
	Matches       []Match
	UnmatchedBank []records.BankTransaction
	UnmatchedGL   []records.GLEntry
}
