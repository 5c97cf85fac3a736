// Package smartmatch ranks candidates for a single unmatched item against
// the full unmatched set on the opposite side.
//
// Five independent signals contribute to each candidate's score: amount
// closeness, description similarity, date proximity, reference numbers,
// and a learned bias from historical accept/deny feedback. When nothing
// scores as a confident single match, the engine also searches 2-way (and
// optionally 3-way) subset-sum combinations whose amounts add up to the
// source amount, surfacing them as synthetic split candidates.
package smartmatch

import (
	"fmt"
	"sort"
	"strings"

	"github.com/eshaffer321/bankrecon/internal/domain/learning"
	"github.com/eshaffer321/bankrecon/internal/domain/records"
	"github.com/shopspring/decimal"
)

const (
	// minScore is the floor below which candidates are not surfaced.
	minScore = 0.40
	// confidentScore suppresses the subset-sum search: a single
	// candidate this strong makes split hypotheses noise.
	confidentScore = 0.85
	// splitScoreCap bounds synthetic split candidates below any
	// confident single match.
	splitScoreCap = 0.80
	// maxSuggestions is how many ranked candidates are surfaced.
	maxSuggestions = 5
	// tripleSearchLimit bounds the O(n^3) triple scan.
	tripleSearchLimit = 50
)

// Config tunes the engine.
type Config struct {
	// DateRangeDays drives the date-score half-life.
	DateRangeDays int
	// EnableTriples turns on the 3-way subset-sum search.
	EnableTriples bool
}

// Suggestion is one ranked candidate for a source item. Indexes refer to
// the candidate slice passed to the Suggest call; a split carries two or
// three of them.
type Suggestion struct {
	Indexes []int    `json:"indexes"`
	Score   float64  `json:"score"`
	Split   bool     `json:"split"`
	Reasons []string `json:"reasons"`
}

// Engine scores candidates for one direction at a time.
type Engine struct {
	config Config
}

// NewEngine creates an engine with the given config.
func NewEngine(config Config) *Engine {
	return &Engine{config: config}
}

// SuggestForBank ranks unmatched GL entries (and their subset-sum
// combinations) against one unmatched bank transaction. The learning
// record may be nil when no feedback history exists.
func (e *Engine) SuggestForBank(source records.BankTransaction, candidates []records.GLEntry, record *learning.Record) []Suggestion {
	suggestions := make([]Suggestion, 0, len(candidates))

	for i, entry := range candidates {
		score, reasons := e.scoreBankGL(source, entry, record)
		if score < minScore {
			continue
		}
		suggestions = append(suggestions, Suggestion{
			Indexes: []int{i},
			Score:   score,
			Reasons: reasons,
		})
	}

	if !hasConfident(suggestions) {
		amounts := make([]decimal.Decimal, len(candidates))
		for i, entry := range candidates {
			amounts[i] = entry.Amount
		}
		suggestions = append(suggestions, e.searchSplits(source.Amount, amounts)...)
	}

	return rank(suggestions)
}

// SuggestForGL ranks unmatched bank transactions (and their subset-sum
// combinations) against one unmatched GL entry.
func (e *Engine) SuggestForGL(source records.GLEntry, candidates []records.BankTransaction, record *learning.Record) []Suggestion {
	suggestions := make([]Suggestion, 0, len(candidates))

	for i, tx := range candidates {
		score, reasons := e.scoreBankGL(tx, source, record)
		if score < minScore {
			continue
		}
		suggestions = append(suggestions, Suggestion{
			Indexes: []int{i},
			Score:   score,
			Reasons: reasons,
		})
	}

	if !hasConfident(suggestions) {
		amounts := make([]decimal.Decimal, len(candidates))
		for i, tx := range candidates {
			amounts[i] = tx.Amount
		}
		suggestions = append(suggestions, e.searchSplits(source.Amount, amounts)...)
	}

	return rank(suggestions)
}

// scoreBankGL computes the weighted five-signal score for a bank/GL pair.
// The pair is scored symmetrically regardless of which side is the source,
// except that amount tiers are relative to the bank amount.
func (e *Engine) scoreBankGL(tx records.BankTransaction, entry records.GLEntry, record *learning.Record) (float64, []string) {
	var reasons []string

	amount := amountScore(tx.Amount, entry.Amount)
	switch {
	case amount == 1.0:
		reasons = append(reasons, "Exact amount")
	case amount >= 0.85:
		reasons = append(reasons, "Amount within 1%")
	case amount >= 0.6:
		reasons = append(reasons, "Amount within 5%")
	case amount >= 0.3:
		reasons = append(reasons, "Amount within 10%")
	}

	text := textScore(
		tx.Description+" "+tx.Memo,
		entry.Description+" "+entry.AccountDescription,
	)
	if text >= 0.5 {
		reasons = append(reasons, "Similar description")
	}

	date := dateScore(tx.Date, entry.Date, e.config.DateRangeDays)
	if date >= 0.8 {
		reasons = append(reasons, "Close date")
	}

	ref, refReason := refScore(tx, entry)
	if refReason != "" {
		reasons = append(reasons, refReason)
	}

	total := weightAmount*amount + weightText*text + weightDate*date + weightRef*ref

	if record != nil {
		bias := record.Bias(tx.Description, entry.AccountNumber, entry.Description, tx.Amount)
		total += bias
		if bias > 0.02 {
			reasons = append(reasons, "Learned pattern")
		}
	}

	return total, reasons
}

// refScore tiers reference-number corroboration: exact check match, check
// digits inside the account number, a last-four match, or a shared PO
// number found in both descriptions.
func refScore(tx records.BankTransaction, entry records.GLEntry) (float64, string) {
	bankDigits := records.Digits(tx.CheckNumber)
	glCheckDigits := records.Digits(entry.CheckNumber)
	accountDigits := records.Digits(entry.AccountNumber)

	if bankDigits != "" {
		if bankDigits == glCheckDigits {
			return 1.0, "Same check #"
		}
		if accountDigits != "" && strings.Contains(accountDigits, bankDigits) {
			return 0.9, "Check # matches account"
		}
		if lastFour(bankDigits) != "" &&
			(lastFour(bankDigits) == lastFour(glCheckDigits) || lastFour(bankDigits) == lastFour(accountDigits)) {
			return 0.6, "Last 4 digits match"
		}
	}

	bankPO := records.ExtractPONumber(tx.Description + " " + tx.Memo)
	if bankPO != "" && bankPO == entry.PONumber {
		return 0.8, "Same PO #"
	}
	return 0, ""
}

func lastFour(digits string) string {
	if len(digits) < 4 {
		return ""
	}
	return digits[len(digits)-4:]
}

func hasConfident(suggestions []Suggestion) bool {
	for _, s := range suggestions {
		if s.Score >= confidentScore {
			return true
		}
	}
	return false
}

// rank sorts descending by score and truncates to the surfacing limit.
// The sort is stable so equal scores keep candidate order, which keeps
// suggestion lists deterministic.
func rank(suggestions []Suggestion) []Suggestion {
	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Score > suggestions[j].Score
	})
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}

func splitReason(n int) string {
	return fmt.Sprintf("Splits into %d items", n)
}
