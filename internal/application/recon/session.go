// Package recon owns the matched/unmatched partition for one
// reconciliation run and coordinates the domain engines around it: the
// automatic matcher for the first pass, the smart match engine for
// interactive suggestions, and the learning tracker for accept/deny
// feedback.
//
// Every operation either fully commits its record moves or aborts before
// touching anything; the partition is never left half-mutated. Across all
// match results no original bank or GL record is claimed twice, and
// unmatching restores constituents exactly, including expanding combined
// records back into their originals.
package recon

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/eshaffer321/bankrecon/internal/domain/learning"
	"github.com/eshaffer321/bankrecon/internal/domain/matcher"
	"github.com/eshaffer321/bankrecon/internal/domain/records"
	"github.com/eshaffer321/bankrecon/internal/domain/smartmatch"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Contract violations surfaced to callers. Per-row data problems never
// reach this level; these fire only on misuse.
var (
	ErrNoSource        = errors.New("no source item selected")
	ErrEmptySelection  = errors.New("empty selection")
	ErrNotFound        = errors.New("no such match")
	ErrIndexOutOfRange = errors.New("index out of range")
)

// Side says which unmatched set a source item lives in.
type Side string

const (
	SideBank Side = "bank"
	SideGL   Side = "gl"
)

// MatchResult pairs one bank-shaped entity with one GL-shaped entity.
// Either side may be a synthetic combined record; the constituents are
// retained so the match can be reversed.
type MatchResult struct {
	ID           string                    `json:"id"`
	Bank         records.BankTransaction   `json:"bank"`
	GL           records.GLEntry           `json:"gl"`
	CombinedBank []records.BankTransaction `json:"combined_bank,omitempty"`
	CombinedGL   []records.GLEntry         `json:"combined_gl,omitempty"`
	Score        float64                   `json:"score"`
	MatchType    string                    `json:"match_type"`
	IsManual     bool                      `json:"is_manual"`
}

// Session is the in-memory state of one reconciliation run.
type Session struct {
	matched       []MatchResult
	unmatchedBank []records.BankTransaction
	unmatchedGL   []records.GLEntry

	auto    *matcher.Matcher
	smart   *smartmatch.Engine
	tracker *learning.Tracker
	logger  *slog.Logger
}

// Config carries the engine options a session needs.
type Config struct {
	AmountTolerance decimal.Decimal
	DateRangeDays   int
	EnableTriples   bool
}

// NewSession creates a session over two canonical record lists. The
// tracker may be nil when no learning store is wired (feedback is then
// dropped and bias is zero).
func NewSession(bank []records.BankTransaction, gl []records.GLEntry, cfg Config, tracker *learning.Tracker, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		matched:       make([]MatchResult, 0),
		unmatchedBank: append([]records.BankTransaction(nil), bank...),
		unmatchedGL:   append([]records.GLEntry(nil), gl...),
		auto: matcher.NewMatcher(matcher.Config{
			AmountTolerance: cfg.AmountTolerance,
			DateRangeDays:   cfg.DateRangeDays,
		}),
		smart: smartmatch.NewEngine(smartmatch.Config{
			DateRangeDays: cfg.DateRangeDays,
			EnableTriples: cfg.EnableTriples,
		}),
		tracker: tracker,
		logger:  logger,
	}
}

// AutoMatch runs the greedy automatic pass over the current unmatched
// sets and folds the pairs into the matched list.
func (s *Session) AutoMatch() int {
	result := s.auto.Run(s.unmatchedBank, s.unmatchedGL)

	for _, m := range result.Matches {
		s.matched = append(s.matched, MatchResult{
			ID:        uuid.New().String(),
			Bank:      m.Bank,
			GL:        m.GL,
			Score:     m.Score,
			MatchType: m.Type,
		})
	}
	s.unmatchedBank = result.UnmatchedBank
	s.unmatchedGL = result.UnmatchedGL

	s.logger.Info("automatic match pass complete",
		"matched", len(result.Matches),
		"unmatched_bank", len(s.unmatchedBank),
		"unmatched_gl", len(s.unmatchedGL))
	return len(result.Matches)
}

// Suggestions ranks smart match candidates for one unmatched source item.
func (s *Session) Suggestions(side Side, index int) ([]smartmatch.Suggestion, error) {
	record, err := s.learningRecord()
	if err != nil {
		return nil, err
	}

	switch side {
	case SideBank:
		if index < 0 || index >= len(s.unmatchedBank) {
			return nil, fmt.Errorf("%w: bank %d", ErrNoSource, index)
		}
		return s.smart.SuggestForBank(s.unmatchedBank[index], s.unmatchedGL, record), nil
	case SideGL:
		if index < 0 || index >= len(s.unmatchedGL) {
			return nil, fmt.Errorf("%w: gl %d", ErrNoSource, index)
		}
		return s.smart.SuggestForGL(s.unmatchedGL[index], s.unmatchedBank, record), nil
	}
	return nil, fmt.Errorf("%w: unknown side %q", ErrNoSource, side)
}

// Accept commits a smart match suggestion: the consumed records leave
// their unmatched sets, a MatchResult is appended, and an accepted
// feedback event is recorded. Validation happens before any mutation.
func (s *Session) Accept(side Side, sourceIndex int, suggestion smartmatch.Suggestion) (*MatchResult, error) {
	if len(suggestion.Indexes) == 0 {
		return nil, ErrEmptySelection
	}

	var result MatchResult
	switch side {
	case SideBank:
		if sourceIndex < 0 || sourceIndex >= len(s.unmatchedBank) {
			return nil, fmt.Errorf("%w: bank %d", ErrNoSource, sourceIndex)
		}
		if err := validateIndexes(suggestion.Indexes, len(s.unmatchedGL)); err != nil {
			return nil, err
		}

		source := s.unmatchedBank[sourceIndex]
		entries := make([]records.GLEntry, 0, len(suggestion.Indexes))
		for _, i := range suggestion.Indexes {
			entries = append(entries, s.unmatchedGL[i])
		}

		result = s.buildResult([]records.BankTransaction{source}, entries, suggestion.Score, false)
		s.removeBank([]int{sourceIndex})
		s.removeGL(suggestion.Indexes)

	case SideGL:
		if sourceIndex < 0 || sourceIndex >= len(s.unmatchedGL) {
			return nil, fmt.Errorf("%w: gl %d", ErrNoSource, sourceIndex)
		}
		if err := validateIndexes(suggestion.Indexes, len(s.unmatchedBank)); err != nil {
			return nil, err
		}

		source := s.unmatchedGL[sourceIndex]
		txs := make([]records.BankTransaction, 0, len(suggestion.Indexes))
		for _, i := range suggestion.Indexes {
			txs = append(txs, s.unmatchedBank[i])
		}

		result = s.buildResult(txs, []records.GLEntry{source}, suggestion.Score, false)
		s.removeGL([]int{sourceIndex})
		s.removeBank(suggestion.Indexes)

	default:
		return nil, fmt.Errorf("%w: unknown side %q", ErrNoSource, side)
	}

	s.matched = append(s.matched, result)
	s.recordFeedback(result, true)
	return &result, nil
}

// Deny records a denied feedback event for a suggestion. No records move;
// the caller drops the suggestion from its current candidate list.
func (s *Session) Deny(side Side, sourceIndex int, suggestion smartmatch.Suggestion) error {
	if len(suggestion.Indexes) == 0 {
		return ErrEmptySelection
	}

	var bank records.BankTransaction
	var gl records.GLEntry
	switch side {
	case SideBank:
		if sourceIndex < 0 || sourceIndex >= len(s.unmatchedBank) {
			return fmt.Errorf("%w: bank %d", ErrNoSource, sourceIndex)
		}
		if err := validateIndexes(suggestion.Indexes, len(s.unmatchedGL)); err != nil {
			return err
		}
		bank = s.unmatchedBank[sourceIndex]
		gl = s.unmatchedGL[suggestion.Indexes[0]]
	case SideGL:
		if sourceIndex < 0 || sourceIndex >= len(s.unmatchedGL) {
			return fmt.Errorf("%w: gl %d", ErrNoSource, sourceIndex)
		}
		if err := validateIndexes(suggestion.Indexes, len(s.unmatchedBank)); err != nil {
			return err
		}
		gl = s.unmatchedGL[sourceIndex]
		bank = s.unmatchedBank[suggestion.Indexes[0]]
	default:
		return fmt.Errorf("%w: unknown side %q", ErrNoSource, side)
	}

	if s.tracker == nil {
		return nil
	}
	return s.tracker.Deny(learning.Event{
		Timestamp:       time.Now().UTC(),
		BankDescription: bank.Description,
		GLAccount:       gl.AccountNumber,
		GLDescription:   gl.Description,
		Amount:          bank.Amount,
	})
}

// ManualMatch pairs explicit selections from both unmatched sets.
func (s *Session) ManualMatch(bankIndexes, glIndexes []int) (*MatchResult, error) {
	if len(bankIndexes) == 0 || len(glIndexes) == 0 {
		return nil, ErrEmptySelection
	}
	if err := validateIndexes(bankIndexes, len(s.unmatchedBank)); err != nil {
		return nil, err
	}
	if err := validateIndexes(glIndexes, len(s.unmatchedGL)); err != nil {
		return nil, err
	}

	txs := make([]records.BankTransaction, 0, len(bankIndexes))
	for _, i := range bankIndexes {
		txs = append(txs, s.unmatchedBank[i])
	}
	entries := make([]records.GLEntry, 0, len(glIndexes))
	for _, i := range glIndexes {
		entries = append(entries, s.unmatchedGL[i])
	}

	result := s.buildResult(txs, entries, 1.0, true)
	s.removeBank(bankIndexes)
	s.removeGL(glIndexes)
	s.matched = append(s.matched, result)
	return &result, nil
}

// Unmatch reverses a match result, restoring every constituent record to
// its unmatched set. Combined records expand back into their originals.
// Feedback counters are not touched: the decision history stands even
// when its outcome is reversed.
func (s *Session) Unmatch(index int) error {
	if index < 0 || index >= len(s.matched) {
		return fmt.Errorf("%w: match %d", ErrNotFound, index)
	}

	result := s.matched[index]
	s.matched = append(s.matched[:index], s.matched[index+1:]...)

	if len(result.CombinedBank) > 0 {
		s.unmatchedBank = append(s.unmatchedBank, result.CombinedBank...)
	} else {
		s.unmatchedBank = append(s.unmatchedBank, result.Bank)
	}
	if len(result.CombinedGL) > 0 {
		s.unmatchedGL = append(s.unmatchedGL, result.CombinedGL...)
	} else {
		s.unmatchedGL = append(s.unmatchedGL, result.GL)
	}
	return nil
}

// Matched returns the current match results.
func (s *Session) Matched() []MatchResult {
	return append([]MatchResult(nil), s.matched...)
}

// UnmatchedBank returns the current unmatched bank transactions.
func (s *Session) UnmatchedBank() []records.BankTransaction {
	return append([]records.BankTransaction(nil), s.unmatchedBank...)
}

// UnmatchedGL returns the current unmatched GL entries.
func (s *Session) UnmatchedGL() []records.GLEntry {
	return append([]records.GLEntry(nil), s.unmatchedGL...)
}

// buildResult assembles a MatchResult, synthesizing combined records for
// multi-item sides.
func (s *Session) buildResult(txs []records.BankTransaction, entries []records.GLEntry, score float64, manual bool) MatchResult {
	result := MatchResult{
		ID:       uuid.New().String(),
		Score:    score,
		IsManual: manual,
	}

	if len(txs) == 1 {
		result.Bank = txs[0]
	} else {
		result.Bank = combineBank(txs)
		result.CombinedBank = txs
	}
	if len(entries) == 1 {
		result.GL = entries[0]
	} else {
		result.GL = combineGL(entries)
		result.CombinedGL = entries
	}

	switch {
	case len(txs) > 1:
		result.MatchType = fmt.Sprintf("Multi-Match (%d→1)", len(txs))
	case len(entries) > 1:
		result.MatchType = fmt.Sprintf("Multi-Match (%d→1)", len(entries))
	case manual:
		result.MatchType = "Manual Match"
	default:
		result.MatchType = "Smart Match"
	}
	return result
}

func combineBank(txs []records.BankTransaction) records.BankTransaction {
	combined := records.BankTransaction{
		Description: fmt.Sprintf("Combined (%d items)", len(txs)),
		SourceRow:   -1,
		Date:        txs[0].Date,
		IsDebit:     txs[0].IsDebit,
	}
	total := decimal.Zero
	for _, tx := range txs {
		total = total.Add(tx.Amount)
	}
	combined.Amount = total
	if combined.IsDebit {
		combined.AmountDebit = total
	} else {
		combined.AmountCredit = total
	}
	return combined
}

func combineGL(entries []records.GLEntry) records.GLEntry {
	combined := records.GLEntry{
		AccountNumber: entries[0].AccountNumber,
		Description:   fmt.Sprintf("Combined (%d items)", len(entries)),
		SourceRow:     -1,
		Date:          entries[0].Date,
	}
	total := decimal.Zero
	for _, entry := range entries {
		total = total.Add(entry.Amount)
	}
	combined.Amount = total
	combined.Debit = total
	return combined
}

func (s *Session) recordFeedback(result MatchResult, accepted bool) {
	if s.tracker == nil {
		return
	}
	ev := learning.Event{
		Timestamp:       time.Now().UTC(),
		BankDescription: result.Bank.Description,
		GLAccount:       result.GL.AccountNumber,
		GLDescription:   result.GL.Description,
		Amount:          result.Bank.Amount,
	}
	var err error
	if accepted {
		err = s.tracker.Accept(ev)
	} else {
		err = s.tracker.Deny(ev)
	}
	if err != nil {
		// Feedback is advisory; a storage hiccup must not undo a
		// committed match.
		s.logger.Warn("failed to record feedback", "error", err)
	}
}

func (s *Session) learningRecord() (*learning.Record, error) {
	if s.tracker == nil {
		return nil, nil
	}
	return s.tracker.Current()
}

// validateIndexes checks bounds and duplicates before any mutation.
func validateIndexes(indexes []int, length int) error {
	seen := make(map[int]bool, len(indexes))
	for _, i := range indexes {
		if i < 0 || i >= length {
			return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, length)
		}
		if seen[i] {
			return fmt.Errorf("%w: duplicate index %d", ErrIndexOutOfRange, i)
		}
		seen[i] = true
	}
	return nil
}

// removeBank deletes the given indexes from the unmatched bank set,
// highest first so earlier indexes stay valid.
func (s *Session) removeBank(indexes []int) {
	for _, i := range sortedDesc(indexes) {
		s.unmatchedBank = append(s.unmatchedBank[:i], s.unmatchedBank[i+1:]...)
	}
}

func (s *Session) removeGL(indexes []int) {
	for _, i := range sortedDesc(indexes) {
		s.unmatchedGL = append(s.unmatchedGL[:i], s.unmatchedGL[i+1:]...)
	}
}

func sortedDesc(indexes []int) []int {
	out := append([]int(nil), indexes...)
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}
