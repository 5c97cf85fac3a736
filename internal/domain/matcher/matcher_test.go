package matcher

import (
	"testing"
	"time"

	"github.com/eshaffer321/bankrecon/internal/domain/records"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func bankTx(desc, check, amount string) records.BankTransaction {
	date := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	amt := dec(amount)
	return records.BankTransaction{
		Date:        &date,
		Description: desc,
		CheckNumber: check,
		Amount:      amt,
		AmountDebit: amt,
		IsDebit:     true,
	}
}

func glEntry(account, amount string) records.GLEntry {
	amt := dec(amount)
	return records.GLEntry{
		AccountNumber: account,
		Debit:         amt,
		Amount:        amt,
	}
}

func TestMatcher_CheckNumberMatch(t *testing.T) {
	// Arrange: check number digits present in the GL account number and an
	// exact amount with zero tolerance.
	m := NewMatcher(Config{AmountTolerance: decimal.Zero, DateRangeDays: 5})
	bank := []records.BankTransaction{bankTx("Check 4412", "4412", "500.00")}
	gl := []records.GLEntry{glEntry("4412", "500.00")}

	result := m.Run(bank, gl)

	require.Len(t, result.Matches, 1)
	assert.Equal(t, "Check #", result.Matches[0].Type)
	assert.GreaterOrEqual(t, result.Matches[0].Score, 0.8)
	assert.Empty(t, result.UnmatchedBank)
	assert.Empty(t, result.UnmatchedGL)
}

func TestMatcher_AmountWithinOnePercent(t *testing.T) {
	m := NewMatcher(DefaultConfig())
	bank := []records.BankTransaction{bankTx("wire", "", "1000.00")}
	gl := []records.GLEntry{glEntry("1200", "1005.00")}

	result := m.Run(bank, gl)

	// 0.5*0.8 amount + 0.1 flat date = 0.5, not strictly above threshold.
	assert.Empty(t, result.Matches)
	assert.Len(t, result.UnmatchedBank, 1)
	assert.Len(t, result.UnmatchedGL, 1)
}

func TestMatcher_ExactAmountMatches(t *testing.T) {
	m := NewMatcher(DefaultConfig())
	bank := []records.BankTransaction{bankTx("wire transfer", "", "1000.00")}
	gl := []records.GLEntry{glEntry("1200", "1000.00")}

	result := m.Run(bank, gl)

	require.Len(t, result.Matches, 1)
	assert.Equal(t, "Exact Amount", result.Matches[0].Type)
	assert.InDelta(t, 0.6, result.Matches[0].Score, 1e-9)
}

func TestMatcher_NoDateWindowMeansAmountAloneIsNotEnough(t *testing.T) {
	m := NewMatcher(Config{AmountTolerance: decimal.NewFromFloat(0.01), DateRangeDays: 0})
	bank := []records.BankTransaction{bankTx("wire", "", "1000.00")}
	gl := []records.GLEntry{glEntry("1200", "1000.00")}

	result := m.Run(bank, gl)

	// Amount sub-score alone is exactly the threshold, which must be
	// strictly exceeded.
	assert.Empty(t, result.Matches)
}

func TestMatcher_GreedyFirstFit_ClaimsAreExclusive(t *testing.T) {
	m := NewMatcher(DefaultConfig())
	bank := []records.BankTransaction{
		bankTx("first", "", "500.00"),
		bankTx("second", "", "500.00"),
	}
	gl := []records.GLEntry{glEntry("100", "500.00")}

	result := m.Run(bank, gl)

	require.Len(t, result.Matches, 1)
	assert.Equal(t, "first", result.Matches[0].Bank.Description, "bank order wins")
	require.Len(t, result.UnmatchedBank, 1)
	assert.Equal(t, "second", result.UnmatchedBank[0].Description)
}

func TestMatcher_TieResolvesToFirstGLEntry(t *testing.T) {
	m := NewMatcher(DefaultConfig())
	bank := []records.BankTransaction{bankTx("payment", "", "500.00")}
	gl := []records.GLEntry{glEntry("100", "500.00"), glEntry("200", "500.00")}

	result := m.Run(bank, gl)

	require.Len(t, result.Matches, 1)
	assert.Equal(t, "100", result.Matches[0].GL.AccountNumber)
}

func TestMatcher_NoDoubleClaim(t *testing.T) {
	m := NewMatcher(DefaultConfig())
	bank := []records.BankTransaction{
		bankTx("a", "", "100.00"),
		bankTx("b", "", "200.00"),
		bankTx("c", "", "975.00"),
	}
	gl := []records.GLEntry{
		glEntry("10", "200.00"),
		glEntry("20", "100.00"),
		glEntry("30", "555.55"),
	}

	result := m.Run(bank, gl)

	// Union of matched and unmatched equals the inputs, no duplicates.
	assert.Equal(t, len(bank), len(result.Matches)+len(result.UnmatchedBank))
	assert.Equal(t, len(gl), len(result.Matches)+len(result.UnmatchedGL))

	seenGL := map[string]bool{}
	for _, match := range result.Matches {
		assert.False(t, seenGL[match.GL.AccountNumber])
		seenGL[match.GL.AccountNumber] = true
	}
	for _, entry := range result.UnmatchedGL {
		assert.False(t, seenGL[entry.AccountNumber])
		seenGL[entry.AccountNumber] = true
	}
}

func TestMatcher_Deterministic(t *testing.T) {
	m := NewMatcher(DefaultConfig())
	bank := []records.BankTransaction{
		bankTx("a", "", "100.00"),
		bankTx("b", "4412", "500.00"),
		bankTx("c", "", "200.00"),
	}
	gl := []records.GLEntry{
		glEntry("4412", "500.00"),
		glEntry("20", "100.00"),
		glEntry("30", "200.00"),
	}

	first := m.Run(bank, gl)
	second := m.Run(bank, gl)

	assert.Equal(t, first, second)
}

func TestScoreAmount_Monotonic(t *testing.T) {
	m := NewMatcher(DefaultConfig())
	source := dec("1000.00")

	prev := m.scoreAmount(source, source)
	assert.Equal(t, weightAmount, prev, "identical amounts earn full weight")

	for _, target := range []string{"1000.005", "1005.00", "1100.00", "2000.00"} {
		score := m.scoreAmount(source, dec(target))
		assert.LessOrEqual(t, score, prev, "score must not increase as the difference grows (target %s)", target)
		prev = score
	}
}
