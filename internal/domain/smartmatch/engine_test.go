package smartmatch

import (
	"testing"
	"time"

	"github.com/eshaffer321/bankrecon/internal/domain/learning"
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

func day(d int) *time.Time {
	t := time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func bankTx(desc, check, amount string, date *time.Time) records.BankTransaction {
	amt := dec(amount)
	return records.BankTransaction{
		Date:        date,
		Description: desc,
		CheckNumber: check,
		Amount:      amt,
		AmountDebit: amt,
		IsDebit:     true,
	}
}

func glEntry(account, desc, amount string, date *time.Time) records.GLEntry {
	amt := dec(amount)
	return records.GLEntry{
		AccountNumber: account,
		Description:   desc,
		Date:          date,
		Debit:         amt,
		Amount:        amt,
	}
}

func TestAmountScore_Tiers(t *testing.T) {
	source := dec("1000.00")
	assert.Equal(t, 1.0, amountScore(source, dec("1000.00")))
	assert.Equal(t, 1.0, amountScore(source, dec("1000.01")))
	assert.Equal(t, 0.85, amountScore(source, dec("1008.00")))
	assert.Equal(t, 0.6, amountScore(source, dec("1040.00")))
	assert.Equal(t, 0.3, amountScore(source, dec("1090.00")))
	assert.Equal(t, 0.0, amountScore(source, dec("1200.00")))
}

func TestAmountScore_IdentityAndMonotonic(t *testing.T) {
	for _, s := range []string{"0.50", "45.67", "1234.56", "99999.99"} {
		source := dec(s)
		assert.Equal(t, 1.0, amountScore(source, source), s)
	}

	source := dec("500.00")
	prev := 1.0
	for _, target := range []string{"500.00", "503.00", "520.00", "545.00", "700.00"} {
		score := amountScore(source, dec(target))
		assert.LessOrEqual(t, score, prev, target)
		prev = score
	}
}

func TestTextScore_Jaccard(t *testing.T) {
	assert.Equal(t, 1.0, textScore("ACME Supply Rent", "acme supply rent"))
	assert.Equal(t, 0.0, textScore("completely different", "nothing shared"))

	// Half the union shared: {acme,supply} of {acme,supply,rent,payment}.
	score := textScore("ACME Supply Rent", "ACME Supply Payment")
	assert.InDelta(t, 0.5, score, 1e-9)
}

func TestTextScore_ShortTokensIgnored(t *testing.T) {
	// Tokens of length <= 2 never count.
	assert.Equal(t, 0.0, textScore("to of at", "to of at"))
}

func TestDateScore_Decay(t *testing.T) {
	assert.Equal(t, 1.0, dateScore(day(10), day(10), 5))

	three := dateScore(day(10), day(13), 5)
	seven := dateScore(day(10), day(17), 5)
	assert.Greater(t, three, seven, "score decays with distance")
	assert.Greater(t, three, 0.0)
}

func TestDateScore_MissingDateDefault(t *testing.T) {
	assert.Equal(t, 0.25, dateScore(nil, day(10), 5))
	assert.Equal(t, 0.25, dateScore(day(10), nil, 5))
}

func TestRefScore_Tiers(t *testing.T) {
	tx := bankTx("Check 4412", "4412", "500.00", day(15))

	score, _ := refScore(tx, records.GLEntry{CheckNumber: "4412"})
	assert.Equal(t, 1.0, score)

	score, _ = refScore(tx, records.GLEntry{AccountNumber: "100-4412-9"})
	assert.Equal(t, 0.9, score)

	score, _ = refScore(tx, records.GLEntry{CheckNumber: "994412"})
	assert.Equal(t, 0.6, score)

	po := bankTx("Supplies PO: 88-1234", "", "500.00", day(15))
	score, _ = refScore(po, records.GLEntry{PONumber: "88-1234"})
	assert.Equal(t, 0.8, score)

	score, _ = refScore(bankTx("plain", "", "500.00", day(15)), records.GLEntry{})
	assert.Equal(t, 0.0, score)
}

func TestSuggestForBank_RanksAndTruncates(t *testing.T) {
	e := NewEngine(Config{DateRangeDays: 5})
	source := bankTx("ACME RENT PAYMENT", "", "500.00", day(15))

	candidates := []records.GLEntry{
		glEntry("1000", "utilities", "700.00", day(15)),
		glEntry("2000", "ACME rent payment", "500.00", day(15)),
		glEntry("3000", "misc", "500.00", day(15)),
		glEntry("4000", "ACME rent", "502.00", day(16)),
		glEntry("5000", "something", "500.00", day(25)),
		glEntry("6000", "other", "500.00", nil),
		glEntry("7000", "more", "500.00", nil),
	}

	suggestions := e.SuggestForBank(source, candidates, nil)

	require.NotEmpty(t, suggestions)
	assert.LessOrEqual(t, len(suggestions), 5, "surfaced list is capped at five")
	assert.Equal(t, []int{1}, suggestions[0].Indexes, "exact amount + matching text + same day wins")
	for i := 1; i < len(suggestions); i++ {
		assert.LessOrEqual(t, suggestions[i].Score, suggestions[i-1].Score, "sorted descending")
	}
}

func TestSuggestForBank_ReasonsSurface(t *testing.T) {
	e := NewEngine(Config{DateRangeDays: 5})
	source := bankTx("ACME RENT PAYMENT", "4412", "500.00", day(15))
	candidates := []records.GLEntry{glEntry("4412", "ACME rent payment", "500.00", day(15))}

	suggestions := e.SuggestForBank(source, candidates, nil)

	require.Len(t, suggestions, 1)
	assert.Contains(t, suggestions[0].Reasons, "Exact amount")
	assert.Contains(t, suggestions[0].Reasons, "Similar description")
	assert.Contains(t, suggestions[0].Reasons, "Close date")
}

func TestSuggestForBank_LearningBiasLifts(t *testing.T) {
	e := NewEngine(Config{DateRangeDays: 5})
	source := bankTx("ACME RENT", "", "500.00", day(15))
	candidates := []records.GLEntry{glEntry("4412", "rent expense", "510.00", day(15))}

	record := learning.NewRecord()
	for i := 0; i < 10; i++ {
		record.Apply(learning.Event{
			Accepted:        true,
			BankDescription: "ACME RENT",
			GLAccount:       "4412",
			GLDescription:   "rent expense",
			Amount:          dec("500.00"),
		})
	}

	without := e.SuggestForBank(source, candidates, nil)
	with := e.SuggestForBank(source, candidates, record)

	require.NotEmpty(t, without)
	require.NotEmpty(t, with)
	assert.Greater(t, with[0].Score, without[0].Score)
	assert.LessOrEqual(t, with[0].Score-without[0].Score, learning.BiasClamp+1e-9)
}

func TestSuggestForGL_Direction(t *testing.T) {
	e := NewEngine(Config{DateRangeDays: 5})
	source := glEntry("4412", "ACME rent", "500.00", day(15))
	candidates := []records.BankTransaction{
		bankTx("ACME RENT PAYMENT", "", "500.00", day(15)),
		bankTx("unrelated", "", "9.99", day(2)),
	}

	suggestions := e.SuggestForGL(source, candidates, nil)

	require.NotEmpty(t, suggestions)
	assert.Equal(t, []int{0}, suggestions[0].Indexes)
}

func TestSuggestForBank_BelowFloorDropped(t *testing.T) {
	e := NewEngine(Config{DateRangeDays: 5})
	source := bankTx("wire", "", "500.00", day(15))
	candidates := []records.GLEntry{glEntry("9999", "totally different thing", "9000.00", day(25))}

	suggestions := e.SuggestForBank(source, candidates, nil)
	assert.Empty(t, suggestions)
}
