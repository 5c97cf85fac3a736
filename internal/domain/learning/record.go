// Package learning accumulates accept/deny feedback from smart match
// decisions and feeds a bounded bias back into candidate scoring.
//
// Feedback is keyed along three pattern dimensions: bank description to GL
// account, amount bucket to GL account, and bank description to GL
// description. The bias contribution is squashed through tanh and clamped
// so no amount of history can override the primary signals.
package learning

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

const (
	// RecordVersion is bumped when the serialized shape changes.
	RecordVersion = 1

	// MaxFeedbackLog caps the retained feedback events; oldest entries
	// are evicted first.
	MaxFeedbackLog = 200

	// BiasClamp bounds the total learned contribution to a match score.
	BiasClamp = 0.10

	// tanhGain controls how quickly a pattern's net accept count
	// saturates its contribution.
	tanhGain = 0.25
)

// Per-dimension weights of the bias. They sum to BiasClamp so a fully
// saturated record tops out exactly at the clamp.
const (
	weightDescAccount = 0.05
	weightAmtAccount  = 0.03
	weightDescDesc    = 0.02
)

// Counts tracks accept/deny totals for one pattern key.
type Counts struct {
	Accepted int `json:"accepted"`
	Denied   int `json:"denied"`
}

func (c Counts) net() int { return c.Accepted - c.Denied }

// Event is one accept or deny decision.
type Event struct {
	Timestamp       time.Time       `json:"timestamp"`
	Accepted        bool            `json:"accepted"`
	BankDescription string          `json:"bank_description"`
	GLAccount       string          `json:"gl_account"`
	GLDescription   string          `json:"gl_description"`
	Amount          decimal.Decimal `json:"amount"`
}

// Record is the versioned learning state for one identity. It is created
// empty on first use, mutated only by Apply, and never deleted by the
// engine.
type Record struct {
	Version     int               `json:"version"`
	DescAccount map[string]Counts `json:"desc_account"`
	AmtAccount  map[string]Counts `json:"amt_account"`
	DescDesc    map[string]Counts `json:"desc_desc"`
	Feedback    []Event           `json:"feedback"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// NewRecord returns an empty record stamped with the current version.
func NewRecord() *Record {
	now := time.Now().UTC()
	return &Record{
		Version:     RecordVersion,
		DescAccount: make(map[string]Counts),
		AmtAccount:  make(map[string]Counts),
		DescDesc:    make(map[string]Counts),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Apply folds one accept/deny event into all three pattern tables and the
// bounded feedback log.
func (r *Record) Apply(ev Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}

	bump := func(table map[string]Counts, key string) {
		if key == "" {
			return
		}
		c := table[key]
		if ev.Accepted {
			c.Accepted++
		} else {
			c.Denied++
		}
		table[key] = c
	}

	bump(r.DescAccount, pairKey(NormalizeDescription(ev.BankDescription), ev.GLAccount))
	bump(r.AmtAccount, pairKey(AmountBucket(ev.Amount), ev.GLAccount))
	bump(r.DescDesc, pairKey(NormalizeDescription(ev.BankDescription), NormalizeDescription(ev.GLDescription)))

	r.Feedback = append(r.Feedback, ev)
	if len(r.Feedback) > MaxFeedbackLog {
		r.Feedback = r.Feedback[len(r.Feedback)-MaxFeedbackLog:]
	}
	r.UpdatedAt = time.Now().UTC()
}

// Bias returns the learned score adjustment for a candidate pairing,
// clamped to [-BiasClamp, +BiasClamp].
func (r *Record) Bias(bankDesc, glAccount, glDesc string, amount decimal.Decimal) float64 {
	contribution := func(table map[string]Counts, key string, weight float64) float64 {
		if key == "" {
			return 0
		}
		c, ok := table[key]
		if !ok {
			return 0
		}
		return math.Tanh(float64(c.net())*tanhGain) * weight
	}

	bias := contribution(r.DescAccount, pairKey(NormalizeDescription(bankDesc), glAccount), weightDescAccount) +
		contribution(r.AmtAccount, pairKey(AmountBucket(amount), glAccount), weightAmtAccount) +
		contribution(r.DescDesc, pairKey(NormalizeDescription(bankDesc), NormalizeDescription(glDesc)), weightDescDesc)

	if bias > BiasClamp {
		return BiasClamp
	}
	if bias < -BiasClamp {
		return -BiasClamp
	}
	return bias
}

func pairKey(a, b string) string {
	if a == "" || b == "" {
		return ""
	}
	return a + "|" + b
}

// NormalizeDescription lowercases, strips non-alphanumerics, and collapses
// whitespace so "ACME *Payment 0152" and "acme payment" key together.
func NormalizeDescription(s string) string {
	var b strings.Builder
	lastSpace := true
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r):
			b.WriteRune(r)
			lastSpace = false
		case unicode.IsSpace(r) || unicode.IsDigit(r) || unicode.IsPunct(r) || unicode.IsSymbol(r):
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// AmountBucket groups an amount into a coarse magnitude band so feedback on
// $487.50 also informs $492.00. Bands are the leading digit at the
// amount's order of magnitude: "400-500", "1000-2000", "0-10".
func AmountBucket(amount decimal.Decimal) string {
	v := amount.Abs().InexactFloat64()
	switch {
	case v < 10:
		return "0-10"
	case v < 100:
		lo := int(v/10) * 10
		return bucketLabel(lo, lo+10)
	case v < 1000:
		lo := int(v/100) * 100
		return bucketLabel(lo, lo+100)
	case v < 10000:
		lo := int(v/1000) * 1000
		return bucketLabel(lo, lo+1000)
	default:
		lo := int(v/10000) * 10000
		return bucketLabel(lo, lo+10000)
	}
}

func bucketLabel(lo, hi int) string {
	return strconv.Itoa(lo) + "-" + strconv.Itoa(hi)
}
