package schema

import (
	"strings"
	"time"

	"github.com/eshaffer321/bankrecon/internal/domain/normalize"
	"github.com/shopspring/decimal"
)

// CodedField is the decoded form of the timestamp-coded compound cell used
// by the headerless bank feed: timestamp*amount*flag*checknumber*description,
// with the 14-digit timestamp closed by a '['.
type CodedField struct {
	Timestamp   time.Time
	Amount      decimal.Decimal
	IsDebit     bool
	CheckNumber string
	Description string
}

// DecodeCodedField parses one compound cell. The second return is false
// when the cell does not carry the coded shape.
func DecodeCodedField(cell string) (CodedField, bool) {
	cell = strings.TrimSpace(cell)
	if !codedRowPattern.MatchString(cell) {
		return CodedField{}, false
	}

	ts, err := time.Parse("20060102150405", cell[:14])
	if err != nil {
		return CodedField{}, false
	}

	payload := strings.TrimPrefix(cell[14:], "[")
	payload = strings.TrimSuffix(payload, "]")
	parts := strings.SplitN(payload, "*", 4)
	if len(parts) < 2 {
		return CodedField{}, false
	}

	f := CodedField{Timestamp: ts}
	f.Amount = normalize.ParseAmount(parts[0])
	if f.Amount.IsNegative() {
		f.IsDebit = true
		f.Amount = f.Amount.Abs()
	}

	flag := strings.ToUpper(strings.TrimSpace(parts[1]))
	if flag == "D" || flag == "DR" || flag == "DEBIT" {
		f.IsDebit = true
	}

	if len(parts) > 2 {
		f.CheckNumber = strings.TrimSpace(parts[2])
	}
	if len(parts) > 3 {
		f.Description = strings.TrimSpace(parts[3])
	}
	return f, true
}
