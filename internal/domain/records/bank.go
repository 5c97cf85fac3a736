package records

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/eshaffer321/bankrecon/internal/domain/normalize"
	"github.com/eshaffer321/bankrecon/internal/domain/schema"
	"github.com/shopspring/decimal"
)

// BuildBankTransactions converts raw rows into canonical bank transactions
// using the detected layout. Rows without a resolvable date are skipped:
// they are metadata, totals, or noise, not transactions.
func BuildBankTransactions(rows [][]string, layout schema.Layout, logger *slog.Logger) []BankTransaction {
	if logger == nil {
		logger = slog.Default()
	}

	out := make([]BankTransaction, 0, len(rows))
	for i := layout.DataStart; i < len(rows); i++ {
		row := rows[i]
		if isBlankRow(row) {
			continue
		}

		var tx BankTransaction
		var ok bool
		switch {
		case layout.Kind == schema.KindBankCoded:
			tx, ok = bankFromCoded(row, i)
		case layout.Heuristic:
			tx, ok = bankFromHeuristic(row, i)
		default:
			tx, ok = bankFromColumns(row, layout.Columns, i)
		}
		if !ok {
			logger.Debug("skipping non-transaction bank row", "row", i)
			continue
		}
		out = append(out, tx)
	}
	return out
}

func bankFromColumns(row []string, cols schema.ColumnMap, sourceRow int) (BankTransaction, bool) {
	date := parseDateCell(cell(row, cols.Date))
	if date == nil {
		return BankTransaction{}, false
	}

	tx := BankTransaction{
		Date:        date,
		Description: cell(row, cols.Description),
		Memo:        cell(row, cols.Memo),
		Balance:     normalize.ParseAmount(cell(row, cols.Balance)),
		CheckNumber: strings.TrimSpace(cell(row, cols.CheckNumber)),
		SourceRow:   sourceRow,
	}

	// Banks sometimes encode debits as negative values inside the debit
	// column, so both sides go through abs().
	credit := normalize.ParseAmount(cell(row, cols.Credit)).Abs()
	debit := normalize.ParseAmount(cell(row, cols.Debit)).Abs()

	switch {
	case !credit.IsZero() && !debit.IsZero():
		// Both populated: net them into a single direction.
		net := credit.Sub(debit)
		if net.IsNegative() {
			debit, credit = net.Abs(), decimal.Zero
		} else {
			credit, debit = net, decimal.Zero
		}
	case credit.IsZero() && debit.IsZero() && cols.Amount >= 0:
		// Single signed amount column: sign carries direction.
		amount := normalize.ParseAmount(cell(row, cols.Amount))
		if amount.IsNegative() {
			debit = amount.Abs()
		} else {
			credit = amount
		}
	}

	tx.AmountCredit = credit
	tx.AmountDebit = debit
	finishBank(&tx)
	return tx, !tx.Amount.IsZero() || tx.Description != ""
}

func bankFromCoded(row []string, sourceRow int) (BankTransaction, bool) {
	if len(row) == 0 {
		return BankTransaction{}, false
	}
	f, ok := schema.DecodeCodedField(row[0])
	if !ok {
		return BankTransaction{}, false
	}

	date := f.Timestamp.Truncate(24 * time.Hour)
	tx := BankTransaction{
		Date:        &date,
		Description: f.Description,
		CheckNumber: f.CheckNumber,
		SourceRow:   sourceRow,
	}
	if f.IsDebit {
		tx.AmountDebit = f.Amount
	} else {
		tx.AmountCredit = f.Amount
	}
	finishBank(&tx)
	return tx, true
}

func bankFromHeuristic(row []string, sourceRow int) (BankTransaction, bool) {
	dateIdx, amountIdx, descIdx := schema.HeuristicCells(row)
	if dateIdx == -1 || amountIdx == -1 {
		return BankTransaction{}, false
	}

	date := parseDateCell(row[dateIdx])
	if date == nil {
		return BankTransaction{}, false
	}

	tx := BankTransaction{Date: date, SourceRow: sourceRow}
	if descIdx >= 0 {
		tx.Description = strings.TrimSpace(row[descIdx])
	}

	amount := normalize.ParseAmount(row[amountIdx])
	if amount.IsNegative() {
		tx.AmountDebit = amount.Abs()
	} else {
		tx.AmountCredit = amount
	}
	finishBank(&tx)
	return tx, true
}

// finishBank derives the invariant fields: Amount is the non-negative
// magnitude, IsDebit the direction, and a check number is recovered from
// free text when no column supplied one.
func finishBank(tx *BankTransaction) {
	if tx.AmountDebit.GreaterThan(tx.AmountCredit) {
		tx.Amount = tx.AmountDebit
		tx.IsDebit = true
	} else {
		tx.Amount = tx.AmountCredit
	}

	if tx.CheckNumber == "" {
		tx.CheckNumber = ExtractBankCheckNumber(tx.Description + " " + tx.Memo)
	}
}

// parseDateCell accepts literal dates and Excel serials, returning nil when
// the cell holds neither.
func parseDateCell(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if t, ok := normalize.ParseDate(raw); ok {
		return &t
	}
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		if t, ok := normalize.ParseExcelSerial(v); ok {
			return &t
		}
	}
	return nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
