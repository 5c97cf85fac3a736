package records

import (
	"log/slog"
	"strings"

	"github.com/eshaffer321/bankrecon/internal/domain/normalize"
	"github.com/eshaffer321/bankrecon/internal/domain/schema"
)

// GL transaction types that are ledger bookkeeping artifacts rather than
// externally reconcilable movements.
var excludedGLTypes = map[string]bool{
	"opening balance": true,
	"expenditure":     true,
}

// BuildGLEntries converts raw rows into canonical GL entries. Rows without
// an account number are discarded, as are summary rows ("total", "report")
// and internal journal counter-entries (see excludedGLTypes).
func BuildGLEntries(rows [][]string, layout schema.Layout, logger *slog.Logger) []GLEntry {
	if logger == nil {
		logger = slog.Default()
	}

	out := make([]GLEntry, 0, len(rows))
	for i := layout.DataStart; i < len(rows); i++ {
		row := rows[i]
		if isBlankRow(row) {
			continue
		}

		entry, ok := glFromColumns(row, layout.Columns, i)
		if !ok {
			logger.Debug("skipping non-transaction GL row", "row", i)
			continue
		}
		out = append(out, entry)
	}
	return out
}

func glFromColumns(row []string, cols schema.ColumnMap, sourceRow int) (GLEntry, bool) {
	account := strings.TrimSpace(cell(row, cols.AccountNumber))
	if account == "" {
		return GLEntry{}, false
	}

	lowered := strings.ToLower(account)
	if strings.Contains(lowered, "total") || strings.Contains(lowered, "report") {
		return GLEntry{}, false
	}

	entryType := strings.TrimSpace(cell(row, cols.Type))
	if excludedGLTypes[strings.ToLower(entryType)] {
		return GLEntry{}, false
	}

	entry := GLEntry{
		AccountNumber:      account,
		Description:        strings.TrimSpace(cell(row, cols.Description)),
		AccountDescription: strings.TrimSpace(cell(row, cols.AccountDescription)),
		Type:               entryType,
		Date:               parseDateCell(cell(row, cols.Date)),
		Debit:              normalize.ParseAmount(cell(row, cols.Debit)).Abs(),
		Credit:             normalize.ParseAmount(cell(row, cols.Credit)).Abs(),
		CheckNumber:        strings.TrimSpace(cell(row, cols.CheckNumber)),
		RefNumber:          strings.TrimSpace(cell(row, cols.RefNumber)),
		BeginBalance:       normalize.ParseAmount(cell(row, cols.BeginBalance)),
		EndingBalance:      normalize.ParseAmount(cell(row, cols.EndingBalance)),
		SourceRow:          sourceRow,
	}

	// Check-register exports put the amount in a single column.
	if entry.Debit.IsZero() && entry.Credit.IsZero() && cols.Amount >= 0 {
		amount := normalize.ParseAmount(cell(row, cols.Amount))
		if amount.IsNegative() {
			entry.Credit = amount.Abs()
		} else {
			entry.Debit = amount
		}
	}

	if entry.Debit.IsPositive() {
		entry.Amount = entry.Debit
	} else {
		entry.Amount = entry.Credit
	}

	// References buried in free text.
	if entry.CheckNumber == "" {
		entry.CheckNumber = ExtractGLCheckNumber(entry.Description)
	}
	entry.PONumber = ExtractPONumber(entry.Description)

	return entry, true
}
