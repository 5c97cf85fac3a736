// Package schema infers the shape of raw tabular exports.
//
// Uploads arrive as bare cell grids with no guaranteed header row: some
// banks prepend report metadata, one feed uses a timestamp-coded compound
// field instead of columns, and some exports have no header at all. Detect
// walks a fixed ladder of strategies, from metadata skipping through header
// keyword classification down to a per-row data heuristic, and always comes
// back with a usable Layout. Classification is best effort: an ambiguous
// header can land on the wrong role, which is why the rules live in one
// ordered table (see rules.go) instead of scattered conditionals.
package schema

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/eshaffer321/bankrecon/internal/domain/normalize"
)

// Kind labels the overall shape of a detected export.
type Kind string

const (
	KindUnknown       Kind = "unknown"
	KindBank          Kind = "bank"
	KindBankCoded     Kind = "bank-coded"
	KindGL            Kind = "gl"
	KindCheckRegister Kind = "check-register"
)

// Layout describes where the data lives in a raw row grid.
type Layout struct {
	Kind      Kind
	HeaderRow int // -1 when no header was found
	DataStart int
	Columns   ColumnMap
	// Heuristic marks the last-resort layout: no header, fields located
	// per row by cell content.
	Heuristic bool
}

const (
	maxMetadataRows = 10
	maxHeaderScan   = 20
)

var metadataKeywords = []string{"account", "date range", "report", "statement"}

// codedRowPattern recognizes the headerless feed whose first cell packs
// everything into one timestamp-prefixed compound field.
var codedRowPattern = regexp.MustCompile(`^\d{14}\[`)

// Detect infers the layout of a raw row grid. It never fails: when no
// header can be found the returned layout is marked Heuristic and callers
// extract fields per row with HeuristicCells.
func Detect(rows [][]string) Layout {
	layout := Layout{Kind: KindUnknown, HeaderRow: -1, Columns: NewColumnMap()}

	start := skipMetadata(rows)
	layout.DataStart = start
	if start >= len(rows) {
		layout.Heuristic = true
		return layout
	}

	if len(rows[start]) > 0 && codedRowPattern.MatchString(strings.TrimSpace(rows[start][0])) {
		layout.Kind = KindBankCoded
		return layout
	}

	end := start + maxHeaderScan
	if end > len(rows) {
		end = len(rows)
	}
	for i := start; i < end; i++ {
		kind := classifyHeader(rows[i])
		if kind == KindUnknown {
			continue
		}
		layout.Kind = kind
		layout.HeaderRow = i
		layout.DataStart = i + 1
		layout.Columns = MapColumns(rows[i])
		return layout
	}

	layout.Heuristic = true
	return layout
}

// skipMetadata returns the index of the first row that is not leading
// report metadata. Metadata rows have at most one populated cell and either
// are blank or mention a report keyword.
func skipMetadata(rows [][]string) int {
	limit := maxMetadataRows
	if limit > len(rows) {
		limit = len(rows)
	}
	for i := 0; i < limit; i++ {
		populated, first := populatedCells(rows[i])
		if populated > 1 {
			return i
		}
		if populated == 1 && !containsAny(strings.ToLower(first), metadataKeywords) {
			return i
		}
	}
	return limit
}

// classifyHeader decides whether a row is a header and for which feed.
// A header needs more than one populated cell plus the keyword groups the
// four known export families use.
func classifyHeader(row []string) Kind {
	populated, _ := populatedCells(row)
	if populated <= 1 {
		return KindUnknown
	}
	joined := strings.ToLower(strings.Join(row, " "))

	hasDate := strings.Contains(joined, "date")
	hasDebitOrCredit := strings.Contains(joined, "debit") || strings.Contains(joined, "credit")

	switch {
	case hasDate && (strings.Contains(joined, "amount") || hasDebitOrCredit):
		return KindBank
	case strings.Contains(joined, "account") &&
		(strings.Contains(joined, "number") || strings.Contains(joined, "description")):
		return KindGL
	case strings.Contains(joined, "check") &&
		(strings.Contains(joined, "vendor") || strings.Contains(joined, "amount") || strings.Contains(joined, "payee")):
		return KindCheckRegister
	case hasDebitOrCredit && (hasDate || strings.Contains(joined, "description")):
		return KindGL
	}
	return KindUnknown
}

// HeuristicCells locates the date, amount, and description cells of a data
// row when no header exists: the first cell that parses as a date (literal
// or Excel serial), the cell with the largest non-zero amount, and the
// longest cell that is neither numeric nor a date.
func HeuristicCells(row []string) (dateIdx, amountIdx, descIdx int) {
	dateIdx, amountIdx, descIdx = -1, -1, -1
	bestAmount := ""

	for i, cell := range row {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			continue
		}

		if dateIdx == -1 && isDateCell(cell) {
			dateIdx = i
			continue
		}

		if amt, ok := normalize.ParseAmountOK(cell); ok && looksNumeric(cell) {
			if !amt.IsZero() {
				if amountIdx == -1 || amt.Abs().GreaterThan(normalize.ParseAmount(bestAmount).Abs()) {
					amountIdx = i
					bestAmount = cell
				}
			}
			continue
		}

		if descIdx == -1 || len(cell) > len(strings.TrimSpace(row[descIdx])) {
			descIdx = i
		}
	}
	return dateIdx, amountIdx, descIdx
}

func isDateCell(cell string) bool {
	if normalize.IsValidDate(cell) {
		return true
	}
	if v, err := strconv.ParseFloat(cell, 64); err == nil {
		_, ok := normalize.ParseExcelSerial(v)
		return ok
	}
	return false
}

// looksNumeric guards against free text that happens to contain digits
// ("Check 4412 rent") being claimed as an amount cell.
func looksNumeric(cell string) bool {
	for _, r := range cell {
		switch {
		case r >= '0' && r <= '9':
		case r == '.' || r == ',' || r == '-' || r == '(' || r == ')' || r == '$' || r == ' ':
		default:
			return false
		}
	}
	return true
}

func populatedCells(row []string) (count int, first string) {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			if count == 0 {
				first = strings.TrimSpace(cell)
			}
			count++
		}
	}
	return count, first
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
