package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/eshaffer321/bankrecon/internal/application/recon"
	"github.com/eshaffer321/bankrecon/internal/domain/normalize"
	"github.com/eshaffer321/bankrecon/internal/domain/records"
)

// PrintHeader prints the application header
func PrintHeader(bankFile, glFile string) {
	fmt.Printf("bankrecon: %s vs %s\n", filepath.Base(bankFile), filepath.Base(glFile))
}

// PrintSummary prints the reconciliation result summary
func PrintSummary(session *recon.Session, bankCount, glCount int) {
	matched := session.Matched()
	unmatchedBank := session.UnmatchedBank()
	unmatchedGL := session.UnmatchedGL()

	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("Summary: Bank=%d GL=%d Matched=%d UnmatchedBank=%d UnmatchedGL=%d\n",
		bankCount, glCount, len(matched), len(unmatchedBank), len(unmatchedGL))

	if len(matched) > 0 {
		fmt.Println("\nMatched:")
		for _, m := range matched {
			fmt.Printf("  %-50s %12s  %s (%.0f%%)\n",
				truncate(m.Bank.Description, 50),
				normalize.FormatCurrency(m.Bank.Amount),
				m.MatchType,
				m.Score*100)
		}
	}

	if len(unmatchedBank) > 0 {
		fmt.Println("\nUnmatched bank transactions:")
		for _, tx := range unmatchedBank {
			fmt.Printf("  %-50s %12s\n", truncate(tx.Description, 50), normalize.FormatCurrency(tx.Amount))
		}
	}

	if len(unmatchedGL) > 0 {
		fmt.Println("\nUnmatched GL entries:")
		for _, entry := range unmatchedGL {
			fmt.Printf("  %-12s %-40s %12s\n",
				entry.AccountNumber,
				truncate(entry.Description, 40),
				normalize.FormatCurrency(entry.Amount))
		}
	}
}

// PrintSuggestions prints ranked smart match candidates for every
// unmatched bank transaction.
func PrintSuggestions(session *recon.Session) {
	unmatched := session.UnmatchedBank()
	if len(unmatched) == 0 {
		return
	}

	fmt.Println("\nSuggestions:")
	gl := session.UnmatchedGL()
	for i, tx := range unmatched {
		suggestions, err := session.Suggestions(recon.SideBank, i)
		if err != nil || len(suggestions) == 0 {
			continue
		}

		fmt.Printf("  %s %s\n", truncate(tx.Description, 50), normalize.FormatCurrency(tx.Amount))
		for _, s := range suggestions {
			var parts []string
			for _, idx := range s.Indexes {
				parts = append(parts, fmt.Sprintf("%s %s",
					gl[idx].AccountNumber,
					normalize.FormatCurrency(gl[idx].Amount)))
			}
			fmt.Printf("    %3.0f%%  %s", s.Score*100, strings.Join(parts, " + "))
			if len(s.Reasons) > 0 {
				fmt.Printf("  [%s]", strings.Join(s.Reasons, ", "))
			}
			fmt.Println()
		}
	}
}

// reportPayload is the JSON export shape
type reportPayload struct {
	Matched       []recon.MatchResult       `json:"matched"`
	UnmatchedBank []records.BankTransaction `json:"unmatched_bank"`
	UnmatchedGL   []records.GLEntry         `json:"unmatched_gl"`
}

// WriteResults writes the session state to a .json or .csv file
func WriteResults(path string, session *recon.Session) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return writeJSON(path, session)
	case ".csv":
		return writeCSV(path, session)
	}
	return fmt.Errorf("unsupported output format %q", filepath.Ext(path))
}

func writeJSON(path string, session *recon.Session) error {
	payload := reportPayload{
		Matched:       session.Matched(),
		UnmatchedBank: session.UnmatchedBank(),
		UnmatchedGL:   session.UnmatchedGL(),
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func writeCSV(path string, session *recon.Session) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"status", "match_type", "score", "bank_date", "bank_description", "bank_amount", "gl_account", "gl_description", "gl_amount"}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, m := range session.Matched() {
		row := []string{
			"matched",
			m.MatchType,
			fmt.Sprintf("%.2f", m.Score),
			formatDate(m.Bank.Date),
			m.Bank.Description,
			m.Bank.Amount.StringFixed(2),
			m.GL.AccountNumber,
			m.GL.Description,
			m.GL.Amount.StringFixed(2),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	for _, tx := range session.UnmatchedBank() {
		row := []string{"unmatched_bank", "", "", formatDate(tx.Date), tx.Description, tx.Amount.StringFixed(2), "", "", ""}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	for _, entry := range session.UnmatchedGL() {
		row := []string{"unmatched_gl", "", "", formatDate(entry.Date), "", "", entry.AccountNumber, entry.Description, entry.Amount.StringFixed(2)}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
