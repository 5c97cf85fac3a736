// Package records builds canonical transaction records from raw rows using
// a detected layout. Non-transaction rows (metadata, summary totals,
// internal journal counter-entries) are filtered here, and per-row parse
// anomalies are logged and skipped so a single bad row never aborts a
// batch.
package records

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankTransaction is one line-item from a bank statement export.
//
// Amount is always the non-negative magnitude max(AmountCredit,
// AmountDebit); direction is carried by IsDebit, never by the sign of
// Amount.
type BankTransaction struct {
	Date         *time.Time      `json:"date"`
	Description  string          `json:"description"`
	Memo         string          `json:"memo"`
	AmountCredit decimal.Decimal `json:"amount_credit"`
	AmountDebit  decimal.Decimal `json:"amount_debit"`
	Balance      decimal.Decimal `json:"balance"`
	CheckNumber  string          `json:"check_number"`
	Amount       decimal.Decimal `json:"amount"`
	IsDebit      bool            `json:"is_debit"`
	// SourceRow is the index of the originating raw row, -1 for records
	// that arrived pre-shaped or were synthesized.
	SourceRow int `json:"source_row"`
}

// GLEntry is one line-item from a general-ledger export. AccountNumber is
// required; rows without one are discarded by the builder.
type GLEntry struct {
	AccountNumber      string          `json:"account_number"`
	Description        string          `json:"description"`
	AccountDescription string          `json:"account_description"`
	Type               string          `json:"type"`
	Date               *time.Time      `json:"date"`
	Debit              decimal.Decimal `json:"debit"`
	Credit             decimal.Decimal `json:"credit"`
	Amount             decimal.Decimal `json:"amount"`
	CheckNumber        string          `json:"check_number"`
	RefNumber          string          `json:"ref_number"`
	PONumber           string          `json:"po_number"`
	BeginBalance       decimal.Decimal `json:"begin_balance"`
	EndingBalance      decimal.Decimal `json:"ending_balance"`
	SourceRow          int             `json:"source_row"`
}
