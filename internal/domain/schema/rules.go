package schema

import "strings"

// Role names a semantic column in a statement or ledger export.
type Role string

const (
	RoleDate               Role = "date"
	RoleDescription        Role = "description"
	RoleMemo               Role = "memo"
	RoleDebit              Role = "debit"
	RoleCredit             Role = "credit"
	RoleAmount             Role = "amount"
	RoleBalance            Role = "balance"
	RoleAccountNumber      Role = "accountNumber"
	RoleAccountDescription Role = "accountDescription"
	RoleCheckNumber        Role = "checkNumber"
	RoleVendor             Role = "vendor"
	RoleType               Role = "type"
	RoleBeginBalance       Role = "beginBalance"
	RoleEndingBalance      Role = "endingBalance"
	RoleRefNumber          Role = "refNumber"
)

// columnRule classifies one header cell. Rules are evaluated in slice order
// and the first match wins, so more specific rules sit above generic ones
// ("account number" above "account description" above "description").
// Keeping this as a flat table makes each rule auditable and testable on
// its own instead of burying the priorities in branching code.
type columnRule struct {
	role Role
	// keywords match as substrings of the lowercased header cell.
	keywords []string
	// exact tokens match only the whole trimmed cell ("dr" must not fire
	// on "description").
	exact []string
	// exclude vetoes the rule when any of these appears in the cell.
	exclude []string
}

var columnRules = []columnRule{
	{role: RoleCheckNumber, keywords: []string{"check #", "check#", "check no", "check num", "chk"}},
	{role: RoleAccountNumber, keywords: []string{"account number", "account #", "account no", "acct"}},
	{role: RoleAccountDescription, keywords: []string{"account description", "account desc", "account name"}},
	{role: RoleBeginBalance, keywords: []string{"begin balance", "beginning balance", "begin bal"}},
	{role: RoleEndingBalance, keywords: []string{"ending balance", "end balance", "end bal"}},
	{role: RoleDate, keywords: []string{"date"}, exclude: []string{"update"}},
	{role: RoleDebit, keywords: []string{"debit", "withdrawal"}, exact: []string{"dr"}},
	{role: RoleCredit, keywords: []string{"credit", "deposit"}, exact: []string{"cr"}},
	{role: RoleBalance, keywords: []string{"balance"}},
	{role: RoleMemo, keywords: []string{"memo", "notes"}},
	{role: RoleVendor, keywords: []string{"vendor", "payee"}},
	// Type, reference, and amount sit above description so "transaction
	// type" and "transaction amount" do not get swallowed by the
	// "transaction" keyword.
	{role: RoleType, keywords: []string{"type"}},
	{role: RoleRefNumber, keywords: []string{"reference", "ref"}},
	{role: RoleAmount, keywords: []string{"amount", "value"}},
	{role: RoleDescription, keywords: []string{"description", "narrative", "details", "particulars", "transaction"}},
	// Bare "check" (as in a check register's first column) classifies as
	// the check number; listed last so the compound forms above win.
	{role: RoleCheckNumber, keywords: []string{"check"}},
	// Bare "account" after the compound account rules failed.
	{role: RoleAccountNumber, keywords: []string{"account"}},
}

func (r columnRule) matches(cell string) bool {
	for _, ex := range r.exclude {
		if strings.Contains(cell, ex) {
			return false
		}
	}
	for _, tok := range r.exact {
		if cell == tok {
			return true
		}
	}
	for _, kw := range r.keywords {
		if strings.Contains(cell, kw) {
			return true
		}
	}
	return false
}

// classifyCell returns the role for a header cell, or "" when no rule fires.
func classifyCell(cell string) Role {
	c := strings.ToLower(strings.TrimSpace(cell))
	if c == "" {
		return ""
	}
	for _, rule := range columnRules {
		if rule.matches(c) {
			return rule.role
		}
	}
	return ""
}

// ColumnMap maps semantic roles to column indexes. -1 means the role is
// absent from the header.
type ColumnMap struct {
	Date               int
	Description        int
	Memo               int
	Debit              int
	Credit             int
	Amount             int
	Balance            int
	AccountNumber      int
	AccountDescription int
	CheckNumber        int
	Vendor             int
	Type               int
	BeginBalance       int
	EndingBalance      int
	RefNumber          int
}

// NewColumnMap returns a ColumnMap with every role absent.
func NewColumnMap() ColumnMap {
	return ColumnMap{
		Date: -1, Description: -1, Memo: -1, Debit: -1, Credit: -1,
		Amount: -1, Balance: -1, AccountNumber: -1, AccountDescription: -1,
		CheckNumber: -1, Vendor: -1, Type: -1, BeginBalance: -1,
		EndingBalance: -1, RefNumber: -1,
	}
}

// MapColumns classifies each header cell and records the first column index
// seen per role.
func MapColumns(header []string) ColumnMap {
	m := NewColumnMap()
	for i, cell := range header {
		switch classifyCell(cell) {
		case RoleDate:
			setIfAbsent(&m.Date, i)
		case RoleDescription:
			setIfAbsent(&m.Description, i)
		case RoleMemo:
			setIfAbsent(&m.Memo, i)
		case RoleDebit:
			setIfAbsent(&m.Debit, i)
		case RoleCredit:
			setIfAbsent(&m.Credit, i)
		case RoleAmount:
			setIfAbsent(&m.Amount, i)
		case RoleBalance:
			setIfAbsent(&m.Balance, i)
		case RoleAccountNumber:
			setIfAbsent(&m.AccountNumber, i)
		case RoleAccountDescription:
			setIfAbsent(&m.AccountDescription, i)
		case RoleCheckNumber:
			setIfAbsent(&m.CheckNumber, i)
		case RoleVendor:
			setIfAbsent(&m.Vendor, i)
		case RoleType:
			setIfAbsent(&m.Type, i)
		case RoleBeginBalance:
			setIfAbsent(&m.BeginBalance, i)
		case RoleEndingBalance:
			setIfAbsent(&m.EndingBalance, i)
		case RoleRefNumber:
			setIfAbsent(&m.RefNumber, i)
		}
	}
	return m
}

func setIfAbsent(field *int, index int) {
	if *field == -1 {
		*field = index
	}
}
