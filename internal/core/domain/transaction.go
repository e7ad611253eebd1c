package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType distinguishes money coming in from money going out.
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return t == TransactionIncome || t == TransactionExpense
}

// Transaction is a single ledger entry owned by the signed-in account.
type Transaction struct {
	ID          string          `json:"id"`
	Type        TransactionType `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	CategoryID  string          `json:"categoryId,omitempty"`
}

// TransactionInput is the payload for creating or replacing a transaction.
type TransactionInput struct {
	Type        TransactionType
	Amount      decimal.Decimal
	Description string
	Date        time.Time
	CategoryID  string
}

// TransactionFilter narrows a transaction listing. The zero value lists all.
type TransactionFilter struct {
	Type TransactionType
}

// Summary holds income and expense totals.
type Summary struct {
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
}

// Balance is income minus expense.
func (s Summary) Balance() decimal.Decimal {
	return s.TotalIncome.Sub(s.TotalExpense)
}

// Summarize aggregates totals over txs. Anything that is not income counts as
// an expense.
func Summarize(txs []Transaction) Summary {
	s := Summary{TotalIncome: decimal.Zero, TotalExpense: decimal.Zero}
	for _, tx := range txs {
		if tx.Type == TransactionIncome {
			s.TotalIncome = s.TotalIncome.Add(tx.Amount)
			continue
		}
		s.TotalExpense = s.TotalExpense.Add(tx.Amount)
	}
	return s
}

// TransactionList is the caller-safe result of listing transactions. When
// Success is false, Message explains why and the remaining fields are zero
// valued but non-nil.
type TransactionList struct {
	Success      bool          `json:"success"`
	Message      string        `json:"message,omitempty"`
	Transactions []Transaction `json:"transactions"`
	Summary      Summary       `json:"summary"`
}

// Dashboard is the caller-safe result of the dashboard endpoint. Extra keeps
// any additional top-level fields the server returned.
type Dashboard struct {
	Success            bool                       `json:"success"`
	Message            string                     `json:"message,omitempty"`
	Summary            Summary                    `json:"summary"`
	RecentTransactions []Transaction              `json:"recentTransactions"`
	Extra              map[string]json.RawMessage `json:"-"`
}

// TransactionResult is returned by create and update.
type TransactionResult struct {
	Success     bool
	Message     string
	Transaction *Transaction
	Raw         []byte
}
