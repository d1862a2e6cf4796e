package ledger

import (
	"fmt"
	"sort"
	"time"
)

// TransactionType identifies what a ledger record represents
type TransactionType string

const (
	TypeBuy      TransactionType = "BUY"
	TypeSell     TransactionType = "SELL"
	TypeDividend TransactionType = "DIVIDEND"
	TypeExpense  TransactionType = "EXPENSE"
	TypeIncome   TransactionType = "INCOME"
)

// Sentinel symbols used by cash-flow records
const (
	SymbolExpense = "EXP"
	SymbolIncome  = "IN"
)

// IsValid checks if the transaction type is one of the known types
func (t TransactionType) IsValid() bool {
	switch t {
	case TypeBuy, TypeSell, TypeDividend, TypeExpense, TypeIncome:
		return true
	}
	return false
}

// IsCashFlow reports whether the type is a pure cash-flow record.
// Cash-flow records never affect portfolio state.
func (t TransactionType) IsCashFlow() bool {
	return t == TypeExpense || t == TypeIncome
}

// Transaction is a single ledger record.
//
// For EXPENSE/INCOME, Price is the amount, Quantity is conventionally 1 and
// Symbol is a sentinel (EXP/IN). For BUY/SELL/DIVIDEND, Price is the unit
// price and Quantity is the share count.
type Transaction struct {
	ID       string          `json:"id"`
	Date     string          `json:"date"` // ISO-8601
	Symbol   string          `json:"symbol"`
	Type     TransactionType `json:"type"`
	Quantity float64         `json:"quantity"`
	Price    float64         `json:"price"`
	Notes    string          `json:"notes,omitempty"`
}

// Validate checks the append-boundary rules. Amount ranges are deliberately
// not checked: out-of-range values are folded arithmetically downstream.
func (tx *Transaction) Validate() error {
	if tx.ID == "" {
		return ErrMissingID
	}
	if !tx.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, tx.Type)
	}
	if tx.Symbol == "" {
		return ErrMissingSymbol
	}
	if _, ok := ParseDate(tx.Date); !ok {
		return fmt.Errorf("%w: %q", ErrInvalidDate, tx.Date)
	}
	return nil
}

// ParseDate parses an ISO-8601 date string, accepting a full RFC3339
// timestamp or a bare calendar date.
func ParseDate(s string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// SortForDisplay returns a copy of the ledger sorted for display: by date
// ascending, ties broken by id descending. The ledger itself stays in
// insertion order; folding consumers must not use this ordering.
func SortForDisplay(txs []Transaction) []Transaction {
	out := make([]Transaction, len(txs))
	copy(out, txs)
	sort.SliceStable(out, func(i, j int) bool {
		di, _ := ParseDate(out[i].Date)
		dj, _ := ParseDate(out[j].Date)
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

// InMonth reports whether the transaction's date falls in the given
// calendar month and year.
func (tx *Transaction) InMonth(year int, month time.Month) bool {
	d, ok := ParseDate(tx.Date)
	if !ok {
		return false
	}
	return d.Year() == year && d.Month() == month
}
