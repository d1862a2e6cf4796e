package receipt

import (
	"context"

	"github.com/google/uuid"

	"github.com/samantha-blablabla/MyVault-sub000/internal/ledger"
)

// Draft is the parsed result of a receipt scan before the user confirms it
type Draft struct {
	Merchant string  `json:"merchant"`
	Amount   float64 `json:"amount"`
	Date     string  `json:"date"` // ISO-8601 calendar date
	Notes    string  `json:"notes,omitempty"`
}

// Parser turns free-form receipt text into a draft expense
type Parser interface {
	Parse(ctx context.Context, text string) (*Draft, error)
}

// ToTransaction converts a draft into an EXPENSE ledger record with a fresh
// ID. The draft's merchant becomes the note when none was set.
func (d *Draft) ToTransaction() ledger.Transaction {
	notes := d.Notes
	if notes == "" {
		notes = d.Merchant
	}
	return ledger.Transaction{
		ID:       uuid.New().String(),
		Date:     d.Date,
		Symbol:   ledger.SymbolExpense,
		Type:     ledger.TypeExpense,
		Quantity: 1,
		Price:    d.Amount,
		Notes:    notes,
	}
}
