package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionType_IsValid(t *testing.T) {
	for _, txType := range []TransactionType{TypeBuy, TypeSell, TypeDividend, TypeExpense, TypeIncome} {
		assert.True(t, txType.IsValid(), txType)
	}
	assert.False(t, TransactionType("SHORT").IsValid())
	assert.False(t, TransactionType("").IsValid())
	assert.False(t, TransactionType("buy").IsValid(), "types are case sensitive")
}

func TestTransactionType_IsCashFlow(t *testing.T) {
	assert.True(t, TypeExpense.IsCashFlow())
	assert.True(t, TypeIncome.IsCashFlow())
	assert.False(t, TypeBuy.IsCashFlow())
	assert.False(t, TypeSell.IsCashFlow())
	assert.False(t, TypeDividend.IsCashFlow())
}

func TestTransaction_Validate(t *testing.T) {
	valid := Transaction{
		ID:       "tx-1",
		Date:     "2025-06-10",
		Symbol:   "VTI",
		Type:     TypeBuy,
		Quantity: 10,
		Price:    100,
	}
	require.NoError(t, valid.Validate())

	missingID := valid
	missingID.ID = ""
	assert.ErrorIs(t, missingID.Validate(), ErrMissingID)

	badType := valid
	badType.Type = "SHORT"
	assert.ErrorIs(t, badType.Validate(), ErrInvalidType)

	missingSymbol := valid
	missingSymbol.Symbol = ""
	assert.ErrorIs(t, missingSymbol.Validate(), ErrMissingSymbol)

	badDate := valid
	badDate.Date = "June 10th"
	assert.ErrorIs(t, badDate.Validate(), ErrInvalidDate)
}

func TestTransaction_Validate_NoAmountChecks(t *testing.T) {
	// Negative or zero amounts pass validation; they fold arithmetically
	tx := Transaction{
		ID:       "tx-1",
		Date:     "2025-06-10",
		Symbol:   "VTI",
		Type:     TypeBuy,
		Quantity: -5,
		Price:    0,
	}
	assert.NoError(t, tx.Validate())
}

func TestParseDate(t *testing.T) {
	d, ok := ParseDate("2025-06-10")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), d)

	d, ok = ParseDate("2025-06-10T15:04:05Z")
	require.True(t, ok)
	assert.Equal(t, 15, d.Hour())

	_, ok = ParseDate("10/06/2025")
	assert.False(t, ok)
}

func TestSortForDisplay(t *testing.T) {
	txs := []Transaction{
		{ID: "c", Date: "2025-06-10"},
		{ID: "a", Date: "2025-06-01"},
		{ID: "b", Date: "2025-06-10"},
		{ID: "d", Date: "2025-05-20"},
	}

	sorted := SortForDisplay(txs)

	ids := make([]string, len(sorted))
	for i, tx := range sorted {
		ids[i] = tx.ID
	}
	// Date ascending; same-day ties id descending
	assert.Equal(t, []string{"d", "a", "c", "b"}, ids)

	// Input order untouched
	assert.Equal(t, "c", txs[0].ID)
}

func TestTransaction_InMonth(t *testing.T) {
	tx := Transaction{ID: "tx-1", Date: "2025-06-10", Symbol: "VTI", Type: TypeBuy}
	assert.True(t, tx.InMonth(2025, time.June))
	assert.False(t, tx.InMonth(2025, time.May))
	assert.False(t, tx.InMonth(2024, time.June))

	bad := Transaction{Date: "not-a-date"}
	assert.False(t, bad.InMonth(2025, time.June))
}
