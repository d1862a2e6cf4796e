package budget

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samantha-blablabla/MyVault-sub000/internal/ledger"
)

func expense(id, date string, amount float64) ledger.Transaction {
	return ledger.Transaction{ID: id, Date: date, Symbol: ledger.SymbolExpense, Type: ledger.TypeExpense, Quantity: 1, Price: amount}
}

func income(id, date string, amount float64) ledger.Transaction {
	return ledger.Transaction{ID: id, Date: date, Symbol: ledger.SymbolIncome, Type: ledger.TypeIncome, Quantity: 1, Price: amount}
}

func TestNeedsSpent_IncomeOffsetsExpenses(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	txs := []ledger.Transaction{
		expense("tx-1", "2025-06-03", 500000),
		income("tx-2", "2025-06-10", 200000),
	}

	assert.InDelta(t, 300000, NeedsSpent(txs, now), 1e-9)
}

func TestNeedsSpent_IgnoresOtherMonthsAndTypes(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	txs := []ledger.Transaction{
		expense("tx-1", "2025-05-31", 100000), // previous month
		expense("tx-2", "2024-06-15", 100000), // previous year, same month
		{ID: "tx-3", Date: "2025-06-05", Symbol: "VTI", Type: ledger.TypeBuy, Quantity: 2, Price: 100},
		expense("tx-4", "2025-06-20", 75000),
	}

	assert.InDelta(t, 75000, NeedsSpent(txs, now), 1e-9)
}

func TestNeedsSpent_CanGoNegative(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	txs := []ledger.Transaction{
		expense("tx-1", "2025-06-03", 100000),
		income("tx-2", "2025-06-10", 400000),
	}

	assert.InDelta(t, -300000, NeedsSpent(txs, now), 1e-9)
}

// Overspending never produces a negative daily figure; the raw deficit is
// surfaced separately.
func TestDailySpendable_FlooredAtZero(t *testing.T) {
	now := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)

	daily, remaining, days := DailySpendable(6500000, 7000000, nil, now)

	assert.Zero(t, daily)
	assert.InDelta(t, -500000, remaining, 1e-9)
	assert.Equal(t, 20, days)
}

func TestDailySpendable_UnpaidBillsReduceBudget(t *testing.T) {
	now := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)
	bills := []FixedBill{
		{ID: "b-1", Name: "Rent", Amount: 1000000, DueDay: 1, IsPaid: false},
		{ID: "b-2", Name: "Power", Amount: 200000, DueDay: 20, IsPaid: true},
	}

	// June has 30 days, so 20 remain after the 10th.
	daily, remaining, days := DailySpendable(3000000, 500000, bills, now)

	assert.Equal(t, 20, days)
	assert.InDelta(t, 1500000, remaining, 1e-9)
	assert.InDelta(t, 75000, daily, 1e-9)
}

// On the last day of the month the divisor clamps to one day.
func TestDailySpendable_LastDayOfMonth(t *testing.T) {
	now := time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)

	daily, _, days := DailySpendable(300000, 0, nil, now)

	assert.Equal(t, 1, days)
	assert.InDelta(t, 300000, daily, 1e-9)
}

func TestDeriveStats_NestedBuckets(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	txs := []ledger.Transaction{
		expense("tx-1", "2025-06-15", 100), // today: day+week+month+year
		expense("tx-2", "2025-06-12", 200), // same ISO week, month, year
		expense("tx-3", "2025-06-01", 400), // same month and year only
		expense("tx-4", "2025-02-01", 800), // same year only
		expense("tx-5", "2024-06-15", 1600), // other year entirely
		income("tx-6", "2025-06-15", 9999),  // income never counts
	}

	stats := DeriveStats(txs, now)

	assert.InDelta(t, 100, stats.Day, 1e-9)
	assert.InDelta(t, 300, stats.Week, 1e-9)
	assert.InDelta(t, 700, stats.Month, 1e-9)
	assert.InDelta(t, 1500, stats.Year, 1e-9)
}

func TestDerive_Overview(t *testing.T) {
	now := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)
	txs := []ledger.Transaction{
		expense("tx-1", "2025-06-03", 500000),
		income("tx-2", "2025-06-05", 200000),
	}
	bills := []FixedBill{{ID: "b-1", Name: "Rent", Amount: 1000000, DueDay: 1}}
	seeded := map[string]float64{CategoryInvest: 250000}

	ov := Derive(txs, DefaultRules(), 10000000, bills, seeded, now)

	require.Len(t, ov.Categories, 3)
	needs := ov.Categories[0]
	assert.Equal(t, CategoryNeeds, needs.ID)
	assert.InDelta(t, 5000000, needs.Allocated, 1e-9)
	assert.InDelta(t, 300000, needs.Spent, 1e-9)

	assert.InDelta(t, 250000, ov.Categories[1].Spent, 1e-9, "seeded invest spent carries through")
	assert.Zero(t, ov.Categories[2].Spent)

	assert.InDelta(t, 3700000, ov.Remaining, 1e-9)
	assert.False(t, ov.OverBudget)
	assert.InDelta(t, 185000, ov.DailySpendable, 1e-9)
	assert.InDelta(t, 1000000, ov.UnpaidBills, 1e-9)
}

func TestRules_Validate(t *testing.T) {
	assert.NoError(t, DefaultRules().Validate())
	assert.Error(t, Rules{Needs: 50, Invest: 30, Savings: 10}.Validate())
	assert.Error(t, Rules{Needs: 120, Invest: -40, Savings: 20}.Validate())
}

func TestFixedBill_Validate(t *testing.T) {
	b := FixedBill{ID: "b-1", Name: "Rent", Amount: 100, DueDay: 1}
	assert.NoError(t, b.Validate())

	b.DueDay = 32
	assert.Error(t, b.Validate())

	b.DueDay = 0
	assert.Error(t, b.Validate())
}
