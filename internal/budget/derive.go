package budget

import (
	"time"

	"github.com/samantha-blablabla/MyVault-sub000/internal/ledger"
)

// Overview is the fully derived budget view for the current month.
type Overview struct {
	Categories     []Category    `json:"categories"`
	DailySpendable float64       `json:"dailySpendable"`
	Remaining      float64       `json:"remaining"` // raw, may be negative
	DaysRemaining  int           `json:"daysRemaining"`
	OverBudget     bool          `json:"overBudget"`
	UnpaidBills    float64       `json:"unpaidBills"`
	Stats          SpendingStats `json:"stats"`
}

// SpendingStats holds EXPENSE totals bucketed around "now". Day, month and
// year are strictly nested: a transaction counts toward year when the year
// matches, additionally toward month when the month also matches, and
// additionally toward day when the day also matches. Week is an independent
// ISO-week match.
type SpendingStats struct {
	Day   float64 `json:"day"`
	Week  float64 `json:"week"`
	Month float64 `json:"month"`
	Year  float64 `json:"year"`
}

// Derive computes the full budget overview from the ledger and the current
// plan. Seeded spent values for invest/savings are carried through untouched.
func Derive(txs []ledger.Transaction, rules Rules, monthlyIncome float64, bills []FixedBill, seeded map[string]float64, now time.Time) Overview {
	needsSpent := NeedsSpent(txs, now)

	categories := []Category{
		{ID: CategoryNeeds, Name: "Needs", Percentage: rules.Needs, Allocated: monthlyIncome * rules.Needs / 100, Spent: needsSpent},
		{ID: CategoryInvest, Name: "Invest", Percentage: rules.Invest, Allocated: monthlyIncome * rules.Invest / 100, Spent: seeded[CategoryInvest]},
		{ID: CategorySavings, Name: "Savings", Percentage: rules.Savings, Allocated: monthlyIncome * rules.Savings / 100, Spent: seeded[CategorySavings]},
	}

	daily, remaining, days := DailySpendable(categories[0].Allocated, needsSpent, bills, now)

	return Overview{
		Categories:     categories,
		DailySpendable: daily,
		Remaining:      remaining,
		DaysRemaining:  days,
		OverBudget:     remaining < 0,
		UnpaidBills:    UnpaidBillsTotal(bills),
		Stats:          SpendingStats{}.add(txs, now),
	}
}

// NeedsSpent folds current-calendar-month cash flow into the needs total:
// EXPENSE adds, INCOME subtracts (income offsets necessary spending within
// the month). The result may be negative.
func NeedsSpent(txs []ledger.Transaction, now time.Time) float64 {
	year, month := now.Year(), now.Month()
	var total float64
	for i := range txs {
		tx := &txs[i]
		if !tx.InMonth(year, month) {
			continue
		}
		switch tx.Type {
		case ledger.TypeExpense:
			total += tx.Price
		case ledger.TypeIncome:
			total -= tx.Price
		}
	}
	return total
}

// UnpaidBillsTotal sums the amounts of bills still marked unpaid.
func UnpaidBillsTotal(bills []FixedBill) float64 {
	var total float64
	for i := range bills {
		if !bills[i].IsPaid {
			total += bills[i].Amount
		}
	}
	return total
}

// DailySpendable computes the discretionary amount per remaining day of the
// current month. The daily figure is floored at zero; callers that need the
// raw deficit read the second return value instead.
func DailySpendable(needsAllocated, needsSpent float64, bills []FixedBill, now time.Time) (daily, remaining float64, daysRemaining int) {
	lastDay := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, now.Location()).Day()

	daysRemaining = lastDay - now.Day()
	if daysRemaining < 1 {
		daysRemaining = 1
	}

	remaining = needsAllocated - needsSpent - UnpaidBillsTotal(bills)
	if remaining > 0 {
		daily = remaining / float64(daysRemaining)
	}
	return daily, remaining, daysRemaining
}

// add accumulates EXPENSE totals in a single pass over the ledger.
func (s SpendingStats) add(txs []ledger.Transaction, now time.Time) SpendingStats {
	nowISOYear, nowISOWeek := now.ISOWeek()

	for i := range txs {
		tx := &txs[i]
		if tx.Type != ledger.TypeExpense {
			continue
		}
		d, ok := ledger.ParseDate(tx.Date)
		if !ok {
			continue
		}

		if d.Year() == now.Year() {
			s.Year += tx.Price
			if d.Month() == now.Month() {
				s.Month += tx.Price
				if d.Day() == now.Day() {
					s.Day += tx.Price
				}
			}
		}

		if isoYear, isoWeek := d.ISOWeek(); isoYear == nowISOYear && isoWeek == nowISOWeek {
			s.Week += tx.Price
		}
	}
	return s
}

// DeriveStats exposes the single-pass spending aggregation on its own.
func DeriveStats(txs []ledger.Transaction, now time.Time) SpendingStats {
	return SpendingStats{}.add(txs, now)
}
