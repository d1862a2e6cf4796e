package advisory

import (
	"fmt"
	"time"

	"github.com/samantha-blablabla/MyVault-sub000/internal/budget"
	"github.com/samantha-blablabla/MyVault-sub000/internal/ledger"
)

// Status grades a month's spending mix against the plan
type Status string

const (
	StatusGood    Status = "good"
	StatusWarning Status = "warning"
	StatusAlert   Status = "alert"
)

// MonthBreakdown aggregates one calendar month of the ledger into the three
// plan categories. Savings is a residual, not a tracked category.
type MonthBreakdown struct {
	Label   string  `json:"month"`
	Needs   float64 `json:"needs"`
	Invest  float64 `json:"invest"`
	Savings float64 `json:"savings"`
}

// Outflow is the total the month allocated across all three categories.
func (m *MonthBreakdown) Outflow() float64 {
	return m.Needs + m.Invest + m.Savings
}

// Summary is the qualitative verdict on the most recent completed month.
type Summary struct {
	Status    Status  `json:"status"`
	Message   string  `json:"message"`
	Action    string  `json:"action,omitempty"`
	Month     string  `json:"month"`
	NeedsPct  float64 `json:"needsPct"`
	InvestPct float64 `json:"investPct"`
}

// MonthlyHistory builds a 6-month trailing window of category aggregates,
// oldest first and ending with the current month. EXPENSE increases needs,
// INCOME decreases it, BUY increases invest by price*quantity. Savings is
// whatever income is left, floored at zero.
func MonthlyHistory(txs []ledger.Transaction, monthlyIncome float64, now time.Time) []MonthBreakdown {
	const window = 6

	history := make([]MonthBreakdown, window)
	index := make(map[string]*MonthBreakdown, window)
	for i := 0; i < window; i++ {
		m := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, i-window+1, 0)
		history[i].Label = m.Format("Jan")
		index[m.Format("2006-01")] = &history[i]
	}

	for i := range txs {
		tx := &txs[i]
		d, ok := ledger.ParseDate(tx.Date)
		if !ok {
			continue
		}
		m, ok := index[d.Format("2006-01")]
		if !ok {
			continue
		}
		switch tx.Type {
		case ledger.TypeExpense:
			m.Needs += tx.Price
		case ledger.TypeIncome:
			m.Needs -= tx.Price
		case ledger.TypeBuy:
			m.Invest += tx.Price * tx.Quantity
		}
	}

	for i := range history {
		if s := monthlyIncome - history[i].Needs - history[i].Invest; s > 0 {
			history[i].Savings = s
		}
	}

	return history
}

// Summarize compares the second-to-last month's actual needs/invest share of
// outflow against the planned percentages. Returns nil when fewer than two
// months of history exist or the reference month moved nothing (zero-outflow
// guard). The check order is significant: alert wins over warning, warning
// over the frugality case.
func Summarize(history []MonthBreakdown, rules budget.Rules) *Summary {
	if len(history) < 2 {
		return nil
	}

	ref := history[len(history)-2]
	outflow := ref.Outflow()
	if outflow == 0 {
		return nil
	}

	needsPct := ref.Needs / outflow * 100
	investPct := ref.Invest / outflow * 100

	s := &Summary{
		Month:     ref.Label,
		NeedsPct:  needsPct,
		InvestPct: investPct,
	}

	switch {
	case needsPct > rules.Needs+10:
		s.Status = StatusAlert
		s.Message = fmt.Sprintf("Spending in %s ran %.0f%% of outflow against a %.0f%% plan.", ref.Label, needsPct, rules.Needs)
		s.Action = "Cut back on non-essential spending this month."
	case investPct < rules.Invest-5:
		s.Status = StatusWarning
		s.Message = fmt.Sprintf("Investing in %s was %.0f%% of outflow, below the %.0f%% plan.", ref.Label, investPct, rules.Invest)
		s.Action = "Consider topping up your investments."
	case needsPct < rules.Needs-10:
		s.Status = StatusGood
		s.Message = fmt.Sprintf("Nice frugality: %s spending came in well under plan at %.0f%%.", ref.Label, needsPct)
	default:
		s.Status = StatusGood
		s.Message = fmt.Sprintf("%s tracked the plan. Keep it up.", ref.Label)
	}

	return s
}
