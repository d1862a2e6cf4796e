package budget

import "fmt"

// Category IDs are fixed: the plan always splits income three ways.
const (
	CategoryNeeds   = "needs"
	CategoryInvest  = "invest"
	CategorySavings = "savings"
)

// Category is one slice of the monthly plan. Allocated is derived from the
// monthly income and the planned percentage. Spent is derived from the ledger
// for needs only; invest and savings keep whatever was seeded.
type Category struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Allocated  float64 `json:"allocated"`
	Spent      float64 `json:"spent"`
	Percentage float64 `json:"percentage"`
}

// FixedBill is a recurring, user-declared monthly obligation. IsPaid is reset
// only by an explicit user toggle; there is no automatic month rollover.
type FixedBill struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
	DueDay   int     `json:"dueDay"`
	IsPaid   bool    `json:"isPaid"`
	Category string  `json:"category"`
}

// Validate checks the bill edit boundary
func (b *FixedBill) Validate() error {
	if b.ID == "" {
		return fmt.Errorf("bill id is required")
	}
	if b.Name == "" {
		return fmt.Errorf("bill name is required")
	}
	if b.DueDay < 1 || b.DueDay > 31 {
		return fmt.Errorf("bill due day must be between 1 and 31, got %d", b.DueDay)
	}
	return nil
}

// Rules is the percentage split of monthly income across the three
// categories. Summing to 100 is enforced at the edit boundary, not as a
// standing invariant of stored state.
type Rules struct {
	Needs   float64 `json:"needs"`
	Invest  float64 `json:"invest"`
	Savings float64 `json:"savings"`
}

// Validate enforces the edit-boundary constraint that the split covers the
// whole income.
func (r Rules) Validate() error {
	if sum := r.Needs + r.Invest + r.Savings; sum != 100 {
		return fmt.Errorf("budget rules must sum to 100, got %g", sum)
	}
	if r.Needs < 0 || r.Invest < 0 || r.Savings < 0 {
		return fmt.Errorf("budget rule percentages must not be negative")
	}
	return nil
}

// DefaultRules is the 50/30/20 split seeded for a fresh vault.
func DefaultRules() Rules {
	return Rules{Needs: 50, Invest: 30, Savings: 20}
}
