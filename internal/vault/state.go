package vault

import (
	"time"

	"github.com/samantha-blablabla/MyVault-sub000/internal/advisory"
	"github.com/samantha-blablabla/MyVault-sub000/internal/budget"
	"github.com/samantha-blablabla/MyVault-sub000/internal/goals"
	"github.com/samantha-blablabla/MyVault-sub000/internal/ledger"
	"github.com/samantha-blablabla/MyVault-sub000/internal/portfolio"
)

// State is the raw user-owned state. Commands replace whole collections
// (copy-on-write) so previously handed-out snapshots never change under a
// reader.
type State struct {
	Ledger        []ledger.Transaction `json:"ledger"`
	Bills         []budget.FixedBill   `json:"bills"`
	Targets       map[string]float64   `json:"targets"`
	Rules         budget.Rules         `json:"rules"`
	MonthlyIncome float64              `json:"monthlyIncome"`
	SeededSpent   map[string]float64   `json:"seededSpent"`
	Goals         []goals.Goal         `json:"goals"`
	ShoppingPlan  *goals.ShoppingPlan  `json:"shoppingPlan,omitempty"`
	PrivacyMode   bool                 `json:"privacyMode"`
}

// defaultState seeds a fresh vault
func defaultState() State {
	return State{
		Targets:     make(map[string]float64),
		Rules:       budget.DefaultRules(),
		SeededSpent: make(map[string]float64),
	}
}

// Snapshot is the raw state plus every derived view, computed synchronously
// after each command.
type Snapshot struct {
	State

	Holdings  []portfolio.Holding       `json:"holdings"`
	Budget    budget.Overview           `json:"budget"`
	History   []advisory.MonthBreakdown `json:"history"`
	Advisory  *advisory.Summary         `json:"advisory,omitempty"`
	DerivedAt time.Time                 `json:"derivedAt"`
}

// symbols collects every symbol the portfolio derivation will touch:
// anything traded plus anything with a target.
func (s *State) symbols() []string {
	seen := make(map[string]bool)
	var out []string
	for i := range s.Ledger {
		tx := &s.Ledger[i]
		if tx.Type.IsCashFlow() || seen[tx.Symbol] {
			continue
		}
		seen[tx.Symbol] = true
		out = append(out, tx.Symbol)
	}
	for sym := range s.Targets {
		if !seen[sym] {
			seen[sym] = true
			out = append(out, sym)
		}
	}
	return out
}

func cloneTransactions(txs []ledger.Transaction) []ledger.Transaction {
	out := make([]ledger.Transaction, len(txs))
	copy(out, txs)
	return out
}

func cloneBills(bills []budget.FixedBill) []budget.FixedBill {
	out := make([]budget.FixedBill, len(bills))
	copy(out, bills)
	return out
}

func cloneGoals(gs []goals.Goal) []goals.Goal {
	out := make([]goals.Goal, len(gs))
	copy(out, gs)
	return out
}

func cloneTargets(targets map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(targets))
	for k, v := range targets {
		out[k] = v
	}
	return out
}
