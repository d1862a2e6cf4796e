package handler

import (
	"time"

	"github.com/samantha-blablabla/MyVault-sub000/internal/advisory"
	"github.com/samantha-blablabla/MyVault-sub000/internal/budget"
	"github.com/samantha-blablabla/MyVault-sub000/internal/goals"
	"github.com/samantha-blablabla/MyVault-sub000/internal/ledger"
	"github.com/samantha-blablabla/MyVault-sub000/internal/portfolio"
	"github.com/samantha-blablabla/MyVault-sub000/internal/vault"
)

// HoldingView is the wire form of a holding. PnLPercent is a pointer so that
// an undefined return (no buys recorded) serializes as null instead of
// breaking the JSON encoder with NaN or Inf.
type HoldingView struct {
	Symbol         string    `json:"symbol"`
	Name           string    `json:"name"`
	Quantity       float64   `json:"quantity"`
	AvgPrice       float64   `json:"avgPrice"`
	CurrentPrice   float64   `json:"currentPrice"`
	TargetQuantity float64   `json:"targetQuantity"`
	MarketValue    float64   `json:"marketValue"`
	PnL            float64   `json:"pnl"`
	PnLPercent     *float64  `json:"pnlPercent"`
	History        []float64 `json:"history,omitempty"`
}

// SnapshotView is the wire form of a vault snapshot: the raw state plus every
// derived view. Commands return it whole so the client never has to refetch.
type SnapshotView struct {
	Ledger        []ledger.Transaction      `json:"ledger"`
	Bills         []budget.FixedBill        `json:"bills"`
	Targets       map[string]float64        `json:"targets"`
	Rules         budget.Rules              `json:"rules"`
	MonthlyIncome float64                   `json:"monthlyIncome"`
	Goals         []goals.Goal              `json:"goals"`
	ShoppingPlan  *goals.ShoppingPlan       `json:"shoppingPlan,omitempty"`
	PrivacyMode   bool                      `json:"privacyMode"`
	Holdings      []HoldingView             `json:"holdings"`
	Budget        budget.Overview           `json:"budget"`
	History       []advisory.MonthBreakdown `json:"history"`
	Advisory      *advisory.Summary         `json:"advisory,omitempty"`
	DerivedAt     time.Time                 `json:"derivedAt"`
}

func toHoldingView(h portfolio.Holding) HoldingView {
	view := HoldingView{
		Symbol:         h.Symbol,
		Name:           h.Name,
		Quantity:       h.Quantity,
		AvgPrice:       h.AvgPrice,
		CurrentPrice:   h.CurrentPrice,
		TargetQuantity: h.TargetQuantity,
		MarketValue:    h.MarketValue,
		PnL:            h.PnL,
		History:        h.History,
	}
	if h.HasDefinedPerformance() {
		pct := h.PnLPercent
		view.PnLPercent = &pct
	}
	return view
}

func toHoldingViews(holdings []portfolio.Holding) []HoldingView {
	views := make([]HoldingView, len(holdings))
	for i, h := range holdings {
		views[i] = toHoldingView(h)
	}
	return views
}

func toSnapshotView(s vault.Snapshot) SnapshotView {
	return SnapshotView{
		Ledger:        ledger.SortForDisplay(s.Ledger),
		Bills:         s.Bills,
		Targets:       s.Targets,
		Rules:         s.Rules,
		MonthlyIncome: s.MonthlyIncome,
		Goals:         s.Goals,
		ShoppingPlan:  s.ShoppingPlan,
		PrivacyMode:   s.PrivacyMode,
		Holdings:      toHoldingViews(s.Holdings),
		Budget:        s.Budget,
		History:       s.History,
		Advisory:      s.Advisory,
		DerivedAt:     s.DerivedAt,
	}
}
