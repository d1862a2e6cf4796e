package portfolio

import (
	"math"
	"sort"

	"github.com/samantha-blablabla/MyVault-sub000/internal/ledger"
)

// Holding is the derived position for a single symbol. Holdings are never
// persisted or patched incrementally; they are recomputed in full from the
// ledger on every change.
type Holding struct {
	Symbol         string    `json:"symbol"`
	Name           string    `json:"name"`
	Quantity       float64   `json:"quantity"`
	AvgPrice       float64   `json:"avgPrice"`
	CurrentPrice   float64   `json:"currentPrice"`
	TargetQuantity float64   `json:"targetQuantity"`
	MarketValue    float64   `json:"marketValue"`
	PnL            float64   `json:"pnl"`
	PnLPercent     float64   `json:"pnlPercent"`
	History        []float64 `json:"history,omitempty"`
}

// HasDefinedPerformance reports whether PnLPercent is a real number.
// A holding with no buys has avgPrice 0 and an undefined return; callers
// must render that as "not applicable" rather than NaN or Inf.
func (h *Holding) HasDefinedPerformance() bool {
	return !math.IsNaN(h.PnLPercent) && !math.IsInf(h.PnLPercent, 0)
}

// DeriveHoldings folds the full transaction ledger into per-symbol holdings.
//
// Transactions are folded in ledger order, not chronological order. EXPENSE
// and INCOME records are skipped entirely. A BUY applies the moving-average
// cost rule; SELL and DIVIDEND are accepted as valid types but do not alter
// quantity or average price. Target quantities are re-applied from the target
// map after folding so a target change always wins, and every target-only
// symbol gets a zero-quantity placeholder.
//
// No transaction-level validation happens here: malformed quantities or
// prices are folded arithmetically as-is.
func DeriveHoldings(
	txs []ledger.Transaction,
	prices map[string]float64,
	history map[string][]float64,
	targets map[string]float64,
	names map[string]string,
) []Holding {
	acc := make(map[string]*Holding)
	var order []string

	for i := range txs {
		tx := &txs[i]
		if tx.Type.IsCashFlow() {
			continue
		}

		h, ok := acc[tx.Symbol]
		if !ok {
			h = &Holding{
				Symbol:         tx.Symbol,
				Name:           displayName(names, tx.Symbol),
				CurrentPrice:   prices[tx.Symbol],
				History:        history[tx.Symbol],
				TargetQuantity: targets[tx.Symbol],
			}
			acc[tx.Symbol] = h
			order = append(order, tx.Symbol)
		}

		if tx.Type == ledger.TypeBuy {
			// Moving-average cost: quantity after a BUY is always > 0,
			// so the division is safe.
			newTotalCost := h.Quantity*h.AvgPrice + tx.Quantity*tx.Price
			h.Quantity += tx.Quantity
			h.AvgPrice = newTotalCost / h.Quantity
		}
		// SELL and DIVIDEND intentionally leave quantity and avgPrice
		// untouched; see DESIGN.md.
	}

	holdings := make([]Holding, 0, len(acc)+len(targets))
	for _, sym := range order {
		h := acc[sym]
		h.MarketValue = h.Quantity * h.CurrentPrice
		h.PnL = (h.CurrentPrice - h.AvgPrice) * h.Quantity
		// Divides by zero when avgPrice is 0; the resulting NaN/Inf means
		// "undefined performance" and is mapped out at the transport edge.
		h.PnLPercent = (h.CurrentPrice - h.AvgPrice) / h.AvgPrice * 100
		// A later change to the target map always wins over whatever was
		// captured at first encounter.
		h.TargetQuantity = targets[sym]
		holdings = append(holdings, *h)
	}

	// Placeholders for symbols with a target but no transactions yet.
	extra := make([]string, 0, len(targets))
	for sym := range targets {
		if _, ok := acc[sym]; !ok {
			extra = append(extra, sym)
		}
	}
	sort.Strings(extra)
	for _, sym := range extra {
		holdings = append(holdings, Holding{
			Symbol:         sym,
			Name:           displayName(names, sym),
			CurrentPrice:   prices[sym],
			History:        history[sym],
			TargetQuantity: targets[sym],
			PnLPercent:     math.NaN(),
		})
	}

	return holdings
}

func displayName(names map[string]string, symbol string) string {
	if n, ok := names[symbol]; ok && n != "" {
		return n
	}
	return symbol
}
