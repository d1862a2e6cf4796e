package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/samantha-blablabla/MyVault-sub000/internal/vault"
)

// PortfolioVault defines the vault operations needed by PortfolioHandler
type PortfolioVault interface {
	Snapshot() vault.Snapshot
	SetTarget(ctx context.Context, symbol string, quantity float64) (vault.Snapshot, error)
}

// PortfolioHandler handles portfolio-related HTTP requests
type PortfolioHandler struct {
	vault PortfolioVault
}

// NewPortfolioHandler creates a new portfolio handler
func NewPortfolioHandler(v PortfolioVault) *PortfolioHandler {
	return &PortfolioHandler{vault: v}
}

// PortfolioResponse represents the portfolio view
type PortfolioResponse struct {
	Holdings   []HoldingView      `json:"holdings"`
	Targets    map[string]float64 `json:"targets"`
	TotalValue float64            `json:"totalValue"`
	DerivedAt  time.Time          `json:"derivedAt"`
}

// SetTargetRequest represents the target quantity request body
type SetTargetRequest struct {
	Quantity float64 `json:"quantity"`
}

// GetPortfolio handles GET /portfolio
func (h *PortfolioHandler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	snap := h.vault.Snapshot()

	var total float64
	for _, holding := range snap.Holdings {
		total += holding.MarketValue
	}

	respondJSON(w, PortfolioResponse{
		Holdings:   toHoldingViews(snap.Holdings),
		Targets:    snap.Targets,
		TotalValue: total,
		DerivedAt:  snap.DerivedAt,
	}, http.StatusOK)
}

// SetTarget handles PUT /portfolio/targets/{symbol}
// A quantity of zero or less removes the target.
func (h *PortfolioHandler) SetTarget(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(chi.URLParam(r, "symbol"))
	if symbol == "" {
		respondError(w, "symbol is required", http.StatusBadRequest)
		return
	}

	var req SetTargetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	snap, err := h.vault.SetTarget(r.Context(), symbol, req.Quantity)
	if err != nil {
		respondVaultError(w, err)
		return
	}

	respondJSON(w, toSnapshotView(snap), http.StatusOK)
}
