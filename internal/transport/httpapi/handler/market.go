package handler

import (
	"context"
	"net/http"

	"github.com/samantha-blablabla/MyVault-sub000/internal/market"
)

// MarketProviderInterface defines the market operations needed by MarketHandler
type MarketProviderInterface interface {
	Signals(ctx context.Context) []market.Signal
	Universe() []string
}

// MarketHandler handles market data HTTP requests
type MarketHandler struct {
	provider MarketProviderInterface
}

// NewMarketHandler creates a new market handler
func NewMarketHandler(provider MarketProviderInterface) *MarketHandler {
	return &MarketHandler{provider: provider}
}

// GetSignals handles GET /market/signals
func (h *MarketHandler) GetSignals(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]interface{}{
		"signals": h.provider.Signals(r.Context()),
	}, http.StatusOK)
}

// GetUniverse handles GET /market/universe
func (h *MarketHandler) GetUniverse(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]interface{}{
		"symbols": h.provider.Universe(),
	}, http.StatusOK)
}
