package handler

import (
	"net/http"
	"time"

	"github.com/samantha-blablabla/MyVault-sub000/internal/advisory"
	"github.com/samantha-blablabla/MyVault-sub000/internal/vault"
)

// AdvisoryVault defines the vault operations needed by AdvisoryHandler
type AdvisoryVault interface {
	Snapshot() vault.Snapshot
}

// AdvisoryHandler handles advisory-related HTTP requests
type AdvisoryHandler struct {
	vault AdvisoryVault
}

// NewAdvisoryHandler creates a new advisory handler
func NewAdvisoryHandler(v AdvisoryVault) *AdvisoryHandler {
	return &AdvisoryHandler{vault: v}
}

// AdvisoryResponse represents the advisory view. Summary is null when there
// is not enough closed-month history to judge.
type AdvisoryResponse struct {
	Summary   *advisory.Summary         `json:"summary"`
	History   []advisory.MonthBreakdown `json:"history"`
	DerivedAt time.Time                 `json:"derivedAt"`
}

// GetAdvisory handles GET /advisory
func (h *AdvisoryHandler) GetAdvisory(w http.ResponseWriter, r *http.Request) {
	snap := h.vault.Snapshot()
	respondJSON(w, AdvisoryResponse{
		Summary:   snap.Advisory,
		History:   snap.History,
		DerivedAt: snap.DerivedAt,
	}, http.StatusOK)
}
