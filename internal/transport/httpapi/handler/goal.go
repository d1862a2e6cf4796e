package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/samantha-blablabla/MyVault-sub000/internal/goals"
	"github.com/samantha-blablabla/MyVault-sub000/internal/vault"
)

// GoalVault defines the vault operations needed by GoalHandler
type GoalVault interface {
	Snapshot() vault.Snapshot
	UpsertGoal(ctx context.Context, goal goals.Goal) (vault.Snapshot, error)
	DeleteGoal(ctx context.Context, id string) (vault.Snapshot, error)
	SetShoppingPlan(ctx context.Context, plan *goals.ShoppingPlan) (vault.Snapshot, error)
	SetPrivacyMode(ctx context.Context, enabled bool) (vault.Snapshot, error)
}

// GoalHandler handles savings goal HTTP requests
type GoalHandler struct {
	vault GoalVault
	now   func() time.Time
}

// NewGoalHandler creates a new goal handler
func NewGoalHandler(v GoalVault) *GoalHandler {
	return &GoalHandler{
		vault: v,
		now:   time.Now,
	}
}

// GoalView pairs a goal with its projection
type GoalView struct {
	goals.Goal
	Projection goals.Projection `json:"projection"`
}

// GoalsResponse represents the goals view
type GoalsResponse struct {
	Goals        []GoalView        `json:"goals"`
	ShoppingPlan *ShoppingPlanView `json:"shoppingPlan,omitempty"`
}

// ShoppingPlanView pairs the shopping plan with its projection. The monthly
// set-aside comes from the savings slice of the budget plan.
type ShoppingPlanView struct {
	goals.ShoppingPlan
	Projection goals.Projection `json:"projection"`
}

// ShoppingPlanRequest represents the shopping plan request body
type ShoppingPlanRequest struct {
	Item  string  `json:"item"`
	Price float64 `json:"price"`
	Saved float64 `json:"saved"`
}

// PrivacyRequest represents the privacy mode request body
type PrivacyRequest struct {
	Enabled bool `json:"enabled"`
}

// GetGoals handles GET /goals
func (h *GoalHandler) GetGoals(w http.ResponseWriter, r *http.Request) {
	snap := h.vault.Snapshot()
	respondJSON(w, h.toGoalsResponse(snap), http.StatusOK)
}

// CreateGoal handles POST /goals
func (h *GoalHandler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	var goal goals.Goal
	if err := json.NewDecoder(r.Body).Decode(&goal); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if goal.ID == "" {
		goal.ID = uuid.New().String()
	}

	snap, err := h.vault.UpsertGoal(r.Context(), goal)
	if err != nil {
		respondVaultError(w, err)
		return
	}

	respondJSON(w, toSnapshotView(snap), http.StatusCreated)
}

// UpdateGoal handles PUT /goals/{id}
func (h *GoalHandler) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, "goal ID is required", http.StatusBadRequest)
		return
	}

	var goal goals.Goal
	if err := json.NewDecoder(r.Body).Decode(&goal); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	goal.ID = id

	snap, err := h.vault.UpsertGoal(r.Context(), goal)
	if err != nil {
		respondVaultError(w, err)
		return
	}

	respondJSON(w, toSnapshotView(snap), http.StatusOK)
}

// DeleteGoal handles DELETE /goals/{id}
func (h *GoalHandler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, "goal ID is required", http.StatusBadRequest)
		return
	}

	snap, err := h.vault.DeleteGoal(r.Context(), id)
	if err != nil {
		respondVaultError(w, err)
		return
	}

	respondJSON(w, toSnapshotView(snap), http.StatusOK)
}

// SetShoppingPlan handles PUT /shopping-plan
func (h *GoalHandler) SetShoppingPlan(w http.ResponseWriter, r *http.Request) {
	var req ShoppingPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Item == "" {
		respondError(w, "item is required", http.StatusBadRequest)
		return
	}
	if req.Price <= 0 {
		respondError(w, "price must be positive", http.StatusBadRequest)
		return
	}

	snap, err := h.vault.SetShoppingPlan(r.Context(), &goals.ShoppingPlan{
		Item:  req.Item,
		Price: req.Price,
		Saved: req.Saved,
	})
	if err != nil {
		respondVaultError(w, err)
		return
	}

	respondJSON(w, toSnapshotView(snap), http.StatusOK)
}

// ClearShoppingPlan handles DELETE /shopping-plan
func (h *GoalHandler) ClearShoppingPlan(w http.ResponseWriter, r *http.Request) {
	snap, err := h.vault.SetShoppingPlan(r.Context(), nil)
	if err != nil {
		respondVaultError(w, err)
		return
	}

	respondJSON(w, toSnapshotView(snap), http.StatusOK)
}

// SetPrivacy handles PUT /settings/privacy
func (h *GoalHandler) SetPrivacy(w http.ResponseWriter, r *http.Request) {
	var req PrivacyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	snap, err := h.vault.SetPrivacyMode(r.Context(), req.Enabled)
	if err != nil {
		respondVaultError(w, err)
		return
	}

	respondJSON(w, toSnapshotView(snap), http.StatusOK)
}

func (h *GoalHandler) toGoalsResponse(snap vault.Snapshot) GoalsResponse {
	now := h.now()

	views := make([]GoalView, len(snap.Goals))
	for i, goal := range snap.Goals {
		views[i] = GoalView{
			Goal:       goal,
			Projection: goal.Project(now),
		}
	}

	resp := GoalsResponse{Goals: views}
	if snap.ShoppingPlan != nil {
		monthlySetAside := snap.MonthlyIncome * snap.Rules.Savings / 100
		resp.ShoppingPlan = &ShoppingPlanView{
			ShoppingPlan: *snap.ShoppingPlan,
			Projection:   snap.ShoppingPlan.Project(monthlySetAside, now),
		}
	}
	return resp
}
