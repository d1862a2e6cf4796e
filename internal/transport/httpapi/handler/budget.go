package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/samantha-blablabla/MyVault-sub000/internal/budget"
	"github.com/samantha-blablabla/MyVault-sub000/internal/vault"
)

// BudgetVault defines the vault operations needed by BudgetHandler
type BudgetVault interface {
	Snapshot() vault.Snapshot
	SetBudgetRules(ctx context.Context, rules budget.Rules) (vault.Snapshot, error)
	SetMonthlyIncome(ctx context.Context, income float64) (vault.Snapshot, error)
	UpsertBill(ctx context.Context, bill budget.FixedBill) (vault.Snapshot, error)
	DeleteBill(ctx context.Context, id string) (vault.Snapshot, error)
	ToggleBillPaid(ctx context.Context, id string) (vault.Snapshot, error)
}

// BudgetHandler handles budget-related HTTP requests
type BudgetHandler struct {
	vault BudgetVault
}

// NewBudgetHandler creates a new budget handler
func NewBudgetHandler(v BudgetVault) *BudgetHandler {
	return &BudgetHandler{vault: v}
}

// BudgetResponse represents the budget view
type BudgetResponse struct {
	Overview      budget.Overview    `json:"overview"`
	Rules         budget.Rules       `json:"rules"`
	MonthlyIncome float64            `json:"monthlyIncome"`
	Bills         []budget.FixedBill `json:"bills"`
}

// SetRulesRequest represents the budget rules request body
type SetRulesRequest struct {
	Needs   float64 `json:"needs"`
	Invest  float64 `json:"invest"`
	Savings float64 `json:"savings"`
}

// SetIncomeRequest represents the monthly income request body
type SetIncomeRequest struct {
	Amount float64 `json:"amount"`
}

// BillRequest represents a bill create/update request body
type BillRequest struct {
	ID       string  `json:"id,omitempty"`
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
	DueDay   int     `json:"dueDay"`
	IsPaid   bool    `json:"isPaid"`
	Category string  `json:"category,omitempty"`
}

// GetBudget handles GET /budget
func (h *BudgetHandler) GetBudget(w http.ResponseWriter, r *http.Request) {
	snap := h.vault.Snapshot()
	respondJSON(w, BudgetResponse{
		Overview:      snap.Budget,
		Rules:         snap.Rules,
		MonthlyIncome: snap.MonthlyIncome,
		Bills:         snap.Bills,
	}, http.StatusOK)
}

// SetRules handles PUT /budget/rules
func (h *BudgetHandler) SetRules(w http.ResponseWriter, r *http.Request) {
	var req SetRulesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	snap, err := h.vault.SetBudgetRules(r.Context(), budget.Rules{
		Needs:   req.Needs,
		Invest:  req.Invest,
		Savings: req.Savings,
	})
	if err != nil {
		respondVaultError(w, err)
		return
	}

	respondJSON(w, toSnapshotView(snap), http.StatusOK)
}

// SetIncome handles PUT /budget/income
func (h *BudgetHandler) SetIncome(w http.ResponseWriter, r *http.Request) {
	var req SetIncomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	snap, err := h.vault.SetMonthlyIncome(r.Context(), req.Amount)
	if err != nil {
		respondVaultError(w, err)
		return
	}

	respondJSON(w, toSnapshotView(snap), http.StatusOK)
}

// CreateBill handles POST /budget/bills
func (h *BudgetHandler) CreateBill(w http.ResponseWriter, r *http.Request) {
	var req BillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	bill := billFromRequest(req)
	if bill.ID == "" {
		bill.ID = uuid.New().String()
	}

	snap, err := h.vault.UpsertBill(r.Context(), bill)
	if err != nil {
		respondVaultError(w, err)
		return
	}

	respondJSON(w, toSnapshotView(snap), http.StatusCreated)
}

// UpdateBill handles PUT /budget/bills/{id}
func (h *BudgetHandler) UpdateBill(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, "bill ID is required", http.StatusBadRequest)
		return
	}

	var req BillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	bill := billFromRequest(req)
	bill.ID = id

	snap, err := h.vault.UpsertBill(r.Context(), bill)
	if err != nil {
		respondVaultError(w, err)
		return
	}

	respondJSON(w, toSnapshotView(snap), http.StatusOK)
}

// DeleteBill handles DELETE /budget/bills/{id}
func (h *BudgetHandler) DeleteBill(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, "bill ID is required", http.StatusBadRequest)
		return
	}

	snap, err := h.vault.DeleteBill(r.Context(), id)
	if err != nil {
		respondVaultError(w, err)
		return
	}

	respondJSON(w, toSnapshotView(snap), http.StatusOK)
}

// ToggleBill handles POST /budget/bills/{id}/toggle
// Flips the paid flag. Paid status never resets automatically at month end.
func (h *BudgetHandler) ToggleBill(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, "bill ID is required", http.StatusBadRequest)
		return
	}

	snap, err := h.vault.ToggleBillPaid(r.Context(), id)
	if err != nil {
		respondVaultError(w, err)
		return
	}

	respondJSON(w, toSnapshotView(snap), http.StatusOK)
}

func billFromRequest(req BillRequest) budget.FixedBill {
	category := req.Category
	if category == "" {
		category = budget.CategoryNeeds
	}
	return budget.FixedBill{
		ID:       req.ID,
		Name:     req.Name,
		Amount:   req.Amount,
		DueDay:   req.DueDay,
		IsPaid:   req.IsPaid,
		Category: category,
	}
}
