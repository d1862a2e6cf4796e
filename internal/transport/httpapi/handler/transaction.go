package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/samantha-blablabla/MyVault-sub000/internal/ledger"
	"github.com/samantha-blablabla/MyVault-sub000/internal/receipt"
	"github.com/samantha-blablabla/MyVault-sub000/internal/vault"
)

// TransactionVault defines the vault operations needed by TransactionHandler
type TransactionVault interface {
	Snapshot() vault.Snapshot
	AppendTransaction(ctx context.Context, tx ledger.Transaction) (vault.Snapshot, error)
	EditTransaction(ctx context.Context, id string, patch vault.TransactionPatch) (vault.Snapshot, error)
	DeleteTransaction(ctx context.Context, id string) (vault.Snapshot, error)
}

// TransactionHandler handles ledger-related HTTP requests
type TransactionHandler struct {
	vault  TransactionVault
	parser receipt.Parser
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(v TransactionVault, parser receipt.Parser) *TransactionHandler {
	return &TransactionHandler{
		vault:  v,
		parser: parser,
	}
}

// CreateTransactionRequest represents the transaction creation request
type CreateTransactionRequest struct {
	ID       string  `json:"id,omitempty"` // generated when absent
	Date     string  `json:"date"`
	Symbol   string  `json:"symbol"`
	Type     string  `json:"type"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
	Notes    string  `json:"notes,omitempty"`
}

// UpdateTransactionRequest carries a partial transaction edit. Only fields
// present in the body are applied.
type UpdateTransactionRequest struct {
	Date     *string  `json:"date,omitempty"`
	Type     *string  `json:"type,omitempty"`
	Quantity *float64 `json:"quantity,omitempty"`
	Price    *float64 `json:"price,omitempty"`
	Notes    *string  `json:"notes,omitempty"`
}

// ScanReceiptRequest represents the receipt scan request
type ScanReceiptRequest struct {
	Text string `json:"text"`
}

// ScanReceiptResponse returns the parsed draft and the expense transaction it
// would become. The client confirms by POSTing the transaction.
type ScanReceiptResponse struct {
	Draft       *receipt.Draft     `json:"draft"`
	Transaction ledger.Transaction `json:"transaction"`
}

// GetTransactions handles GET /transactions
// Returns the ledger sorted for display (date ascending, newest-first within
// a day), not in record order.
func (h *TransactionHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	snap := h.vault.Snapshot()
	respondJSON(w, map[string]interface{}{
		"transactions": ledger.SortForDisplay(snap.Ledger),
		"total":        len(snap.Ledger),
	}, http.StatusOK)
}

// CreateTransaction handles POST /transactions
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	tx := ledger.Transaction{
		ID:       req.ID,
		Date:     req.Date,
		Symbol:   strings.ToUpper(strings.TrimSpace(req.Symbol)),
		Type:     ledger.TransactionType(req.Type),
		Quantity: req.Quantity,
		Price:    req.Price,
		Notes:    req.Notes,
	}
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}

	snap, err := h.vault.AppendTransaction(r.Context(), tx)
	if err != nil {
		respondVaultError(w, err)
		return
	}

	respondJSON(w, toSnapshotView(snap), http.StatusCreated)
}

// UpdateTransaction handles PATCH /transactions/{id}
func (h *TransactionHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, "transaction ID is required", http.StatusBadRequest)
		return
	}

	var req UpdateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	patch := vault.TransactionPatch{
		Date:     req.Date,
		Quantity: req.Quantity,
		Price:    req.Price,
		Notes:    req.Notes,
	}
	if req.Type != nil {
		txType := ledger.TransactionType(*req.Type)
		patch.Type = &txType
	}

	snap, err := h.vault.EditTransaction(r.Context(), id, patch)
	if err != nil {
		respondVaultError(w, err)
		return
	}

	respondJSON(w, toSnapshotView(snap), http.StatusOK)
}

// DeleteTransaction handles DELETE /transactions/{id}
func (h *TransactionHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, "transaction ID is required", http.StatusBadRequest)
		return
	}

	snap, err := h.vault.DeleteTransaction(r.Context(), id)
	if err != nil {
		respondVaultError(w, err)
		return
	}

	respondJSON(w, toSnapshotView(snap), http.StatusOK)
}

// ScanReceipt handles POST /transactions/scan
// Parses free-form receipt text into a draft expense. Nothing is recorded
// until the client confirms the returned transaction.
func (h *TransactionHandler) ScanReceipt(w http.ResponseWriter, r *http.Request) {
	var req ScanReceiptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		respondError(w, "receipt text is required", http.StatusBadRequest)
		return
	}

	draft, err := h.parser.Parse(r.Context(), req.Text)
	if err != nil {
		respondError(w, "failed to parse receipt", http.StatusUnprocessableEntity)
		return
	}

	respondJSON(w, ScanReceiptResponse{
		Draft:       draft,
		Transaction: draft.ToTransaction(),
	}, http.StatusOK)
}
