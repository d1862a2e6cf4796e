package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/samantha-blablabla/MyVault-sub000/internal/ledger"
	apperrors "github.com/samantha-blablabla/MyVault-sub000/internal/shared/errors"
	"github.com/samantha-blablabla/MyVault-sub000/internal/vault"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	respondJSON(w, ErrorResponse{Error: message}, statusCode)
}

// respondVaultError maps vault command errors to HTTP status codes. Vault
// commands only fail on validation or lookup; persistence failures never
// propagate to the caller.
func respondVaultError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		respondError(w, "transaction not found", http.StatusNotFound)
	case errors.Is(err, ledger.ErrDuplicateID):
		respondError(w, "transaction with this id already exists", http.StatusConflict)
	case errors.Is(err, vault.ErrBillNotFound):
		respondError(w, "bill not found", http.StatusNotFound)
	case errors.Is(err, vault.ErrGoalNotFound):
		respondError(w, "goal not found", http.StatusNotFound)
	default:
		if appErr := apperrors.GetAppError(err); appErr != nil {
			respondError(w, appErr.Message, statusForCode(appErr.Code))
			return
		}
		respondError(w, err.Error(), http.StatusBadRequest)
	}
}

func statusForCode(code string) int {
	switch code {
	case apperrors.ErrCodeValidation, apperrors.ErrCodeBadRequest:
		return http.StatusBadRequest
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case apperrors.ErrCodeConflict:
		return http.StatusConflict
	case apperrors.ErrCodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
