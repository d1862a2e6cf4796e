package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/samantha-blablabla/MyVault-sub000/internal/platform/user"
)

// AuthServiceInterface defines the interface for owner authentication
type AuthServiceInterface interface {
	Authenticate(email, password string) (*user.Owner, error)
}

// JWTServiceInterface defines the interface for JWT operations
type JWTServiceInterface interface {
	GenerateToken(ownerID uuid.UUID, email string) (string, error)
	RefreshToken(tokenString string) (string, error)
}

// AuthHandler handles authentication-related HTTP requests. The vault has a
// single owner configured at startup, so there is no registration endpoint.
type AuthHandler struct {
	authService AuthServiceInterface
	jwtService  JWTServiceInterface
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService AuthServiceInterface, jwtService JWTServiceInterface) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		jwtService:  jwtService,
	}
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse represents the authentication response
type AuthResponse struct {
	Token string     `json:"token"`
	Owner *OwnerInfo `json:"owner,omitempty"`
}

// OwnerInfo represents owner information (without sensitive data)
type OwnerInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Login handles owner login (POST /auth/login)
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Email == "" {
		respondError(w, "email is required", http.StatusBadRequest)
		return
	}

	if req.Password == "" {
		respondError(w, "password is required", http.StatusBadRequest)
		return
	}

	owner, err := h.authService.Authenticate(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			respondError(w, "invalid email or password", http.StatusUnauthorized)
			return
		}
		respondError(w, "failed to login", http.StatusInternalServerError)
		return
	}

	token, err := h.jwtService.GenerateToken(owner.ID, owner.Email)
	if err != nil {
		respondError(w, "failed to generate token", http.StatusInternalServerError)
		return
	}

	respondJSON(w, AuthResponse{
		Token: token,
		Owner: &OwnerInfo{
			ID:    owner.ID.String(),
			Email: owner.Email,
		},
	}, http.StatusOK)
}

// Refresh exchanges a still-valid token for a fresh one (POST /auth/refresh).
// The route sits behind the JWT middleware, so the token has already been
// validated once by the time we get here.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		respondError(w, "invalid authorization header format", http.StatusUnauthorized)
		return
	}

	token, err := h.jwtService.RefreshToken(parts[1])
	if err != nil {
		respondError(w, "invalid or expired token", http.StatusUnauthorized)
		return
	}

	respondJSON(w, AuthResponse{Token: token}, http.StatusOK)
}
