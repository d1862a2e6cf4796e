package user

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Owner is the single principal a vault belongs to. There is no registration
// flow: the owner is configured at startup and its password hashed in memory.
type Owner struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// emailRegex is a simplified RFC 5322 email check
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// NewOwner creates the vault owner from configured credentials
func NewOwner(email, password string) (*Owner, error) {
	if email == "" || !emailRegex.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	if len(password) < 8 {
		return nil, ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return &Owner{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}, nil
}

// CheckPassword checks if the provided password matches the stored hash
func (o *Owner) CheckPassword(password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(o.PasswordHash), []byte(password))
	if err != nil {
		if err == bcrypt.ErrMismatchedHashAndPassword {
			return ErrInvalidCredentials
		}
		return fmt.Errorf("failed to check password: %w", err)
	}
	return nil
}

// Service authenticates requests against the configured owner
type Service struct {
	owner *Owner
}

// NewService creates a new auth service for the vault owner
func NewService(owner *Owner) *Service {
	return &Service{owner: owner}
}

// Authenticate verifies email and password against the owner.
// A wrong email reports the same error as a wrong password.
func (s *Service) Authenticate(email, password string) (*Owner, error) {
	if email != s.owner.Email {
		// Burn a bcrypt comparison so timing does not reveal which field was wrong
		_ = s.owner.CheckPassword(password)
		return nil, ErrInvalidCredentials
	}

	if err := s.owner.CheckPassword(password); err != nil {
		return nil, err
	}

	return s.owner, nil
}

// Owner returns the configured vault owner
func (s *Service) Owner() *Owner {
	return s.owner
}
