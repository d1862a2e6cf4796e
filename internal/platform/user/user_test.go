package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOwner(t *testing.T) {
	owner, err := NewOwner("admin@myvault.local", "correct-horse")
	require.NoError(t, err)

	assert.Equal(t, "admin@myvault.local", owner.Email)
	assert.NotEmpty(t, owner.PasswordHash)
	assert.NotContains(t, owner.PasswordHash, "correct-horse")
}

func TestNewOwner_Validation(t *testing.T) {
	_, err := NewOwner("not-an-email", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = NewOwner("admin@myvault.local", "short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestService_Authenticate(t *testing.T) {
	owner, err := NewOwner("admin@myvault.local", "correct-horse")
	require.NoError(t, err)
	svc := NewService(owner)

	got, err := svc.Authenticate("admin@myvault.local", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, owner.ID, got.ID)
}

func TestService_Authenticate_WrongPassword(t *testing.T) {
	owner, err := NewOwner("admin@myvault.local", "correct-horse")
	require.NoError(t, err)
	svc := NewService(owner)

	_, err = svc.Authenticate("admin@myvault.local", "wrong-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Authenticate_WrongEmail(t *testing.T) {
	owner, err := NewOwner("admin@myvault.local", "correct-horse")
	require.NoError(t, err)
	svc := NewService(owner)

	// Same error for unknown email as for a wrong password
	_, err = svc.Authenticate("somebody@else.local", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
