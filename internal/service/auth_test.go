package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"perpusum-backend/internal/domain"
	"perpusum-backend/internal/security"
)

func newAuthFixture(t *testing.T) (AuthService, security.TokenManager) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("rahasia-admin"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &fakeAdminRepo{admins: map[string]*domain.Admin{
		"admin@perpusum.local": {
			ID:           1,
			Email:        "admin@perpusum.local",
			PasswordHash: string(hash),
			Name:         "Admin Perpus",
		},
	}}
	tokens := security.NewTokenManager("test-secret-at-least-32-characters!!", time.Hour)
	return NewAuthService(repo, tokens), tokens
}

func TestLoginSuccess(t *testing.T) {
	svc, tokens := newAuthFixture(t)

	token, admin, err := svc.Login(context.Background(), "admin@perpusum.local", "rahasia-admin")
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.Equal(t, int32(1), admin.ID)

	claims, err := tokens.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, int32(1), claims.AdminID)
	assert.Equal(t, "admin@perpusum.local", claims.Email)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, _, err := svc.Login(context.Background(), "admin@perpusum.local", "salah")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginUnknownEmailSameError(t *testing.T) {
	svc, _ := newAuthFixture(t)

	// A missing account and a wrong password are indistinguishable.
	_, _, err := svc.Login(context.Background(), "nobody@perpusum.local", "rahasia-admin")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginMissingCredentials(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, _, err := svc.Login(context.Background(), "", "")
	var vErr *domain.ValidationError
	assert.ErrorAs(t, err, &vErr)
}
