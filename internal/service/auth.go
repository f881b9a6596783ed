package service

import (
	"context"
	"errors"
	"strings"

	"perpusum-backend/internal/domain"
	"perpusum-backend/internal/repository"
	"perpusum-backend/internal/security"

	"golang.org/x/crypto/bcrypt"
)

type authService struct {
	adminRepo repository.AdminRepository
	tokens    security.TokenManager
}

func NewAuthService(adminRepo repository.AdminRepository, tokens security.TokenManager) AuthService {
	return &authService{adminRepo: adminRepo, tokens: tokens}
}

// Login authenticates an admin and returns a signed session token. A missing
// admin and a wrong password produce the same error so the response does not
// reveal which one failed.
func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.Admin, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return "", nil, &domain.ValidationError{Fields: map[string]string{
			"credentials": "Email dan password harus diisi",
		}}
	}

	admin, err := s.adminRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(admin.ID, admin.Email)
	if err != nil {
		return "", nil, err
	}
	return token, admin, nil
}
