package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"perpusum-backend/internal/domain"
	"perpusum-backend/internal/repository"
)

type adminRepository struct {
	db *sql.DB
}

func NewAdminRepository(db *sql.DB) repository.AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	admin := &domain.Admin{}
	query := `SELECT id, email, password_hash, name, created_at FROM admins WHERE email = $1`
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&admin.ID, &admin.Email, &admin.PasswordHash, &admin.Name, &admin.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("admin tidak ditemukan: %w", domain.ErrNotFound)
		}
		return nil, err
	}
	return admin, nil
}
