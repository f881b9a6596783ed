package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"perpusum-backend/internal/domain"
	"perpusum-backend/internal/repository/postgres"
)

func TestAdminRepository_GetByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewAdminRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "email", "password_hash", "name", "created_at"}).
			AddRow(1, "admin@perpusum.local", "hash", "Admin Perpus", time.Now())

		mock.ExpectQuery("SELECT (.+) FROM admins WHERE email = \\$1").
			WithArgs("admin@perpusum.local").
			WillReturnRows(rows)

		admin, err := repo.GetByEmail(ctx, "admin@perpusum.local")
		assert.NoError(t, err)
		assert.NotNil(t, admin)
		assert.Equal(t, int32(1), admin.ID)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM admins WHERE email = \\$1").
			WithArgs("nobody@perpusum.local").
			WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "name", "created_at"}))

		admin, err := repo.GetByEmail(ctx, "nobody@perpusum.local")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Nil(t, admin)
	})
}
