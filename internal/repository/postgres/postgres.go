package postgres

import (
	"database/sql"

	"perpusum-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.MemberRepository
	repository.RenewalRepository
	repository.AdminRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                db,
		MemberRepository:  NewMemberRepository(db),
		RenewalRepository: NewRenewalRepository(db),
		AdminRepository:   NewAdminRepository(db),
	}
}
