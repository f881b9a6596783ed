package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"perpusum-backend/internal/domain"
	"perpusum-backend/internal/repository"

	"github.com/lib/pq"
)

const memberColumns = `id, member_number, name, nim, email, birth_place, birth_date, gender,
	address, phone, institution, profession, program, photo_path, signature_path,
	payment_proof_path, status, registration_date, approved_at, rejected_at,
	rejection_reason, membership_expiry_date, created_at, updated_at`

type memberRepository struct {
	db *sql.DB
}

func NewMemberRepository(db *sql.DB) repository.MemberRepository {
	return &memberRepository{db: db}
}

func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	if pqErr.Code != "23505" {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}

func (r *memberRepository) Create(ctx context.Context, m *domain.Member) error {
	query := `INSERT INTO members
		(member_number, name, nim, email, birth_place, birth_date, gender, address, phone,
		 institution, profession, program, photo_path, signature_path, payment_proof_path,
		 status, registration_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $18)
		RETURNING id`
	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		m.MemberNumber, m.Name, m.NIM, m.Email, m.BirthPlace, m.BirthDate, m.Gender,
		m.Address, m.Phone, m.Institution, m.Profession, m.Program,
		m.PhotoPath, m.SignaturePath, m.PaymentProofPath,
		m.Status, m.RegistrationDate, now,
	).Scan(&m.ID)
	if err != nil {
		if isUniqueViolation(err, "members_member_number_key") {
			return domain.ErrDuplicateMemberNumber
		}
		if isUniqueViolation(err, "") {
			return fmt.Errorf("NIM atau email sudah terdaftar: %w", domain.ErrConflict)
		}
		return err
	}
	m.CreatedAt = now
	m.UpdatedAt = now
	return nil
}

func scanMember(row interface{ Scan(...any) error }) (*domain.Member, error) {
	m := &domain.Member{}
	var (
		birthDate  sql.NullTime
		approvedAt sql.NullTime
		rejectedAt sql.NullTime
		expiryDate sql.NullTime
	)
	err := row.Scan(
		&m.ID, &m.MemberNumber, &m.Name, &m.NIM, &m.Email, &m.BirthPlace, &birthDate,
		&m.Gender, &m.Address, &m.Phone, &m.Institution, &m.Profession, &m.Program,
		&m.PhotoPath, &m.SignaturePath, &m.PaymentProofPath, &m.Status,
		&m.RegistrationDate, &approvedAt, &rejectedAt, &m.RejectionReason,
		&expiryDate, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if birthDate.Valid {
		m.BirthDate = &birthDate.Time
	}
	if approvedAt.Valid {
		m.ApprovedAt = &approvedAt.Time
	}
	if rejectedAt.Valid {
		m.RejectedAt = &rejectedAt.Time
	}
	if expiryDate.Valid {
		m.MembershipExpiryDate = &expiryDate.Time
	}
	return m, nil
}

func (r *memberRepository) GetByID(ctx context.Context, id int32) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE id = $1`
	m, err := scanMember(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("anggota tidak ditemukan: %w", domain.ErrNotFound)
		}
		return nil, err
	}
	return m, nil
}

func (r *memberRepository) ExistsByNIMOrEmail(ctx context.Context, nim, email string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM members WHERE nim = $1 OR email = $2`
	if err := r.db.QueryRowContext(ctx, query, nim, email).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *memberRepository) queryMembers(ctx context.Context, query string, args ...any) ([]domain.Member, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []domain.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, *m)
	}
	return members, rows.Err()
}

func (r *memberRepository) List(ctx context.Context) ([]domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members ORDER BY created_at DESC`
	return r.queryMembers(ctx, query)
}

func (r *memberRepository) Search(ctx context.Context, search string) ([]domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members
		WHERE name ILIKE $1 OR nim ILIKE $1 OR email ILIKE $1
		ORDER BY created_at DESC`
	return r.queryMembers(ctx, query, "%"+search+"%")
}

func (r *memberRepository) LastNumberForPrefix(ctx context.Context, prefix string) (string, error) {
	var number string
	query := `SELECT member_number FROM members
		WHERE member_number LIKE $1
		ORDER BY member_number DESC LIMIT 1`
	err := r.db.QueryRowContext(ctx, query, prefix+"%").Scan(&number)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return number, nil
}

func (r *memberRepository) CountByNumber(ctx context.Context, memberNumber string, excludeID int32) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM members WHERE member_number = $1 AND id != $2`
	if err := r.db.QueryRowContext(ctx, query, memberNumber, excludeID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *memberRepository) UpdateMemberNumber(ctx context.Context, id int32, memberNumber string) error {
	query := `UPDATE members SET member_number = $1, updated_at = $2 WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, memberNumber, time.Now(), id)
	if err != nil {
		if isUniqueViolation(err, "members_member_number_key") {
			return domain.ErrDuplicateMemberNumber
		}
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("anggota tidak ditemukan: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *memberRepository) MarkApproved(ctx context.Context, id int32, approvedAt, expiryDate time.Time) (int64, error) {
	query := `UPDATE members
		SET status = $1, approved_at = $2, membership_expiry_date = $3, updated_at = $2
		WHERE id = $4 AND status = $5`
	res, err := r.db.ExecContext(ctx, query,
		domain.MemberStatusApproved, approvedAt, expiryDate, id, domain.MemberStatusPending)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *memberRepository) MarkRejected(ctx context.Context, id int32, rejectedAt time.Time, reason string) (int64, error) {
	query := `UPDATE members
		SET status = $1, rejected_at = $2, rejection_reason = $3, updated_at = $2
		WHERE id = $4 AND status = $5`
	res, err := r.db.ExecContext(ctx, query,
		domain.MemberStatusRejected, rejectedAt, reason, id, domain.MemberStatusPending)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *memberRepository) RegistrationCountsSince(ctx context.Context, from time.Time) (map[string]int, error) {
	query := `SELECT registration_date::date, COUNT(*)
		FROM members
		WHERE registration_date >= $1
		GROUP BY registration_date::date`
	rows, err := r.db.QueryContext(ctx, query, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var day time.Time
		var count int
		if err := rows.Scan(&day, &count); err != nil {
			return nil, err
		}
		counts[day.Format("2006-01-02")] = count
	}
	return counts, rows.Err()
}
