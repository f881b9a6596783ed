package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"perpusum-backend/internal/domain"
	"perpusum-backend/internal/repository"
)

type renewalRepository struct {
	db *sql.DB
}

func NewRenewalRepository(db *sql.DB) repository.RenewalRepository {
	return &renewalRepository{db: db}
}

func (r *renewalRepository) Create(ctx context.Context, req *domain.RenewalRequest) error {
	query := `INSERT INTO renewal_requests
		(member_id, status, request_date, payment_proof_path, reason)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		req.MemberID, req.Status, req.RequestDate, req.PaymentProofPath, req.Reason,
	).Scan(&req.ID)
	if err != nil {
		if isUniqueViolation(err, "renewal_requests_pending_member_idx") {
			return fmt.Errorf("masih ada pengajuan perpanjangan yang menunggu persetujuan: %w", domain.ErrConflict)
		}
		return err
	}
	return nil
}

func (r *renewalRepository) GetByID(ctx context.Context, id int32) (*domain.RenewalRequest, error) {
	req := &domain.RenewalRequest{}
	var (
		approvedAt sql.NullTime
		newExpiry  sql.NullTime
	)
	query := `SELECT id, member_id, status, request_date, payment_proof_path, reason,
		approved_at, new_expiry_date, rejection_reason
		FROM renewal_requests WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&req.ID, &req.MemberID, &req.Status, &req.RequestDate, &req.PaymentProofPath,
		&req.Reason, &approvedAt, &newExpiry, &req.RejectionReason,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("pengajuan perpanjangan tidak ditemukan: %w", domain.ErrNotFound)
		}
		return nil, err
	}
	if approvedAt.Valid {
		req.ApprovedAt = &approvedAt.Time
	}
	if newExpiry.Valid {
		req.NewExpiryDate = &newExpiry.Time
	}
	return req, nil
}

func (r *renewalRepository) List(ctx context.Context) ([]domain.RenewalListItem, error) {
	query := `SELECT r.id, r.member_id, r.status, r.request_date, r.payment_proof_path,
		r.reason, r.approved_at, r.new_expiry_date, r.rejection_reason,
		m.name, m.nim, m.member_number
		FROM renewal_requests r
		JOIN members m ON r.member_id = m.id
		ORDER BY r.request_date DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.RenewalListItem
	for rows.Next() {
		var item domain.RenewalListItem
		var (
			approvedAt sql.NullTime
			newExpiry  sql.NullTime
		)
		err := rows.Scan(
			&item.ID, &item.MemberID, &item.Status, &item.RequestDate,
			&item.PaymentProofPath, &item.Reason, &approvedAt, &newExpiry,
			&item.RejectionReason, &item.MemberName, &item.MemberNIM, &item.MemberNumber,
		)
		if err != nil {
			return nil, err
		}
		if approvedAt.Valid {
			item.ApprovedAt = &approvedAt.Time
		}
		if newExpiry.Valid {
			item.NewExpiryDate = &newExpiry.Time
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *renewalRepository) HasPending(ctx context.Context, memberID int32) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM renewal_requests WHERE member_id = $1 AND status = $2`
	if err := r.db.QueryRowContext(ctx, query, memberID, domain.RenewalStatusPending).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// Approve runs both writes in one transaction so the renewal decision and the
// member's new expiry date commit together or not at all.
func (r *renewalRepository) Approve(ctx context.Context, renewalID, memberID int32, approvedAt, newExpiryDate time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE renewal_requests SET status = $1, approved_at = $2, new_expiry_date = $3
		 WHERE id = $4 AND status = $5`,
		domain.RenewalStatusApproved, approvedAt, newExpiryDate, renewalID, domain.RenewalStatusPending)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("pengajuan perpanjangan sudah diproses: %w", domain.ErrConflict)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE members SET membership_expiry_date = $1, updated_at = $2 WHERE id = $3`,
		newExpiryDate, approvedAt, memberID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *renewalRepository) MarkRejected(ctx context.Context, id int32, reason string) (int64, error) {
	query := `UPDATE renewal_requests SET status = $1, rejection_reason = $2
		WHERE id = $3 AND status = $4`
	res, err := r.db.ExecContext(ctx, query,
		domain.RenewalStatusRejected, reason, id, domain.RenewalStatusPending)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
