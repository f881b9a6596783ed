package repository

import (
	"context"
	"time"

	"perpusum-backend/internal/domain"
)

type MemberRepository interface {
	// Create inserts the member and sets its ID. Returns
	// domain.ErrDuplicateMemberNumber on a member_number collision and
	// domain.ErrConflict on a NIM/email collision.
	Create(ctx context.Context, m *domain.Member) error
	GetByID(ctx context.Context, id int32) (*domain.Member, error)
	ExistsByNIMOrEmail(ctx context.Context, nim, email string) (bool, error)
	List(ctx context.Context) ([]domain.Member, error)
	Search(ctx context.Context, query string) ([]domain.Member, error)

	// LastNumberForPrefix returns the highest member_number with the given
	// prefix, or "" when none exists.
	LastNumberForPrefix(ctx context.Context, prefix string) (string, error)
	CountByNumber(ctx context.Context, memberNumber string, excludeID int32) (int, error)
	UpdateMemberNumber(ctx context.Context, id int32, memberNumber string) error

	// MarkApproved and MarkRejected are guarded transitions: the UPDATE only
	// matches rows still in pending status and the affected row count is
	// returned so callers can detect a lost race.
	MarkApproved(ctx context.Context, id int32, approvedAt, expiryDate time.Time) (int64, error)
	MarkRejected(ctx context.Context, id int32, rejectedAt time.Time, reason string) (int64, error)

	// RegistrationCountsSince returns per-day registration counts keyed by
	// "2006-01-02", for all days on or after 'from'. Days without
	// registrations are absent from the map.
	RegistrationCountsSince(ctx context.Context, from time.Time) (map[string]int, error)
}

type RenewalRepository interface {
	Create(ctx context.Context, r *domain.RenewalRequest) error
	GetByID(ctx context.Context, id int32) (*domain.RenewalRequest, error)
	List(ctx context.Context) ([]domain.RenewalListItem, error)
	HasPending(ctx context.Context, memberID int32) (bool, error)

	// Approve marks the renewal approved and propagates the new expiry date
	// onto the member in a single transaction. Returns domain.ErrConflict
	// when the renewal is no longer pending.
	Approve(ctx context.Context, renewalID, memberID int32, approvedAt, newExpiryDate time.Time) error
	MarkRejected(ctx context.Context, id int32, reason string) (int64, error)
}

type AdminRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.Admin, error)
}
