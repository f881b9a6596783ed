package service

import (
	"context"
	"time"

	"perpusum-backend/internal/domain"
)

// RegisterMemberInput carries the registration form. File attachments arrive
// as opaque path references; upload storage is handled outside the core.
type RegisterMemberInput struct {
	Name             string
	NIM              string
	Email            string
	BirthPlace       string
	BirthDate        *time.Time
	Gender           string
	Address          string
	Phone            string
	Institution      string
	Profession       string
	Program          string
	PhotoPath        string
	SignaturePath    string
	PaymentProofPath string
	RegistrationDate *time.Time // defaults to today
}

type MemberService interface {
	Register(ctx context.Context, input RegisterMemberInput) (*domain.Member, error)
	GetMember(ctx context.Context, id int32) (*domain.Member, error)
	ListMembers(ctx context.Context) ([]domain.Member, error)
	SearchMembers(ctx context.Context, query string) ([]domain.Member, error)
	Approve(ctx context.Context, id int32) (*domain.Member, error)
	Reject(ctx context.Context, id int32, reason string) (*domain.Member, error)
	UpdateMemberNumber(ctx context.Context, id int32, memberNumber string) error
}

type RenewalService interface {
	CanRequestRenewal(ctx context.Context, memberID int32) (domain.Eligibility, error)
	RequestRenewal(ctx context.Context, memberID int32, paymentProofPath, reason string) (*domain.RenewalRequest, error)
	ListRenewals(ctx context.Context) ([]domain.RenewalListItem, error)
	ApproveRenewal(ctx context.Context, renewalID int32) (*domain.RenewalRequest, error)
	RejectRenewal(ctx context.Context, renewalID int32, reason string) (*domain.RenewalRequest, error)
}

type StatsService interface {
	DashboardStats(ctx context.Context) (*domain.DashboardStats, error)
	ProfessionStats(ctx context.Context) (map[string]int, error)
	RegistrationTrend(ctx context.Context, days int) ([]domain.TrendPoint, error)
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *domain.Admin, error)
}

type EmailService interface {
	SendRegistrationConfirmation(ctx context.Context, member *domain.Member) error
	SendApproval(ctx context.Context, member *domain.Member) error
	SendRejection(ctx context.Context, member *domain.Member, reason string) error
	SendRenewalApproval(ctx context.Context, member *domain.Member, newExpiry time.Time) error
	SendRenewalRejection(ctx context.Context, member *domain.Member, reason string) error
	SendExpiryReminder(ctx context.Context, member *domain.Member, daysLeft int) error
}
