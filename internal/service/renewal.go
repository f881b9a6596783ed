package service

import (
	"context"
	"fmt"
	"strings"

	"perpusum-backend/internal/clock"
	"perpusum-backend/internal/dates"
	"perpusum-backend/internal/domain"
	"perpusum-backend/internal/notify"
	"perpusum-backend/internal/repository"
)

type renewalService struct {
	renewalRepo repository.RenewalRepository
	memberRepo  repository.MemberRepository
	emailSvc    EmailService
	dispatcher  notify.Dispatcher
	clock       clock.Clock
}

func NewRenewalService(
	renewalRepo repository.RenewalRepository,
	memberRepo repository.MemberRepository,
	emailSvc EmailService,
	dispatcher notify.Dispatcher,
	clk clock.Clock,
) RenewalService {
	return &renewalService{
		renewalRepo: renewalRepo,
		memberRepo:  memberRepo,
		emailSvc:    emailSvc,
		dispatcher:  dispatcher,
		clock:       clk,
	}
}

func (s *renewalService) CanRequestRenewal(ctx context.Context, memberID int32) (domain.Eligibility, error) {
	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		return domain.Eligibility{}, err
	}
	return CheckRenewalEligibility(member, s.clock.Today()), nil
}

func (s *renewalService) RequestRenewal(ctx context.Context, memberID int32, paymentProofPath, reason string) (*domain.RenewalRequest, error) {
	if strings.TrimSpace(paymentProofPath) == "" {
		return nil, &domain.ValidationError{Fields: map[string]string{
			"payment_proof": "Bukti pembayaran harus dilampirkan",
		}}
	}

	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}

	if elig := CheckRenewalEligibility(member, s.clock.Today()); !elig.Allowed {
		return nil, &domain.RuleDenialError{Reason: elig.Reason, Days: elig.Days}
	}

	pending, err := s.renewalRepo.HasPending(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to check pending renewals: %w", err)
	}
	if pending {
		return nil, fmt.Errorf("masih ada pengajuan perpanjangan yang menunggu persetujuan: %w", domain.ErrConflict)
	}

	renewal := &domain.RenewalRequest{
		MemberID:         memberID,
		Status:           domain.RenewalStatusPending,
		RequestDate:      s.clock.Now(),
		PaymentProofPath: paymentProofPath,
		Reason:           reason,
	}
	if err := s.renewalRepo.Create(ctx, renewal); err != nil {
		return nil, err
	}
	return renewal, nil
}

func (s *renewalService) ListRenewals(ctx context.Context) ([]domain.RenewalListItem, error) {
	return s.renewalRepo.List(ctx)
}

// ApproveRenewal extends the membership by one calendar month. The new term
// is anchored on the current expiry date while it is still in the future;
// once the membership has lapsed the term starts from today instead, so
// missed time is not compounded.
func (s *renewalService) ApproveRenewal(ctx context.Context, renewalID int32) (*domain.RenewalRequest, error) {
	renewal, err := s.renewalRepo.GetByID(ctx, renewalID)
	if err != nil {
		return nil, err
	}
	if renewal.Status != domain.RenewalStatusPending {
		return nil, fmt.Errorf("pengajuan perpanjangan sudah diproses dengan status %s: %w", renewal.Status, domain.ErrConflict)
	}

	member, err := s.memberRepo.GetByID(ctx, renewal.MemberID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	today := s.clock.Today()

	base := today
	if member.MembershipExpiryDate != nil && !member.MembershipExpiryDate.Before(today) {
		base = dates.DateOnly(*member.MembershipExpiryDate)
	}
	newExpiry := dates.AddMonthsClamped(base, 1)

	if err := s.renewalRepo.Approve(ctx, renewalID, member.ID, now, newExpiry); err != nil {
		return nil, err
	}

	renewal.Status = domain.RenewalStatusApproved
	renewal.ApprovedAt = &now
	renewal.NewExpiryDate = &newExpiry
	member.MembershipExpiryDate = &newExpiry

	s.dispatcher.Enqueue("renewal approval notification", func(ctx context.Context) error {
		return s.emailSvc.SendRenewalApproval(ctx, member, newExpiry)
	})
	return renewal, nil
}

func (s *renewalService) RejectRenewal(ctx context.Context, renewalID int32, reason string) (*domain.RenewalRequest, error) {
	renewal, err := s.renewalRepo.GetByID(ctx, renewalID)
	if err != nil {
		return nil, err
	}
	if renewal.Status != domain.RenewalStatusPending {
		return nil, fmt.Errorf("pengajuan perpanjangan sudah diproses dengan status %s: %w", renewal.Status, domain.ErrConflict)
	}

	member, err := s.memberRepo.GetByID(ctx, renewal.MemberID)
	if err != nil {
		return nil, err
	}

	affected, err := s.renewalRepo.MarkRejected(ctx, renewalID, reason)
	if err != nil {
		return nil, fmt.Errorf("failed to reject renewal: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("pengajuan perpanjangan sudah diproses: %w", domain.ErrConflict)
	}

	renewal.Status = domain.RenewalStatusRejected
	renewal.RejectionReason = reason

	s.dispatcher.Enqueue("renewal rejection notification", func(ctx context.Context) error {
		return s.emailSvc.SendRenewalRejection(ctx, member, reason)
	})
	return renewal, nil
}
