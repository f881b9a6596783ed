package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"perpusum-backend/internal/clock"
	"perpusum-backend/internal/dates"
	"perpusum-backend/internal/domain"
	"perpusum-backend/internal/membernumber"
	"perpusum-backend/internal/notify"
	"perpusum-backend/internal/repository"
)

// maxAllocateAttempts bounds the allocate-insert retry loop that closes the
// member-number race under concurrent registrations for the same date.
const maxAllocateAttempts = 5

type memberService struct {
	memberRepo repository.MemberRepository
	allocator  *membernumber.Allocator
	emailSvc   EmailService
	dispatcher notify.Dispatcher
	clock      clock.Clock
}

func NewMemberService(
	memberRepo repository.MemberRepository,
	allocator *membernumber.Allocator,
	emailSvc EmailService,
	dispatcher notify.Dispatcher,
	clk clock.Clock,
) MemberService {
	return &memberService{
		memberRepo: memberRepo,
		allocator:  allocator,
		emailSvc:   emailSvc,
		dispatcher: dispatcher,
		clock:      clk,
	}
}

func validateRegistration(input RegisterMemberInput) error {
	fields := make(map[string]string)
	if strings.TrimSpace(input.Name) == "" {
		fields["name"] = "Nama harus diisi"
	}
	if strings.TrimSpace(input.NIM) == "" {
		fields["nim"] = "NIM/NIK harus diisi"
	}
	if strings.TrimSpace(input.Email) == "" {
		fields["email"] = "Email harus diisi"
	}
	if strings.TrimSpace(input.Institution) == "" {
		fields["institution"] = "Asal institusi harus diisi"
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

func (s *memberService) Register(ctx context.Context, input RegisterMemberInput) (*domain.Member, error) {
	if err := validateRegistration(input); err != nil {
		return nil, err
	}

	exists, err := s.memberRepo.ExistsByNIMOrEmail(ctx, input.NIM, input.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing members: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("NIM atau email sudah terdaftar: %w", domain.ErrConflict)
	}

	registrationDate := s.clock.Today()
	if input.RegistrationDate != nil {
		registrationDate = dates.DateOnly(*input.RegistrationDate)
	}

	member := &domain.Member{
		Name:             input.Name,
		NIM:              input.NIM,
		Email:            input.Email,
		BirthPlace:       input.BirthPlace,
		BirthDate:        input.BirthDate,
		Gender:           input.Gender,
		Address:          input.Address,
		Phone:            input.Phone,
		Institution:      input.Institution,
		Profession:       input.Profession,
		Program:          input.Program,
		PhotoPath:        input.PhotoPath,
		SignaturePath:    input.SignaturePath,
		PaymentProofPath: input.PaymentProofPath,
		Status:           domain.MemberStatusPending,
		RegistrationDate: registrationDate,
	}

	// Allocate-then-insert under the unique index on member_number. Two
	// concurrent registrations can compute the same next sequence; the loser
	// gets a duplicate-key conflict and re-allocates.
	for attempt := 1; ; attempt++ {
		number, err := s.allocator.Allocate(ctx, registrationDate)
		if err != nil {
			return nil, err
		}
		member.MemberNumber = number

		err = s.memberRepo.Create(ctx, member)
		if err == nil {
			break
		}
		if errors.Is(err, domain.ErrDuplicateMemberNumber) && attempt < maxAllocateAttempts {
			continue
		}
		return nil, err
	}

	s.dispatcher.Enqueue("registration confirmation", func(ctx context.Context) error {
		return s.emailSvc.SendRegistrationConfirmation(ctx, member)
	})
	return member, nil
}

func (s *memberService) GetMember(ctx context.Context, id int32) (*domain.Member, error) {
	return s.memberRepo.GetByID(ctx, id)
}

func (s *memberService) ListMembers(ctx context.Context) ([]domain.Member, error) {
	return s.memberRepo.List(ctx)
}

func (s *memberService) SearchMembers(ctx context.Context, query string) ([]domain.Member, error) {
	if strings.TrimSpace(query) == "" {
		return nil, &domain.ValidationError{Fields: map[string]string{
			"query": "Query pencarian harus diisi",
		}}
	}
	return s.memberRepo.Search(ctx, query)
}

// Approve moves a pending member to approved and sets the expiry date to the
// registration date plus one calendar month (end-of-month clamped). Members
// that are already decided are not re-decided.
func (s *memberService) Approve(ctx context.Context, id int32) (*domain.Member, error) {
	member, err := s.memberRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if member.Status != domain.MemberStatusPending {
		return nil, fmt.Errorf("pendaftaran sudah diproses dengan status %s: %w", member.Status, domain.ErrConflict)
	}

	now := s.clock.Now()
	expiry := dates.AddMonthsClamped(dates.DateOnly(member.RegistrationDate), 1)

	affected, err := s.memberRepo.MarkApproved(ctx, id, now, expiry)
	if err != nil {
		return nil, fmt.Errorf("failed to approve member: %w", err)
	}
	if affected == 0 {
		// Lost the race against another admin decision.
		return nil, fmt.Errorf("pendaftaran sudah diproses: %w", domain.ErrConflict)
	}

	member.Status = domain.MemberStatusApproved
	member.ApprovedAt = &now
	member.MembershipExpiryDate = &expiry

	s.dispatcher.Enqueue("approval notification", func(ctx context.Context) error {
		return s.emailSvc.SendApproval(ctx, member)
	})
	return member, nil
}

// Reject moves a pending member to rejected. The reason may be empty.
func (s *memberService) Reject(ctx context.Context, id int32, reason string) (*domain.Member, error) {
	member, err := s.memberRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if member.Status != domain.MemberStatusPending {
		return nil, fmt.Errorf("pendaftaran sudah diproses dengan status %s: %w", member.Status, domain.ErrConflict)
	}

	now := s.clock.Now()
	affected, err := s.memberRepo.MarkRejected(ctx, id, now, reason)
	if err != nil {
		return nil, fmt.Errorf("failed to reject member: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("pendaftaran sudah diproses: %w", domain.ErrConflict)
	}

	member.Status = domain.MemberStatusRejected
	member.RejectedAt = &now
	member.RejectionReason = reason

	s.dispatcher.Enqueue("rejection notification", func(ctx context.Context) error {
		return s.emailSvc.SendRejection(ctx, member, reason)
	})
	return member, nil
}

// UpdateMemberNumber applies a manual member-number edit after checking that
// no other member holds the number.
func (s *memberService) UpdateMemberNumber(ctx context.Context, id int32, memberNumber string) error {
	if strings.TrimSpace(memberNumber) == "" {
		return &domain.ValidationError{Fields: map[string]string{
			"member_number": "Nomor anggota harus diisi",
		}}
	}

	unique, err := s.allocator.IsUnique(ctx, memberNumber, id)
	if err != nil {
		return fmt.Errorf("failed to check member number: %w", err)
	}
	if !unique {
		return fmt.Errorf("nomor anggota sudah digunakan anggota lain: %w", domain.ErrConflict)
	}

	err = s.memberRepo.UpdateMemberNumber(ctx, id, memberNumber)
	if errors.Is(err, domain.ErrDuplicateMemberNumber) {
		// The unique index caught a concurrent edit.
		return fmt.Errorf("nomor anggota sudah digunakan anggota lain: %w", domain.ErrConflict)
	}
	return err
}
