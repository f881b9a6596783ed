package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"perpusum-backend/internal/domain"
)

// fakeMemberRepo is an in-memory MemberRepository. The mutex matters: the
// registration tests exercise concurrent allocation, and the unique-number
// check below stands in for the database's unique index.
type fakeMemberRepo struct {
	mu      sync.Mutex
	nextID  int32
	members map[int32]*domain.Member
}

func newFakeMemberRepo() *fakeMemberRepo {
	return &fakeMemberRepo{members: make(map[int32]*domain.Member)}
}

func (f *fakeMemberRepo) add(m domain.Member) *domain.Member {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	m.ID = f.nextID
	f.members[m.ID] = &m
	return &m
}

func (f *fakeMemberRepo) Create(_ context.Context, m *domain.Member) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, other := range f.members {
		if other.MemberNumber == m.MemberNumber {
			return domain.ErrDuplicateMemberNumber
		}
	}
	f.nextID++
	m.ID = f.nextID
	stored := *m
	f.members[m.ID] = &stored
	return nil
}

func (f *fakeMemberRepo) GetByID(_ context.Context, id int32) (*domain.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.members[id]
	if !ok {
		return nil, fmt.Errorf("anggota tidak ditemukan: %w", domain.ErrNotFound)
	}
	copied := *m
	return &copied, nil
}

func (f *fakeMemberRepo) ExistsByNIMOrEmail(_ context.Context, nim, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.members {
		if m.NIM == nim || m.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeMemberRepo) List(_ context.Context) ([]domain.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Member, 0, len(f.members))
	for _, m := range f.members {
		out = append(out, *m)
	}
	return out, nil
}

func (f *fakeMemberRepo) Search(_ context.Context, query string) ([]domain.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q := strings.ToLower(query)
	var out []domain.Member
	for _, m := range f.members {
		if strings.Contains(strings.ToLower(m.Name), q) ||
			strings.Contains(strings.ToLower(m.NIM), q) ||
			strings.Contains(strings.ToLower(m.Email), q) {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeMemberRepo) LastNumberForPrefix(_ context.Context, prefix string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	last := ""
	for _, m := range f.members {
		if strings.HasPrefix(m.MemberNumber, prefix) && m.MemberNumber > last {
			last = m.MemberNumber
		}
	}
	return last, nil
}

func (f *fakeMemberRepo) CountByNumber(_ context.Context, memberNumber string, excludeID int32) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, m := range f.members {
		if m.MemberNumber == memberNumber && m.ID != excludeID {
			count++
		}
	}
	return count, nil
}

func (f *fakeMemberRepo) UpdateMemberNumber(_ context.Context, id int32, memberNumber string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.members {
		if m.ID != id && m.MemberNumber == memberNumber {
			return domain.ErrDuplicateMemberNumber
		}
	}
	m, ok := f.members[id]
	if !ok {
		return fmt.Errorf("anggota tidak ditemukan: %w", domain.ErrNotFound)
	}
	m.MemberNumber = memberNumber
	return nil
}

func (f *fakeMemberRepo) MarkApproved(_ context.Context, id int32, approvedAt, expiryDate time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.members[id]
	if !ok || m.Status != domain.MemberStatusPending {
		return 0, nil
	}
	m.Status = domain.MemberStatusApproved
	m.ApprovedAt = &approvedAt
	m.MembershipExpiryDate = &expiryDate
	return 1, nil
}

func (f *fakeMemberRepo) MarkRejected(_ context.Context, id int32, rejectedAt time.Time, reason string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.members[id]
	if !ok || m.Status != domain.MemberStatusPending {
		return 0, nil
	}
	m.Status = domain.MemberStatusRejected
	m.RejectedAt = &rejectedAt
	m.RejectionReason = reason
	return 1, nil
}

func (f *fakeMemberRepo) RegistrationCountsSince(_ context.Context, from time.Time) (map[string]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := make(map[string]int)
	for _, m := range f.members {
		if !m.RegistrationDate.Before(from) {
			counts[m.RegistrationDate.Format("2006-01-02")]++
		}
	}
	return counts, nil
}

type fakeRenewalRepo struct {
	mu       sync.Mutex
	nextID   int32
	renewals map[int32]*domain.RenewalRequest
	members  *fakeMemberRepo
}

func newFakeRenewalRepo(members *fakeMemberRepo) *fakeRenewalRepo {
	return &fakeRenewalRepo{renewals: make(map[int32]*domain.RenewalRequest), members: members}
}

func (f *fakeRenewalRepo) add(r domain.RenewalRequest) *domain.RenewalRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	r.ID = f.nextID
	f.renewals[r.ID] = &r
	return &r
}

func (f *fakeRenewalRepo) Create(_ context.Context, r *domain.RenewalRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, other := range f.renewals {
		if other.MemberID == r.MemberID && other.Status == domain.RenewalStatusPending {
			return fmt.Errorf("pengajuan perpanjangan masih menunggu: %w", domain.ErrConflict)
		}
	}
	f.nextID++
	r.ID = f.nextID
	stored := *r
	f.renewals[r.ID] = &stored
	return nil
}

func (f *fakeRenewalRepo) GetByID(_ context.Context, id int32) (*domain.RenewalRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.renewals[id]
	if !ok {
		return nil, fmt.Errorf("pengajuan tidak ditemukan: %w", domain.ErrNotFound)
	}
	copied := *r
	return &copied, nil
}

func (f *fakeRenewalRepo) List(_ context.Context) ([]domain.RenewalListItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.RenewalListItem
	for _, r := range f.renewals {
		item := domain.RenewalListItem{RenewalRequest: *r}
		if m, ok := f.members.members[r.MemberID]; ok {
			item.MemberName = m.Name
			item.MemberNIM = m.NIM
			item.MemberNumber = m.MemberNumber
		}
		out = append(out, item)
	}
	return out, nil
}

func (f *fakeRenewalRepo) HasPending(_ context.Context, memberID int32) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.renewals {
		if r.MemberID == memberID && r.Status == domain.RenewalStatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRenewalRepo) Approve(_ context.Context, renewalID, memberID int32, approvedAt, newExpiryDate time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.renewals[renewalID]
	if !ok || r.Status != domain.RenewalStatusPending {
		return fmt.Errorf("pengajuan perpanjangan sudah diproses: %w", domain.ErrConflict)
	}
	r.Status = domain.RenewalStatusApproved
	r.ApprovedAt = &approvedAt
	r.NewExpiryDate = &newExpiryDate

	f.members.mu.Lock()
	if m, ok := f.members.members[memberID]; ok {
		m.MembershipExpiryDate = &newExpiryDate
	}
	f.members.mu.Unlock()
	return nil
}

func (f *fakeRenewalRepo) MarkRejected(_ context.Context, id int32, reason string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.renewals[id]
	if !ok || r.Status != domain.RenewalStatusPending {
		return 0, nil
	}
	r.Status = domain.RenewalStatusRejected
	r.RejectionReason = reason
	return 1, nil
}

type fakeAdminRepo struct {
	admins map[string]*domain.Admin
}

func (f *fakeAdminRepo) GetByEmail(_ context.Context, email string) (*domain.Admin, error) {
	a, ok := f.admins[email]
	if !ok {
		return nil, fmt.Errorf("admin tidak ditemukan: %w", domain.ErrNotFound)
	}
	copied := *a
	return &copied, nil
}

// fakeEmailService records which notifications were sent, by kind.
type fakeEmailService struct {
	mu    sync.Mutex
	sent  []string
	fail  bool
	calls int
}

func (f *fakeEmailService) record(kind string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail {
		return fmt.Errorf("smtp unreachable")
	}
	f.sent = append(f.sent, kind)
	return nil
}

func (f *fakeEmailService) sentKinds() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

func (f *fakeEmailService) SendRegistrationConfirmation(context.Context, *domain.Member) error {
	return f.record("registration")
}

func (f *fakeEmailService) SendApproval(context.Context, *domain.Member) error {
	return f.record("approval")
}

func (f *fakeEmailService) SendRejection(context.Context, *domain.Member, string) error {
	return f.record("rejection")
}

func (f *fakeEmailService) SendRenewalApproval(context.Context, *domain.Member, time.Time) error {
	return f.record("renewal-approval")
}

func (f *fakeEmailService) SendRenewalRejection(context.Context, *domain.Member, string) error {
	return f.record("renewal-rejection")
}

func (f *fakeEmailService) SendExpiryReminder(context.Context, *domain.Member, int) error {
	return f.record("expiry-reminder")
}

// syncDispatcher runs jobs inline so tests observe notification side effects
// deterministically.
type syncDispatcher struct {
	mu   sync.Mutex
	jobs []string
}

func (d *syncDispatcher) Enqueue(name string, send func(ctx context.Context) error) {
	d.mu.Lock()
	d.jobs = append(d.jobs, name)
	d.mu.Unlock()
	_ = send(context.Background())
}
