package service

import (
	"context"
	"fmt"

	"perpusum-backend/internal/clock"
	"perpusum-backend/internal/dates"
	"perpusum-backend/internal/domain"
	"perpusum-backend/internal/repository"
)

// newRegistrationWindowDays is how far back the dashboard's new-registrations
// count reaches: members registered on or after today minus this many days are
// counted, the boundary day included.
const newRegistrationWindowDays = 7

const (
	minTrendDays = 1
	maxTrendDays = 365
)

type statsService struct {
	memberRepo repository.MemberRepository
	clock      clock.Clock
}

func NewStatsService(memberRepo repository.MemberRepository, clk clock.Clock) StatsService {
	return &statsService{memberRepo: memberRepo, clock: clk}
}

// DashboardStats recomputes the aggregate counts from the member collection
// on every call; there is no cached view.
func (s *statsService) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	members, err := s.memberRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load members: %w", err)
	}

	today := s.clock.Today()
	windowStart := today.AddDate(0, 0, -newRegistrationWindowDays)

	stats := &domain.DashboardStats{Total: len(members)}
	for i := range members {
		m := &members[i]
		if m.IsActive(today) {
			stats.Active++
		} else {
			stats.Inactive++
		}
		if !dates.DateOnly(m.RegistrationDate).Before(windowStart) {
			stats.NewRegistrations++
		}
	}
	return stats, nil
}

// ProfessionStats counts approved members by profession, restricted to the
// fixed label set. Members with any other profession value are left out of
// the result entirely.
func (s *statsService) ProfessionStats(ctx context.Context) (map[string]int, error) {
	members, err := s.memberRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load members: %w", err)
	}

	breakdown := map[string]int{
		domain.ProfessionMahasiswa: 0,
		domain.ProfessionUmum:      0,
	}
	for i := range members {
		m := &members[i]
		if m.Status != domain.MemberStatusApproved {
			continue
		}
		if _, ok := breakdown[m.Profession]; ok {
			breakdown[m.Profession]++
		}
	}
	return breakdown, nil
}

// RegistrationTrend returns one point per calendar day for the last 'days'
// days ending today, oldest first. Days without registrations are zero-filled
// so the series always has exactly 'days' entries.
func (s *statsService) RegistrationTrend(ctx context.Context, days int) ([]domain.TrendPoint, error) {
	if days < minTrendDays || days > maxTrendDays {
		return nil, &domain.ValidationError{Fields: map[string]string{
			"days": fmt.Sprintf("Parameter days harus antara %d dan %d", minTrendDays, maxTrendDays),
		}}
	}

	today := s.clock.Today()
	from := today.AddDate(0, 0, -(days - 1))

	counts, err := s.memberRepo.RegistrationCountsSince(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("failed to load registration counts: %w", err)
	}

	trend := make([]domain.TrendPoint, 0, days)
	for day := from; !day.After(today); day = day.AddDate(0, 0, 1) {
		trend = append(trend, domain.TrendPoint{
			Date:  day,
			Count: counts[day.Format("2006-01-02")],
		})
	}
	return trend, nil
}
