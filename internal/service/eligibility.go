package service

import (
	"fmt"
	"time"

	"perpusum-backend/internal/dates"
	"perpusum-backend/internal/domain"
)

// CheckRenewalEligibility decides whether a member may file a renewal request
// on the given day. Only approved members qualify, and only once the current
// expiry date has passed: a membership that expires today must wait until
// tomorrow. An approved member without an expiry date is always eligible.
//
// Pure function; the returned Days field counts calendar days until expiry.
func CheckRenewalEligibility(m *domain.Member, today time.Time) domain.Eligibility {
	if m.Status != domain.MemberStatusApproved {
		return domain.Eligibility{
			Allowed: false,
			Reason:  "Hanya anggota dengan status disetujui yang dapat mengajukan perpanjangan",
		}
	}

	if m.MembershipExpiryDate == nil {
		return domain.Eligibility{Allowed: true}
	}

	daysLeft := dates.DaysBetween(today, *m.MembershipExpiryDate)
	switch {
	case daysLeft > 0:
		return domain.Eligibility{
			Allowed: false,
			Reason:  fmt.Sprintf("Masa keanggotaan masih berlaku %d hari ke depan", daysLeft),
			Days:    daysLeft,
		}
	case daysLeft == 0:
		return domain.Eligibility{
			Allowed: false,
			Reason:  "Masa keanggotaan habis hari ini, perpanjangan dapat diajukan mulai besok",
			Days:    0,
		}
	default:
		return domain.Eligibility{Allowed: true, Days: daysLeft}
	}
}
