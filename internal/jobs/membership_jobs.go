package jobs

import (
	"context"
	"time"

	"perpusum-backend/internal/dates"
	"perpusum-backend/internal/domain"
	"perpusum-backend/internal/logger"
)

// reminderWindowDays is how far ahead the expiry reminder looks, and how far
// back the lapsed reminder reaches.
const reminderWindowDays = 7

// SendExpiryReminders emails approved members whose membership expires within
// the next reminderWindowDays days (today included).
func (jr *JobRunner) SendExpiryReminders() {
	jr.runWithRecovery("SendExpiryReminders", func() {
		ctx := context.Background()
		today := jr.clock.Today()
		until := today.AddDate(0, 0, reminderWindowDays)

		query := `
			SELECT id, member_number, name, email, membership_expiry_date
			FROM members
			WHERE status = $1
			  AND membership_expiry_date IS NOT NULL
			  AND membership_expiry_date >= $2
			  AND membership_expiry_date <= $3
		`
		jr.sendReminders(ctx, "expiry reminder", query, string(domain.MemberStatusApproved), today, until)
	})
}

// SendLapsedReminders emails approved members whose membership lapsed within
// the last reminderWindowDays days, nudging them to file a renewal.
func (jr *JobRunner) SendLapsedReminders() {
	jr.runWithRecovery("SendLapsedReminders", func() {
		ctx := context.Background()
		today := jr.clock.Today()
		since := today.AddDate(0, 0, -reminderWindowDays)

		query := `
			SELECT id, member_number, name, email, membership_expiry_date
			FROM members
			WHERE status = $1
			  AND membership_expiry_date IS NOT NULL
			  AND membership_expiry_date < $2
			  AND membership_expiry_date >= $3
		`
		jr.sendReminders(ctx, "lapsed reminder", query, string(domain.MemberStatusApproved), today, since)
	})
}

func (jr *JobRunner) sendReminders(ctx context.Context, jobName, query string, args ...any) {
	rows, err := jr.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error("Failed to query members for reminders", "job", jobName, "error", err)
		return
	}
	defer rows.Close()

	today := jr.clock.Today()
	count := 0
	for rows.Next() {
		member := domain.Member{Status: domain.MemberStatusApproved}
		var expiry time.Time
		if err := rows.Scan(&member.ID, &member.MemberNumber, &member.Name, &member.Email, &expiry); err != nil {
			logger.Error("Failed to scan member for reminder", "job", jobName, "error", err)
			continue
		}
		member.MembershipExpiryDate = &expiry

		daysLeft := dates.DaysBetween(today, expiry)
		m := member
		jr.dispatcher.Enqueue(jobName, func(ctx context.Context) error {
			return jr.emailSvc.SendExpiryReminder(ctx, &m, daysLeft)
		})
		count++

		logger.Debug("Queued reminder",
			"job", jobName, "member_id", member.ID, "email", member.Email, "days_left", daysLeft)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Error iterating members for reminders", "job", jobName, "error", err)
		return
	}

	logger.Info("Reminders queued", "job", jobName, "count", count)
}
