// Package dates implements the calendar arithmetic used by the membership
// rules. All functions operate on calendar days in the time's own location;
// clock-of-day components are discarded.
package dates

import "time"

// DateOnly truncates t to midnight of its calendar day.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the next month normalizes to the last day of this month.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AddMonthsClamped adds calendar months keeping the day-of-month, clamped to
// the last valid day when the target month is shorter. Jan 31 + 1 month is
// Feb 29 in a leap year and Feb 28 otherwise. This deliberately avoids
// time.Time.AddDate, whose month-end overflow rolls into the next month.
func AddMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()

	total := int(month) - 1 + months
	targetYear := year + total/12
	targetMonth := time.Month(total%12 + 1)
	if total < 0 {
		// Go's integer division truncates toward zero; fix up negative wraps.
		targetYear = year + (total-11)/12
		targetMonth = time.Month((total%12+12)%12 + 1)
	}

	if max := DaysInMonth(targetYear, targetMonth); day > max {
		day = max
	}
	return time.Date(targetYear, targetMonth, day, 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the number of calendar days from 'from' to 'to',
// ignoring the time of day. Positive when 'to' is later.
func DaysBetween(from, to time.Time) int {
	f := DateOnly(from).UTC()
	t := DateOnly(to).UTC()
	fDays := time.Date(f.Year(), f.Month(), f.Day(), 0, 0, 0, 0, time.UTC).Unix() / 86400
	tDays := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).Unix() / 86400
	return int(tDays - fDays)
}
