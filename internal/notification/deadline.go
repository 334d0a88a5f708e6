package notification

import "time"

// NextOccurrence returns the first occurrence of the deadline strictly after now.
// The candidate is the deadline's day in the current month; if that has already
// passed (or is today), the occurrence rolls to the next month.
func (d Deadline) NextOccurrence(now time.Time) time.Time {
	candidate := time.Date(now.Year(), now.Month(), d.MonthlyDay, 0, 0, 0, 0, now.Location())
	if !candidate.After(now) {
		candidate = candidate.AddDate(0, 1, 0)
	}
	return candidate
}

// DaysUntil counts the days from now to the occurrence, rounding partial days up.
func DaysUntil(now, occurrence time.Time) int {
	diff := occurrence.Sub(now)
	days := int(diff / (24 * time.Hour))
	if diff%(24*time.Hour) > 0 {
		days++
	}
	return days
}

// ReminderDue reports whether a reminder should fire now for this deadline, and
// for which occurrence. Reminders fire only inside the lead window: strictly
// before the deadline and at most LeadDays away.
func (d Deadline) ReminderDue(now time.Time) (time.Time, int, bool) {
	occurrence := d.NextOccurrence(now)
	days := DaysUntil(now, occurrence)
	if days > 0 && days <= d.LeadDays {
		return occurrence, days, true
	}
	return occurrence, days, false
}

// SameDay reports whether two instants fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DayBounds returns the half-open [start, end) range of the calendar day
// containing t, in t's location.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}
