package util

import "time"

// ClampedDate returns the date for targetDay in the given month, clamping to
// the last day for months with fewer days (e.g. day 31 in February returns
// Feb 28/29).
func ClampedDate(year int, month time.Month, targetDay int) time.Time {
	lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()

	day := targetDay
	if day > lastDay {
		day = lastDay
	}

	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// PeriodBounds returns the budgeting period [from, to) containing now. The
// period starts on startDay of each month; startDay 1 is a plain calendar
// month. Values outside 1..28 fall back to 1 so every month has the start
// day.
func PeriodBounds(now time.Time, startDay int) (time.Time, time.Time) {
	if startDay < 1 || startDay > 28 {
		startDay = 1
	}

	// Bounds are built in UTC, so the date must be read in UTC too or a
	// caller in another zone near midnight lands outside its own period.
	now = now.UTC()

	year, month, _ := now.Date()
	from := time.Date(year, month, startDay, 0, 0, 0, 0, time.UTC)
	if now.Before(from) {
		from = time.Date(year, month-1, startDay, 0, 0, 0, 0, time.UTC)
	}
	to := time.Date(from.Year(), from.Month()+1, startDay, 0, 0, 0, 0, time.UTC)
	return from, to
}

// PeriodKey returns the stable identifier for the period starting at from,
// used to deduplicate bill payments within a period.
func PeriodKey(from time.Time) string {
	return from.Format("2006-01-02")
}
