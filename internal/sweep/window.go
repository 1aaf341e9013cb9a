package sweep

import "time"

// DayWindow returns the calendar-day window [today+offset 00:00:00,
// today+offset 23:59:59] in now's location.
func DayWindow(now time.Time, offsetDays int) (from, to time.Time) {
	day := now.AddDate(0, 0, offsetDays)
	from = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	to = time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 0, day.Location())
	return from, to
}
