package service

import (
	"time"
)

// Occurrence is the next weekly fire time as seen from a given instant.
type Occurrence struct {
	At time.Time
	// DaysUntil is the weekday offset from today, before any one week push.
	// It is 0 whenever today is the target weekday.
	DaysUntil int
	Wait      time.Duration
}

// ComputeNextOccurrence returns the earliest instant strictly after now that falls on
// weekday (ISO 8601, 1=Monday) at hour:minute in now's location. When now is exactly
// the target instant the result is one week later.
func ComputeNextOccurrence(now time.Time, weekday, hour, minute int) Occurrence {
	candidate := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())

	daysUntil := ((weekday-isoWeekday(candidate))%7 + 7) % 7
	next := candidate.AddDate(0, 0, daysUntil)

	if !next.After(now) {
		next = next.AddDate(0, 0, 7)
	}

	return Occurrence{
		At:        next,
		DaysUntil: daysUntil,
		Wait:      next.Sub(now),
	}
}

// isoWeekday converts Go's Sunday=0 numbering to ISO 8601 (Sunday=7).
func isoWeekday(t time.Time) int {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return weekday
}

// weeklySchedule fires once a week. It satisfies cron.Schedule.
type weeklySchedule struct {
	weekday int
	hour    int
	minute  int
}

func (w weeklySchedule) Next(t time.Time) time.Time {
	return ComputeNextOccurrence(t, w.weekday, w.hour, w.minute).At
}

// due reports whether now falls inside the target minute of the target weekday.
// A wake-up outside that window is a missed window, not a fire.
func (w weeklySchedule) due(now time.Time) bool {
	occ := ComputeNextOccurrence(now, w.weekday, w.hour, w.minute)
	return occ.DaysUntil == 0 && now.Hour() == w.hour && now.Minute() == w.minute
}
