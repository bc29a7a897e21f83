// Package recurrence decides which calendar dates a (possibly recurring)
// appointment falls on. It is pure date arithmetic: no I/O, no clock reads.
// Every read path that expands occurrences goes through this package so the
// calendar and list views can never disagree about the same definition.
package recurrence

import (
	"time"

	"github.com/hearthhq/hearth/internal/model"
)

var weekdayTokens = map[string]time.Weekday{
	"sun": time.Sunday,
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
}

var weekdayNames = map[time.Weekday]string{
	time.Sunday:    "sun",
	time.Monday:    "mon",
	time.Tuesday:   "tue",
	time.Wednesday: "wed",
	time.Thursday:  "thu",
	time.Friday:    "fri",
	time.Saturday:  "sat",
}

// ParseWeekday maps a weekday token ("mon", "tue", ...) to a time.Weekday.
func ParseWeekday(token string) (time.Weekday, bool) {
	wd, ok := weekdayTokens[token]
	return wd, ok
}

// WeekdayToken returns the token for a time.Weekday.
func WeekdayToken(wd time.Weekday) string {
	return weekdayNames[wd]
}

// Matches reports whether the appointment has an occurrence on candidate.
// Comparison is date-only: the time-of-day components of both the anchor
// date and the candidate are ignored, and an end date bounds occurrences
// inclusively (the end date itself still matches).
//
// Monthly recurrence clamps to the last day of short months: an appointment
// anchored on the 31st occurs on Apr 30, Feb 28 (29 in leap years), and so
// on, rather than skipping those months.
func Matches(a model.Appointment, candidate time.Time) bool {
	day := dateOnly(candidate)
	anchor := dateOnly(a.Date)

	if a.EndDate != nil && day.After(dateOnly(*a.EndDate)) {
		return false
	}

	switch a.RepeatType {
	case model.RepeatNone, "":
		return day.Equal(anchor)

	case model.RepeatDaily:
		return !day.Before(anchor)

	case model.RepeatWeekly:
		if day.Before(anchor) {
			return false
		}
		if len(a.Weekdays) > 0 {
			for _, token := range a.Weekdays {
				if wd, ok := weekdayTokens[token]; ok && wd == day.Weekday() {
					return true
				}
			}
			return false
		}
		// No explicit weekday selection: repeat on the anchor's weekday.
		return day.Weekday() == anchor.Weekday()

	case model.RepeatMonthly:
		if day.Before(anchor) {
			return false
		}
		want := anchor.Day()
		if last := daysInMonth(day.Year(), day.Month()); want > last {
			want = last
		}
		return day.Day() == want
	}

	return false
}

// OccurrencesInRange returns every date in [start, endExclusive) on which
// the appointment occurs, in ascending order. It steps day by day; fine for
// household-scale data (tens of appointments, ranges of weeks).
func OccurrencesInRange(a model.Appointment, start, endExclusive time.Time) []time.Time {
	var dates []time.Time
	for day := dateOnly(start); day.Before(dateOnly(endExclusive)); day = day.AddDate(0, 0, 1) {
		if Matches(a, day) {
			dates = append(dates, day)
		}
	}
	return dates
}

// dateOnly collapses a time to midnight UTC of its calendar day, so that
// values carrying different locations still compare equal when they name
// the same year/month/day.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
