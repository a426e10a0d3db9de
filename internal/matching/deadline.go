package matching

import (
	"time"
)

// DeadlineLayout is the calendar-date form deadlines are stored in.
const DeadlineLayout = "2006-01-02"

// Classification is the result of classifying a deadline against a reference
// instant. DaysLeft is nil when the deadline did not parse.
type Classification struct {
	ClosingSoon bool
	DaysLeft    *int
}

// Classify parses a YYYY-MM-DD deadline and reports how many calendar days
// remain from now, flagging ClosingSoon when 0 <= days <= windowDays.
//
// Parse failures fail open: the scholarship is never filtered out for a bad
// date, so the result is {ClosingSoon: false, DaysLeft: nil}.
//
// windowDays is a per-call-site policy (results view, sweep, reminder tiers
// all differ); there is deliberately no shared default here.
func Classify(deadline string, now time.Time, windowDays int) Classification {
	d, err := time.Parse(DeadlineLayout, deadline)
	if err != nil {
		return Classification{}
	}

	days := DaysBetween(now, d)
	return Classification{
		ClosingSoon: days >= 0 && days <= windowDays,
		DaysLeft:    &days,
	}
}

// DaysBetween returns the whole calendar days from the date of `from` to the
// date of `to`, ignoring time-of-day.
func DaysBetween(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	f := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	t := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}
