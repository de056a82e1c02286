// Package period computes the accounting period boundaries that contain a
// given instant.
//
// Two cadence rules exist. The calendar half-month rule is the default: the
// month is split into [1st, 14th] and [15th, last day], and periods realign
// to those boundaries regardless of when the previous one closed. The
// rolling rule instead opens a fresh 14-day window at every reset.
package period

import "time"

// Number of days in a rolling window.
const rollingDays = 14

// Last day of the first calendar half of a month.
const halfMonthSplitDay = 14

// Span is a bounded date range during which points accumulate. Start and End
// are dates (UTC midnight); End is inclusive, so the first instant outside
// the span is the day after End.
type Span struct {
	Start time.Time
	End   time.Time
}

// IsZero reports whether the span is unset.
func (s Span) IsZero() bool {
	return s.Start.IsZero() && s.End.IsZero()
}

// Contains reports whether the date of t falls within [Start, End].
func (s Span) Contains(t time.Time) bool {
	d := DateOf(t)
	return !d.Before(s.Start) && !d.After(s.End)
}

// Equal reports whether two spans describe the same boundary pair.
func (s Span) Equal(o Span) bool {
	return s.Start.Equal(o.Start) && s.End.Equal(o.End)
}

// Clock maps instants to accounting periods under one cadence rule.
type Clock interface {
	// Current returns the span that contains today. Any valid calendar
	// date maps to exactly one span; there are no error conditions.
	Current(today time.Time) Span

	// Elapsed reports whether now falls outside the given span, meaning
	// the span must be closed before any further ledger access.
	Elapsed(s Span, now time.Time) bool
}

// DateOf truncates an instant to its UTC date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// HalfMonthClock implements the calendar-aligned half-month cadence.
type HalfMonthClock struct{}

// NewHalfMonthClock creates the default calendar half-month clock.
func NewHalfMonthClock() HalfMonthClock {
	return HalfMonthClock{}
}

// Current returns [1st, 14th] when today's day is 14 or earlier, otherwise
// [15th, last day of the month].
func (HalfMonthClock) Current(today time.Time) Span {
	d := DateOf(today)
	y, m, _ := d.Date()
	if d.Day() <= halfMonthSplitDay {
		return Span{
			Start: time.Date(y, m, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(y, m, halfMonthSplitDay, 0, 0, 0, 0, time.UTC),
		}
	}
	return Span{
		Start: time.Date(y, m, halfMonthSplitDay+1, 0, 0, 0, 0, time.UTC),
		End:   lastDayOfMonth(y, m),
	}
}

// Elapsed reports whether now's date is outside the span.
func (HalfMonthClock) Elapsed(s Span, now time.Time) bool {
	if s.IsZero() {
		return false
	}
	return !s.Contains(now)
}

// lastDayOfMonth returns the final date of (y, m).
func lastDayOfMonth(y int, m time.Month) time.Time {
	return time.Date(y, m+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
}

// RollingClock implements the rolling 14-day cadence: every reset opens a
// fresh window anchored at the reset date.
type RollingClock struct{}

// NewRollingClock creates a rolling 14-day clock.
func NewRollingClock() RollingClock {
	return RollingClock{}
}

// Current anchors a 14-day window at today.
func (RollingClock) Current(today time.Time) Span {
	d := DateOf(today)
	return Span{Start: d, End: d.AddDate(0, 0, rollingDays-1)}
}

// Elapsed reports whether at least 14 days have passed since the window
// opened.
func (RollingClock) Elapsed(s Span, now time.Time) bool {
	if s.IsZero() {
		return false
	}
	return !DateOf(now).Before(s.Start.AddDate(0, 0, rollingDays))
}
