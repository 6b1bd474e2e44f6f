package week

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Policy selects the first day of a week bucket.
type Policy int

const (
	MondayStart Policy = iota
	SundayStart
)

// ErrUnknownPolicy indicates a policy name that is neither monday nor sunday.
var ErrUnknownPolicy = errors.New("unknown week start policy")

// ParsePolicy converts a config value into a Policy.
func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "monday", "mon":
		return MondayStart, nil
	case "sunday", "sun":
		return SundayStart, nil
	default:
		return MondayStart, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
}

func (p Policy) String() string {
	if p == SundayStart {
		return "sunday"
	}
	return "monday"
}

// Calendar buckets instants into weeks in a single location.
type Calendar struct {
	Policy   Policy
	Location *time.Location
	// ISOWeek appends the ISO-8601 week number to labels.
	ISOWeek bool
}

// NewCalendar returns a calendar for the policy; a nil location means time.Local.
func NewCalendar(policy Policy, loc *time.Location) Calendar {
	if loc == nil {
		loc = time.Local
	}
	return Calendar{Policy: policy, Location: loc}
}

func (c Calendar) location() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

// In converts t to the calendar location.
func (c Calendar) In(t time.Time) time.Time {
	return t.In(c.location())
}

// Start returns midnight of the first day of the week containing t.
func (c Calendar) Start(t time.Time) time.Time {
	local := t.In(c.location())
	day := int(local.Weekday()) // Sunday=0
	var shift int
	switch c.Policy {
	case SundayStart:
		shift = -day
	default:
		if day == 0 {
			shift = -6
		} else {
			shift = 1 - day
		}
	}
	y, m, d := local.Date()
	return time.Date(y, m, d+shift, 0, 0, 0, 0, c.location())
}

// Key is the bucket key: the week start in epoch milliseconds.
func (c Calendar) Key(t time.Time) int64 {
	return c.Start(t).UnixMilli()
}

// Current returns the start of the week containing now.
func (c Calendar) Current(now time.Time) time.Time {
	return c.Start(now)
}

// Shift moves a week start by n weeks using calendar days, so DST changes
// never push the result off midnight.
func (c Calendar) Shift(start time.Time, n int) time.Time {
	s := c.Start(start)
	y, m, d := s.Date()
	return time.Date(y, m, d+7*n, 0, 0, 0, 0, c.location())
}

// End returns the last day of the bucket (start + 6 days, midnight).
func (c Calendar) End(start time.Time) time.Time {
	s := c.Start(start)
	y, m, d := s.Date()
	return time.Date(y, m, d+6, 0, 0, 0, 0, c.location())
}

// Contains reports whether t falls into the bucket beginning at start.
func (c Calendar) Contains(start, t time.Time) bool {
	return c.Key(t) == c.Start(start).UnixMilli()
}

// ISOWeekOf returns the ISO-8601 year and week of the bucket's Monday.
func (c Calendar) ISOWeekOf(start time.Time) (year, week int) {
	s := c.Start(start)
	if c.Policy == SundayStart {
		s = s.AddDate(0, 0, 1)
	}
	return s.ISOWeek()
}

// Label renders "Jan 1 – Jan 7", with the ISO week appended when enabled.
func (c Calendar) Label(start time.Time) string {
	s := c.Start(start)
	e := c.End(start)
	label := fmt.Sprintf("%s – %s", s.Format("Jan 2"), e.Format("Jan 2"))
	if c.ISOWeek {
		_, w := c.ISOWeekOf(s)
		label = fmt.Sprintf("%s · W%02d", label, w)
	}
	return label
}
