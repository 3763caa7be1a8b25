package domain

import (
	"fmt"
	"time"
)

// Days identifies one of the fixed meeting-day pairs a section can be
// scheduled on.  Each value maps to a bitmask of weekdays so that overlap
// checks reduce to a bitwise AND.
type Days uint8

const (
	// MTH meets Monday and Thursday.
	MTH Days = 1<<time.Monday | 1<<time.Thursday
	// TF meets Tuesday and Friday.
	TF Days = 1<<time.Tuesday | 1<<time.Friday
	// WS meets Wednesday and Saturday.
	WS Days = 1<<time.Wednesday | 1<<time.Saturday
)

// ParseDays converts the stored string form back to a Days value.
func ParseDays(s string) (Days, error) {
	switch s {
	case "MTH":
		return MTH, nil
	case "TF":
		return TF, nil
	case "WS":
		return WS, nil
	}
	return 0, fmt.Errorf("unknown days value: %q", s)
}

func (d Days) String() string {
	switch d {
	case MTH:
		return "MTH"
	case TF:
		return "TF"
	case WS:
		return "WS"
	}
	return fmt.Sprintf("Days(%d)", uint8(d))
}

// sharesDay reports whether the two day sets have any weekday in common.
func (d Days) sharesDay(other Days) bool { return d&other != 0 }

// Period is a time-of-day interval within a single meeting day.  Start and
// End are minutes since midnight with Start < End.  The zero Period is not
// valid; construct through NewPeriod.
type Period struct {
	Start int
	End   int
}

// NewPeriod parses "HH:MM" start and end times into a Period.  The end must
// be strictly after the start.
func NewPeriod(start, end string) (Period, error) {
	s, err := parseMinutes(start)
	if err != nil {
		return Period{}, err
	}
	e, err := parseMinutes(end)
	if err != nil {
		return Period{}, err
	}
	if s >= e {
		return Period{}, fmt.Errorf("period start %s must be before end %s", start, end)
	}
	return Period{Start: s, End: e}, nil
}

func parseMinutes(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// overlaps applies half-open interval overlap: two periods overlap unless
// one ends at or before the other begins.
func (p Period) overlaps(other Period) bool {
	return !(p.End <= other.Start || other.End <= p.Start)
}

func (p Period) String() string {
	return fmt.Sprintf("%02d:%02d-%02d:%02d", p.Start/60, p.Start%60, p.End/60, p.End%60)
}

// Schedule is the immutable meeting time of a section: a day pair plus one
// period.  Schedules are compared by value.
type Schedule struct {
	Days   Days
	Period Period
}

// Overlaps reports whether the two schedules share at least one day and
// their periods overlap.  A schedule always overlaps itself.
func (s Schedule) Overlaps(other Schedule) bool {
	return s.Days.sharesDay(other.Days) && s.Period.overlaps(other.Period)
}

func (s Schedule) String() string {
	return fmt.Sprintf("%s %s", s.Days, s.Period)
}
