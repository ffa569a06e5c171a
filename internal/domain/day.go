package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// DayLayout is the wire and storage format of a calendar day.
const DayLayout = "2006-01-02"

// Day is a calendar date without a time-of-day component. Two Days are equal
// when they name the same date, regardless of where they were parsed from.
type Day struct {
	year  int
	month time.Month
	day   int
}

// DayOf truncates t to its calendar date in t's own location.
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return Day{year: y, month: m, day: d}
}

// NewDay builds a Day, normalizing out-of-range values the way time.Date does.
func NewDay(year int, month time.Month, day int) Day {
	return DayOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// ParseDay accepts YYYY-MM-DD, RFC3339 timestamps and "YYYY-MM-DD HH:MM:SS".
// Timestamps are truncated to their date.
func ParseDay(s string) (Day, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{DayLayout, time.RFC3339Nano, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return DayOf(t), nil
		}
	}
	return Day{}, fmt.Errorf("invalid day %q: expected YYYY-MM-DD", s)
}

func (d Day) IsZero() bool { return d == Day{} }

// Time returns midnight UTC of the day.
func (d Day) Time() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

func (d Day) String() string { return d.Time().Format(DayLayout) }

// Compare returns -1, 0 or +1.
func (d Day) Compare(o Day) int {
	switch {
	case d.year != o.year:
		return cmpInt(d.year, o.year)
	case d.month != o.month:
		return cmpInt(int(d.month), int(o.month))
	default:
		return cmpInt(d.day, o.day)
	}
}

func (d Day) Before(o Day) bool { return d.Compare(o) < 0 }

func (d Day) After(o Day) bool { return d.Compare(o) > 0 }

func (d Day) AddDays(n int) Day { return DayOf(d.Time().AddDate(0, 0, n)) }

func (d Day) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Day) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDay(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value stores the day as a DATE literal.
func (d Day) Value() (driver.Value, error) {
	return d.String(), nil
}

// Scan reads DATE columns as returned by lib/pq (time.Time) or as text.
func (d *Day) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = DayOf(v)
		return nil
	case string:
		parsed, err := ParseDay(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case []byte:
		return d.Scan(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Day", src)
	}
}

func cmpInt(a, b int) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// DaySet is an unordered set of distinct calendar days.
type DaySet map[Day]struct{}

func NewDaySet(days ...Day) DaySet {
	s := make(DaySet, len(days))
	for _, d := range days {
		s.Add(d)
	}
	return s
}

func (s DaySet) Add(d Day) { s[d] = struct{}{} }

func (s DaySet) Contains(d Day) bool {
	_, ok := s[d]
	return ok
}

func (s DaySet) Len() int { return len(s) }

// Sorted returns the days in ascending order.
func (s DaySet) Sorted() []Day {
	out := make([]Day, 0, len(s))
	for d := range s {
		out = append(out, d)
	}
	SortDays(out)
	return out
}

func (s DaySet) Intersect(o DaySet) DaySet {
	out := make(DaySet)
	for d := range s {
		if o.Contains(d) {
			out.Add(d)
		}
	}
	return out
}

func (s DaySet) Union(o DaySet) DaySet {
	out := make(DaySet, len(s)+len(o))
	for d := range s {
		out.Add(d)
	}
	for d := range o {
		out.Add(d)
	}
	return out
}

// NormalizeDays collapses the input into a set and reports every day that
// appeared more than once, ascending.
func NormalizeDays(days []Day) (DaySet, []Day) {
	set := make(DaySet, len(days))
	repeated := make(DaySet)
	for _, d := range days {
		if set.Contains(d) {
			repeated.Add(d)
			continue
		}
		set.Add(d)
	}
	return set, repeated.Sorted()
}

func SortDays(days []Day) {
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
}

// DayStrings formats days as YYYY-MM-DD, preserving order.
func DayStrings(days []Day) []string {
	out := make([]string, len(days))
	for i, d := range days {
		out[i] = d.String()
	}
	return out
}
