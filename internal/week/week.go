// Package week provides the calendar arithmetic the qualification and agenda
// engines depend on: converting instants to local calendar dates, finding the
// Monday that starts a week, and mapping day-of-week slots onto dates.
//
// All instant-to-date conversions take an explicit *time.Location so tests can
// exercise multiple timezones and concurrent evaluations never race on a
// mutable global. Calendar dates themselves are timezone-free.
package week

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar date in YYYY-MM-DD form with no time-of-day or timezone
// attached. Comparison is lexicographic, which matches calendar order for
// zero-padded ISO dates. Dates derived from instants must go through DateOf
// with the configured location; never format an instant with UTC and compare
// the result against a Date.
type Date string

func (d Date) String() string { return string(d) }

func (d Date) Before(other Date) bool { return d < other }

func (d Date) After(other Date) bool { return d > other }

// Time anchors the date at noon UTC. Noon, not midnight: adding day offsets to
// a midnight-UTC anchor lands on the previous local day in zones behind UTC.
// The result represents a calendar position, never a real moment.
func (d Date) Time() time.Time {
	t, err := time.Parse(dateLayout, string(d))
	if err != nil {
		panic(fmt.Sprintf("week: malformed date %q: %v", d, err))
	}
	return t.Add(12 * time.Hour)
}

// Valid reports whether d parses as a YYYY-MM-DD date.
func (d Date) Valid() bool {
	_, err := time.Parse(dateLayout, string(d))
	return err == nil
}

// DateOf returns the calendar date of the instant as seen on a wall clock in
// loc. At 11:59pm local this is still the current day and at 12:01am it is the
// next one, regardless of where the UTC day boundary falls.
func DateOf(t time.Time, loc *time.Location) Date {
	return Date(t.In(loc).Format(dateLayout))
}

// DayOfWeek returns the local wall-clock weekday of the instant in loc.
func DayOfWeek(t time.Time, loc *time.Location) time.Weekday {
	return t.In(loc).Weekday()
}

// DayOfWeekOfDate returns the weekday a calendar date falls on. The date is
// anchored at noon UTC purely to extract the weekday, so the answer is the
// same on every machine no matter its local timezone.
func DayOfWeekOfDate(d Date) time.Weekday {
	return d.Time().UTC().Weekday()
}

// MondayOf returns the Monday of the week containing the instant, as seen in
// loc. Sunday counts as the last day of the week, six days after its Monday.
func MondayOf(t time.Time, loc *time.Location) Date {
	local := t.In(loc)
	days := DaysSinceMonday(local.Weekday())
	return DateOf(local.AddDate(0, 0, -days), loc)
}

// DaysSinceMonday maps a weekday to its offset from Monday: monday=0 through
// sunday=6.
func DaysSinceMonday(day time.Weekday) int {
	return (int(day) + 6) % 7
}

// MondayOfDate returns the Monday of the week containing the calendar date,
// timezone-independent like all pure date arithmetic here.
func MondayOfDate(d Date) Date {
	t := d.Time().AddDate(0, 0, -DaysSinceMonday(DayOfWeekOfDate(d)))
	return Date(t.UTC().Format(dateLayout))
}

// DateFor returns the date of the given weekday within the week starting at
// monday. The Monday anchor is taken at noon UTC before adding days; midnight
// arithmetic would silently shift Friday to Thursday in zones behind UTC.
func DateFor(monday Date, day time.Weekday) Date {
	t := monday.Time().AddDate(0, 0, DaysSinceMonday(day))
	return Date(t.UTC().Format(dateLayout))
}

// FridayOf returns the end of the work week that starts at monday.
func FridayOf(monday Date) Date {
	return DateFor(monday, time.Friday)
}

var dayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseDay converts a lowercase day name ("monday") to its weekday.
func ParseDay(name string) (time.Weekday, error) {
	day, ok := dayNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("week: unknown day %q", name)
	}
	return day, nil
}

// DayName returns the lowercase name of a weekday.
func DayName(day time.Weekday) string {
	return strings.ToLower(day.String())
}
