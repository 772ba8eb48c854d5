package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Minutes is a time-of-day value counted as minutes since midnight.
// Defense slots and availability windows compare these numerically;
// the zero-padded HH:MM representation exists only at the JSON and
// database boundary.
type Minutes int

// ParseClock converts a zero-padded "HH:MM" string into Minutes.
func ParseClock(raw string) (Minutes, error) {
	raw = strings.TrimSpace(raw)
	var h, m int
	if _, err := fmt.Sscanf(raw, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid clock value %q: %w", raw, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock value %q out of range", raw)
	}
	return Minutes(h*60 + m), nil
}

// MustClock parses a clock string and panics on failure. For fixed
// slot tables declared at package init.
func MustClock(raw string) Minutes {
	m, err := ParseClock(raw)
	if err != nil {
		panic(err)
	}
	return m
}

// Clock renders the value as a zero-padded "HH:MM" string.
func (m Minutes) Clock() string {
	return fmt.Sprintf("%02d:%02d", int(m)/60, int(m)%60)
}

// MarshalJSON renders Minutes as an "HH:MM" string.
func (m Minutes) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Clock())
}

// UnmarshalJSON accepts an "HH:MM" string.
func (m *Minutes) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseClock(raw)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Value implements driver.Valuer, storing the "HH:MM" form.
func (m Minutes) Value() (driver.Value, error) {
	return m.Clock(), nil
}

// Scan implements sql.Scanner for VARCHAR and TIME columns.
func (m *Minutes) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*m = 0
		return nil
	case string:
		parsed, err := ParseClock(v)
		if err != nil {
			return err
		}
		*m = parsed
		return nil
	case []byte:
		parsed, err := ParseClock(string(v))
		if err != nil {
			return err
		}
		*m = parsed
		return nil
	case time.Time:
		*m = Minutes(v.Hour()*60 + v.Minute())
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Minutes", src)
	}
}

// Weekday is a canonical uppercase day-of-week label.
type Weekday string

const (
	Monday    Weekday = "MONDAY"
	Tuesday   Weekday = "TUESDAY"
	Wednesday Weekday = "WEDNESDAY"
	Thursday  Weekday = "THURSDAY"
	Friday    Weekday = "FRIDAY"
	Saturday  Weekday = "SATURDAY"
	Sunday    Weekday = "SUNDAY"
)

var weekdayNames = map[time.Weekday]Weekday{
	time.Monday:    Monday,
	time.Tuesday:   Tuesday,
	time.Wednesday: Wednesday,
	time.Thursday:  Thursday,
	time.Friday:    Friday,
	time.Saturday:  Saturday,
	time.Sunday:    Sunday,
}

// WeekdayOf maps a calendar date to its Weekday label.
func WeekdayOf(t time.Time) Weekday {
	return weekdayNames[t.Weekday()]
}

// ParseWeekday normalises an input label to a known Weekday.
func ParseWeekday(raw string) (Weekday, error) {
	day := Weekday(strings.ToUpper(strings.TrimSpace(raw)))
	switch day {
	case Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday:
		return day, nil
	}
	return "", fmt.Errorf("unknown weekday %q", raw)
}

// IsWeekend reports whether the date falls on Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
