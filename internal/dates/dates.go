// Package dates parses the calendar dates accepted in API paths and formats
// them the way measurement.date is stored.
package dates

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Layout is the storage format of measurement.date.
const Layout = "2006-01-02"

// Formats lists the accepted input formats, in the order they are tried.
const Formats = "yyyymmdd, yyyy-mm-dd, or yyyy mm dd"

// Date is a calendar date without time of day or location.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

func (d Date) IsZero() bool {
	return d == Date{}
}

// InvalidDateError is returned when no strategy accepts the input.
type InvalidDateError struct {
	Input  string
	Reason string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date %q: %s (expected %s)", e.Input, e.Reason, Formats)
}

type strategy struct {
	name string
	// split returns the year, month and day fields, or ok=false when the
	// input does not have this strategy's shape.
	split func(s string) (fields []string, ok bool)
}

var strategies = []strategy{
	{name: "space separated", split: separatedBy(" ")},
	{name: "hyphen separated", split: separatedBy("-")},
	{name: "unseparated", split: unseparated},
}

func separatedBy(sep string) func(string) ([]string, bool) {
	return func(s string) ([]string, bool) {
		if !strings.Contains(s, sep) {
			return nil, false
		}
		return strings.Split(s, sep), true
	}
}

func unseparated(s string) ([]string, bool) {
	if len(s) != 8 {
		return nil, false
	}
	return []string{s[0:4], s[4:6], s[6:8]}, true
}

// Parse tries each accepted format in order. The first format whose shape
// matches the input decides the outcome: its fields must be numeric and form
// a real calendar date.
func Parse(s string) (Date, error) {
	for _, st := range strategies {
		fields, ok := st.split(s)
		if !ok {
			continue
		}
		d, err := fromFields(fields)
		if err != nil {
			return Date{}, &InvalidDateError{Input: s, Reason: st.name + ": " + err.Error()}
		}
		return d, nil
	}
	return Date{}, &InvalidDateError{Input: s, Reason: "unrecognized format"}
}

func fromFields(fields []string) (Date, error) {
	if len(fields) != 3 {
		return Date{}, fmt.Errorf("want 3 fields, got %d", len(fields))
	}
	nums := make([]int, 3)
	for i, f := range fields {
		if f == "" || strings.TrimLeft(f, "0123456789") != "" {
			return Date{}, fmt.Errorf("field %q is not numeric", f)
		}
		n, err := strconv.Atoi(f)
		if err != nil {
			return Date{}, fmt.Errorf("field %q: %w", f, err)
		}
		nums[i] = n
	}
	year, month, day := nums[0], nums[1], nums[2]
	if year < 1 || year > 9999 {
		return Date{}, fmt.Errorf("year %d out of range", year)
	}
	if month < 1 || month > 12 {
		return Date{}, fmt.Errorf("month %d out of range", month)
	}
	// time.Date normalizes overflowing days; a mismatch means the day does
	// not exist in that month.
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if day < 1 || t.Day() != day {
		return Date{}, fmt.Errorf("day %d out of range for %s %d", day, time.Month(month), year)
	}
	return Date{Year: year, Month: time.Month(month), Day: day}, nil
}
