package domain

import (
	"time"
)

const monthLayout = "2006-01"

// MonthKey returns the UTC YYYY-MM bucket of t.
func MonthKey(t time.Time) string {
	return t.UTC().Format(monthLayout)
}

// ParseMonth parses a YYYY-MM key into the first instant of that month in UTC.
func ParseMonth(month string) (time.Time, error) {
	if err := ValidateMonth(month); err != nil {
		return time.Time{}, err
	}
	return time.Parse(monthLayout, month)
}

// NextMonth returns the month key following month.
func NextMonth(month string) (string, error) {
	start, err := ParseMonth(month)
	if err != nil {
		return "", err
	}
	return MonthKey(start.AddDate(0, 1, 0)), nil
}

// PreviousMonth returns the month key preceding month.
func PreviousMonth(month string) (string, error) {
	start, err := ParseMonth(month)
	if err != nil {
		return "", err
	}
	return MonthKey(start.AddDate(0, -1, 0)), nil
}

// MonthLabel renders a month key as "Jan 2006".
func MonthLabel(month string) string {
	start, err := ParseMonth(month)
	if err != nil {
		return month
	}
	return start.Format("Jan 2006")
}
