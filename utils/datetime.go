package utils

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the canonical calendar-date format stored on slots and bookings.
const DateLayout = "2006-01-02"

// TimeLayout is the canonical time-of-day format stored on slots and bookings.
const TimeLayout = "15:04"

var timeInputLayouts = []string{
	TimeLayout,
	"15:04:05",
	"3:04 PM",
	"3:04PM",
	"03:04 PM",
}

// ParseDate parses a "YYYY-MM-DD" date at UTC midnight.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q; expected YYYY-MM-DD", s)
	}
	return d, nil
}

// NormalizeDate validates and re-formats a date string.
func NormalizeDate(s string) (string, error) {
	d, err := ParseDate(s)
	if err != nil {
		return "", err
	}
	return d.Format(DateLayout), nil
}

// NormalizeTime accepts 24h or 12h clock strings and returns "HH:MM".
func NormalizeTime(s string) (string, error) {
	in := strings.ToUpper(strings.TrimSpace(s))
	for _, layout := range timeInputLayouts {
		if t, err := time.Parse(layout, in); err == nil {
			return t.Format(TimeLayout), nil
		}
	}
	return "", fmt.Errorf("invalid time %q; expected HH:MM", s)
}

// NormalizeTimes normalizes every entry, preserving order and dropping duplicates.
func NormalizeTimes(in []string) ([]string, error) {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		t, err := NormalizeTime(s)
		if err != nil {
			return nil, err
		}
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out, nil
}
