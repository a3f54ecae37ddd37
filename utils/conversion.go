package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire and storage format for civil dates.
const DateLayout = "2006-01-02"

// ParseClock converts "HH:MM" into minutes from midnight.
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 || len(parts[0]) == 0 || len(parts[0]) > 2 || len(parts[1]) != 2 ||
		!allDigits(parts[0]) || !allDigits(parts[1]) {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q: %w", s, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q: %w", s, err)
	}
	// 24:00 is allowed as an end-of-day marker.
	if h < 0 || h > 24 || m < 0 || m > 59 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("time %q out of range", s)
	}
	return h*60 + m, nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// FormatClock converts minutes from midnight into "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// FormatClocks formats a slice of minute offsets.
func FormatClocks(minutes []int) []string {
	out := make([]string, 0, len(minutes))
	for _, m := range minutes {
		out = append(out, FormatClock(m))
	}
	return out
}

// ParseDate parses a civil date in DateLayout. The result is midnight UTC.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", s, err)
	}
	return d, nil
}

// FormatDate renders the civil date part of t.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Weekday returns the day of week (0 = Sunday) for a civil date string.
func Weekday(date string) (time.Weekday, error) {
	d, err := ParseDate(date)
	if err != nil {
		return 0, err
	}
	return d.Weekday(), nil
}

// DateAt combines a civil date and minutes from midnight in loc.
func DateAt(date string, minutes int, loc *time.Location) (time.Time, error) {
	d, err := ParseDate(date)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 0, minutes, 0, 0, loc), nil
}
