package utils

import (
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"09:00", 540, false},
		{"9:30", 570, false},
		{"00:00", 0, false},
		{"24:00", 1440, false},
		{"24:01", 0, true},
		{"12:60", 0, true},
		{"1230", 0, true},
		{"ab:cd", 0, true},
		{"12:5", 0, true},
		{"+9:00", 0, true},
		{"-0:30", 0, true},
		{"09:+5", 0, true},
		{"009:00", 0, true},
		{" 9:00", 540, false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseClock(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ParseClock(%q) expected error, got %d", tc.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseClock(%q) unexpected error: %v", tc.in, err)
			}
			if got != tc.want {
				t.Fatalf("ParseClock(%q) = %d, want %d", tc.in, got, tc.want)
			}
		})
	}
}

func TestFormatClock(t *testing.T) {
	if got := FormatClock(570); got != "09:30" {
		t.Fatalf("FormatClock(570) = %q", got)
	}
	if got := FormatClock(0); got != "00:00" {
		t.Fatalf("FormatClock(0) = %q", got)
	}
}

func TestWeekday(t *testing.T) {
	wd, err := Weekday("2024-06-03")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wd != time.Monday {
		t.Fatalf("expected Monday, got %s", wd)
	}
	if _, err := Weekday("2024-13-01"); err == nil {
		t.Fatal("expected error for invalid month")
	}
}

func TestDateAt(t *testing.T) {
	loc := time.FixedZone("EST", -5*3600)
	got, err := DateAt("2024-06-03", 9*60+15, loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Hour() != 9 || got.Minute() != 15 || got.Location() != loc {
		t.Fatalf("unexpected time %v", got)
	}
}
