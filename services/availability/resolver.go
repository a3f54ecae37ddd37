// Package availability computes bookable start times from a working window and the
// intervals already occupied on that day. Everything here is pure.
package availability

import (
	"errors"
	"sort"

	"salonbook/models"
)

var (
	ErrInvalidDuration    = errors.New("required duration must be positive")
	ErrInvalidGranularity = errors.New("granularity must be positive")
)

type IntervalKind string

const (
	KindBooking IntervalKind = "booking"
	KindBlocked IntervalKind = "blocked"
	KindBreak   IntervalKind = "break"
)

// Interval is a half-open range [Start, End) in minutes from midnight.
type Interval struct {
	Start int
	End   int
	Kind  IntervalKind
}

func (i Interval) overlaps(start, end int) bool {
	return start < i.End && end > i.Start
}

// BusyIntervals merges booked intervals and blocked times into one busy list.
// Only occupying bookings count and each is widened by buffer minutes on both sides.
// Blocked times are taken as is.
func BusyIntervals(booked []models.BookedInterval, blocked []models.BlockedTime, buffer int) []Interval {
	if buffer < 0 {
		buffer = 0
	}
	busy := make([]Interval, 0, len(booked)+len(blocked))
	for _, b := range booked {
		if !b.Status.Occupying() {
			continue
		}
		busy = append(busy, Interval{Start: b.Start - buffer, End: b.End + buffer, Kind: KindBooking})
	}
	for _, b := range blocked {
		busy = append(busy, Interval{Start: b.Start, End: b.End, Kind: KindBlocked})
	}
	return busy
}

// FreeRanges returns the complement of the break and busy intervals within the window, ascending.
func FreeRanges(window *models.WorkingWindow, busy []Interval) []Interval {
	if window == nil {
		return nil
	}
	obstacles := make([]Interval, 0, len(busy)+1)
	if window.HasBreak() {
		obstacles = append(obstacles, Interval{Start: *window.BreakStart, End: *window.BreakEnd, Kind: KindBreak})
	}
	for _, b := range busy {
		if b.End > b.Start {
			obstacles = append(obstacles, b)
		}
	}
	sort.Slice(obstacles, func(i, j int) bool { return obstacles[i].Start < obstacles[j].Start })

	var free []Interval
	cursor := window.Start
	for _, o := range obstacles {
		if o.Start >= window.End {
			break
		}
		if o.End <= cursor {
			continue
		}
		if o.Start > cursor {
			free = append(free, Interval{Start: cursor, End: o.Start})
		}
		cursor = o.End
	}
	if cursor < window.End {
		free = append(free, Interval{Start: cursor, End: window.End})
	}
	return free
}

// Resolve lists every start time t with [t, t+duration) inside a free range, stepping by
// granularity from each range's start. A nil window is a day off and yields no slots.
func Resolve(req models.SlotRequest, window *models.WorkingWindow, busy []Interval) ([]int, error) {
	if req.RequiredDuration <= 0 {
		return nil, ErrInvalidDuration
	}
	if req.Granularity <= 0 {
		return nil, ErrInvalidGranularity
	}
	starts := []int{}
	if window == nil {
		return starts, nil
	}
	last := -1
	for _, r := range FreeRanges(window, busy) {
		for t := r.Start; t+req.RequiredDuration <= r.End; t += req.Granularity {
			if t > last {
				starts = append(starts, t)
				last = t
			}
		}
	}
	return starts, nil
}

// Verdict explains whether a single window can be booked.
type Verdict string

const (
	Free         Verdict = ""
	DayOff       Verdict = "resource does not work on this day"
	OutsideHours Verdict = "outside working hours"
	DuringBreak  Verdict = "overlaps the break"
	Blocked      Verdict = "overlaps blocked time"
	Occupied     Verdict = "overlaps an existing appointment"
)

// Fits checks the single window [start, start+duration) against the same rules Resolve applies,
// without requiring start to sit on the granularity grid.
func Fits(window *models.WorkingWindow, busy []Interval, start, duration int) (Verdict, error) {
	if duration <= 0 {
		return "", ErrInvalidDuration
	}
	if window == nil {
		return DayOff, nil
	}
	end := start + duration
	if start < window.Start || end > window.End {
		return OutsideHours, nil
	}
	if window.HasBreak() && start < *window.BreakEnd && end > *window.BreakStart {
		return DuringBreak, nil
	}
	for _, b := range busy {
		if !b.overlaps(start, end) {
			continue
		}
		if b.Kind == KindBlocked {
			return Blocked, nil
		}
		return Occupied, nil
	}
	return Free, nil
}

// Intersect returns the start times present in every list, ascending. No lists yields nil.
func Intersect(lists ...[]int) []int {
	if len(lists) == 0 {
		return nil
	}
	counts := make(map[int]int)
	for _, list := range lists {
		seen := make(map[int]bool, len(list))
		for _, t := range list {
			if !seen[t] {
				seen[t] = true
				counts[t]++
			}
		}
	}
	common := []int{}
	for t, n := range counts {
		if n == len(lists) {
			common = append(common, t)
		}
	}
	sort.Ints(common)
	return common
}
