package availability

import (
	"errors"
	"reflect"
	"testing"

	"salonbook/models"
)

func intPtr(v int) *int { return &v }

func clock(h, m int) int { return h*60 + m }

func mondayWindow() *models.WorkingWindow {
	return &models.WorkingWindow{ResourceID: "r1", DayOfWeek: 1, Start: clock(9, 0), End: clock(17, 0)}
}

func booked(start, end int, status models.AppointmentStatus) models.BookedInterval {
	return models.BookedInterval{ResourceID: "r1", Date: "2024-06-03", Start: start, End: end, AppointmentID: "a", Status: status}
}

func TestResolveSkipsBookedInterval(t *testing.T) {
	busy := BusyIntervals([]models.BookedInterval{booked(clock(10, 0), clock(10, 30), models.StatusConfirmed)}, nil, 0)
	req := models.SlotRequest{ResourceID: "r1", Date: "2024-06-03", RequiredDuration: 30, Granularity: 30}

	got, err := Resolve(req, mondayWindow(), busy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var want []int
	for s := clock(9, 0); s+30 <= clock(17, 0); s += 30 {
		if s == clock(10, 0) {
			continue
		}
		want = append(want, s)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("slots mismatch\n got: %v\nwant: %v", got, want)
	}
	if got[len(got)-1] != clock(16, 30) {
		t.Fatalf("expected last slot 16:30, got %d", got[len(got)-1])
	}
}

func TestResolveBoundaryDuration(t *testing.T) {
	window := &models.WorkingWindow{Start: clock(16, 30), End: clock(17, 0)}

	got, err := Resolve(models.SlotRequest{RequiredDuration: 30, Granularity: 30}, window, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, []int{clock(16, 30)}) {
		t.Fatalf("expected exactly 16:30, got %v", got)
	}

	got, err = Resolve(models.SlotRequest{RequiredDuration: 31, Granularity: 30}, window, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no slots for 31 minutes, got %v", got)
	}
}

func TestResolveBreakAndTouching(t *testing.T) {
	window := mondayWindow()
	window.BreakStart = intPtr(clock(12, 0))
	window.BreakEnd = intPtr(clock(13, 0))
	busy := BusyIntervals([]models.BookedInterval{booked(clock(10, 0), clock(11, 0), models.StatusPending)}, nil, 0)

	got, err := Resolve(models.SlotRequest{RequiredDuration: 60, Granularity: 30}, window, busy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int{clock(9, 0), clock(11, 0), clock(13, 0), clock(13, 30), clock(14, 0), clock(14, 30), clock(15, 0), clock(15, 30), clock(16, 0)}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("slots mismatch\n got: %v\nwant: %v", got, want)
	}
}

func TestResolveIgnoresNonOccupyingStatuses(t *testing.T) {
	busy := BusyIntervals([]models.BookedInterval{
		booked(clock(9, 0), clock(17, 0), models.StatusCancelled),
		booked(clock(9, 0), clock(17, 0), models.StatusNoShow),
	}, nil, 0)
	got, err := Resolve(models.SlotRequest{RequiredDuration: 480, Granularity: 15}, mondayWindow(), busy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, []int{clock(9, 0)}) {
		t.Fatalf("expected the whole day free, got %v", got)
	}
}

func TestResolveBufferAndBlockedTime(t *testing.T) {
	busy := BusyIntervals(
		[]models.BookedInterval{booked(clock(10, 0), clock(10, 30), models.StatusConfirmed)},
		[]models.BlockedTime{{ResourceID: "r1", Date: "2024-06-03", Start: clock(14, 0), End: clock(17, 0), Type: models.BlockedTraining}},
		15,
	)
	got, err := Resolve(models.SlotRequest{RequiredDuration: 30, Granularity: 15}, mondayWindow(), busy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, s := range got {
		if s+30 > clock(9, 45) && s < clock(10, 45) {
			t.Fatalf("slot %d intrudes on buffered booking", s)
		}
		if s+30 > clock(14, 0) {
			t.Fatalf("slot %d intrudes on blocked time", s)
		}
	}
	if got[0] != clock(9, 0) || got[len(got)-1] != clock(13, 30) {
		t.Fatalf("unexpected range %v", got)
	}
}

func TestResolveArbitraryGranularity(t *testing.T) {
	window := &models.WorkingWindow{Start: clock(9, 0), End: clock(10, 0)}
	got, err := Resolve(models.SlotRequest{RequiredDuration: 20, Granularity: 17}, window, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int{540, 557, 574}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestResolveDayOffAndInvalidInput(t *testing.T) {
	got, err := Resolve(models.SlotRequest{RequiredDuration: 30, Granularity: 30}, nil, nil)
	if err != nil || len(got) != 0 {
		t.Fatalf("expected empty slots for day off, got %v, %v", got, err)
	}
	if _, err := Resolve(models.SlotRequest{RequiredDuration: 0, Granularity: 30}, mondayWindow(), nil); !errors.Is(err, ErrInvalidDuration) {
		t.Fatalf("expected ErrInvalidDuration, got %v", err)
	}
	if _, err := Resolve(models.SlotRequest{RequiredDuration: 30, Granularity: 0}, mondayWindow(), nil); !errors.Is(err, ErrInvalidGranularity) {
		t.Fatalf("expected ErrInvalidGranularity, got %v", err)
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	busy := BusyIntervals([]models.BookedInterval{
		booked(clock(13, 0), clock(14, 0), models.StatusConfirmed),
		booked(clock(9, 30), clock(10, 0), models.StatusConfirmed),
		booked(clock(9, 45), clock(10, 15), models.StatusCheckedIn),
	}, nil, 0)
	req := models.SlotRequest{RequiredDuration: 45, Granularity: 15}
	first, _ := Resolve(req, mondayWindow(), busy)
	second, _ := Resolve(req, mondayWindow(), busy)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("resolve is not deterministic: %v vs %v", first, second)
	}
	for i := 1; i < len(first); i++ {
		if first[i] <= first[i-1] {
			t.Fatalf("slots not strictly ascending at %d: %v", i, first)
		}
	}
}

func TestFits(t *testing.T) {
	window := mondayWindow()
	window.BreakStart = intPtr(clock(12, 0))
	window.BreakEnd = intPtr(clock(12, 30))
	busy := BusyIntervals(
		[]models.BookedInterval{booked(clock(10, 0), clock(11, 0), models.StatusConfirmed)},
		[]models.BlockedTime{{Start: clock(15, 0), End: clock(16, 0)}},
		0,
	)

	cases := []struct {
		name     string
		window   *models.WorkingWindow
		start    int
		duration int
		want     Verdict
	}{
		{"free", window, clock(9, 0), 60, Free},
		{"touching before", window, clock(11, 0), 60, Free},
		{"off grid", window, clock(13, 7), 20, Free},
		{"occupied", window, clock(10, 30), 30, Occupied},
		{"break", window, clock(11, 45), 30, DuringBreak},
		{"blocked", window, clock(14, 30), 60, Blocked},
		{"too early", window, clock(8, 30), 60, OutsideHours},
		{"past close", window, clock(16, 45), 30, OutsideHours},
		{"day off", nil, clock(10, 0), 30, DayOff},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Fits(tc.window, busy, tc.start, tc.duration)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("Fits = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestIntersect(t *testing.T) {
	got := Intersect([]int{540, 570, 600, 630}, []int{570, 630, 660}, []int{630, 570})
	if !reflect.DeepEqual(got, []int{570, 630}) {
		t.Fatalf("got %v", got)
	}
	if got := Intersect([]int{540}, []int{600}); len(got) != 0 {
		t.Fatalf("expected empty intersection, got %v", got)
	}
}
