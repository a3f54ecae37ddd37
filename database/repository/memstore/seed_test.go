package memstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

const seedYAML = `
resources:
  - id: stylist-a
    salonId: salon-1
    name: Ana
workingWindows:
  - resourceId: stylist-a
    days: [1, 2, 3]
    start: "09:00"
    end: "17:00"
    breakStart: "12:00"
    breakEnd: "13:00"
blockedTimes:
  - id: b1
    resourceId: stylist-a
    date: "2024-06-04"
    start: "09:00"
    end: "10:00"
    type: training
services:
  - id: cut
    salonId: salon-1
    name: Haircut
    durationMinutes: 30
    price: "25.50"
`

func TestLoadSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte(seedYAML), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	s := New()
	if err := s.LoadSeed(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()

	if _, err := s.GetResource(ctx, "stylist-a"); err != nil {
		t.Fatalf("resource not seeded: %v", err)
	}
	w, err := s.GetWorkingWindow(ctx, "stylist-a", 2)
	if err != nil || w == nil {
		t.Fatalf("window not seeded: %v", err)
	}
	if w.Start != 540 || w.End != 1020 || !w.HasBreak() || *w.BreakStart != 720 {
		t.Fatalf("unexpected window %+v", w)
	}
	if w, _ := s.GetWorkingWindow(ctx, "stylist-a", 0); w != nil {
		t.Fatal("sunday should be a day off")
	}
	blocked, _ := s.GetBlockedTimes(ctx, "stylist-a", "2024-06-04")
	if len(blocked) != 1 || blocked[0].Start != 540 {
		t.Fatalf("unexpected blocked times %+v", blocked)
	}
	svcs, err := s.GetServices(ctx, []string{"cut"})
	if err != nil || svcs[0].Price.StringFixed(2) != "25.50" {
		t.Fatalf("unexpected services %+v: %v", svcs, err)
	}
}

func TestLoadSeedRejectsBadWindow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	bad := "workingWindows:\n  - resourceId: x\n    days: [1]\n    start: \"17:00\"\n    end: \"09:00\"\n"
	if err := os.WriteFile(path, []byte(bad), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	if err := New().LoadSeed(path); err == nil {
		t.Fatal("expected an error for an inverted window")
	}
}
