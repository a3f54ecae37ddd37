package lock

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestLocalLockerMutualExclusion(t *testing.T) {
	l := NewLocalLocker()
	var inside, maxInside int32
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := l.Acquire(context.Background(), "calendar:r1:2024-06-03")
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			release()
			release()
		}()
	}
	wg.Wait()

	if maxInside != 1 {
		t.Fatalf("expected at most one holder, saw %d", maxInside)
	}
}

func TestLocalLockerIndependentKeys(t *testing.T) {
	l := NewLocalLocker()
	r1, err := l.Acquire(context.Background(), "a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer r1()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	r2, err := l.Acquire(ctx, "b")
	if err != nil {
		t.Fatalf("different key should not block: %v", err)
	}
	r2()
}

func TestLocalLockerHonoursContext(t *testing.T) {
	l := NewLocalLocker()
	release, _ := l.Acquire(context.Background(), "k")
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := l.Acquire(ctx, "k"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestCalendarKey(t *testing.T) {
	if got := CalendarKey("calendar:", "r1", "2024-06-03"); got != "calendar:r1:2024-06-03" {
		t.Fatalf("unexpected key %q", got)
	}
}
