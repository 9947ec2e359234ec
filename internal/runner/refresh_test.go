package runner

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestShouldRefresh(t *testing.T) {
	base := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	interval := 1800 * time.Second

	cases := []struct {
		name     string
		last     time.Time
		hasValue bool
		now      time.Time
		want     bool
	}{
		{"never fetched", time.Time{}, false, base, true},
		{"fresh", base, true, base.Add(time.Minute), false},
		{"exactly at interval", base, true, base.Add(interval), false},
		{"past interval", base, true, base.Add(interval + time.Second), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ShouldRefresh(tc.last, interval, tc.hasValue, tc.now); got != tc.want {
				t.Errorf("ShouldRefresh = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestEquityCache_GateIsIdempotentWithinInterval(t *testing.T) {
	c := NewEquityCache()
	interval := 1800 * time.Second
	base := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)

	if !c.TryBeginRefresh(interval, base) {
		t.Fatal("empty cache must admit the first refresh")
	}
	c.FinishRefresh(1000, 800, base)

	// repeated checks inside the window never trigger another fetch
	for _, d := range []time.Duration{0, time.Second, time.Minute, interval} {
		if c.TryBeginRefresh(interval, base.Add(d)) {
			t.Errorf("refresh admitted at +%s, want fresh cache", d)
		}
	}
	if !c.TryBeginRefresh(interval, base.Add(interval+time.Second)) {
		t.Error("refresh refused past the interval, want stale")
	}
	c.CancelRefresh()

	total, avail, at, ok := c.Get()
	if !ok || total != 1000 || avail != 800 || !at.Equal(base) {
		t.Errorf("Get() = (%v, %v, %v, %v), want (1000, 800, %v, true)", total, avail, at, ok, base)
	}
}

func TestEquityCache_SingleRefresherAtBoundary(t *testing.T) {
	c := NewEquityCache()
	interval := 1800 * time.Second
	base := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	c.FinishRefresh(1000, 800, base)

	// N loops cross the boundary together; exactly one claims the fetch
	boundary := base.Add(interval + time.Second)
	const workers = 16
	var claimed atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if c.TryBeginRefresh(interval, boundary) {
				claimed.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	if got := claimed.Load(); got != 1 {
		t.Fatalf("refresh claimed by %d loops, want exactly 1", got)
	}

	// losers keep reading the prior value while the claim is held
	total, _, _, ok := c.Get()
	if !ok || total != 1000 {
		t.Errorf("Get() during refresh = (%v, %v), want prior value 1000", total, ok)
	}

	// a failed fetch releases the claim for the next iteration
	c.CancelRefresh()
	if !c.TryBeginRefresh(interval, boundary.Add(time.Second)) {
		t.Error("refresh not re-admitted after a cancelled claim")
	}
}
