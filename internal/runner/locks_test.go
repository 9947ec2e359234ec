package runner

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestLockRegistry_SingleWinner(t *testing.T) {
	r := NewLockRegistry()

	const workers = 32
	var acquired atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if r.TryAcquire("BTCUSDT") {
				acquired.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	if got := acquired.Load(); got != 1 {
		t.Fatalf("acquired = %d, want exactly 1", got)
	}
}

func TestLockRegistry_IndependentSymbols(t *testing.T) {
	r := NewLockRegistry()

	if !r.TryAcquire("BTCUSDT") {
		t.Fatal("first acquire on BTCUSDT failed")
	}
	if !r.TryAcquire("ETHUSDT") {
		t.Fatal("acquire on ETHUSDT blocked by BTCUSDT holder")
	}
	if r.TryAcquire("BTCUSDT") {
		t.Fatal("second acquire on held BTCUSDT succeeded")
	}
}

func TestLockRegistry_ReleaseAllowsReacquire(t *testing.T) {
	r := NewLockRegistry()

	if !r.TryAcquire("XRPUSDT") {
		t.Fatal("initial acquire failed")
	}
	r.Release("XRPUSDT")
	if !r.TryAcquire("XRPUSDT") {
		t.Fatal("reacquire after release failed")
	}
}
