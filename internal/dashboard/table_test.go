package dashboard

import (
	"sync"
	"testing"
	"time"

	"scalper_bot/internal/models"
)

func TestTable_PutGetLastWriteWins(t *testing.T) {
	tbl := NewTable()

	tbl.Put(models.SymbolStatus{Symbol: "BTCUSDT", Balance: 100})
	tbl.Put(models.SymbolStatus{Symbol: "BTCUSDT", Balance: 200})

	st, ok := tbl.Get("BTCUSDT")
	if !ok {
		t.Fatal("no record for BTCUSDT")
	}
	if st.Balance != 200 {
		t.Errorf("balance = %v, want the last write 200", st.Balance)
	}
	if tbl.Len() != 1 {
		t.Errorf("len = %d, want 1", tbl.Len())
	}
}

func TestTable_SnapshotIsACopy(t *testing.T) {
	tbl := NewTable()
	tbl.Put(models.SymbolStatus{Symbol: "BTCUSDT", Balance: 100})

	snap := tbl.Snapshot()
	snap["BTCUSDT"] = models.SymbolStatus{Symbol: "BTCUSDT", Balance: -1}

	st, _ := tbl.Get("BTCUSDT")
	if st.Balance != 100 {
		t.Error("mutating a snapshot leaked into the table")
	}
}

func TestTable_ConcurrentWriters(t *testing.T) {
	tbl := NewTable()

	var wg sync.WaitGroup
	symbols := []string{"BTCUSDT", "ETHUSDT", "SOLUSDT", "XRPUSDT"}
	for _, sym := range symbols {
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(sym string, i int) {
				defer wg.Done()
				tbl.Put(models.SymbolStatus{Symbol: sym, Balance: float64(i), UpdatedAt: time.Now()})
			}(sym, i)
		}
	}
	wg.Wait()

	if tbl.Len() != len(symbols) {
		t.Errorf("len = %d, want %d (one record per symbol)", tbl.Len(), len(symbols))
	}
	for _, sym := range symbols {
		if _, ok := tbl.Get(sym); !ok {
			t.Errorf("no record for %s", sym)
		}
	}
}
