package dashboard

import (
	"sync"

	"scalper_bot/internal/models"
)

// Table is the shared status board: one writer per symbol key, last write
// wins, no cross-key ordering. Reads copy the map.
type Table struct {
	mu      sync.RWMutex
	entries map[string]models.SymbolStatus
}

func NewTable() *Table {
	return &Table{entries: make(map[string]models.SymbolStatus)}
}

// Put replaces the symbol's status record atomically.
func (t *Table) Put(st models.SymbolStatus) {
	t.mu.Lock()
	t.entries[st.Symbol] = st
	t.mu.Unlock()
}

// Get returns the symbol's latest record.
func (t *Table) Get(symbol string) (models.SymbolStatus, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	st, ok := t.entries[symbol]
	return st, ok
}

// Snapshot returns a copy of the whole table.
func (t *Table) Snapshot() map[string]models.SymbolStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]models.SymbolStatus, len(t.entries))
	for k, v := range t.entries {
		out[k] = v
	}
	return out
}

func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}
