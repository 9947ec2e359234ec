package dashboard

import (
	"context"

	"scalper_bot/internal/models"
	"scalper_bot/pkg/logger"
)

// Publisher fans a symbol's status into the table and, when enabled, into
// postgres and the shared JSON file. Persistence failures are observability
// events, never propagated to the trading loop.
type Publisher struct {
	table   *Table
	store   *Store // nil when db disabled
	dataDir string // empty when file export disabled
}

func NewPublisher(table *Table, store *Store, dataDir string) *Publisher {
	return &Publisher{table: table, store: store, dataDir: dataDir}
}

func (p *Publisher) Publish(ctx context.Context, st models.SymbolStatus) {
	p.table.Put(st)

	if p.store != nil {
		if err := p.store.Upsert(ctx, st); err != nil {
			logger.Warn("status upsert failed for %s: %v", st.Symbol, err)
		}
	}
	if p.dataDir != "" {
		if err := p.table.ExportJSON(p.dataDir); err != nil {
			logger.Warn("shared data export failed: %v", err)
		}
	}
}
