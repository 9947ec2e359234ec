package runner

import (
	"context"
	"sync"
	"time"

	"scalper_bot/internal/config"
	"scalper_bot/internal/helper"
	"scalper_bot/pkg/logger"
)

// Manager dispatches the rotation list on a fixed interval. Every tick it
// fires Run for each rotation symbol; symbols already being serviced are
// filtered out cheaply by the non-blocking lock acquire inside Run.
type Manager struct {
	cfg  *config.Config
	loop *Loop

	wg sync.WaitGroup
}

func NewManager(cfg *config.Config, loop *Loop) *Manager {
	return &Manager{cfg: cfg, loop: loop}
}

// Start blocks until ctx is cancelled, then waits for in-flight symbol loops
// to drain.
func (m *Manager) Start(ctx context.Context) {
	rotation := m.rotation()
	logger.Info("dispatcher started: %d symbols, budget %d, interval %s",
		len(rotation), m.cfg.MaxSymbols, m.cfg.DispatchInterval)

	t := time.NewTicker(m.cfg.DispatchInterval)
	defer t.Stop()

	m.dispatch(ctx, rotation)
	for {
		select {
		case <-ctx.Done():
			logger.Info("dispatcher stopping, waiting for symbol loops")
			m.wg.Wait()
			return
		case <-t.C:
			m.dispatch(ctx, rotation)
		}
	}
}

func (m *Manager) dispatch(ctx context.Context, rotation []string) {
	for _, sym := range rotation {
		sym := sym
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			m.loop.Run(ctx, sym, rotation)
		}()
	}
}

func (m *Manager) rotation() []string {
	out := make([]string, 0, len(m.cfg.RotationList))
	for _, s := range m.cfg.RotationList {
		sym := helper.NormalizeSymbol(s)
		if m.cfg.IsBlacklisted(sym) {
			logger.Info("rotation symbol %s is blacklisted, not dispatched", sym)
			continue
		}
		out = append(out, sym)
	}
	return out
}
