package dashboard

import (
	"context"
	"fmt"

	"scalper_bot/internal/config"
	"scalper_bot/pkg/db"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("dashboard",
		fx.Provide(
			NewTable,
			func(ctx context.Context, cfg *config.Config, table *Table) (*Publisher, error) {
				if !cfg.DashboardEnabled {
					return NewPublisher(table, nil, ""), nil
				}

				var store *Store
				if cfg.DB != "" {
					pool, err := db.NewPool(ctx, db.PoolConfig{DSN: cfg.DB})
					if err != nil {
						return nil, fmt.Errorf("failed to create pool: %w", err)
					}
					if err := pool.Ping(ctx); err != nil {
						return nil, err
					}
					store = NewStore(db.NewPgTxManager(pool))
				}
				return NewPublisher(table, store, cfg.SharedDataPath), nil
			},
		),
	)
}
