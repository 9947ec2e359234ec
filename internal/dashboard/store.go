package dashboard

import (
	"context"
	"fmt"

	"scalper_bot/internal/models"
	"scalper_bot/pkg/db"

	"github.com/bytedance/sonic"
	"github.com/jackc/pgx/v5"
)

const upsertStatusSQL = `
INSERT INTO symbol_status (symbol, payload, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (symbol) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()`

// Store persists status records for the external dashboard reader.
type Store struct {
	tm *db.PgTxManager
}

func NewStore(tm *db.PgTxManager) *Store {
	return &Store{tm: tm}
}

func (s *Store) Upsert(ctx context.Context, st models.SymbolStatus) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("dashboard.Store.Upsert: %w", err)
		}
	}()

	var data []byte
	data, err = sonic.Marshal(st)
	if err != nil {
		return err
	}
	return s.tm.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		_, execErr := tx.Exec(ctxTx, upsertStatusSQL, st.Symbol, data)
		return execErr
	})
}
