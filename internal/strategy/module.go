package strategy

import (
	"scalper_bot/internal/exchange"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("strategy",
		fx.Provide(
			func(ex *exchange.Client) *ERIScalper { return NewERIScalper(ex) },
			func(e *ERIScalper) EntryExitEvaluator { return e },
			func(e *ERIScalper) InitialEntryEvaluator { return e },
		),
	)
}
