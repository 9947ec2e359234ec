package notify

import (
	"scalper_bot/internal/config"
	"scalper_bot/pkg/logger"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("notify",
		fx.Provide(
			func(cfg *config.Config) Notifier {
				if cfg.TelegramBotToken == "" || cfg.TelegramChatID == 0 {
					return NewStdout()
				}
				t, err := NewTelegram(cfg.TelegramBotToken, cfg.TelegramChatID)
				if err != nil {
					logger.Warn("telegram init failed, falling back to stdout: %v", err)
					return NewStdout()
				}
				return t
			},
		),
	)
}
