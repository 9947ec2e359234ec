package config

import (
	"os"
	"time"

	"scalper_bot/internal/helper"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

const configFilePathENV = "CONFIG_FILE"

// Config is the single validated configuration structure, built once at
// startup. Load fails fast on missing required fields instead of letting
// downstream code dereference unset values.
type Config struct {
	QuoteCurrency string `mapstructure:"quote_currency"`

	// Symbol universe
	RotationList []string `mapstructure:"rotation_list"`
	Blacklist    []string `mapstructure:"blacklist"`
	SymbolsFile  string   `mapstructure:"symbols_file"` // optional yaml with rotation/blacklist
	MaxSymbols   int      `mapstructure:"max_symbols"`  // concurrent symbol budget

	// Sizing / risk
	WalletExposure    float64 `mapstructure:"wallet_exposure"`
	MinDistance       float64 `mapstructure:"min_distance"`
	MinVolume         float64 `mapstructure:"min_volume"`
	MaxAbsFundingRate float64 `mapstructure:"max_abs_funding_rate"`
	MaxUSDValue       float64 `mapstructure:"max_usd_value"`

	// Hedge
	HedgeRatio               float64 `mapstructure:"hedge_ratio"`
	HedgePriceDiffThreshold  float64 `mapstructure:"hedge_price_difference_threshold"`

	// Cadence
	EquityRefreshInterval time.Duration `mapstructure:"equity_refresh_interval"`
	ManageSleep           time.Duration `mapstructure:"manage_sleep"`
	ProspectSleep         time.Duration `mapstructure:"prospect_sleep"`
	TPUpdateInterval      time.Duration `mapstructure:"tp_update_interval"`
	DispatchInterval      time.Duration `mapstructure:"dispatch_interval"`

	// Collaborator retry policy: fixed delay, no backoff
	MaxRetries int           `mapstructure:"max_retries"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`

	// Test-order injector
	TestOrdersEnabled bool          `mapstructure:"test_orders_enabled"`
	SpoofInterval     time.Duration `mapstructure:"spoof_interval"`
	SpoofDuration     time.Duration `mapstructure:"spoof_duration"`
	SpoofWallSize     int           `mapstructure:"spoof_wall_size"`

	// Dashboard
	DashboardEnabled bool   `mapstructure:"dashboard_enabled"`
	SharedDataPath   string `mapstructure:"shared_data_path"`
	DB               string `mapstructure:"db_dsn"`

	// Exchange creds
	BybitAPIKey    string `mapstructure:"bybit_api_key"`
	BybitAPISecret string `mapstructure:"bybit_api_secret"`

	// Metrics API
	MetricsBaseURL string `mapstructure:"metrics_base_url"`

	// Telegram (optional; stdout notifier when empty)
	TelegramBotToken string `mapstructure:"telegram_bot_token"`
	TelegramChatID   int64  `mapstructure:"telegram_chat_id"`

	// Tracing
	JaegerHost string `mapstructure:"jaeger_host"`
	JaegerPort int    `mapstructure:"jaeger_port"`

	Debug bool `mapstructure:"debug"`
}

// symbolsFile is the optional standalone yaml list the rotation can be
// maintained in, separate from the main config.
type symbolsFile struct {
	Rotation  []string `yaml:"rotation"`
	Blacklist []string `yaml:"blacklist"`
}

func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("quote_currency", "USDT")
	v.SetDefault("max_symbols", 5)
	v.SetDefault("wallet_exposure", 1.0)
	v.SetDefault("min_distance", 0.15)
	v.SetDefault("min_volume", 15000.0)
	v.SetDefault("max_abs_funding_rate", 0.0002)
	v.SetDefault("max_usd_value", 100.0)
	v.SetDefault("hedge_ratio", 0.1)
	v.SetDefault("hedge_price_difference_threshold", 0.1)
	v.SetDefault("equity_refresh_interval", "1800s")
	v.SetDefault("manage_sleep", "30s")
	v.SetDefault("prospect_sleep", "10s")
	v.SetDefault("tp_update_interval", "3m")
	v.SetDefault("dispatch_interval", "60s")
	v.SetDefault("max_retries", 5)
	v.SetDefault("retry_delay", "5s")
	v.SetDefault("spoof_interval", "1s")
	v.SetDefault("spoof_duration", "5s")
	v.SetDefault("spoof_wall_size", 5)
	v.SetDefault("metrics_base_url", "https://api.quantumvoid.org/volumedata")
	v.SetDefault("jaeger_host", "127.0.0.1")
	v.SetDefault("jaeger_port", 6831)

	if path := os.Getenv(configFilePathENV); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		// config file is optional, env can carry everything
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			if _, ok := err.(*os.PathError); !ok {
				return nil, errors.Wrap(err, "read config")
			}
		}
	}
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}

	if cfg.SymbolsFile != "" {
		data, err := os.ReadFile(cfg.SymbolsFile)
		if err != nil {
			return nil, errors.Wrap(err, "read symbols file")
		}
		var sf symbolsFile
		if err := yaml.Unmarshal(data, &sf); err != nil {
			return nil, errors.Wrap(err, "parse symbols file")
		}
		if len(sf.Rotation) > 0 {
			cfg.RotationList = sf.Rotation
		}
		if len(sf.Blacklist) > 0 {
			cfg.Blacklist = sf.Blacklist
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.QuoteCurrency == "":
		return errors.New("quote_currency must be set")
	case len(c.RotationList) == 0:
		return errors.New("rotation_list must not be empty")
	case c.MaxSymbols <= 0:
		return errors.New("max_symbols must be > 0")
	case c.WalletExposure <= 0:
		return errors.New("wallet_exposure must be > 0")
	case c.EquityRefreshInterval <= 0:
		return errors.New("equity_refresh_interval must be > 0")
	case c.ManageSleep <= 0 || c.ProspectSleep <= 0:
		return errors.New("manage_sleep and prospect_sleep must be > 0")
	case c.TPUpdateInterval <= 0:
		return errors.New("tp_update_interval must be > 0")
	case c.MaxRetries <= 0 || c.RetryDelay <= 0:
		return errors.New("max_retries and retry_delay must be > 0")
	}
	if c.DashboardEnabled && c.SharedDataPath == "" && c.DB == "" {
		return errors.New("dashboard_enabled requires shared_data_path or db_dsn")
	}
	return nil
}

// IsBlacklisted reports whether sym is excluded from trading. Both sides are
// normalized, the blacklist may be maintained in exchange notation.
func (c *Config) IsBlacklisted(sym string) bool {
	n := helper.NormalizeSymbol(sym)
	for _, b := range c.Blacklist {
		if helper.NormalizeSymbol(b) == n {
			return true
		}
	}
	return false
}
