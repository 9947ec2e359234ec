package config

import (
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		QuoteCurrency:         "USDT",
		RotationList:          []string{"BTCUSDT"},
		MaxSymbols:            5,
		WalletExposure:        1.0,
		EquityRefreshInterval: 1800 * time.Second,
		ManageSleep:           30 * time.Second,
		ProspectSleep:         10 * time.Second,
		TPUpdateInterval:      3 * time.Minute,
		MaxRetries:            5,
		RetryDelay:            5 * time.Second,
	}
}

func TestValidate(t *testing.T) {
	if err := validConfig().validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := []struct {
		name  string
		mutate func(*Config)
	}{
		{"empty rotation", func(c *Config) { c.RotationList = nil }},
		{"zero budget", func(c *Config) { c.MaxSymbols = 0 }},
		{"no exposure", func(c *Config) { c.WalletExposure = 0 }},
		{"no refresh interval", func(c *Config) { c.EquityRefreshInterval = 0 }},
		{"no retry policy", func(c *Config) { c.MaxRetries = 0 }},
		{"dashboard without sink", func(c *Config) { c.DashboardEnabled = true }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := validConfig()
			tc.mutate(c)
			if err := c.validate(); err == nil {
				t.Error("want a validation error")
			}
		})
	}
}

func TestIsBlacklisted(t *testing.T) {
	c := validConfig()
	c.Blacklist = []string{"luna/usdt:USDT", "FTTUSDT"}

	if !c.IsBlacklisted("LUNAUSDT") {
		t.Error("LUNAUSDT should match the normalized blacklist entry")
	}
	if !c.IsBlacklisted("fttusdt") {
		t.Error("lookup should be case-insensitive")
	}
	if c.IsBlacklisted("BTCUSDT") {
		t.Error("BTCUSDT is not blacklisted")
	}
}
