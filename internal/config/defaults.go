package config

import "time"

const (
	defaultDataDir             = "~/.local/share/payrun"
	defaultTemplatePath        = "~/.config/payrun/template.tmpl"
	defaultBaseURL             = "https://api.binance.com"
	defaultPayBaseURL          = "https://bpay.binanceapi.com"
	defaultTelegramBaseURL     = "https://api.telegram.org"
	defaultCurrency            = "USDT"
	defaultPollIntervalSeconds = 120
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:      defaultDataDir,
			TemplatePath: defaultTemplatePath,
		},
		Binance: Binance{
			BaseURL:    defaultBaseURL,
			PayBaseURL: defaultPayBaseURL,
		},
		Telegram: Telegram{
			BaseURL: defaultTelegramBaseURL,
		},
		Payout: Payout{
			Currency:            defaultCurrency,
			PollIntervalSeconds: defaultPollIntervalSeconds,
			PollMaxAttempts:     0,
		},
		Logging: Logging{
			Level: defaultLogLevel,
		},
	}
}

// PollInterval returns the configured polling interval as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Payout.PollIntervalSeconds) * time.Second
}
