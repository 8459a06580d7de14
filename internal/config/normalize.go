package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeBinance()
	c.normalizeTelegram()
	c.normalizePayout()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.TemplatePath) == "" {
		c.Paths.TemplatePath = defaultTemplatePath
	}
	if c.Paths.TemplatePath, err = expandPath(c.Paths.TemplatePath); err != nil {
		return fmt.Errorf("paths.template_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeBinance() {
	c.Binance.APIKey = fallbackEnv(c.Binance.APIKey, "BINANCE_API_KEY")
	c.Binance.APISecret = fallbackEnv(c.Binance.APISecret, "BINANCE_API_SECRET")
	c.Binance.PayAPIKey = fallbackEnv(c.Binance.PayAPIKey, "BINANCE_PAY_API_KEY")
	c.Binance.PayAPISecret = fallbackEnv(c.Binance.PayAPISecret, "BINANCE_PAY_API_SECRET")
	c.Binance.BaseURL = strings.TrimSpace(c.Binance.BaseURL)
	if c.Binance.BaseURL == "" {
		c.Binance.BaseURL = defaultBaseURL
	}
	c.Binance.PayBaseURL = strings.TrimSpace(c.Binance.PayBaseURL)
	if c.Binance.PayBaseURL == "" {
		c.Binance.PayBaseURL = defaultPayBaseURL
	}
}

func (c *Config) normalizeTelegram() {
	c.Telegram.BotToken = fallbackEnv(c.Telegram.BotToken, "TELEGRAM_BOT_TOKEN")
	c.Telegram.BaseURL = strings.TrimSpace(c.Telegram.BaseURL)
	if c.Telegram.BaseURL == "" {
		c.Telegram.BaseURL = defaultTelegramBaseURL
	}
}

func (c *Config) normalizePayout() {
	c.Payout.Currency = strings.ToUpper(strings.TrimSpace(c.Payout.Currency))
	if c.Payout.Currency == "" {
		c.Payout.Currency = defaultCurrency
	}
	if c.Payout.PollIntervalSeconds == 0 {
		c.Payout.PollIntervalSeconds = defaultPollIntervalSeconds
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func fallbackEnv(value, env string) string {
	value = strings.TrimSpace(value)
	if value != "" {
		return value
	}
	if fromEnv, ok := os.LookupEnv(env); ok {
		return strings.TrimSpace(fromEnv)
	}
	return ""
}
