package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable. Credentials are checked
// separately by RequireCredentials so read-only commands work without them.
func (c *Config) Validate() error {
	if err := c.validatePayout(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePayout() error {
	if c.Payout.Currency == "" {
		return errors.New("payout.currency must be set")
	}
	if c.Payout.PollIntervalSeconds < 1 {
		return fmt.Errorf("payout.poll_interval_seconds must be positive, got %d", c.Payout.PollIntervalSeconds)
	}
	if c.Payout.PollMaxAttempts < 0 {
		return fmt.Errorf("payout.poll_max_attempts must not be negative, got %d", c.Payout.PollMaxAttempts)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}
