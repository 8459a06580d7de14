// Package config loads and validates the payrun TOML configuration.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and file locations.
type Paths struct {
	// DataDir holds run history logs, output artifacts, the run lock, and
	// the run-history database.
	DataDir string `toml:"data_dir"`
	// TemplatePath is the notification message template file.
	TemplatePath string `toml:"template_path"`
}

// Binance contains exchange credentials and endpoints. The wallet key pair
// signs balance and transfer calls; the pay key pair signs batch payout
// calls.
type Binance struct {
	APIKey       string `toml:"api_key"`
	APISecret    string `toml:"api_secret"`
	PayAPIKey    string `toml:"pay_api_key"`
	PayAPISecret string `toml:"pay_api_secret"`
	BaseURL      string `toml:"base_url"`
	PayBaseURL   string `toml:"pay_base_url"`
}

// Telegram contains Bot API settings for recipient notifications.
type Telegram struct {
	BotToken string `toml:"bot_token"`
	BaseURL  string `toml:"base_url"`
}

// Payout contains run behavior settings.
type Payout struct {
	Currency string `toml:"currency"`
	// PollIntervalSeconds is the wait between batch status queries.
	PollIntervalSeconds int `toml:"poll_interval_seconds"`
	// PollMaxAttempts bounds the status polling loop; 0 polls until a
	// terminal status arrives.
	PollMaxAttempts int `toml:"poll_max_attempts"`
}

// Logging contains console log output settings. The history file always
// records every event.
type Logging struct {
	Level string `toml:"level"`
}

// Config encapsulates all configuration values for payrun.
type Config struct {
	Paths    Paths    `toml:"paths"`
	Binance  Binance  `toml:"binance"`
	Telegram Telegram `toml:"telegram"`
	Payout   Payout   `toml:"payout"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/payrun/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("payrun.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the data and template directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, filepath.Dir(c.Paths.TemplatePath)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// RequireCredentials checks that every credential needed by an execute run
// is present, naming the missing ones.
func (c *Config) RequireCredentials() error {
	var missing []string
	if c.Binance.APIKey == "" {
		missing = append(missing, "binance.api_key")
	}
	if c.Binance.APISecret == "" {
		missing = append(missing, "binance.api_secret")
	}
	if c.Binance.PayAPIKey == "" {
		missing = append(missing, "binance.pay_api_key")
	}
	if c.Binance.PayAPISecret == "" {
		missing = append(missing, "binance.pay_api_secret")
	}
	if c.Telegram.BotToken == "" {
		missing = append(missing, "telegram.bot_token")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing credentials: %s (set them in the config file or the environment)", strings.Join(missing, ", "))
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o600); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
