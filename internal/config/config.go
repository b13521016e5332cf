// Package config loads and normalises admin-picker configuration files.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultPath is used when no -config flag is given. A missing default file is not an error.
	DefaultPath = "admin-picker.json"

	defaultListen         = "127.0.0.1:4173"
	defaultAPIBaseURL     = "http://localhost:8080/api"
	defaultAPITimeout     = 8 * time.Second
	defaultLocale         = "ru"
	defaultSafeguardDelay = time.Second
	defaultCloseDelay     = time.Second
	defaultThemeColor     = "#151729"
	defaultLogLevel       = "info"
	defaultLogFile        = "admin-picker.log"
)

// ErrMissingAPIBase is returned when the API base URL resolves to an empty or relative value.
var ErrMissingAPIBase = errors.New("api base url must be absolute")

// ServerConfig configures the HTTP listener of the server-rendered UI.
type ServerConfig struct {
	Listen string `json:"listen" toml:"listen" yaml:"listen"`
}

// APIConfig points at the directory API.
type APIConfig struct {
	BaseURL    string        `json:"base_url" toml:"base_url" yaml:"base_url"`
	TimeoutRaw string        `json:"timeout" toml:"timeout" yaml:"timeout"`
	Timeout    time.Duration `json:"-" toml:"-" yaml:"-"`
}

// ThemeConfig holds the colours pushed to the host shell.
type ThemeConfig struct {
	HeaderColor     string `json:"header_color" toml:"header_color" yaml:"header_color"`
	BackgroundColor string `json:"background_color" toml:"background_color" yaml:"background_color"`
}

// UIConfig tunes the picker's behaviour.
type UIConfig struct {
	Locale            string        `json:"locale" toml:"locale" yaml:"locale"`
	SafeguardDelayRaw string        `json:"safeguard_delay" toml:"safeguard_delay" yaml:"safeguard_delay"`
	CloseDelayRaw     string        `json:"close_delay" toml:"close_delay" yaml:"close_delay"`
	Theme             ThemeConfig   `json:"theme" toml:"theme" yaml:"theme"`
	SafeguardDelay    time.Duration `json:"-" toml:"-" yaml:"-"`
	CloseDelay        time.Duration `json:"-" toml:"-" yaml:"-"`
}

// LoggingConfig selects the log level and an optional rotating log directory.
type LoggingConfig struct {
	Level     string `json:"level" toml:"level" yaml:"level"`
	Dir       string `json:"dir" toml:"dir" yaml:"dir"`
	File      string `json:"file" toml:"file" yaml:"file"`
	MaxSizeMB int    `json:"max_size_mb" toml:"max_size_mb" yaml:"max_size_mb"`
	MaxFiles  int    `json:"max_files" toml:"max_files" yaml:"max_files"`
}

// Config represents the combined runtime settings.
type Config struct {
	Server  ServerConfig  `json:"server" toml:"server" yaml:"server"`
	API     APIConfig     `json:"api" toml:"api" yaml:"api"`
	UI      UIConfig      `json:"ui" toml:"ui" yaml:"ui"`
	Logging LoggingConfig `json:"logging" toml:"logging" yaml:"logging"`
}

// envOverrides lists the environment variables that win over the file.
type envOverrides struct {
	Listen         string        `env:"ADMIN_PICKER_LISTEN"`
	APIBaseURL     string        `env:"ADMIN_PICKER_API_BASE_URL"`
	Locale         string        `env:"ADMIN_PICKER_LOCALE"`
	LogLevel       string        `env:"ADMIN_PICKER_LOG_LEVEL"`
	SafeguardDelay time.Duration `env:"ADMIN_PICKER_SAFEGUARD_DELAY"`
}

// Default returns a Config with every default applied.
func Default() Config {
	cfg := Config{}
	if err := cfg.normalise(); err != nil {
		// Defaults are constants; a failure here is a programming error.
		panic(err)
	}
	return cfg
}

// Load reads the config at path, applies environment overrides and defaults.
// The decoder is chosen by extension: .json, .toml, .yaml or .yml.
func Load(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := decode(path, data, &cfg); err != nil {
			return Config{}, err
		}
	case errors.Is(err, os.ErrNotExist) && path == DefaultPath:
		// Running without a config file is fine.
	default:
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.normalise(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("decode json config: %w", err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("decode toml config: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("decode yaml config: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
	return nil
}

func applyEnv(cfg *Config) error {
	var overrides envOverrides
	if err := env.Parse(&overrides); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	if overrides.Listen != "" {
		cfg.Server.Listen = overrides.Listen
	}
	if overrides.APIBaseURL != "" {
		cfg.API.BaseURL = overrides.APIBaseURL
	}
	if overrides.Locale != "" {
		cfg.UI.Locale = overrides.Locale
	}
	if overrides.LogLevel != "" {
		cfg.Logging.Level = overrides.LogLevel
	}
	if overrides.SafeguardDelay > 0 {
		cfg.UI.SafeguardDelayRaw = overrides.SafeguardDelay.String()
	}
	return nil
}

func (c *Config) normalise() error {
	c.Server.Listen = strings.TrimSpace(c.Server.Listen)
	if c.Server.Listen == "" {
		c.Server.Listen = defaultListen
	}

	c.API.BaseURL = strings.TrimSuffix(strings.TrimSpace(c.API.BaseURL), "/")
	if c.API.BaseURL == "" {
		c.API.BaseURL = defaultAPIBaseURL
	}
	if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		return fmt.Errorf("%w: %q", ErrMissingAPIBase, c.API.BaseURL)
	}

	var err error
	if c.API.Timeout, err = parseDuration("api.timeout", c.API.TimeoutRaw, defaultAPITimeout); err != nil {
		return err
	}
	if c.UI.SafeguardDelay, err = parseDuration("ui.safeguard_delay", c.UI.SafeguardDelayRaw, defaultSafeguardDelay); err != nil {
		return err
	}
	if c.UI.CloseDelay, err = parseDuration("ui.close_delay", c.UI.CloseDelayRaw, defaultCloseDelay); err != nil {
		return err
	}

	if strings.TrimSpace(c.UI.Locale) == "" {
		c.UI.Locale = defaultLocale
	}
	if c.UI.Theme.HeaderColor == "" {
		c.UI.Theme.HeaderColor = defaultThemeColor
	}
	if c.UI.Theme.BackgroundColor == "" {
		c.UI.Theme.BackgroundColor = defaultThemeColor
	}

	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.File == "" {
		c.Logging.File = defaultLogFile
	}
	return nil
}

func parseDuration(key, raw string, fallback time.Duration) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("parse %s: negative duration %s", key, raw)
	}
	return d, nil
}
