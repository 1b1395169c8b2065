// Package config handles configuration loading and validation for kansatsu.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/astra-bc/kansatsu/internal/core/notify"
	"github.com/astra-bc/kansatsu/internal/core/styles"
)

// DefaultAPIBase is the API root used when nothing else is configured.
const DefaultAPIBase = "http://localhost:8000/api"

// Default request timeout applied to every API call.
const DefaultRequestTimeout = 30 * time.Second

// Duration is a time.Duration read from strings such as "3s" or "1500ms".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for YAML and TOML.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config holds the application configuration.
type Config struct {
	APIBase        string        `yaml:"api_base"        toml:"api_base"`
	RequestTimeout Duration      `yaml:"request_timeout" toml:"request_timeout"`
	Notifications  Notifications `yaml:"notifications"   toml:"notifications"`
	Theme          string        `yaml:"theme"           toml:"theme"`
}

// Notifications overrides the display time of each notification kind.
// Zero keeps a notification until it is dismissed.
type Notifications struct {
	Success Duration `yaml:"success" toml:"success"`
	Error   Duration `yaml:"error"   toml:"error"`
	Warning Duration `yaml:"warning" toml:"warning"`
	Info    Duration `yaml:"info"    toml:"info"`
}

// Durations converts n for use with notify.WithDurations.
func (n Notifications) Durations() notify.Durations {
	return notify.Durations{
		Success: n.Success.Std(),
		Error:   n.Error.Std(),
		Warning: n.Warning.Std(),
		Info:    n.Info.Std(),
	}
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		APIBase:        DefaultAPIBase,
		RequestTimeout: Duration(DefaultRequestTimeout),
		Notifications: Notifications{
			Success: Duration(3 * time.Second),
			Error:   Duration(5 * time.Second),
			Warning: Duration(4 * time.Second),
			Info:    Duration(3 * time.Second),
		},
		Theme: styles.DefaultTheme,
	}
}

// Load reads configuration from the given path. The format is chosen by
// extension: .toml files are parsed as TOML, everything else as YAML.
// If configPath is empty, doesn't exist or is a directory, returns defaults.
// The result is not validated; call Validate or ValidateDeep once any
// overrides are applied.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if info, err := os.Stat(configPath); err == nil && info.IsDir() {
			// reported by ValidateDeep
			cfg.applyDefaults()
			return &cfg, nil
		}

		data, err := os.ReadFile(configPath)
		switch {
		case os.IsNotExist(err):
			// using defaults
		case err != nil:
			return nil, fmt.Errorf("read config file: %w", err)
		default:
			if err := decode(configPath, data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.applyDefaults()

	return &cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Unmarshal(data, cfg)
	default:
		return yaml.Unmarshal(data, cfg)
	}
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	c.APIBase = strings.TrimSpace(c.APIBase)
	if c.APIBase == "" {
		c.APIBase = DefaultAPIBase
	}
	if c.Theme == "" {
		c.Theme = styles.DefaultTheme
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = Duration(DefaultRequestTimeout)
	}
}

// WithAPIBase returns a copy of c using base when it is non-empty. Used for
// the --api-base flag and KANSATSU_API_BASE.
func (c Config) WithAPIBase(base string) Config {
	if base = strings.TrimSpace(base); base != "" {
		c.APIBase = base
	}
	return c
}
