package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/hay-kot/criterio"

	"github.com/astra-bc/kansatsu/internal/core/styles"
)

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("api_base", c.APIBase, validAPIBase),
		criterio.Run("request_timeout", c.RequestTimeout, notNegative),
		c.Notifications.validate(),
		criterio.Run("theme", c.Theme, validTheme),
	)
}

// ValidateDeep runs Validate and additionally checks that configPath, when
// set, points at a readable file.
func (c *Config) ValidateDeep(configPath string) error {
	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		c.Validate(),
	)
}

func (n Notifications) validate() error {
	var errs criterio.FieldErrorsBuilder
	for _, f := range []struct {
		field string
		d     Duration
	}{
		{"notifications.success", n.Success},
		{"notifications.error", n.Error},
		{"notifications.warning", n.Warning},
		{"notifications.info", n.Info},
	} {
		if err := notNegative(f.d); err != nil {
			errs = errs.Append(f.field, err)
		}
	}
	return errs.ToError()
}

func validAPIBase(base string) error {
	if base == "" {
		return errors.New("cannot be empty")
	}
	u, err := url.Parse(base)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("missing host")
	}
	return nil
}

func validTheme(name string) error {
	if _, ok := styles.GetPalette(name); !ok {
		return fmt.Errorf("unknown theme %q, available: %s", name, strings.Join(styles.ThemeNames(), ", "))
	}
	return nil
}

func notNegative(d Duration) error {
	if d < 0 {
		return fmt.Errorf("must not be negative, got %s", d.Std())
	}
	return nil
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}
