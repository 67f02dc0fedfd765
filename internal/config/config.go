// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Drover Contributors

// Package config loads and validates the drover configuration file.
package config

import (
	"os"

	"github.com/gobwas/glob"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/droverhq/drover/internal/xdg"
	sdk "github.com/droverhq/drover/pkg/plugin"
)

// PluginConfig is one plugin's section of the configuration file.
type PluginConfig struct {
	// Enabled overrides the default enablement when set. Essential
	// plugins ignore it.
	Enabled *bool `koanf:"enabled" json:"enabled,omitempty"`
	// Settings is the plugin's free-form key/value configuration.
	Settings map[string]any `koanf:"settings" json:"settings,omitempty"`
}

// Config is the drover host configuration.
type Config struct {
	// PluginsDir is the directory scanned for plugin libraries.
	PluginsDir string `koanf:"plugins_dir" json:"plugins_dir,omitempty"`
	// LogFormat selects "text" or "json" log output.
	LogFormat string `koanf:"log_format" json:"log_format,omitempty" jsonschema:"enum=text,enum=json"`
	// Disable holds glob patterns for plugin names to keep out of
	// dispatch. Explicit per-plugin Enabled settings win over patterns.
	Disable []string `koanf:"disable" json:"disable,omitempty"`
	// Plugins maps plugin names to their sections.
	Plugins map[string]PluginConfig `koanf:"plugins" json:"plugins,omitempty"`

	disableGlobs []glob.Glob
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		PluginsDir: xdg.PluginsDir(),
		LogFormat:  "text",
	}
}

// Load reads the configuration file at path, overlays command-line
// flags, and validates the result. A missing file is not an error; the
// defaults apply. Flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := ValidateSchema(data); err != nil {
				return nil, oops.Code("CONFIG_INVALID").
					With("path", path).
					With("detail", FormatSchemaError(err)).
					Wrapf(err, "config file %s does not match the configuration schema", path)
			}
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, oops.Code("CONFIG_INVALID").
					With("path", path).
					Wrapf(err, "could not load config file %s", path)
			}
		case os.IsNotExist(err):
			// Defaults apply.
		default:
			return nil, oops.Code("CONFIG_INVALID").
				With("path", path).
				Wrapf(err, "could not read config file %s", path)
		}
	}

	if flags != nil {
		// Flag names use dashes; config keys use underscores.
		provider := posflag.ProviderWithValue(flags, ".", k, func(key, value string) (string, any) {
			switch key {
			case "plugins-dir":
				return "plugins_dir", value
			case "log-format":
				return "log_format", value
			}
			return key, value
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, oops.Code("CONFIG_INVALID").
				Wrapf(err, "could not apply command-line flags")
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, oops.Code("CONFIG_INVALID").
			With("path", path).
			Wrapf(err, "could not parse configuration")
	}
	// Unset flags overlay empty values; restore the defaults.
	if cfg.PluginsDir == "" {
		cfg.PluginsDir = xdg.PluginsDir()
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field values and compiles the disable patterns.
func (c *Config) Validate() error {
	if c.LogFormat != "" && c.LogFormat != "text" && c.LogFormat != "json" {
		return oops.Code("CONFIG_INVALID").
			With("log_format", c.LogFormat).
			Errorf("log_format must be %q or %q, got %q", "text", "json", c.LogFormat)
	}

	c.disableGlobs = c.disableGlobs[:0]
	for _, pattern := range c.Disable {
		g, err := glob.Compile(pattern)
		if err != nil {
			return oops.Code("CONFIG_INVALID").
				With("pattern", pattern).
				Wrapf(err, "invalid disable pattern %q", pattern)
		}
		c.disableGlobs = append(c.disableGlobs, g)
	}
	return nil
}

// PluginEnabled decides whether a discovered plugin starts enabled.
// Essential plugins are always on. An explicit per-plugin setting wins
// over disable patterns; otherwise plugins default to enabled.
func (c *Config) PluginEnabled(meta sdk.Metadata) bool {
	if meta.Essential {
		return true
	}
	if section, ok := c.Plugins[meta.Name]; ok && section.Enabled != nil {
		return *section.Enabled
	}
	for _, g := range c.disableGlobs {
		if g.Match(meta.Name) {
			return false
		}
	}
	return true
}

// SettingsByPlugin collects each configured plugin's settings section.
func (c *Config) SettingsByPlugin() map[string]map[string]any {
	out := make(map[string]map[string]any, len(c.Plugins))
	for name, section := range c.Plugins {
		if section.Settings != nil {
			out[name] = section.Settings
		}
	}
	return out
}
