// Package config loads settings for the connections command.
//
// Precedence (highest to lowest): flags > CONNECTIONS_* env vars > config file > defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const (
	// AppDirName is the folder under the user config dir holding the database.
	AppDirName = "ConnectionsHelper"
	// DatabaseFile is the default database file name.
	DatabaseFile = "connections.db"
	// ConfigFile is looked up in the app dir when --config is not given.
	ConfigFile = "config.yaml"
	// EnvPrefix prefixes environment overrides, e.g. CONNECTIONS_LOG_LEVEL.
	EnvPrefix = "CONNECTIONS_"
)

// Output formats.
const (
	OutputTable = "table"
	OutputJSON  = "json"
)

// Config holds the resolved settings.
type Config struct {
	Database  string `koanf:"database" validate:"required"`
	LogLevel  string `koanf:"log_level" validate:"oneof=debug info warn warning error"`
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`
	Output    string `koanf:"output" validate:"oneof=table json"`
	Browser   string `koanf:"browser" validate:"oneof=safari default none"`

	// FileUsed is the config file that was read, if any.
	FileUsed string `koanf:"-"`
}

var validate = validator.New()

// Validate checks field values against their allowed sets.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s=%q fails %s %s", fe.Field(), fe.Value(), fe.Tag(), fe.Param())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// DefaultDir returns <user config dir>/ConnectionsHelper.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate user config dir: %w", err)
	}
	return filepath.Join(base, AppDirName), nil
}

// Defaults returns the built-in values for an app dir.
func Defaults(appDir string) map[string]interface{} {
	return map[string]interface{}{
		"database":   filepath.Join(appDir, DatabaseFile),
		"log_level":  "warn",
		"log_format": "text",
		"output":     OutputTable,
		"browser":    "safari",
	}
}

// Load resolves the configuration using the default app dir.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	dir, err := DefaultDir()
	if err != nil {
		return nil, err
	}
	return LoadDir(dir, cfgFile, flags)
}

// LoadDir resolves the configuration with appDir as the home of the default
// database and config file. Only flags that were explicitly set override
// other sources.
func LoadDir(appDir, cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(Defaults(appDir), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	used := findConfigFile(appDir, cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// 3. Environment: CONNECTIONS_LOG_LEVEL -> log_level
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed || f.Name == "config" {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.FileUsed = used
	cfg.Output = strings.ToLower(cfg.Output)
	cfg.Browser = strings.ToLower(cfg.Browser)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// findConfigFile prefers an explicit path, then config.yaml in the app dir.
func findConfigFile(appDir, explicit string) string {
	if explicit != "" {
		return explicit
	}
	candidate := filepath.Join(appDir, ConfigFile)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return ""
}
