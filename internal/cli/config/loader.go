package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// maxUpwardSearchLevels limits how far up the directory tree to search
// for config files.
const maxUpwardSearchLevels = 10

var configNames = []string{"lql.yaml", "lql.yml"}

var (
	// configFileUsed tracks the file the last Load picked up, for
	// --verbose reporting.
	configFileUsed string
	// currentConfig stores the loaded config for access by commands.
	currentConfig *Config
)

// loggerKey is used to store the logger in context. Living here lets
// the commands package retrieve it without importing the cli package.
type loggerKey struct{}

// ConfigFileUsed returns the path of the config file the last Load
// read, or "" when none was found.
func ConfigFileUsed() string {
	return configFileUsed
}

// Current returns the configuration from the last successful Load,
// or nil before any Load.
func Current() *Config {
	return currentConfig
}

// Reset clears package state. Used for testing.
func Reset() {
	configFileUsed = ""
	currentConfig = nil
}

// WithLogger stores the logger in the context.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetLogger retrieves the logger from the command context, falling
// back to a discard logger.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}

// findConfigFile locates the config file: an explicit path wins,
// otherwise search upward from the working directory.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for i := 0; i < maxUpwardSearchLevels; i++ {
		for _, name := range configNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// Load merges defaults, the config file, LQL_ environment variables,
// and flags (highest precedence) into a Config.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"dialect":           DefaultDialect,
		"strict_pagination": false,
		"verbose":           false,
		"output":            DefaultOutput,
		"serve.addr":        DefaultServeAddr,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	configFileUsed = findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Environment variables: LQL_STRICT_PAGINATION -> strict_pagination,
	// LQL_SERVE__ADDR -> serve.addr
	if err := k.Load(env.Provider("LQL_", ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, "LQL_"))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags, only those explicitly set
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if configFileUsed != "" {
		cfg.ProjectRoot = filepath.Dir(configFileUsed)
	} else {
		cfg.ProjectRoot, _ = os.Getwd()
	}

	// Schema paths from the config file resolve against the project
	// root, so running from a subdirectory still finds the catalog.
	if cfg.Schema != "" && !filepath.IsAbs(cfg.Schema) {
		if flags == nil || !flags.Changed("schema") {
			cfg.Schema = filepath.Join(cfg.ProjectRoot, cfg.Schema)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	currentConfig = &cfg
	return &cfg, nil
}
