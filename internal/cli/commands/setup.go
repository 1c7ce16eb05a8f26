package commands

import (
	"fmt"
	"os"

	"github.com/leapstack-labs/lql/internal/cli/config"
	"github.com/leapstack-labs/lql/pkg/core"
	"github.com/leapstack-labs/lql/pkg/inspect"
	pginspect "github.com/leapstack-labs/lql/pkg/inspectors/postgres"
	sqliteinspect "github.com/leapstack-labs/lql/pkg/inspectors/sqlite"
)

// getConfig returns the current configuration.
// It uses config.Current() if available, otherwise falls back to
// environment variables with defaults.
func getConfig() *config.Config {
	if cfg := config.Current(); cfg != nil {
		return cfg
	}

	dialect := getEnvOrDefault("LQL_DIALECT", config.DefaultDialect)
	output := getEnvOrDefault("LQL_OUTPUT", config.DefaultOutput)

	return &config.Config{
		Dialect:          dialect,
		Output:           output,
		StrictPagination: os.Getenv("LQL_STRICT_PAGINATION") == "true",
		Verbose:          os.Getenv("LQL_VERBOSE") == "true",
		Schema:           os.Getenv("LQL_SCHEMA"),
		DB:               os.Getenv("LQL_DB"),
		Serve:            config.ServeConfig{Addr: getEnvOrDefault("LQL_SERVE__ADDR", config.DefaultServeAddr)},
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// newInspector builds a schema inspector from the configuration.
// A YAML catalog takes precedence over a live database connection.
// Returns a nil inspector when neither is configured; the cleanup
// function is always safe to call.
func newInspector(cfg *config.Config) (core.Inspector, func(), error) {
	noop := func() {}

	if cfg.Schema != "" {
		ins, err := inspect.LoadCatalog(cfg.Schema)
		if err != nil {
			return nil, noop, fmt.Errorf("loading schema catalog: %w", err)
		}
		return ins, noop, nil
	}

	if cfg.DB != "" {
		driver, dsn := cfg.SplitDB()
		switch driver {
		case "sqlite":
			ins, err := sqliteinspect.Open(dsn)
			if err != nil {
				return nil, noop, fmt.Errorf("opening sqlite database: %w", err)
			}
			return ins, func() { _ = ins.Close() }, nil
		case "postgres":
			ins, err := pginspect.Open(dsn, pginspect.DefaultSchema)
			if err != nil {
				return nil, noop, fmt.Errorf("opening postgres database: %w", err)
			}
			return ins, func() { _ = ins.Close() }, nil
		default:
			return nil, noop, fmt.Errorf("unsupported db driver %q", driver)
		}
	}

	return nil, noop, nil
}
