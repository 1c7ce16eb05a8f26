package config

import (
	"fmt"
	"strings"
)

var validOutputs = map[string]bool{
	"sql":  true,
	"json": true,
}

// Validate checks cross-field constraints that koanf cannot express.
func (c *Config) Validate() error {
	if c.Dialect == "" {
		return fmt.Errorf("dialect must not be empty")
	}
	if !validOutputs[c.Output] {
		return fmt.Errorf("invalid output format %q (valid: sql, json)", c.Output)
	}
	if c.DB != "" {
		driver, _, ok := strings.Cut(c.DB, ":")
		if !ok {
			return fmt.Errorf("invalid --db value %q: expected <driver>:<dsn>", c.DB)
		}
		switch driver {
		case "sqlite", "postgres":
		default:
			return fmt.Errorf("unsupported --db driver %q (valid: sqlite, postgres)", driver)
		}
	}
	return nil
}

// SplitDB returns the driver and DSN halves of the DB setting.
// Validate has already checked the format.
func (c *Config) SplitDB() (driver, dsn string) {
	driver, dsn, _ = strings.Cut(c.DB, ":")
	return driver, dsn
}
