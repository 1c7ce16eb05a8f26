// Package config provides configuration management for the lql CLI.
//
// Configuration merges, lowest precedence first: built-in defaults, an
// lql.yaml project file (searched upward from the working directory),
// LQL_-prefixed environment variables, and command-line flags.
package config

// Config holds all CLI configuration options.
type Config struct {
	// Dialect is the default target dialect for compile/repl.
	Dialect string `koanf:"dialect"`

	// StrictPagination fails compilation instead of synthesizing
	// ORDER BY (SELECT NULL) on dialects that require ordered
	// pagination.
	StrictPagination bool `koanf:"strict_pagination"`

	// Schema is the path to a YAML catalog file for diagnostics.
	Schema string `koanf:"schema"`

	// DB is a live database for diagnostics: "sqlite:<path>" or
	// "postgres:<dsn>".
	DB string `koanf:"db"`

	Verbose bool   `koanf:"verbose"`
	Output  string `koanf:"output"`

	Serve ServeConfig `koanf:"serve"`

	// ProjectRoot is the directory the config file was found in, or
	// the working directory. Not itself configurable.
	ProjectRoot string `koanf:"-"`
}

// ServeConfig holds configuration for the serve command.
type ServeConfig struct {
	Addr string `koanf:"addr"`
}

// Default configuration values.
const (
	DefaultDialect   = "sqlite"
	DefaultOutput    = "sql"
	DefaultServeAddr = ":8723"
)
