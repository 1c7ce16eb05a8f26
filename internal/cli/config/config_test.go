package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Dialect)
	assert.Equal(t, "sql", cfg.Output)
	assert.Equal(t, ":8723", cfg.Serve.Addr)
	assert.False(t, cfg.StrictPagination)
	assert.False(t, cfg.Verbose)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "lql.yaml"), `
dialect: postgres
strict_pagination: true
serve:
  addr: ":9000"
`)
	t.Chdir(dir)

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Dialect)
	assert.True(t, cfg.StrictPagination)
	assert.Equal(t, ":9000", cfg.Serve.Addr)
	assert.Equal(t, resolve(t, dir), resolve(t, cfg.ProjectRoot))
}

func TestLoadFindsConfigUpward(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "lql.yml"), "dialect: sqlserver\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	t.Chdir(nested)

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "sqlserver", cfg.Dialect)
	assert.Equal(t, resolve(t, root), resolve(t, cfg.ProjectRoot))
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "lql.yaml"), "dialect: postgres\n")
	t.Chdir(dir)
	t.Setenv("LQL_DIALECT", "sqlserver")
	t.Setenv("LQL_SERVE__ADDR", ":7000")

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "sqlserver", cfg.Dialect)
	assert.Equal(t, ":7000", cfg.Serve.Addr)
}

func TestLoadFlagsOverrideEverything(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "lql.yaml"), "dialect: postgres\n")
	t.Chdir(dir)
	t.Setenv("LQL_DIALECT", "sqlserver")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("dialect", "sqlite", "")
	flags.Bool("strict-pagination", false, "")
	require.NoError(t, flags.Parse([]string{"--dialect=sqlite", "--strict-pagination"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Dialect)
	assert.True(t, cfg.StrictPagination)
}

func TestLoadUnchangedFlagsAreIgnored(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "lql.yaml"), "dialect: postgres\n")
	t.Chdir(dir)

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("dialect", "sqlite", "")
	require.NoError(t, flags.Parse(nil))

	cfg, err := Load("", flags)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Dialect)
}

func TestLoadExplicitConfigPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	writeFile(t, path, "output: json\n")
	t.Chdir(t.TempDir())

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Output)
	assert.Equal(t, path, ConfigFileUsed())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "valid",
			cfg:  Config{Dialect: "sqlite", Output: "sql"},
		},
		{
			name:    "bad output",
			cfg:     Config{Dialect: "sqlite", Output: "csv"},
			wantErr: "invalid output format",
		},
		{
			name:    "empty dialect",
			cfg:     Config{Output: "sql"},
			wantErr: "dialect must not be empty",
		},
		{
			name:    "db missing driver",
			cfg:     Config{Dialect: "sqlite", Output: "sql", DB: "mydb"},
			wantErr: "expected <driver>:<dsn>",
		},
		{
			name:    "db unknown driver",
			cfg:     Config{Dialect: "sqlite", Output: "sql", DB: "mysql:dsn"},
			wantErr: "unsupported --db driver",
		},
		{
			name: "db sqlite",
			cfg:  Config{Dialect: "sqlite", Output: "sql", DB: "sqlite:app.db"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestSplitDB(t *testing.T) {
	cfg := Config{DB: "postgres:host=localhost dbname=app"}
	driver, dsn := cfg.SplitDB()
	assert.Equal(t, "postgres", driver)
	assert.Equal(t, "host=localhost dbname=app", dsn)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// resolve maps symlinked temp dirs (macOS /var vs /private/var) onto
// their canonical path before comparing.
func resolve(t *testing.T, path string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(path)
	require.NoError(t, err)
	return resolved
}
