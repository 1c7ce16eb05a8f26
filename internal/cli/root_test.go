package cli

import (
	"bytes"
	"testing"

	"github.com/leapstack-labs/lql/internal/cli/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	config.Reset()
	cmd := NewRootCmd()
	out := new(bytes.Buffer)
	errBuf := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(errBuf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errBuf.String(), err
}

func TestRootHelp(t *testing.T) {
	out, _, err := execute(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "lql")
	assert.Contains(t, out, "compile")
	assert.Contains(t, out, "check")
	assert.Contains(t, out, "repl")
	assert.Contains(t, out, "serve")
	assert.Contains(t, out, "dialects")
}

func TestRootVersion(t *testing.T) {
	out, _, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, Version)
}

func TestCompileThroughRoot(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	out, _, err := execute(t, "compile", "-e", "Users |> select(*)")
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM Users;\n", out)
}

func TestDialectFlagThroughRoot(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	out, _, err := execute(t, "compile", "-d", "postgres", "-e", "Users |> limit(5)")
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM Users LIMIT 5;\n", out)
}

func TestStrictPaginationFlagThroughRoot(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	_, errOut, err := execute(t, "compile", "-d", "sqlserver", "--strict-pagination", "-e", "Users |> offset(10)")
	require.Error(t, err)
	assert.Contains(t, errOut, "order_by")
}

func TestInvalidDialectThroughRoot(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	_, errOut, err := execute(t, "compile", "-d", "oracle", "-e", "Users |> select(*)")
	require.Error(t, err)
	assert.Contains(t, errOut, "oracle")
}

func TestGetConfigFallback(t *testing.T) {
	cfg := GetConfig(t.Context())
	assert.Equal(t, config.DefaultDialect, cfg.Dialect)
	assert.Equal(t, config.DefaultOutput, cfg.Output)
}
