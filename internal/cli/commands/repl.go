package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/lql/pkg/compile"
	"github.com/leapstack-labs/lql/pkg/core"
	"github.com/leapstack-labs/lql/pkg/dialect"
	"github.com/leapstack-labs/lql/pkg/lql"
	"github.com/leapstack-labs/lql/pkg/parser"
	"github.com/spf13/cobra"
)

// replState holds the mutable session settings of the REPL.
type replState struct {
	dialect   string
	strict    bool
	inspector core.Inspector
}

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactive transpiler session",
		Long: `Start an interactive session that transpiles each query as you type it.

Queries are transpiled, never executed. Use dot-commands to switch the
target dialect or inspect the configured schema.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := getConfig()

			ins, cleanup, err := newInspector(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			state := &replState{
				dialect:   cfg.Dialect,
				strict:    cfg.StrictPagination,
				inspector: ins,
			}

			historyFile := filepath.Join(cfg.ProjectRoot, ".lql_history")
			if cfg.ProjectRoot == "" {
				historyFile = filepath.Join(os.TempDir(), ".lql_history")
			}

			rl, err := readline.NewEx(&readline.Config{
				Prompt:          "lql> ",
				HistoryFile:     historyFile,
				AutoComplete:    newREPLCompleter(cmd.Context(), ins),
				InterruptPrompt: "^C",
				EOFPrompt:       ".quit",
			})
			if err != nil {
				return fmt.Errorf("failed to initialize REPL: %w", err)
			}
			defer func() { _ = rl.Close() }()

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "LQL REPL (dialect: %s)\n", state.dialect)
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type .help for commands, .quit to exit")
			_, _ = fmt.Fprintln(cmd.OutOrStdout())

			for {
				line, err := rl.Readline()
				if errors.Is(err, readline.ErrInterrupt) {
					continue
				}
				if errors.Is(err, io.EOF) {
					break
				}

				line = strings.TrimSpace(line)
				if line == "" {
					continue
				}

				if strings.HasPrefix(line, ".") {
					if handleREPLCommand(cmd, state, line) {
						if line == ".quit" || line == ".exit" {
							break
						}
						continue
					}
				}

				transpileLine(cmd, state, line)
				_, _ = fmt.Fprintln(cmd.OutOrStdout())
			}

			return nil
		},
	}
}

func transpileLine(cmd *cobra.Command, state *replState, line string) {
	out, err := lql.TranspileWithOptions(line, state.dialect, compile.Options{
		StrictPagination: state.strict,
	})
	if err != nil {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s;\n", out.SQL)
	if len(out.Params) > 0 {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "-- params: %s\n", strings.Join(out.Params, ", "))
	}

	if state.inspector != nil {
		if pipeline, parseErr := parser.Parse(line); parseErr == nil {
			diags, checkErr := compile.Check(cmd.Context(), pipeline, state.inspector)
			if checkErr == nil {
				for _, diag := range diags {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", diag)
				}
			}
		}
	}
}

func handleREPLCommand(cmd *cobra.Command, state *replState, line string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(cmd.OutOrStdout())
		return true

	case ".dialect":
		if len(parts) < 2 {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Current dialect: %s\n", state.dialect)
			return true
		}
		name := strings.ToLower(parts[1])
		if _, err := dialect.Require(name); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			return true
		}
		state.dialect = name
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Dialect set to %s\n", name)
		return true

	case ".dialects":
		for _, name := range lql.Dialects() {
			marker := "  "
			if name == state.dialect {
				marker = "* "
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", marker, name)
		}
		return true

	case ".strict":
		state.strict = !state.strict
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Strict pagination: %v\n", state.strict)
		return true

	case ".params":
		if len(parts) < 2 {
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Usage: .params <query>")
			return true
		}
		query := strings.TrimSpace(strings.TrimPrefix(line, parts[0]))
		out, err := lql.TranspileWithOptions(query, state.dialect, compile.Options{
			StrictPagination: state.strict,
		})
		if err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			return true
		}
		if len(out.Params) == 0 {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "(no parameters)")
			return true
		}
		for i, p := range out.Params {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d: @%s\n", i+1, p)
		}
		return true

	case ".tables":
		showREPLTables(cmd, state)
		return true

	case ".schema":
		if len(parts) < 2 {
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Usage: .schema <table>")
			return true
		}
		showREPLSchema(cmd, state, parts[1])
		return true

	case ".clear":
		fmt.Print("\033[H\033[2J")
		return true

	default:
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Unknown command: %s (type .help for commands)\n", command)
		return true
	}
}

func showREPLTables(cmd *cobra.Command, state *replState) {
	if state.inspector == nil {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "No schema configured (use --schema or --db)")
		return
	}
	tables, err := state.inspector.Tables(cmd.Context())
	if err != nil {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return
	}
	for _, name := range tables {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", name)
	}
}

func showREPLSchema(cmd *cobra.Command, state *replState, name string) {
	if state.inspector == nil {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "No schema configured (use --schema or --db)")
		return
	}
	schema, err := state.inspector.Table(cmd.Context(), name)
	if err != nil {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Column", "Type", "Nullable"})
	for _, col := range schema.Columns {
		nullable := "NO"
		if col.Nullable {
			nullable = "YES"
		}
		t.AppendRow(table.Row{col.Name, string(col.Type), nullable})
	}
	t.Render()
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help              Show this help message
  .dialect [name]    Show or switch the target dialect
  .dialects          List available dialects
  .strict            Toggle strict pagination
  .params <query>    Show the parameters a query binds
  .tables            List tables from the configured schema
  .schema <name>     Show columns for a table
  .clear             Clear the screen
  .quit / .exit      Exit the REPL

Tips:
  - Queries are transpiled, never executed
  - Use arrow keys to navigate history
`
	_, _ = fmt.Fprintln(w, help)
}

// newREPLCompleter creates a readline completer for dot-commands,
// stage names, and table names from the configured schema.
func newREPLCompleter(ctx context.Context, ins core.Inspector) *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface

	if ins != nil {
		if tables, err := ins.Tables(ctx); err == nil {
			for _, name := range tables {
				items = append(items, readline.PcItem(name))
			}
		}
	}

	for _, stage := range []string{
		"filter", "join", "left_join", "group_by", "having",
		"order_by", "limit", "offset", "distinct", "union", "select",
	} {
		items = append(items, readline.PcItem(stage))
	}

	items = append(items,
		readline.PcItem(".help"),
		readline.PcItem(".dialect",
			readline.PcItem("sqlite"),
			readline.PcItem("postgres"),
			readline.PcItem("sqlserver"),
		),
		readline.PcItem(".dialects"),
		readline.PcItem(".strict"),
		readline.PcItem(".params"),
		readline.PcItem(".tables"),
		readline.PcItem(".schema"),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)

	return readline.NewPrefixCompleter(items...)
}
