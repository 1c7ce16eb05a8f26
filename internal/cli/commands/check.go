package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/lql/internal/cli/config"
	"github.com/leapstack-labs/lql/pkg/compile"
	"github.com/leapstack-labs/lql/pkg/dialect"
	"github.com/leapstack-labs/lql/pkg/parser"
	"github.com/spf13/cobra"
)

// checkFinding is one validation result: a compile outcome for a
// dialect, or a schema diagnostic.
type checkFinding struct {
	File    string `json:"file,omitempty"`
	Dialect string `json:"dialect,omitempty"`
	Level   string `json:"level"`
	Message string `json:"message"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	var expr string

	cmd := &cobra.Command{
		Use:   "check [files...]",
		Short: "Validate queries without emitting SQL",
		Long: `Parse and compile queries against every supported dialect and report
problems. With --schema or --db, also checks column references against
the table catalog.

Exits nonzero when any query fails to compile for any checked dialect.
Schema diagnostics are warnings and do not affect the exit code.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig()
			logger := config.GetLogger(cmd.Context())

			sources, err := collectSources(cmd, args, expr)
			if err != nil {
				return err
			}

			targets := dialect.List()
			if cmd.Root().PersistentFlags().Changed("dialect") {
				targets = []string{cfg.Dialect}
			}

			ins, cleanup, err := newInspector(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			var findings []checkFinding
			failed := false

			for _, src := range sources {
				pipeline, err := parser.Parse(src.source)
				if err != nil {
					failed = true
					findings = append(findings, checkFinding{
						File: src.file, Level: "error", Message: err.Error(),
					})
					continue
				}

				for _, name := range targets {
					finding := checkFinding{File: src.file, Dialect: name, Level: "ok", Message: "ok"}
					d, err := dialect.Require(name)
					if err == nil {
						_, err = compile.CompileWithOptions(pipeline, d, compile.Options{
							StrictPagination: cfg.StrictPagination,
						})
					}
					if err != nil {
						failed = true
						finding.Level = "error"
						finding.Message = err.Error()
					}
					findings = append(findings, finding)
				}

				if ins != nil {
					diags, err := compile.Check(cmd.Context(), pipeline, ins)
					if err != nil {
						return fmt.Errorf("schema check: %w", err)
					}
					for _, diag := range diags {
						findings = append(findings, checkFinding{
							File: src.file, Level: "warning", Message: diag.String(),
						})
					}
				}
			}

			logger.Debug("check complete", "sources", len(sources), "dialects", len(targets), "findings", len(findings))

			if cfg.Output == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(findings); err != nil {
					return err
				}
			} else {
				renderFindings(cmd, findings)
			}

			if failed {
				return fmt.Errorf("check failed")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&expr, "expr", "e", "", "Check a query given inline instead of from files")

	return cmd
}

type checkSource struct {
	file   string
	source string
}

func collectSources(cmd *cobra.Command, args []string, expr string) ([]checkSource, error) {
	if expr != "" {
		if len(args) > 0 {
			return nil, fmt.Errorf("--expr and file arguments are mutually exclusive")
		}
		return []checkSource{{source: expr}}, nil
	}
	if len(args) == 0 {
		source, err := readStdin(cmd)
		if err != nil {
			return nil, err
		}
		return []checkSource{{source: source}}, nil
	}
	sources := make([]checkSource, 0, len(args))
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		sources = append(sources, checkSource{file: path, source: string(data)})
	}
	return sources, nil
}

func renderFindings(cmd *cobra.Command, findings []checkFinding) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"File", "Dialect", "Status", "Detail"})

	for _, f := range findings {
		file := f.File
		if file == "" {
			file = "<stdin>"
		}
		dialectCell := f.Dialect
		if dialectCell == "" {
			dialectCell = "-"
		}
		detail := f.Message
		if f.Level == "ok" {
			detail = ""
		}
		t.AppendRow(table.Row{file, dialectCell, f.Level, detail})
	}
	t.Render()
}
