package commands

import (
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/lql/pkg/core"
	"github.com/leapstack-labs/lql/pkg/dialect"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// displayNames maps registry names onto their conventional spelling.
// Anything not listed falls back to title case.
var displayNames = map[string]string{
	"sqlite":    "SQLite",
	"postgres":  "PostgreSQL",
	"sqlserver": "SQL Server",
}

// NewDialectsCommand creates the dialects command.
func NewDialectsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dialects",
		Short: "List supported SQL dialects",
		Long:  `Display the registered SQL dialects and their rendering capabilities.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := getConfig()
			if cfg.Output == "json" {
				return renderDialectsJSON(cmd)
			}
			return renderDialectsTable(cmd)
		},
	}
}

func renderDialectsTable(cmd *cobra.Command) error {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Dialect", "Name", "Quoting", "Booleans", "Concat", "Placeholders", "Pagination"})

	for _, name := range dialect.List() {
		d, ok := dialect.Get(name)
		if !ok {
			continue
		}
		c := d.Config()
		t.AppendRow(table.Row{
			name,
			displayName(name),
			c.Identifiers.Quote + "id" + c.Identifiers.QuoteEnd,
			c.BooleanTrue + "/" + c.BooleanFalse,
			c.ConcatOperator,
			placeholderLabel(c.Placeholder),
			paginationLabel(c.Pagination),
		})
	}
	t.Render()
	return nil
}

type dialectInfo struct {
	Dialect      string `json:"dialect"`
	Name         string `json:"name"`
	Quote        string `json:"quote"`
	QuoteEnd     string `json:"quote_end"`
	BooleanTrue  string `json:"boolean_true"`
	BooleanFalse string `json:"boolean_false"`
	Concat       string `json:"concat"`
	Placeholders string `json:"placeholders"`
	Pagination   string `json:"pagination"`
}

func renderDialectsJSON(cmd *cobra.Command) error {
	var infos []dialectInfo
	for _, name := range dialect.List() {
		d, ok := dialect.Get(name)
		if !ok {
			continue
		}
		c := d.Config()
		infos = append(infos, dialectInfo{
			Dialect:      name,
			Name:         displayName(name),
			Quote:        c.Identifiers.Quote,
			QuoteEnd:     c.Identifiers.QuoteEnd,
			BooleanTrue:  c.BooleanTrue,
			BooleanFalse: c.BooleanFalse,
			Concat:       c.ConcatOperator,
			Placeholders: placeholderLabel(c.Placeholder),
			Pagination:   paginationLabel(c.Pagination),
		})
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(infos)
}

func displayName(name string) string {
	if display, ok := displayNames[name]; ok {
		return display
	}
	return cases.Title(language.English).String(name)
}

func placeholderLabel(style core.PlaceholderStyle) string {
	switch style {
	case core.PlaceholderQuestion:
		return "?"
	case core.PlaceholderDollar:
		return "$n"
	case core.PlaceholderAtNumbered:
		return "@pn"
	default:
		return fmt.Sprintf("style(%d)", style)
	}
}

func paginationLabel(style core.PaginationStyle) string {
	switch style {
	case core.PaginationLimitOffset:
		return "LIMIT/OFFSET"
	case core.PaginationFetchNext:
		return "OFFSET/FETCH"
	default:
		return fmt.Sprintf("style(%d)", style)
	}
}
