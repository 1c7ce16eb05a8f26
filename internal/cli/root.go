// Package cli provides the command-line interface for LQL.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/leapstack-labs/lql/internal/cli/commands"
	"github.com/leapstack-labs/lql/internal/cli/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// configKey is used to store config in context.
type configKey struct{}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lql",
		Short: "LQL - Lambda Query Language transpiler",
		Long: `LQL transpiles pipeline-style queries into SQL for SQLite,
PostgreSQL, and SQL Server.

Queries read left to right as a chain of stages:

  Users |> filter(fn(u) => u.Age >= @min_age) |> select(u.Name)

The transpiler produces parameterized SQL in the target dialect without
touching a database.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			var err error
			cfg, err = config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			ctx := context.WithValue(cmd.Context(), configKey{}, cfg)

			logger := newLogger(cmd.ErrOrStderr(), cfg.Verbose)
			ctx = config.WithLogger(ctx, logger)
			cmd.SetContext(ctx)

			if cfg.Verbose {
				if configFile := config.ConfigFileUsed(); configFile != "" {
					fmt.Fprintf(os.Stderr, "Using config file: %s\n", configFile)
				}
			}

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Set version template
	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
Pipeline query transpiler for SQLite, PostgreSQL, and SQL Server
`)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./lql.yaml)")
	rootCmd.PersistentFlags().StringP("dialect", "d", "", "Target SQL dialect (sqlite|postgres|sqlserver)")
	rootCmd.PersistentFlags().Bool("strict-pagination", false, "Reject offset pagination without order_by on dialects that require it")
	rootCmd.PersistentFlags().String("schema", "", "Path to a YAML schema catalog for column checking")
	rootCmd.PersistentFlags().String("db", "", "Live database for schema checking (<driver>:<dsn>, driver sqlite or postgres)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (sql|json)")

	// Register completion for dialect flag
	_ = rootCmd.RegisterFlagCompletionFunc("dialect", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"sqlite", "postgres", "sqlserver"}, cobra.ShellCompDirectiveNoFileComp
	})

	// Register completion for output flag
	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"sql", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	// Add subcommands
	rootCmd.AddCommand(commands.NewVersionCommand(Version, BuildDate, GitCommit))
	rootCmd.AddCommand(commands.NewCompileCommand())
	rootCmd.AddCommand(commands.NewCheckCommand())
	rootCmd.AddCommand(commands.NewREPLCommand())
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewDialectsCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// newLogger builds the CLI logger. Without --verbose all log output is
// discarded; diagnostics still reach the user through command output.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// GetConfig retrieves the config from the command context.
func GetConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	// Return default config if none in context
	return &config.Config{
		Dialect: config.DefaultDialect,
		Output:  config.DefaultOutput,
		Serve:   config.ServeConfig{Addr: config.DefaultServeAddr},
	}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	return config.GetLogger(ctx)
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for LQL.

To load completions:

Bash:
  $ source <(lql completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ lql completion bash > /etc/bash_completion.d/lql
  # macOS:
  $ lql completion bash > $(brew --prefix)/etc/bash_completion.d/lql

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ lql completion zsh > "${fpath[1]}/_lql"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ lql completion fish | source

  # To load completions for each session, execute once:
  $ lql completion fish > ~/.config/fish/completions/lql.fish

PowerShell:
  PS> lql completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> lql completion powershell > lql.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
	return cmd
}
