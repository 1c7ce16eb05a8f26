package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/leapstack-labs/lql/internal/cli/config"
	"github.com/leapstack-labs/lql/pkg/compile"
	"github.com/leapstack-labs/lql/pkg/lql"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// watchDebounce coalesces editor save bursts into a single recompile.
const watchDebounce = 100 * time.Millisecond

// compileResult pairs a source with its transpiled output or error.
type compileResult struct {
	File    string   `json:"file,omitempty"`
	Dialect string   `json:"dialect"`
	SQL     string   `json:"sql,omitempty"`
	Params  []string `json:"params,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand() *cobra.Command {
	var (
		expr  string
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "compile [files...]",
		Short: "Transpile query files to SQL",
		Long: `Transpile one or more query files to SQL in the target dialect.

Reads queries from the given files, or from --expr, or from stdin when
neither is provided. With --watch, recompiles whenever a file changes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig()
			logger := config.GetLogger(cmd.Context())

			if expr != "" {
				if len(args) > 0 {
					return fmt.Errorf("--expr and file arguments are mutually exclusive")
				}
				res := compileSource(cfg, "", expr)
				return writeResults(cmd, cfg, []compileResult{res})
			}

			if len(args) == 0 {
				source, err := readStdin(cmd)
				if err != nil {
					return err
				}
				res := compileSource(cfg, "", source)
				return writeResults(cmd, cfg, []compileResult{res})
			}

			if watch {
				return watchAndCompile(cmd, cfg, args)
			}

			results, err := compileFiles(cmd.Context(), cfg, args)
			if err != nil {
				return err
			}
			logger.Debug("compiled files", "count", len(results), "dialect", cfg.Dialect)
			return writeResults(cmd, cfg, results)
		},
	}

	cmd.Flags().StringVarP(&expr, "expr", "e", "", "Compile a query given inline instead of from files")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Watch files and recompile on change")

	return cmd
}

func readStdin(cmd *cobra.Command) (string, error) {
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}

// compileFiles transpiles each file concurrently, preserving the
// argument order in the returned slice.
func compileFiles(ctx context.Context, cfg *config.Config, files []string) ([]compileResult, error) {
	results := make([]compileResult, len(files))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, path := range files {
		g.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			results[i] = compileSource(cfg, path, string(data))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func compileSource(cfg *config.Config, file, source string) compileResult {
	res := compileResult{File: file, Dialect: cfg.Dialect}
	out, err := lql.TranspileWithOptions(source, cfg.Dialect, compile.Options{
		StrictPagination: cfg.StrictPagination,
	})
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.SQL = out.SQL
	res.Params = out.Params
	return res
}

func writeResults(cmd *cobra.Command, cfg *config.Config, results []compileResult) error {
	if cfg.Output == "json" {
		return writeResultsJSON(cmd, results)
	}

	var failed bool
	for _, res := range results {
		if res.Error != "" {
			failed = true
			prefix := ""
			if res.File != "" {
				prefix = res.File + ": "
			}
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%s%s\n", prefix, res.Error)
			continue
		}
		if len(results) > 1 && res.File != "" {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "-- %s\n", res.File)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s;\n", res.SQL)
		if len(res.Params) > 0 {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "-- params: %s\n", strings.Join(res.Params, ", "))
		}
	}
	if failed {
		return fmt.Errorf("compilation failed")
	}
	return nil
}

func writeResultsJSON(cmd *cobra.Command, results []compileResult) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")

	var err error
	if len(results) == 1 && results[0].File == "" {
		err = enc.Encode(results[0])
	} else {
		err = enc.Encode(results)
	}
	if err != nil {
		return err
	}
	for _, res := range results {
		if res.Error != "" {
			return fmt.Errorf("compilation failed")
		}
	}
	return nil
}

// watchAndCompile compiles the files once, then recompiles on every
// filesystem change until the context is canceled.
func watchAndCompile(cmd *cobra.Command, cfg *config.Config, files []string) error {
	logger := config.GetLogger(cmd.Context())

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch parent directories rather than the files themselves:
	// editors replace files on save, which drops a direct file watch.
	watched := make(map[string]bool)
	for _, f := range files {
		dir := filepath.Dir(f)
		if watched[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
		watched[dir] = true
	}

	targets := make(map[string]bool, len(files))
	for _, f := range files {
		targets[filepath.Clean(f)] = true
	}

	recompile := func() {
		results, err := compileFiles(cmd.Context(), cfg, files)
		if err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%v\n", err)
			return
		}
		_ = writeResults(cmd, cfg, results)
	}

	recompile()
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Watching %d file(s) for changes (Ctrl+C to stop)\n", len(files))

	var (
		timer   *time.Timer
		timerCh <-chan time.Time
	)

	for {
		select {
		case <-cmd.Context().Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !targets[filepath.Clean(event.Name)] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("file changed", "file", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
				timerCh = timer.C
			} else {
				timer.Reset(watchDebounce)
			}
		case <-timerCh:
			timer = nil
			timerCh = nil
			recompile()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", err)
		}
	}
}
