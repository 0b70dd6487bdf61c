package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/bimmerbailey/quill/internal/config"
	"github.com/bimmerbailey/quill/internal/docstring"
	"github.com/bimmerbailey/quill/internal/output"
	"github.com/bimmerbailey/quill/internal/watch"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

var stripCmd = &cobra.Command{
	Use:   "strip [flags] <path>...",
	Short: "Remove triple-quoted docstrings from source files",
	Long: `Strip existing docstrings so that a model documents the code from
scratch. Paths may be files, glob patterns or directories; directories are
walked for files matching strip.include (default *.py).

By default the stripped source is printed. With --write each file is
written next to the original with the strip.prefix (default "nosync_"),
and with --in-place the original is overwritten.

Examples:
  quill strip src/mypkg/core.py
  quill strip --write src/mypkg
  quill strip --in-place --mode replace "src/**/*.py"
  quill strip --write --watch src/mypkg/core.py`,
	Args: cobra.MinimumNArgs(1),
	RunE: runStrip,
}

func init() {
	stripCmd.Flags().String("mode", "", "removal mode: splice (by position) or replace (legacy, by content)")
	stripCmd.Flags().Bool("strict", false, "fail on unterminated docstring blocks")
	stripCmd.Flags().BoolP("write", "w", false, "write <prefix><name> next to each file")
	stripCmd.Flags().BoolP("in-place", "i", false, "overwrite files in place")
	stripCmd.Flags().Bool("watch", false, "re-strip files when they change (requires --write)")
	stripCmd.Flags().Bool("no-color", false, "disable colored output")

	rootCmd.AddCommand(stripCmd)
}

// stripResult describes the outcome for one file.
type stripResult struct {
	Path         string        `json:"path"`
	Output       string        `json:"output,omitempty"`
	Status       output.Status `json:"status"`
	Blocks       int           `json:"blocks"`
	Unterminated int           `json:"unterminated_line,omitempty"`
	Text         string        `json:"text,omitempty"` // stripped source when nothing was written
}

type stripOptions struct {
	stripper docstring.Stripper
	prefix   string
	write    bool
	inPlace  bool
	logger   *slog.Logger
}

func runStrip(cmd *cobra.Command, args []string) error {
	mode, _ := cmd.Flags().GetString("mode")
	strict, _ := cmd.Flags().GetBool("strict")
	write, _ := cmd.Flags().GetBool("write")
	inPlace, _ := cmd.Flags().GetBool("in-place")
	watchFiles, _ := cmd.Flags().GetBool("watch")
	noColor, _ := cmd.Flags().GetBool("no-color")

	if write && inPlace {
		return fmt.Errorf("--write and --in-place are mutually exclusive")
	}
	if watchFiles && !write {
		return fmt.Errorf("--watch requires --write")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if mode != "" {
		cfg.Strip.Mode = mode
	}
	if strict {
		cfg.Strip.Strict = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if write && cfg.Strip.Prefix == "" {
		return fmt.Errorf("--write needs a non-empty strip.prefix")
	}

	files, err := config.ExpandGlobs(args, cfg.Strip.Include, cfg.Strip.Prefix)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No matching files found.")
		return nil
	}

	opts := stripOptions{
		stripper: cfg.Stripper(),
		prefix:   cfg.Strip.Prefix,
		write:    write,
		inPlace:  inPlace,
		logger:   newLogger(),
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, err := stripFiles(ctx, files, opts, cfg.Strip.Concurrency)
	if err != nil {
		return err
	}

	colorMode := output.ColorAuto
	if noColor {
		colorMode = output.ColorNever
	}
	if err := writeStripResults(cmd, results, write || inPlace, colorMode); err != nil {
		return err
	}

	if !watchFiles {
		return nil
	}

	watcher, err := watch.New(watch.Options{
		Paths:    files,
		Debounce: cfg.Watch.Debounce,
		Logger:   opts.logger,
		OnChange: func(ctx context.Context, path string) error {
			res, err := stripFile(path, opts)
			if err != nil {
				return err
			}
			return writeStripResults(cmd, []stripResult{res}, true, colorMode)
		},
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Watching %d file(s). Press Ctrl+C to stop.\n", len(files))
	return watcher.Run(ctx)
}

// stripFiles processes files concurrently and returns results in input order.
func stripFiles(ctx context.Context, files []string, opts stripOptions, concurrency int) ([]stripResult, error) {
	results := make([]stripResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := stripFile(file, opts)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// stripFile strips one file and writes the result when requested.
func stripFile(path string, opts stripOptions) (stripResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return stripResult{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return stripResult{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	stripped, scan, err := opts.stripper.Strip(string(data))
	if err != nil {
		return stripResult{}, fmt.Errorf("%s: %w", path, err)
	}

	res := stripResult{
		Path:   path,
		Blocks: len(scan.Ranges),
		Status: output.StatusUnchanged,
	}
	if res.Blocks > 0 {
		res.Status = output.StatusChanged
	}
	if scan.Unterminated != nil {
		res.Status = output.StatusWarning
		res.Unterminated = scan.Unterminated.Line + 1
		opts.logger.Warn("unterminated docstring left in place",
			"path", path,
			"line", res.Unterminated,
			"delimiter", string(scan.Unterminated.Delimiter),
		)
	}

	switch {
	case opts.write:
		res.Output = filepath.Join(filepath.Dir(path), opts.prefix+filepath.Base(path))
	case opts.inPlace && stripped != string(data):
		res.Output = path
	case opts.inPlace:
		return res, nil
	default:
		res.Text = stripped
		return res, nil
	}

	if err := os.WriteFile(res.Output, []byte(stripped), info.Mode().Perm()); err != nil {
		return stripResult{}, fmt.Errorf("failed to write %s: %w", res.Output, err)
	}
	opts.logger.Info("stripped docstrings", "path", path, "output", res.Output, "blocks", res.Blocks)
	return res, nil
}

func writeStripResults(cmd *cobra.Command, results []stripResult, wrote bool, colorMode output.ColorMode) error {
	writer := output.New(cmd.OutOrStdout(), output.ParseFormat(viper.GetString("format")))

	switch writer.Format() {
	case output.FormatJSON:
		return writer.WriteJSON(results)
	case output.FormatTable:
		rows := make([][]string, 0, len(results))
		for _, r := range results {
			rows = append(rows, []string{r.Path, r.Status.String(), strconv.Itoa(r.Blocks), r.Output})
		}
		return writer.WriteTable([]string{"FILE", "STATUS", "BLOCKS", "OUTPUT"}, rows)
	}

	if wrote {
		for _, r := range results {
			msg := fmt.Sprintf("%s (%d blocks)", r.Path, r.Blocks)
			if r.Output != "" && r.Output != r.Path {
				msg += " -> " + r.Output
			}
			if r.Unterminated > 0 {
				msg += fmt.Sprintf(", unterminated block at line %d", r.Unterminated)
			}
			if err := writer.WriteStatus(r.Status, msg, colorMode); err != nil {
				return err
			}
		}
		return nil
	}

	for _, r := range results {
		if len(results) > 1 {
			fmt.Fprintf(cmd.OutOrStdout(), "==> %s <==\n", r.Path)
		}
		fmt.Fprint(cmd.OutOrStdout(), r.Text)
		if len(results) > 1 {
			fmt.Fprintln(cmd.OutOrStdout())
		}
	}
	return nil
}
