package cmd

import (
	"fmt"
	"os"

	"github.com/bimmerbailey/quill/internal/config"
	"github.com/bimmerbailey/quill/internal/output"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [flags] <dir>",
	Short: "Remove generated copies left by strip --write",
	Long: `Delete the copies written by strip --write: every file under a
directory whose name is strip.prefix (default "nosync_") followed by a name
matching strip.include (default *.py).

Examples:
  quill clean src/mypkg
  quill clean --dry-run src/mypkg`,
	Args: cobra.ExactArgs(1),
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().Bool("dry-run", false, "list files without removing them")

	rootCmd.AddCommand(cleanCmd)
}

type cleanResult struct {
	Path   string        `json:"path"`
	Status output.Status `json:"status"`
}

func runClean(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	root := args[0]
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", root)
	}

	files, err := config.FindGenerated(root, cfg.Strip.Prefix, cfg.Strip.Include)
	if err != nil {
		return err
	}

	logger := newLogger()
	results := make([]cleanResult, 0, len(files))
	for _, file := range files {
		status := output.StatusUnchanged
		if !dryRun {
			if err := os.Remove(file); err != nil {
				return fmt.Errorf("failed to remove %s: %w", file, err)
			}
			status = output.StatusRemoved
			logger.Info("removed generated file", "path", file)
		}
		results = append(results, cleanResult{Path: file, Status: status})
	}

	writer := output.New(cmd.OutOrStdout(), output.ParseFormat(viper.GetString("format")))
	switch writer.Format() {
	case output.FormatJSON:
		return writer.WriteJSON(results)
	case output.FormatTable:
		rows := make([][]string, 0, len(results))
		for _, r := range results {
			rows = append(rows, []string{r.Path, r.Status.String()})
		}
		return writer.WriteTable([]string{"FILE", "STATUS"}, rows)
	}

	if len(results) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No %s* files found.\n", cfg.Strip.Prefix)
		return nil
	}
	for _, r := range results {
		verb := "Removed"
		if dryRun {
			verb = "Would remove"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", verb, r.Path)
	}
	return nil
}
