package cmd

import (
	"fmt"

	"github.com/bimmerbailey/quill/internal/output"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var seedCmd = &cobra.Command{
	Use:   "seed [label]",
	Short: "Show the seed and soup derived from a label",
	Long: `Display the integer seed and the shuffled alphabet ("soup") that the
codec derives from a label. Useful when checking that two machines agree on
the key material before exchanging obscured artifacts.

Examples:
  quill seed mypkg
  quill seed --format json mypkg`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

type seedResult struct {
	Label    string `json:"label"`
	Seed     string `json:"seed"`
	Soup     string `json:"soup"`
	Rotation string `json:"rotation"`
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	label := ""
	if len(args) == 1 {
		label = args[0]
	}
	codec, err := cfg.Codec(label)
	if err != nil {
		return err
	}

	result := seedResult{
		Label:    codec.Label(),
		Seed:     codec.Seed().String(),
		Soup:     codec.Soup(),
		Rotation: codec.Rotation().String(),
	}

	writer := output.New(cmd.OutOrStdout(), output.ParseFormat(viper.GetString("format")))
	switch writer.Format() {
	case output.FormatJSON:
		return writer.WriteJSON(result)
	case output.FormatTable:
		return writer.WriteTable(
			[]string{"LABEL", "SEED", "ROTATION", "SOUP"},
			[][]string{{result.Label, result.Seed, result.Rotation, result.Soup}},
		)
	default:
		fmt.Fprintf(cmd.OutOrStdout(), "Label:    %s\n", result.Label)
		fmt.Fprintf(cmd.OutOrStdout(), "Seed:     %s\n", result.Seed)
		fmt.Fprintf(cmd.OutOrStdout(), "Rotation: %s\n", result.Rotation)
		fmt.Fprintf(cmd.OutOrStdout(), "Soup:     %s\n", result.Soup)
		return nil
	}
}
