package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonderfulspam/promote-smith/pkg/config"
	"github.com/wonderfulspam/promote-smith/pkg/differ"
	"github.com/wonderfulspam/promote-smith/pkg/loader"
	"github.com/wonderfulspam/promote-smith/pkg/renderer"
	"github.com/wonderfulspam/promote-smith/pkg/transform"
)

var diffCmd = &cobra.Command{
	Use:   "diff [config]",
	Short: "Show file-level differences between the two environments",
	Args:  cobra.ExactArgs(1),
	RunE:  runDiff,
}

var diffFormat string

func init() {
	diffCmd.Flags().StringVar(&diffFormat, "format", "table", "Output format: table, json")
	rootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	result, _, err := diffEnvironments(args[0])
	if err != nil {
		return err
	}

	output, err := renderer.FormatDiff(result, diffFormat)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), output)
	return nil
}

// diffEnvironments loads both environment trees for a promotion config and
// runs the file-level comparison. Shared by diff, promote and suggest.
func diffEnvironments(configPath string) (*differ.FileDiffResult, *config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	fromFiles, err := loader.LoadDir(cfg.From, cfg.Files)
	if err != nil {
		return nil, nil, err
	}
	toFiles, err := loader.LoadDir(cfg.To, cfg.Files)
	if err != nil {
		return nil, nil, err
	}

	result, err := differ.Compare(fromFiles, toFiles, cfg, transform.New(cfg))
	if err != nil {
		return nil, nil, err
	}
	return result, cfg, nil
}
