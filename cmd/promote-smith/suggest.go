package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonderfulspam/promote-smith/pkg/renderer"
	"github.com/wonderfulspam/promote-smith/pkg/suggest"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest [config]",
	Short: "Suggest transform and stop rules from drift between environments",
	Long: `Suggest compares the two environments, analyzes the residual drift the
configured transforms do not cover, and prints candidate transform rules and
stop rules ready to paste into the promotion config.`,
	Args: cobra.ExactArgs(1),
	RunE: runSuggest,
}

var (
	suggestFormat        string
	suggestMinConfidence float64
)

func init() {
	suggestCmd.Flags().StringVar(&suggestFormat, "format", "text", "Output format: text, json")
	suggestCmd.Flags().Float64Var(&suggestMinConfidence, "min-confidence", 0, "Minimum confidence for transform suggestions (overrides config)")
	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(cmd *cobra.Command, args []string) error {
	fileDiff, cfg, err := diffEnvironments(args[0])
	if err != nil {
		return err
	}

	minConfidence := suggestMinConfidence
	if minConfidence <= 0 {
		minConfidence = cfg.Suggest.MinConfidence
	}

	result, err := suggest.Analyze(fileDiff, cfg, suggest.Options{MinConfidence: minConfidence})
	if err != nil {
		return err
	}

	output, err := renderer.FormatSuggestions(result, suggestFormat)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), output)
	return nil
}
