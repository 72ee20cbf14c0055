package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonderfulspam/promote-smith/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate [config]",
	Short: "Validate a promotion configuration file",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Configuration is valid\n")
	fmt.Fprintf(out, "  From: %s\n", cfg.From)
	fmt.Fprintf(out, "  To: %s\n", cfg.To)
	fmt.Fprintf(out, "  Transform groups: %d\n", len(cfg.Transforms))
	fmt.Fprintf(out, "  Stop rule groups: %d\n", len(cfg.StopRules))
	return nil
}
