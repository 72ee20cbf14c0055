package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "promote-smith",
	Short: "Configuration promotion between environments with drift analysis",
	Long: `promote-smith promotes configuration files between environments (e.g.
UAT to PROD), applying transform rules, enforcing stop rules, and suggesting
new rules from the drift it finds.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
