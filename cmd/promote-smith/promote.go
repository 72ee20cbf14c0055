package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/wonderfulspam/promote-smith/pkg/config"
	"github.com/wonderfulspam/promote-smith/pkg/loader"
	"github.com/wonderfulspam/promote-smith/pkg/rules"
	"github.com/wonderfulspam/promote-smith/pkg/transform"
)

var promoteCmd = &cobra.Command{
	Use:   "promote [config]",
	Short: "Apply transforms and write promoted files to the target environment",
	Long: `Promote applies the configured filename and content transforms to every
matched file in the source environment and writes the result into the target
environment. Configured stop rules are enforced first; any violation blocks
the promotion unless --force is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runPromote,
}

var (
	promoteDryRun bool
	promoteForce  bool
)

func init() {
	promoteCmd.Flags().BoolVar(&promoteDryRun, "dry-run", false, "Report what would be written without writing")
	promoteCmd.Flags().BoolVar(&promoteForce, "force", false, "Write files even when stop rules are violated")
	rootCmd.AddCommand(promoteCmd)
}

func runPromote(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(args[0])
	if err != nil {
		return err
	}

	fromFiles, err := loader.LoadDir(cfg.From, cfg.Files)
	if err != nil {
		return err
	}
	toFiles, err := loader.LoadDir(cfg.To, cfg.Files)
	if err != nil {
		return err
	}

	engine := transform.New(cfg)
	out := cmd.OutOrStdout()

	paths := make([]string, 0, len(fromFiles))
	for path := range fromFiles {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var allViolations []rules.Violation
	written := 0
	for _, fromPath := range paths {
		toPath, err := engine.ApplyFilename(fromPath)
		if err != nil {
			return err
		}
		promoted, err := engine.ApplyContent(fromPath, fromFiles[fromPath].Raw)
		if err != nil {
			return err
		}
		promotedTree, err := loader.Parse(promoted)
		if err != nil {
			return err
		}

		var currentTree interface{}
		if toFile, ok := toFiles[toPath]; ok {
			currentTree = toFile.Tree
		}
		violations, err := rules.Evaluate(cfg, toPath, currentTree, promotedTree)
		if err != nil {
			return err
		}
		if len(violations) > 0 {
			allViolations = append(allViolations, violations...)
			for _, v := range violations {
				fmt.Fprintf(out, "BLOCKED %s (%s at %s): %s\n", v.FilePath, v.RuleType, v.Path, v.Message)
			}
			if !promoteForce {
				continue
			}
		}

		target := filepath.Join(cfg.To, filepath.FromSlash(toPath))
		if promoteDryRun {
			fmt.Fprintf(out, "would write %s\n", target)
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(target, promoted, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %s\n", target)
		written++
	}

	if len(allViolations) > 0 && !promoteForce {
		return fmt.Errorf("%d stop rule violation(s) blocked the promotion", len(allViolations))
	}
	if !promoteDryRun {
		fmt.Fprintf(out, "Promoted %d file(s)\n", written)
	}
	return nil
}
