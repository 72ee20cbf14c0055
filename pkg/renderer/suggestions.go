package renderer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/wonderfulspam/promote-smith/pkg/suggest"
)

// FormatSuggestions renders a suggestion result for display.
func FormatSuggestions(result *suggest.SuggestionResult, format string) (string, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data), nil

	case "text", "":
		return formatSuggestionsText(result), nil

	default:
		return "", fmt.Errorf("unsupported format: %s (supported: text, json)", format)
	}
}

// formatSuggestionsText renders the result as pasteable promotion config
// text: a commented header, then transforms and stopRules sections grouped
// by glob pattern. Both keys are always present so the output stays
// structurally complete even when a section is empty.
func formatSuggestionsText(result *suggest.SuggestionResult) string {
	var buf bytes.Buffer

	buf.WriteString("# promote-smith suggested promotion rules\n")
	fmt.Fprintf(&buf, "# Generated: %s\n", result.Metadata.Timestamp.UTC().Format(time.RFC3339))
	fmt.Fprintf(&buf, "# Analyzed %d file(s), %d changed\n", result.Metadata.FilesAnalyzed, result.Metadata.ChangedFiles)
	buf.WriteString("#\n")
	buf.WriteString("# How to use:\n")
	buf.WriteString("#   1. Review each rule below and delete anything unintended\n")
	buf.WriteString("#   2. Paste the kept rules into your promotion config\n")
	buf.WriteString("#   3. Re-run 'promote-smith suggest' to confirm the drift is covered\n")
	buf.WriteString("\n")

	writeTransformsSection(&buf, result.Transforms)
	buf.WriteString("\n")
	writeStopRulesSection(&buf, result.StopRules)

	return buf.String()
}

func writeTransformsSection(buf *bytes.Buffer, transforms map[string][]suggest.TransformSuggestion) {
	if len(transforms) == 0 {
		buf.WriteString("transforms: [] # no transform suggestions found\n")
		return
	}

	buf.WriteString("transforms:\n")
	for _, pattern := range sortedPatternsT(transforms) {
		fmt.Fprintf(buf, "  - pattern: '%s'\n", quoteSingle(pattern))
		buf.WriteString("    content:\n")
		for _, s := range transforms[pattern] {
			fmt.Fprintf(buf, "      # confidence %d%% | %d file(s), %d occurrence(s)", percent(s.Confidence), len(s.AffectedFiles), s.Occurrences)
			if len(s.Examples) > 0 {
				fmt.Fprintf(buf, " | e.g. '%s' -> '%s'", quoteSingle(s.Examples[0].Old), quoteSingle(s.Examples[0].New))
			}
			buf.WriteString("\n")
			fmt.Fprintf(buf, "      - find: '%s'\n", quoteSingle(s.Find))
			fmt.Fprintf(buf, "        replace: '%s'\n", quoteSingle(s.Replace))
		}
	}
}

func writeStopRulesSection(buf *bytes.Buffer, stopRules map[string][]suggest.StopRuleSuggestion) {
	if len(stopRules) == 0 {
		buf.WriteString("stopRules: [] # no stop rule suggestions found\n")
		return
	}

	buf.WriteString("stopRules:\n")
	for _, pattern := range sortedPatternsS(stopRules) {
		fmt.Fprintf(buf, "  - pattern: '%s'\n", quoteSingle(pattern))
		buf.WriteString("    rules:\n")
		for _, s := range stopRules[pattern] {
			fmt.Fprintf(buf, "      # confidence %d%% | %s\n", percent(s.Confidence), s.Reason)
			writeStopRule(buf, s.Rule)
		}
	}
}

func writeStopRule(buf *bytes.Buffer, rule suggest.Rule) {
	fmt.Fprintf(buf, "      - type: %s\n", rule.Kind())
	fmt.Fprintf(buf, "        path: '%s'\n", quoteSingle(rule.TargetPath()))

	switch r := rule.(type) {
	case suggest.SemverDowngrade, suggest.SemverMajorUpgrade:
		// Path is the whole rule.
	case suggest.VersionFormat:
		fmt.Fprintf(buf, "        vPrefix: %s\n", r.VPrefix)
	case suggest.NumericRange:
		if r.Min != nil {
			fmt.Fprintf(buf, "        min: %d\n", *r.Min)
		}
		if r.Max != nil {
			fmt.Fprintf(buf, "        max: %d\n", *r.Max)
		}
	}
}

// quoteSingle doubles single quotes so values stay safe inside the
// single-quoted YAML scalars this renderer emits.
func quoteSingle(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func percent(confidence float64) int {
	return int(math.Round(confidence * 100))
}

func sortedPatternsT(m map[string][]suggest.TransformSuggestion) []string {
	patterns := make([]string, 0, len(m))
	for pattern := range m {
		patterns = append(patterns, pattern)
	}
	sort.Strings(patterns)
	return patterns
}

func sortedPatternsS(m map[string][]suggest.StopRuleSuggestion) []string {
	patterns := make([]string, 0, len(m))
	for pattern := range m {
		patterns = append(patterns, pattern)
	}
	sort.Strings(patterns)
	return patterns
}
