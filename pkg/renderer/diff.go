package renderer

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/wonderfulspam/promote-smith/pkg/differ"
)

// FormatDiff renders a file-level diff result for display.
func FormatDiff(result *differ.FileDiffResult, format string) (string, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data), nil

	case "table", "":
		return formatDiffTable(result), nil

	default:
		return "", fmt.Errorf("unsupported format: %s (supported: table, json)", format)
	}
}

func formatDiffTable(result *differ.FileDiffResult) string {
	var buf bytes.Buffer

	buf.WriteString("Promotion Diff\n")
	buf.WriteString("==============\n\n")
	fmt.Fprintf(&buf, "Files: %d total, %d changed, %d added, %d deleted, %d unchanged\n\n",
		result.TotalFiles(), len(result.ChangedFiles), len(result.AddedFiles),
		len(result.DeletedFiles), len(result.UnchangedFiles))

	if !result.HasChanges() {
		buf.WriteString("No differences between environments\n")
		return buf.String()
	}

	for _, file := range result.ChangedFiles {
		fmt.Fprintf(&buf, "  [~] %s\n", file.Path)
	}
	for _, path := range result.AddedFiles {
		fmt.Fprintf(&buf, "  [+] %s\n", path)
	}
	for _, path := range result.DeletedFiles {
		fmt.Fprintf(&buf, "  [-] %s\n", path)
	}

	return buf.String()
}
