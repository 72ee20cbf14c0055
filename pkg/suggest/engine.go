package suggest

import (
	"errors"
	"fmt"
	"math"
	"path"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/wonderfulspam/promote-smith/pkg/differ"
)

// ErrAnalysisFailed wraps any unexpected internal failure of one analysis
// pass. Analysis is pure and deterministic, so it is fatal for that
// invocation and never retried.
var ErrAnalysisFailed = errors.New("analysis failed")

// DefaultMinConfidence is the threshold below which transform suggestions
// are dropped unless the caller overrides it.
const DefaultMinConfidence = 0.3

const maxDisplayExamples = 3

// ActiveConfig is the read-only view of the currently adopted promotion
// configuration, consulted solely to suppress rules that already exist.
type ActiveConfig interface {
	HasContentRule(find, replace string) bool
	HasStopRule(ruleType, path string) bool
}

// Options tunes one analysis run.
type Options struct {
	// MinConfidence drops transform suggestions scoring below it.
	// Zero or negative selects DefaultMinConfidence.
	MinConfidence float64
}

var (
	numericValuePattern = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
	semverishPattern    = regexp.MustCompile(`^v?\d+\.\d+`)
)

// Environment keywords that nudge a transform suggestion's confidence up.
var environmentKeywords = []string{"uat", "prod", "staging", "production", "dev", "test"}

// Analyze runs the full difference analysis over a file-level diff: the tree
// differ and pattern extractor produce transform suggestions from the raw
// trees, the value collector and detectors produce stop-rule suggestions
// from the processed trees, and both lists are checked against the active
// configuration. The input is treated as a read-only snapshot.
func Analyze(fileDiff *differ.FileDiffResult, active ActiveConfig, opts Options) (result *SuggestionResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("%w: %v", ErrAnalysisFailed, r)
		}
	}()

	threshold := opts.MinConfidence
	if threshold <= 0 {
		threshold = DefaultMinConfidence
	}

	occurrences := make(map[string]*patternOccurrence)
	var occurrenceOrder []string
	collector := newValueCollector()

	for _, file := range fileDiff.ChangedFiles {
		differences := diffTrees(file.RawSource, file.RawDest, file.Path, file.SkipPaths)
		for _, diff := range differences {
			oldValue := stringifyValue(diff.OldValue)
			targetValue := stringifyValue(diff.TargetValue)
			if oldValue == targetValue || isNoisePair(oldValue, targetValue) {
				continue
			}
			for _, cand := range extractCandidates(oldValue, targetValue) {
				key := occurrenceKey(cand.find, cand.replace)
				occ, ok := occurrences[key]
				if !ok {
					occ = &patternOccurrence{
						find:    cand.find,
						replace: cand.replace,
						files:   make(map[string]bool),
					}
					occurrences[key] = occ
					occurrenceOrder = append(occurrenceOrder, key)
				}
				occ.files[file.Path] = true
				occ.examples = append(occ.examples, ValuePair{Old: oldValue, New: targetValue})
			}
		}

		collector.collect(file.ProcessedSource, file.Path, file.SkipPaths)
		collector.collect(file.ProcessedDest, file.Path, file.SkipPaths)
	}

	transforms := buildTransformSuggestions(occurrences, occurrenceOrder, threshold, active)
	stopRules := detectStopRules(collector, active)

	return &SuggestionResult{
		Transforms: groupTransforms(transforms),
		StopRules:  groupStopRules(stopRules),
		Metadata: Metadata{
			FilesAnalyzed: fileDiff.TotalFiles(),
			ChangedFiles:  len(fileDiff.ChangedFiles),
			Timestamp:     time.Now().UTC(),
		},
	}, nil
}

func buildTransformSuggestions(occurrences map[string]*patternOccurrence, order []string, threshold float64, active ActiveConfig) []TransformSuggestion {
	var suggestions []TransformSuggestion
	for _, key := range order {
		occ := occurrences[key]
		if len(occ.examples) < 2 {
			continue
		}
		if numericValuePattern.MatchString(occ.find) && numericValuePattern.MatchString(occ.replace) {
			continue
		}
		if isBoolLiteral(occ.find) && isBoolLiteral(occ.replace) {
			continue
		}
		if semverishPattern.MatchString(occ.find) && semverishPattern.MatchString(occ.replace) {
			continue
		}
		confidence := scoreOccurrence(occ)
		if confidence < threshold {
			continue
		}
		if active != nil && active.HasContentRule(occ.find, occ.replace) {
			continue
		}

		examples := occ.examples
		if len(examples) > maxDisplayExamples {
			examples = examples[:maxDisplayExamples]
		}
		suggestions = append(suggestions, TransformSuggestion{
			Find:          occ.find,
			Replace:       occ.replace,
			Confidence:    confidence,
			Occurrences:   len(occ.examples),
			AffectedFiles: sortedFileSet(occ.files),
			Examples:      examples,
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Confidence > suggestions[j].Confidence
	})
	return suggestions
}

// scoreOccurrence bases confidence on file spread, with a small bonus when
// the rule mentions a known environment keyword.
func scoreOccurrence(occ *patternOccurrence) float64 {
	fileCount := len(occ.files)

	var confidence float64
	switch {
	case fileCount > 3:
		confidence = 0.85
	case fileCount >= 2:
		confidence = 0.6
	case len(occ.examples) >= 3:
		confidence = 0.5
	default:
		confidence = 0.3
	}

	if hasEnvironmentKeyword(occ.find) || hasEnvironmentKeyword(occ.replace) {
		confidence = math.Min(confidence+0.05, 0.95)
	}
	return confidence
}

func hasEnvironmentKeyword(s string) bool {
	lower := strings.ToLower(s)
	for _, keyword := range environmentKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

func isBoolLiteral(s string) bool {
	return s == "true" || s == "false"
}

func stringifyValue(value interface{}) string {
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}

func groupTransforms(suggestions []TransformSuggestion) map[string][]TransformSuggestion {
	grouped := make(map[string][]TransformSuggestion)
	for _, s := range suggestions {
		pattern := globPatternFor(s.AffectedFiles)
		grouped[pattern] = append(grouped[pattern], s)
	}
	return grouped
}

func groupStopRules(suggestions []StopRuleSuggestion) map[string][]StopRuleSuggestion {
	grouped := make(map[string][]StopRuleSuggestion)
	for _, s := range suggestions {
		pattern := globPatternFor(s.AffectedFiles)
		grouped[pattern] = append(grouped[pattern], s)
	}
	return grouped
}

// globPatternFor picks the config glob a suggestion should be filed under:
// the shared extension of its affected files, or a catch-all.
func globPatternFor(files []string) string {
	ext := ""
	for i, file := range files {
		e := path.Ext(file)
		if i == 0 {
			ext = e
		} else if e != ext {
			ext = ""
			break
		}
	}
	if ext == "" {
		return "**/*"
	}
	return "**/*" + ext
}
