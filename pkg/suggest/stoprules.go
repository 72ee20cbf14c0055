package suggest

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var semverValuePattern = regexp.MustCompile(`^v?\d+\.\d+\.\d+$`)

// Path-name fragments that mark a value population as numerically sensitive.
var numericPathHints = []string{"replicas", "replica", "count", "port", "timeout", "limit"}

// detectStopRules runs the three detectors over the collected value
// populations and returns their combined proposals sorted by confidence.
// Proposals whose (kind, path) already exist in the active configuration
// are suppressed inside each detector.
func detectStopRules(collector *valueCollector, active ActiveConfig) []StopRuleSuggestion {
	paths := collector.paths()

	var suggestions []StopRuleSuggestion
	suggestions = append(suggestions, detectSemverRules(collector, paths, active)...)
	suggestions = append(suggestions, detectVersionFormatRules(collector, paths, active)...)
	suggestions = append(suggestions, detectNumericRules(collector, paths, active)...)

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Confidence > suggestions[j].Confidence
	})
	return suggestions
}

func detectSemverRules(collector *valueCollector, paths []string, active ActiveConfig) []StopRuleSuggestion {
	var suggestions []StopRuleSuggestion
	for _, path := range paths {
		collection := collector.collections[path]
		count := countSemverValues(collection.Values)
		if count == 0 {
			continue
		}

		confidence := 0.7
		if len(collection.Files) >= 2 {
			confidence = 0.95
		}
		reason := fmt.Sprintf("%d semver value(s) observed at %s", count, path)
		files := sortedFileSet(collection.Files)

		for _, rule := range []Rule{SemverDowngrade{Path: path}, SemverMajorUpgrade{Path: path}} {
			if isActiveStopRule(active, rule) {
				continue
			}
			suggestions = append(suggestions, StopRuleSuggestion{
				Rule:          rule,
				Confidence:    confidence,
				Reason:        reason,
				AffectedPaths: []string{path},
				AffectedFiles: files,
			})
		}
	}
	return suggestions
}

func detectVersionFormatRules(collector *valueCollector, paths []string, active ActiveConfig) []StopRuleSuggestion {
	var suggestions []StopRuleSuggestion
	for _, path := range paths {
		collection := collector.collections[path]

		withPrefix, withoutPrefix := 0, 0
		for _, value := range collection.Values {
			s, ok := value.(string)
			if !ok || !semverValuePattern.MatchString(s) {
				continue
			}
			if strings.HasPrefix(s, "v") {
				withPrefix++
			} else {
				withoutPrefix++
			}
		}
		total := withPrefix + withoutPrefix
		if total == 0 {
			continue
		}

		var vPrefix string
		var confidence float64
		switch {
		case withoutPrefix == 0:
			vPrefix, confidence = "required", 0.95
		case withPrefix == 0:
			vPrefix, confidence = "forbidden", 0.95
		case withPrefix > 2*withoutPrefix:
			vPrefix, confidence = "required", 0.6
		case withoutPrefix > 2*withPrefix:
			vPrefix, confidence = "forbidden", 0.6
		default:
			continue
		}

		rule := VersionFormat{Path: path, VPrefix: vPrefix}
		if isActiveStopRule(active, rule) {
			continue
		}
		suggestions = append(suggestions, StopRuleSuggestion{
			Rule:          rule,
			Confidence:    confidence,
			Reason:        fmt.Sprintf("%d of %d version value(s) at %s carry a leading v", withPrefix, total, path),
			AffectedPaths: []string{path},
			AffectedFiles: sortedFileSet(collection.Files),
		})
	}
	return suggestions
}

func detectNumericRules(collector *valueCollector, paths []string, active ActiveConfig) []StopRuleSuggestion {
	var suggestions []StopRuleSuggestion
	for _, path := range paths {
		if !hasNumericPathHint(path) {
			continue
		}
		collection := collector.collections[path]

		var numbers []float64
		for _, value := range collection.Values {
			if n, ok := coerceNumeric(value); ok {
				numbers = append(numbers, n)
			}
		}
		if len(numbers) == 0 {
			continue
		}

		observedMin, observedMax := numbers[0], numbers[0]
		for _, n := range numbers[1:] {
			if n < observedMin {
				observedMin = n
			}
			if n > observedMax {
				observedMax = n
			}
		}
		if observedMin == observedMax {
			continue
		}

		floor := int(math.Floor(observedMin * 0.5))
		if floor < 1 {
			floor = 1
		}
		rule := NumericRange{Path: path, Min: &floor}
		if isActiveStopRule(active, rule) {
			continue
		}

		confidence := 0.5
		if len(collection.Files) >= 2 {
			confidence = 0.7
		}
		suggestions = append(suggestions, StopRuleSuggestion{
			Rule:          rule,
			Confidence:    confidence,
			Reason:        fmt.Sprintf("values at %s range from %v to %v", path, trimFloat(observedMin), trimFloat(observedMax)),
			AffectedPaths: []string{path},
			AffectedFiles: sortedFileSet(collection.Files),
		})
	}
	return suggestions
}

func countSemverValues(values []interface{}) int {
	count := 0
	for _, value := range values {
		if s, ok := value.(string); ok && semverValuePattern.MatchString(s) {
			count++
		}
	}
	return count
}

func hasNumericPathHint(path string) bool {
	lower := strings.ToLower(path)
	for _, hint := range numericPathHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}

func coerceNumeric(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	case string:
		n, err := strconv.ParseFloat(v, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

func trimFloat(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

func isActiveStopRule(active ActiveConfig, rule Rule) bool {
	return active != nil && active.HasStopRule(string(rule.Kind()), rule.TargetPath())
}

func sortedFileSet(files map[string]bool) []string {
	out := make([]string, 0, len(files))
	for file := range files {
		out = append(out, file)
	}
	sort.Strings(out)
	return out
}
