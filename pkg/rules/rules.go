package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/wonderfulspam/promote-smith/pkg/config"
	"github.com/wonderfulspam/promote-smith/pkg/suggest"
)

// Violation is one stop rule blocking a promotion.
type Violation struct {
	FilePath string `json:"file_path"`
	Path     string `json:"path"`
	RuleType string `json:"rule_type"`
	Message  string `json:"message"`
}

// Evaluate checks every configured stop rule matching filePath against the
// promoted tree (and, where a comparison is needed, the current to-side
// tree). currentTree may be nil for files that do not exist yet.
func Evaluate(cfg *config.Config, filePath string, currentTree, promotedTree interface{}) ([]Violation, error) {
	var violations []Violation
	for _, entry := range cfg.StopRulesFor(filePath) {
		rule, err := ruleFromEntry(entry)
		if err != nil {
			return nil, err
		}
		violations = append(violations, evaluateRule(rule, filePath, currentTree, promotedTree)...)
	}
	return violations, nil
}

func evaluateRule(rule suggest.Rule, filePath string, currentTree, promotedTree interface{}) []Violation {
	current := valuesAtPath(currentTree, rule.TargetPath())
	promoted := valuesAtPath(promotedTree, rule.TargetPath())

	var violations []Violation
	switch r := rule.(type) {
	case suggest.SemverDowngrade:
		forEachVersionPair(current, promoted, func(cur, next *semver.Version) {
			if next.LessThan(cur) {
				violations = append(violations, Violation{
					FilePath: filePath,
					Path:     r.Path,
					RuleType: string(r.Kind()),
					Message:  fmt.Sprintf("version would drop from %s to %s", cur, next),
				})
			}
		})
	case suggest.SemverMajorUpgrade:
		forEachVersionPair(current, promoted, func(cur, next *semver.Version) {
			if next.Major() > cur.Major() {
				violations = append(violations, Violation{
					FilePath: filePath,
					Path:     r.Path,
					RuleType: string(r.Kind()),
					Message:  fmt.Sprintf("major version would jump from %s to %s", cur, next),
				})
			}
		})
	case suggest.VersionFormat:
		for _, value := range promoted {
			s, ok := value.(string)
			if !ok {
				continue
			}
			hasPrefix := strings.HasPrefix(s, "v")
			if r.VPrefix == "required" && !hasPrefix {
				violations = append(violations, Violation{
					FilePath: filePath,
					Path:     r.Path,
					RuleType: string(r.Kind()),
					Message:  fmt.Sprintf("version %q must carry a leading v", s),
				})
			}
			if r.VPrefix == "forbidden" && hasPrefix {
				violations = append(violations, Violation{
					FilePath: filePath,
					Path:     r.Path,
					RuleType: string(r.Kind()),
					Message:  fmt.Sprintf("version %q must not carry a leading v", s),
				})
			}
		}
	case suggest.NumericRange:
		for _, value := range promoted {
			n, ok := coerceNumeric(value)
			if !ok {
				continue
			}
			if r.Min != nil && n < float64(*r.Min) {
				violations = append(violations, Violation{
					FilePath: filePath,
					Path:     r.Path,
					RuleType: string(r.Kind()),
					Message:  fmt.Sprintf("value %v is below the configured minimum %d", value, *r.Min),
				})
			}
			if r.Max != nil && n > float64(*r.Max) {
				violations = append(violations, Violation{
					FilePath: filePath,
					Path:     r.Path,
					RuleType: string(r.Kind()),
					Message:  fmt.Sprintf("value %v is above the configured maximum %d", value, *r.Max),
				})
			}
		}
	}
	return violations
}

func ruleFromEntry(entry config.StopRuleEntry) (suggest.Rule, error) {
	switch entry.Type {
	case string(suggest.RuleSemverDowngrade):
		return suggest.SemverDowngrade{Path: entry.Path}, nil
	case string(suggest.RuleSemverMajorUpgrade):
		return suggest.SemverMajorUpgrade{Path: entry.Path}, nil
	case string(suggest.RuleVersionFormat):
		return suggest.VersionFormat{Path: entry.Path, VPrefix: entry.VPrefix}, nil
	case string(suggest.RuleNumeric):
		return suggest.NumericRange{Path: entry.Path, Min: entry.Min, Max: entry.Max}, nil
	default:
		return nil, fmt.Errorf("unknown stop rule type %q", entry.Type)
	}
}

// forEachVersionPair pairs current and promoted values positionally and
// invokes fn for every pair that parses as a semantic version.
func forEachVersionPair(current, promoted []interface{}, fn func(cur, next *semver.Version)) {
	n := len(current)
	if len(promoted) < n {
		n = len(promoted)
	}
	for i := 0; i < n; i++ {
		cur, okCur := parseVersion(current[i])
		next, okNext := parseVersion(promoted[i])
		if okCur && okNext {
			fn(cur, next)
		}
	}
}

func parseVersion(value interface{}) (*semver.Version, bool) {
	s, ok := value.(string)
	if !ok {
		return nil, false
	}
	v, err := semver.NewVersion(s)
	if err != nil {
		return nil, false
	}
	return v, true
}

func coerceNumeric(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}

// valuesAtPath resolves a generalized dot path against a dynamic tree. A
// "*" segment fans out over array elements; other segments are literal map
// keys. Returns every leaf reached.
func valuesAtPath(tree interface{}, path string) []interface{} {
	if tree == nil {
		return nil
	}
	return resolveSegments(tree, strings.Split(path, "."))
}

func resolveSegments(node interface{}, segments []string) []interface{} {
	if len(segments) == 0 {
		return []interface{}{node}
	}
	seg := segments[0]
	rest := segments[1:]

	switch v := node.(type) {
	case map[string]interface{}:
		if seg == "*" {
			keys := make([]string, 0, len(v))
			for key := range v {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			var out []interface{}
			for _, key := range keys {
				out = append(out, resolveSegments(v[key], rest)...)
			}
			return out
		}
		child, ok := v[seg]
		if !ok {
			return nil
		}
		return resolveSegments(child, rest)
	case []interface{}:
		if seg != "*" {
			return nil
		}
		var out []interface{}
		for _, child := range v {
			out = append(out, resolveSegments(child, rest)...)
		}
		return out
	default:
		return nil
	}
}
