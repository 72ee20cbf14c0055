package suggest

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Candidate key fields for aligning arrays of objects, in priority order.
var arrayKeyFields = []string{"name", "id", "key", "identifier", "uid", "ref"}

// diffTrees walks the source (desired) and dest (current) trees of one file
// and returns every leaf-level difference. Array positions are generalized
// to "*" in the emitted paths.
func diffTrees(source, dest interface{}, filePath string, skipPaths []string) []ValueDifference {
	return diffNodes(source, dest, filePath, nil, skipPaths)
}

func diffNodes(source, dest interface{}, filePath string, segments []string, skipPaths []string) []ValueDifference {
	srcMap, srcIsMap := source.(map[string]interface{})
	dstMap, dstIsMap := dest.(map[string]interface{})
	if srcIsMap && dstIsMap {
		return diffMaps(srcMap, dstMap, filePath, segments, skipPaths)
	}

	srcArr, srcIsArr := source.([]interface{})
	dstArr, dstIsArr := dest.([]interface{})
	if srcIsArr && dstIsArr {
		return diffArrays(srcArr, dstArr, filePath, segments, skipPaths)
	}

	// Leaf position (or mismatched kinds, which count as a value change).
	if reflect.DeepEqual(source, dest) {
		return nil
	}
	if matchesAnySkipPath(segments, skipPaths) {
		return nil
	}
	return []ValueDifference{{
		FilePath:    filePath,
		JSONPath:    strings.Join(segments, "."),
		OldValue:    dest,
		TargetValue: source,
	}}
}

func diffMaps(source, dest map[string]interface{}, filePath string, segments []string, skipPaths []string) []ValueDifference {
	keys := unionKeys(source, dest)

	var diffs []ValueDifference
	for _, key := range keys {
		srcVal, inSrc := source[key]
		dstVal, inDst := dest[key]
		if !inSrc || !inDst {
			// Added/removed keys are membership drift, not value drift.
			continue
		}
		diffs = append(diffs, diffNodes(srcVal, dstVal, filePath, childPath(segments, key), skipPaths)...)
	}
	return diffs
}

func diffArrays(source, dest []interface{}, filePath string, segments []string, skipPaths []string) []ValueDifference {
	childSegments := childPath(segments, "*")

	if keyField := detectKeyField(source, dest); keyField != "" {
		srcByKey := indexByKey(source, keyField)
		dstByKey := indexByKey(dest, keyField)

		keys := make([]string, 0, len(srcByKey))
		for key := range srcByKey {
			if _, ok := dstByKey[key]; ok {
				keys = append(keys, key)
			}
		}
		sort.Strings(keys)

		var diffs []ValueDifference
		for _, key := range keys {
			diffs = append(diffs, diffNodes(srcByKey[key], dstByKey[key], filePath, childSegments, skipPaths)...)
		}
		return diffs
	}

	// Positional fallback: compare pairwise up to the shorter length.
	// Trailing elements are membership drift and stay out of the report.
	n := len(source)
	if len(dest) < n {
		n = len(dest)
	}
	var diffs []ValueDifference
	for i := 0; i < n; i++ {
		diffs = append(diffs, diffNodes(source[i], dest[i], filePath, childSegments, skipPaths)...)
	}
	return diffs
}

// detectKeyField returns the first candidate field that is present on every
// element of both arrays with values unique within each array, or "".
func detectKeyField(a, b []interface{}) string {
	for _, field := range arrayKeyFields {
		if hasUniqueKey(a, field) && hasUniqueKey(b, field) {
			return field
		}
	}
	return ""
}

func hasUniqueKey(items []interface{}, field string) bool {
	if len(items) == 0 {
		return false
	}
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			return false
		}
		value, ok := obj[field]
		if !ok {
			return false
		}
		key := fmt.Sprintf("%v", value)
		if seen[key] {
			return false
		}
		seen[key] = true
	}
	return true
}

func indexByKey(items []interface{}, field string) map[string]interface{} {
	byKey := make(map[string]interface{}, len(items))
	for _, item := range items {
		obj := item.(map[string]interface{})
		byKey[fmt.Sprintf("%v", obj[field])] = item
	}
	return byKey
}

func unionKeys(a, b map[string]interface{}) []string {
	seen := make(map[string]bool, len(a)+len(b))
	for key := range a {
		seen[key] = true
	}
	for key := range b {
		seen[key] = true
	}
	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// childPath returns a fresh slice so sibling recursions cannot alias.
func childPath(segments []string, segment string) []string {
	child := make([]string, 0, len(segments)+1)
	child = append(child, segments...)
	return append(child, segment)
}

// matchesSkipPath matches a dot-separated candidate path against a skip
// pattern. A pattern segment of "*" matches any single candidate segment;
// segment counts must match exactly.
func matchesSkipPath(pattern, path string) bool {
	patternSegments := strings.Split(pattern, ".")
	pathSegments := strings.Split(path, ".")
	if len(patternSegments) != len(pathSegments) {
		return false
	}
	for i, seg := range patternSegments {
		if seg != "*" && seg != pathSegments[i] {
			return false
		}
	}
	return true
}

func matchesAnySkipPath(segments []string, skipPaths []string) bool {
	if len(skipPaths) == 0 {
		return false
	}
	path := strings.Join(segments, ".")
	for _, pattern := range skipPaths {
		if matchesSkipPath(pattern, path) {
			return true
		}
	}
	return false
}
