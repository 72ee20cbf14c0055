package suggest

import "strings"

// vocabularyPair encodes a known environment-naming convention.
type vocabularyPair struct {
	old    string
	target string
}

// Checked in order; multiple entries may fire on one value pair.
var semanticVocabulary = []vocabularyPair{
	{"uat", "prod"},
	{"UAT", "PROD"},
	{"staging", "production"},
	{"stg", "prd"},
	{"dev", "prod"},
	{"test", "prod"},
}

type candidate struct {
	find    string
	replace string
}

// extractCandidates turns one accepted (old, target) value pair into
// find→replace candidates. Vocabulary fragments win; only when no entry
// fires does the whole value pair become a single fallback candidate —
// never a derived substring, which would make unstable rules.
func extractCandidates(oldValue, targetValue string) []candidate {
	var candidates []candidate
	seen := make(map[string]bool)

	for _, pair := range semanticVocabulary {
		if strings.Contains(oldValue, pair.old) && strings.Contains(targetValue, pair.target) {
			key := occurrenceKey(pair.old, pair.target)
			if !seen[key] {
				seen[key] = true
				candidates = append(candidates, candidate{find: pair.old, replace: pair.target})
			}
		}
	}

	if len(candidates) == 0 && oldValue != targetValue {
		candidates = append(candidates, candidate{find: oldValue, replace: targetValue})
	}
	return candidates
}

func occurrenceKey(find, replace string) string {
	return find + "\x00" + replace
}
