package suggest

import (
	"regexp"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sergi/go-diff/diffmatchpatch"
)

const maxPairLength = 100

var timestampPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}`)

// isNoisePair reports whether a value pair is unlikely to encode a reusable
// rename: oversized blobs, generated identifiers, timestamps, and typo-level
// edits all get rejected. Rejection only suppresses transform candidates;
// the underlying values still reach the stop-rule detectors.
func isNoisePair(oldValue, newValue string) bool {
	oldLen := utf8.RuneCountInString(oldValue)
	newLen := utf8.RuneCountInString(newValue)

	if oldLen > maxPairLength || newLen > maxPairLength {
		return true
	}
	if isCanonicalUUID(oldValue) || isCanonicalUUID(newValue) {
		return true
	}
	if timestampPattern.MatchString(oldValue) || timestampPattern.MatchString(newValue) {
		return true
	}

	lengthDiff := oldLen - newLen
	if lengthDiff < 0 {
		lengthDiff = -lengthDiff
	}
	if lengthDiff <= 1 && editDistance(oldValue, newValue) <= 1 {
		return true
	}
	return false
}

// isCanonicalUUID accepts only the 8-4-4-4-12 hyphenated form; uuid.Validate
// alone would also admit braced, urn-prefixed and unhyphenated variants.
func isCanonicalUUID(s string) bool {
	return len(s) == 36 && uuid.Validate(s) == nil
}

func editDistance(a, b string) int {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(a, b, false)
	return dmp.DiffLevenshtein(diffs)
}
