package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonderfulspam/promote-smith/pkg/differ"
)

type stubActiveConfig struct {
	contentRules map[string]bool
	stopRules    map[string]bool
}

func (s *stubActiveConfig) HasContentRule(find, replace string) bool {
	return s.contentRules[find+"|"+replace]
}

func (s *stubActiveConfig) HasStopRule(ruleType, path string) bool {
	return s.stopRules[ruleType+"|"+path]
}

func changedFile(path string, source, dest map[string]interface{}) differ.ChangedFile {
	return differ.ChangedFile{
		Path:            path,
		RawSource:       source,
		RawDest:         dest,
		ProcessedSource: source,
		ProcessedDest:   dest,
	}
}

func singleTransformGroup(t *testing.T, result *SuggestionResult) []TransformSuggestion {
	t.Helper()
	require.Len(t, result.Transforms, 1)
	for _, suggestions := range result.Transforms {
		return suggestions
	}
	return nil
}

func TestAnalyze_EnvironmentRename(t *testing.T) {
	fileDiff := &differ.FileDiffResult{
		ChangedFiles: []differ.ChangedFile{changedFile("app.yaml",
			map[string]interface{}{"cluster": "prod-cluster", "region": "prod-east"},
			map[string]interface{}{"cluster": "uat-cluster", "region": "uat-east"},
		)},
	}

	result, err := Analyze(fileDiff, nil, Options{})
	require.NoError(t, err)

	suggestions := singleTransformGroup(t, result)
	require.Len(t, suggestions, 1)

	s := suggestions[0]
	assert.Equal(t, "uat", s.Find)
	assert.Equal(t, "prod", s.Replace)
	assert.Equal(t, 2, s.Occurrences)
	assert.InDelta(t, 0.35, s.Confidence, 1e-9)
	assert.Equal(t, []string{"app.yaml"}, s.AffectedFiles)
	assert.Equal(t, 1, result.Metadata.ChangedFiles)
}

func TestAnalyze_UUIDPairsIgnored(t *testing.T) {
	fileDiff := &differ.FileDiffResult{
		ChangedFiles: []differ.ChangedFile{changedFile("app.yaml",
			map[string]interface{}{
				"a": "3f2504e0-4f89-11d3-9a0c-0305e82c3301",
				"b": "6fa459ea-ee8a-3ca4-894e-db77e160355e",
			},
			map[string]interface{}{
				"a": "9b2f1c3d-8e47-4a6b-b1aa-2f6d9f0e4c11",
				"b": "886313e1-3b8a-5372-9b90-0c9aee199e5d",
			},
		)},
	}

	result, err := Analyze(fileDiff, nil, Options{})
	require.NoError(t, err)
	assert.Empty(t, result.Transforms)
}

func TestAnalyze_SingletonSuppressed(t *testing.T) {
	fileDiff := &differ.FileDiffResult{
		ChangedFiles: []differ.ChangedFile{changedFile("app.yaml",
			map[string]interface{}{"zone": "green-zone"},
			map[string]interface{}{"zone": "blue-zone"},
		)},
	}

	result, err := Analyze(fileDiff, nil, Options{})
	require.NoError(t, err)
	assert.Empty(t, result.Transforms)
}

func TestAnalyze_NumericAndBooleanFlipsDropped(t *testing.T) {
	fileDiff := &differ.FileDiffResult{
		ChangedFiles: []differ.ChangedFile{
			changedFile("a.yaml", map[string]interface{}{"val": 20, "flag": true}, map[string]interface{}{"val": 10, "flag": false}),
			changedFile("b.yaml", map[string]interface{}{"val": 20, "flag": true}, map[string]interface{}{"val": 10, "flag": false}),
		},
	}

	result, err := Analyze(fileDiff, nil, Options{})
	require.NoError(t, err)
	assert.Empty(t, result.Transforms)
}

func TestAnalyze_VersionBumpsLeftToStopRules(t *testing.T) {
	fileDiff := &differ.FileDiffResult{
		ChangedFiles: []differ.ChangedFile{
			changedFile("a.yaml", map[string]interface{}{"version": "2.0.0"}, map[string]interface{}{"version": "1.5.0"}),
			changedFile("b.yaml", map[string]interface{}{"version": "2.0.0"}, map[string]interface{}{"version": "1.5.0"}),
		},
	}

	result, err := Analyze(fileDiff, nil, Options{})
	require.NoError(t, err)

	assert.Empty(t, result.Transforms)
	// The drift still surfaces as semver stop rules.
	require.Len(t, result.StopRules, 1)
	for _, suggestions := range result.StopRules {
		assert.NotNil(t, findStopRule(suggestions, RuleSemverDowngrade, "version"))
		assert.NotNil(t, findStopRule(suggestions, RuleSemverMajorUpgrade, "version"))
	}
}

func TestAnalyze_ConfidenceGrowsWithFileSpread(t *testing.T) {
	build := func(n int) *differ.FileDiffResult {
		fileDiff := &differ.FileDiffResult{}
		names := []string{"a.yaml", "b.yaml", "c.yaml", "d.yaml", "e.yaml"}
		for i := 0; i < n; i++ {
			fileDiff.ChangedFiles = append(fileDiff.ChangedFiles, changedFile(names[i],
				map[string]interface{}{"host": "prod-host", "db": "prod-db", "queue": "prod-queue"},
				map[string]interface{}{"host": "uat-host", "db": "uat-db", "queue": "uat-queue"},
			))
		}
		return fileDiff
	}

	confidenceFor := func(n int) float64 {
		result, err := Analyze(build(n), nil, Options{})
		require.NoError(t, err)
		suggestions := singleTransformGroup(t, result)
		require.Len(t, suggestions, 1)
		return suggestions[0].Confidence
	}

	one := confidenceFor(1)
	two := confidenceFor(2)
	four := confidenceFor(4)

	assert.InDelta(t, 0.55, one, 1e-9) // 1 file, >=3 examples, +0.05 keyword bonus
	assert.InDelta(t, 0.65, two, 1e-9)
	assert.InDelta(t, 0.9, four, 1e-9)
	assert.Less(t, one, two)
	assert.Less(t, two, four)
}

func TestAnalyze_ThresholdFiltering(t *testing.T) {
	fileDiff := &differ.FileDiffResult{
		ChangedFiles: []differ.ChangedFile{changedFile("app.yaml",
			map[string]interface{}{"cluster": "prod-cluster", "region": "prod-east"},
			map[string]interface{}{"cluster": "uat-cluster", "region": "uat-east"},
		)},
	}

	kept, err := Analyze(fileDiff, nil, Options{MinConfidence: 0.35})
	require.NoError(t, err)
	assert.Len(t, singleTransformGroup(t, kept), 1)

	dropped, err := Analyze(fileDiff, nil, Options{MinConfidence: 0.4})
	require.NoError(t, err)
	assert.Empty(t, dropped.Transforms)
}

func TestAnalyze_ActiveRuleSuppression(t *testing.T) {
	fileDiff := &differ.FileDiffResult{
		ChangedFiles: []differ.ChangedFile{changedFile("app.yaml",
			map[string]interface{}{"cluster": "prod-cluster", "region": "prod-east"},
			map[string]interface{}{"cluster": "uat-cluster", "region": "uat-east"},
		)},
	}

	active := &stubActiveConfig{contentRules: map[string]bool{"uat|prod": true}}
	result, err := Analyze(fileDiff, active, Options{})
	require.NoError(t, err)
	assert.Empty(t, result.Transforms)
}

func TestAnalyze_Idempotent(t *testing.T) {
	fileDiff := &differ.FileDiffResult{
		ChangedFiles: []differ.ChangedFile{
			changedFile("a.yaml",
				map[string]interface{}{"cluster": "prod-a", "version": "2.0.0"},
				map[string]interface{}{"cluster": "uat-a", "version": "1.0.0"}),
			changedFile("b.yaml",
				map[string]interface{}{"cluster": "prod-b", "replicas": 8},
				map[string]interface{}{"cluster": "uat-b", "replicas": 4}),
		},
		UnchangedFiles: []string{"c.yaml"},
	}

	first, err := Analyze(fileDiff, nil, Options{})
	require.NoError(t, err)
	second, err := Analyze(fileDiff, nil, Options{})
	require.NoError(t, err)

	first.Metadata.Timestamp = second.Metadata.Timestamp
	assert.Equal(t, first, second)
}

func TestAnalyze_Metadata(t *testing.T) {
	fileDiff := &differ.FileDiffResult{
		ChangedFiles: []differ.ChangedFile{changedFile("app.yaml",
			map[string]interface{}{"a": "prod-x", "b": "prod-y"},
			map[string]interface{}{"a": "uat-x", "b": "uat-y"},
		)},
		AddedFiles:     []string{"new.yaml"},
		UnchangedFiles: []string{"same.yaml", "other.yaml"},
	}

	result, err := Analyze(fileDiff, nil, Options{})
	require.NoError(t, err)
	assert.Equal(t, 4, result.Metadata.FilesAnalyzed)
	assert.Equal(t, 1, result.Metadata.ChangedFiles)
	assert.False(t, result.Metadata.Timestamp.IsZero())
}

func TestAnalyze_ExamplesCapped(t *testing.T) {
	source := map[string]interface{}{}
	dest := map[string]interface{}{}
	for _, key := range []string{"a", "b", "c", "d", "e"} {
		source[key] = "prod-" + key
		dest[key] = "uat-" + key
	}
	fileDiff := &differ.FileDiffResult{
		ChangedFiles: []differ.ChangedFile{changedFile("app.yaml", source, dest)},
	}

	result, err := Analyze(fileDiff, nil, Options{})
	require.NoError(t, err)

	suggestions := singleTransformGroup(t, result)
	require.Len(t, suggestions, 1)
	assert.Equal(t, 5, suggestions[0].Occurrences)
	assert.Len(t, suggestions[0].Examples, 3)
}

func TestAnalyze_SortedByConfidence(t *testing.T) {
	fileDiff := &differ.FileDiffResult{
		ChangedFiles: []differ.ChangedFile{
			changedFile("a.yaml",
				map[string]interface{}{"host": "prod-host", "note": "alpha-note"},
				map[string]interface{}{"host": "uat-host", "note": "omega-note"}),
			changedFile("b.yaml",
				map[string]interface{}{"host": "prod-host", "note": "alpha-note"},
				map[string]interface{}{"host": "uat-host", "note": "omega-note"}),
		},
	}

	result, err := Analyze(fileDiff, nil, Options{})
	require.NoError(t, err)

	suggestions := singleTransformGroup(t, result)
	require.Len(t, suggestions, 2)
	assert.Equal(t, "uat", suggestions[0].Find) // keyword bonus ranks it first
	assert.GreaterOrEqual(t, suggestions[0].Confidence, suggestions[1].Confidence)
}

func TestGlobPatternFor(t *testing.T) {
	assert.Equal(t, "**/*.yaml", globPatternFor([]string{"a.yaml", "sub/b.yaml"}))
	assert.Equal(t, "**/*", globPatternFor([]string{"a.yaml", "b.json"}))
	assert.Equal(t, "**/*", globPatternFor([]string{"Makefile"}))
}
