package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffTrees_LeafChange(t *testing.T) {
	source := map[string]interface{}{"cluster": "prod-cluster"}
	dest := map[string]interface{}{"cluster": "uat-cluster"}

	diffs := diffTrees(source, dest, "app.yaml", nil)

	require.Len(t, diffs, 1)
	assert.Equal(t, "cluster", diffs[0].JSONPath)
	assert.Equal(t, "uat-cluster", diffs[0].OldValue)
	assert.Equal(t, "prod-cluster", diffs[0].TargetValue)
	assert.Equal(t, "app.yaml", diffs[0].FilePath)
}

func TestDiffTrees_Nested(t *testing.T) {
	source := map[string]interface{}{
		"spec": map[string]interface{}{
			"replicas": 5,
			"image":    "app:2.0",
		},
	}
	dest := map[string]interface{}{
		"spec": map[string]interface{}{
			"replicas": 5,
			"image":    "app:1.0",
		},
	}

	diffs := diffTrees(source, dest, "app.yaml", nil)

	require.Len(t, diffs, 1)
	assert.Equal(t, "spec.image", diffs[0].JSONPath)
}

func TestDiffTrees_IdenticalTrees(t *testing.T) {
	tree := map[string]interface{}{
		"a": []interface{}{1, 2, 3},
		"b": map[string]interface{}{"c": "x"},
	}

	assert.Empty(t, diffTrees(tree, tree, "app.yaml", nil))
}

func TestDiffTrees_AddedRemovedKeysExcluded(t *testing.T) {
	source := map[string]interface{}{"kept": "new", "onlySource": 1}
	dest := map[string]interface{}{"kept": "old", "onlyDest": 2}

	diffs := diffTrees(source, dest, "app.yaml", nil)

	require.Len(t, diffs, 1)
	assert.Equal(t, "kept", diffs[0].JSONPath)
}

func TestDiffTrees_KeyedArrayReorder(t *testing.T) {
	source := map[string]interface{}{
		"containers": []interface{}{
			map[string]interface{}{"name": "web", "image": "web:2"},
			map[string]interface{}{"name": "db", "image": "db:1"},
		},
	}
	dest := map[string]interface{}{
		"containers": []interface{}{
			map[string]interface{}{"name": "db", "image": "db:1"},
			map[string]interface{}{"name": "web", "image": "web:1"},
		},
	}

	diffs := diffTrees(source, dest, "app.yaml", nil)

	// Reordering must not produce spurious differences; only the web image
	// changed.
	require.Len(t, diffs, 1)
	assert.Equal(t, "containers.*.image", diffs[0].JSONPath)
	assert.Equal(t, "web:1", diffs[0].OldValue)
	assert.Equal(t, "web:2", diffs[0].TargetValue)
}

func TestDiffTrees_KeyedArrayMembershipExcluded(t *testing.T) {
	source := map[string]interface{}{
		"items": []interface{}{
			map[string]interface{}{"id": "a", "v": 1},
			map[string]interface{}{"id": "b", "v": 2},
		},
	}
	dest := map[string]interface{}{
		"items": []interface{}{
			map[string]interface{}{"id": "a", "v": 1},
			map[string]interface{}{"id": "c", "v": 3},
		},
	}

	// "b" and "c" exist on one side only; no value drift to report.
	assert.Empty(t, diffTrees(source, dest, "app.yaml", nil))
}

func TestDiffTrees_PositionalArrayFallback(t *testing.T) {
	source := map[string]interface{}{"hosts": []interface{}{"prod-a", "prod-b", "prod-c"}}
	dest := map[string]interface{}{"hosts": []interface{}{"uat-a", "prod-b"}}

	diffs := diffTrees(source, dest, "app.yaml", nil)

	// Pairwise up to the shorter length; the trailing source element is
	// excluded.
	require.Len(t, diffs, 1)
	assert.Equal(t, "hosts.*", diffs[0].JSONPath)
	assert.Equal(t, "uat-a", diffs[0].OldValue)
}

func TestDiffTrees_DuplicateKeyValuesFallBackToPositional(t *testing.T) {
	source := map[string]interface{}{
		"rules": []interface{}{
			map[string]interface{}{"name": "x", "port": 80},
			map[string]interface{}{"name": "x", "port": 443},
		},
	}
	dest := map[string]interface{}{
		"rules": []interface{}{
			map[string]interface{}{"name": "x", "port": 8080},
			map[string]interface{}{"name": "x", "port": 443},
		},
	}

	diffs := diffTrees(source, dest, "app.yaml", nil)

	require.Len(t, diffs, 1)
	assert.Equal(t, "rules.*.port", diffs[0].JSONPath)
}

func TestDiffTrees_MismatchedKinds(t *testing.T) {
	source := map[string]interface{}{"value": map[string]interface{}{"a": 1}}
	dest := map[string]interface{}{"value": "scalar"}

	diffs := diffTrees(source, dest, "app.yaml", nil)

	require.Len(t, diffs, 1)
	assert.Equal(t, "value", diffs[0].JSONPath)
}

func TestDiffTrees_SkipPaths(t *testing.T) {
	source := map[string]interface{}{
		"metadata": map[string]interface{}{"generation": 7},
		"spec":     map[string]interface{}{"image": "app:2"},
	}
	dest := map[string]interface{}{
		"metadata": map[string]interface{}{"generation": 3},
		"spec":     map[string]interface{}{"image": "app:1"},
	}

	diffs := diffTrees(source, dest, "app.yaml", []string{"metadata.generation"})

	require.Len(t, diffs, 1)
	assert.Equal(t, "spec.image", diffs[0].JSONPath)
}

func TestMatchesSkipPath(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		want    bool
	}{
		{"a.b.c", "a.b.c", true},
		{"a.*.c", "a.b.c", true},
		{"a.*.c", "a.x.c", true},
		{"a.*.c", "a.b.d", false},
		{"a.b", "a.b.c", false},
		{"a.b.c.d", "a.b.c", false},
		{"*", "anything", true},
		{"*.b", "a.b", true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, matchesSkipPath(tt.pattern, tt.path), "pattern %s vs path %s", tt.pattern, tt.path)
	}
}
