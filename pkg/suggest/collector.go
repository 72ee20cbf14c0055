package suggest

import (
	"sort"
	"strings"
)

// valueCollector profiles leaf values under their generalized paths across
// all changed files. Unlike the tree differ it looks at one tree at a time;
// the resulting populations feed the stop-rule detectors.
type valueCollector struct {
	collections map[string]*PathValueCollection
}

func newValueCollector() *valueCollector {
	return &valueCollector{collections: make(map[string]*PathValueCollection)}
}

func (c *valueCollector) collect(tree interface{}, filePath string, skipPaths []string) {
	if tree == nil {
		return
	}
	c.walk(tree, nil, filePath, skipPaths)
}

func (c *valueCollector) walk(node interface{}, segments []string, filePath string, skipPaths []string) {
	switch v := node.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			c.walk(v[key], childPath(segments, key), filePath, skipPaths)
		}
	case []interface{}:
		child := childPath(segments, "*")
		for _, item := range v {
			c.walk(item, child, filePath, skipPaths)
		}
	default:
		if matchesAnySkipPath(segments, skipPaths) {
			return
		}
		path := strings.Join(segments, ".")
		collection, ok := c.collections[path]
		if !ok {
			collection = &PathValueCollection{Files: make(map[string]bool)}
			c.collections[path] = collection
		}
		collection.Values = append(collection.Values, node)
		collection.Files[filePath] = true
	}
}

// paths returns the collected generalized paths in sorted order so the
// detectors iterate deterministically.
func (c *valueCollector) paths() []string {
	paths := make([]string, 0, len(c.collections))
	for path := range c.collections {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}
