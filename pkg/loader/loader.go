package loader

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// File is one discovered configuration file: its raw bytes and the parsed
// dynamic tree. Path is relative to the loaded directory, slash-separated.
type File struct {
	Path string
	Raw  []byte
	Tree interface{}
}

// LoadDir walks dir and loads every file matching one of the glob patterns.
func LoadDir(dir string, patterns []string) (map[string]*File, error) {
	files := make(map[string]*File)

	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !matchesAny(rel, patterns) {
			return nil
		}

		data, err := os.ReadFile(p)
		if err != nil {
			return errors.Wrapf(err, "failed to read %s", rel)
		}
		tree, err := Parse(data)
		if err != nil {
			return errors.Wrapf(err, "failed to parse %s", rel)
		}
		files[rel] = &File{Path: rel, Raw: data, Tree: tree}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load directory %s", dir)
	}
	return files, nil
}

// Parse decodes YAML into a dynamic tree of maps, slices and scalars.
func Parse(data []byte) (interface{}, error) {
	var tree interface{}
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, err
	}
	return tree, nil
}

func matchesAny(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if matched, err := doublestar.Match(pattern, path); err == nil && matched {
			return true
		}
	}
	return false
}
