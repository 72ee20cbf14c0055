package differ

import (
	"reflect"
	"sort"

	"github.com/wonderfulspam/promote-smith/pkg/config"
	"github.com/wonderfulspam/promote-smith/pkg/loader"
	"github.com/wonderfulspam/promote-smith/pkg/transform"
)

// Compare pairs up from-side and to-side files (honoring filename
// transforms) and classifies each as changed, added, deleted or unchanged.
// A file counts as changed when its transformed from-side tree still
// differs from the to-side tree, i.e. when the configured transforms leave
// residual drift.
func Compare(fromFiles, toFiles map[string]*loader.File, cfg *config.Config, engine *transform.Engine) (*FileDiffResult, error) {
	result := &FileDiffResult{
		ChangedFiles:   []ChangedFile{},
		AddedFiles:     []string{},
		DeletedFiles:   []string{},
		UnchangedFiles: []string{},
	}

	pairedTo := make(map[string]bool)
	for _, fromPath := range sortedPaths(fromFiles) {
		fromFile := fromFiles[fromPath]

		toPath, err := engine.ApplyFilename(fromPath)
		if err != nil {
			return nil, err
		}
		toFile, ok := toFiles[toPath]
		if !ok {
			result.AddedFiles = append(result.AddedFiles, fromPath)
			continue
		}
		pairedTo[toPath] = true

		processed, err := engine.ApplyContent(fromPath, fromFile.Raw)
		if err != nil {
			return nil, err
		}
		processedTree, err := loader.Parse(processed)
		if err != nil {
			return nil, err
		}

		if reflect.DeepEqual(processedTree, toFile.Tree) {
			result.UnchangedFiles = append(result.UnchangedFiles, toPath)
			continue
		}
		result.ChangedFiles = append(result.ChangedFiles, ChangedFile{
			Path:            toPath,
			RawSource:       toFile.Tree,
			RawDest:         fromFile.Tree,
			ProcessedSource: toFile.Tree,
			ProcessedDest:   processedTree,
			SkipPaths:       cfg.SkipPathsFor(toPath),
		})
	}

	for _, toPath := range sortedPaths(toFiles) {
		if !pairedTo[toPath] {
			result.DeletedFiles = append(result.DeletedFiles, toPath)
		}
	}
	return result, nil
}

func sortedPaths(files map[string]*loader.File) []string {
	paths := make([]string, 0, len(files))
	for path := range files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}
