package differ

// ChangedFile carries everything the suggestion engine needs for one file
// that drifted between the two environments. Source is the to-side tree
// (desired naming), Dest the from-side tree (current naming). Raw trees are
// pre-transform; processed trees have the configured content transforms
// applied, exposing only the drift the transforms do not cover yet.
type ChangedFile struct {
	Path            string      `json:"path"`
	RawSource       interface{} `json:"-"`
	RawDest         interface{} `json:"-"`
	ProcessedSource interface{} `json:"-"`
	ProcessedDest   interface{} `json:"-"`
	SkipPaths       []string    `json:"skip_paths,omitempty"`
}

// FileDiffResult is the file-level comparison of the two environment trees.
type FileDiffResult struct {
	ChangedFiles   []ChangedFile `json:"changed_files"`
	AddedFiles     []string      `json:"added_files"`
	DeletedFiles   []string      `json:"deleted_files"`
	UnchangedFiles []string      `json:"unchanged_files"`
}

func (r *FileDiffResult) TotalFiles() int {
	return len(r.ChangedFiles) + len(r.AddedFiles) + len(r.DeletedFiles) + len(r.UnchangedFiles)
}

func (r *FileDiffResult) HasChanges() bool {
	return len(r.ChangedFiles) > 0 || len(r.AddedFiles) > 0 || len(r.DeletedFiles) > 0
}
