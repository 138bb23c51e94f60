package model

// WriteOptions is the input of a release writer
type WriteOptions struct {
	Project              *Project
	NewVersion           string
	TagPrefix            string
	PreviousTag          string
	ChangelogHeader      string
	DryRun               bool
	NoVerify             bool
	SkipRootChangelog    bool
	SkipProjectChangelog bool
}

// Tag returns the tag name the release is recorded under
func (o *WriteOptions) Tag() string {
	return o.TagPrefix + o.NewVersion
}

// FileChange is a file the writer updates (or would update in dry-run)
type FileChange struct {
	Path    string // Relative to the workspace root
	Content []byte
	Created bool
}

// WriteResult describes what a writer did, or would do in dry-run
type WriteResult struct {
	Version       string
	Tag           string
	CommitMessage string
	Files         []FileChange
	DryRun        bool
}

// Paths returns the paths of all changed files
func (r *WriteResult) Paths() []string {
	paths := make([]string, 0, len(r.Files))
	for _, f := range r.Files {
		paths = append(paths, f.Path)
	}
	return paths
}
