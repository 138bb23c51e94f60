package interfaces

import (
	"context"

	"github.com/m-mizutani/semrel/pkg/domain/model"
)

// GitClient defines the version control operations a release needs.
// Paths are relative to the workspace root.
type GitClient interface {
	// Tags returns the names of all tags in the repository
	Tags(ctx context.Context) ([]string, error)

	// CommitsSince returns commits reachable from HEAD but not from sinceTag that touch
	// any of paths. An empty sinceTag means the whole history.
	CommitsSince(ctx context.Context, sinceTag string, paths ...string) ([]*model.Commit, error)

	// Commit stages paths and records them in a new commit
	Commit(ctx context.Context, message string, paths []string, noVerify bool) error

	// Tag creates an annotated tag at HEAD
	Tag(ctx context.Context, name, message string) error

	// Push pushes branch and its tags to remote
	Push(ctx context.Context, remote, branch string, noVerify bool) error
}
