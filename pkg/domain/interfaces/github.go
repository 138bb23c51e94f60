package interfaces

import (
	"context"

	"github.com/m-mizutani/semrel/pkg/domain/model"
)

// GitHubClient publishes releases on GitHub
type GitHubClient interface {
	// CreateRelease creates the release and returns its page URL
	CreateRelease(ctx context.Context, release *model.GitHubRelease) (string, error)
}
