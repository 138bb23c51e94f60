package interfaces

import (
	"context"

	"github.com/m-mizutani/semrel/pkg/domain/model"
)

// ReleaseWriter records a resolved version: changelog, manifest, commit and tag.
// In dry-run the returned result is identical but nothing is written.
type ReleaseWriter interface {
	Write(ctx context.Context, opts *model.WriteOptions) (*model.WriteResult, error)
}

// ManifestUpdater rewrites the version field of a project manifest
type ManifestUpdater interface {
	Update(content []byte, version string) ([]byte, error)
}
