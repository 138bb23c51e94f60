package interfaces

import (
	"context"

	"github.com/m-mizutani/semrel/pkg/domain/model"
)

// ReleaseUseCase runs the release pipeline for one request
type ReleaseUseCase interface {
	// Run executes the pipeline and never returns a nil outcome
	Run(ctx context.Context, req *model.ReleaseRequest) *model.ReleaseOutcome
}
