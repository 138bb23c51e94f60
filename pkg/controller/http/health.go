package http

import (
	"encoding/json"
	"net/http"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/semrel/pkg/domain/model"
	"github.com/m-mizutani/semrel/pkg/domain/types"
	"github.com/m-mizutani/semrel/pkg/utils/async"
)

// handleHealth reports liveness and the release queue depth
func handleHealth(runner *async.Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := &model.HealthStatus{
			Status:          "healthy",
			Service:         "semrel",
			Version:         types.Version,
			PendingReleases: runner.Pending(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(status); err != nil {
			ctxlog.From(r.Context()).Error("Failed to encode health response", "error", err)
		}
	}
}
