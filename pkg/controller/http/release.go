package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/semrel/pkg/domain/interfaces"
	"github.com/m-mizutani/semrel/pkg/domain/model"
	"github.com/m-mizutani/semrel/pkg/domain/types"
	"github.com/m-mizutani/semrel/pkg/usecase"
	"github.com/m-mizutani/semrel/pkg/utils/async"
)

// SignatureHeader carries the HMAC-SHA256 signature of a release trigger body
const SignatureHeader = "X-Semrel-Signature"

// ReleaseHandler serves release previews and triggers
type ReleaseHandler struct {
	releaseUC interfaces.ReleaseUseCase
	runner    *async.Runner
	base      model.ReleaseRequest
	secret    string
}

// NewReleaseHandler creates a new ReleaseHandler
func NewReleaseHandler(releaseUC interfaces.ReleaseUseCase, runner *async.Runner, base model.ReleaseRequest, secret string) *ReleaseHandler {
	return &ReleaseHandler{
		releaseUC: releaseUC,
		runner:    runner,
		base:      base,
		secret:    secret,
	}
}

// releaseBody holds per-request overrides of the base request
type releaseBody struct {
	ReleaseAs string `json:"release_as"`
	Preid     string `json:"preid"`
	DryRun    bool   `json:"dry_run"`
	Push      *bool  `json:"push"`
	TrackDeps *bool  `json:"track_deps"`
}

// decisionResponse is the JSON form of a release outcome
type decisionResponse struct {
	RunID           string   `json:"run_id"`
	Success         bool     `json:"success"`
	State           string   `json:"state"`
	PreviousVersion string   `json:"previous_version,omitempty"`
	PreviousTag     string   `json:"previous_tag,omitempty"`
	NextVersion     string   `json:"next_version,omitempty"`
	Significance    string   `json:"significance,omitempty"`
	Explicit        bool     `json:"explicit,omitempty"`
	Tag             string   `json:"tag,omitempty"`
	Files           []string `json:"files,omitempty"`
	Error           string   `json:"error,omitempty"`
}

// Next computes the next version of a project without changing anything
func (h *ReleaseHandler) Next(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := ctxlog.From(ctx)

	req := h.request(chi.URLParam(r, "name"))
	req.ReleaseAs = r.URL.Query().Get("release_as")
	req.Preid = r.URL.Query().Get("preid")
	req.DryRun = true

	// Previews share the runner lane with triggered releases
	var outcome *model.ReleaseOutcome
	_ = h.runner.Do(ctx, func(ctx context.Context) error {
		outcome = h.releaseUC.Run(ctx, req)
		return nil
	})

	status := http.StatusOK
	if !outcome.Success {
		status = failureStatus(outcome.Failure.Err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(toDecisionResponse(outcome)); err != nil {
		logger.Error("Failed to encode decision response", "error", err)
	}
}

// Trigger accepts a release request and runs it in the background
func (h *ReleaseHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := ctxlog.From(ctx)

	// Read payload
	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Error("Failed to read request body", "error", err)
		writeError(w, r, goerr.Wrap(err, "failed to read request body"), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	// Verify signature
	if h.secret != "" && !h.verifySignature(body, r.Header.Get(SignatureHeader)) {
		logger.Warn("Invalid release trigger signature")
		writeError(w, r, goerr.New("invalid signature"), http.StatusUnauthorized)
		return
	}

	var overrides releaseBody
	if len(body) > 0 {
		if err := json.Unmarshal(body, &overrides); err != nil {
			writeError(w, r, goerr.Wrap(err, "invalid JSON payload"), http.StatusBadRequest)
			return
		}
	}

	req := h.request(chi.URLParam(r, "name"))
	req.ReleaseAs = overrides.ReleaseAs
	req.Preid = overrides.Preid
	req.DryRun = req.DryRun || overrides.DryRun
	if overrides.Push != nil {
		req.Push = *overrides.Push
	}
	if overrides.TrackDeps != nil {
		req.TrackDeps = *overrides.TrackDeps
	}

	requestID := middleware.GetReqID(ctx)
	h.runner.Dispatch(ctx, func(ctx context.Context) error {
		outcome := h.releaseUC.Run(ctx, req)
		if !outcome.Success {
			// The release use case has already reported the failure
			ctxlog.From(ctx).Warn("Triggered release failed", "run_id", outcome.RunID, "state", outcome.Failure.State)
		}
		return nil
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"status":     "accepted",
		"request_id": requestID,
	}); err != nil {
		logger.Error("Failed to encode accepted response", "error", err)
	}
}

// request copies the base request for project name. In sync mode the implicit workspace
// project is addressed by its name.
func (h *ReleaseHandler) request(name string) *model.ReleaseRequest {
	req := h.base
	req.PostTasks = append([]model.PostTask{}, h.base.PostTasks...)
	req.Project = name
	if req.SyncVersions && name == usecase.WorkspaceProjectName {
		req.Project = ""
	}
	return &req
}

// verifySignature verifies the trigger signature. A bare hex digest is read as sha256.
func (h *ReleaseHandler) verifySignature(payload []byte, signature string) bool {
	if signature == "" {
		return false
	}
	if !strings.Contains(signature, "=") {
		signature = "sha256=" + signature
	}

	return github.ValidateSignature(signature, payload, []byte(h.secret)) == nil
}

func failureStatus(err error) int {
	switch {
	case goerr.HasTag(err, types.ErrTagInvalidRequest),
		goerr.HasTag(err, types.ErrTagDependencyResolution):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func toDecisionResponse(outcome *model.ReleaseOutcome) *decisionResponse {
	resp := &decisionResponse{
		RunID:   outcome.RunID,
		Success: outcome.Success,
		State:   string(outcome.State),
	}

	if d := outcome.Decision; d != nil {
		resp.PreviousVersion = d.PreviousVersion
		resp.PreviousTag = d.PreviousTag
		resp.NextVersion = d.NextVersion
		resp.Significance = d.Significance.String()
		resp.Explicit = d.Explicit
	}
	if res := outcome.Result; res != nil {
		resp.Tag = res.Tag
		resp.Files = res.Paths()
	}
	if outcome.Failure != nil {
		resp.Error = outcome.Failure.Err.Error()
	}
	return resp
}
