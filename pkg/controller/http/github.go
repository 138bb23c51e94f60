package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/semrel/pkg/utils/async"
)

// EventProcessor consumes parsed GitHub webhook events
type EventProcessor interface {
	ProcessEvent(ctx context.Context, eventType string, payload interface{}) error
}

// GitHubWebhookHandler handles GitHub webhooks
type GitHubWebhookHandler struct {
	secret    string
	processor EventProcessor
	runner    *async.Runner
}

// NewGitHubWebhookHandler creates a new GitHubWebhookHandler
func NewGitHubWebhookHandler(secret string, processor EventProcessor, runner *async.Runner) *GitHubWebhookHandler {
	return &GitHubWebhookHandler{
		secret:    secret,
		processor: processor,
		runner:    runner,
	}
}

// Handle verifies and parses a webhook delivery, then processes it in the background
func (h *GitHubWebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := ctxlog.From(ctx)

	// Verify signature (X-Hub-Signature-256) and read payload
	body, err := github.ValidatePayload(r, []byte(h.secret))
	if err != nil {
		logger.Warn("Invalid webhook delivery", "error", err)
		writeError(w, r, goerr.Wrap(err, "invalid webhook delivery"), http.StatusUnauthorized)
		return
	}
	defer r.Body.Close()

	// Parse event using GitHub SDK
	eventType := github.WebHookType(r)
	payload, err := github.ParseWebHook(eventType, body)
	if err != nil {
		logger.Error("Failed to parse webhook payload", "error", err)
		writeError(w, r, goerr.Wrap(err, "invalid JSON payload"), http.StatusBadRequest)
		return
	}

	deliveryID := github.DeliveryID(r)
	jobCtx := ctxlog.With(ctx, logger.With("delivery_id", deliveryID, "event_type", eventType))
	h.runner.Dispatch(jobCtx, func(ctx context.Context) error {
		return h.processor.ProcessEvent(ctx, eventType, payload)
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"status":      "accepted",
		"delivery_id": deliveryID,
	}); err != nil {
		logger.Error("Failed to encode accepted response", "error", err)
	}
}
