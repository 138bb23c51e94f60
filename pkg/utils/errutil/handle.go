package errutil

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ctxlog"
)

// Handle logs err with its full diagnostic detail (goerr values and stack trace) and
// reports it to Sentry when a Sentry client is configured.
func Handle(ctx context.Context, msg string, err error) {
	if err == nil {
		return
	}

	logger := ctxlog.From(ctx)
	logger.Error(msg,
		slog.Any("error", err),
		slog.String("detail", fmt.Sprintf("%+v", err)),
	)

	hub := sentry.CurrentHub()
	if hub.Client() == nil {
		return
	}

	hub = hub.Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("message", msg)
	})
	if eventID := hub.CaptureException(err); eventID != nil {
		logger.Debug("Reported error to Sentry", "event_id", string(*eventID))
	}
}
