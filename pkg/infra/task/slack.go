package task

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
)

// Slack posts a release notification to an incoming webhook.
// Options: webhook_url and text (required), channel (optional).
type Slack struct{}

// NewSlack creates a Slack executor
func NewSlack() *Slack {
	return &Slack{}
}

// Name returns the executor name
func (s *Slack) Name() string { return "slack" }

// Validate checks the options
func (s *Slack) Validate(options map[string]string) error {
	return checkOptions(options, []string{"webhook_url", "text"}, []string{"channel"})
}

// Execute posts the message
func (s *Slack) Execute(ctx context.Context, options map[string]string) error {
	msg := &slack.WebhookMessage{
		Text:    options["text"],
		Channel: options["channel"],
	}

	if err := slack.PostWebhookContext(ctx, options["webhook_url"], msg); err != nil {
		return goerr.Wrap(err, "failed to post slack message", goerr.V("channel", options["channel"]))
	}

	ctxlog.From(ctx).Info("Posted release notification to Slack", "channel", options["channel"])
	return nil
}
