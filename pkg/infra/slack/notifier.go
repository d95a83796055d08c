// Package slack posts extractor usage reports to a Slack incoming webhook.
package slack

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"

	"github.com/ledgerkit/txcleanup/pkg/domain/model"
)

// Webhook implements interfaces.Notifier
type Webhook struct {
	url    string
	client *http.Client
}

// Option is a functional option for Webhook
type Option func(*Webhook)

// WithHTTPClient replaces the default client
func WithHTTPClient(client *http.Client) Option {
	return func(w *Webhook) {
		w.client = client
	}
}

// NewWebhook creates a notifier posting to url
func NewWebhook(url string, opts ...Option) *Webhook {
	w := &Webhook{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Notify posts the report. Empty reports are not sent.
func (w *Webhook) Notify(ctx context.Context, report model.UsageReport) error {
	if len(report) == 0 {
		return nil
	}

	text := formatReport(report)
	msg := &slack.WebhookMessage{
		Text: text,
		Blocks: &slack.Blocks{
			BlockSet: []slack.Block{
				slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, text, false, false), nil, nil),
			},
		},
	}

	if err := slack.PostWebhookCustomHTTPContext(ctx, w.url, w.client, msg); err != nil {
		return goerr.Wrap(err, "failed to post usage report to Slack", goerr.V("entries", len(report)))
	}
	return nil
}

func formatReport(report model.UsageReport) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(":broom: *%d extractor(s) have not matched recently*\n", len(report)))
	for _, u := range report {
		sb.WriteString(fmt.Sprintf("• `%s` %s\n", u.Date.Format(time.DateOnly), u.Rule))
	}
	return sb.String()
}

// Nop discards reports; used when no webhook is configured
type Nop struct{}

// Notify implements interfaces.Notifier
func (Nop) Notify(context.Context, model.UsageReport) error { return nil }
