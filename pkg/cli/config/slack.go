package config

import (
	"github.com/urfave/cli/v3"

	"github.com/ledgerkit/txcleanup/pkg/domain/interfaces"
	"github.com/ledgerkit/txcleanup/pkg/infra/slack"
)

// Slack holds the incoming webhook receiving stale extractor reports
type Slack struct {
	WebhookURL string `masq:"secret"`
}

// Flags returns CLI flags for slack configuration
func (c *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-webhook",
			Usage:       "Slack incoming webhook URL for stale extractor reports",
			Destination: &c.WebhookURL,
			Sources:     cli.EnvVars("TXCLEANUP_SLACK_WEBHOOK"),
		},
	}
}

// Configure returns a webhook notifier, or a no-op one without a URL
func (c *Slack) Configure() interfaces.Notifier {
	if c.WebhookURL == "" {
		return slack.Nop{}
	}
	return slack.NewWebhook(c.WebhookURL)
}
