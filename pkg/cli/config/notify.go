package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/gitpoke/pkg/domain/interfaces"
	"github.com/secmon-lab/gitpoke/pkg/service/notify"
	"github.com/urfave/cli/v3"
)

// Notify holds CLI flags for poke notification delivery
type Notify struct {
	slackWebhookURL string
}

// Flags returns CLI flags for notification configuration
func (n *Notify) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-webhook-url",
			Usage:       "Slack incoming webhook URL for poke notifications",
			Sources:     cli.EnvVars("GITPOKE_SLACK_WEBHOOK_URL"),
			Destination: &n.slackWebhookURL,
		},
	}
}

// LogAttrs returns log attributes for the notification configuration
func (n *Notify) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.Bool("slack_configured", n.slackWebhookURL != ""),
	}
}

// Configure builds the notifier. Without a webhook URL notifications
// are discarded.
func (n *Notify) Configure() (interfaces.Notifier, error) {
	if n.slackWebhookURL == "" {
		return notify.NewDiscard(), nil
	}

	notifier, err := notify.New(n.slackWebhookURL)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create slack notifier")
	}
	return notifier, nil
}
