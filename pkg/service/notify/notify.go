package notify

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/gitpoke/pkg/domain/interfaces"
	"github.com/secmon-lab/gitpoke/pkg/domain/model"
	"github.com/slack-go/slack"
)

// slackNotifier delivers poke notifications to a Slack incoming webhook
type slackNotifier struct {
	webhookURL string
}

var _ interfaces.Notifier = &slackNotifier{}

// New creates a Slack webhook notifier
func New(webhookURL string) (interfaces.Notifier, error) {
	if webhookURL == "" {
		return nil, goerr.New("Slack webhook URL is required")
	}

	return &slackNotifier{webhookURL: webhookURL}, nil
}

func (n *slackNotifier) NotifyPoke(ctx context.Context, event *model.PokeEvent) error {
	footer := event.PokedAt.Format("2006-01-02 15:04 UTC")
	if event.Repository != "" {
		footer = fmt.Sprintf("%s · from <https://github.com/%s|%s>",
			footer, event.Repository, event.Repository)
	}

	msg := &slack.WebhookMessage{
		Text: fmt.Sprintf("👉 *%s* poked *%s*", event.From, event.To),
		Blocks: &slack.Blocks{
			BlockSet: []slack.Block{
				slack.NewSectionBlock(
					slack.NewTextBlockObject(slack.MarkdownType,
						fmt.Sprintf("👉 <https://github.com/%s|%s> poked <https://github.com/%s|%s>",
							event.From, event.From, event.To, event.To),
						false, false),
					nil, nil,
				),
				slack.NewContextBlock("",
					slack.NewTextBlockObject(slack.MarkdownType, footer, false, false),
				),
			},
		},
	}

	if err := slack.PostWebhookContext(ctx, n.webhookURL, msg); err != nil {
		return goerr.Wrap(err, "failed to post webhook",
			goerr.V("from", event.From), goerr.V("to", event.To))
	}

	return nil
}

// discard drops notifications. Used when no webhook is configured.
type discard struct{}

var _ interfaces.Notifier = discard{}

// NewDiscard creates a notifier that silently drops everything
func NewDiscard() interfaces.Notifier {
	return discard{}
}

func (discard) NotifyPoke(ctx context.Context, event *model.PokeEvent) error {
	return nil
}
