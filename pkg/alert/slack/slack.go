// Package slack posts alerts to a Slack channel through the Web API.
package slack

import (
	"context"
	"strings"

	"github.com/slack-go/slack"

	"alerting/pkg/alert"
)

type Config struct {
	// Name labels the channel in logs. Defaults to "slack".
	Name string
	// Token is a bot user OAuth token (xoxb-...).
	Token string
	// Channel is a channel name ("#alerts") or ID.
	Channel string
	// APIURL overrides the Slack API base URL; it must end with "/".
	APIURL string
}

// Channel sends "Title: {title}\n{message}" via chat.postMessage.
type Channel struct {
	name    string
	channel string
	client  *slack.Client
}

func New(cfg Config) (*Channel, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, alert.Invalid("slack.token", "token is empty")
	}
	if strings.TrimSpace(cfg.Channel) == "" {
		return nil, alert.Invalid("slack.channel", "channel is empty")
	}
	var opts []slack.Option
	if cfg.APIURL != "" {
		u := cfg.APIURL
		if !strings.HasSuffix(u, "/") {
			u += "/"
		}
		opts = append(opts, slack.OptionAPIURL(u))
	}
	name := cfg.Name
	if name == "" {
		name = "slack"
	}
	return &Channel{
		name:    name,
		channel: cfg.Channel,
		client:  slack.New(cfg.Token, opts...),
	}, nil
}

func (c *Channel) Name() string { return c.name }

func (c *Channel) Send(ctx context.Context, title, message string) error {
	_, _, err := c.client.PostMessageContext(ctx, c.channel,
		slack.MsgOptionText(alert.FormatText(title, message), false),
	)
	return err
}
