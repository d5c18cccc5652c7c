// Package channels builds alert channels from config entries.
package channels

import (
	"fmt"
	"strings"
	"time"

	"alerting/internal/config"
	"alerting/pkg/alert"
	"alerting/pkg/alert/mailgun"
	"alerting/pkg/alert/sendgrid"
	"alerting/pkg/alert/slack"
	"alerting/pkg/alert/telegram"
	logx "alerting/pkg/logx"
)

const defaultTimeout = 10 * time.Second

// Build constructs one channel per entry, preserving order.
func Build(cfgs []config.ChannelConfig) ([]alert.Channel, error) {
	out := make([]alert.Channel, 0, len(cfgs))
	for i, c := range cfgs {
		ch, err := New(c)
		if err != nil {
			return nil, fmt.Errorf("channels[%d] %q: %w", i, c.Label(), err)
		}
		out = append(out, ch)
	}
	return out, nil
}

// New constructs a single channel from its config entry.
func New(c config.ChannelConfig) (alert.Channel, error) {
	name := c.Label()
	timeout := config.DurationOr(c.Timeout, defaultTimeout)

	switch strings.ToLower(strings.TrimSpace(c.Type)) {
	case config.TypeSlack:
		return slack.New(slack.Config{
			Name:    name,
			Token:   c.Token,
			Channel: c.Channel,
			APIURL:  c.BaseURL,
		})
	case config.TypeMailgun:
		return mailgun.New(mailgun.Config{
			Name:    name,
			APIKey:  c.APIKey,
			Domain:  c.Domain,
			From:    c.From,
			To:      c.To,
			Region:  c.Region,
			APIBase: c.BaseURL,
			Timeout: timeout,
		})
	case config.TypeSendGrid:
		to := ""
		if len(c.To) > 0 {
			to = c.To[0]
		}
		return sendgrid.New(sendgrid.Config{
			Name:   name,
			APIKey: c.APIKey,
			From:   c.From,
			To:     to,
			Host:   c.BaseURL,
		})
	case config.TypeTelegram:
		return telegram.New(telegram.Config{
			Name:    name,
			Token:   c.Token,
			ChatID:  c.ChatID,
			Proxy:   c.Proxy,
			APIURL:  c.BaseURL,
			Timeout: timeout,
		})
	default:
		return nil, alert.Invalid("type", fmt.Sprintf("unknown channel type %q", c.Type))
	}
}

// NewDispatcher builds every configured channel and wraps them in a Dispatcher.
func NewDispatcher(cfg *config.Config, log logx.Logger) (*alert.Dispatcher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	chs, err := Build(cfg.Channels)
	if err != nil {
		return nil, err
	}
	return alert.NewDispatcher(chs, alert.WithLogger(log.With(logx.String("comp", "dispatcher"))))
}
