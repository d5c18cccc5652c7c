// Package mailgun emails alerts through the Mailgun messages API.
package mailgun

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mailgun/mailgun-go/v4"

	"alerting/pkg/alert"
)

type Config struct {
	Name   string
	APIKey string
	Domain string
	From   string
	// To holds one or more recipient addresses.
	To []string
	// Region selects the API base: "" or "us" for the default, "eu" for api.eu.mailgun.net.
	Region string
	// APIBase overrides the API base URL (including the /v3 suffix).
	APIBase string
	Timeout time.Duration
}

// Channel sends subject=title, text=message to every configured recipient.
type Channel struct {
	name string
	from string
	to   []string
	mg   *mailgun.MailgunImpl
}

func New(cfg Config) (*Channel, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, alert.Invalid("mailgun.api_key", "api key is empty")
	}
	if strings.TrimSpace(cfg.Domain) == "" {
		return nil, alert.Invalid("mailgun.domain", "domain is empty")
	}
	if strings.TrimSpace(cfg.From) == "" {
		return nil, alert.Invalid("mailgun.from", "from address is empty")
	}
	if len(cfg.To) == 0 {
		return nil, alert.Invalid("mailgun.to", "no recipients")
	}
	to := make([]string, 0, len(cfg.To))
	for i, addr := range cfg.To {
		addr = strings.TrimSpace(addr)
		if addr == "" {
			return nil, alert.Invalid(fmt.Sprintf("mailgun.to[%d]", i), "empty address")
		}
		to = append(to, addr)
	}

	mg := mailgun.NewMailgun(cfg.Domain, cfg.APIKey)
	switch strings.ToLower(strings.TrimSpace(cfg.Region)) {
	case "", "us":
	case "eu":
		mg.SetAPIBase(mailgun.APIBaseEU)
	default:
		return nil, alert.Invalid("mailgun.region", fmt.Sprintf("unknown region %q", cfg.Region))
	}
	if cfg.APIBase != "" {
		mg.SetAPIBase(strings.TrimRight(cfg.APIBase, "/"))
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	mg.SetClient(&http.Client{Timeout: timeout})

	name := cfg.Name
	if name == "" {
		name = "mailgun"
	}
	return &Channel{name: name, from: cfg.From, to: to, mg: mg}, nil
}

func (c *Channel) Name() string { return c.name }

func (c *Channel) Send(ctx context.Context, title, message string) error {
	m := c.mg.NewMessage(c.from, title, message, c.to...)
	_, _, err := c.mg.Send(ctx, m)
	return err
}
