// Package sendgrid emails alerts through the SendGrid v3 mail API.
package sendgrid

import (
	"context"
	"strings"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"alerting/pkg/alert"
)

const (
	defaultHost  = "https://api.sendgrid.com"
	mailEndpoint = "/v3/mail/send"
)

type Config struct {
	Name   string
	APIKey string
	From   string
	To     string
	// Host overrides https://api.sendgrid.com.
	Host string
}

// Channel submits a mail object with subject=title and an HTML body=message.
type Channel struct {
	name   string
	apiKey string
	host   string
	from   *mail.Email
	to     *mail.Email
}

func New(cfg Config) (*Channel, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, alert.Invalid("sendgrid.api_key", "api key is empty")
	}
	if strings.TrimSpace(cfg.From) == "" {
		return nil, alert.Invalid("sendgrid.from", "from address is empty")
	}
	if strings.TrimSpace(cfg.To) == "" {
		return nil, alert.Invalid("sendgrid.to", "target address is empty")
	}
	host := strings.TrimRight(cfg.Host, "/")
	if host == "" {
		host = defaultHost
	}
	name := cfg.Name
	if name == "" {
		name = "sendgrid"
	}
	return &Channel{
		name:   name,
		apiKey: cfg.APIKey,
		host:   host,
		from:   mail.NewEmail("", strings.TrimSpace(cfg.From)),
		to:     mail.NewEmail("", strings.TrimSpace(cfg.To)),
	}, nil
}

func (c *Channel) Name() string { return c.name }

func (c *Channel) Send(ctx context.Context, title, message string) error {
	m := mail.NewSingleEmail(c.from, title, c.to, "", message)
	req := sendgrid.GetRequest(c.apiKey, mailEndpoint, c.host)
	req.Method = rest.Post
	req.Body = mail.GetRequestBody(m)

	resp, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return err
	}
	// The SDK reports API rejections only through the status code.
	if resp.StatusCode >= 300 {
		return &alert.BackendError{Channel: c.name, StatusCode: resp.StatusCode, Body: strings.TrimSpace(resp.Body)}
	}
	return nil
}
