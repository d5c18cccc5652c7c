// Package telegram sends alerts to a fixed chat through the Telegram Bot API.
package telegram

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"alerting/pkg/alert"
)

const defaultTimeout = 10 * time.Second

type Config struct {
	Name  string
	Token string
	// ChatID is a numeric chat id or a public "@channel" username.
	ChatID string
	// Proxy is an optional http(s):// or socks5:// proxy URL.
	Proxy string
	// APIURL overrides https://api.telegram.org.
	APIURL  string
	Timeout time.Duration
}

// chatRecipient lets both numeric ids and @usernames be used as targets.
type chatRecipient string

func (c chatRecipient) Recipient() string { return string(c) }

type Channel struct {
	name string
	to   chatRecipient
	bot  *tele.Bot
}

func New(cfg Config) (*Channel, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, alert.Invalid("telegram.token", "token is empty")
	}
	if strings.TrimSpace(cfg.ChatID) == "" {
		return nil, alert.Invalid("telegram.chat_id", "chat id is empty")
	}
	client, err := httpClient(cfg)
	if err != nil {
		return nil, err
	}
	// Offline skips the getMe round-trip; construction never touches the network.
	b, err := tele.NewBot(tele.Settings{
		URL:     cfg.APIURL,
		Token:   cfg.Token,
		Client:  client,
		Offline: true,
	})
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	name := cfg.Name
	if name == "" {
		name = "telegram"
	}
	return &Channel{name: name, to: chatRecipient(strings.TrimSpace(cfg.ChatID)), bot: b}, nil
}

func httpClient(cfg Config) (*http.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	client := &http.Client{Timeout: timeout}
	if strings.TrimSpace(cfg.Proxy) == "" {
		return client, nil
	}
	u, err := url.Parse(strings.TrimSpace(cfg.Proxy))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, alert.Invalid("telegram.proxy", fmt.Sprintf("invalid proxy URL %q", cfg.Proxy))
	}
	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.Proxy = http.ProxyURL(u)
	client.Transport = tr
	return client, nil
}

func (c *Channel) Name() string { return c.name }

// Send posts one message. telebot has no context-aware send, so ctx is only
// checked before the call; the client timeout bounds the request itself.
func (c *Channel) Send(ctx context.Context, title, message string) error {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	_, err := c.bot.Send(c.to, alert.FormatText(title, message))
	return err
}
