package config

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Channel types understood by the channel registry.
const (
	TypeSlack    = "slack"
	TypeMailgun  = "mailgun"
	TypeSendGrid = "sendgrid"
	TypeTelegram = "telegram"
)

type Config struct {
	Logging LoggingConfig `json:"logging"`
	Server  ServerConfig  `json:"server,omitempty"`

	// Channels are dispatched to in file order.
	Channels []ChannelConfig `json:"channels"`
}

type LoggingConfig struct {
	Level   string      `json:"level"`
	Format  string      `json:"format,omitempty"` // console|json
	Console bool        `json:"console"`
	File    LoggingFile `json:"file"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// ServerConfig controls the optional HTTP relay started by `alerting serve`.
//
// Security note: the relay sends to every configured channel on request.
// Bind to localhost or set a token.
type ServerConfig struct {
	Addr  string `json:"addr,omitempty"`  // default: "127.0.0.1:8089"
	Token string `json:"token,omitempty"` // optional bearer token (do not log)

	// WatchConfig reloads channels when the config file changes.
	WatchConfig bool `json:"watch_config,omitempty"`

	// Go duration strings.
	ReadTimeout     string `json:"read_timeout,omitempty"`
	ShutdownTimeout string `json:"shutdown_timeout,omitempty"`
}

// ChannelConfig is the flat union of every backend's connection data.
// Which fields are required depends on Type; see Validate.
type ChannelConfig struct {
	Type string `json:"type"`
	Name string `json:"name,omitempty"`

	// slack + telegram
	Token string `json:"token,omitempty"`
	// slack: channel name or id
	Channel string `json:"channel,omitempty"`
	// telegram: numeric chat id or @username
	ChatID string `json:"chat_id,omitempty"`
	Proxy  string `json:"proxy,omitempty"`

	// mailgun + sendgrid
	APIKey string     `json:"api_key,omitempty"`
	From   string     `json:"from,omitempty"`
	To     StringList `json:"to,omitempty"`
	// mailgun only
	Domain string `json:"domain,omitempty"`
	Region string `json:"region,omitempty"`

	// BaseURL overrides the backend API endpoint (self-hosted gateways, tests).
	BaseURL string `json:"base_url,omitempty"`
	// Timeout is a Go duration string applied to the backend HTTP client.
	Timeout string `json:"timeout,omitempty"`
}

// Label returns Name, or Type when no name was given.
func (c ChannelConfig) Label() string {
	if strings.TrimSpace(c.Name) != "" {
		return c.Name
	}
	return c.Type
}

// StringList accepts either a single string or a list of strings.
type StringList []string

func (l *StringList) UnmarshalJSON(b []byte) error {
	var one string
	if err := json.Unmarshal(b, &one); err == nil {
		if one == "" {
			*l = nil
		} else {
			*l = StringList{one}
		}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return fmt.Errorf("expected a string or a list of strings: %w", err)
	}
	*l = many
	return nil
}
