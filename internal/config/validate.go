package config

import (
	"errors"
	"fmt"
	"strings"

	logx "alerting/pkg/logx"
)

// Validate checks structure only; channel constructors repeat the per-field
// checks when the registry builds them.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	var errs []error
	if _, ok := logx.ParseLevel(c.Logging.Level); !ok {
		errs = append(errs, fmt.Errorf("logging.level: unknown level %q", c.Logging.Level))
	}
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "console", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format: unknown format %q", c.Logging.Format))
	}
	if _, err := ParseDurationField("server.read_timeout", c.Server.ReadTimeout); err != nil {
		errs = append(errs, err)
	}
	if _, err := ParseDurationField("server.shutdown_timeout", c.Server.ShutdownTimeout); err != nil {
		errs = append(errs, err)
	}

	if len(c.Channels) == 0 {
		errs = append(errs, errors.New("channels: at least one channel is required"))
	}
	seen := map[string]int{}
	for i, ch := range c.Channels {
		path := fmt.Sprintf("channels[%d]", i)
		if err := ch.validate(path); err != nil {
			errs = append(errs, err)
		}
		if name := strings.TrimSpace(ch.Name); name != "" {
			if prev, dup := seen[name]; dup {
				errs = append(errs, fmt.Errorf("%s.name: %q already used by channels[%d]", path, name, prev))
			} else {
				seen[name] = i
			}
		}
	}
	return errors.Join(errs...)
}

func (c ChannelConfig) validate(path string) error {
	var (
		missing []string
		errs    []error
	)
	need := func(field, v string) {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, field)
		}
	}
	switch strings.ToLower(strings.TrimSpace(c.Type)) {
	case TypeSlack:
		need("token", c.Token)
		need("channel", c.Channel)
	case TypeMailgun:
		need("api_key", c.APIKey)
		need("domain", c.Domain)
		need("from", c.From)
		if len(c.To) == 0 {
			missing = append(missing, "to")
		}
	case TypeSendGrid:
		need("api_key", c.APIKey)
		need("from", c.From)
		switch {
		case len(c.To) == 0:
			missing = append(missing, "to")
		case len(c.To) > 1:
			errs = append(errs, fmt.Errorf("%s.to: sendgrid takes exactly one address, got %d", path, len(c.To)))
		}
	case TypeTelegram:
		need("token", c.Token)
		need("chat_id", c.ChatID)
	case "":
		return fmt.Errorf("%s.type: missing", path)
	default:
		return fmt.Errorf("%s.type: unknown channel type %q", path, c.Type)
	}
	if len(missing) > 0 {
		errs = append([]error{fmt.Errorf("%s (%s): missing %s", path, c.Type, strings.Join(missing, ", "))}, errs...)
	}
	if _, err := ParseDurationField(path+".timeout", c.Timeout); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
