package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// expandEnv resolves ${VAR} references in every channel string field and in
// the server token. Secrets normally live in the environment (or a .env file
// loaded by the CLI), not in the config file.
//
// Only the braced form is expanded, so a literal '$' in a key or password
// survives. "$${" yields a literal "${". An unset variable is an error.
func expandEnv(cfg *Config) error {
	if cfg == nil {
		return nil
	}
	var errs []error
	field := func(name string, s *string) {
		v, err := expand(*s)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			return
		}
		*s = v
	}
	field("server.token", &cfg.Server.Token)
	for i := range cfg.Channels {
		c := &cfg.Channels[i]
		p := fmt.Sprintf("channels[%d].", i)
		field(p+"name", &c.Name)
		field(p+"token", &c.Token)
		field(p+"channel", &c.Channel)
		field(p+"chat_id", &c.ChatID)
		field(p+"proxy", &c.Proxy)
		field(p+"api_key", &c.APIKey)
		field(p+"from", &c.From)
		field(p+"domain", &c.Domain)
		field(p+"region", &c.Region)
		field(p+"base_url", &c.BaseURL)
		for j := range c.To {
			field(fmt.Sprintf("%sto[%d]", p, j), &c.To[j])
		}
	}
	return errors.Join(errs...)
}

func expand(s string) (string, error) {
	if !strings.Contains(s, "${") {
		return s, nil
	}
	var b strings.Builder
	for {
		i := strings.Index(s, "${")
		if i < 0 {
			b.WriteString(s)
			return b.String(), nil
		}
		if i > 0 && s[i-1] == '$' {
			b.WriteString(s[:i-1])
			b.WriteString("${")
			s = s[i+2:]
			continue
		}
		end := strings.IndexByte(s[i+2:], '}')
		if end < 0 {
			return "", fmt.Errorf("unterminated ${ in %q", redact(s))
		}
		name := s[i+2 : i+2+end]
		if name == "" {
			return "", errors.New("empty ${} reference")
		}
		v, ok := os.LookupEnv(name)
		if !ok {
			return "", fmt.Errorf("environment variable %s is not set", name)
		}
		b.WriteString(s[:i])
		b.WriteString(v)
		s = s[i+2+end+1:]
	}
}

// redact keeps error messages from echoing secrets.
func redact(s string) string {
	if len(s) <= 4 {
		return "***"
	}
	return s[:2] + "***"
}
