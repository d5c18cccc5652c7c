package config

import (
	"reflect"
	"strings"

	logx "alerting/pkg/logx"
)

// SummarizeChange returns the changed top-level sections and log fields that
// describe the new config. Secrets (tokens, api keys) are never included.
func SummarizeChange(oldCfg, newCfg *Config) ([]string, []logx.Field) {
	if oldCfg == nil {
		oldCfg = &Config{}
	}
	if newCfg == nil {
		newCfg = &Config{}
	}

	changed := make([]string, 0, 3)
	fields := make([]logx.Field, 0, 8)

	if !reflect.DeepEqual(oldCfg.Logging, newCfg.Logging) {
		changed = append(changed, "logging")
		fields = append(fields,
			logx.String("logging.level", newCfg.Logging.Level),
			logx.Bool("logging.file", newCfg.Logging.File.Enabled),
		)
	}

	if !reflect.DeepEqual(oldCfg.Server, newCfg.Server) {
		changed = append(changed, "server")
		fields = append(fields,
			logx.String("server.addr", newCfg.Server.Addr),
			logx.Bool("server.token_set", strings.TrimSpace(newCfg.Server.Token) != ""),
		)
	}

	if !reflect.DeepEqual(oldCfg.Channels, newCfg.Channels) {
		changed = append(changed, "channels")
		fields = append(fields,
			logx.Int("channels.count", len(newCfg.Channels)),
			logx.Strings("channels.names", ChannelLabels(newCfg.Channels)),
		)
	}
	return changed, fields
}

// ChannelLabels lists "label(type)" for each channel, in order.
func ChannelLabels(chs []ChannelConfig) []string {
	out := make([]string, 0, len(chs))
	for _, c := range chs {
		if c.Name == "" || c.Name == c.Type {
			out = append(out, c.Type)
			continue
		}
		out = append(out, c.Name+"("+c.Type+")")
	}
	return out
}
