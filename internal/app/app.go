// Package app wires config, logging, channels and the HTTP relay for
// `alerting serve`.
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"alerting/internal/channels"
	"alerting/internal/config"
	"alerting/internal/relay"
	logx "alerting/pkg/logx"
)

type App struct {
	cfgm  *config.Manager
	log   logx.Logger
	logs  *logx.Service
	relay *relay.Server

	// notify reports lifecycle to the service manager; replaced in tests.
	notify func(state string)
}

func NewApp(cfgPath string) (*App, error) {
	cfgm := config.NewManager(cfgPath)
	cfg, err := cfgm.Load()
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", cfgPath, err)
	}
	logSvc, log := logx.New(LogConfig(cfg))

	d, err := channels.NewDispatcher(cfg, log)
	if err != nil {
		_ = logSvc.Close()
		return nil, err
	}
	srv, err := relay.New(relayConfig(cfg), d, log.With(logx.String("comp", "relay")))
	if err != nil {
		_ = logSvc.Close()
		return nil, err
	}

	cfgm.SetLogger(log.With(logx.String("comp", "config")))
	// Reject reloads whose channels cannot be constructed.
	cfgm.SetValidator(func(ctx context.Context, c *config.Config) error {
		_, err := channels.Build(c.Channels)
		return err
	})

	return &App{
		cfgm:   cfgm,
		log:    log.With(logx.String("comp", "app")),
		logs:   logSvc,
		relay:  srv,
		notify: sdNotify,
	}, nil
}

// LogConfig maps the logging section onto logx.
func LogConfig(cfg *config.Config) logx.Config {
	return logx.Config{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	}
}

func relayConfig(cfg *config.Config) relay.Config {
	return relay.Config{
		Addr:            cfg.Server.Addr,
		Token:           cfg.Server.Token,
		ReadTimeout:     config.DurationOr(cfg.Server.ReadTimeout, 10*time.Second),
		ShutdownTimeout: config.DurationOr(cfg.Server.ShutdownTimeout, 5*time.Second),
	}
}

// Run serves until ctx is done or a component fails.
func (a *App) Run(ctx context.Context) error {
	defer a.logs.Close()

	cfg := a.cfgm.Get()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := a.relay.Start(gctx, func(addr string) { a.ready(cfg, addr) }); err != nil {
			return fmt.Errorf("relay: %w", err)
		}
		return nil
	})

	if cfg.Server.WatchConfig {
		sub := a.cfgm.Subscribe(8)
		g.Go(func() error {
			defer a.cfgm.Unsubscribe(sub)
			a.reloadLoop(gctx, sub)
			return nil
		})
		g.Go(func() error {
			return a.cfgm.Watch(gctx)
		})
	}

	err := g.Wait()
	a.notify("STOPPING=1")
	a.log.Info("alerting stopped")
	return err
}

// ready runs once the relay listener is bound.
func (a *App) ready(cfg *config.Config, addr string) {
	a.notify("READY=1")
	a.log.Info("alerting started",
		logx.String("config", a.cfgm.Path()),
		logx.String("addr", addr),
		logx.Int("channels", len(cfg.Channels)),
		logx.Strings("order", config.ChannelLabels(cfg.Channels)),
		logx.Bool("watch_config", cfg.Server.WatchConfig),
	)
}

func (a *App) reloadLoop(ctx context.Context, sub <-chan *config.Config) {
	last := a.cfgm.Get()
	for {
		select {
		case <-ctx.Done():
			return
		case newCfg, ok := <-sub:
			if !ok {
				return
			}
			// Coalesce bursts: only the newest config matters.
		drain:
			for {
				select {
				case newer, more := <-sub:
					if !more {
						break drain
					}
					if newer != nil {
						newCfg = newer
					}
				default:
					break drain
				}
			}
			if newCfg == nil {
				continue
			}
			if a.apply(last, newCfg) {
				last = newCfg
			}
		}
	}
}

// apply installs newCfg and reports whether it took effect.
func (a *App) apply(oldCfg, newCfg *config.Config) bool {
	sections, fields := config.SummarizeChange(oldCfg, newCfg)
	if len(sections) == 0 {
		a.log.Debug("config reload received, but no effective changes detected")
		return true
	}
	a.log.Info("config change", append([]logx.Field{logx.String("changed", strings.Join(sections, ","))}, fields...)...)

	for _, s := range sections {
		switch s {
		case "logging":
			a.logs.Apply(LogConfig(newCfg))
		case "server":
			a.log.Warn("server config changed; restart required for changes to take effect")
		case "channels":
			d, err := channels.NewDispatcher(newCfg, a.logs.Logger())
			if err != nil {
				a.log.Error("channel rebuild failed; keeping previous channels", logx.Err(err))
				return false
			}
			a.relay.SetDispatcher(d)
		}
	}
	return true
}
