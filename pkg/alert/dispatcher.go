package alert

import (
	"context"
	"fmt"
	"reflect"
	"time"

	logx "alerting/pkg/logx"
)

// Channel delivers an alert to one backend.
//
// Send performs a single outbound call and does not retry.
type Channel interface {
	Send(ctx context.Context, title, message string) error
}

// Named is implemented by channels that want a readable name in logs.
type Named interface {
	Name() string
}

// ChannelName returns ch.Name() when available, else the dynamic type.
func ChannelName(ch Channel) string {
	if n, ok := ch.(Named); ok {
		if s := n.Name(); s != "" {
			return s
		}
	}
	return fmt.Sprintf("%T", ch)
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the dispatcher logger. The zero Logger is a no-op.
func WithLogger(log logx.Logger) Option {
	return func(d *Dispatcher) { d.log = log }
}

// Dispatcher broadcasts alerts to an ordered channel set.
//
// The channel set is fixed at construction; a Dispatcher is safe for
// concurrent use as long as its channels are.
type Dispatcher struct {
	channels []Channel
	log      logx.Logger
}

// NewDispatcher validates channels eagerly so a misconfigured entry is caught
// before any alert is sent. A nil slice or a nil element is a
// *ValidationError; an empty slice is accepted.
func NewDispatcher(channels []Channel, opts ...Option) (*Dispatcher, error) {
	if channels == nil {
		return nil, Invalid("channels", "nil channel list")
	}
	for i, ch := range channels {
		if isNilChannel(ch) {
			return nil, Invalid(fmt.Sprintf("channels[%d]", i), "not a Channel (nil)")
		}
	}
	d := &Dispatcher{
		channels: append([]Channel(nil), channels...),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	if d.log.IsZero() {
		d.log = logx.Nop()
	}
	return d, nil
}

func isNilChannel(ch Channel) bool {
	if ch == nil {
		return true
	}
	v := reflect.ValueOf(ch)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// Len returns the number of channels.
func (d *Dispatcher) Len() int { return len(d.channels) }

// SendOption customizes a single SendAlert call.
type SendOption func(*Alert)

// WithTitle overrides DefaultTitle. An empty title keeps the default.
func WithTitle(title string) SendOption {
	return func(a *Alert) { a.Title = title }
}

// SendAlert sends message to every channel in registration order.
//
// It returns the first channel error unmodified; channels after the
// failing one are not called.
func (d *Dispatcher) SendAlert(ctx context.Context, message string, opts ...SendOption) error {
	a := Alert{Message: message}
	for _, opt := range opts {
		if opt != nil {
			opt(&a)
		}
	}
	return d.Send(ctx, a)
}

// Send is SendAlert for a prepared Alert.
func (d *Dispatcher) Send(ctx context.Context, a Alert) error {
	if err := a.Validate(); err != nil {
		return err
	}
	a = a.Normalize()
	if ctx == nil {
		ctx = context.Background()
	}

	start := time.Now()
	for i, ch := range d.channels {
		if err := ch.Send(ctx, a.Title, a.Message); err != nil {
			d.log.Warn("alert delivery failed",
				logx.String("channel", ChannelName(ch)),
				logx.Int("index", i),
				logx.Int("skipped", len(d.channels)-i-1),
				logx.Err(err),
			)
			return err
		}
		d.log.Debug("alert delivered", logx.String("channel", ChannelName(ch)), logx.Int("index", i))
	}
	d.log.Debug("alert dispatched", logx.String("title", a.Title), logx.Int("channels", len(d.channels)), logx.Duration("took", time.Since(start)))
	return nil
}
