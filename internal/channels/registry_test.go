package channels

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"alerting/internal/config"
	"alerting/pkg/alert"
	logx "alerting/pkg/logx"
)

func TestBuildPreservesOrderAndNames(t *testing.T) {
	chs, err := Build([]config.ChannelConfig{
		{Type: "telegram", Name: "tg", Token: "1:a", ChatID: "1"},
		{Type: "slack", Token: "xoxb", Channel: "#a"},
		{Type: "mailgun", APIKey: "k", Domain: "d", From: "f@example.com", To: config.StringList{"t@example.com"}, Region: "eu"},
		{Type: "SendGrid", Name: "sg", APIKey: "k", From: "f@example.com", To: config.StringList{"t@example.com"}},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	want := []string{"tg", "slack", "mailgun", "sg"}
	if len(chs) != len(want) {
		t.Fatalf("got %d channels", len(chs))
	}
	for i, ch := range chs {
		if got := alert.ChannelName(ch); got != want[i] {
			t.Fatalf("channel %d name = %q, want %q", i, got, want[i])
		}
	}
}

func TestBuildReportsFailingEntry(t *testing.T) {
	_, err := Build([]config.ChannelConfig{
		{Type: "telegram", Token: "1:a", ChatID: "1"},
		{Type: "slack", Name: "broken", Channel: "#a"},
	})
	if !errors.Is(err, alert.ErrValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if !strings.Contains(err.Error(), `channels[1] "broken"`) {
		t.Fatalf("err = %v, want entry reference", err)
	}

	if _, err := New(config.ChannelConfig{Type: "fax"}); !errors.Is(err, alert.ErrValidation) {
		t.Fatalf("unknown type err = %v", err)
	}
}

func TestNewDispatcherSendsThroughConfiguredChannels(t *testing.T) {
	var texts []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err == nil {
			texts = append(texts, r.PostForm.Get("text"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"ok":true,"channel":"C1","ts":"1.1"}`)
	}))
	defer srv.Close()

	cfg := &config.Config{Channels: []config.ChannelConfig{
		{Type: "slack", Name: "a", Token: "xoxb", Channel: "#a", BaseURL: srv.URL},
		{Type: "slack", Name: "b", Token: "xoxb", Channel: "#b", BaseURL: srv.URL},
	}}
	d, err := NewDispatcher(cfg, logx.Nop())
	if err != nil {
		t.Fatalf("NewDispatcher: %v", err)
	}
	if d.Len() != 2 {
		t.Fatalf("Len = %d", d.Len())
	}
	if err := d.SendAlert(context.Background(), "disk full"); err != nil {
		t.Fatalf("SendAlert: %v", err)
	}
	if len(texts) != 2 || texts[0] != "Title: Alert\ndisk full" {
		t.Fatalf("texts = %q", texts)
	}
}
