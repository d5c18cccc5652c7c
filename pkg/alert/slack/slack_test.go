package slack

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"alerting/pkg/alert"
)

// formValues reads Slack API parameters from either a form or a JSON body.
func formValues(t *testing.T, r *http.Request) map[string]string {
	t.Helper()
	out := map[string]string{}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		b, _ := io.ReadAll(r.Body)
		var m map[string]any
		if err := json.Unmarshal(b, &m); err != nil {
			t.Errorf("decode json body: %v", err)
			return out
		}
		for k, v := range m {
			if s, ok := v.(string); ok {
				out[k] = s
			}
		}
		return out
	}
	if err := r.ParseForm(); err != nil {
		t.Errorf("parse form: %v", err)
		return out
	}
	for k := range r.PostForm {
		out[k] = r.PostForm.Get(k)
	}
	return out
}

func TestSendPostsFormattedMessage(t *testing.T) {
	var got map[string]string
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		got = formValues(t, r)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"ok":true,"channel":"C123","ts":"1503435956.000247"}`)
	}))
	defer srv.Close()

	ch, err := New(Config{Token: "xoxb-test", Channel: "#alerts", APIURL: srv.URL})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := ch.Send(context.Background(), "db-1", "disk full"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if path != "/chat.postMessage" {
		t.Fatalf("path = %q, want /chat.postMessage", path)
	}
	if got["channel"] != "#alerts" {
		t.Fatalf("channel = %q", got["channel"])
	}
	if got["text"] != "Title: db-1\ndisk full" {
		t.Fatalf("text = %q", got["text"])
	}
}

func TestSendReturnsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"ok":false,"error":"channel_not_found"}`)
	}))
	defer srv.Close()

	ch, err := New(Config{Token: "xoxb-test", Channel: "#missing", APIURL: srv.URL + "/"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	err = ch.Send(context.Background(), "t", "m")
	if err == nil || !strings.Contains(err.Error(), "channel_not_found") {
		t.Fatalf("err = %v, want channel_not_found", err)
	}
}

func TestNewValidatesConfig(t *testing.T) {
	for _, cfg := range []Config{
		{Channel: "#alerts"},
		{Token: "xoxb-test"},
		{Token: "  ", Channel: "#alerts"},
	} {
		if _, err := New(cfg); !errors.Is(err, alert.ErrValidation) {
			t.Fatalf("New(%+v) err = %v, want validation error", cfg, err)
		}
	}
}

func TestName(t *testing.T) {
	ch, _ := New(Config{Token: "x", Channel: "#a"})
	if ch.Name() != "slack" {
		t.Fatalf("default name = %q", ch.Name())
	}
	ch, _ = New(Config{Name: "ops", Token: "x", Channel: "#a"})
	if ch.Name() != "ops" {
		t.Fatalf("name = %q", ch.Name())
	}
}
