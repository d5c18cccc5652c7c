package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		sendTitle = "Alert"
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestSendCommand(t *testing.T) {
	var texts []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		texts = append(texts, r.PostForm.Get("text"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"ok":true,"channel":"C1","ts":"1.1"}`)
	}))
	defer srv.Close()

	dir := t.TempDir()
	cfg := filepath.Join(dir, "alerting.yaml")
	body := "logging:\n  level: error\nchannels:\n  - type: slack\n    token: ${ALERTING_CLI_TOKEN}\n    channel: \"#a\"\n    base_url: " + srv.URL + "\n"
	if err := os.WriteFile(cfg, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	env := filepath.Join(dir, "test.env")
	if err := os.WriteFile(env, []byte("ALERTING_CLI_TOKEN=xoxb-env\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ALERTING_CLI_TOKEN", "")
	os.Unsetenv("ALERTING_CLI_TOKEN")

	out, err := runCLI(t, "--config", cfg, "--env-file", env, "send", "-t", "db-1", "disk", "full")
	if err != nil {
		t.Fatalf("send: %v (%s)", err, out)
	}
	if !strings.Contains(out, "sent to 1 channel(s)") {
		t.Fatalf("output = %q", out)
	}
	if len(texts) != 1 || texts[0] != "Title: db-1\ndisk full" {
		t.Fatalf("texts = %q", texts)
	}
}

func TestCheckCommand(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "alerting.json")
	body := `{"channels":[{"type":"telegram","name":"tg","token":"1:a","chat_id":"1"},{"type":"sendgrid","api_key":"k","from":"a@example.com","to":"b@example.com"}]}`
	if err := os.WriteFile(cfg, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	out, err := runCLI(t, "--config", cfg, "--env-file", "", "check")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	for _, want := range []string{"2 channel(s)", "1. tg (telegram)", "2. sendgrid (sendgrid)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output %q missing %q", out, want)
		}
	}
}

func TestMissingExplicitEnvFile(t *testing.T) {
	if err := loadEnvFile(filepath.Join(t.TempDir(), "nope.env"), true); err == nil {
		t.Fatal("expected error for explicit missing env file")
	}
	if err := loadEnvFile(filepath.Join(t.TempDir(), "nope.env"), false); err != nil {
		t.Fatalf("default env file should be optional: %v", err)
	}
}
