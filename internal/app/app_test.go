package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

const oneChannel = `{
  "logging": {"level": "error"},
  "server": {"addr": "127.0.0.1:0", "watch_config": true},
  "channels": [{"type": "telegram", "token": "1:a", "chat_id": "1"}]
}`

const twoChannels = `{
  "logging": {"level": "error"},
  "server": {"addr": "127.0.0.1:0", "watch_config": true},
  "channels": [
    {"type": "telegram", "token": "1:a", "chat_id": "1"},
    {"type": "slack", "token": "xoxb", "channel": "#a"}
  ]
}`

func healthChannels(t *testing.T, addr string) int {
	t.Helper()
	resp, err := http.Get("http://" + addr + "/healthz")
	if err != nil {
		return -1
	}
	defer resp.Body.Close()
	var body struct {
		Channels int `json:"channels"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return -1
	}
	return body.Channels
}

func waitFor(d time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(25 * time.Millisecond)
	}
	return cond()
}

func TestRunReloadsChannels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alerting.json")
	if err := os.WriteFile(path, []byte(oneChannel), 0o600); err != nil {
		t.Fatal(err)
	}
	a, err := NewApp(path)
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	var (
		mu     sync.Mutex
		states []string
	)
	a.notify = func(s string) {
		mu.Lock()
		states = append(states, s)
		mu.Unlock()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	if !waitFor(3*time.Second, func() bool { return a.relay.Addr() != "" && healthChannels(t, a.relay.Addr()) == 1 }) {
		t.Fatal("relay did not come up with one channel")
	}

	// Let the watcher register before rewriting.
	time.Sleep(200 * time.Millisecond)
	if err := os.WriteFile(path, []byte(twoChannels), 0o600); err != nil {
		t.Fatal(err)
	}
	if !waitFor(5*time.Second, func() bool { return healthChannels(t, a.relay.Addr()) == 2 }) {
		t.Fatal("reload did not swap the dispatcher")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	mu.Lock()
	defer mu.Unlock()
	if len(states) != 2 || states[0] != "READY=1" || states[1] != "STOPPING=1" {
		t.Fatalf("notify states = %v", states)
	}
}

func TestNewAppRejectsBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alerting.json")
	if err := os.WriteFile(path, []byte(`{"channels":[{"type":"slack","token":"x"}]}`), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewApp(path); err == nil {
		t.Fatal("expected config validation error")
	}
}

func TestRunDoesNotReportReadyWhenBindFails(t *testing.T) {
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer taken.Close()

	body := fmt.Sprintf(`{
  "logging": {"level": "error"},
  "server": {"addr": %q},
  "channels": [{"type": "telegram", "token": "1:a", "chat_id": "1"}]
}`, taken.Addr().String())
	path := filepath.Join(t.TempDir(), "alerting.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	a, err := NewApp(path)
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	var states []string
	a.notify = func(s string) { states = append(states, s) }

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.Run(ctx); err == nil {
		t.Fatal("expected bind error")
	}
	for _, s := range states {
		if s == "READY=1" {
			t.Fatalf("READY reported on bind failure: %v", states)
		}
	}
}
