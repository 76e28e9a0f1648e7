package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestLoad_DefaultsWhenFileHasNoKeys(t *testing.T) {
	cfg, err := Load(writeConfig(t, "log_level: debug\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log_level: got %q", cfg.LogLevel)
	}
	if cfg.Dashboard.SubjectID != "001" || cfg.Dashboard.Policy != PolicyArrival {
		t.Errorf("unexpected dashboard defaults: %+v", cfg.Dashboard)
	}
	if cfg.Dashboard.PollInterval != 2*time.Second {
		t.Errorf("poll_interval: got %v", cfg.Dashboard.PollInterval)
	}
	if cfg.Backend.PushMode != PushModeDelta || cfg.Backend.Port != "5000" {
		t.Errorf("unexpected backend defaults: %+v", cfg.Backend)
	}
}

func TestLoad_FileValuesAndEnvOverride(t *testing.T) {
	p := writeConfig(t, `
dashboard:
  subject_id: "042"
  policy: Monotonic
  poll_interval: 0s
backend:
  push_mode: batch
`)
	t.Setenv("MONITOR_DASHBOARD_SUBJECT_ID", "777")

	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Dashboard.SubjectID != "777" {
		t.Errorf("env override ignored: %q", cfg.Dashboard.SubjectID)
	}
	if cfg.Dashboard.Policy != PolicyMonotonic {
		t.Errorf("policy not normalized: %q", cfg.Dashboard.Policy)
	}
	if cfg.Dashboard.PollInterval != 0 {
		t.Errorf("poll_interval: got %v", cfg.Dashboard.PollInterval)
	}
	if cfg.Backend.PushMode != PushModeBatch {
		t.Errorf("push_mode: got %q", cfg.Backend.PushMode)
	}
}

func TestLoad_Validation(t *testing.T) {
	cases := []struct {
		name string
		body string
		want error
	}{
		{"bad policy", "dashboard:\n  policy: newest\n", errBadPolicy},
		{"bad push mode", "backend:\n  push_mode: stream\n", errBadPushMode},
		{"empty subject", "dashboard:\n  subject_id: \" \"\n", errNoSubject},
		{"negative limit", "dashboard:\n  timeline_max_events: -1\n", errNegativeLimit},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			if !errors.Is(err, tc.want) {
				t.Fatalf("want %v, got %v", tc.want, err)
			}
		})
	}
}

func TestLoad_MissingExplicitFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Fatalf("expected error for missing explicit config file")
	}
}

func TestPushEndpoint(t *testing.T) {
	cases := []struct {
		d    Dashboard
		want string
	}{
		{Dashboard{BaseURL: "http://127.0.0.1:5000"}, "ws://127.0.0.1:5000/ws"},
		{Dashboard{BaseURL: "https://monitor.example.com/api/"}, "wss://monitor.example.com/api/ws"},
		{Dashboard{BaseURL: "http://x", PushURL: "ws://push:9000/socket"}, "ws://push:9000/socket"},
		{Dashboard{BaseURL: "http://127.0.0.1:5000", SubjectID: "emp 7"}, "ws://127.0.0.1:5000/ws?subject=emp+7"},
		{Dashboard{PushURL: "ws://push/ws?subject=other", SubjectID: "001"}, "ws://push/ws?subject=other"},
	}
	for _, tc := range cases {
		got, err := tc.d.PushEndpoint()
		if err != nil {
			t.Fatalf("PushEndpoint(%+v): %v", tc.d, err)
		}
		if got != tc.want {
			t.Errorf("PushEndpoint(%+v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}
