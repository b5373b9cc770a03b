package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_PATH", path)
}

func TestLoadConfig_Defaults(t *testing.T) {
	writeConfig(t, `
http:
  addr: ":8080"
postgres:
  dsn: "postgres://localhost/chat"
`)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.Logging.Service != "chat-server" {
		t.Errorf("logging.service = %q, want chat-server", cfg.Logging.Service)
	}
	if cfg.Logging.Env != "dev" {
		t.Errorf("logging.env = %q, want dev", cfg.Logging.Env)
	}
	if cfg.Logging.Backend != "std" {
		t.Errorf("logging.backend = %q, want std", cfg.Logging.Backend)
	}
	if got := cfg.PingInterval(); got != 15*time.Second {
		t.Errorf("PingInterval() = %v, want 15s", got)
	}
	if got := cfg.IdleTimeout(); got != 30*time.Second {
		t.Errorf("IdleTimeout() = %v, want 2x ping", got)
	}
}

func TestLoadConfig_WSDurations(t *testing.T) {
	writeConfig(t, `
http:
  addr: ":8080"
ws:
  pingInterval: "5s"
  idleTimeout: "45s"
postgres:
  dsn: "postgres://localhost/chat"
`)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if got := cfg.PingInterval(); got != 5*time.Second {
		t.Errorf("PingInterval() = %v, want 5s", got)
	}
	if got := cfg.IdleTimeout(); got != 45*time.Second {
		t.Errorf("IdleTimeout() = %v, want 45s", got)
	}
}

func TestLoadConfig_Required(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "missing http addr",
			body: "postgres:\n  dsn: \"postgres://localhost/chat\"\n",
		},
		{
			name: "missing postgres dsn",
			body: "http:\n  addr: \":8080\"\n",
		},
		{
			name: "invalid yaml",
			body: "http: [",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writeConfig(t, tt.body)
			if _, err := LoadConfig(); err == nil {
				t.Error("LoadConfig() expected error, got nil")
			}
		})
	}
}
