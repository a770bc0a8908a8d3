package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeTempConfig(t, `
env: dev
gateway:
  baseURL: https://api.test
  token: foo
  workspaceID: ws1
  timeoutSeconds: 15
order:
  pollIntervalSeconds: 30
logging:
  level: debug
  format: json
  outputs: [stdout]
metrics:
  addr: ":9100"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Env != "dev" || cfg.Gateway.Token != "foo" || cfg.Gateway.WorkspaceID != "ws1" {
		t.Fatalf("unexpected cfg values: %+v", cfg)
	}
	if cfg.Order.PollInterval() != 30*time.Second {
		t.Fatalf("unexpected poll interval %s", cfg.Order.PollInterval())
	}
	if cfg.Order.Provider != DefaultProvider {
		t.Fatalf("provider default not applied: %q", cfg.Order.Provider)
	}
	if cfg.Logging.Level != "debug" || cfg.Metrics.Addr != ":9100" {
		t.Fatalf("unexpected logging/metrics cfg: %+v %+v", cfg.Logging, cfg.Metrics)
	}
}

func TestLoadDefaults(t *testing.T) {
	path := writeTempConfig(t, `
env: dev
gateway:
  baseURL: https://api.test
  token: foo
  workspaceID: ws1
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Order.PollInterval() != 120*time.Second {
		t.Fatalf("expected default poll interval, got %s", cfg.Order.PollInterval())
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("expected default logging config, got %+v", cfg.Logging)
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	path := writeTempConfig(t, `
env: prod
gateway:
  baseURL: https://api.test
  workspaceID: ws1
`)
	t.Setenv("GEO_API_TOKEN", "env-token")
	t.Setenv("GEO_WORKSPACE_ID", "env-ws")
	t.Setenv("GEO_BASE_URL", "https://env.test")
	cfg, err := LoadWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Gateway.Token != "env-token" || cfg.Gateway.WorkspaceID != "env-ws" || cfg.Gateway.BaseURL != "https://env.test" {
		t.Fatalf("env overrides not applied: %+v", cfg.Gateway)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	if _, err := Load(writeTempConfig(t, "env: [")); err == nil {
		t.Fatalf("expected yaml parse error")
	}
}

func TestValidate(t *testing.T) {
	err := Validate(AppConfig{})
	if err == nil {
		t.Fatalf("expected error for empty config")
	}
	cfg := AppConfig{
		Env:     "dev",
		Gateway: GatewayConfig{BaseURL: "https://api.test", Token: "t", WorkspaceID: "ws"},
		Order:   OrderConfig{PollIntervalSeconds: -1},
	}
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected error for negative poll interval")
	}
	cfg.Order.PollIntervalSeconds = 0
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
