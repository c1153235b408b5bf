package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestResolveBaseURL(t *testing.T) {
	t.Parallel()

	const deployed = "https://api.example.org"
	cases := map[string]string{
		"localhost":       "",
		"127.0.0.1":       "",
		"LOCALHOST":       "",
		"localhost:8080":  "",
		"127.0.0.1:5000":  "",
		"predictor.io":    deployed,
		"10.0.0.5":        deployed,
		"":                deployed,
		"app.example.org": deployed,
	}
	for host, want := range cases {
		if got := ResolveBaseURL(host, deployed); got != want {
			t.Fatalf("ResolveBaseURL(%q) = %q, want %q", host, got, want)
		}
	}
}

func TestAPIConfigOrigin(t *testing.T) {
	t.Parallel()

	api := APIConfig{DeployedOrigin: "https://api.example.org", LocalOrigin: "http://127.0.0.1:5000"}
	if got := api.Origin("localhost"); got != "http://127.0.0.1:5000" {
		t.Fatalf("local origin = %q", got)
	}
	if got := api.Origin("predictor.example.org"); got != "https://api.example.org" {
		t.Fatalf("deployed origin = %q", got)
	}

	api.BaseURL = "http://override:9000"
	if got := api.Origin("localhost"); got != "http://override:9000" {
		t.Fatalf("explicit base = %q", got)
	}

	if got := (APIConfig{}).Origin("localhost"); got != defaultLocalURL {
		t.Fatalf("fallback origin = %q", got)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv(configPathEnv, "")
	t.Setenv(apiURLEnv, "")
	t.Setenv(historyDSNEnv, "")
	t.Setenv(serverAddrEnv, "")
	t.Setenv(publicHostEnv, "")

	cfg := Load()
	if cfg.Server.Addr != ":8080" || cfg.Server.PublicHost != "localhost" {
		t.Fatalf("unexpected server defaults: %+v", cfg.Server)
	}
	if cfg.API.Timeout != 0 {
		t.Fatalf("expected unbounded requests by default, got %v", cfg.API.Timeout)
	}
	if cfg.History.DSN != "" || cfg.History.Limit != 20 || cfg.History.Retention != 0 {
		t.Fatalf("unexpected history defaults: %+v", cfg.History)
	}
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
logging:
  level: debug
  format: json
server:
  addr: ":9090"
  shutdownTimeout: 3s
api:
  deployedOrigin: https://predict.example.org
  timeout: 20s
history:
  dsn: file:history.db
  limit: 5
  retention: 720h
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv(configPathEnv, path)
	t.Setenv(serverAddrEnv, ":7070")
	t.Setenv(historyDriverEnv, "postgres")
	t.Setenv(apiURLEnv, "")

	cfg := Load()

	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Fatalf("logging not merged: %+v", cfg.Logging)
	}
	if cfg.Server.Addr != ":7070" {
		t.Fatalf("env override ignored: %s", cfg.Server.Addr)
	}
	if cfg.Server.ShutdownTimeout != 3*time.Second {
		t.Fatalf("unexpected shutdown timeout: %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.Server.MaxUploadBytes != defaultUploadSize {
		t.Fatalf("default upload size lost: %d", cfg.Server.MaxUploadBytes)
	}
	if cfg.Server.SessionTTL != 30*time.Minute {
		t.Fatalf("default session ttl lost: %v", cfg.Server.SessionTTL)
	}
	if cfg.API.DeployedOrigin != "https://predict.example.org" || cfg.API.LocalOrigin != defaultLocalURL {
		t.Fatalf("api not merged: %+v", cfg.API)
	}
	if cfg.API.Timeout != 20*time.Second {
		t.Fatalf("unexpected api timeout: %v", cfg.API.Timeout)
	}
	if cfg.History.Driver != "postgres" || cfg.History.DSN != "file:history.db" || cfg.History.Limit != 5 {
		t.Fatalf("history not merged: %+v", cfg.History)
	}
	if cfg.History.Retention != 720*time.Hour || cfg.History.PruneInterval != time.Hour {
		t.Fatalf("retention not merged: %+v", cfg.History)
	}
}

func TestLoadUnreadableFileFallsBack(t *testing.T) {
	t.Setenv(configPathEnv, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv(serverAddrEnv, "")

	cfg := Load()
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("expected defaults, got %+v", cfg.Server)
	}
}
