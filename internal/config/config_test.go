package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("orders")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Service != "orders" {
		t.Fatalf("unexpected service: got=%q want=%q", cfg.Service, "orders")
	}
	if cfg.Port != "3004" {
		t.Fatalf("unexpected port: got=%q want=%q", cfg.Port, "3004")
	}
	if cfg.Peers.Users != "http://localhost:3001" {
		t.Fatalf("unexpected users peer: got=%q", cfg.Peers.Users)
	}
	if cfg.Validate.RetryBackoff != 150*time.Millisecond {
		t.Fatalf("unexpected retry backoff: got=%v", cfg.Validate.RetryBackoff)
	}
	if cfg.Validate.ResolveTimeout != 3*time.Second {
		t.Fatalf("unexpected resolve timeout: got=%v", cfg.Validate.ResolveTimeout)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("USERS_URL", "http://users.internal:8080")
	t.Setenv("RESOLVE_TIMEOUT", "500ms")
	t.Setenv("JWT_SECRET_KEY", "from-env")

	cfg, err := Load("carts")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9000" {
		t.Fatalf("unexpected port: got=%q want=%q", cfg.Port, "9000")
	}
	if cfg.Peers.Users != "http://users.internal:8080" {
		t.Fatalf("unexpected users peer: got=%q", cfg.Peers.Users)
	}
	if cfg.Validate.ResolveTimeout != 500*time.Millisecond {
		t.Fatalf("unexpected resolve timeout: got=%v", cfg.Validate.ResolveTimeout)
	}
	if cfg.Auth.JWTSecret != "from-env" {
		t.Fatalf("unexpected jwt secret: got=%q", cfg.Auth.JWTSecret)
	}
}

func TestLoadYAMLFileThenEnvWins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	raw := []byte(`
port: "4100"
peers:
  products: "http://products.yaml:3003"
auth:
  jwt_secret: "from-yaml"
`)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "4200")

	cfg, err := Load("stores")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "4200" {
		t.Fatalf("env must win over yaml: got=%q want=%q", cfg.Port, "4200")
	}
	if cfg.Peers.Products != "http://products.yaml:3003" {
		t.Fatalf("unexpected products peer: got=%q", cfg.Peers.Products)
	}
	if cfg.Auth.JWTSecret != "from-yaml" {
		t.Fatalf("unexpected jwt secret: got=%q", cfg.Auth.JWTSecret)
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", "/does/not/exist.yaml")
	if _, err := Load("users"); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestPostgresDSN(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: "5432", User: "u", Password: "p", Name: "commerce"}
	want := "postgres://u:p@db:5432/commerce?sslmode=disable"
	if got := p.DSN(); got != want {
		t.Fatalf("unexpected dsn: got=%q want=%q", got, want)
	}
}
