package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/openmicroshop/commerce-backend/internal/platform/envutil"
)

// Config carries everything a service binary needs: its own port, the
// database, the base URLs of its peers, and the validation budgets. Peer
// addresses are always injected here, never hard-coded at a call site.
type Config struct {
	Service string `yaml:"service"`
	Port    string `yaml:"port"`

	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
	Peers    PeersConfig    `yaml:"peers"`
	Auth     AuthConfig     `yaml:"auth"`
	Validate ValidateConfig `yaml:"validate"`
}

type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		p.User, p.Password, p.Host, p.Port, p.Name)
}

type RedisConfig struct {
	Addr string `yaml:"addr"`
}

// PeersConfig maps each remote dependency to its base URL.
type PeersConfig struct {
	Users    string `yaml:"users"`
	Stores   string `yaml:"stores"`
	Products string `yaml:"products"`
	Orders   string `yaml:"orders"`
	Carts    string `yaml:"carts"`
	Auth     string `yaml:"auth"`
}

type AuthConfig struct {
	JWTSecret    string        `yaml:"jwt_secret"`
	AccessTTL    time.Duration `yaml:"access_ttl"`
	RefreshTTL   time.Duration `yaml:"refresh_ttl"`
	GatewayToken string        `yaml:"gateway_token"`
}

// ValidateConfig bounds the reference-validation phase: one attempt plus one
// retry per reference, each attempt capped by ResolveTimeout, the whole
// phase capped by OverallTimeout.
type ValidateConfig struct {
	ResolveTimeout time.Duration `yaml:"resolve_timeout"`
	RetryBackoff   time.Duration `yaml:"retry_backoff"`
	OverallTimeout time.Duration `yaml:"overall_timeout"`
}

var defaultPorts = map[string]string{
	"gateway":  "3000",
	"users":    "3001",
	"stores":   "3002",
	"products": "3003",
	"orders":   "3004",
	"carts":    "3005",
	"auth":     "3006",
}

// Load builds the config for one service: defaults, then the optional YAML
// file named by CONFIG_FILE, then env overrides on top.
func Load(service string) (*Config, error) {
	cfg := &Config{
		Service: service,
		Port:    defaultPorts[service],
		Postgres: PostgresConfig{
			Host: "localhost",
			Port: "5432",
			User: "commerce_user",
			Name: "commerce",
		},
		Peers: PeersConfig{
			Users:    "http://localhost:3001",
			Stores:   "http://localhost:3002",
			Products: "http://localhost:3003",
			Orders:   "http://localhost:3004",
			Carts:    "http://localhost:3005",
			Auth:     "http://localhost:3006",
		},
		Auth: AuthConfig{
			JWTSecret:  "defaultsecret",
			AccessTTL:  time.Hour,
			RefreshTTL: 24 * time.Hour,
		},
		Validate: ValidateConfig{
			ResolveTimeout: 3 * time.Second,
			RetryBackoff:   150 * time.Millisecond,
			OverallTimeout: 8 * time.Second,
		},
	}

	if path := envutil.Str("CONFIG_FILE", ""); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %q: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %q: %w", path, err)
		}
		cfg.Service = service
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Port = envutil.Str("PORT", cfg.Port)

	cfg.Postgres.Host = envutil.Str("POSTGRES_HOST", cfg.Postgres.Host)
	cfg.Postgres.Port = envutil.Str("POSTGRES_PORT", cfg.Postgres.Port)
	cfg.Postgres.User = envutil.Str("POSTGRES_USER", cfg.Postgres.User)
	cfg.Postgres.Password = envutil.Str("POSTGRES_PASSWORD", cfg.Postgres.Password)
	cfg.Postgres.Name = envutil.Str("POSTGRES_NAME", cfg.Postgres.Name)

	cfg.Redis.Addr = envutil.Str("REDIS_ADDR", cfg.Redis.Addr)

	cfg.Peers.Users = envutil.Str("USERS_URL", cfg.Peers.Users)
	cfg.Peers.Stores = envutil.Str("STORES_URL", cfg.Peers.Stores)
	cfg.Peers.Products = envutil.Str("PRODUCTS_URL", cfg.Peers.Products)
	cfg.Peers.Orders = envutil.Str("ORDERS_URL", cfg.Peers.Orders)
	cfg.Peers.Carts = envutil.Str("CARTS_URL", cfg.Peers.Carts)
	cfg.Peers.Auth = envutil.Str("AUTH_URL", cfg.Peers.Auth)

	cfg.Auth.JWTSecret = envutil.Str("JWT_SECRET_KEY", cfg.Auth.JWTSecret)
	cfg.Auth.GatewayToken = envutil.Str("GATEWAY_TOKEN", cfg.Auth.GatewayToken)
	cfg.Auth.AccessTTL = envutil.Duration("ACCESS_TOKEN_TTL", cfg.Auth.AccessTTL)
	cfg.Auth.RefreshTTL = envutil.Duration("REFRESH_TOKEN_TTL", cfg.Auth.RefreshTTL)

	cfg.Validate.ResolveTimeout = envutil.Duration("RESOLVE_TIMEOUT", cfg.Validate.ResolveTimeout)
	cfg.Validate.RetryBackoff = envutil.Duration("RESOLVE_RETRY_BACKOFF", cfg.Validate.RetryBackoff)
	cfg.Validate.OverallTimeout = envutil.Duration("VALIDATE_OVERALL_TIMEOUT", cfg.Validate.OverallTimeout)
}
