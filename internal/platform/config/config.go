// Package config loads server configuration from defaults, an optional YAML
// file, and MEDGATE_-prefixed environment variables, in that override order.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	dErrors "medgate/pkg/domain-errors"
)

// Config is the fully resolved server configuration.
type Config struct {
	Server     ServerConfig
	Auth       AuthConfig
	Admin      AdminConfig
	SMTP       SMTPConfig
	Gatekeeper GatekeeperConfig
	Store      StoreConfig
	Cleanup    CleanupConfig
	LogLevel   string
}

// ServerConfig captures HTTP server level configuration.
type ServerConfig struct {
	Addr    string
	BaseURL string
}

// AuthConfig captures the authorization protocol parameters.
type AuthConfig struct {
	SigningSecret  string
	ApprovalTTL    time.Duration
	SessionTTL     time.Duration
	AllowedDomain  string
	GoogleClientID string
}

// AdminConfig identifies the approving administrator.
type AdminConfig struct {
	Email string
}

// SMTPConfig captures outbound mail settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// GatekeeperConfig captures protected path enforcement settings.
type GatekeeperConfig struct {
	ProtectedPrefixes []string
	SigninPath        string
}

// StoreConfig selects the persistence backend. An empty RedisAddr selects the
// in-memory stores.
type StoreConfig struct {
	RedisAddr string
}

// CleanupConfig captures the expired-entry sweeper settings.
type CleanupConfig struct {
	Interval time.Duration
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"server.addr":                   ":8080",
		"server.base_url":               "http://localhost:8080",
		"auth.approval_ttl":             "10m",
		"auth.session_ttl":              "24h",
		"gatekeeper.protected_prefixes": []string{"/app"},
		"gatekeeper.signin_path":        "/login",
		"smtp.port":                     587,
		"cleanup.interval":              "5m",
		"log.level":                     "info",
	}
}

// Load resolves configuration from defaults, the YAML file at path (skipped
// when path is empty or the file does not exist), and environment variables
// with the MEDGATE_ prefix. MEDGATE_AUTH_SESSION_TTL overrides
// auth.session_ttl, and so on.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("load config defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("load config file %q: %w", path, err)
			}
		}
	}

	if err := k.Load(env.Provider("MEDGATE_", ".", transformEnv), nil); err != nil {
		return nil, fmt.Errorf("load env config: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Addr:    k.String("server.addr"),
			BaseURL: strings.TrimRight(k.String("server.base_url"), "/"),
		},
		Auth: AuthConfig{
			SigningSecret:  k.String("auth.signing_secret"),
			ApprovalTTL:    k.Duration("auth.approval_ttl"),
			SessionTTL:     k.Duration("auth.session_ttl"),
			AllowedDomain:  k.String("auth.allowed_domain"),
			GoogleClientID: k.String("auth.google_client_id"),
		},
		Admin: AdminConfig{
			Email: k.String("admin.email"),
		},
		SMTP: SMTPConfig{
			Host:     k.String("smtp.host"),
			Port:     k.Int("smtp.port"),
			Username: k.String("smtp.username"),
			Password: k.String("smtp.password"),
			From:     k.String("smtp.from"),
		},
		Gatekeeper: GatekeeperConfig{
			ProtectedPrefixes: k.Strings("gatekeeper.protected_prefixes"),
			SigninPath:        k.String("gatekeeper.signin_path"),
		},
		Store: StoreConfig{
			RedisAddr: k.String("store.redis_addr"),
		},
		Cleanup: CleanupConfig{
			Interval: k.Duration("cleanup.interval"),
		},
		LogLevel: k.String("log.level"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// transformEnv maps MEDGATE_AUTH_SIGNING_SECRET to auth.signing_secret. The
// first underscore separates the section; the rest of the name is kept as-is.
func transformEnv(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, "MEDGATE_"))
	section, rest, found := strings.Cut(key, "_")
	if !found {
		return section
	}
	return section + "." + rest
}

func (c *Config) validate() error {
	switch {
	case c.Auth.SigningSecret == "":
		return dErrors.New(dErrors.CodeServerMisconfigured, "auth.signing_secret is required")
	case c.Auth.GoogleClientID == "":
		return dErrors.New(dErrors.CodeServerMisconfigured, "auth.google_client_id is required")
	case c.Auth.AllowedDomain == "":
		return dErrors.New(dErrors.CodeServerMisconfigured, "auth.allowed_domain is required")
	case c.Admin.Email == "":
		return dErrors.New(dErrors.CodeServerMisconfigured, "admin.email is required")
	case c.Auth.ApprovalTTL <= 0:
		return dErrors.New(dErrors.CodeServerMisconfigured, "auth.approval_ttl must be positive")
	case c.Auth.SessionTTL <= 0:
		return dErrors.New(dErrors.CodeServerMisconfigured, "auth.session_ttl must be positive")
	}
	return nil
}
