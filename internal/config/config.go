// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
//
// Configuration is loaded in layers (see LoadWithKoanf):
//  1. Built-in defaults
//  2. Optional YAML file (CONFIG_PATH or DefaultConfigPaths)
//  3. Environment variables
//
// Config is immutable after Load() and safe for concurrent reads.
type Config struct {
	Server        ServerConfig        `koanf:"server"`
	Logging       LoggingConfig       `koanf:"logging"`
	JWT           JWTConfig           `koanf:"jwt"`
	Filter        FilterConfig        `koanf:"filter"`
	Cookie        CookieConfig        `koanf:"cookie"`
	Realms        RealmsConfig        `koanf:"realms"`
	IdentityStore IdentityStoreConfig `koanf:"identity_store"`
	Authz         AuthzConfig         `koanf:"authz"`
	RateLimit     RateLimitConfig     `koanf:"rate_limit"`
	Security      SecurityConfig      `koanf:"security"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // development, staging, production
}

// LoggingConfig holds logging settings for zerolog.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// JWTConfig configures key material and token lifetime.
//
// Environment Variables:
//   - JWT_ALGORITHM: HS256/384/512, RS*, PS*, ES*, EdDSA (default: RS256)
//   - JWT_SECRET: HMAC secret
//   - JWT_KEY_FILE, JWT_PUBLIC_KEY_FILE: PEM files for asymmetric algorithms
//   - JWT_USE_DEFAULT_KEY: use the bundled development RSA key when no key file is set
//   - JWT_ISSUER, JWT_EXPIRATION, JWT_LEEWAY
//   - JWT_MANDATORY_CLAIMS: comma-separated claim names
type JWTConfig struct {
	Algorithm       string        `koanf:"algorithm"`
	Secret          string        `koanf:"secret"`
	KeyFile         string        `koanf:"key_file"`
	PublicKeyFile   string        `koanf:"public_key_file"`
	UseDefaultKey   bool          `koanf:"use_default_key"`
	Issuer          string        `koanf:"issuer"`
	Expiration      time.Duration `koanf:"expiration"`
	Leeway          time.Duration `koanf:"leeway"`
	MandatoryClaims []string      `koanf:"mandatory_claims"`
}

// FilterConfig configures the request filter on protected routes.
type FilterConfig struct {
	Mode          string   `koanf:"mode"` // static or dynamic
	Header        string   `koanf:"header"`
	Scheme        string   `koanf:"scheme"`
	Cookie        string   `koanf:"cookie"`
	CookieFirst   bool     `koanf:"cookie_first"`
	DisabledPaths []string `koanf:"disabled_paths"`
}

// CookieConfig controls the token cookie set by the token endpoint. An
// empty name disables the cookie.
type CookieConfig struct {
	Name     string        `koanf:"name"`
	Path     string        `koanf:"path"`
	Domain   string        `koanf:"domain"`
	MaxAge   time.Duration `koanf:"max_age"`
	Secure   bool          `koanf:"secure"`
	HTTPOnly bool          `koanf:"http_only"`
	SameSite string        `koanf:"same_site"`
}

// RealmsConfig configures the static credentials realm.
type RealmsConfig struct {
	Name     string `koanf:"name"`
	Priority int    `koanf:"priority"`
	// Users are "username:bcrypt-hash[:role1,role2]" entries.
	Users []string `koanf:"users"`
}

// IdentityStoreConfig configures the persistent identity store realm.
type IdentityStoreConfig struct {
	Backend  string `koanf:"backend"` // none, badger, redis
	Name     string `koanf:"name"`
	Priority int    `koanf:"priority"`

	BadgerPath       string        `koanf:"badger_path"`
	BadgerInMemory   bool          `koanf:"badger_in_memory"`
	BadgerGCInterval time.Duration `koanf:"badger_gc_interval"`

	RedisURL           string        `koanf:"redis_url"`
	RedisKeyPrefix     string        `koanf:"redis_key_prefix"`
	RedisRetryAttempts int           `koanf:"redis_retry_attempts"`
	RedisRetryInterval time.Duration `koanf:"redis_retry_interval"`

	BcryptCost int           `koanf:"bcrypt_cost"`
	Breaker    BreakerConfig `koanf:"breaker"`
}

// BreakerConfig configures the circuit breaker around the identity store.
type BreakerConfig struct {
	Enabled      bool          `koanf:"enabled"`
	MaxRequests  uint32        `koanf:"max_requests"`
	Interval     time.Duration `koanf:"interval"`
	Timeout      time.Duration `koanf:"timeout"`
	MinRequests  uint32        `koanf:"min_requests"`
	FailureRatio float64       `koanf:"failure_ratio"`
}

// AuthzConfig configures the Casbin claims introspector.
type AuthzConfig struct {
	Enabled        bool          `koanf:"enabled"`
	ModelPath      string        `koanf:"model_path"`
	PolicyPath     string        `koanf:"policy_path"`
	DefaultRole    string        `koanf:"default_role"`
	AutoReload     bool          `koanf:"auto_reload"`
	ReloadInterval time.Duration `koanf:"reload_interval"`
	CacheTTL       time.Duration `koanf:"cache_ttl"`
}

// RateLimitConfig holds the per-IP API limit and the per-username login
// throttle.
type RateLimitConfig struct {
	Disabled    bool          `koanf:"disabled"`
	Requests    int           `koanf:"requests"`
	Window      time.Duration `koanf:"window"`
	LoginBurst  int           `koanf:"login_burst"`
	LoginWindow time.Duration `koanf:"login_window"`
}

// SecurityConfig holds CORS and metrics endpoint protection.
type SecurityConfig struct {
	CORSOrigins []string `koanf:"cors_origins"`
	// MetricsRole, when set, puts /metrics behind HTTP Basic auth against
	// the realm chain and requires the role.
	MetricsRole string `koanf:"metrics_role"`
}

// Load reads configuration from defaults, config file and environment.
// See LoadWithKoanf.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// ListenAddr returns host:port for the HTTP server.
func (s ServerConfig) ListenAddr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}
