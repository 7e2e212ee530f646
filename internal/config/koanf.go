// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/warden/config.yaml",
	"/etc/warden/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		JWT: JWTConfig{
			Algorithm:       "RS256",
			UseDefaultKey:   true, // rejected in production by Validate
			Issuer:          "warden",
			Expiration:      time.Hour,
			Leeway:          0,
			MandatoryClaims: []string{"sub"},
		},
		Filter: FilterConfig{
			Mode:   "dynamic",
			Header: "Authorization",
			Scheme: "Bearer",
		},
		Cookie: CookieConfig{
			Name:     "", // disabled
			Path:     "/",
			MaxAge:   time.Hour,
			Secure:   true,
			HTTPOnly: true,
			SameSite: "lax",
		},
		Realms: RealmsConfig{
			Name:     "credentials",
			Priority: -1,
		},
		IdentityStore: IdentityStoreConfig{
			Backend:            "none",
			Name:               "identity-store",
			Priority:           10,
			BadgerPath:         "/data/identity",
			BadgerGCInterval:   10 * time.Minute,
			RedisURL:           "redis://127.0.0.1:6379/0",
			RedisKeyPrefix:     "warden:user:",
			RedisRetryAttempts: 3,
			RedisRetryInterval: 2 * time.Second,
			BcryptCost:         12,
			Breaker: BreakerConfig{
				Enabled:      true,
				MaxRequests:  3,
				Interval:     time.Minute,
				Timeout:      30 * time.Second,
				MinRequests:  5,
				FailureRatio: 0.6,
			},
		},
		Authz: AuthzConfig{
			Enabled:        true,
			DefaultRole:    "user",
			AutoReload:     false,
			ReloadInterval: 30 * time.Second,
			CacheTTL:       time.Minute,
		},
		RateLimit: RateLimitConfig{
			Disabled:    false,
			Requests:    100,
			Window:      time.Minute,
			LoginBurst:  5,
			LoginWindow: time.Minute,
		},
		Security: SecurityConfig{
			CORSOrigins: []string{"*"},
			MetricsRole: "",
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Environment variables, e.g. JWT_SECRET -> jwt.secret
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths maps config paths that arrive from the environment as
// delimited strings to their separator. User entries carry comma-separated
// roles, so they are separated by semicolons.
var sliceConfigPaths = map[string]string{
	"jwt.mandatory_claims":  ",",
	"filter.disabled_paths": ",",
	"realms.users":          ";",
	"security.cors_origins": ",",
}

// processSliceFields converts delimited string values to slices for known slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for path, sep := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			// Unset, or already a slice from YAML.
			continue
		}

		trimmed := splitTrimmed(strVal, sep)
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

func splitTrimmed(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_idle_timeout":     "server.idle_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"environment":           "server.environment",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// JWT
	"jwt_algorithm":        "jwt.algorithm",
	"jwt_secret":           "jwt.secret",
	"jwt_key_file":         "jwt.key_file",
	"jwt_public_key_file":  "jwt.public_key_file",
	"jwt_use_default_key":  "jwt.use_default_key",
	"jwt_issuer":           "jwt.issuer",
	"jwt_expiration":       "jwt.expiration",
	"jwt_leeway":           "jwt.leeway",
	"jwt_mandatory_claims": "jwt.mandatory_claims",

	// Filter
	"filter_mode":           "filter.mode",
	"filter_header":         "filter.header",
	"filter_scheme":         "filter.scheme",
	"filter_cookie":         "filter.cookie",
	"filter_cookie_first":   "filter.cookie_first",
	"filter_disabled_paths": "filter.disabled_paths",

	// Token cookie
	"jwt_cookie_name":      "cookie.name",
	"jwt_cookie_path":      "cookie.path",
	"jwt_cookie_domain":    "cookie.domain",
	"jwt_cookie_max_age":   "cookie.max_age",
	"jwt_cookie_secure":    "cookie.secure",
	"jwt_cookie_http_only": "cookie.http_only",
	"jwt_cookie_same_site": "cookie.same_site",

	// Credentials realm
	"realm_name":     "realms.name",
	"realm_priority": "realms.priority",
	"realm_users":    "realms.users",

	// Identity store
	"identity_store":                "identity_store.backend",
	"identity_store_name":           "identity_store.name",
	"identity_store_priority":       "identity_store.priority",
	"identity_badger_path":          "identity_store.badger_path",
	"identity_badger_in_memory":     "identity_store.badger_in_memory",
	"identity_badger_gc_interval":   "identity_store.badger_gc_interval",
	"identity_redis_url":            "identity_store.redis_url",
	"identity_redis_key_prefix":     "identity_store.redis_key_prefix",
	"identity_redis_retry_attempts": "identity_store.redis_retry_attempts",
	"identity_redis_retry_interval": "identity_store.redis_retry_interval",
	"identity_bcrypt_cost":          "identity_store.bcrypt_cost",
	"identity_breaker_enabled":      "identity_store.breaker.enabled",
	"identity_breaker_max_requests": "identity_store.breaker.max_requests",
	"identity_breaker_interval":     "identity_store.breaker.interval",
	"identity_breaker_timeout":      "identity_store.breaker.timeout",
	"identity_breaker_min_requests": "identity_store.breaker.min_requests",
	"identity_breaker_ratio":        "identity_store.breaker.failure_ratio",

	// Authorization
	"authz_enabled":          "authz.enabled",
	"casbin_model_path":      "authz.model_path",
	"casbin_policy_path":     "authz.policy_path",
	"casbin_default_role":    "authz.default_role",
	"casbin_auto_reload":     "authz.auto_reload",
	"casbin_reload_interval": "authz.reload_interval",
	"casbin_cache_ttl":       "authz.cache_ttl",

	// Rate limiting
	"disable_rate_limit":  "rate_limit.disabled",
	"rate_limit_requests": "rate_limit.requests",
	"rate_limit_window":   "rate_limit.window",
	"login_rate_burst":    "rate_limit.login_burst",
	"login_rate_window":   "rate_limit.login_window",

	// Security
	"cors_origins": "security.cors_origins",
	"metrics_role": "security.metrics_role",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - JWT_SECRET -> jwt.secret
//   - HTTP_PORT -> server.port
//   - IDENTITY_STORE -> identity_store.backend
//
// Unmapped variables return "" and are skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
