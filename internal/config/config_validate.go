// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

package config

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateLogging,
		c.validateJWT,
		c.validateFilter,
		c.validateCookie,
		c.validateIdentityStore,
		c.validateAuthz,
		c.validateRateLimits,
		c.validateCORS,
	}
	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

// IsProduction reports whether ENVIRONMENT is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Environment, "production")
}

// IsDevelopment reports whether ENVIRONMENT is development or unset.
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "" || env == "development"
}

var validEnvironments = map[string]bool{
	"development": true,
	"staging":     true,
	"production":  true,
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if !validEnvironments[strings.ToLower(c.Server.Environment)] {
		return fmt.Errorf("ENVIRONMENT must be one of: development, staging, production")
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT must not be negative")
	}
	return nil
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// validateJWT checks the key settings against the algorithm family. Key
// files themselves are read and checked when the token service starts.
func (c *Config) validateJWT() error {
	j := c.JWT
	alg := strings.TrimSpace(j.Algorithm)
	if alg == "" {
		return fmt.Errorf("JWT_ALGORITHM is required")
	}

	if strings.HasPrefix(alg, "HS") {
		if strings.TrimSpace(j.Secret) == "" {
			return fmt.Errorf("JWT_SECRET is required for %s", alg)
		}
		if j.KeyFile != "" {
			return fmt.Errorf("JWT_KEY_FILE cannot be used with %s", alg)
		}
		if c.IsProduction() && containsPlaceholder(j.Secret) {
			return fmt.Errorf("JWT_SECRET contains a placeholder value; set a real secret in production")
		}
	} else {
		if j.Secret != "" {
			return fmt.Errorf("JWT_SECRET cannot be used with %s; set JWT_KEY_FILE", alg)
		}
		if j.KeyFile == "" && !j.UseDefaultKey {
			return fmt.Errorf("JWT_KEY_FILE is required for %s when JWT_USE_DEFAULT_KEY=false", alg)
		}
		if j.KeyFile == "" && c.IsProduction() {
			return fmt.Errorf("JWT_KEY_FILE is required in production; the bundled default key is public")
		}
	}

	if j.Expiration <= 0 {
		return fmt.Errorf("JWT_EXPIRATION must be positive")
	}
	if j.Leeway < 0 {
		return fmt.Errorf("JWT_LEEWAY must not be negative")
	}
	for _, name := range j.MandatoryClaims {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("JWT_MANDATORY_CLAIMS must not contain blank names")
		}
	}
	return nil
}

func (c *Config) validateFilter() error {
	switch strings.ToLower(strings.TrimSpace(c.Filter.Mode)) {
	case "", "static", "dynamic":
	default:
		return fmt.Errorf("FILTER_MODE must be one of: static, dynamic")
	}
	for _, p := range c.Filter.DisabledPaths {
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("FILTER_DISABLED_PATHS entries must start with '/', got %q", p)
		}
	}
	return nil
}

var validSameSite = map[string]bool{
	"":       true,
	"lax":    true,
	"strict": true,
	"none":   true,
}

func (c *Config) validateCookie() error {
	if c.Cookie.Name == "" {
		return nil
	}
	sameSite := strings.ToLower(c.Cookie.SameSite)
	if !validSameSite[sameSite] {
		return fmt.Errorf("JWT_COOKIE_SAME_SITE must be one of: lax, strict, none")
	}
	if sameSite == "none" && !c.Cookie.Secure {
		return fmt.Errorf("JWT_COOKIE_SAME_SITE=none requires JWT_COOKIE_SECURE=true")
	}
	if c.Cookie.MaxAge < 0 {
		return fmt.Errorf("JWT_COOKIE_MAX_AGE must not be negative")
	}
	return nil
}

// bcrypt cost bounds (golang.org/x/crypto/bcrypt MinCost and MaxCost).
const (
	minBcryptCost = 4
	maxBcryptCost = 31
)

func (c *Config) validateIdentityStore() error {
	s := c.IdentityStore
	switch s.Backend {
	case "none", "":
		return nil
	case "badger":
		if s.BadgerPath == "" && !s.BadgerInMemory {
			return fmt.Errorf("IDENTITY_BADGER_PATH is required for the badger identity store")
		}
	case "redis":
		if err := validateRedisURL(s.RedisURL); err != nil {
			return fmt.Errorf("IDENTITY_REDIS_URL is invalid: %w", err)
		}
	default:
		return fmt.Errorf("IDENTITY_STORE must be one of: none, badger, redis")
	}

	if s.Name == "" {
		return fmt.Errorf("IDENTITY_STORE_NAME is required")
	}
	if s.Name == c.Realms.Name {
		return fmt.Errorf("IDENTITY_STORE_NAME must differ from REALM_NAME")
	}
	if s.BcryptCost < minBcryptCost || s.BcryptCost > maxBcryptCost {
		return fmt.Errorf("IDENTITY_BCRYPT_COST must be between %d and %d", minBcryptCost, maxBcryptCost)
	}
	if b := s.Breaker; b.Enabled {
		if b.FailureRatio <= 0 || b.FailureRatio > 1 {
			return fmt.Errorf("IDENTITY_BREAKER_RATIO must be in (0, 1]")
		}
		if b.Timeout <= 0 {
			return fmt.Errorf("IDENTITY_BREAKER_TIMEOUT must be positive")
		}
	}
	return nil
}

func (c *Config) validateAuthz() error {
	if !c.Authz.Enabled {
		return nil
	}
	if c.Authz.AutoReload && c.Authz.PolicyPath == "" {
		return fmt.Errorf("CASBIN_AUTO_RELOAD requires CASBIN_POLICY_PATH")
	}
	if c.Authz.CacheTTL < 0 {
		return fmt.Errorf("CASBIN_CACHE_TTL must not be negative")
	}
	return nil
}

// Rate limit constants
const (
	minRateLimitRequests = 1           // Minimum 1 request allowed
	maxRateLimitRequests = 100000      // Maximum 100K requests per window
	minRateLimitWindow   = time.Second // Minimum 1 second window
	maxRateLimitWindow   = time.Hour   // Maximum 1 hour window
)

func (c *Config) validateRateLimits() error {
	r := c.RateLimit
	if r.LoginBurst < 1 {
		return fmt.Errorf("LOGIN_RATE_BURST must be at least 1")
	}
	if r.LoginWindow <= 0 {
		return fmt.Errorf("LOGIN_RATE_WINDOW must be positive")
	}
	if r.Disabled {
		return nil
	}
	if r.Requests < minRateLimitRequests || r.Requests > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if r.Window < minRateLimitWindow || r.Window > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// validateCORS rejects wildcard origins in production, where tokens are
// sent by browsers.
func (c *Config) validateCORS() error {
	for _, origin := range c.Security.CORSOrigins {
		if err := validateCORSOrigin(origin); err != nil {
			return fmt.Errorf("CORS_ORIGINS is invalid: %w", err)
		}
	}
	if c.IsProduction() && c.HasWildcardCORS() {
		return fmt.Errorf("CORS_ORIGINS=* (wildcard) is not allowed in production. " +
			"Set specific origins: CORS_ORIGINS=https://app.example.com")
	}
	return nil
}

// HasWildcardCORS reports whether CORS allows any origin.
func (c *Config) HasWildcardCORS() bool {
	return slices.Contains(c.Security.CORSOrigins, "*")
}

// placeholderPatterns defines common placeholder patterns that indicate
// the user forgot to set a real value.
var placeholderPatterns = []string{
	"REPLACE",
	"CHANGEME",
	"CHANGE_ME",
	"YOUR_SECRET",
	"PLACEHOLDER",
	"EXAMPLE",
}

// containsPlaceholder checks if a value contains common placeholder patterns.
func containsPlaceholder(value string) bool {
	upperValue := strings.ToUpper(value)
	for _, pattern := range placeholderPatterns {
		if strings.Contains(upperValue, pattern) {
			return true
		}
	}
	return false
}
