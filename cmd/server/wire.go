// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tomtom215/warden/internal/api"
	"github.com/tomtom215/warden/internal/auth"
	"github.com/tomtom215/warden/internal/authz"
	"github.com/tomtom215/warden/internal/config"
	"github.com/tomtom215/warden/internal/identity"
	"github.com/tomtom215/warden/internal/logging"
	"github.com/tomtom215/warden/internal/token"
)

// adminRole guards the admin routes when no policy is loaded.
const adminRole = "admin"

// components holds everything built from configuration.
type components struct {
	tokenService *token.Service
	ref          *token.Ref
	store        identity.Store
	badger       *identity.BadgerStore
	chain        *auth.RealmChain
	enforcer     *authz.Enforcer
	limiter      *auth.LoginLimiter
	handler      http.Handler
}

// Close releases the token service, enforcer and identity store.
func (c *components) Close() {
	if c.tokenService != nil {
		if err := c.tokenService.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing token service")
		}
	}
	if c.enforcer != nil {
		c.enforcer.Close()
	}
	if c.store != nil {
		if err := c.store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing identity store")
		}
	}
}

// buildComponents wires the token service, realms, filter and router from
// cfg. The token service is not bound to the returned ref; the supervisor
// binds it once the tree is running. On error everything built so far is
// closed.
func buildComponents(ctx context.Context, cfg *config.Config, version string) (c *components, err error) {
	c = &components{ref: token.NewRef(nil)}
	defer func() {
		if err != nil {
			c.Close()
			c = nil
		}
	}()

	if c.tokenService, err = newTokenService(cfg.JWT); err != nil {
		return c, err
	}
	if c.store, c.badger, err = openIdentityStore(ctx, cfg.IdentityStore); err != nil {
		return c, err
	}
	if c.chain, err = newRealmChain(cfg, c.store); err != nil {
		return c, err
	}

	filterOpts := []auth.FilterOption{}
	var adminGuard func(http.Handler) http.Handler
	if cfg.Authz.Enabled {
		if c.enforcer, err = authz.NewEnforcer(enforcerConfig(cfg.Authz)); err != nil {
			return c, fmt.Errorf("authorization: %w", err)
		}
		filterOpts = append(filterOpts, auth.WithIntrospector(auth.NewIntrospectorRef(authz.NewIntrospector(c.enforcer))))
	} else {
		adminGuard = auth.RequireRole(adminRole)
		logging.Warn().Msg("Authorization policy disabled; admin routes require the admin role")
	}

	mode, err := auth.ParseFilterMode(cfg.Filter.Mode)
	if err != nil {
		return c, err
	}
	filter := auth.NewFilter(mode, c.ref, filterConfig(cfg.Filter), filterOpts...)

	c.limiter = auth.NewLoginLimiter(cfg.RateLimit.LoginBurst, cfg.RateLimit.LoginWindow)

	var metricsGuard func(http.Handler) http.Handler
	if cfg.Security.MetricsRole != "" {
		metricsGuard = auth.RequireBasic(c.chain, cfg.Security.MetricsRole)
	}

	handler := api.NewHandler(api.HandlerConfig{
		Ref:        c.ref,
		Chain:      c.chain,
		Store:      c.store,
		BcryptCost: cfg.IdentityStore.BcryptCost,
		Version:    version,
	})
	router := api.NewRouter(handler, api.RouterConfig{
		Filter:       filter,
		TokenHandler: auth.NewTokenHandler(c.chain, c.ref, cookieConfig(cfg.Cookie), c.limiter),
		Middleware:   api.NewChiMiddleware(chiMiddlewareConfig(cfg)),
		MetricsGuard: metricsGuard,
		AdminGuard:   adminGuard,
	})
	c.handler = router.SetupChi()
	return c, nil
}

func newTokenService(cfg config.JWTConfig) (*token.Service, error) {
	svc, err := token.NewService(token.Config{
		KeyConfig: token.KeyConfig{
			Algorithm:     cfg.Algorithm,
			HMACSecret:    cfg.Secret,
			KeyFile:       cfg.KeyFile,
			PublicKeyFile: cfg.PublicKeyFile,
			UseDefaultKey: cfg.UseDefaultKey,
		},
		Issuer:          cfg.Issuer,
		Expiration:      cfg.Expiration,
		Leeway:          cfg.Leeway,
		MandatoryClaims: cfg.MandatoryClaims,
	})
	if err != nil {
		return nil, fmt.Errorf("token service: %w", err)
	}
	return svc, nil
}

// openIdentityStore returns nil for the "none" backend. The Badger store is
// also returned on its own so its GC loop can be supervised.
func openIdentityStore(ctx context.Context, cfg config.IdentityStoreConfig) (identity.Store, *identity.BadgerStore, error) {
	switch cfg.Backend {
	case "", "none":
		return nil, nil, nil
	case "badger":
		s, err := identity.OpenBadger(identity.BadgerOptions{Path: cfg.BadgerPath, InMemory: cfg.BadgerInMemory})
		if err != nil {
			return nil, nil, fmt.Errorf("identity store: %w", err)
		}
		return s, s, nil
	case "redis":
		s, err := identity.ConnectRedis(ctx, identity.RedisOptions{
			URL:           cfg.RedisURL,
			KeyPrefix:     cfg.RedisKeyPrefix,
			RetryAttempts: cfg.RedisRetryAttempts,
			RetryInterval: cfg.RedisRetryInterval,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("identity store: %w", err)
		}
		return s, nil, nil
	default:
		return nil, nil, fmt.Errorf("identity store: unknown backend %q", cfg.Backend)
	}
}

// newRealmChain registers the configured-users realm and, with a store,
// the store realm (behind a circuit breaker when enabled). An empty chain
// is allowed; the token endpoint then rejects every login.
func newRealmChain(cfg *config.Config, store identity.Store) (*auth.RealmChain, error) {
	chain, err := auth.NewRealmChain()
	if err != nil {
		return nil, err
	}

	if len(cfg.Realms.Users) > 0 {
		users := make([]auth.UserEntry, 0, len(cfg.Realms.Users))
		for i, entry := range cfg.Realms.Users {
			u, err := auth.ParseUserEntry(entry)
			if err != nil {
				return nil, fmt.Errorf("realm user %d: %w", i, err)
			}
			users = append(users, u)
		}
		realm, err := auth.NewCredentialsRealm(cfg.Realms.Name, cfg.Realms.Priority, users...)
		if err != nil {
			return nil, fmt.Errorf("credentials realm: %w", err)
		}
		if err := chain.Register(realm); err != nil {
			return nil, err
		}
	}

	if store != nil {
		var realm auth.Realm = auth.NewStoreRealm(cfg.IdentityStore.Name, cfg.IdentityStore.Priority, store)
		if b := cfg.IdentityStore.Breaker; b.Enabled {
			realm = auth.NewBreakerRealm(realm, auth.BreakerSettings{
				MaxRequests:  b.MaxRequests,
				Interval:     b.Interval,
				Timeout:      b.Timeout,
				MinRequests:  b.MinRequests,
				FailureRatio: b.FailureRatio,
			})
		}
		if err := chain.Register(realm); err != nil {
			return nil, err
		}
	}

	if chain.Len() == 0 {
		logging.Warn().Msg("No realms configured; every login will be rejected")
	}
	return chain, nil
}

func enforcerConfig(cfg config.AuthzConfig) authz.EnforcerConfig {
	return authz.EnforcerConfig{
		ModelPath:      cfg.ModelPath,
		PolicyPath:     cfg.PolicyPath,
		AutoReload:     cfg.AutoReload,
		ReloadInterval: cfg.ReloadInterval,
		DefaultRole:    cfg.DefaultRole,
		CacheTTL:       cfg.CacheTTL,
	}
}

func filterConfig(cfg config.FilterConfig) auth.FilterConfig {
	return auth.FilterConfig{
		HeaderName:    cfg.Header,
		Scheme:        cfg.Scheme,
		CookieName:    cfg.Cookie,
		CookieFirst:   cfg.CookieFirst,
		DisabledPaths: cfg.DisabledPaths,
	}
}

func cookieConfig(cfg config.CookieConfig) auth.CookieConfig {
	return auth.CookieConfig{
		Name:     cfg.Name,
		Path:     cfg.Path,
		Domain:   cfg.Domain,
		MaxAge:   cfg.MaxAge,
		Secure:   cfg.Secure,
		HTTPOnly: cfg.HTTPOnly,
		SameSite: cfg.SameSite,
	}
}

func chiMiddlewareConfig(cfg *config.Config) *api.ChiMiddlewareConfig {
	mw := api.DefaultChiMiddlewareConfig()
	mw.CORSAllowedOrigins = cfg.Security.CORSOrigins
	// Credentials are never allowed with a wildcard origin.
	mw.CORSAllowCredentials = cfg.Cookie.Name != "" && !cfg.HasWildcardCORS()
	mw.RateLimitDisabled = cfg.RateLimit.Disabled
	mw.RateLimitRequests = cfg.RateLimit.Requests
	mw.RateLimitWindow = cfg.RateLimit.Window
	return mw
}
