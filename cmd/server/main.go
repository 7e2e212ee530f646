// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/tomtom215/warden/internal/config"
	"github.com/tomtom215/warden/internal/logging"
	"github.com/tomtom215/warden/internal/supervisor"
	"github.com/tomtom215/warden/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Service:   "warden",
	})

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("algorithm", cfg.JWT.Algorithm).
		Str("identity_store", cfg.IdentityStore.Backend).
		Bool("authz", cfg.Authz.Enabled).
		Msg("Starting Warden")

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Warden stopped with an error")
	}
	logging.Info().Msg("Warden stopped gracefully")
}

// run wires the components, starts the supervisor tree and blocks until
// SIGINT or SIGTERM.
func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := buildComponents(ctx, cfg, version)
	if err != nil {
		return err
	}
	defer c.Close()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return err
	}

	if c.badger != nil && !cfg.IdentityStore.BadgerInMemory {
		tree.AddStoreService(services.NewStoreGCService(c.badger, cfg.IdentityStore.BadgerGCInterval))
	}
	tree.AddAuthService(services.NewTokenBindingService(c.ref, c.tokenService))
	tree.AddAuthService(c.limiter)

	server := &http.Server{
		Addr:              cfg.Server.ListenAddr(),
		Handler:           c.handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	errCh := tree.ServeBackground(ctx)
	<-ctx.Done()
	logging.Info().Msg("Shutdown signal received, stopping services")

	var serveErr error
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			serveErr = err
		}
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}
	return serveErr
}
