// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

/*
Package supervisor provides process supervision for Warden using suture v4.

Every long-running component runs as a suture.Service in a three layer
tree, so a crashed component is restarted with backoff and a failure in
one layer does not stop the others:

	RootSupervisor ("warden")
	├── StoreSupervisor ("store-layer")
	│   └── StoreGCService (Badger identity store only)
	├── AuthSupervisor ("auth-layer")
	│   ├── TokenBindingService
	│   └── LoginLimiter cleanup
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Supervisor events (start, stop, failure, backoff) are logged through
sutureslog with a slog logger bridged to zerolog by
logging.NewSlogLogger.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddAuthService(services.NewTokenBindingService(ref, svc))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err = tree.Serve(ctx)

The service implementations live in the services subpackage.
*/
package supervisor
