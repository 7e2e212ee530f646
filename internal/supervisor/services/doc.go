// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

// Package services adapts Warden components to suture.Service.
//
//   - HTTPServerService: ListenAndServe with graceful Shutdown
//   - StoreGCService: periodic Badger value log GC
//   - TokenBindingService: binds a token service into a token.Ref while running
//
// Components that already implement Serve(ctx) error, such as
// auth.LoginLimiter, are added to the tree directly.
package services
