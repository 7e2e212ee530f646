// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

package api

import "errors"

// ErrIdentityStoreDisabled is returned by the admin routes when no
// identity store is configured.
var ErrIdentityStoreDisabled = errors.New("identity store is not configured")
