// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

/*
Package models defines the wire types shared by Warden's HTTP surfaces.

  - APIResponse: envelope for every JSON response, success or error
  - APIError: coarse machine-readable code plus message
  - TokenResponse: body of the token endpoint
  - PrincipalView: body of the identity endpoint
  - UserRequest, UserView: identity administration payloads

The filter in internal/auth and the handlers in internal/api both write
these types, so error bodies look the same whether a request was stopped
before or inside a handler.
*/
package models
