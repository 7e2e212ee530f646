// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

/*
Package auth authenticates credentials and guards routes with tokens.

Login side:

  - Credential: what a request presented (form, bearer or basic), cleared
    after use
  - Realm, RealmChain: priority-ordered authenticators; the first realm
    returning an Outcome wins, failing realms are skipped
  - CredentialsRealm, StoreRealm, BreakerRealm: configured users, an
    identity.Store, and a circuit breaker around either
  - TokenHandler: POST endpoint that runs the chain and issues a token
    through a token.Ref

Request side:

  - Filter: middleware that verifies the bearer token, attaches a
    SecurityContext and runs a ClaimsIntrospector
  - SecurityContextFrom: read the principal and claims in handlers

Status codes from the filter:

	503  no active token service bound
	400  static mode, no token
	401  dynamic mode, no token; any verification failure; expired token
	403  introspector error with StatusCode() == 403

Rejection reasons go to the audit log and metrics, never to the client.
*/
package auth
