// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

package token

import "errors"

// Sentinel errors. Every error returned by this package wraps exactly one of
// them; test with errors.Is.
var (
	// ErrConfiguration indicates an invalid combination of key settings.
	// Fatal at startup.
	ErrConfiguration = errors.New("token: invalid configuration")

	// ErrKeyInitialization indicates key material could not be loaded or
	// parsed. Fatal at startup.
	ErrKeyInitialization = errors.New("token: key initialization failed")

	// ErrInvalidArgument indicates a blank subject or token.
	ErrInvalidArgument = errors.New("token: invalid argument")

	// ErrInvalidClaims indicates the claims failed pre-issuance validation.
	ErrInvalidClaims = errors.New("token: invalid claims")

	// ErrTokenCodec indicates claims could not be serialized or deserialized.
	ErrTokenCodec = errors.New("token: codec failure")

	// ErrSigning indicates the signing method could not sign with the
	// loaded key.
	ErrSigning = errors.New("token: signing failed")

	// ErrTokenRejected is the only detail a caller gets for a malformed,
	// forged, wrongly-signed or not-yet-valid token.
	ErrTokenRejected = errors.New("token: rejected")

	// ErrServiceUnavailable indicates the service is not active.
	ErrServiceUnavailable = errors.New("token: service unavailable")
)
