// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

// Package token issues and verifies compact JWTs.
//
// The package is built from four pieces:
//
//   - LoadKeyMaterial resolves the configured algorithm into a signing and a
//     verification key: an HMAC secret, or a PEM private key (RSA, RSA-PSS,
//     ECDSA, Ed25519) with an optional bundled RSA default.
//   - AssertClaims checks a claims map before it is signed.
//   - Codec moves headers and claims in and out of base64url segments
//     through a pluggable Serializer (goccy/go-json by default).
//   - Service ties them together. It is the only entry point for Issue and
//     Verify.
//
// # Verification Results
//
// Verify distinguishes three results:
//
//	claims, err := svc.Verify(raw)
//	switch {
//	case err != nil:          // ErrTokenRejected, ErrInvalidArgument, ...
//	case claims.Expired():    // signature fine, exp passed: treat as unauthenticated
//	default:                  // trusted
//	}
//
// Rejection reasons (bad signature, wrong algorithm, malformed input,
// nbf/iat violations) are recorded in logs and the
// warden_token_verifications_total metric only.
//
// Signing and time-claim validation are delegated to golang-jwt/jwt/v5.
package token
