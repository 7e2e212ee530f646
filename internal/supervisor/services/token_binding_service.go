// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

package services

import (
	"context"

	"github.com/tomtom215/warden/internal/token"
)

// TokenBindingService publishes a token service through a Ref for as long
// as it runs. Stopping it unbinds the service, so filters and the token
// endpoint report 503 instead of using a service that is going away.
type TokenBindingService struct {
	ref  *token.Ref
	svc  *token.Service
	name string
}

// NewTokenBindingService binds svc into ref while running.
func NewTokenBindingService(ref *token.Ref, svc *token.Service) *TokenBindingService {
	return &TokenBindingService{ref: ref, svc: svc, name: "token-service"}
}

// Serve implements suture.Service.
func (b *TokenBindingService) Serve(ctx context.Context) error {
	b.ref.Bind(b.svc)
	<-ctx.Done()
	b.ref.Unbind(b.svc)
	return ctx.Err()
}

// String implements fmt.Stringer.
func (b *TokenBindingService) String() string {
	return b.name
}
