// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

package api

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/warden/internal/auth"
	"github.com/tomtom215/warden/internal/identity"
	"github.com/tomtom215/warden/internal/token"
)

// HandlerConfig holds the dependencies of Handler.
type HandlerConfig struct {
	Ref   *token.Ref
	Chain *auth.RealmChain
	// Store backs the admin user routes. Nil disables them.
	Store identity.Store
	// BcryptCost hashes passwords set through the admin routes.
	BcryptCost int
	Version    string
}

// Handler serves the API endpoints that are not part of the auth package.
type Handler struct {
	ref        *token.Ref
	chain      *auth.RealmChain
	store      identity.Store
	bcryptCost int
	version    string
	startTime  time.Time
}

// NewHandler creates a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	version := cfg.Version
	if version == "" {
		version = "dev"
	}
	return &Handler{
		ref:        cfg.Ref,
		chain:      cfg.Chain,
		store:      cfg.Store,
		bcryptCost: cost,
		version:    version,
		startTime:  time.Now(),
	}
}
