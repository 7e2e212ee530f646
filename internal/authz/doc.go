// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

// Package authz authorizes token holders with Casbin.
//
// The Introspector plugs into auth.Filter as a claims introspector: the
// token subject and its roles claim are checked against a path/method
// policy, and a denial surfaces as HTTP 403.
//
// # RBAC Model
//
//	[request_definition]
//	r = sub, obj, act
//
//	[policy_definition]
//	p = sub, obj, act
//
//	[role_definition]
//	g = _, _
//
//	[policy_effect]
//	e = some(where (p.eft == allow))
//
//	[matchers]
//	m = g(r.sub, p.sub) && keyMatch2(r.obj, p.obj) && (r.act == p.act || p.act == "*")
//
// Actions are derived from the HTTP method: GET/HEAD/OPTIONS read,
// POST/PUT/PATCH write, DELETE delete.
//
// # Policy Definition
//
// The embedded policy grants admin everything under /api/v1 and lets user
// read /api/v1/me; admin inherits user:
//
//	p, admin, /api/v1/*, *
//	p, user, /api/v1/me, read
//	g, admin, user
//
// The token subject is checked as "user:<sub>" so usernames never collide
// with role names. Grant a single user access with a rule such as
//
//	p, user:alice, /api/v1/reports, read
//
// Set ModelPath and PolicyPath to use files instead; with AutoReload the
// policy file is re-read every ReloadInterval.
//
// # Caching
//
// Decisions are cached per (subject, object, action) for CacheTTL. Any
// policy change clears the cache.
package authz
