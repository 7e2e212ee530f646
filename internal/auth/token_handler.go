// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

package auth

import (
	"errors"
	"maps"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/warden/internal/logging"
	"github.com/tomtom215/warden/internal/metrics"
	"github.com/tomtom215/warden/internal/models"
	"github.com/tomtom215/warden/internal/token"
	"github.com/tomtom215/warden/internal/validation"
)

// maxLoginBody bounds the login form.
const maxLoginBody = 16 << 10

// CookieConfig describes the optional token cookie. An empty Name disables
// the cookie.
type CookieConfig struct {
	Name     string
	Path     string
	Domain   string
	MaxAge   time.Duration
	Secure   bool
	HTTPOnly bool
	// SameSite is "lax", "strict", "none" or empty for the browser default.
	SameSite string
}

// Enabled reports whether a cookie should be set.
func (c CookieConfig) Enabled() bool { return c.Name != "" }

func (c CookieConfig) sameSite() http.SameSite {
	switch strings.ToLower(c.SameSite) {
	case "lax":
		return http.SameSiteLaxMode
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteDefaultMode
	}
}

// cookie builds the token cookie. MaxAge defaults to the token lifetime.
func (c CookieConfig) cookie(value string, lifetime time.Duration) *http.Cookie {
	maxAge := c.MaxAge
	if maxAge <= 0 {
		maxAge = lifetime
	}
	path := c.Path
	if path == "" {
		path = "/"
	}
	return &http.Cookie{
		Name:     c.Name,
		Value:    value,
		Path:     path,
		Domain:   c.Domain,
		MaxAge:   int(maxAge.Seconds()),
		Secure:   c.Secure,
		HttpOnly: c.HTTPOnly,
		SameSite: c.sameSite(),
	}
}

type loginForm struct {
	Username string `validate:"required,username"`
	Password string `validate:"required,max=1024"`
}

// TokenHandler authenticates a username/password form through a realm
// chain and responds with a signed token.
type TokenHandler struct {
	chain   *RealmChain
	ref     *token.Ref
	cookie  CookieConfig
	limiter *LoginLimiter
	audit   *logging.SecurityLogger
}

// NewTokenHandler returns the token endpoint. limiter may be nil to
// disable throttling.
func NewTokenHandler(chain *RealmChain, ref *token.Ref, cookie CookieConfig, limiter *LoginLimiter) *TokenHandler {
	return &TokenHandler{
		chain:   chain,
		ref:     ref,
		cookie:  cookie,
		limiter: limiter,
		audit:   logging.NewSecurityLogger(),
	}
}

// ServeHTTP implements http.Handler.
func (h *TokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, models.CodeBadRequest, "Method not allowed")
		return
	}

	svc, ok := h.ref.Get()
	if !ok {
		metrics.RecordLoginAttempt("unavailable")
		writeError(w, r, http.StatusServiceUnavailable, models.CodeServiceUnavailable, "Token service unavailable")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxLoginBody)
	if err := r.ParseForm(); err != nil {
		metrics.RecordLoginAttempt("invalid")
		writeError(w, r, http.StatusBadRequest, models.CodeBadRequest, "Invalid form body")
		return
	}
	form := loginForm{Username: r.PostForm.Get("username"), Password: r.PostForm.Get("password")}
	if verr := validation.ValidateStruct(&form); verr != nil {
		metrics.RecordLoginAttempt("invalid")
		apiErr := verr.ToAPIError()
		writeError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message)
		return
	}

	ip := clientIP(r)
	if h.limiter != nil {
		if wait := h.limiter.Reserve(form.Username); wait > 0 {
			metrics.RecordLoginAttempt("throttled")
			h.audit.LogLoginFailure(form.Username, ip, r.UserAgent(), "throttled")
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			writeError(w, r, http.StatusTooManyRequests, models.CodeTooManyRequests, "Too many login attempts")
			return
		}
	}

	cred := NewPasswordCredential(form.Username, form.Password)
	outcome, realm, err := h.chain.Authenticate(r.Context(), cred)
	cred.Clear()
	if err != nil {
		metrics.RecordLoginAttempt("failure")
		h.audit.LogLoginFailure(form.Username, ip, r.UserAgent(), err.Error())
		writeError(w, r, http.StatusUnauthorized, models.CodeUnauthorized, "Invalid credentials")
		return
	}

	claims := claimsFromOutcome(outcome)
	claims[token.ClaimSubject] = form.Username
	jti := uuid.NewString()
	claims[token.ClaimID] = jti

	signed, err := svc.Issue(form.Username, claims)
	if err != nil {
		metrics.RecordLoginAttempt("error")
		if errors.Is(err, token.ErrServiceUnavailable) {
			writeError(w, r, http.StatusServiceUnavailable, models.CodeServiceUnavailable, "Token service unavailable")
			return
		}
		logging.Ctx(r.Context()).Error().Err(err).Str("realm", realm).Msg("Token issue failed")
		writeError(w, r, http.StatusInternalServerError, models.CodeInternal, "Token could not be issued")
		return
	}

	metrics.RecordLoginAttempt("success")
	h.audit.LogLoginSuccess(form.Username, realm, ip, r.UserAgent())
	h.audit.LogTokenIssued(form.Username, jti, ip)

	w.Header().Set("Authorization", "Bearer "+signed)
	if h.cookie.Enabled() {
		http.SetCookie(w, h.cookie.cookie(signed, svc.Expiration()))
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(models.TokenResponse{
		Token:     signed,
		TokenType: "Bearer",
		ExpiresIn: int64(svc.Expiration().Seconds()),
	}, logging.RequestIDFromContext(r.Context())))
}

// claimsFromOutcome copies outcome into a claims map, normalizing a roles
// list to the comma-joined form.
func claimsFromOutcome(outcome Outcome) map[string]any {
	claims := maps.Clone(map[string]any(outcome))
	if claims == nil {
		claims = map[string]any{}
	}
	switch roles := claims[token.ClaimRoles].(type) {
	case []string:
		delete(claims, token.ClaimRoles)
		token.SetRoles(claims, roles)
	case []any:
		delete(claims, token.ClaimRoles)
		list := make([]string, 0, len(roles))
		for _, r := range roles {
			if s, ok := r.(string); ok {
				list = append(list, s)
			}
		}
		token.SetRoles(claims, list)
	}
	return claims
}
