// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

package token

import (
	"encoding/base64"
	"errors"
	"fmt"
	"maps"
	"strings"
	"sync/atomic"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/tomtom215/warden/internal/logging"
	"github.com/tomtom215/warden/internal/metrics"
)

// State is the lifecycle state of a Service.
type State int32

const (
	StateUninitialized State = iota
	StateActive
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateClosed:
		return "closed"
	default:
		return "uninitialized"
	}
}

// Config configures a Service.
type Config struct {
	KeyConfig

	// Issuer is used when the claims do not carry their own iss.
	Issuer string

	// Expiration is added to the issue time to produce exp.
	Expiration time.Duration

	// Leeway tolerates clock skew on exp, nbf and iat.
	Leeway time.Duration

	// MandatoryClaims must be present in every claims map passed to Issue or Sign.
	MandatoryClaims []string
}

// Option customizes a Service.
type Option func(*Service)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator overrides the jti generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) { s.newID = gen }
}

// WithSerializer overrides the claims serializer.
func WithSerializer(ser Serializer) Option {
	return func(s *Service) { s.codec = NewCodec(ser) }
}

// Service issues and verifies compact JWTs with a single key pair.
// After NewService returns, all fields are read-only apart from the state
// word, so Issue and Verify are safe for concurrent use without locking.
type Service struct {
	cfg       Config
	keys      *KeyMaterial
	codec     *Codec
	now       func() time.Time
	newID     func() string
	validator *jwt.Validator
	header    string
	state     atomic.Int32
}

// NewService loads key material and returns an active Service.
func NewService(cfg Config, opts ...Option) (*Service, error) {
	if cfg.Expiration <= 0 {
		return nil, fmt.Errorf("%w: expiration must be positive, got %s", ErrConfiguration, cfg.Expiration)
	}
	if cfg.Leeway < 0 {
		return nil, fmt.Errorf("%w: leeway must not be negative", ErrConfiguration)
	}

	keys, err := LoadKeyMaterial(cfg.KeyConfig)
	if err != nil {
		return nil, err
	}

	s := &Service{
		cfg:   cfg,
		keys:  keys,
		codec: NewCodec(nil),
		now:   time.Now,
		newID: uuid.NewString,
	}
	s.cfg.MandatoryClaims = append([]string(nil), cfg.MandatoryClaims...)
	for _, opt := range opts {
		opt(s)
	}

	s.validator = jwt.NewValidator(
		jwt.WithTimeFunc(s.now),
		jwt.WithLeeway(cfg.Leeway),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	)

	s.header, err = s.codec.EncodeSegment(Header{Algorithm: keys.Method.Alg(), Type: "JWT"})
	if err != nil {
		return nil, err
	}

	s.state.Store(int32(StateActive))
	logging.Info().
		Str("alg", keys.Method.Alg()).
		Str("issuer", cfg.Issuer).
		Dur("expiration", cfg.Expiration).
		Msg("Token service active")
	return s, nil
}

// State returns the current lifecycle state.
func (s *Service) State() State {
	return State(s.state.Load())
}

// Algorithm returns the configured JWS algorithm name.
func (s *Service) Algorithm() string {
	if s.keys == nil {
		return ""
	}
	return s.keys.Method.Alg()
}

// Expiration returns the configured token lifetime.
func (s *Service) Expiration() time.Duration {
	return s.cfg.Expiration
}

// Close moves the service to StateClosed. Further Issue and Verify calls
// fail with ErrServiceUnavailable. Close is idempotent.
func (s *Service) Close() error {
	if s.state.CompareAndSwap(int32(StateActive), int32(StateClosed)) {
		logging.Info().Msg("Token service closed")
	}
	return nil
}

func (s *Service) active() bool {
	return s.State() == StateActive
}

// Issue signs a token for subject. The registered claims sub, iat, exp,
// jti and iss are set by the service; jti and iss may be supplied in claims.
// The caller's map is not modified.
func (s *Service) Issue(subject string, claims map[string]any) (string, error) {
	if !s.active() {
		metrics.RecordTokenIssueFailure("closed")
		return "", ErrServiceUnavailable
	}
	if strings.TrimSpace(subject) == "" {
		metrics.RecordTokenIssueFailure("invalid_argument")
		return "", fmt.Errorf("%w: subject must not be blank", ErrInvalidArgument)
	}
	if err := AssertClaims(claims, s.cfg.MandatoryClaims); err != nil {
		metrics.RecordTokenIssueFailure("invalid_claims")
		return "", err
	}

	payload := maps.Clone(claims)
	payload[ClaimSubject] = subject
	return s.sign(payload)
}

// Sign issues a token from claims alone, checking only the mandatory claims.
// The subject, if any, is whatever sub the claims carry.
func (s *Service) Sign(claims map[string]any) (string, error) {
	if !s.active() {
		metrics.RecordTokenIssueFailure("closed")
		return "", ErrServiceUnavailable
	}
	if err := AssertClaims(claims, s.cfg.MandatoryClaims); err != nil {
		metrics.RecordTokenIssueFailure("invalid_claims")
		return "", err
	}
	return s.sign(maps.Clone(claims))
}

func (s *Service) sign(payload map[string]any) (string, error) {
	now := s.now()
	payload[ClaimIssuedAt] = now.Unix()
	payload[ClaimExpiration] = now.Add(s.cfg.Expiration).Unix()

	if _, ok := payload[ClaimID]; !ok {
		payload[ClaimID] = s.newID()
	}
	if _, ok := payload[ClaimIssuer]; !ok && s.cfg.Issuer != "" {
		payload[ClaimIssuer] = s.cfg.Issuer
	}
	for _, name := range []string{ClaimID, ClaimIssuer} {
		if v, ok := payload[name]; ok {
			if _, isString := v.(string); !isString {
				metrics.RecordTokenIssueFailure("invalid_claims")
				return "", fmt.Errorf("%w: claim %q must be a string, got %T", ErrInvalidClaims, name, v)
			}
		}
	}

	body, err := s.codec.EncodeSegment(payload)
	if err != nil {
		metrics.RecordTokenIssueFailure("codec")
		return "", err
	}

	signingInput := s.header + "." + body
	sig, err := s.keys.Method.Sign(signingInput, s.keys.SigningKey)
	if err != nil {
		metrics.RecordTokenIssueFailure("signing")
		return "", fmt.Errorf("%w: %w", ErrSigning, err)
	}

	metrics.RecordTokenIssued(s.keys.Method.Alg())
	return signingInput + "." + base64.RawURLEncoding.EncodeToString(sig), nil
}

// rejection carries the server-side reason for a failed verification.
type rejection struct {
	outcome string
	cause   error
}

func (r *rejection) Error() string { return r.outcome + ": " + r.cause.Error() }

// Verify checks the signature and time claims of token.
//
// A token that is well formed, correctly signed and only past its exp is
// returned with Expired() == true and a nil error. Every other failure
// returns nil claims and ErrTokenRejected; the reason is logged and counted
// but not exposed. ErrTokenCodec is returned when a correctly signed
// payload cannot be decoded.
func (s *Service) Verify(token string) (*Claims, error) {
	start := time.Now()
	if !s.active() {
		metrics.RecordTokenVerification("closed", time.Since(start))
		return nil, ErrServiceUnavailable
	}
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("%w: token must not be blank", ErrInvalidArgument)
	}

	claims, err := s.verify(token)
	if err != nil {
		var rej *rejection
		if errors.As(err, &rej) {
			metrics.RecordTokenVerification(rej.outcome, time.Since(start))
			logging.Debug().Str("outcome", rej.outcome).Err(rej.cause).Msg("Token rejected")
			return nil, ErrTokenRejected
		}
		metrics.RecordTokenVerification("codec", time.Since(start))
		logging.Warn().Err(err).Msg("Signed token payload could not be decoded")
		return nil, err
	}

	if claims.Expired() {
		metrics.RecordTokenVerification("expired", time.Since(start))
		logging.Debug().Str("jti", claims.ID()).Msg("Token expired")
	} else {
		metrics.RecordTokenVerification("valid", time.Since(start))
	}
	return claims, nil
}

func (s *Service) verify(token string) (*Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, &rejection{"malformed", fmt.Errorf("token has %d segments, want 3", len(parts))}
	}

	header, err := s.codec.DecodeHeader(parts[0])
	if err != nil {
		return nil, &rejection{"malformed", err}
	}
	if header.Algorithm != s.keys.Method.Alg() {
		return nil, &rejection{"algorithm", fmt.Errorf("header alg %q, want %q", header.Algorithm, s.keys.Method.Alg())}
	}

	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		return nil, &rejection{"malformed", fmt.Errorf("signature segment: %w", err)}
	}
	if err := s.keys.Method.Verify(parts[0]+"."+parts[1], sig, s.keys.VerificationKey); err != nil {
		return nil, &rejection{"signature", err}
	}

	values, err := s.codec.DecodeClaims(parts[1])
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(jwt.MapClaims(values)); err != nil {
		if onlyExpired(err) {
			return NewClaims(values, true), nil
		}
		return nil, &rejection{"claims", err}
	}
	return NewClaims(values, false), nil
}

// onlyExpired reports whether every error joined into err is ErrTokenExpired.
func onlyExpired(err error) bool {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs := joined.Unwrap()
		if len(errs) == 0 {
			return false
		}
		for _, e := range errs {
			if !onlyExpired(e) {
				return false
			}
		}
		return true
	}
	return errors.Is(err, jwt.ErrTokenExpired)
}
