// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

package logging

import (
	"strings"

	"github.com/rs/zerolog"
)

// SecurityEvent represents a security-relevant event for audit logging.
type SecurityEvent struct {
	// Event is the type of event (login_success, token_rejected, ...).
	Event string
	// Subject is the token subject or username (if known).
	Subject string
	// Realm is the authentication realm that produced the outcome.
	Realm string
	// TokenID is the jti of the token involved (if known).
	TokenID string
	// IPAddress is the client's IP address.
	IPAddress string
	// UserAgent is the client's user agent (truncated).
	UserAgent string
	// Success indicates if the operation was successful.
	Success bool
	// Reason is the failure reason. Never shown to clients.
	Reason string
	// Details contains additional details, sanitized by key.
	Details map[string]string
}

// SecurityLogger writes sanitized authentication audit events.
type SecurityLogger struct {
	logger zerolog.Logger
}

// NewSecurityLogger creates a security logger on the global logger.
func NewSecurityLogger() *SecurityLogger {
	return &SecurityLogger{
		logger: With().Str("component", "audit").Logger(),
	}
}

// NewSecurityLoggerWithLogger creates a security logger with a custom zerolog logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewSecurityLoggerWithLogger(logger zerolog.Logger) *SecurityLogger {
	return &SecurityLogger{
		logger: logger.With().Str("component", "audit").Logger(),
	}
}

// LogEvent logs a security event with automatic sanitization.
func (l *SecurityLogger) LogEvent(event *SecurityEvent) {
	e := l.logger.Info().Str("event", event.Event)
	if !event.Success {
		e = l.logger.Warn().Str("event", event.Event)
	}

	if event.Success {
		e = e.Str("status", "success")
	} else {
		e = e.Str("status", "failed")
	}
	if event.Subject != "" {
		e = e.Str("subject", SanitizeUsername(event.Subject))
	}
	if event.Realm != "" {
		e = e.Str("realm", event.Realm)
	}
	if event.TokenID != "" {
		e = e.Str("jti", SanitizeToken(event.TokenID))
	}
	if event.IPAddress != "" {
		e = e.Str("ip", event.IPAddress)
	}
	if event.UserAgent != "" {
		e = e.Str("user_agent", truncateString(event.UserAgent, 100))
	}
	if event.Reason != "" && !event.Success {
		e = e.Str("reason", truncateString(event.Reason, 200))
	}
	for k, v := range event.Details {
		e = e.Str(k, SanitizeValue(k, v))
	}

	e.Msg("")
}

// LogLoginSuccess logs a successful realm authentication.
func (l *SecurityLogger) LogLoginSuccess(username, realm, ip, userAgent string) {
	l.LogEvent(&SecurityEvent{
		Event:     "login_success",
		Subject:   username,
		Realm:     realm,
		IPAddress: ip,
		UserAgent: userAgent,
		Success:   true,
	})
}

// LogLoginFailure logs a failed realm authentication.
func (l *SecurityLogger) LogLoginFailure(username, ip, userAgent, reason string) {
	l.LogEvent(&SecurityEvent{
		Event:     "login_failed",
		Subject:   username,
		IPAddress: ip,
		UserAgent: userAgent,
		Reason:    reason,
	})
}

// LogTokenIssued logs issuance of a token.
func (l *SecurityLogger) LogTokenIssued(subject, tokenID, ip string) {
	l.LogEvent(&SecurityEvent{
		Event:     "token_issued",
		Subject:   subject,
		TokenID:   tokenID,
		IPAddress: ip,
		Success:   true,
	})
}

// LogTokenRejected logs a request whose token failed verification.
func (l *SecurityLogger) LogTokenRejected(ip, path, reason string) {
	l.LogEvent(&SecurityEvent{
		Event:     "token_rejected",
		IPAddress: ip,
		Reason:    reason,
		Details:   map[string]string{"path": path},
	})
}

// LogAccessDenied logs an introspection rejection for a verified subject.
func (l *SecurityLogger) LogAccessDenied(subject, ip, path, reason string) {
	l.LogEvent(&SecurityEvent{
		Event:     "access_denied",
		Subject:   subject,
		IPAddress: ip,
		Reason:    reason,
		Details:   map[string]string{"path": path},
	})
}

// LogIdentityChange logs an administrative change to an identity record.
// action is "create", "update" or "delete".
func (l *SecurityLogger) LogIdentityChange(actor, username, action, ip string) {
	l.LogEvent(&SecurityEvent{
		Event:     "identity_" + action,
		Subject:   actor,
		IPAddress: ip,
		Success:   true,
		Details:   map[string]string{"username": SanitizeUsername(username)},
	})
}

// SanitizeToken masks a token, showing only the first and last 4 characters.
func SanitizeToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 12 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// SanitizeUserID masks a user ID for privacy.
func SanitizeUserID(userID string) string {
	if userID == "" {
		return ""
	}
	if len(userID) <= 8 {
		return "***"
	}
	return userID[:4] + "..." + userID[len(userID)-4:]
}

// SanitizeUsername masks a username, keeping the first 2 characters.
func SanitizeUsername(username string) string {
	if username == "" {
		return ""
	}
	if len(username) <= 2 {
		return "***"
	}
	return username[:2] + "***"
}

var sensitiveKeys = map[string]bool{
	"token":         true,
	"jwt":           true,
	"password":      true,
	"secret":        true,
	"authorization": true,
	"bearer":        true,
	"cookie":        true,
}

// SanitizeValue masks value when key names a credential.
func SanitizeValue(key, value string) string {
	if sensitiveKeys[strings.ToLower(key)] {
		return SanitizeToken(value)
	}
	return truncateString(value, 200)
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
