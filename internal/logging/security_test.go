// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestSanitizers(t *testing.T) {
	tests := []struct {
		name string
		fn   func(string) string
		in   string
		want string
	}{
		{"token empty", SanitizeToken, "", ""},
		{"token short", SanitizeToken, "abc", "***"},
		{"token long", SanitizeToken, "eyJhbGciOiJIUzI1NiJ9.payload.sig", "eyJh....sig"},
		{"username", SanitizeUsername, "alice", "al***"},
		{"username short", SanitizeUsername, "al", "***"},
		{"user id", SanitizeUserID, "user-12345678", "user...5678"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.in); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSanitizeValue(t *testing.T) {
	if got := SanitizeValue("Password", "hunter2-hunter2"); got == "hunter2-hunter2" {
		t.Error("SanitizeValue() leaked a password")
	}
	if got := SanitizeValue("path", "/api/v1/me"); got != "/api/v1/me" {
		t.Errorf("SanitizeValue(path) = %q, want unchanged", got)
	}
}

func TestSecurityLogger_NeverLogsSecrets(t *testing.T) {
	var buf bytes.Buffer
	sl := NewSecurityLoggerWithLogger(NewTestLogger(&buf))

	sl.LogEvent(&SecurityEvent{
		Event:   "login_failed",
		Subject: "alice",
		Reason:  "bad credentials",
		Details: map[string]string{"token": "eyJhbGciOiJIUzI1NiJ9.secret-payload.sig"},
	})

	out := buf.String()
	if strings.Contains(out, "secret-payload") {
		t.Errorf("audit log leaked token payload: %s", out)
	}
	if strings.Contains(out, "alice") {
		t.Errorf("audit log leaked full username: %s", out)
	}
	if !strings.Contains(out, `"status":"failed"`) {
		t.Errorf("expected failed status in %s", out)
	}
	if !strings.Contains(out, `"component":"audit"`) {
		t.Errorf("expected audit component in %s", out)
	}
}

func TestSecurityLogger_Helpers(t *testing.T) {
	var buf bytes.Buffer
	sl := NewSecurityLoggerWithLogger(NewTestLogger(&buf))

	sl.LogLoginSuccess("bob", "credentials", "10.0.0.1", "curl/8")
	sl.LogTokenIssued("bob", "0f8fad5b-d9cb-469f-a165-70867728950e", "10.0.0.1")
	sl.LogTokenRejected("10.0.0.2", "/api/v1/me", "signature")
	sl.LogAccessDenied("bob", "10.0.0.1", "/api/v1/admin", "policy")
	sl.LogIdentityChange("admin", "carol", "delete", "10.0.0.1")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want 5", len(lines))
	}
	for i, want := range []string{"login_success", "token_issued", "token_rejected", "access_denied", "identity_delete"} {
		if !strings.Contains(lines[i], `"event":"`+want+`"`) {
			t.Errorf("line %d = %s, want event %s", i, lines[i], want)
		}
	}
	if strings.Contains(lines[4], "carol") {
		t.Errorf("identity change leaked full username: %s", lines[4])
	}
}
