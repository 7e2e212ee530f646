// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

package models

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse(CodeUnauthorized, "Unauthorized", "req-1")
	if resp.Status != StatusError {
		t.Errorf("Status = %q, want %q", resp.Status, StatusError)
	}
	if resp.Error == nil || resp.Error.Code != CodeUnauthorized {
		t.Fatalf("Error = %+v", resp.Error)
	}
	if resp.Metadata.Timestamp.IsZero() {
		t.Error("Timestamp not set")
	}

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	for _, want := range []string{`"status":"error"`, `"code":"UNAUTHORIZED"`, `"request_id":"req-1"`, `"data":null`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("JSON %s missing %s", data, want)
		}
	}
}

func TestNewSuccessResponse(t *testing.T) {
	resp := NewSuccessResponse(TokenResponse{Token: "a.b.c", TokenType: "Bearer", ExpiresIn: 60}, "")
	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	s := string(data)
	if strings.Contains(s, `"error"`) {
		t.Errorf("success JSON carries an error field: %s", s)
	}
	if strings.Contains(s, "request_id") {
		t.Errorf("empty request_id not omitted: %s", s)
	}
	if !strings.Contains(s, `"expires_in":60`) {
		t.Errorf("JSON %s missing expires_in", s)
	}
}
