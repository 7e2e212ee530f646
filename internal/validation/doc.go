// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is built once and shared. Besides the built-in
// tags it registers two Warden tags:
//
//   - username: non-blank, at most 128 bytes, no control characters
//   - role: lowercase letters, digits, '-', '_' and ':' only
//
// Failures are returned as *RequestValidationError, which converts to the
// API error envelope with ToAPIError:
//
//	type loginForm struct {
//	    Username string `validate:"required,username"`
//	    Password string `validate:"required,max=1024"`
//	}
//
//	if verr := validation.ValidateStruct(&form); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
//
// Single-field failures carry {"field", "tag", "value"} details; multi-field
// failures carry a "fields" list. Values of fields whose name contains
// "password" or "secret" are never copied into details.
package validation
