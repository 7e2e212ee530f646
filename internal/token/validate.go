// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

package token

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// AssertClaims checks claims before they are signed. The map must be
// non-empty, string values must be non-blank, other values must be non-nil,
// and every name in mandatory must be present.
func AssertClaims(claims map[string]any, mandatory []string) error {
	if len(claims) == 0 {
		return fmt.Errorf("%w: claims must not be empty", ErrInvalidClaims)
	}

	names := make([]string, 0, len(claims))
	for name := range claims {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: claim name must not be blank", ErrInvalidClaims)
		}
		switch v := claims[name].(type) {
		case string:
			if strings.TrimSpace(v) == "" {
				return fmt.Errorf("%w: claim %q must not be blank", ErrInvalidClaims, name)
			}
		default:
			if isNil(v) {
				return fmt.Errorf("%w: claim %q must not be null", ErrInvalidClaims, name)
			}
		}
	}

	for _, name := range mandatory {
		if _, ok := claims[name]; !ok {
			return fmt.Errorf("%w: mandatory claim %q is missing", ErrInvalidClaims, name)
		}
	}
	return nil
}

// isNil also catches typed nils such as a nil []string stored in an any.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
