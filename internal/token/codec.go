// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

package token

import (
	"encoding/base64"
	"fmt"

	"github.com/goccy/go-json"
)

// Serializer turns claim maps and headers into bytes and back.
type Serializer interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// JSONSerializer is the default Serializer, backed by goccy/go-json.
type JSONSerializer struct{}

// Marshal implements Serializer.
func (JSONSerializer) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal implements Serializer.
func (JSONSerializer) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// Header is the JOSE header of a compact token.
type Header struct {
	Algorithm string `json:"alg"`
	Type      string `json:"typ,omitempty"`
	KeyID     string `json:"kid,omitempty"`
}

// Codec converts between values and base64url token segments.
type Codec struct {
	serializer Serializer
}

// NewCodec returns a Codec over s. A nil s selects JSONSerializer.
func NewCodec(s Serializer) *Codec {
	if s == nil {
		s = JSONSerializer{}
	}
	return &Codec{serializer: s}
}

// EncodeSegment serializes v and returns it as an unpadded base64url string.
func (c *Codec) EncodeSegment(v any) (string, error) {
	data, err := c.serializer.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("%w: encode: %w", ErrTokenCodec, err)
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

// DecodeClaims reverses EncodeSegment for a claims object.
func (c *Codec) DecodeClaims(segment string) (map[string]any, error) {
	data, err := base64.RawURLEncoding.DecodeString(segment)
	if err != nil {
		return nil, fmt.Errorf("%w: claims segment: %w", ErrTokenCodec, err)
	}

	var claims map[string]any
	if err := c.serializer.Unmarshal(data, &claims); err != nil {
		return nil, fmt.Errorf("%w: claims payload: %w", ErrTokenCodec, err)
	}
	if claims == nil {
		return nil, fmt.Errorf("%w: claims payload is not an object", ErrTokenCodec)
	}
	return claims, nil
}

// DecodeHeader reverses EncodeSegment for a header.
func (c *Codec) DecodeHeader(segment string) (Header, error) {
	var h Header
	data, err := base64.RawURLEncoding.DecodeString(segment)
	if err != nil {
		return h, fmt.Errorf("%w: header segment: %w", ErrTokenCodec, err)
	}
	if err := c.serializer.Unmarshal(data, &h); err != nil {
		return h, fmt.Errorf("%w: header payload: %w", ErrTokenCodec, err)
	}
	return h, nil
}
