// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// validateRedisURL validates a go-redis connection URL.
// Supports: redis://, rediss:// and unix:// with an optional database path.
func validateRedisURL(rawURL string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}

	switch parsedURL.Scheme {
	case "redis", "rediss":
		if parsedURL.Host == "" {
			return fmt.Errorf("host is required (e.g., redis://localhost:6379/0)")
		}
	case "unix":
		if parsedURL.Path == "" {
			return fmt.Errorf("socket path is required (e.g., unix:///run/redis.sock)")
		}
	default:
		return fmt.Errorf("scheme must be redis, rediss, or unix, got: %s", parsedURL.Scheme)
	}

	return nil
}

// validateCORSOrigin validates a single CORS origin: "*" or scheme://host[:port].
func validateCORSOrigin(origin string) error {
	if origin == "*" {
		return nil
	}
	parsedURL, err := url.Parse(origin)
	if err != nil {
		return fmt.Errorf("failed to parse origin %q: %w", origin, err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("origin %q scheme must be http or https", origin)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("origin %q host is required", origin)
	}
	if strings.TrimSuffix(parsedURL.Path, "/") != "" || parsedURL.RawQuery != "" {
		return fmt.Errorf("origin %q must not contain a path or query", origin)
	}
	return nil
}
