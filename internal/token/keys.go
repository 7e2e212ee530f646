// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

package token

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tomtom215/warden/internal/logging"
)

// defaultKeyPEM is an RSA PKCS#8 key shipped with the binary. It is public
// by definition and only meant for development setups.
//
//go:embed default.pem
var defaultKeyPEM []byte

// Key sources reported in KeyMaterial.Source.
const (
	KeySourceSecret  = "secret"
	KeySourceFile    = "file"
	KeySourceDefault = "default"
)

// KeyConfig selects and locates the signing key.
type KeyConfig struct {
	// Algorithm is a JWS algorithm name: HS256/384/512, RS256/384/512,
	// PS256/384/512, ES256/384/512 or EdDSA.
	Algorithm string

	// HMACSecret is required for HS* and forbidden otherwise.
	HMACSecret string

	// KeyFile is a PEM private key for asymmetric algorithms.
	KeyFile string

	// PublicKeyFile optionally pins the verification key. It must match the
	// key derived from KeyFile.
	PublicKeyFile string

	// UseDefaultKey falls back to the bundled RSA key when KeyFile is absent.
	UseDefaultKey bool
}

// KeyMaterial is the immutable signing/verification pair for one service.
type KeyMaterial struct {
	Method          jwt.SigningMethod
	SigningKey      any
	VerificationKey any
	Source          string
}

type keyFamily int

const (
	familyHMAC keyFamily = iota
	familyRSA
	familyEC
	familyEd25519
)

// LoadKeyMaterial resolves cfg into a signing and verification key.
func LoadKeyMaterial(cfg KeyConfig) (*KeyMaterial, error) {
	alg := strings.TrimSpace(cfg.Algorithm)
	if alg == "" {
		return nil, fmt.Errorf("%w: signature algorithm is required", ErrConfiguration)
	}

	method := jwt.GetSigningMethod(alg)
	family, err := familyOf(method)
	if err != nil {
		return nil, fmt.Errorf("%w: algorithm %q: %v", ErrConfiguration, alg, err)
	}

	secret := strings.TrimSpace(cfg.HMACSecret)
	keyFile := strings.TrimSpace(cfg.KeyFile)

	if family == familyHMAC {
		return loadHMAC(method.(*jwt.SigningMethodHMAC), cfg.HMACSecret, secret, keyFile)
	}

	if secret != "" {
		return nil, fmt.Errorf("%w: an HMAC secret cannot be used with %s", ErrConfiguration, alg)
	}

	pemBytes, source, err := readPrivateKey(keyFile, family, cfg.UseDefaultKey)
	if err != nil {
		return nil, err
	}

	priv, pub, err := parsePrivateKey(pemBytes, family, method)
	if err != nil {
		return nil, err
	}

	if path := strings.TrimSpace(cfg.PublicKeyFile); path != "" {
		if err := checkPublicKey(path, family, pub); err != nil {
			return nil, err
		}
	}

	logging.Info().
		Str("alg", alg).
		Str("source", source).
		Msg("Signing key loaded")

	return &KeyMaterial{
		Method:          method,
		SigningKey:      priv,
		VerificationKey: pub,
		Source:          source,
	}, nil
}

func familyOf(method jwt.SigningMethod) (keyFamily, error) {
	switch method.(type) {
	case *jwt.SigningMethodHMAC:
		return familyHMAC, nil
	case *jwt.SigningMethodRSA, *jwt.SigningMethodRSAPSS:
		return familyRSA, nil
	case *jwt.SigningMethodECDSA:
		return familyEC, nil
	case *jwt.SigningMethodEd25519:
		return familyEd25519, nil
	case nil:
		return 0, errors.New("unknown algorithm")
	default:
		return 0, errors.New("unsupported algorithm")
	}
}

func loadHMAC(method *jwt.SigningMethodHMAC, raw, trimmed, keyFile string) (*KeyMaterial, error) {
	if trimmed == "" {
		return nil, fmt.Errorf("%w: %s requires a non-blank HMAC secret", ErrConfiguration, method.Alg())
	}
	if keyFile != "" {
		return nil, fmt.Errorf("%w: HMAC secret and key file are mutually exclusive", ErrConfiguration)
	}

	key := []byte(raw)
	if len(key) < method.Hash.Size() {
		logging.Warn().
			Str("alg", method.Alg()).
			Int("secret_bytes", len(key)).
			Int("recommended_bytes", method.Hash.Size()).
			Msg("HMAC secret is shorter than the hash output")
	}

	return &KeyMaterial{
		Method:          method,
		SigningKey:      key,
		VerificationKey: key,
		Source:          KeySourceSecret,
	}, nil
}

func readPrivateKey(path string, family keyFamily, useDefault bool) ([]byte, string, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			return data, KeySourceFile, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, "", fmt.Errorf("%w: read %s: %v", ErrKeyInitialization, path, err)
		}
	}

	if !useDefault {
		if path == "" {
			return nil, "", fmt.Errorf("%w: no key file configured", ErrKeyInitialization)
		}
		return nil, "", fmt.Errorf("%w: key file %s does not exist", ErrKeyInitialization, path)
	}
	if family != familyRSA {
		return nil, "", fmt.Errorf("%w: the bundled default key is RSA only", ErrKeyInitialization)
	}

	logging.Warn().
		Str("key_file", path).
		Msg("Key file not found, using the bundled default key; do not use this in production")
	return defaultKeyPEM, KeySourceDefault, nil
}

func parsePrivateKey(data []byte, family keyFamily, method jwt.SigningMethod) (crypto.PrivateKey, crypto.PublicKey, error) {
	switch family {
	case familyRSA:
		key, err := jwt.ParseRSAPrivateKeyFromPEM(data)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: RSA private key: %v", ErrKeyInitialization, err)
		}
		return key, &key.PublicKey, nil

	case familyEC:
		key, err := jwt.ParseECPrivateKeyFromPEM(data)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: EC private key: %v", ErrKeyInitialization, err)
		}
		want := method.(*jwt.SigningMethodECDSA).CurveBits
		if got := key.Curve.Params().BitSize; got != want {
			return nil, nil, fmt.Errorf("%w: %s needs a %d-bit curve, key is %d-bit",
				ErrKeyInitialization, method.Alg(), want, got)
		}
		return key, &key.PublicKey, nil

	case familyEd25519:
		parsed, err := jwt.ParseEdPrivateKeyFromPEM(data)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: Ed25519 private key: %v", ErrKeyInitialization, err)
		}
		key, ok := parsed.(ed25519.PrivateKey)
		if !ok {
			return nil, nil, fmt.Errorf("%w: Ed25519 private key has type %T", ErrKeyInitialization, parsed)
		}
		return key, key.Public(), nil
	}
	return nil, nil, fmt.Errorf("%w: unsupported key family", ErrKeyInitialization)
}

type comparablePublicKey interface {
	Equal(crypto.PublicKey) bool
}

func checkPublicKey(path string, family keyFamily, derived crypto.PublicKey) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: read public key %s: %v", ErrKeyInitialization, path, err)
	}

	var pinned crypto.PublicKey
	switch family {
	case familyRSA:
		var k *rsa.PublicKey
		k, err = jwt.ParseRSAPublicKeyFromPEM(data)
		pinned = k
	case familyEC:
		var k *ecdsa.PublicKey
		k, err = jwt.ParseECPublicKeyFromPEM(data)
		pinned = k
	case familyEd25519:
		pinned, err = jwt.ParseEdPublicKeyFromPEM(data)
	}
	if err != nil {
		return fmt.Errorf("%w: public key %s: %v", ErrKeyInitialization, path, err)
	}

	cmp, ok := derived.(comparablePublicKey)
	if !ok || !cmp.Equal(pinned) {
		return fmt.Errorf("%w: public key %s does not match the private key", ErrKeyInitialization, path)
	}
	return nil
}
