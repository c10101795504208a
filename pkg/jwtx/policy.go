package jwtx

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"
)

// Default token lifetimes. The access token is deliberately short; the
// refresh token carries the session across browser restarts.
const (
	// DefaultAccessTokenTTL is the default lifetime for access tokens.
	DefaultAccessTokenTTL = 30 * time.Minute

	// DefaultRefreshTokenTTL is the default lifetime for refresh tokens.
	DefaultRefreshTokenTTL = 30 * 24 * time.Hour
)

// MinKeyBytes is the minimum decoded signing key length we accept for
// HS256. Anything shorter than the hash output weakens the MAC.
const MinKeyBytes = 32

var (
	ErrMissingKey  = errors.New("jwtx: signing key is required")
	ErrInvalidKey  = errors.New("jwtx: signing key is not valid base64")
	ErrKeyTooShort = errors.New("jwtx: signing key is too short")
)

// Policy is the process-wide token configuration: the HMAC signing key and
// the two lifetimes. It is built once at startup and read-only after that,
// so concurrent use needs no synchronisation.
type Policy struct {
	key        []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewPolicy decodes and validates the base64-encoded signing secret and
// applies lifetime defaults for zero values. An unusable key is the one
// startup-fatal condition of the auth core, so callers should treat any
// error here as a refusal to start.
func NewPolicy(secretBase64 string, accessTTL, refreshTTL time.Duration) (Policy, error) {
	if secretBase64 == "" {
		return Policy{}, ErrMissingKey
	}

	key, err := base64.StdEncoding.DecodeString(secretBase64)
	if err != nil {
		return Policy{}, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	if len(key) < MinKeyBytes {
		return Policy{}, fmt.Errorf("%w: got %d bytes, need at least %d", ErrKeyTooShort, len(key), MinKeyBytes)
	}

	if accessTTL <= 0 {
		accessTTL = DefaultAccessTokenTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTokenTTL
	}

	return Policy{key: key, accessTTL: accessTTL, refreshTTL: refreshTTL}, nil
}

// SigningKey returns the decoded HMAC key.
func (p Policy) SigningKey() []byte { return p.key }

// AccessLifetime returns the access-token lifetime.
func (p Policy) AccessLifetime() time.Duration { return p.accessTTL }

// RefreshLifetime returns the refresh-token lifetime.
func (p Policy) RefreshLifetime() time.Duration { return p.refreshTTL }

// Lifetime returns the lifetime for the given token kind.
func (p Policy) Lifetime(kind Kind) time.Duration {
	if kind == KindRefresh {
		return p.refreshTTL
	}
	return p.accessTTL
}
