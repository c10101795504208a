package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")
	ErrExpired     = errors.New("jwtx: token expired")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")
	ErrInvalidKind = errors.New("jwtx: invalid token kind")
)

// Codec mints and verifies HS256 bearer tokens against a single Policy.
// Both operations are pure CPU work (one HMAC compute), safe for
// unsynchronised concurrent use.
//
// Verify only enforces cryptographic and temporal validity. Checking the
// kind tag and re-resolving the subject is the caller's job, since the
// session issuer and the request gate each apply different rules there.
type Codec struct {
	Policy Policy

	// TimeFunc overrides the verification clock. Nil means time.Now.
	TimeFunc func() time.Time
}

func (c *Codec) now() time.Time {
	if c.TimeFunc != nil {
		return c.TimeFunc()
	}
	return time.Now()
}

// Mint signs a token of the given kind for subject, issued at now and
// expiring after the policy lifetime for that kind. Pure HMAC, so identical
// inputs produce identical tokens.
func (c *Codec) Mint(subject string, kind Kind, now time.Time) (string, error) {
	if subject == "" {
		return "", fmt.Errorf("jwtx: empty subject")
	}
	if !kind.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}

	claims := NewClaims(subject, kind, c.Policy.Lifetime(kind), now)
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.Policy.SigningKey())
}

// Verify decodes the token, checks the HMAC against the policy key and
// validates exp/nbf with second precision. A token whose expiry equals the
// current instant is already expired (validity is strictly now < exp).
func (c *Codec) Verify(raw string) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
	)

	token, err := parser.ParseWithClaims(raw, &Claims{}, func(*jwt.Token) (any, error) {
		return c.Policy.SigningKey(), nil
	})
	if err != nil {
		return Claims{}, mapParseError(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Claims{}, ErrMalformed
	}
	return *claims, nil
}

// mapParseError collapses the library's error tree onto our sentinel set so
// callers never have to depend on jwt/v5 error types.
func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrNotYetValid
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSig
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	default:
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
}
