package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Kind tags a token as either the short-lived access credential or the
// long-lived refresh credential. The tag travels inside the signed claims,
// so a refresh token can never be replayed as an access token.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// Valid reports whether k is one of the two known kinds.
func (k Kind) Valid() bool { return k == KindAccess || k == KindRefresh }

// Claims are the fields encoded inside our bearer tokens. The claim set is
// intentionally small: subject (the user's email), issue/expiry times and
// the kind tag under "tokenType".
type Claims struct {
	jwt.RegisteredClaims

	// TokenType distinguishes access from refresh tokens.
	TokenType Kind `json:"tokenType,omitempty"`
}

// NewClaims builds the claim set for a token of the given kind minted at
// now. Times are second precision on the wire (NumericDate truncates).
func NewClaims(subject string, kind Kind, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		TokenType: kind,
	}
}
