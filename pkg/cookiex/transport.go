// Package cookiex maps bearer tokens to and from browser cookies. It owns
// the cookie attribute contract: HttpOnly always, Secure/SameSite selected
// by deployment environment, and the refresh cookie scoped to the refresh
// endpoint so browsers never send it anywhere else.
package cookiex

import (
	"net/http"
	"strings"
	"time"

	"github.com/sicc-salud/siccapi/pkg/jwtx"
)

const (
	// AccessCookie is the cookie name carrying the access token.
	AccessCookie = "access_token"

	// RefreshCookie is the cookie name carrying the refresh token.
	RefreshCookie = "refresh_token"

	// DefaultRefreshPath is the path the refresh cookie is scoped to when
	// the Transport doesn't override it.
	DefaultRefreshPath = "/api/auth/refresh"
)

// Transport writes and reads token cookies. It is built once at startup
// from the deployment profile and token policy and is read-only afterwards.
//
// Secure MUST be derived from the active deployment profile, never from
// anything the client sends: a client-controlled signal would let an
// attacker downgrade the cookie attributes.
type Transport struct {
	Secure      bool          // verified-secure (production) deployment
	AccessTTL   time.Duration // access cookie Max-Age
	RefreshTTL  time.Duration // refresh cookie Max-Age
	RefreshPath string        // empty means DefaultRefreshPath
}

// NewTransport derives a Transport from the token policy so cookie
// lifetimes always match token lifetimes.
func NewTransport(secure bool, policy jwtx.Policy) Transport {
	return Transport{
		Secure:     secure,
		AccessTTL:  policy.AccessLifetime(),
		RefreshTTL: policy.RefreshLifetime(),
	}
}

// Attach writes the cookie for a freshly minted token of the given kind.
func (t Transport) Attach(w http.ResponseWriter, kind jwtx.Kind, token string) {
	http.SetCookie(w, t.cookie(kind, token, int(t.ttl(kind).Seconds())))
}

// Clear re-sets the cookie for kind with Max-Age=0 so the browser drops it
// immediately. Name, path and security attributes are identical to Attach;
// a mismatched path would leave the original cookie in place.
func (t Transport) Clear(w http.ResponseWriter, kind jwtx.Kind) {
	// MaxAge<0 serialises as Max-Age=0 (immediate expiry).
	http.SetCookie(w, t.cookie(kind, "", -1))
}

// Extract returns the token of the given kind from the request: the named
// cookie when present, otherwise an Authorization bearer header. The header
// fallback keeps non-browser clients and test tooling working and is part
// of the contract, not a convenience.
func Extract(r *http.Request, kind jwtx.Kind) (string, bool) {
	if c, err := r.Cookie(name(kind)); err == nil && c.Value != "" {
		return c.Value, true
	}

	authz := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(authz, "Bearer "); ok {
		if token := strings.TrimSpace(after); token != "" {
			return token, true
		}
	}

	return "", false
}

func (t Transport) cookie(kind jwtx.Kind, value string, maxAge int) *http.Cookie {
	sameSite, secure := securityAttributes(t.Secure)
	return &http.Cookie{
		Name:     name(kind),
		Value:    value,
		Path:     t.path(kind),
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
	}
}

// securityAttributes is the single place the environment-dependent cookie
// policy lives. Verified-secure deployments serve the SPA from another
// origin over HTTPS, which requires SameSite=None and therefore Secure;
// everywhere else Lax over plain HTTP keeps local development workable.
func securityAttributes(secure bool) (http.SameSite, bool) {
	if secure {
		return http.SameSiteNoneMode, true
	}
	return http.SameSiteLaxMode, false
}

func name(kind jwtx.Kind) string {
	if kind == jwtx.KindRefresh {
		return RefreshCookie
	}
	return AccessCookie
}

func (t Transport) path(kind jwtx.Kind) string {
	if kind == jwtx.KindRefresh {
		if t.RefreshPath != "" {
			return t.RefreshPath
		}
		return DefaultRefreshPath
	}
	return "/"
}

func (t Transport) ttl(kind jwtx.Kind) time.Duration {
	if kind == jwtx.KindRefresh {
		return t.RefreshTTL
	}
	return t.AccessTTL
}
