package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sicc-salud/siccapi/pkg/cookiex"
	"github.com/sicc-salud/siccapi/pkg/jwtx"
	"github.com/sicc-salud/siccapi/pkg/slogx"
)

// PrincipalResolver re-resolves a token subject to a live identity at
// request time. It must fail for unknown and for disabled principals, so a
// still-valid token stops authenticating the moment the account goes away.
type PrincipalResolver interface {
	ResolveEnabled(ctx context.Context, email string) (Identity, error)
}

// ErrUnknownPrincipal is returned by resolvers when the subject does not
// map to an enabled principal.
var ErrUnknownPrincipal = errors.New("httpx: unknown or disabled principal")

// AuthnGate returns the per-request authentication filter.
//
// Paths matching one of skipPrefixes bypass the gate entirely (login,
// refresh and health endpoints must never require a token). For everything
// else the gate tries to establish an identity from the access-token cookie
// (or bearer header) and then lets the request continue either way: a
// missing, malformed, expired or tampered token, or a vanished principal,
// only means no identity gets populated. Rejecting unauthenticated requests
// is the authorization middleware's job, which keeps every failure mode
// observably identical to the client.
func AuthnGate(codec *jwtx.Codec, resolver PrincipalResolver, skipPrefixes []string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			for _, prefix := range skipPrefixes {
				if strings.HasPrefix(r.URL.Path, prefix) {
					next.ServeHTTP(w, r)
					return
				}
			}

			// Idempotent under re-entrant filter chains: an identity
			// established earlier is never overwritten.
			if _, ok := IdentityFromContext(ctx); ok {
				next.ServeHTTP(w, r)
				return
			}

			raw, ok := cookiex.Extract(r, jwtx.KindAccess)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			log := slogx.FromContext(ctx)

			claims, err := codec.Verify(raw)
			if err != nil {
				// Swallowed on purpose: a bad token must never 5xx, it just
				// leaves the request unauthenticated.
				log.Debug("access token rejected", "err", err)
				next.ServeHTTP(w, r)
				return
			}

			if claims.TokenType != jwtx.KindAccess {
				log.Debug("non-access token presented on protected path", "kind", claims.TokenType)
				next.ServeHTTP(w, r)
				return
			}

			ident, err := resolver.ResolveEnabled(ctx, claims.Subject)
			if err != nil {
				if !errors.Is(err, ErrUnknownPrincipal) {
					log.Warn("principal lookup failed", "err", err)
				}
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithIdentity(ctx, ident)))
		})
	}
}
