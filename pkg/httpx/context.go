package httpx

import "context"

// Identity is the request-scoped authenticated principal established by the
// authentication gate. Absence of an Identity in the context means the
// request is unauthenticated; it carries no hint of why.
type Identity struct {
	UserID string
	Email  string
	Role   string
}

type ctxKey string

const (
	ctxKeyIdentity ctxKey = "identity"

	// CtxKeyUserID mirrors Identity.UserID for consumers (rate limiting)
	// that only need the id.
	CtxKeyUserID ctxKey = "user_id"
)

// ContextWithIdentity stores the authenticated identity in the context.
func ContextWithIdentity(ctx context.Context, ident Identity) context.Context {
	ctx = context.WithValue(ctx, ctxKeyIdentity, ident)
	return context.WithValue(ctx, CtxKeyUserID, ident.UserID)
}

// IdentityFromContext returns the authenticated identity, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	ident, ok := ctx.Value(ctxKeyIdentity).(Identity)
	return ident, ok
}
