package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/sicc-salud/siccapi/internal/api/service"
	"github.com/sicc-salud/siccapi/internal/api/store"
	"github.com/sicc-salud/siccapi/pkg/cookiex"
	"github.com/sicc-salud/siccapi/pkg/httpx"
	"github.com/sicc-salud/siccapi/pkg/jwtx"
	"github.com/sicc-salud/siccapi/pkg/slogx"
)

// gateSkipPrefixes lists the paths the authentication filter never touches.
// Session issuance and health probes must work without a token.
var gateSkipPrefixes = []string{"/api/auth/", "/livez", "/readyz"}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	codec          *jwtx.Codec
	transport      cookiex.Transport
	allowedOrigins []string
	buildVersion   string
	startTime      time.Time
	logger         *slog.Logger

	store          store.Store
	SessionService *service.SessionService
	UserService    *service.UserService
}

func NewRouter(
	codec *jwtx.Codec,
	transport cookiex.Transport,
	allowedOrigins []string,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	return &Router{
		Mux:            http.NewServeMux(),
		codec:          codec,
		transport:      transport,
		allowedOrigins: allowedOrigins,
		buildVersion:   buildVersion,
		startTime:      time.Now(),
		store:          st,
		logger:         logger,
	}
}

// ApplyRoutes registers all endpoints and freezes the global middleware
// chain. Call it after the service fields are wired.
func (r *Router) ApplyRoutes() {
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.CORS(r.allowedOrigins),
		httpx.AuthnGate(r.codec, r.UserService, gateSkipPrefixes),
	}

	r.registerAuth()
	r.registerUsers()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		Sessions:  r.SessionService,
		Transport: r.transport,
	}

	// Credential-bearing endpoints get the strict limit to slow brute force.
	r.Mux.Handle("POST /api/auth/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /api/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// Renewal happens on a timer from every open tab, so it gets more room.
	r.Mux.Handle("POST /api/auth/refresh",
		httpx.Chain(http.HandlerFunc(h.HandleRefresh),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /api/auth/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerUsers() {
	h := &UsersHandler{UserService: r.UserService}

	r.Mux.Handle("GET /api/users/me",
		httpx.Chain(http.HandlerFunc(h.HandleMe),
			httpx.RequireAuthenticated(),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /api/users",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			httpx.RequireAnyRole("ADMIN"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
