package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sicc-salud/siccapi/internal/api/service"
	"github.com/sicc-salud/siccapi/pkg/cookiex"
	"github.com/sicc-salud/siccapi/pkg/httpx"
	"github.com/sicc-salud/siccapi/pkg/jwtx"
	"github.com/sicc-salud/siccapi/pkg/slogx"
)

// AuthHandler owns the session lifecycle endpoints. Tokens travel
// exclusively as HttpOnly cookies; response bodies only ever carry profile
// data.
type AuthHandler struct {
	Sessions  *service.SessionService
	Transport cookiex.Transport
}

type registerRequest struct {
	Email     string `json:"email"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Password  string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister creates an account and opens a session for it in one step.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}

	sess, err := h.Sessions.Register(ctx, service.RegisterParams{
		Email:     req.Email,
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
		Password:  req.Password,
	})
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "missing or invalid registration fields")
		return
	case errors.Is(err, service.ErrDuplicateEmail):
		httpx.WriteError(w, http.StatusBadRequest, "duplicate_email", "email is already registered")
		return
	case err != nil:
		log.Error("register failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
		return
	}

	h.Transport.Attach(w, jwtx.KindAccess, sess.Tokens.AccessToken)
	h.Transport.Attach(w, jwtx.KindRefresh, sess.Tokens.RefreshToken)
	httpx.WriteJSON(w, http.StatusOK, userResponseFrom(sess.User))
}

// HandleLogin verifies credentials and opens a session.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}

	sess, err := h.Sessions.Login(ctx, req.Email, req.Password)
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		// One answer for unknown email, wrong password and disabled
		// account alike.
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
		return
	case err != nil:
		log.Error("login failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
		return
	}

	h.Transport.Attach(w, jwtx.KindAccess, sess.Tokens.AccessToken)
	h.Transport.Attach(w, jwtx.KindRefresh, sess.Tokens.RefreshToken)
	httpx.WriteJSON(w, http.StatusOK, userResponseFrom(sess.User))
}

// HandleRefresh exchanges the refresh cookie for a fresh access cookie. The
// refresh cookie itself is left untouched.
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	cookie, err := r.Cookie(cookiex.RefreshCookie)
	if err != nil || cookie.Value == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_refresh_token", "refresh token missing")
		return
	}

	sess, err := h.Sessions.Refresh(ctx, cookie.Value)
	switch {
	case errors.Is(err, service.ErrInvalidRefresh):
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_refresh_token", "refresh token rejected")
		return
	case err != nil:
		log.Error("refresh failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
		return
	}

	h.Transport.Attach(w, jwtx.KindAccess, sess.Tokens.AccessToken)
	httpx.WriteJSON(w, http.StatusOK, userResponseFrom(sess.User))
}

// HandleLogout expires both session cookies. It is idempotent and succeeds
// whether or not the request carried any tokens; already-issued tokens stay
// valid until they expire on their own.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.Transport.Clear(w, jwtx.KindAccess)
	h.Transport.Clear(w, jwtx.KindRefresh)
	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}
