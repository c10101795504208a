package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/sicc-salud/siccapi/internal/api/domain"
	"github.com/sicc-salud/siccapi/internal/api/store"
	"github.com/sicc-salud/siccapi/pkg/cryptox"
	"github.com/sicc-salud/siccapi/pkg/idx"
	"github.com/sicc-salud/siccapi/pkg/jwtx"
	"github.com/sicc-salud/siccapi/pkg/slogx"
)

// MinPasswordLength is the minimum accepted password length at registration.
const MinPasswordLength = 8

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrDuplicateEmail     = errors.New("duplicate_email")
	ErrInvalidRefresh     = errors.New("invalid_refresh_token")
	ErrInvalidInput       = errors.New("invalid_input")
)

// decoyHash is verified against when a login names an unknown account, so
// the response takes as long as a real password check and timing does not
// reveal which emails exist.
var decoyHash = func() string {
	h, err := cryptox.HashPassword("decoy-password-never-matches")
	if err != nil {
		panic(err)
	}
	return h
}()

// SessionService issues and renews browser sessions. Tokens are minted by
// the codec and handed back as an opaque pair; how they travel (cookies) is
// the transport's concern.
type SessionService struct {
	Store store.Store
	Codec *jwtx.Codec
}

type RegisterParams struct {
	Email     string
	Firstname string
	Lastname  string
	Password  string
}

// Register creates a new account and opens a session for it. The email is
// normalised to lower case before storage so logins are case-insensitive.
func (s *SessionService) Register(ctx context.Context, p RegisterParams) (domain.Session, error) {
	l := slogx.FromContext(ctx)

	email := strings.ToLower(strings.TrimSpace(p.Email))
	firstname := strings.TrimSpace(p.Firstname)
	lastname := strings.TrimSpace(p.Lastname)

	switch {
	case email == "" || !strings.Contains(email, "@"):
		return domain.Session{}, ErrInvalidInput
	case firstname == "" || lastname == "":
		return domain.Session{}, ErrInvalidInput
	case len(p.Password) < MinPasswordLength:
		return domain.Session{}, ErrInvalidInput
	}

	hash, err := cryptox.HashPassword(p.Password)
	if err != nil {
		return domain.Session{}, err
	}

	user := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Firstname:    firstname,
		Lastname:     lastname,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		Enabled:      true,
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Session{}, ErrDuplicateEmail
		}
		return domain.Session{}, err
	}

	l.Info("user registered", slog.String("user_id", user.ID))

	return s.open(user, time.Now())
}

// Login verifies the credentials and opens a session. Unknown accounts,
// disabled accounts and wrong passwords all collapse into the same
// ErrInvalidCredentials so the response never says which one happened.
func (s *SessionService) Login(ctx context.Context, email, password string) (domain.Session, error) {
	l := slogx.FromContext(ctx)

	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			_ = cryptox.VerifyPassword(password, decoyHash)
			return domain.Session{}, ErrInvalidCredentials
		}
		return domain.Session{}, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrMismatch) {
			l.Info("login rejected", slog.String("user_id", user.ID))
			return domain.Session{}, ErrInvalidCredentials
		}
		return domain.Session{}, err
	}

	if !user.Enabled {
		l.Info("login rejected for disabled account", slog.String("user_id", user.ID))
		return domain.Session{}, ErrInvalidCredentials
	}

	return s.open(user, time.Now())
}

// Refresh exchanges a valid refresh token for a fresh access token. The
// refresh token itself is not rotated: the session window stays anchored to
// the original login and the client keeps presenting the same cookie until
// it expires.
func (s *SessionService) Refresh(ctx context.Context, rawRefresh string) (domain.Session, error) {
	l := slogx.FromContext(ctx)

	claims, err := s.Codec.Verify(rawRefresh)
	if err != nil {
		l.Debug("refresh token rejected", "err", err)
		return domain.Session{}, ErrInvalidRefresh
	}
	if claims.TokenType != jwtx.KindRefresh {
		return domain.Session{}, ErrInvalidRefresh
	}

	// The subject is re-resolved on every renewal. A deleted or disabled
	// account stops renewing even while its refresh token is still valid.
	user, err := s.Store.Users().GetUserByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Session{}, ErrInvalidRefresh
		}
		return domain.Session{}, err
	}
	if !user.Enabled {
		return domain.Session{}, ErrInvalidRefresh
	}

	access, err := s.Codec.Mint(user.Email, jwtx.KindAccess, time.Now())
	if err != nil {
		return domain.Session{}, err
	}

	return domain.Session{
		User:   user,
		Tokens: domain.TokenPair{AccessToken: access},
	}, nil
}

// open mints a fresh access/refresh pair for the user.
func (s *SessionService) open(user domain.User, now time.Time) (domain.Session, error) {
	access, err := s.Codec.Mint(user.Email, jwtx.KindAccess, now)
	if err != nil {
		return domain.Session{}, err
	}
	refresh, err := s.Codec.Mint(user.Email, jwtx.KindRefresh, now)
	if err != nil {
		return domain.Session{}, err
	}
	return domain.Session{
		User:   user,
		Tokens: domain.TokenPair{AccessToken: access, RefreshToken: refresh},
	}, nil
}
