package service

import (
	"context"
	"errors"
	"strings"

	"github.com/sicc-salud/siccapi/internal/api/domain"
	"github.com/sicc-salud/siccapi/internal/api/store"
	"github.com/sicc-salud/siccapi/pkg/httpx"
)

type UserService struct {
	Store store.Store
}

// GetUserByID fetches a user by id.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, userID)
}

// GetUserByEmail fetches a user by email.
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return s.Store.Users().GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

// ListUsers returns all users, newest first.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.Store.Users().ListUsers(ctx)
}

// SetEnabled enables or disables an account.
func (s *UserService) SetEnabled(ctx context.Context, userID string, enabled bool) error {
	return s.Store.Users().SetEnabled(ctx, userID, enabled)
}

// ResolveEnabled maps a token subject to a live identity for the request
// authentication filter. Unknown and disabled accounts both resolve to
// httpx.ErrUnknownPrincipal.
func (s *UserService) ResolveEnabled(ctx context.Context, email string) (httpx.Identity, error) {
	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return httpx.Identity{}, httpx.ErrUnknownPrincipal
		}
		return httpx.Identity{}, err
	}
	if !user.Enabled {
		return httpx.Identity{}, httpx.ErrUnknownPrincipal
	}
	return httpx.Identity{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	}, nil
}
