package sqlite_test

import (
	"context"
	"testing"

	"github.com/sicc-salud/siccapi/internal/api/domain"
	"github.com/sicc-salud/siccapi/internal/api/store"
	"github.com/sicc-salud/siccapi/internal/api/store/drivers/sqlite"
	"github.com/sicc-salud/siccapi/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func newTestUser(email string) domain.User {
	return domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Firstname:    "Juan",
		Lastname:     "Perez",
		PasswordHash: "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		Role:         domain.RoleUser,
		Enabled:      true,
	}
}

func TestUsersCreateAndGet(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser("juan@example.com")
	require.NoError(t, s.Users().CreateUser(ctx, u))

	t.Run("by id", func(t *testing.T) {
		got, err := s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, u.Email, got.Email)
		require.Equal(t, u.Firstname, got.Firstname)
		require.True(t, got.Enabled)
		require.False(t, got.CreatedAt.IsZero())
	})

	t.Run("by email", func(t *testing.T) {
		got, err := s.Users().GetUserByEmail(ctx, "juan@example.com")
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)
	})

	t.Run("by email is case-insensitive", func(t *testing.T) {
		got, err := s.Users().GetUserByEmail(ctx, "JUAN@EXAMPLE.COM")
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)
	})

	t.Run("missing user maps to ErrNotFound", func(t *testing.T) {
		_, err := s.Users().GetUserByEmail(ctx, "nobody@example.com")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestUsersDuplicateEmail(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Users().CreateUser(ctx, newTestUser("juan@example.com")))

	err := s.Users().CreateUser(ctx, newTestUser("juan@example.com"))
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	// Uniqueness holds regardless of casing.
	err = s.Users().CreateUser(ctx, newTestUser("Juan@Example.com"))
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestUsersSetEnabled(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser("juan@example.com")
	require.NoError(t, s.Users().CreateUser(ctx, u))

	require.NoError(t, s.Users().SetEnabled(ctx, u.ID, false))

	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.False(t, got.Enabled)
}

func TestUsersListOrderedNewestFirst(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	first := newTestUser("a@example.com")
	second := newTestUser("b@example.com")
	require.NoError(t, s.Users().CreateUser(ctx, first))
	require.NoError(t, s.Users().CreateUser(ctx, second))

	users, err := s.Users().ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)

	// Same created_at second is possible, so the id tiebreak keeps the
	// later ULID first.
	require.Equal(t, second.ID, users[0].ID)
	require.Equal(t, first.ID, users[1].ID)
}

func TestUsersDelete(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	u := newTestUser("juan@example.com")
	require.NoError(t, s.Users().CreateUser(ctx, u))
	require.NoError(t, s.Users().DeleteUser(ctx, u.ID))

	_, err := s.Users().GetUserByID(ctx, u.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	empty, err := s.Users().IsEmpty(ctx)
	require.NoError(t, err)
	require.True(t, empty)
}

func TestUsersWithTx(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	t.Run("rollback on error", func(t *testing.T) {
		sentinel := store.ErrAlreadyExists
		err := s.WithTx(ctx, func(tx store.Tx) error {
			if err := tx.Users().CreateUser(ctx, newTestUser("tx@example.com")); err != nil {
				return err
			}
			return sentinel
		})
		require.ErrorIs(t, err, sentinel)

		_, err = s.Users().GetUserByEmail(ctx, "tx@example.com")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("commit on success", func(t *testing.T) {
		err := s.WithTx(ctx, func(tx store.Tx) error {
			return tx.Users().CreateUser(ctx, newTestUser("tx@example.com"))
		})
		require.NoError(t, err)

		_, err = s.Users().GetUserByEmail(ctx, "tx@example.com")
		require.NoError(t, err)
	})
}
