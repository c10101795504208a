package app

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/sicc-salud/siccapi/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func validSecret() string {
	return base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{0x55}, jwtx.MinKeyBytes))
}

func TestNewFailsFast(t *testing.T) {
	t.Run("missing secret", func(t *testing.T) {
		_, err := New(Config{Env: "dev", DatabaseFile: ":memory:"})
		require.ErrorIs(t, err, jwtx.ErrMissingKey)
	})

	t.Run("secret below minimum size", func(t *testing.T) {
		short := base64.StdEncoding.EncodeToString([]byte("too short"))
		_, err := New(Config{Env: "dev", JWTSecret: short, DatabaseFile: ":memory:"})
		require.ErrorIs(t, err, jwtx.ErrKeyTooShort)
	})

	t.Run("prod without CORS origins", func(t *testing.T) {
		_, err := New(Config{Env: "prod", JWTSecret: validSecret(), DatabaseFile: ":memory:"})
		require.ErrorContains(t, err, "CORS_ALLOWED_ORIGINS")
	})
}

func TestNewWiresEverything(t *testing.T) {
	app, err := New(Config{
		Env:          "dev",
		JWTSecret:    validSecret(),
		DatabaseFile: ":memory:",
		Port:         0,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.db.Close() })

	require.NotNil(t, app.codec)
	require.NotNil(t, app.sessionService)
	require.NotNil(t, app.userService)
	require.NotNil(t, app.router)
	require.NotNil(t, app.server)
}
