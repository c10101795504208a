package jwtx

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testPolicy(t *testing.T) Policy {
	t.Helper()

	secret := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{0x42}, MinKeyBytes))
	p, err := NewPolicy(secret, 30*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)
	return p
}

func TestCodecRoundTrip(t *testing.T) {
	t.Parallel()

	codec := &Codec{Policy: testPolicy(t)}
	now := time.Unix(1700000000, 0).UTC()

	for _, kind := range []Kind{KindAccess, KindRefresh} {
		t.Run(string(kind), func(t *testing.T) {
			raw, err := codec.Mint("juan@example.com", kind, now)
			require.NoError(t, err)

			verifier := &Codec{Policy: codec.Policy, TimeFunc: func() time.Time { return now.Add(time.Second) }}
			claims, err := verifier.Verify(raw)
			require.NoError(t, err)
			require.Equal(t, "juan@example.com", claims.Subject)
			require.Equal(t, kind, claims.TokenType)
			require.Equal(t, now.Unix(), claims.IssuedAt.Unix())
			require.Equal(t, now.Add(codec.Policy.Lifetime(kind)).Unix(), claims.ExpiresAt.Unix())
		})
	}
}

func TestCodecMintDeterministic(t *testing.T) {
	t.Parallel()

	codec := &Codec{Policy: testPolicy(t)}
	now := time.Unix(1700000000, 0).UTC()

	a, err := codec.Mint("juan@example.com", KindAccess, now)
	require.NoError(t, err)
	b, err := codec.Mint("juan@example.com", KindAccess, now)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestCodecMintRejectsBadInput(t *testing.T) {
	t.Parallel()

	codec := &Codec{Policy: testPolicy(t)}
	now := time.Now()

	_, err := codec.Mint("", KindAccess, now)
	require.Error(t, err)

	_, err = codec.Mint("juan@example.com", Kind("session"), now)
	require.ErrorIs(t, err, ErrInvalidKind)
}

func TestCodecExpiryBoundary(t *testing.T) {
	t.Parallel()

	policy := testPolicy(t)
	t0 := time.Unix(1700000000, 0).UTC()
	lifetime := policy.AccessLifetime()

	raw, err := (&Codec{Policy: policy}).Mint("juan@example.com", KindAccess, t0)
	require.NoError(t, err)

	at := func(now time.Time) error {
		c := &Codec{Policy: policy, TimeFunc: func() time.Time { return now }}
		_, err := c.Verify(raw)
		return err
	}

	require.NoError(t, at(t0))
	require.NoError(t, at(t0.Add(lifetime-time.Second)))
	require.ErrorIs(t, at(t0.Add(lifetime)), ErrExpired)
	require.ErrorIs(t, at(t0.Add(lifetime+time.Hour)), ErrExpired)
}

func TestCodecTamperDetection(t *testing.T) {
	t.Parallel()

	codec := &Codec{Policy: testPolicy(t)}
	now := time.Now()

	raw, err := codec.Mint("juan@example.com", KindAccess, now)
	require.NoError(t, err)

	parts := strings.Split(raw, ".")
	require.Len(t, parts, 3)

	// Flip every byte of the signature segment in turn; none may verify.
	sig := parts[2]
	for i := range sig {
		mutated := []byte(sig)
		if mutated[i] == 'A' {
			mutated[i] = 'B'
		} else {
			mutated[i] = 'A'
		}
		if string(mutated) == sig {
			continue
		}

		_, err := codec.Verify(parts[0] + "." + parts[1] + "." + string(mutated))
		require.Error(t, err, "mutated signature byte %d verified", i)
	}
}

func TestCodecRejectsForeignKey(t *testing.T) {
	t.Parallel()

	now := time.Now()
	raw, err := (&Codec{Policy: testPolicy(t)}).Mint("juan@example.com", KindAccess, now)
	require.NoError(t, err)

	otherSecret := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{0x13}, MinKeyBytes))
	otherPolicy, err := NewPolicy(otherSecret, 0, 0)
	require.NoError(t, err)

	_, err = (&Codec{Policy: otherPolicy}).Verify(raw)
	require.ErrorIs(t, err, ErrInvalidSig)
}

func TestCodecRejectsGarbage(t *testing.T) {
	t.Parallel()

	codec := &Codec{Policy: testPolicy(t)}

	for _, raw := range []string{"", "not-a-token", "a.b", "a.b.c.d"} {
		_, err := codec.Verify(raw)
		require.ErrorIs(t, err, ErrMalformed, "input %q", raw)
	}
}

func TestCodecRejectsUnsignedToken(t *testing.T) {
	t.Parallel()

	codec := &Codec{Policy: testPolicy(t)}

	// alg=none style token: valid header/payload, empty signature.
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
	payload := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"juan@example.com"}`))

	_, err := codec.Verify(header + "." + payload + ".")
	require.Error(t, err)
}
