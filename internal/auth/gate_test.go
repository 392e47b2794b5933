package auth

import (
	"testing"
	"time"

	"catalog-service/internal/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBearerToken(t *testing.T) {
	tests := map[string]string{
		"Bearer abc":    "abc",
		"bearer abc":    "abc",
		"abc":           "abc",
		"  Bearer abc ": "abc",
		"":              "",
		"Bearer ":       "",
	}
	for in, want := range tests {
		assert.Equal(t, want, BearerToken(in), "input %q", in)
	}
}

func TestGate_Admit(t *testing.T) {
	issuer := newTestCodec(t, "refresh-secret")
	pair, err := issuer.IssuePair("7", "alice")
	require.NoError(t, err)

	// 20 minutes later the access token has expired, the refresh token has not
	later := issuer.WithClock(at(t0.Add(20 * time.Minute)))

	t.Run("missing authorization is unauthenticated", func(t *testing.T) {
		_, err := NewGate(issuer).Admit("", pair.RefreshToken)
		assert.ErrorIs(t, err, errs.ErrUnauthenticated)
	})

	t.Run("valid access token admits without refresh", func(t *testing.T) {
		adm, err := NewGate(issuer).Admit("Bearer "+pair.AccessToken, "")
		require.NoError(t, err)
		assert.False(t, adm.Refreshed)
		assert.Empty(t, adm.NewAccessToken)
		assert.Equal(t, "7", adm.Claims.UserID())
		assert.Equal(t, "alice", adm.Claims.Username)
	})

	t.Run("raw token without bearer prefix", func(t *testing.T) {
		_, err := NewGate(issuer).Admit(pair.AccessToken, "")
		assert.NoError(t, err)
	})

	t.Run("expired access with valid refresh is refreshed", func(t *testing.T) {
		adm, err := NewGate(later).Admit("Bearer "+pair.AccessToken, pair.RefreshToken)
		require.NoError(t, err)
		require.True(t, adm.Refreshed)
		require.NotEmpty(t, adm.NewAccessToken)
		assert.Equal(t, t0.Add(35*time.Minute), adm.NewExpiresAt)

		fresh, err := later.Verify(AccessToken, adm.NewAccessToken)
		require.NoError(t, err)
		assert.Equal(t, "7", fresh.Subject)
		assert.Equal(t, "alice", fresh.Username)
		assert.Equal(t, "7", adm.Claims.UserID())
	})

	t.Run("garbage access with valid refresh is refreshed", func(t *testing.T) {
		adm, err := NewGate(issuer).Admit("Bearer garbage", pair.RefreshToken)
		require.NoError(t, err)
		assert.True(t, adm.Refreshed)
	})

	t.Run("invalid access without refresh is forbidden", func(t *testing.T) {
		_, err := NewGate(later).Admit("Bearer "+pair.AccessToken, "")
		assert.ErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("invalid access with invalid refresh is forbidden", func(t *testing.T) {
		_, err := NewGate(issuer).Admit("Bearer garbage", "also-garbage")
		assert.ErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("access token in refresh header is forbidden", func(t *testing.T) {
		_, err := NewGate(later).Admit("Bearer garbage", pair.AccessToken)
		assert.ErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("expired refresh is forbidden", func(t *testing.T) {
		muchLater := issuer.WithClock(at(t0.Add(8 * 24 * time.Hour)))
		_, err := NewGate(muchLater).Admit("Bearer "+pair.AccessToken, pair.RefreshToken)
		assert.ErrorIs(t, err, errs.ErrForbidden)
	})
}
