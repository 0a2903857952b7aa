package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/pingpong-club/internal/domain/account"
	"github.com/riskibarqy/pingpong-club/internal/usecase"
)

func TestIssuer_RoundTrip(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer("secret", "pingpong-club", time.Hour)
	playerID := int64(7)
	token, expiresAt, err := issuer.Issue(account.Principal{UserID: 3, Username: "mina", PlayerID: &playerID})
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	got, err := issuer.Verify(token)
	require.NoError(t, err)
	require.Equal(t, int64(3), got.UserID)
	require.Equal(t, "mina", got.Username)
	require.False(t, got.IsAdmin)
	require.NotNil(t, got.PlayerID)
	require.Equal(t, int64(7), *got.PlayerID)
}

func TestIssuer_RejectsForeignSecret(t *testing.T) {
	t.Parallel()

	token, _, err := NewIssuer("one", "pingpong-club", time.Hour).Issue(account.Principal{UserID: 1, Username: "admin", IsAdmin: true})
	require.NoError(t, err)

	_, err = NewIssuer("two", "pingpong-club", time.Hour).Verify(token)
	if !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestIssuer_RejectsExpired(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer("secret", "pingpong-club", time.Minute)
	base := time.Now()
	issuer.now = func() time.Time { return base }
	token, _, err := issuer.Issue(account.Principal{UserID: 1, Username: "admin"})
	require.NoError(t, err)

	issuer.now = func() time.Time { return base.Add(2 * time.Minute) }
	_, err = issuer.Verify(token)
	if !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestIssuer_RejectsEmpty(t *testing.T) {
	t.Parallel()

	_, err := NewIssuer("secret", "", time.Hour).Verify("  ")
	if !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
