package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, expiresIn time.Duration) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestStaticToken(t *testing.T) {
	token, err := Static("abc").Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", token)
}

func TestRefreshingSourceKeepsFreshToken(t *testing.T) {
	initial := signedToken(t, time.Hour)
	refreshes := 0
	src := NewRefreshingSource(initial, 30*time.Second, func(context.Context) (string, error) {
		refreshes++
		return "", nil
	}, nil)

	token, err := src.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, initial, token)
	assert.Zero(t, refreshes)
}

func TestRefreshingSourceRefreshesNearExpiry(t *testing.T) {
	initial := signedToken(t, 5*time.Second)
	fresh := signedToken(t, time.Hour)
	src := NewRefreshingSource(initial, 30*time.Second, func(context.Context) (string, error) {
		return fresh, nil
	}, nil)

	token, err := src.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fresh, token)

	// The refreshed token is retained for subsequent calls.
	again, err := src.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fresh, again)
}

func TestRefreshingSourceSurfacesRefreshError(t *testing.T) {
	initial := signedToken(t, time.Second)
	src := NewRefreshingSource(initial, 30*time.Second, func(context.Context) (string, error) {
		return "", errors.New("refresh endpoint down")
	}, nil)

	_, err := src.Token(context.Background())
	require.Error(t, err)
}

func TestRefreshingSourceOpaqueTokenUsedAsIs(t *testing.T) {
	src := NewRefreshingSource("opaque-session-key", 30*time.Second, func(context.Context) (string, error) {
		t.Fatal("refresh must not run for opaque tokens")
		return "", nil
	}, nil)

	token, err := src.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "opaque-session-key", token)
}
