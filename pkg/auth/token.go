package auth

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// TokenSource supplies the bearer token attached to every backend request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Static is a fixed token, useful for tests and short-lived scripts.
type Static string

func (s Static) Token(context.Context) (string, error) {
	return string(s), nil
}

// RefreshFunc obtains a fresh access token. The refresh mechanics (refresh
// token storage, re-authentication) live outside this package.
type RefreshFunc func(ctx context.Context) (string, error)

// RefreshingSource hands out the current access token and swaps it through
// the refresh collaborator shortly before the JWT exp claim elapses.
type RefreshingSource struct {
	mu      sync.Mutex
	current string
	margin  time.Duration
	refresh RefreshFunc
	now     func() time.Time
	logger  *zap.Logger
}

// NewRefreshingSource builds a source seeded with the initial access token.
func NewRefreshingSource(initial string, margin time.Duration, refresh RefreshFunc, logger *zap.Logger) *RefreshingSource {
	if margin <= 0 {
		margin = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RefreshingSource{
		current: initial,
		margin:  margin,
		refresh: refresh,
		now:     time.Now,
		logger:  logger,
	}
}

// Token returns the current token, refreshing it first when it expires
// within the configured margin.
func (s *RefreshingSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.refresh == nil || !s.expiringSoon(s.current) {
		return s.current, nil
	}

	token, err := s.refresh(ctx)
	if err != nil {
		s.logger.Warn("token refresh failed", zap.Error(err))
		return "", err
	}
	s.current = token
	return s.current, nil
}

// expiringSoon inspects the exp claim without verifying the signature;
// verification is the server's job, the client only needs the deadline.
func (s *RefreshingSource) expiringSoon(token string) bool {
	if token == "" {
		return true
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		// Opaque token, expiry unknown. Use it as-is.
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return s.now().Add(s.margin).After(claims.ExpiresAt.Time)
}
