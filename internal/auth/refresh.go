package auth

import (
	"context"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

// ExpiryMargin is how far before the recorded expiry a token is treated
// as expired. Strava access tokens last six hours, so refreshing a couple
// of minutes early never costs an extra round trip in practice.
const ExpiryMargin = 120 * time.Second

// TokenSource wraps oauth2.TokenSource with persistence.
// It refreshes tokens before they expire and calls onRefresh when a new
// token is obtained so the caller can store it. Safe for concurrent use;
// concurrent callers share a single refresh.
type TokenSource struct {
	config    *oauth2.Config
	token     *oauth2.Token
	onRefresh func(*oauth2.Token) error
	mu        sync.Mutex
}

// NewTokenSource creates a TokenSource that refreshes tokens as needed
// and calls onRefresh to persist new tokens.
func NewTokenSource(cfg *oauth2.Config, token *oauth2.Token, onRefresh func(*oauth2.Token) error) *TokenSource {
	return &TokenSource{
		config:    cfg,
		token:     token,
		onRefresh: onRefresh,
	}
}

// Token returns a valid token, refreshing if it expires within the margin.
func (ts *TokenSource) Token() (*oauth2.Token, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if time.Until(ts.token.Expiry) > ExpiryMargin {
		return ts.token, nil
	}

	return ts.refreshLocked()
}

// ForceRefresh discards the current access token and obtains a fresh one,
// regardless of the recorded expiry. Used when the API rejects a token
// that still looks valid locally.
func (ts *TokenSource) ForceRefresh() (*oauth2.Token, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	// Backdating the expiry makes the oauth2 source perform a real refresh
	// instead of handing back the cached access token.
	expired := *ts.token
	expired.Expiry = time.Now().Add(-time.Minute)
	ts.token = &expired

	return ts.refreshLocked()
}

// refreshLocked exchanges the refresh token for a new token and persists it.
// Caller must hold ts.mu.
func (ts *TokenSource) refreshLocked() (*oauth2.Token, error) {
	ctx := context.Background()
	src := ts.config.TokenSource(ctx, ts.token)
	newToken, err := src.Token()
	if err != nil {
		return nil, err
	}

	if ts.onRefresh != nil {
		if err := ts.onRefresh(newToken); err != nil {
			return nil, err
		}
	}

	ts.token = newToken
	return newToken, nil
}

// IsExpired checks if the current token is expired or expires within the margin
func (ts *TokenSource) IsExpired() bool {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return time.Until(ts.token.Expiry) <= ExpiryMargin
}

// CurrentToken returns the current token without refreshing
func (ts *TokenSource) CurrentToken() *oauth2.Token {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.token
}
