package entity

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"
)

// ErrNoRefresh is returned when a refresh is needed but the source has no
// refresh endpoint configured (static service tokens).
var ErrNoRefresh = errors.New("entity: token expired and no refresh endpoint configured")

// refreshState is the explicit state of the single-flight refresh machine.
type refreshState int

const (
	stateIdle refreshState = iota
	stateRefreshing
)

type refreshResult struct {
	token string
	err   error
}

// TokenSource holds the bearer token for the backend API and refreshes it
// through the auth refresh endpoint. Concurrent callers hitting an expired
// token share one in-flight refresh: the first caller moves the machine from
// idle to refreshing, later callers queue on a channel and are resumed when
// the refresh settles.
type TokenSource struct {
	mu      sync.Mutex
	state   refreshState
	waiters []chan refreshResult

	access  string
	refresh string

	http       *resty.Client
	refreshURL string
	leeway     time.Duration
}

// NewTokenSource returns a source seeded with the given tokens. refreshURL
// may be empty for static tokens.
func NewTokenSource(access, refresh, refreshURL string) *TokenSource {
	return &TokenSource{
		access:     access,
		refresh:    refresh,
		http:       resty.New().SetTimeout(10 * time.Second),
		refreshURL: refreshURL,
		leeway:     30 * time.Second,
	}
}

// Token returns a bearer token, refreshing first when the cached one is
// within the expiry leeway.
func (t *TokenSource) Token(ctx context.Context) (string, error) {
	t.mu.Lock()
	tok := t.access
	t.mu.Unlock()
	if tok != "" && !t.expiringSoon(tok) {
		return tok, nil
	}
	return t.Refresh(ctx, tok)
}

// Refresh exchanges the refresh token for a new access token. stale is the
// token the caller just failed with; if another caller already replaced it,
// the fresh token is returned without a second round trip.
func (t *TokenSource) Refresh(ctx context.Context, stale string) (string, error) {
	t.mu.Lock()
	if t.access != "" && t.access != stale && !t.expiringSoon(t.access) {
		tok := t.access
		t.mu.Unlock()
		return tok, nil
	}
	if t.refreshURL == "" {
		t.mu.Unlock()
		return "", ErrNoRefresh
	}
	if t.state == stateRefreshing {
		ch := make(chan refreshResult, 1)
		t.waiters = append(t.waiters, ch)
		t.mu.Unlock()
		select {
		case res := <-ch:
			return res.token, res.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	t.state = stateRefreshing
	refresh := t.refresh
	t.mu.Unlock()

	tok, newRefresh, err := t.doRefresh(ctx, refresh)

	t.mu.Lock()
	t.state = stateIdle
	if err == nil {
		t.access = tok
		if newRefresh != "" {
			t.refresh = newRefresh
		}
	}
	waiters := t.waiters
	t.waiters = nil
	t.mu.Unlock()

	for _, ch := range waiters {
		ch <- refreshResult{token: tok, err: err}
	}
	return tok, err
}

func (t *TokenSource) doRefresh(ctx context.Context, refresh string) (access, newRefresh string, err error) {
	var out struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Data    struct {
			AccessToken  string `json:"accessToken"`
			RefreshToken string `json:"refreshToken"`
		} `json:"data"`
	}
	resp, err := t.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"refreshToken": refresh}).
		SetResult(&out).
		Post(t.refreshURL)
	if err != nil {
		return "", "", fmt.Errorf("refresh token: %w", err)
	}
	if resp.IsError() || out.Code != 200 || out.Data.AccessToken == "" {
		return "", "", fmt.Errorf("refresh token: %s (code %d)", resp.Status(), out.Code)
	}
	return out.Data.AccessToken, out.Data.RefreshToken, nil
}

// expiringSoon inspects the token's exp claim without verifying the
// signature; the backend is the authority, this is only a local shortcut.
func (t *TokenSource) expiringSoon(tok string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		return false // opaque token: let the backend decide via 401
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return time.Until(exp.Time) < t.leeway
}
