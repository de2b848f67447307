package entity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "svc",
		"exp": exp.Unix(),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func refreshServer(t *testing.T, calls *atomic.Int32, delay time.Duration) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		time.Sleep(delay)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":200,"data":{"accessToken":"fresh","refreshToken":"r2"}}`))
	}))
}

func TestTokenReturnsCachedWhenValid(t *testing.T) {
	var calls atomic.Int32
	srv := refreshServer(t, &calls, 0)
	defer srv.Close()

	valid := signedToken(t, time.Now().Add(time.Hour))
	ts := NewTokenSource(valid, "r1", srv.URL)
	got, err := ts.Token(context.Background())
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if got != valid {
		t.Fatalf("token = %q, want cached", got)
	}
	if calls.Load() != 0 {
		t.Fatal("refresh called for a valid token")
	}
}

func TestTokenRefreshesWhenExpiringSoon(t *testing.T) {
	var calls atomic.Int32
	srv := refreshServer(t, &calls, 0)
	defer srv.Close()

	nearExpiry := signedToken(t, time.Now().Add(5*time.Second))
	ts := NewTokenSource(nearExpiry, "r1", srv.URL)
	got, err := ts.Token(context.Background())
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if got != "fresh" {
		t.Fatalf("token = %q, want fresh", got)
	}
	if calls.Load() != 1 {
		t.Fatalf("refresh calls = %d", calls.Load())
	}
}

func TestRefreshSingleFlight(t *testing.T) {
	var calls atomic.Int32
	srv := refreshServer(t, &calls, 100*time.Millisecond)
	defer srv.Close()

	expired := signedToken(t, time.Now().Add(-time.Minute))
	ts := NewTokenSource(expired, "r1", srv.URL)

	const n = 16
	var wg sync.WaitGroup
	errs := make([]error, n)
	toks := make([]string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			toks[i], errs[i] = ts.Token(context.Background())
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d: %v", i, errs[i])
		}
		if toks[i] != "fresh" {
			t.Fatalf("caller %d token = %q", i, toks[i])
		}
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("refresh calls = %d, want 1 shared flight", got)
	}
}

func TestRefreshSkipsWhenAlreadyReplaced(t *testing.T) {
	var calls atomic.Int32
	srv := refreshServer(t, &calls, 0)
	defer srv.Close()

	ts := NewTokenSource(signedToken(t, time.Now().Add(time.Hour)), "r1", srv.URL)
	got, err := ts.Refresh(context.Background(), "some-older-token")
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if got == "" || got == "some-older-token" {
		t.Fatalf("token = %q", got)
	}
	if calls.Load() != 0 {
		t.Fatal("round trip made although a fresh token was cached")
	}
}

func TestRefreshWithoutEndpoint(t *testing.T) {
	ts := NewTokenSource("static-service-token", "", "")
	tok, err := ts.Token(context.Background())
	if err != nil || tok != "static-service-token" {
		t.Fatalf("token = %q, err = %v", tok, err)
	}
	if _, err := ts.Refresh(context.Background(), tok); err != ErrNoRefresh {
		t.Fatalf("err = %v, want ErrNoRefresh", err)
	}
}

func TestRefreshWaiterHonorsContext(t *testing.T) {
	var calls atomic.Int32
	srv := refreshServer(t, &calls, 300*time.Millisecond)
	defer srv.Close()

	expired := signedToken(t, time.Now().Add(-time.Minute))
	ts := NewTokenSource(expired, "r1", srv.URL)

	go ts.Token(context.Background()) // occupies the refresh flight
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := ts.Token(ctx); err != context.DeadlineExceeded {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
}
