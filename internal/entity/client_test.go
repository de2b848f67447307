package entity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFieldsPreservesOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/entity/fields/WqUser" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":200,"message":"ok","data":{"zeta":{"type":"String"},"alpha":{"type":"Integer"}}}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	fields, err := c.Fields(context.Background(), "WqUser")
	if err != nil {
		t.Fatalf("fields: %v", err)
	}
	if diff := cmp.Diff([]string{"zeta", "alpha"}, fields.Names()); diff != "" {
		t.Fatalf("order diff (-want +got)\n%s", diff)
	}
}

func TestQuerySendsBatchRequest(t *testing.T) {
	var got BatchRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/batch" || r.Method != http.MethodPost {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":200,"message":"ok","data":{"content":[{"name":"张三"}],"totalElements":7}}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	page, err := c.Query(context.Background(), "user", Query{
		PageNum:    1,
		PageSize:   20,
		Conditions: map[string]any{"name": map[string]any{"$like": "张"}},
	})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if got.Entity != "user" || got.Action != ActionQuery || got.PageNum != 1 || got.PageSize != 20 {
		t.Fatalf("request = %+v", got)
	}
	if page.TotalElements != 7 || len(page.Content) != 1 {
		t.Fatalf("page = %+v", page)
	}
}

func TestBatchEnvelopeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		// HTTP 200 with a non-200 envelope code is still a failure
		w.Write([]byte(`{"code":500,"message":"entity not found"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	if err := c.Create(context.Background(), "user", map[string]any{"name": "x"}); err == nil {
		t.Fatal("expected envelope error")
	}
}

func TestDoRefreshesOnceOn401(t *testing.T) {
	var apiCalls, refreshCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":200,"data":{"accessToken":"fresh","refreshToken":"r2"}}`))
	})
	mux.HandleFunc("/api/batch", func(w http.ResponseWriter, r *http.Request) {
		apiCalls.Add(1)
		if r.Header.Get("Authorization") != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":200,"message":"ok"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ts := NewTokenSource("stale", "r1", srv.URL+"/auth/refresh")
	c := New(srv.URL, WithTokenSource(ts))
	if err := c.Delete(context.Background(), "user", "id1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := apiCalls.Load(); got != 2 {
		t.Fatalf("api calls = %d, want 2 (one failure, one retry)", got)
	}
	if got := refreshCalls.Load(); got != 1 {
		t.Fatalf("refresh calls = %d, want 1", got)
	}
}

func TestDoGivesUpAfterOneRetry(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":200,"data":{"accessToken":"still-bad"}}`))
	})
	var apiCalls atomic.Int32
	mux.HandleFunc("/api/batch", func(w http.ResponseWriter, r *http.Request) {
		apiCalls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ts := NewTokenSource("stale", "r1", srv.URL+"/auth/refresh")
	c := New(srv.URL, WithTokenSource(ts))
	if err := c.Delete(context.Background(), "user", "id1"); err == nil {
		t.Fatal("expected error after failed retry")
	}
	if got := apiCalls.Load(); got != 2 {
		t.Fatalf("api calls = %d, want exactly 2", got)
	}
}
