package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

// dummyHandler is a placeholder that records if it was called and the context it received.
type dummyHandler struct {
	called bool
	ctx    context.Context
}

func (d *dummyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	d.called = true
	d.ctx = r.Context()
	w.WriteHeader(http.StatusOK)
}

type fakeAuthenticator struct {
	uid string
	err error
}

func (f *fakeAuthenticator) Authenticate(ctx context.Context, token string) (string, error) {
	return f.uid, f.err
}

func TestTokenAuth_NoTokenIsAnonymous(t *testing.T) {
	dummy := &dummyHandler{}
	h := TokenAuth(&fakeAuthenticator{}, zap.NewNop())(dummy)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/clipboards/abc123", nil)
	h.ServeHTTP(rec, req)

	if !dummy.called {
		t.Error("expected next handler to be called without a token")
	}
	if uid := GetUserIDFromContext(dummy.ctx); uid != "" {
		t.Errorf("expected anonymous request, got uid %q", uid)
	}
}

func TestTokenAuth_ValidToken(t *testing.T) {
	dummy := &dummyHandler{}
	h := TokenAuth(&fakeAuthenticator{uid: "u1"}, zap.NewNop())(dummy)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/clipboards", nil)
	req.Header.Set("Authorization", "Bearer tok-1")
	h.ServeHTTP(rec, req)

	if !dummy.called {
		t.Error("expected next handler to be called")
	}
	if uid := GetUserIDFromContext(dummy.ctx); uid != "u1" {
		t.Errorf("expected context uid 'u1', got %q", uid)
	}
}

func TestTokenAuth_UnknownTokenIsAnonymous(t *testing.T) {
	dummy := &dummyHandler{}
	h := TokenAuth(&fakeAuthenticator{uid: ""}, zap.NewNop())(dummy)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/clipboards", nil)
	req.Header.Set("Authorization", "Bearer tok-x")
	h.ServeHTTP(rec, req)

	if !dummy.called {
		t.Error("expected next handler to be called")
	}
	if uid := GetUserIDFromContext(dummy.ctx); uid != "" {
		t.Errorf("expected anonymous request, got uid %q", uid)
	}
}

func TestTokenAuth_LookupErrorFallsBackToAnonymous(t *testing.T) {
	dummy := &dummyHandler{}
	h := TokenAuth(&fakeAuthenticator{err: errors.New("db down")}, zap.NewNop())(dummy)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/clipboards", nil)
	req.Header.Set("Authorization", "Bearer tok-1")
	h.ServeHTTP(rec, req)

	if !dummy.called {
		t.Error("expected next handler to be called despite lookup failure")
	}
	if uid := GetUserIDFromContext(dummy.ctx); uid != "" {
		t.Errorf("expected anonymous request, got uid %q", uid)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 OK, got %d", rec.Code)
	}
}

func TestTokenAuth_MalformedHeaderIgnored(t *testing.T) {
	dummy := &dummyHandler{}
	h := TokenAuth(&fakeAuthenticator{uid: "u1"}, zap.NewNop())(dummy)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/clipboards", nil)
	req.Header.Set("Authorization", "Basic dXNlcg==")
	h.ServeHTTP(rec, req)

	if uid := GetUserIDFromContext(dummy.ctx); uid != "" {
		t.Errorf("expected anonymous request for non-bearer header, got uid %q", uid)
	}
}
