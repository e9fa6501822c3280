// ABOUTME: Tests for account registration, login, and session middleware.
// ABOUTME: Uses a temp-dir store; exercises the cookie round trip through httptest.
package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/Craz6yDev/MM-207/store"
)

func newTestAuth(t *testing.T) *Auth {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return NewAuth(st, time.Hour)
}

func TestRegisterAndLogin(t *testing.T) {
	auth := newTestAuth(t)

	user, token, err := auth.Register("alice", "hunter2", "")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Username != "alice" || token == "" {
		t.Errorf("user = %+v, token = %q", user, token)
	}
	if user.PasswordHash == "hunter2" {
		t.Error("password stored in the clear")
	}

	loggedIn, token2, err := auth.Login("alice", "hunter2")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if loggedIn.ID != user.ID {
		t.Errorf("login user id = %q, want %q", loggedIn.ID, user.ID)
	}
	if token2 == token {
		t.Error("login should mint a fresh session token")
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	auth := newTestAuth(t)

	if _, _, err := auth.Register("bob", "secret", ""); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if _, _, err := auth.Login("bob", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := auth.Login("nobody", "secret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	auth := newTestAuth(t)

	if _, _, err := auth.Register("carol", "pw1", ""); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}
	if _, _, err := auth.Register("carol", "pw2", ""); !errors.Is(err, store.ErrUsernameTaken) {
		t.Errorf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestMiddlewareResolvesSession(t *testing.T) {
	auth := newTestAuth(t)

	user, token, err := auth.Register("dave", "pw", "")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	var gotID string
	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = UserID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if gotID != user.ID {
		t.Errorf("context user = %q, want %q", gotID, user.ID)
	}
}

func TestMiddlewareAnonymousWithoutCookie(t *testing.T) {
	auth := newTestAuth(t)

	var gotID string
	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = UserID(r.Context())
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if gotID != "" {
		t.Errorf("anonymous request resolved to user %q", gotID)
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	auth := newTestAuth(t)

	_, token, err := auth.Register("erin", "pw", "")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := auth.Logout(token); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	var gotID string
	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = UserID(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if gotID != "" {
		t.Errorf("logged-out session resolved to user %q", gotID)
	}
}
