// ABOUTME: Account registration, login, and session-cookie resolution on top of the store.
// ABOUTME: Passwords are bcrypt-hashed; sessions are opaque tokens carried in an HttpOnly cookie.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Craz6yDev/MM-207/store"
)

// SessionCookie is the name of the browser session cookie.
const SessionCookie = "solitaire_session"

var ErrInvalidCredentials = errors.New("invalid username or password")

type contextKey string

const userIDKey contextKey = "userID"

// Auth handles accounts and sessions. It owns no HTTP routes itself; the web
// layer calls into it and uses its middleware.
type Auth struct {
	store      *store.Store
	sessionTTL time.Duration
}

// NewAuth creates an Auth service backed by the given store.
func NewAuth(st *store.Store, sessionTTL time.Duration) *Auth {
	return &Auth{store: st, sessionTTL: sessionTTL}
}

// Register creates an account and opens a session for it.
func (a *Auth) Register(username, password, email string) (store.User, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return store.User{}, "", err
	}

	user, err := a.store.CreateUser(username, string(hash), email)
	if err != nil {
		return store.User{}, "", err
	}

	token, err := a.store.CreateSession(user.ID, a.sessionTTL)
	if err != nil {
		return store.User{}, "", err
	}
	return user, token, nil
}

// Login verifies credentials and opens a session. Unknown usernames and wrong
// passwords both return ErrInvalidCredentials so callers cannot probe accounts.
func (a *Auth) Login(username, password string) (store.User, string, error) {
	user, err := a.store.UserByUsername(username)
	if errors.Is(err, store.ErrNoSuchUser) {
		return store.User{}, "", ErrInvalidCredentials
	}
	if err != nil {
		return store.User{}, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return store.User{}, "", ErrInvalidCredentials
	}

	token, err := a.store.CreateSession(user.ID, a.sessionTTL)
	if err != nil {
		return store.User{}, "", err
	}
	return user, token, nil
}

// Logout invalidates a session token.
func (a *Auth) Logout(token string) error {
	return a.store.DeleteSession(token)
}

// UserByID exposes account lookup to the web layer.
func (a *Auth) UserByID(id string) (store.User, error) {
	return a.store.UserByID(id)
}

// SetSessionCookie writes the session token as an HttpOnly cookie.
func (a *Auth) SetSessionCookie(w http.ResponseWriter, r *http.Request, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(a.sessionTTL / time.Second),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearSessionCookie expires the session cookie.
func (a *Auth) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// Middleware resolves the session cookie to a user id and stores it in the
// request context. Requests without a valid session pass through anonymous;
// handlers that require login check UserID themselves.
func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookie)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		userID, err := a.store.SessionUser(cookie.Value)
		if err != nil {
			// Stale or forged token: treat as anonymous.
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserID returns the authenticated user id from the request context, or empty
// for anonymous requests.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// SessionToken returns the raw session cookie value, if any.
func SessionToken(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}
