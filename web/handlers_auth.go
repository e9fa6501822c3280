// ABOUTME: Account handlers: register, login, logout, and current-user lookup.
// ABOUTME: Sessions ride in an HttpOnly cookie set by the auth service.
package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Craz6yDev/MM-207/server"
	"github.com/Craz6yDev/MM-207/store"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email,omitempty"`
}

func userView(u store.User) map[string]any {
	return map[string]any{
		"id":       u.ID,
		"username": u.Username,
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	user, token, err := s.auth.Register(req.Username, req.Password, req.Email)
	if errors.Is(err, store.ErrUsernameTaken) {
		respondError(w, http.StatusConflict, "username already taken")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "could not register user")
		return
	}

	s.auth.SetSessionCookie(w, r, token)
	respondJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"user":    userView(user),
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	user, token, err := s.auth.Login(req.Username, req.Password)
	if errors.Is(err, server.ErrInvalidCredentials) {
		respondError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "could not log in")
		return
	}

	s.auth.SetSessionCookie(w, r, token)
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    userView(user),
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := server.SessionToken(r); token != "" {
		if err := s.auth.Logout(token); err != nil {
			respondError(w, http.StatusInternalServerError, "could not log out")
			return
		}
	}
	s.auth.ClearSessionCookie(w)
	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID := server.UserID(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "not logged in")
		return
	}

	user, err := s.auth.UserByID(userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "could not load user")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    userView(user),
	})
}
