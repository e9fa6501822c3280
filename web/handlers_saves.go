// ABOUTME: Named-save handlers letting logged-in players bookmark games.
// ABOUTME: Saves reference a game id; deleting a save never deletes the game.
package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"

	"github.com/Craz6yDev/MM-207/server"
	"github.com/Craz6yDev/MM-207/store"
)

type createSaveRequest struct {
	Name   string `json:"name"`
	GameID string `json:"gameId"`
}

func saveView(sg store.SavedGame) map[string]any {
	return map[string]any{
		"name":      sg.Name,
		"gameId":    sg.GameID.String(),
		"createdAt": sg.CreatedAt,
	}
}

func (s *Server) handleCreateSave(w http.ResponseWriter, r *http.Request) {
	ownerID := server.UserID(r.Context())
	if ownerID == "" {
		respondError(w, http.StatusUnauthorized, "not logged in")
		return
	}

	var req createSaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "save name is required")
		return
	}
	gameID, err := ulid.Parse(req.GameID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid game id")
		return
	}

	// The save must point at a real game.
	if _, err := s.store.GameOwner(gameID); err != nil {
		respondError(w, http.StatusNotFound, "game not found")
		return
	}

	if err := s.store.SaveGame(ownerID, req.Name, gameID); err != nil {
		respondError(w, http.StatusInternalServerError, "could not save game")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{"success": true})
}

func (s *Server) handleListSaves(w http.ResponseWriter, r *http.Request) {
	ownerID := server.UserID(r.Context())
	if ownerID == "" {
		respondError(w, http.StatusUnauthorized, "not logged in")
		return
	}

	saves, err := s.store.SavedGames(ownerID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "could not list saves")
		return
	}

	views := make([]map[string]any, 0, len(saves))
	for _, sg := range saves {
		views = append(views, saveView(sg))
	}
	respondJSON(w, http.StatusOK, map[string]any{"saves": views})
}

func (s *Server) handleGetSave(w http.ResponseWriter, r *http.Request) {
	ownerID := server.UserID(r.Context())
	if ownerID == "" {
		respondError(w, http.StatusUnauthorized, "not logged in")
		return
	}

	sg, err := s.store.SavedGameByName(ownerID, chi.URLParam(r, "saveName"))
	if errors.Is(err, store.ErrNoSuchSave) {
		respondError(w, http.StatusNotFound, "save not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "could not load save")
		return
	}
	respondJSON(w, http.StatusOK, saveView(sg))
}

func (s *Server) handleDeleteSave(w http.ResponseWriter, r *http.Request) {
	ownerID := server.UserID(r.Context())
	if ownerID == "" {
		respondError(w, http.StatusUnauthorized, "not logged in")
		return
	}

	err := s.store.DeleteSavedGame(ownerID, chi.URLParam(r, "saveName"))
	if errors.Is(err, store.ErrNoSuchSave) {
		respondError(w, http.StatusNotFound, "save not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "could not delete save")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}
