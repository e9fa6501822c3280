// ABOUTME: Game lifecycle and move handlers for the solitaire API.
// ABOUTME: Validates path parameters before touching game state; illegal moves return success=false with 200.
package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"

	"github.com/Craz6yDev/MM-207/game"
	"github.com/Craz6yDev/MM-207/server"
)

// gameIDParam parses the {gameID} path parameter. A malformed id cannot name
// any game, so callers treat false as not-found.
func gameIDParam(r *http.Request) (ulid.ULID, bool) {
	id, err := ulid.Parse(chi.URLParam(r, "gameID"))
	if err != nil {
		return ulid.ULID{}, false
	}
	return id, true
}

// indexParam parses a numeric path parameter and range-checks it against
// [0, max]. Pass max < 0 to skip the upper bound.
func indexParam(r *http.Request, name string, max int) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || n < 0 {
		return 0, false
	}
	if max >= 0 && n > max {
		return 0, false
	}
	return n, true
}

func elapsedMillis(g *game.Game) int64 {
	return g.ElapsedTime().Milliseconds()
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	handle, err := s.registry.Create(server.UserID(r.Context()))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "could not create game")
		return
	}

	g := handle.Snapshot()
	respondJSON(w, http.StatusCreated, map[string]any{
		"gameId":       g.ID.String(),
		"board":        g.Board,
		"foundation":   g.Foundation,
		"libraryCount": len(g.Library),
		"graveyardTop": g.GraveyardTop(),
		"moves":        g.Moves,
	})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	id, ok := gameIDParam(r)
	if !ok {
		respondError(w, http.StatusNotFound, "game not found")
		return
	}

	handle, err := s.registry.Get(id)
	if err != nil {
		s.respondGameError(w, err)
		return
	}

	g := handle.Snapshot()
	respondJSON(w, http.StatusOK, map[string]any{
		"gameId":       g.ID.String(),
		"board":        g.Board,
		"foundation":   g.Foundation,
		"libraryCount": len(g.Library),
		"graveyardTop": g.GraveyardTop(),
		"graveyard":    g.Graveyard,
		"moves":        g.Moves,
		"status":       g.Status,
		"elapsedTime":  elapsedMillis(g),
	})
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	id, ok := gameIDParam(r)
	if !ok {
		respondError(w, http.StatusNotFound, "game not found")
		return
	}

	owner, err := s.store.GameOwner(id)
	if err != nil {
		s.respondGameError(w, err)
		return
	}
	if owner != "" && owner != server.UserID(r.Context()) {
		respondError(w, http.StatusForbidden, "not your game")
		return
	}

	if err := s.registry.Delete(id); err != nil {
		s.respondGameError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleDraw(w http.ResponseWriter, r *http.Request) {
	id, ok := gameIDParam(r)
	if !ok {
		respondError(w, http.StatusNotFound, "game not found")
		return
	}

	result, g, err := s.registry.Apply(id, game.DrawCommand{})
	if err != nil {
		s.respondGameError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":      result.Moved,
		"libraryCount": len(g.Library),
		"graveyardTop": g.GraveyardTop(),
		"moves":        g.Moves,
	})
}

func (s *Server) handleGraveyardToFoundation(w http.ResponseWriter, r *http.Request) {
	id, ok := gameIDParam(r)
	if !ok {
		respondError(w, http.StatusNotFound, "game not found")
		return
	}
	pile, ok := indexParam(r, "foundationIndex", game.FoundationPiles-1)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid foundation index")
		return
	}

	result, g, err := s.registry.Apply(id, game.MoveGraveyardToFoundationCommand{Pile: pile})
	if err != nil {
		s.respondGameError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":      result.Moved,
		"foundation":   g.Foundation,
		"graveyardTop": g.GraveyardTop(),
		"moves":        g.Moves,
		"status":       g.Status,
	})
}

func (s *Server) handleGraveyardToBoard(w http.ResponseWriter, r *http.Request) {
	id, ok := gameIDParam(r)
	if !ok {
		respondError(w, http.StatusNotFound, "game not found")
		return
	}
	column, ok := indexParam(r, "boardIndex", game.BoardColumns-1)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid board index")
		return
	}

	result, g, err := s.registry.Apply(id, game.MoveGraveyardToBoardCommand{Column: column})
	if err != nil {
		s.respondGameError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":      result.Moved,
		"board":        g.Board,
		"graveyardTop": g.GraveyardTop(),
		"moves":        g.Moves,
	})
}

func (s *Server) handleBoardToFoundation(w http.ResponseWriter, r *http.Request) {
	id, ok := gameIDParam(r)
	if !ok {
		respondError(w, http.StatusNotFound, "game not found")
		return
	}
	column, ok := indexParam(r, "boardIndex", game.BoardColumns-1)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid board index")
		return
	}
	pile, ok := indexParam(r, "foundationIndex", game.FoundationPiles-1)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid foundation index")
		return
	}

	result, g, err := s.registry.Apply(id, game.MoveBoardToFoundationCommand{Column: column, Pile: pile})
	if err != nil {
		s.respondGameError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":    result.Moved,
		"board":      g.Board,
		"foundation": g.Foundation,
		"moves":      g.Moves,
		"status":     g.Status,
	})
}

func (s *Server) handleBoardToBoard(w http.ResponseWriter, r *http.Request) {
	id, ok := gameIDParam(r)
	if !ok {
		respondError(w, http.StatusNotFound, "game not found")
		return
	}
	from, ok := indexParam(r, "fromIndex", game.BoardColumns-1)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid source board index")
		return
	}
	to, ok := indexParam(r, "toIndex", game.BoardColumns-1)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid target board index")
		return
	}
	cardIdx, ok := indexParam(r, "cardIndex", -1)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid card index")
		return
	}

	result, g, err := s.registry.Apply(id, game.MoveBoardToBoardCommand{From: from, To: to, CardIndex: cardIdx})
	if err != nil {
		s.respondGameError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": result.Moved,
		"board":   g.Board,
		"moves":   g.Moves,
	})
}

// respondGameError maps registry errors onto HTTP statuses.
func (s *Server) respondGameError(w http.ResponseWriter, err error) {
	var nf *game.NotFoundError
	switch {
	case errors.As(err, &nf):
		respondError(w, http.StatusNotFound, "game not found")
	case errors.Is(err, game.ErrActorBusy):
		w.Header().Set("Retry-After", "1")
		respondError(w, http.StatusServiceUnavailable, "game is busy")
	default:
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}
