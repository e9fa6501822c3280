// ABOUTME: HTTP server exposing the solitaire API behind a chi router.
// ABOUTME: Wires the game registry, auth service, and live-watch websocket endpoint.
package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Craz6yDev/MM-207/server"
	"github.com/Craz6yDev/MM-207/store"
)

// Server is the solitaire HTTP server.
type Server struct {
	registry *server.Registry
	auth     *server.Auth
	store    *store.Store
	router   chi.Router
	addr     string
}

// ServerConfig holds the dependencies and listen address for the web server.
type ServerConfig struct {
	Addr     string
	Registry *server.Registry
	Auth     *server.Auth
	Store    *store.Store
}

// NewServer creates a Server and sets up routing.
func NewServer(cfg ServerConfig) *Server {
	s := &Server{
		registry: cfg.Registry,
		auth:     cfg.Auth,
		store:    cfg.Store,
		addr:     cfg.Addr,
	}
	s.router = s.buildRouter()
	return s
}

// ServeHTTP delegates to the chi router, satisfying http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe starts the HTTP server on the configured address with
// appropriate timeouts to prevent resource exhaustion from slow clients.
// WriteTimeout stays unset because watch connections are long-lived.
func (s *Server) ListenAndServe() error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
	return srv.ListenAndServe()
}

// buildRouter constructs the chi router with all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(requestLogger)
	r.Use(middleware.StripSlashes)
	r.Use(middleware.Recoverer)
	r.Use(s.auth.Middleware)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.Post("/logout", s.handleLogout)
		r.Get("/me", s.handleCurrentUser)

		r.Route("/games", func(r chi.Router) {
			r.Post("/", s.handleCreateGame)

			r.Route("/{gameID}", func(r chi.Router) {
				r.Get("/", s.handleGetGame)
				r.Delete("/", s.handleDeleteGame)
				r.Get("/watch", s.handleWatchGame)

				r.Post("/draw", s.handleDraw)
				r.Post("/graveyard-to-foundation/{foundationIndex}", s.handleGraveyardToFoundation)
				r.Post("/graveyard-to-board/{boardIndex}", s.handleGraveyardToBoard)
				r.Post("/board-to-foundation/{boardIndex}/{foundationIndex}", s.handleBoardToFoundation)
				r.Post("/board-to-board/{fromIndex}/{toIndex}/{cardIndex}", s.handleBoardToBoard)
			})
		})

		r.Route("/saves", func(r chi.Router) {
			r.Post("/", s.handleCreateSave)
			r.Get("/", s.handleListSaves)
			r.Get("/{saveName}", s.handleGetSave)
			r.Delete("/{saveName}", s.handleDeleteSave)
		})
	})

	return r
}

// handleHealth reports liveness and how many game actors are resident.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"residentGames": s.registry.Resident(),
	})
}
