// ABOUTME: Bounded in-memory registry of live game actors with TTL cleanup and LRU eviction.
// ABOUTME: Faults games in from the store on miss and persists snapshots after every successful move.
package server

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/Craz6yDev/MM-207/game"
)

// GameStore is the persistence adapter the registry needs. *store.Store
// satisfies it; tests may substitute their own.
type GameStore interface {
	CreateGame(id ulid.ULID, ownerID string, status game.Status) error
	SaveGameState(g *game.Game) error
	LoadGameState(id ulid.ULID) (*game.Game, error)
	DeleteGame(id ulid.ULID) error
	GameOwner(id ulid.ULID) (string, error)
}

type registryEntry struct {
	handle     *game.Handle
	lastAccess time.Time
}

// Registry keeps one running actor per active game, capped at maxGames.
// Idle actors are evicted back to the store; misses fault the game back in.
type Registry struct {
	mu       sync.Mutex
	store    GameStore
	games    map[ulid.ULID]*registryEntry
	maxGames int
	ttl      time.Duration
}

// NewRegistry creates a registry backed by the given store.
func NewRegistry(st GameStore, maxGames int, ttl time.Duration) *Registry {
	return &Registry{
		store:    st,
		games:    make(map[ulid.ULID]*registryEntry),
		maxGames: maxGames,
		ttl:      ttl,
	}
}

// Create deals a fresh shuffled game, persists it, and spawns its actor.
// Owner may be empty for anonymous games.
func (r *Registry) Create(ownerID string) (*game.Handle, error) {
	g := game.NewGame(game.NewULID(), game.ShuffledDeck())

	if err := r.store.CreateGame(g.ID, ownerID, g.Status); err != nil {
		return nil, fmt.Errorf("register game: %w", err)
	}
	if err := r.store.SaveGameState(g); err != nil {
		return nil, fmt.Errorf("persist initial deal: %w", err)
	}

	handle := game.SpawnActor(g)

	r.mu.Lock()
	r.evictIfFullLocked()
	r.games[handle.GameID] = &registryEntry{handle: handle, lastAccess: time.Now()}
	r.mu.Unlock()

	if _, err := handle.AnnounceCreated(); err != nil {
		log.Printf("component=registry action=announce_created game=%s error=%v", handle.GameID, err)
	}
	return handle, nil
}

// Get returns the live actor for a game, faulting it in from the store if it
// is not resident. Unknown ids return game.NotFoundError.
func (r *Registry) Get(id ulid.ULID) (*game.Handle, error) {
	r.mu.Lock()
	if entry, ok := r.games[id]; ok {
		entry.lastAccess = time.Now()
		r.mu.Unlock()
		return entry.handle, nil
	}
	r.mu.Unlock()

	g, err := r.store.LoadGameState(id)
	if err != nil {
		return nil, fmt.Errorf("load game: %w", err)
	}
	if g == nil {
		return nil, &game.NotFoundError{GameID: id}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Another request may have faulted it in while we were loading.
	if entry, ok := r.games[id]; ok {
		entry.lastAccess = time.Now()
		return entry.handle, nil
	}

	handle := game.SpawnActor(g)
	r.evictIfFullLocked()
	r.games[id] = &registryEntry{handle: handle, lastAccess: time.Now()}
	return handle, nil
}

// Touch refreshes a resident game's last-access time without faulting it in.
// Watch connections call it so attached spectators keep the game live.
func (r *Registry) Touch(id ulid.ULID) {
	r.mu.Lock()
	if entry, ok := r.games[id]; ok {
		entry.lastAccess = time.Now()
	}
	r.mu.Unlock()
}

// Apply routes a command to a game's actor and, when the move succeeded,
// persists the new snapshot before returning.
func (r *Registry) Apply(id ulid.ULID, cmd game.Command) (game.MoveResult, *game.Game, error) {
	handle, err := r.Get(id)
	if err != nil {
		return game.MoveResult{}, nil, err
	}

	result, err := handle.SendCommand(cmd)
	if err != nil {
		return game.MoveResult{}, nil, fmt.Errorf("send command: %w", err)
	}

	snapshot := handle.Snapshot()
	if result.Moved {
		if err := r.store.SaveGameState(snapshot); err != nil {
			return result, snapshot, fmt.Errorf("persist move: %w", err)
		}
	}
	return result, snapshot, nil
}

// Delete stops a game's actor and removes it from the store.
func (r *Registry) Delete(id ulid.ULID) error {
	r.mu.Lock()
	if entry, ok := r.games[id]; ok {
		entry.handle.Stop()
		delete(r.games, id)
	}
	r.mu.Unlock()

	if _, err := r.store.GameOwner(id); err != nil {
		return err
	}
	return r.store.DeleteGame(id)
}

// evictIfFullLocked evicts least-recently-used actors until there is room for
// one more. Caller must hold r.mu.
func (r *Registry) evictIfFullLocked() {
	for len(r.games) >= r.maxGames {
		var oldestID ulid.ULID
		var oldestTime time.Time
		for id, entry := range r.games {
			if oldestTime.IsZero() || entry.lastAccess.Before(oldestTime) {
				oldestID = id
				oldestTime = entry.lastAccess
			}
		}
		r.evictLocked(oldestID)
	}
}

// evictLocked saves an actor's snapshot, stops it, and drops it from the map.
func (r *Registry) evictLocked(id ulid.ULID) {
	entry, ok := r.games[id]
	if !ok {
		return
	}
	if err := r.store.SaveGameState(entry.handle.Snapshot()); err != nil {
		log.Printf("component=registry action=evict game=%s error=%v", id, err)
	}
	entry.handle.Stop()
	delete(r.games, id)
}

// Cleanup evicts actors idle longer than the TTL.
func (r *Registry) Cleanup() {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := time.Now().Add(-r.ttl)
	for id, entry := range r.games {
		if entry.lastAccess.Before(cutoff) {
			r.evictLocked(id)
		}
	}
}

// StartCleanup starts a background cleanup goroutine and returns a stop function.
func (r *Registry) StartCleanup(interval time.Duration) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				r.Cleanup()
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	return func() {
		close(done)
	}
}

// Shutdown saves and stops every resident actor. Called once on server exit.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id := range r.games {
		r.evictLocked(id)
	}
}

// Resident reports how many actors are currently live. Used by /health.
func (r *Registry) Resident() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.games)
}
