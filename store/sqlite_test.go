// ABOUTME: Tests for the SQLite persistence adapter.
// ABOUTME: Uses a temp-dir database per test; covers snapshot round trips and accounts.
package store

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/Craz6yDev/MM-207/game"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newStoredGame(t *testing.T, s *Store) *game.Game {
	t.Helper()
	g := game.NewGame(game.NewULID(), game.ShuffledDeck())
	if err := s.CreateGame(g.ID, "", g.Status); err != nil {
		t.Fatalf("CreateGame failed: %v", err)
	}
	if err := s.SaveGameState(g); err != nil {
		t.Fatalf("SaveGameState failed: %v", err)
	}
	return g
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := openTestStore(t)
	g := newStoredGame(t, s)

	loaded, err := s.LoadGameState(g.ID)
	if err != nil {
		t.Fatalf("LoadGameState failed: %v", err)
	}
	if loaded == nil {
		t.Fatal("LoadGameState returned nil for a saved game")
	}

	if !reflect.DeepEqual(loaded.Board, g.Board) {
		t.Errorf("board mismatch after round trip")
	}
	if !reflect.DeepEqual(loaded.Library, g.Library) {
		t.Errorf("library mismatch after round trip")
	}
	if !reflect.DeepEqual(loaded.Graveyard, g.Graveyard) {
		t.Errorf("graveyard mismatch after round trip")
	}
	if loaded.Status != g.Status {
		t.Errorf("status = %q, want %q", loaded.Status, g.Status)
	}
	if loaded.Moves != g.Moves {
		t.Errorf("moves = %d, want %d", loaded.Moves, g.Moves)
	}
	if !loaded.StartTime.Equal(g.StartTime.Truncate(time.Millisecond)) {
		t.Errorf("startTime = %v, want %v", loaded.StartTime, g.StartTime)
	}
}

func TestSaveReplacesPreviousSnapshot(t *testing.T) {
	s := openTestStore(t)
	g := newStoredGame(t, s)

	if moved := g.DrawFromLibrary(); !moved {
		t.Fatal("DrawFromLibrary failed on fresh game")
	}
	g.Moves++
	if err := s.SaveGameState(g); err != nil {
		t.Fatalf("second SaveGameState failed: %v", err)
	}

	loaded, err := s.LoadGameState(g.ID)
	if err != nil {
		t.Fatalf("LoadGameState failed: %v", err)
	}
	if len(loaded.Library) != len(g.Library) {
		t.Errorf("library length = %d, want %d", len(loaded.Library), len(g.Library))
	}
	if len(loaded.Graveyard) != 1 {
		t.Errorf("graveyard length = %d, want 1", len(loaded.Graveyard))
	}
	if loaded.Moves != 1 {
		t.Errorf("moves = %d, want 1", loaded.Moves)
	}
}

func TestLoadMissingGameReturnsNil(t *testing.T) {
	s := openTestStore(t)

	loaded, err := s.LoadGameState(game.NewULID())
	if err != nil {
		t.Fatalf("LoadGameState failed: %v", err)
	}
	if loaded != nil {
		t.Errorf("expected nil for unknown game, got %+v", loaded)
	}
}

func TestIncrementMoves(t *testing.T) {
	s := openTestStore(t)
	g := newStoredGame(t, s)

	for want := 1; want <= 3; want++ {
		got, err := s.IncrementMoves(g.ID)
		if err != nil {
			t.Fatalf("IncrementMoves failed: %v", err)
		}
		if got != want {
			t.Errorf("moves = %d, want %d", got, want)
		}
	}

	var nf *game.NotFoundError
	if _, err := s.IncrementMoves(game.NewULID()); !errors.As(err, &nf) {
		t.Errorf("expected NotFoundError for unknown game, got %v", err)
	}
}

func TestDeleteGameCascades(t *testing.T) {
	s := openTestStore(t)
	g := newStoredGame(t, s)

	if err := s.DeleteGame(g.ID); err != nil {
		t.Fatalf("DeleteGame failed: %v", err)
	}
	loaded, err := s.LoadGameState(g.ID)
	if err != nil {
		t.Fatalf("LoadGameState failed: %v", err)
	}
	if loaded != nil {
		t.Error("game still loadable after delete")
	}
}

func TestGameOwner(t *testing.T) {
	s := openTestStore(t)

	u, err := s.CreateUser("alice", "hash", "")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	g := game.NewGame(game.NewULID(), game.ShuffledDeck())
	if err := s.CreateGame(g.ID, u.ID, g.Status); err != nil {
		t.Fatalf("CreateGame failed: %v", err)
	}

	owner, err := s.GameOwner(g.ID)
	if err != nil {
		t.Fatalf("GameOwner failed: %v", err)
	}
	if owner != u.ID {
		t.Errorf("owner = %q, want %q", owner, u.ID)
	}

	anon := newStoredGame(t, s)
	owner, err = s.GameOwner(anon.ID)
	if err != nil {
		t.Fatalf("GameOwner failed for anonymous game: %v", err)
	}
	if owner != "" {
		t.Errorf("anonymous owner = %q, want empty", owner)
	}
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.CreateUser("bob", "hash1", ""); err != nil {
		t.Fatalf("first CreateUser failed: %v", err)
	}
	if _, err := s.CreateUser("bob", "hash2", ""); !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestUserLookup(t *testing.T) {
	s := openTestStore(t)

	created, err := s.CreateUser("carol", "hash", "carol@example.com")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	byName, err := s.UserByUsername("carol")
	if err != nil {
		t.Fatalf("UserByUsername failed: %v", err)
	}
	if byName.ID != created.ID || byName.Email != "carol@example.com" {
		t.Errorf("UserByUsername = %+v, want id %s", byName, created.ID)
	}

	byID, err := s.UserByID(created.ID)
	if err != nil {
		t.Fatalf("UserByID failed: %v", err)
	}
	if byID.Username != "carol" {
		t.Errorf("username = %q, want carol", byID.Username)
	}

	if _, err := s.UserByUsername("nobody"); !errors.Is(err, ErrNoSuchUser) {
		t.Errorf("expected ErrNoSuchUser, got %v", err)
	}
}

func TestSessionLifecycle(t *testing.T) {
	s := openTestStore(t)

	u, err := s.CreateUser("dave", "hash", "")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	token, err := s.CreateSession(u.ID, time.Hour)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	userID, err := s.SessionUser(token)
	if err != nil {
		t.Fatalf("SessionUser failed: %v", err)
	}
	if userID != u.ID {
		t.Errorf("session user = %q, want %q", userID, u.ID)
	}

	if err := s.DeleteSession(token); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	if _, err := s.SessionUser(token); !errors.Is(err, ErrNoSuchSession) {
		t.Errorf("expected ErrNoSuchSession after delete, got %v", err)
	}
}

func TestExpiredSessionRejected(t *testing.T) {
	s := openTestStore(t)

	u, err := s.CreateUser("erin", "hash", "")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	token, err := s.CreateSession(u.ID, -time.Minute)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if _, err := s.SessionUser(token); !errors.Is(err, ErrNoSuchSession) {
		t.Errorf("expected ErrNoSuchSession for expired token, got %v", err)
	}
}

func TestSavedGames(t *testing.T) {
	s := openTestStore(t)

	u, err := s.CreateUser("frank", "hash", "")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	g := newStoredGame(t, s)
	g2 := newStoredGame(t, s)

	if err := s.SaveGame(u.ID, "first try", g.ID); err != nil {
		t.Fatalf("SaveGame failed: %v", err)
	}
	// Re-saving under the same name repoints the bookmark, it does not conflict.
	if err := s.SaveGame(u.ID, "first try", g2.ID); err != nil {
		t.Fatalf("re-save under same name failed: %v", err)
	}

	saves, err := s.SavedGames(u.ID)
	if err != nil {
		t.Fatalf("SavedGames failed: %v", err)
	}
	if len(saves) != 1 {
		t.Fatalf("got %d saves, want 1", len(saves))
	}
	if saves[0].Name != "first try" || saves[0].GameID != g2.ID {
		t.Errorf("save = %+v, want name 'first try' and game %s", saves[0], g2.ID)
	}

	byName, err := s.SavedGameByName(u.ID, "first try")
	if err != nil {
		t.Fatalf("SavedGameByName failed: %v", err)
	}
	if byName.GameID != g2.ID {
		t.Errorf("save game id = %s, want %s", byName.GameID, g2.ID)
	}

	if err := s.DeleteSavedGame(u.ID, "first try"); err != nil {
		t.Fatalf("DeleteSavedGame failed: %v", err)
	}
	if err := s.DeleteSavedGame(u.ID, "first try"); !errors.Is(err, ErrNoSuchSave) {
		t.Errorf("expected ErrNoSuchSave, got %v", err)
	}
}
