// ABOUTME: Handler tests for the game API routes driven through the chi router.
// ABOUTME: Uses a real temp-dir store and registry; asserts response shapes and status codes.
package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Craz6yDev/MM-207/server"
	"github.com/Craz6yDev/MM-207/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	reg := server.NewRegistry(st, 50, time.Hour)
	t.Cleanup(reg.Shutdown)

	return NewServer(ServerConfig{
		Addr:     "127.0.0.1:0",
		Registry: reg,
		Auth:     server.NewAuth(st, time.Hour),
		Store:    st,
	})
}

func doJSON(t *testing.T, srv *Server, method, path, body string, cookies ...*http.Cookie) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	decoded := map[string]any{}
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("response is not JSON: %v\n%s", err, rec.Body.String())
		}
	}
	return rec, decoded
}

func createGame(t *testing.T, srv *Server) string {
	t.Helper()
	rec, body := doJSON(t, srv, http.MethodPost, "/api/games", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create game: status = %d, want 201", rec.Code)
	}
	id, _ := body["gameId"].(string)
	if id == "" {
		t.Fatal("create game: missing gameId")
	}
	return id
}

func TestCreateGameResponseShape(t *testing.T) {
	srv := newTestServer(t)

	rec, body := doJSON(t, srv, http.MethodPost, "/api/games", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	board, ok := body["board"].([]any)
	if !ok || len(board) != 7 {
		t.Errorf("board should have 7 columns, got %v", body["board"])
	}
	if n := body["libraryCount"].(float64); n != 24 {
		t.Errorf("libraryCount = %v, want 24", n)
	}
	if body["graveyardTop"] != nil {
		t.Errorf("graveyardTop = %v, want null", body["graveyardTop"])
	}
	if n := body["moves"].(float64); n != 0 {
		t.Errorf("moves = %v, want 0", n)
	}
}

func TestGetGame(t *testing.T) {
	srv := newTestServer(t)
	id := createGame(t, srv)

	rec, body := doJSON(t, srv, http.MethodGet, "/api/games/"+id, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body["gameId"] != id {
		t.Errorf("gameId = %v, want %s", body["gameId"], id)
	}
	if body["status"] != "active" {
		t.Errorf("status = %v, want active", body["status"])
	}
	if _, ok := body["elapsedTime"].(float64); !ok {
		t.Errorf("elapsedTime missing or not numeric: %v", body["elapsedTime"])
	}
}

func TestGetUnknownGame(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{
		"/api/games/01HZZZZZZZZZZZZZZZZZZZZZZZ",
		"/api/games/not-a-ulid",
	} {
		rec, body := doJSON(t, srv, http.MethodGet, path, "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s: status = %d, want 404", path, rec.Code)
		}
		if body["error"] == "" {
			t.Errorf("%s: missing error message", path)
		}
	}
}

func TestDrawUpdatesCounts(t *testing.T) {
	srv := newTestServer(t)
	id := createGame(t, srv)

	rec, body := doJSON(t, srv, http.MethodPost, "/api/games/"+id+"/draw", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body["success"] != true {
		t.Error("draw on a fresh game should succeed")
	}
	if n := body["libraryCount"].(float64); n != 23 {
		t.Errorf("libraryCount = %v, want 23", n)
	}
	if body["graveyardTop"] == nil {
		t.Error("graveyardTop should be set after draw")
	}
	if n := body["moves"].(float64); n != 1 {
		t.Errorf("moves = %v, want 1", n)
	}
}

func TestMoveIndexValidation(t *testing.T) {
	srv := newTestServer(t)
	id := createGame(t, srv)

	badPaths := []string{
		"/api/games/" + id + "/graveyard-to-foundation/4",
		"/api/games/" + id + "/graveyard-to-foundation/-1",
		"/api/games/" + id + "/graveyard-to-board/7",
		"/api/games/" + id + "/board-to-foundation/9/0",
		"/api/games/" + id + "/board-to-foundation/0/abc",
		"/api/games/" + id + "/board-to-board/0/7/0",
	}
	for _, path := range badPaths {
		rec, _ := doJSON(t, srv, http.MethodPost, path, "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", path, rec.Code)
		}
	}

	// Out-of-range params must not count as moves.
	_, body := doJSON(t, srv, http.MethodGet, "/api/games/"+id, "")
	if n := body["moves"].(float64); n != 0 {
		t.Errorf("moves = %v after rejected requests, want 0", n)
	}
}

func TestIllegalMoveReturnsSuccessFalse(t *testing.T) {
	srv := newTestServer(t)
	id := createGame(t, srv)

	// Empty graveyard: the move is legal to request but cannot apply.
	rec, body := doJSON(t, srv, http.MethodPost, "/api/games/"+id+"/graveyard-to-foundation/0", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body["success"] != false {
		t.Error("move from empty graveyard should report success=false")
	}
	if n := body["moves"].(float64); n != 0 {
		t.Errorf("moves = %v, want 0", n)
	}
}

func TestBoardToBoardResponseShape(t *testing.T) {
	srv := newTestServer(t)
	id := createGame(t, srv)

	rec, body := doJSON(t, srv, http.MethodPost, "/api/games/"+id+"/board-to-board/0/1/0", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if _, ok := body["success"].(bool); !ok {
		t.Errorf("success missing or not boolean: %v", body["success"])
	}
	if _, ok := body["board"].([]any); !ok {
		t.Errorf("board missing: %v", body["board"])
	}
}

func TestDeleteGame(t *testing.T) {
	srv := newTestServer(t)
	id := createGame(t, srv)

	rec, _ := doJSON(t, srv, http.MethodDelete, "/api/games/"+id, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d, want 200", rec.Code)
	}

	rec, _ = doJSON(t, srv, http.MethodGet, "/api/games/"+id, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete: status = %d, want 404", rec.Code)
	}
}

func TestDeleteOwnedGameRequiresOwner(t *testing.T) {
	srv := newTestServer(t)

	rec, _ := doJSON(t, srv, http.MethodPost, "/api/register",
		`{"username":"gina","password":"pw"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, want 201", rec.Code)
	}
	cookie := sessionCookieFrom(t, rec)

	rec, body := doJSON(t, srv, http.MethodPost, "/api/games", "", cookie)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", rec.Code)
	}
	id := body["gameId"].(string)

	// Anonymous caller cannot delete an owned game.
	rec, _ = doJSON(t, srv, http.MethodDelete, "/api/games/"+id, "")
	if rec.Code != http.StatusForbidden {
		t.Errorf("anonymous delete: status = %d, want 403", rec.Code)
	}

	// The owner can.
	rec, _ = doJSON(t, srv, http.MethodDelete, "/api/games/"+id, "", cookie)
	if rec.Code != http.StatusOK {
		t.Errorf("owner delete: status = %d, want 200", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	createGame(t, srv)

	rec, body := doJSON(t, srv, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %v, want ok", body["status"])
	}
	if n := body["residentGames"].(float64); n != 1 {
		t.Errorf("residentGames = %v, want 1", n)
	}
}

// sessionCookieFrom extracts the session cookie set by a register/login response.
func sessionCookieFrom(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == server.SessionCookie {
			return c
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func TestDrawCycleExhaustsAndRecycles(t *testing.T) {
	srv := newTestServer(t)
	id := createGame(t, srv)

	// 24 draws empty the library into the graveyard.
	for i := 0; i < 24; i++ {
		rec, body := doJSON(t, srv, http.MethodPost, "/api/games/"+id+"/draw", "")
		if rec.Code != http.StatusOK || body["success"] != true {
			t.Fatalf("draw %d failed: status=%d body=%v", i, rec.Code, body)
		}
	}

	// The next draw recycles and draws one card from the fresh library.
	rec, body := doJSON(t, srv, http.MethodPost, "/api/games/"+id+"/draw", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("recycle draw status = %d, want 200", rec.Code)
	}
	if body["success"] != true {
		t.Error("recycle draw should succeed")
	}
	if n := body["libraryCount"].(float64); n != 23 {
		t.Errorf("libraryCount after recycle = %v, want 23", n)
	}
	if want := fmt.Sprintf("%v", body["moves"]); want != "25" {
		t.Errorf("moves = %v, want 25", body["moves"])
	}
}
