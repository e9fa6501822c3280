// ABOUTME: SQLite-backed persistence adapter for full game snapshots.
// ABOUTME: Saves replace all four zones in one transaction so reads never see a torn game.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"

	"github.com/Craz6yDev/MM-207/game"
)

const timeFormat = "2006-01-02T15:04:05.000Z07:00"

// Store is the SQLite-backed persistence adapter. It holds full game
// snapshots plus the account tables; it knows nothing about game rules.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at the given path and runs migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS games (
			id TEXT PRIMARY KEY,
			owner_id TEXT,
			status TEXT NOT NULL,
			moves INTEGER NOT NULL DEFAULT 0,
			start_time TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS board (
			game_id TEXT NOT NULL,
			column_index INTEGER NOT NULL,
			row_index INTEGER NOT NULL,
			card TEXT NOT NULL,
			visible INTEGER NOT NULL,
			PRIMARY KEY (game_id, column_index, row_index),
			FOREIGN KEY (game_id) REFERENCES games(id) ON DELETE CASCADE
		);

		CREATE TABLE IF NOT EXISTS foundation (
			game_id TEXT NOT NULL,
			pile_index INTEGER NOT NULL,
			card_index INTEGER NOT NULL,
			card TEXT NOT NULL,
			PRIMARY KEY (game_id, pile_index, card_index),
			FOREIGN KEY (game_id) REFERENCES games(id) ON DELETE CASCADE
		);

		CREATE TABLE IF NOT EXISTS library (
			game_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			card TEXT NOT NULL,
			visible INTEGER NOT NULL,
			PRIMARY KEY (game_id, position),
			FOREIGN KEY (game_id) REFERENCES games(id) ON DELETE CASCADE
		);

		CREATE TABLE IF NOT EXISTS graveyard (
			game_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			card TEXT NOT NULL,
			visible INTEGER NOT NULL,
			PRIMARY KEY (game_id, position),
			FOREIGN KEY (game_id) REFERENCES games(id) ON DELETE CASCADE
		);

		CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			email TEXT,
			created_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS sessions (
			token TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			created_at TEXT NOT NULL,
			expires_at TEXT NOT NULL,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		);

		CREATE TABLE IF NOT EXISTS saved_games (
			owner_id TEXT NOT NULL,
			save_name TEXT NOT NULL,
			game_id TEXT NOT NULL,
			created_at TEXT NOT NULL,
			PRIMARY KEY (owner_id, save_name),
			FOREIGN KEY (game_id) REFERENCES games(id) ON DELETE CASCADE
		);`

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateGame registers a new game identity. Owner may be empty for
// anonymous games.
func (s *Store) CreateGame(id ulid.ULID, ownerID string, status game.Status) error {
	var owner any
	if ownerID != "" {
		owner = ownerID
	}
	_, err := s.db.Exec(
		`INSERT INTO games (id, owner_id, status, moves, start_time) VALUES (?, ?, ?, 0, ?)`,
		id.String(), owner, string(status), time.Now().UTC().Format(timeFormat))
	if err != nil {
		return fmt.Errorf("create game: %w", err)
	}
	return nil
}

// SaveGameState persists a full snapshot in one transaction: the games row is
// upserted and all four zones are deleted and reinserted, so a concurrent
// reader never observes a mix of old and new zones.
func (s *Store) SaveGameState(g *game.Game) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	gameID := g.ID.String()
	_, err = tx.Exec(
		`INSERT INTO games (id, status, moves, start_time) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			moves = excluded.moves,
			start_time = excluded.start_time`,
		gameID, string(g.Status), g.Moves, g.StartTime.Format(timeFormat))
	if err != nil {
		return fmt.Errorf("upsert game row: %w", err)
	}

	for _, table := range []string{"board", "foundation", "library", "graveyard"} {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE game_id = ?", gameID); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	boardStmt, err := tx.Prepare(
		`INSERT INTO board (game_id, column_index, row_index, card, visible) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare board insert: %w", err)
	}
	defer func() { _ = boardStmt.Close() }()
	for colIdx, column := range g.Board {
		for rowIdx, pc := range column {
			if _, err := boardStmt.Exec(gameID, colIdx, rowIdx, pc.Card.String(), pc.Visible); err != nil {
				return fmt.Errorf("insert board card: %w", err)
			}
		}
	}

	foundationStmt, err := tx.Prepare(
		`INSERT INTO foundation (game_id, pile_index, card_index, card) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare foundation insert: %w", err)
	}
	defer func() { _ = foundationStmt.Close() }()
	for pileIdx, pile := range g.Foundation {
		for cardIdx, pc := range pile {
			if _, err := foundationStmt.Exec(gameID, pileIdx, cardIdx, pc.Card.String()); err != nil {
				return fmt.Errorf("insert foundation card: %w", err)
			}
		}
	}

	if err := insertStack(tx, "library", gameID, g.Library); err != nil {
		return err
	}
	if err := insertStack(tx, "graveyard", gameID, g.Graveyard); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

// insertStack writes an ordered pile (library or graveyard) bottom to top.
func insertStack(tx *sql.Tx, table, gameID string, cards []game.PositionedCard) error {
	stmt, err := tx.Prepare(
		"INSERT INTO " + table + " (game_id, position, card, visible) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare %s insert: %w", table, err)
	}
	defer func() { _ = stmt.Close() }()
	for pos, pc := range cards {
		if _, err := stmt.Exec(gameID, pos, pc.Card.String(), pc.Visible); err != nil {
			return fmt.Errorf("insert %s card: %w", table, err)
		}
	}
	return nil
}

// LoadGameState reconstructs a full snapshot from the zone tables.
// Returns (nil, nil) when the game id is unknown.
func (s *Store) LoadGameState(id ulid.ULID) (*game.Game, error) {
	gameID := id.String()

	var statusStr, startStr string
	var moves int
	err := s.db.QueryRow(
		"SELECT status, moves, start_time FROM games WHERE id = ?", gameID).
		Scan(&statusStr, &moves, &startStr)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query game row: %w", err)
	}

	startTime, err := time.Parse(timeFormat, startStr)
	if err != nil {
		return nil, fmt.Errorf("parse start_time: %w", err)
	}

	g := &game.Game{
		ID:        id,
		Moves:     moves,
		StartTime: startTime,
		Status:    game.Status(statusStr),
	}
	for i := range g.Board {
		g.Board[i] = []game.PositionedCard{}
	}
	for i := range g.Foundation {
		g.Foundation[i] = []game.PositionedCard{}
	}

	rows, err := s.db.Query(
		`SELECT column_index, card, visible FROM board
		 WHERE game_id = ? ORDER BY column_index, row_index`, gameID)
	if err != nil {
		return nil, fmt.Errorf("query board: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var colIdx int
		var cardStr string
		var visible bool
		if err := rows.Scan(&colIdx, &cardStr, &visible); err != nil {
			return nil, fmt.Errorf("scan board row: %w", err)
		}
		card, err := game.ParseCard(cardStr)
		if err != nil {
			return nil, fmt.Errorf("board card: %w", err)
		}
		if colIdx < 0 || colIdx >= game.BoardColumns {
			return nil, fmt.Errorf("board column index out of range: %d", colIdx)
		}
		g.Board[colIdx] = append(g.Board[colIdx], game.PositionedCard{Card: card, Visible: visible})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate board rows: %w", err)
	}

	fRows, err := s.db.Query(
		`SELECT pile_index, card FROM foundation
		 WHERE game_id = ? ORDER BY pile_index, card_index`, gameID)
	if err != nil {
		return nil, fmt.Errorf("query foundation: %w", err)
	}
	defer func() { _ = fRows.Close() }()
	for fRows.Next() {
		var pileIdx int
		var cardStr string
		if err := fRows.Scan(&pileIdx, &cardStr); err != nil {
			return nil, fmt.Errorf("scan foundation row: %w", err)
		}
		card, err := game.ParseCard(cardStr)
		if err != nil {
			return nil, fmt.Errorf("foundation card: %w", err)
		}
		if pileIdx < 0 || pileIdx >= game.FoundationPiles {
			return nil, fmt.Errorf("foundation pile index out of range: %d", pileIdx)
		}
		// Foundation cards are always face-up.
		g.Foundation[pileIdx] = append(g.Foundation[pileIdx], game.PositionedCard{Card: card, Visible: true})
	}
	if err := fRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate foundation rows: %w", err)
	}

	if g.Library, err = s.loadStack("library", gameID); err != nil {
		return nil, err
	}
	if g.Graveyard, err = s.loadStack("graveyard", gameID); err != nil {
		return nil, err
	}

	return g, nil
}

// loadStack reads an ordered pile back bottom to top.
func (s *Store) loadStack(table, gameID string) ([]game.PositionedCard, error) {
	rows, err := s.db.Query(
		"SELECT card, visible FROM "+table+" WHERE game_id = ? ORDER BY position", gameID)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	cards := []game.PositionedCard{}
	for rows.Next() {
		var cardStr string
		var visible bool
		if err := rows.Scan(&cardStr, &visible); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", table, err)
		}
		card, err := game.ParseCard(cardStr)
		if err != nil {
			return nil, fmt.Errorf("%s card: %w", table, err)
		}
		cards = append(cards, game.PositionedCard{Card: card, Visible: visible})
	}
	return cards, rows.Err()
}

// IncrementMoves bumps the move counter without a full save and returns the
// new value. Redundant with SaveGameState; kept for cheap counter-only paths.
func (s *Store) IncrementMoves(id ulid.ULID) (int, error) {
	res, err := s.db.Exec("UPDATE games SET moves = moves + 1 WHERE id = ?", id.String())
	if err != nil {
		return 0, fmt.Errorf("increment moves: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("increment moves rows: %w", err)
	}
	if n == 0 {
		return 0, &game.NotFoundError{GameID: id}
	}
	var moves int
	if err := s.db.QueryRow("SELECT moves FROM games WHERE id = ?", id.String()).Scan(&moves); err != nil {
		return 0, fmt.Errorf("read moves: %w", err)
	}
	return moves, nil
}

// DeleteGame removes a game and, via cascade, all its zone rows.
func (s *Store) DeleteGame(id ulid.ULID) error {
	if _, err := s.db.Exec("DELETE FROM games WHERE id = ?", id.String()); err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	return nil
}

// GameOwner returns the owner id of a game, or empty for anonymous games.
func (s *Store) GameOwner(id ulid.ULID) (string, error) {
	var owner sql.NullString
	err := s.db.QueryRow("SELECT owner_id FROM games WHERE id = ?", id.String()).Scan(&owner)
	if err == sql.ErrNoRows {
		return "", &game.NotFoundError{GameID: id}
	}
	if err != nil {
		return "", fmt.Errorf("query owner: %w", err)
	}
	return owner.String, nil
}
