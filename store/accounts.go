// ABOUTME: User accounts, session tokens, and named saves on the same SQLite store.
// ABOUTME: Password hashing happens in the server layer; this file stores hashes only.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

var (
	ErrUsernameTaken = errors.New("username already taken")
	ErrNoSuchUser    = errors.New("no such user")
	ErrNoSuchSession = errors.New("no such session")
	ErrNoSuchSave    = errors.New("no such save")
)

// User is an account row. PasswordHash is a bcrypt hash.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Email        string
	CreatedAt    time.Time
}

// SavedGame is a named bookmark an owner has attached to a game.
type SavedGame struct {
	Name      string
	GameID    ulid.ULID
	CreatedAt time.Time
}

// CreateUser inserts a new account and returns its generated id.
func (s *Store) CreateUser(username, passwordHash, email string) (User, error) {
	u := User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
		Email:        email,
		CreatedAt:    time.Now().UTC(),
	}
	_, err := s.db.Exec(
		`INSERT INTO users (id, username, password_hash, email, created_at) VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.PasswordHash, u.Email, u.CreatedAt.Format(timeFormat))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return User{}, ErrUsernameTaken
		}
		return User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// UserByUsername looks an account up for login.
func (s *Store) UserByUsername(username string) (User, error) {
	return s.scanUser("SELECT id, username, password_hash, email, created_at FROM users WHERE username = ?", username)
}

// UserByID looks an account up by its id.
func (s *Store) UserByID(id string) (User, error) {
	return s.scanUser("SELECT id, username, password_hash, email, created_at FROM users WHERE id = ?", id)
}

func (s *Store) scanUser(query, arg string) (User, error) {
	var u User
	var email sql.NullString
	var createdStr string
	err := s.db.QueryRow(query, arg).Scan(&u.ID, &u.Username, &u.PasswordHash, &email, &createdStr)
	if err == sql.ErrNoRows {
		return User{}, ErrNoSuchUser
	}
	if err != nil {
		return User{}, fmt.Errorf("query user: %w", err)
	}
	u.Email = email.String
	if u.CreatedAt, err = time.Parse(timeFormat, createdStr); err != nil {
		return User{}, fmt.Errorf("parse user created_at: %w", err)
	}
	return u, nil
}

// CreateSession mints a new opaque session token for a user.
func (s *Store) CreateSession(userID string, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	now := time.Now().UTC()
	_, err := s.db.Exec(
		`INSERT INTO sessions (token, user_id, created_at, expires_at) VALUES (?, ?, ?, ?)`,
		token, userID, now.Format(timeFormat), now.Add(ttl).Format(timeFormat))
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return token, nil
}

// SessionUser resolves a token to its user id, rejecting expired sessions.
func (s *Store) SessionUser(token string) (string, error) {
	var userID, expiresStr string
	err := s.db.QueryRow("SELECT user_id, expires_at FROM sessions WHERE token = ?", token).
		Scan(&userID, &expiresStr)
	if err == sql.ErrNoRows {
		return "", ErrNoSuchSession
	}
	if err != nil {
		return "", fmt.Errorf("query session: %w", err)
	}
	expires, err := time.Parse(timeFormat, expiresStr)
	if err != nil {
		return "", fmt.Errorf("parse session expiry: %w", err)
	}
	if time.Now().After(expires) {
		_, _ = s.db.Exec("DELETE FROM sessions WHERE token = ?", token)
		return "", ErrNoSuchSession
	}
	return userID, nil
}

// DeleteSession removes a token. Deleting an unknown token is not an error.
func (s *Store) DeleteSession(token string) error {
	if _, err := s.db.Exec("DELETE FROM sessions WHERE token = ?", token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// SaveGame bookmarks a game under a name for an owner. Re-saving under an
// existing name repoints the bookmark at the new game.
func (s *Store) SaveGame(ownerID, name string, gameID ulid.ULID) error {
	_, err := s.db.Exec(
		`INSERT INTO saved_games (owner_id, save_name, game_id, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(owner_id, save_name) DO UPDATE SET
		   game_id = excluded.game_id,
		   created_at = excluded.created_at`,
		ownerID, name, gameID.String(), time.Now().UTC().Format(timeFormat))
	if err != nil {
		return fmt.Errorf("save game: %w", err)
	}
	return nil
}

// SavedGames lists an owner's bookmarks, newest first.
func (s *Store) SavedGames(ownerID string) ([]SavedGame, error) {
	rows, err := s.db.Query(
		`SELECT save_name, game_id, created_at FROM saved_games
		 WHERE owner_id = ? ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list saved games: %w", err)
	}
	defer func() { _ = rows.Close() }()

	saves := []SavedGame{}
	for rows.Next() {
		var sg SavedGame
		var idStr, createdStr string
		if err := rows.Scan(&sg.Name, &idStr, &createdStr); err != nil {
			return nil, fmt.Errorf("scan saved game: %w", err)
		}
		if sg.GameID, err = ulid.Parse(idStr); err != nil {
			return nil, fmt.Errorf("parse saved game id: %w", err)
		}
		if sg.CreatedAt, err = time.Parse(timeFormat, createdStr); err != nil {
			return nil, fmt.Errorf("parse saved game created_at: %w", err)
		}
		saves = append(saves, sg)
	}
	return saves, rows.Err()
}

// SavedGameByName fetches one bookmark.
func (s *Store) SavedGameByName(ownerID, name string) (SavedGame, error) {
	var sg SavedGame
	var idStr, createdStr string
	err := s.db.QueryRow(
		`SELECT save_name, game_id, created_at FROM saved_games
		 WHERE owner_id = ? AND save_name = ?`, ownerID, name).
		Scan(&sg.Name, &idStr, &createdStr)
	if err == sql.ErrNoRows {
		return SavedGame{}, ErrNoSuchSave
	}
	if err != nil {
		return SavedGame{}, fmt.Errorf("query saved game: %w", err)
	}
	if sg.GameID, err = ulid.Parse(idStr); err != nil {
		return SavedGame{}, fmt.Errorf("parse saved game id: %w", err)
	}
	if sg.CreatedAt, err = time.Parse(timeFormat, createdStr); err != nil {
		return SavedGame{}, fmt.Errorf("parse saved game created_at: %w", err)
	}
	return sg, nil
}

// DeleteSavedGame removes a bookmark without touching the underlying game.
func (s *Store) DeleteSavedGame(ownerID, name string) error {
	res, err := s.db.Exec(
		"DELETE FROM saved_games WHERE owner_id = ? AND save_name = ?", ownerID, name)
	if err != nil {
		return fmt.Errorf("delete saved game: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete saved game rows: %w", err)
	}
	if n == 0 {
		return ErrNoSuchSave
	}
	return nil
}
