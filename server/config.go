// ABOUTME: Server configuration loaded from an optional YAML file and SOLITAIRE_* environment variables.
// ABOUTME: Enforces security constraint: non-loopback binds require an explicit opt-in.
package server

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	ErrNonLoopbackBind = errors.New(
		"SOLITAIRE_BIND is a non-loopback address but SOLITAIRE_ALLOW_REMOTE is not true; set SOLITAIRE_ALLOW_REMOTE=true to allow remote access",
	)
)

// Config holds server configuration. Values come from the YAML config file
// when present, with SOLITAIRE_* environment variables taking precedence.
type Config struct {
	Home        string        `yaml:"home"`         // Data directory (SOLITAIRE_HOME, default: ~/.solitaired)
	Bind        string        `yaml:"bind"`         // Socket address (SOLITAIRE_BIND, default: 127.0.0.1:7780)
	AllowRemote bool          `yaml:"allow_remote"` // Allow non-loopback connections (SOLITAIRE_ALLOW_REMOTE)
	DBPath      string        `yaml:"db_path"`      // SQLite database path (SOLITAIRE_DB, default: <home>/solitaire.db)
	MaxGames    int           `yaml:"max_games"`    // Resident game actor cap (SOLITAIRE_MAX_GAMES, default: 200)
	GameTTL     time.Duration `yaml:"game_ttl"`     // Idle actor eviction age (SOLITAIRE_GAME_TTL, default: 24h)
	SessionTTL  time.Duration `yaml:"session_ttl"`  // Login session lifetime (SOLITAIRE_SESSION_TTL, default: 720h)
}

// ConfigFromEnv loads configuration with sensible defaults. If configPath is
// non-empty (or SOLITAIRE_CONFIG is set) the YAML file is read first, then
// environment variables override whatever it set.
func ConfigFromEnv(configPath string) (*Config, error) {
	cfg := &Config{
		Bind:       "127.0.0.1:7780",
		MaxGames:   200,
		GameTTL:    24 * time.Hour,
		SessionTTL: 30 * 24 * time.Hour,
	}

	if configPath == "" {
		configPath = os.Getenv("SOLITAIRE_CONFIG")
	}
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if v := os.Getenv("SOLITAIRE_HOME"); v != "" {
		cfg.Home = v
	}
	if cfg.Home == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			homeDir = "/tmp"
		}
		cfg.Home = filepath.Join(homeDir, ".solitaired")
	}

	if v := os.Getenv("SOLITAIRE_BIND"); v != "" {
		cfg.Bind = v
	}
	if v := os.Getenv("SOLITAIRE_ALLOW_REMOTE"); v == "true" || v == "1" || v == "yes" {
		cfg.AllowRemote = true
	}
	if v := os.Getenv("SOLITAIRE_DB"); v != "" {
		cfg.DBPath = v
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(cfg.Home, "solitaire.db")
	}
	if v := os.Getenv("SOLITAIRE_MAX_GAMES"); v != "" {
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err != nil || n < 1 {
			return nil, fmt.Errorf("invalid SOLITAIRE_MAX_GAMES: %q", v)
		}
		cfg.MaxGames = n
	}
	if v := os.Getenv("SOLITAIRE_GAME_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SOLITAIRE_GAME_TTL: %w", err)
		}
		cfg.GameTTL = d
	}
	if v := os.Getenv("SOLITAIRE_SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SOLITAIRE_SESSION_TTL: %w", err)
		}
		cfg.SessionTTL = d
	}

	// Security: refuse non-loopback binds unless explicitly opting into remote
	// access. Checks both IP literals and hostnames; only 127.0.0.0/8, ::1, and
	// "localhost" are considered safe.
	if !cfg.AllowRemote {
		if host, _, err := net.SplitHostPort(cfg.Bind); err == nil && host != "" {
			ip := net.ParseIP(host)
			switch {
			case ip != nil && ip.IsLoopback():
				// Safe: 127.x.x.x or ::1
			case ip != nil:
				return nil, fmt.Errorf("%w: SOLITAIRE_BIND=%s", ErrNonLoopbackBind, cfg.Bind)
			case host == "localhost":
				// Safe: conventional loopback hostname
			default:
				return nil, fmt.Errorf("%w: SOLITAIRE_BIND=%s", ErrNonLoopbackBind, cfg.Bind)
			}
		}
	}

	return cfg, nil
}
