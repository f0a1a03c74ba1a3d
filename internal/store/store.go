// Package store persists player preferences and finished games in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// ErrNotFound is returned when a preference or result does not exist.
var ErrNotFound = errors.New("store: not found")

// PrefCanSkipCredits is set once a player has watched the credits.
const PrefCanSkipCredits = "can_skip_credits"

// Result is one finished game.
type Result struct {
	ID        uuid.UUID
	Player    string
	Score     int
	Level     int // 0-based level reached
	Duration  time.Duration
	CreatedAt time.Time
}

// Store provides SQLite persistence for preferences and results.
type Store struct {
	db *sql.DB
}

// New opens or creates the database at dbPath. Call Migrate before use.
func New(dbPath string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite is not concurrent for writes
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: enable WAL: %w", err)
	}
	return &Store{db: db}, nil
}

// Migrate creates the tables if they do not exist.
func (s *Store) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS prefs (
			player TEXT NOT NULL,
			key TEXT NOT NULL,
			value TEXT NOT NULL,
			PRIMARY KEY (player, key)
		)`,
		`CREATE TABLE IF NOT EXISTS results (
			id TEXT PRIMARY KEY,
			player TEXT NOT NULL,
			score INTEGER NOT NULL,
			level INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_score ON results(score DESC)`,
	}
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("store: migrate: %w", err)
		}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Pref returns a player's preference value.
func (s *Store) Pref(ctx context.Context, player, key string) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM prefs WHERE player = ? AND key = ?`, player, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("store: get pref: %w", err)
	}
	return v, nil
}

// SetPref stores a player's preference value, replacing any earlier one.
func (s *Store) SetPref(ctx context.Context, player, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO prefs (player, key, value) VALUES (?, ?, ?)
		 ON CONFLICT(player, key) DO UPDATE SET value = excluded.value`,
		player, key, value)
	if err != nil {
		return fmt.Errorf("store: set pref: %w", err)
	}
	return nil
}

// Flag reads a boolean preference. Missing flags are false.
func (s *Store) Flag(ctx context.Context, player, key string) (bool, error) {
	v, err := s.Pref(ctx, player, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return v == "1", nil
}

// SetFlag writes a boolean preference.
func (s *Store) SetFlag(ctx context.Context, player, key string, on bool) error {
	v := "0"
	if on {
		v = "1"
	}
	return s.SetPref(ctx, player, key, v)
}

// RecordResult saves a finished game and returns its ID. A zero ID or
// CreatedAt is filled in.
func (s *Store) RecordResult(ctx context.Context, r Result) (uuid.UUID, error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO results (id, player, score, level, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID.String(), r.Player, r.Score, r.Level, r.Duration.Milliseconds(), r.CreatedAt.UnixNano())
	if err != nil {
		return uuid.Nil, fmt.Errorf("store: record result: %w", err)
	}
	return r.ID, nil
}

// GetResult loads a result by ID.
func (s *Store) GetResult(ctx context.Context, id uuid.UUID) (Result, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, player, score, level, duration_ms, created_at FROM results WHERE id = ?`, id.String())
	r, err := scanResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Result{}, ErrNotFound
	}
	if err != nil {
		return Result{}, fmt.Errorf("store: get result: %w", err)
	}
	return r, nil
}

// TopScores returns up to limit results, best first. Ties go to the
// earlier game.
func (s *Store) TopScores(ctx context.Context, limit int) ([]Result, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, player, score, level, duration_ms, created_at FROM results
		 ORDER BY score DESC, created_at ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: top scores: %w", err)
	}
	defer rows.Close()

	var out []Result
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("store: top scores: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: top scores: %w", err)
	}
	return out, nil
}

// BestScore returns a player's highest score, or 0 if they have none.
func (s *Store) BestScore(ctx context.Context, player string) (int, error) {
	var best sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT MAX(score) FROM results WHERE player = ?`, player).Scan(&best)
	if err != nil {
		return 0, fmt.Errorf("store: best score: %w", err)
	}
	return int(best.Int64), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResult(sc scanner) (Result, error) {
	var (
		r        Result
		id       string
		duration int64
		created  int64
	)
	if err := sc.Scan(&id, &r.Player, &r.Score, &r.Level, &duration, &created); err != nil {
		return Result{}, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return Result{}, fmt.Errorf("parse id %q: %w", id, err)
	}
	r.ID = parsed
	r.Duration = time.Duration(duration) * time.Millisecond
	r.CreatedAt = time.Unix(0, created)
	return r, nil
}
