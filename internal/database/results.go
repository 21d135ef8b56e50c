// internal/database/results.go
package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no result exists for a game id.
var ErrNotFound = errors.New("game result not found")

// PlayerResult is one player's final state.
type PlayerResult struct {
	ID       int            `json:"id"`
	Site     int            `json:"site"`
	Money    int            `json:"money"`
	VisitsV1 int            `json:"v1"`
	VisitsV2 int            `json:"v2"`
	Cards    map[string]int `json:"cards"`
	Score    int            `json:"score"`
}

// GameResult is the row stored for every finished game.
type GameResult struct {
	GameID     uuid.UUID
	Reason     string
	Scores     []int
	Players    []PlayerResult
	FinishedAt time.Time
}

const schema = `
CREATE TABLE IF NOT EXISTS game_results (
	game_id     uuid PRIMARY KEY,
	reason      text NOT NULL,
	scores      jsonb NOT NULL,
	players     jsonb NOT NULL,
	finished_at timestamptz NOT NULL
)`

// Store persists game results in Postgres.
type Store struct {
	pool *pgxpool.Pool
}

// Connect opens a pool for url and makes sure the table exists.
func Connect(ctx context.Context, url string) (*Store, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	s := &Store{pool: pool}
	if err := s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// Migrate creates the results table when missing.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate game_results: %w", err)
	}
	return nil
}

// SaveResult inserts r. Saving the same game twice keeps the first row.
func (s *Store) SaveResult(ctx context.Context, r GameResult) error {
	scores, err := json.Marshal(r.Scores)
	if err != nil {
		return err
	}
	players, err := json.Marshal(r.Players)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO game_results (game_id, reason, scores, players, finished_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (game_id) DO NOTHING`,
		r.GameID, r.Reason, scores, players, r.FinishedAt)
	if err != nil {
		return fmt.Errorf("save result %s: %w", r.GameID, err)
	}
	return nil
}

// LoadResult reads the row for gameID.
func (s *Store) LoadResult(ctx context.Context, gameID uuid.UUID) (GameResult, error) {
	var (
		r               GameResult
		scores, players []byte
	)
	err := s.pool.QueryRow(ctx, `
		SELECT game_id, reason, scores, players, finished_at
		FROM game_results WHERE game_id = $1`, gameID).
		Scan(&r.GameID, &r.Reason, &scores, &players, &r.FinishedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return GameResult{}, fmt.Errorf("%w: %s", ErrNotFound, gameID)
	}
	if err != nil {
		return GameResult{}, err
	}
	if err := json.Unmarshal(scores, &r.Scores); err != nil {
		return GameResult{}, err
	}
	if err := json.Unmarshal(players, &r.Players); err != nil {
		return GameResult{}, err
	}
	return r, nil
}

// Close releases the pool.
func (s *Store) Close() { s.pool.Close() }
