// Package postgres persists analysis results for long-term history and
// reporting queries that outlive the local JSON store.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/adpulse/channel-monitor/internal/analyzer"
)

// ErrNotFound is returned when no analysis matches the query
var ErrNotFound = errors.New("analysis not found")

// AnalysisRepo implements analysis persistence against PostgreSQL
type AnalysisRepo struct{ db *sql.DB }

// NewAnalysisRepo creates a Postgres-backed analysis repository
func NewAnalysisRepo(db *sql.DB) *AnalysisRepo { return &AnalysisRepo{db: db} }

// Migrate creates the backing table if it does not exist
func (r *AnalysisRepo) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS channel_analyses (
			id            TEXT PRIMARY KEY,
			username      TEXT NOT NULL,
			status        TEXT NOT NULL,
			category      TEXT NOT NULL DEFAULT 'unknown',
			overall_score DOUBLE PRECISION NOT NULL DEFAULT 0,
			payload       JSONB NOT NULL,
			analyzed_at   TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_channel_analyses_username
			ON channel_analyses (username, analyzed_at DESC)
	`)
	if err != nil {
		return fmt.Errorf("migrate channel_analyses: %w", err)
	}
	return nil
}

// Save stores one analysis result
func (r *AnalysisRepo) Save(ctx context.Context, result analyzer.AnalysisResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}

	var score float64
	if result.OK() {
		score = result.Score.Overall
	}
	category := result.Category
	if category == "" {
		category = "unknown"
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO channel_analyses (id, username, status, category, overall_score, payload, analyzed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`, result.ID, result.Username, string(result.Status), category, score, payload, result.AnalyzedAt)
	if err != nil {
		return fmt.Errorf("save analysis: %w", err)
	}
	return nil
}

// Get returns one analysis by ID
func (r *AnalysisRepo) Get(ctx context.Context, id string) (*analyzer.AnalysisResult, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx, `
		SELECT payload FROM channel_analyses WHERE id = $1
	`, id).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get analysis: %w", err)
	}
	return decode(payload)
}

// ListByUsername returns the newest-first analyses for a channel
func (r *AnalysisRepo) ListByUsername(ctx context.Context, username string, limit int) ([]analyzer.AnalysisResult, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT payload FROM channel_analyses
		WHERE username = $1
		ORDER BY analyzed_at DESC
		LIMIT $2
	`, username, limit)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	defer rows.Close()

	var out []analyzer.AnalysisResult
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan analysis: %w", err)
		}
		result, err := decode(payload)
		if err != nil {
			return nil, err
		}
		out = append(out, *result)
	}
	return out, rows.Err()
}

// TopScores returns the best score per channel since a cutoff, for leaderboards
func (r *AnalysisRepo) TopScores(ctx context.Context, since time.Time, limit int) (map[string]float64, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT username, MAX(overall_score)
		FROM channel_analyses
		WHERE status = 'ok' AND analyzed_at >= $1
		GROUP BY username
		ORDER BY MAX(overall_score) DESC
		LIMIT $2
	`, since, limit)
	if err != nil {
		return nil, fmt.Errorf("top scores: %w", err)
	}
	defer rows.Close()

	scores := make(map[string]float64)
	for rows.Next() {
		var username string
		var score float64
		if err := rows.Scan(&username, &score); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		scores[username] = score
	}
	return scores, rows.Err()
}

func decode(payload []byte) (*analyzer.AnalysisResult, error) {
	var result analyzer.AnalysisResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("decode analysis: %w", err)
	}
	return &result, nil
}
