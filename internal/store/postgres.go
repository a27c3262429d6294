package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS scores (
    id BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL,
    score INTEGER NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_scores_rank ON scores(score DESC, created_at ASC);
`

// PostgresScores implements Scores using PostgreSQL.
type PostgresScores struct {
	pool *pgxpool.Pool
}

// NewPostgresScores connects to PostgreSQL and initializes the schema.
func NewPostgresScores(ctx context.Context, databaseURL string) (*PostgresScores, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresScores{pool: pool}, nil
}

// Save inserts a score.
func (p *PostgresScores) Save(ctx context.Context, s Score) error {
	if err := normalize(&s); err != nil {
		return err
	}
	_, err := p.pool.Exec(ctx,
		`INSERT INTO scores (name, score, created_at) VALUES ($1, $2, $3)`,
		s.Name, s.Score, s.CreatedAt)
	return err
}

// Top returns the best limit scores.
func (p *PostgresScores) Top(ctx context.Context, limit int) ([]Score, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := p.pool.Query(ctx,
		`SELECT name, score, created_at FROM scores
		 ORDER BY score DESC, created_at ASC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Score, error) {
		var s Score
		err := row.Scan(&s.Name, &s.Score, &s.CreatedAt)
		return s, err
	})
}

// Close releases database resources.
func (p *PostgresScores) Close() error {
	p.pool.Close()
	return nil
}
