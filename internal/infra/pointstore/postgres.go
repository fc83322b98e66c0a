package pointstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/patternlife/internal/domain/signal"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS signal_points (
	seq         BIGSERIAL PRIMARY KEY,
	lat         DOUBLE PRECISION NOT NULL,
	lng         DOUBLE PRECISION NOT NULL,
	obs_date    TEXT NOT NULL,
	obs_time    TEXT NOT NULL,
	weekday     TEXT NOT NULL,
	description TEXT,
	source      TEXT
)`

// PostgresSource loads the signal log from the signal_points table.
type PostgresSource struct {
	pool *pgxpool.Pool
}

// NewPostgresSource constructs the store.
func NewPostgresSource(pool *pgxpool.Pool) *PostgresSource {
	return &PostgresSource{pool: pool}
}

// EnsureSchema creates the signal_points table when missing.
func (s *PostgresSource) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("apply postgres schema: %w", err)
	}
	return nil
}

// Load implements signal.Store.
func (s *PostgresSource) Load(ctx context.Context) (signal.Dataset, error) {
	rows, err := s.pool.Query(ctx, selectPoints)
	if err != nil {
		return signal.Dataset{}, fmt.Errorf("query signal points: %w", err)
	}
	defer rows.Close()

	points := make([]signal.Point, 0)
	for rows.Next() {
		p, err := scanPoint(rows)
		if err != nil {
			return signal.Dataset{}, err
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return signal.Dataset{}, fmt.Errorf("iterate signal points: %w", err)
	}
	return signal.NewDataset(points), nil
}

var _ signal.Store = (*PostgresSource)(nil)
