package pointstore

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/yanqian/patternlife/internal/domain/signal"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS signal_points (
	seq         INTEGER PRIMARY KEY AUTOINCREMENT,
	lat         REAL NOT NULL,
	lng         REAL NOT NULL,
	obs_date    TEXT NOT NULL,
	obs_time    TEXT NOT NULL,
	weekday     TEXT NOT NULL,
	description TEXT,
	source      TEXT
);
CREATE INDEX IF NOT EXISTS idx_signal_points_weekday ON signal_points(weekday);
`

// SQLiteSource loads the signal log from a local SQLite file.
type SQLiteSource struct {
	db *sql.DB
}

// OpenSQLite opens (and if needed creates) the database file and ensures the schema exists.
func OpenSQLite(path string) (*SQLiteSource, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}
	return &SQLiteSource{db: db}, nil
}

// Load implements signal.Store.
func (s *SQLiteSource) Load(ctx context.Context) (signal.Dataset, error) {
	rows, err := s.db.QueryContext(ctx, selectPoints)
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

// Import appends points in order inside one transaction.
func (s *SQLiteSource) Import(ctx context.Context, points []signal.Point) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO signal_points (lat, lng, obs_date, obs_time, weekday, description, source)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()
	for _, p := range points {
		if _, err := stmt.ExecContext(ctx, p.Lat, p.Lng, p.Date, p.Time, p.Day, nullable(p.Description), nullable(p.Source)); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert signal point: %w", err)
		}
	}
	return tx.Commit()
}

// Close releases the database handle.
func (s *SQLiteSource) Close() error {
	return s.db.Close()
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}

var _ signal.Store = (*SQLiteSource)(nil)
