package pointstore

import (
	"database/sql"
	"fmt"

	"github.com/yanqian/patternlife/internal/domain/signal"
)

const selectPoints = `
	SELECT lat, lng, obs_date, obs_time, weekday, description, source
	FROM signal_points
	ORDER BY seq
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPoint(row rowScanner) (signal.Point, error) {
	var (
		p           signal.Point
		description sql.NullString
		source      sql.NullString
	)
	if err := row.Scan(&p.Lat, &p.Lng, &p.Date, &p.Time, &p.Day, &description, &source); err != nil {
		return signal.Point{}, err
	}
	p.Description = description.String
	p.Source = source.String
	if err := signal.Validate(p); err != nil {
		return signal.Point{}, fmt.Errorf("stored point %s %s: %w", p.Date, p.Time, err)
	}
	return p, nil
}
