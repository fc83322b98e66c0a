package route

import (
	"github.com/paulmach/orb/geojson"

	"github.com/yanqian/patternlife/internal/domain/signal"
)

// Config bounds how routes are requested and post-processed.
type Config struct {
	// MaxWaypoints caps how many time-sorted points per date go to the provider.
	MaxWaypoints int
	Concurrency  int
	// Simplify is the Douglas-Peucker tolerance in degrees; zero disables it.
	Simplify float64
}

// DefaultConfig mirrors the public OSRM demo limits.
func DefaultConfig() Config {
	return Config{MaxWaypoints: 25, Concurrency: 4}
}

// Route is the movement path for one locked date.
type Route struct {
	Date         string            `json:"date"`
	Path         *geojson.Geometry `json:"path"`
	Hits         []signal.Point    `json:"hits"`
	Waypoints    int               `json:"waypoints"`
	LengthMeters float64           `json:"lengthMeters"`
	Fallback     bool              `json:"fallback"`
}
