package route

import (
	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"

	"github.com/yanqian/patternlife/internal/domain/signal"
)

const earthRadiusMeters = 6371008.8

func lineOf(points []signal.Point) orb.LineString {
	line := make(orb.LineString, 0, len(points))
	for _, p := range points {
		line = append(line, orb.Point{p.Lng, p.Lat})
	}
	return line
}

// lengthMeters sums great-circle segment lengths.
func lengthMeters(line orb.LineString) float64 {
	total := 0.0
	for i := 1; i < len(line); i++ {
		a := s2.LatLngFromDegrees(line[i-1].Lat(), line[i-1].Lon())
		b := s2.LatLngFromDegrees(line[i].Lat(), line[i].Lon())
		total += a.Distance(b).Radians() * earthRadiusMeters
	}
	return total
}

func simplifyLine(line orb.LineString, tolerance float64) orb.LineString {
	if tolerance <= 0 || len(line) < 3 {
		return line
	}
	out, ok := simplify.DouglasPeucker(tolerance).Simplify(line.Clone()).(orb.LineString)
	if !ok || len(out) < 2 {
		return line
	}
	return out
}
