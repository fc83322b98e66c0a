package pattern

import (
	"math"

	"github.com/yanqian/patternlife/internal/domain/signal"
)

// Group is an open cluster before scoring: running centroid plus members in assignment order.
type Group struct {
	Centroid LatLng
	Points   []signal.Point
}

type builder struct {
	lat    float64
	lng    float64
	count  int
	points []signal.Point
}

func seed(p signal.Point) builder {
	return builder{lat: p.Lat, lng: p.Lng, count: 1, points: []signal.Point{p}}
}

func (b builder) accepts(p signal.Point, threshold float64) bool {
	return math.Abs(b.lat-p.Lat) < threshold && math.Abs(b.lng-p.Lng) < threshold
}

func (b builder) add(p signal.Point) builder {
	n := float64(b.count)
	return builder{
		lat:    (b.lat*n + p.Lat) / (n + 1),
		lng:    (b.lng*n + p.Lng) / (n + 1),
		count:  b.count + 1,
		points: append(b.points, p),
	}
}

// Partition assigns every point to the first open group whose centroid box contains it,
// opening a new group otherwise. The result depends on input order.
func Partition(points []signal.Point, threshold float64) []Group {
	builders := make([]builder, 0)
	for _, p := range points {
		matched := false
		for i := range builders {
			if builders[i].accepts(p, threshold) {
				builders[i] = builders[i].add(p)
				matched = true
				break
			}
		}
		if !matched {
			builders = append(builders, seed(p))
		}
	}

	groups := make([]Group, len(builders))
	for i, b := range builders {
		groups[i] = Group{Centroid: LatLng{Lat: b.lat, Lng: b.lng}, Points: b.points}
	}
	return groups
}
