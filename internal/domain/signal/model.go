package signal

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// Point is one timestamped geolocation ping. Points are never mutated once loaded.
type Point struct {
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Date        string  `json:"date"`
	Time        string  `json:"time"`
	Day         string  `json:"day"`
	Description string  `json:"description,omitempty"`
	Source      string  `json:"source,omitempty"`
}

// Dataset is the ordered point log plus a content fingerprint used as a cache key.
type Dataset struct {
	Fingerprint string
	Points      []Point
}

// Store supplies the whole dataset. Implementations live under internal/infra/pointstore.
type Store interface {
	Load(ctx context.Context) (Dataset, error)
}

var fingerprintSpace = uuid.MustParse("5b0f3c1e-8a34-4d8e-9a53-1c7e2f6d9b10")

// Fingerprint derives a deterministic identifier from the canonical encoding of points.
func Fingerprint(points []Point) string {
	var b strings.Builder
	for _, p := range points {
		b.WriteString(canonical(p))
		b.WriteByte('\n')
	}
	return uuid.NewSHA1(fingerprintSpace, []byte(b.String())).String()
}

// NewDataset wraps points with their fingerprint.
func NewDataset(points []Point) Dataset {
	return Dataset{Fingerprint: Fingerprint(points), Points: points}
}
