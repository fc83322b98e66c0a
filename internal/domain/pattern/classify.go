package pattern

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const pendingAssessment = "Pending AI Analysis..."

var clusterKeySpace = uuid.MustParse("0c6f4a52-3f1e-4b59-8d7c-2a9e61b3f0d4")

func classify(g scoredGroup, rank int, cfg Config) Cluster {
	hot := g.score > cfg.HotspotScore
	code := fmt.Sprintf("NODE-%d", rank+1)
	kind := "Transient"
	if hot {
		code = fmt.Sprintf("HOTSPOT-%d", rank+1)
		kind = "High Activity"
	}
	risk := "Low"
	if g.score > cfg.HighRiskScore {
		risk = "High"
	}

	first := g.Points[0]
	last := g.Points[len(g.Points)-1]

	return Cluster{
		ID:               rank + 100,
		Key:              clusterKey(g.Centroid),
		Name:             clusterName(g, rank, cfg.NameOverrides),
		Code:             code,
		Centroid:         g.Centroid,
		Type:             kind,
		Probability:      min(cfg.MaxProbability, g.score),
		Window:           first.Time + " - " + last.Time,
		Description:      fmt.Sprintf("Detected on %d unique dates with %d total signals.", g.uniqueDates, len(g.Points)),
		Assessment:       pendingAssessment,
		Risk:             risk,
		Color:            Color(cfg.Palette, rank),
		RawPoints:        g.Points,
		UniqueDatesCount: g.uniqueDates,
		Score:            g.score,
	}
}

func clusterName(g scoredGroup, rank int, overrides []NameOverride) string {
	for _, o := range overrides {
		for _, p := range g.Points {
			if o.Contains != "" && strings.Contains(p.Description, o.Contains) {
				return o.Name
			}
		}
	}
	return "Node " + string(rune('A'+rank))
}

func clusterKey(c LatLng) string {
	return uuid.NewSHA1(clusterKeySpace, []byte(fmt.Sprintf("%.4f,%.4f", c.Lat, c.Lng))).String()
}

// Color maps a rank onto the palette cyclically. An empty palette yields "".
func Color(palette []string, rank int) string {
	if len(palette) == 0 {
		return ""
	}
	return palette[rank%len(palette)]
}
