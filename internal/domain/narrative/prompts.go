package narrative

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/golang/geo/s2"

	"github.com/yanqian/patternlife/internal/domain/pattern"
	"github.com/yanqian/patternlife/internal/domain/signal"
)

// TokenCounter sizes prompt text.
type TokenCounter interface {
	Count(text string) int
}

// PlaceFinder lists named places around a coordinate.
type PlaceFinder interface {
	Nearby(ctx context.Context, lat, lng float64, radiusM int) ([]Place, error)
}

const dayInstructions = `Provide a JSON response with:
- summary: A brief narrative of the day's activity, focusing on the flow of movement.
- attentionLevel: LOW (Routine), MEDIUM (Minor Deviation), or HIGH (Major Deviation).
- keyInsights: An array of 2-3 specific observations (e.g., "Commute time matches historical average", "Unusual stop at Location X").`

func pointLine(p signal.Point) string {
	desc := p.Description
	if desc == "" {
		desc = "Unknown"
	}
	return fmt.Sprintf("- %s: %.4f, %.4f (%s)", p.Time, p.Lat, p.Lng, desc)
}

// dayPrompt lists points in order until the token budget is spent; a zero budget lists all.
func dayPrompt(day string, points []signal.Point, budget int, counter TokenCounter) (string, int) {
	head := fmt.Sprintf("Analyze the following movement data for %s.\n\nData:\n", day)
	tail := "\n\n" + dayInstructions

	used := 0
	if budget > 0 && counter != nil {
		used = counter.Count(head) + counter.Count(tail)
	}
	lines := make([]string, 0, len(points))
	for _, p := range points {
		line := pointLine(p)
		if budget > 0 && counter != nil {
			cost := counter.Count(line)
			if used+cost > budget {
				break
			}
			used += cost
		}
		lines = append(lines, line)
	}
	omitted := len(points) - len(lines)
	if omitted > 0 {
		lines = append(lines, fmt.Sprintf("- ... %d later points omitted", omitted))
	}
	return head + strings.Join(lines, "\n") + tail, omitted
}

func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func placesSection(places []Place) string {
	if len(places) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n\nMapped places nearby (OpenStreetMap):")
	for _, p := range places {
		fmt.Fprintf(&b, "\n- %s (%s)", p.Name, p.Kind)
	}
	return b.String()
}

func clusterPrompt(c pattern.Cluster, places []Place) string {
	return fmt.Sprintf(`Search for places and businesses at these coordinates: %s, %s.
What is the primary function of this area (Residential, Commercial, Industrial)?
Does it match the description %q?`, coord(c.Centroid.Lat), coord(c.Centroid.Lng), c.Description) + placesSection(places)
}

func aoiContext(a pattern.AOI) string {
	if a.Type == pattern.AOIGap {
		return fmt.Sprintf("Signal lost for %s.", a.Duration)
	}
	return fmt.Sprintf("Dwell time of %s.", a.Duration)
}

func aoiPrompt(a pattern.AOI) string {
	return fmt.Sprintf(`Identify the nearest buildings or landmarks to coordinates: %s, %s.
Context: %s
Hypothesize the reason for the stop.`, coord(a.Center.Lat), coord(a.Center.Lng), aoiContext(a))
}

// gridReference is the S2 cell token covering the point at the given level.
func gridReference(lat, lng float64, level int) string {
	if level < 0 || level > s2.MaxLevel {
		return "Unknown"
	}
	ll := s2.LatLngFromDegrees(lat, lng)
	if !ll.IsValid() {
		return "Unknown"
	}
	return s2.CellIDFromLatLng(ll).Parent(level).ToToken()
}

func hemispheres(lat, lng float64) (string, string) {
	latDir, lngDir := "North", "East"
	if lat < 0 {
		latDir = "South"
	}
	if lng < 0 {
		lngDir = "West"
	}
	return latDir, lngDir
}

func locationPrompt(lat, lng float64, radiusM, level int, places []Place) string {
	latDir, lngDir := hemispheres(lat, lng)
	return fmt.Sprintf(`Perform a comprehensive site survey for the location.

Location Data:
- Decimal: %s (%s), %s (%s)
- S2 Cell (level %d): %s

1. Identify the nearest street address and major intersection.
2. List all businesses, restaurants, retail stores, and landmarks within a %dm radius of these coordinates, and mention any popular chains.
3. Describe the environment (e.g., "Dense Commercial", "Rural Residential", "University Campus").`,
		coord(lat), latDir, coord(lng), lngDir, level, gridReference(lat, lng, level), radiusM) + placesSection(places)
}

func searchPrompt(lat, lng float64, hint string) string {
	return fmt.Sprintf(`I have coordinates: %s, %s.
Context: %s

1. Find what is at or near these coordinates.
2. Describe the location type (Commercial, Residential, etc).`, coord(lat), coord(lng), hint)
}
