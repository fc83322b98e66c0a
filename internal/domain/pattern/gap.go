package pattern

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/yanqian/patternlife/internal/domain/signal"
)

var aoiKeySpace = uuid.MustParse("9d2e7b64-51c0-4f3a-b8e2-6a1d0c4f7e93")

// DetectGaps scans one day's points in time order and emits a GAP for every adjacent pair
// more than cfg.GapMinutes apart. Pairs with an unparsable time are skipped.
func DetectGaps(dayPoints []signal.Point, cfg Config) []AOI {
	aois := make([]AOI, 0)
	if len(dayPoints) < 2 {
		return aois
	}
	sorted := signal.SortByTime(dayPoints)

	for i := 0; i < len(sorted)-1; i++ {
		p1, p2 := sorted[i], sorted[i+1]
		m1, err1 := signal.ClockMinutes(p1.Time)
		m2, err2 := signal.ClockMinutes(p2.Time)
		if err1 != nil || err2 != nil {
			continue
		}
		diff := m2 - m1
		if diff <= cfg.GapMinutes {
			continue
		}
		aois = append(aois, AOI{
			ID:        fmt.Sprintf("gap-%d", i),
			Key:       aoiKey(p1),
			Center:    LatLng{Lat: p1.Lat, Lng: p1.Lng},
			Radius:    cfg.AOIRadius,
			Label:     "Last seen: " + p1.Time,
			Type:      AOIGap,
			Duration:  FormatDuration(diff),
			Points:    []signal.Point{p1},
			RiskLevel: RiskMedium,
		})
	}
	return aois
}

// FormatDuration renders whole minutes as "{h}h {m}m".
func FormatDuration(minutes int) string {
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

func aoiKey(anchor signal.Point) string {
	return uuid.NewSHA1(aoiKeySpace, []byte(fmt.Sprintf("%s %s %.5f,%.5f", anchor.Date, anchor.Time, anchor.Lat, anchor.Lng))).String()
}
