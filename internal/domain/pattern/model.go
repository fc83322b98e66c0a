package pattern

import "github.com/yanqian/patternlife/internal/domain/signal"

// LatLng is a coordinate pair in degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Cluster is a ranked recurring location. ID is positional (rank+100) and changes between
// recomputations; Key is derived from the rounded centroid and survives them.
type Cluster struct {
	ID               int            `json:"id"`
	Key              string         `json:"key"`
	Name             string         `json:"name"`
	Code             string         `json:"code"`
	Centroid         LatLng         `json:"centroid"`
	Type             string         `json:"type"`
	Probability      int            `json:"probability"`
	Window           string         `json:"window"`
	Description      string         `json:"description"`
	Assessment       string         `json:"assessment"`
	Risk             string         `json:"risk"`
	Color            string         `json:"color"`
	RawPoints        []signal.Point `json:"rawPoints"`
	UniqueDatesCount int            `json:"uniqueDatesCount"`
	Score            int            `json:"score"`
}

// AOIType distinguishes signal gaps from dwells.
type AOIType string

const (
	AOIGap AOIType = "GAP"
	// AOIDwell marks prolonged loitering at one place. No detector emits it yet.
	AOIDwell AOIType = "DWELL"
)

// RiskLevel grades an area of interest.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// AOI is a temporal anomaly within one day's movement.
type AOI struct {
	ID        string         `json:"id"`
	Key       string         `json:"key"`
	Center    LatLng         `json:"center"`
	Radius    float64        `json:"radius"`
	Label     string         `json:"label"`
	Type      AOIType        `json:"type"`
	Duration  string         `json:"duration"`
	Points    []signal.Point `json:"points"`
	RiskLevel RiskLevel      `json:"riskLevel"`
}

// View is everything a host needs to render one day selector.
type View struct {
	Selector    signal.Selector `json:"selector"`
	Clusters    []Cluster       `json:"clusters"`
	AOIs        []AOI           `json:"aois"`
	LockedDates []string        `json:"lockedDates"`
	ShowHistory bool            `json:"showHistory"`
}
