package pattern

import "github.com/yanqian/patternlife/internal/domain/signal"

// BuildClusters runs partition, scoring, ranking and naming over already filtered points.
func BuildClusters(points []signal.Point, cfg Config) []Cluster {
	clusters := make([]Cluster, 0)
	if len(points) == 0 {
		return clusters
	}
	for i, g := range rank(Partition(points, cfg.Threshold), cfg) {
		clusters = append(clusters, classify(g, i, cfg))
	}
	return clusters
}

// Analyze computes the full view for one selector. It performs no I/O and keeps no state,
// so concurrent calls with different selectors are safe.
func Analyze(points []signal.Point, sel signal.Selector, cfg Config) View {
	filtered := signal.Filter(points, sel)
	view := View{
		Selector:    sel,
		Clusters:    BuildClusters(filtered, cfg),
		AOIs:        make([]AOI, 0),
		LockedDates: signal.LockedDates(points, sel),
		ShowHistory: signal.ShowHistory(sel),
	}
	if sel != signal.All {
		view.AOIs = DetectGaps(filtered, cfg)
	}
	return view
}
