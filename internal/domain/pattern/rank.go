package pattern

import "sort"

type scoredGroup struct {
	Group
	uniqueDates int
	score       int
}

func scoreGroup(g Group, cfg Config) scoredGroup {
	dates := make(map[string]struct{}, len(g.Points))
	for _, p := range g.Points {
		dates[p.Date] = struct{}{}
	}
	return scoredGroup{
		Group:       g,
		uniqueDates: len(dates),
		score:       len(dates)*cfg.DateWeight + len(g.Points)*cfg.SignalWeight,
	}
}

// rank scores groups, orders them by descending score keeping creation order on ties,
// and keeps the first cfg.TopN.
func rank(groups []Group, cfg Config) []scoredGroup {
	scored := make([]scoredGroup, 0, len(groups))
	for _, g := range groups {
		scored = append(scored, scoreGroup(g, cfg))
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	if cfg.TopN >= 0 && len(scored) > cfg.TopN {
		scored = scored[:cfg.TopN]
	}
	return scored
}
