package signal

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Filter returns the points of the selected day in their original order.
// All returns the input slice itself.
func Filter(points []Point, sel Selector) []Point {
	if sel == All {
		return points
	}
	out := make([]Point, 0, len(points))
	for _, p := range points {
		if p.Day == string(sel) {
			out = append(out, p)
		}
	}
	return out
}

// LockedDates lists the distinct dates a host should display as routes for sel,
// in first-appearance order.
func LockedDates(points []Point, sel Selector) []string {
	seen := make(map[string]struct{})
	dates := make([]string, 0)
	for _, p := range Filter(points, sel) {
		if _, ok := seen[p.Date]; ok {
			continue
		}
		seen[p.Date] = struct{}{}
		dates = append(dates, p.Date)
	}
	return dates
}

// ShowHistory reports whether all-time points should be visible for sel.
func ShowHistory(sel Selector) bool {
	return sel == All
}

// SortByTime returns a copy ordered by the zero-padded "HH:MM" string. Ties keep input order.
func SortByTime(points []Point) []Point {
	out := make([]Point, len(points))
	copy(out, points)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time < out[j].Time
	})
	return out
}

// GroupByDate buckets points by date keeping each bucket in input order.
func GroupByDate(points []Point) map[string][]Point {
	groups := make(map[string][]Point)
	for _, p := range points {
		groups[p.Date] = append(groups[p.Date], p)
	}
	return groups
}

// ClockMinutes parses "HH:MM" into minutes after midnight.
func ClockMinutes(value string) (int, error) {
	hh, mm, ok := strings.Cut(value, ":")
	if !ok {
		return 0, fmt.Errorf("time %q is not HH:MM", value)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("time %q has bad hours: %w", value, err)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("time %q has bad minutes: %w", value, err)
	}
	return h*60 + m, nil
}
