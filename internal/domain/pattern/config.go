package pattern

import "time"

// NameOverride renames a cluster when any member description contains Contains.
type NameOverride struct {
	Contains string `yaml:"contains" json:"contains"`
	Name     string `yaml:"name" json:"name"`
}

// Config carries every tunable of the analysis core. It is passed per call;
// the core reads nothing else.
type Config struct {
	// Threshold is the half-width in degrees of the box test on each axis.
	Threshold      float64
	DateWeight     int
	SignalWeight   int
	TopN           int
	HotspotScore   int
	HighRiskScore  int
	MaxProbability int
	GapMinutes     int
	AOIRadius      float64
	Palette        []string
	NameOverrides  []NameOverride
}

// DefaultConfig reproduces the constants of the original investigative tool.
func DefaultConfig() Config {
	return Config{
		Threshold:      0.002,
		DateWeight:     25,
		SignalWeight:   5,
		TopN:           6,
		HotspotScore:   50,
		HighRiskScore:  60,
		MaxProbability: 99,
		GapMinutes:     45,
		AOIRadius:      300,
		Palette:        DefaultPalette(),
		NameOverrides: []NameOverride{
			{Contains: "Walmart", Name: "Walmart Sector"},
			{Contains: "Jacksboro", Name: "Jacksboro Corridor"},
		},
	}
}

// DefaultPalette is the ordered zone color list used by the map.
func DefaultPalette() []string {
	return []string{"#ef4444", "#f59e0b", "#10b981", "#3b82f6", "#a855f7", "#ec4899"}
}

// ServiceConfig wires the host-layer service.
type ServiceConfig struct {
	Analysis Config
	CacheTTL time.Duration
}
