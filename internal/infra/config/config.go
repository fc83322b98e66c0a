package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/yanqian/patternlife/internal/domain/pattern"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Analysis  AnalysisConfig  `yaml:"analysis"`
	Dataset   DatasetConfig   `yaml:"dataset"`
	Cache     CacheConfig     `yaml:"cache"`
	Routing   RoutingConfig   `yaml:"routing"`
	LLM       LLMConfig       `yaml:"llm"`
	Narrative NarrativeConfig `yaml:"narrative"`
	Places    PlacesConfig    `yaml:"places"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
	Retry          RetryConfig     `yaml:"retry"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// RetryConfig configures best-effort retries for POST requests.
type RetryConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxAttempts int           `yaml:"maxAttempts"`
	BaseBackoff time.Duration `yaml:"baseBackoff"`
	Exclude     []string      `yaml:"exclude"`
}

// AnalysisConfig mirrors pattern.Config; zero values fall back to the defaults.
type AnalysisConfig struct {
	Threshold      float64                `yaml:"threshold"`
	DateWeight     int                    `yaml:"dateWeight"`
	SignalWeight   int                    `yaml:"signalWeight"`
	TopN           int                    `yaml:"topN"`
	HotspotScore   int                    `yaml:"hotspotScore"`
	HighRiskScore  int                    `yaml:"highRiskScore"`
	MaxProbability int                    `yaml:"maxProbability"`
	GapMinutes     int                    `yaml:"gapMinutes"`
	AOIRadius      float64                `yaml:"aoiRadius"`
	Palette        []string               `yaml:"palette"`
	NameOverrides  []pattern.NameOverride `yaml:"nameOverrides"`
}

// DatasetConfig selects and configures the point store.
type DatasetConfig struct {
	Driver   string         `yaml:"driver"`
	Path     string         `yaml:"path"`
	Postgres PostgresConfig `yaml:"postgres"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Object   ObjectConfig   `yaml:"object"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// SQLiteConfig points at a local database file.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// ObjectConfig locates a dataset object in S3-compatible storage.
type ObjectConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Key       string `yaml:"key"`
	Region    string `yaml:"region"`
}

// CacheConfig controls result memoization.
type CacheConfig struct {
	TTL   time.Duration `yaml:"ttl"`
	Redis RedisConfig   `yaml:"redis"`
}

// RedisConfig contains connection information for cache storage.
type RedisConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Prefix  string `yaml:"prefix"`
}

// RoutingConfig configures the route geometry collaborator.
type RoutingConfig struct {
	BaseURL     string        `yaml:"baseUrl"`
	Profile     string        `yaml:"profile"`
	Timeout     time.Duration `yaml:"timeout"`
	MaxPoints   int           `yaml:"maxPoints"`
	Concurrency int           `yaml:"concurrency"`
	Simplify    float64       `yaml:"simplify"`
}

// LLMConfig contains ChatGPT/OpenAI settings.
type LLMConfig struct {
	APIKey      string  `yaml:"apiKey"`
	BaseURL     string  `yaml:"baseUrl"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
	Encoding    string  `yaml:"encoding"`
}

// NarrativeConfig controls the analyst prompts.
type NarrativeConfig struct {
	SystemPrompt    string `yaml:"systemPrompt"`
	MaxPromptTokens int    `yaml:"maxPromptTokens"`
	SearchRadiusM   int    `yaml:"searchRadiusM"`
	GridCellLevel   int    `yaml:"gridCellLevel"`
}

// PlacesConfig configures the OpenStreetMap nearby-place lookup.
type PlacesConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
	Limit    int           `yaml:"limit"`
}

// Load reads configuration from .env, a YAML file, and environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("HTTP_RETRY_ENABLED"); v != "" {
		cfg.HTTP.Retry.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RETRY_MAX_ATTEMPTS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.Retry.MaxAttempts = parsed
		}
	}
	if v := os.Getenv("ANALYSIS_THRESHOLD"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Analysis.Threshold = parsed
		}
	}
	if v := os.Getenv("ANALYSIS_TOP_N"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Analysis.TopN = parsed
		}
	}
	if v := os.Getenv("ANALYSIS_GAP_MINUTES"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Analysis.GapMinutes = parsed
		}
	}
	if v := os.Getenv("DATASET_DRIVER"); v != "" {
		cfg.Dataset.Driver = strings.ToLower(v)
	}
	if v := os.Getenv("DATASET_PATH"); v != "" {
		cfg.Dataset.Path = v
	}
	if v := os.Getenv("DATASET_POSTGRES_DSN"); v != "" {
		cfg.Dataset.Postgres.DSN = v
	}
	if v := os.Getenv("DATASET_SQLITE_PATH"); v != "" {
		cfg.Dataset.SQLite.Path = v
	}
	if v := os.Getenv("DATASET_OBJECT_ENDPOINT"); v != "" {
		cfg.Dataset.Object.Endpoint = v
	}
	if v := os.Getenv("DATASET_OBJECT_ACCESS_KEY"); v != "" {
		cfg.Dataset.Object.AccessKey = v
	}
	if v := os.Getenv("DATASET_OBJECT_SECRET_KEY"); v != "" {
		cfg.Dataset.Object.SecretKey = v
	}
	if v := os.Getenv("DATASET_OBJECT_BUCKET"); v != "" {
		cfg.Dataset.Object.Bucket = v
	}
	if v := os.Getenv("DATASET_OBJECT_KEY"); v != "" {
		cfg.Dataset.Object.Key = v
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Cache.TTL = parsed
		}
	}
	if v := os.Getenv("CACHE_REDIS_ENABLED"); v != "" {
		cfg.Cache.Redis.Enabled = parseBool(v)
	}
	if v := os.Getenv("CACHE_REDIS_ADDR"); v != "" {
		cfg.Cache.Redis.Addr = v
	}
	if v := os.Getenv("ROUTING_BASE_URL"); v != "" {
		cfg.Routing.BaseURL = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.LLM.Temperature = float32(parsed)
		}
	}
	if v := os.Getenv("NARRATIVE_MAX_PROMPT_TOKENS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Narrative.MaxPromptTokens = parsed
		}
	}
	if v := os.Getenv("PLACES_ENABLED"); v != "" {
		cfg.Places.Enabled = parseBool(v)
	}
	if v := os.Getenv("PLACES_ENDPOINT"); v != "" {
		cfg.Places.Endpoint = v
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func defaultConfig() *Config {
	def := pattern.DefaultConfig()
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 30 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 120,
				Burst:             30,
			},
			Retry: RetryConfig{
				Enabled:     true,
				MaxAttempts: 2,
				BaseBackoff: 150 * time.Millisecond,
				Exclude: []string{
					"/api/v1/analysis/day",
				},
			},
		},
		Analysis: AnalysisConfig{
			Threshold:      def.Threshold,
			DateWeight:     def.DateWeight,
			SignalWeight:   def.SignalWeight,
			TopN:           def.TopN,
			HotspotScore:   def.HotspotScore,
			HighRiskScore:  def.HighRiskScore,
			MaxProbability: def.MaxProbability,
			GapMinutes:     def.GapMinutes,
			AOIRadius:      def.AOIRadius,
			Palette:        def.Palette,
			NameOverrides:  def.NameOverrides,
		},
		Dataset: DatasetConfig{
			Driver: "file",
			Path:   "data/signals.json",
			Postgres: PostgresConfig{
				MaxConns: 4,
			},
			SQLite: SQLiteConfig{
				Path: "data/signals.db",
			},
		},
		Cache: CacheConfig{
			TTL: 10 * time.Minute,
			Redis: RedisConfig{
				Prefix: "patternlife",
			},
		},
		Routing: RoutingConfig{
			BaseURL:     "https://router.project-osrm.org",
			Profile:     "driving",
			Timeout:     10 * time.Second,
			MaxPoints:   25,
			Concurrency: 4,
		},
		LLM: LLMConfig{
			Model:       "gpt-4o-mini",
			Temperature: 0.2,
			Encoding:    "cl100k_base",
		},
		Narrative: NarrativeConfig{
			SystemPrompt:    "You are an expert Pattern of Life (PoL) Analyst. Your task is to analyze movement data to identify routines, common routes, and deviations. Your output should be objective, analytical, and professional. Focus on routine establishment (regular commutes, repeated stops, established corridors), anomaly detection (unexpected stops, deviations from the norm), and the efficiency and logic of the route. Do not use military or tactical terminology.",
			MaxPromptTokens: 3000,
			SearchRadiusM:   400,
			GridCellLevel:   16,
		},
		Places: PlacesConfig{
			Endpoint: "https://overpass-api.de/api/interpreter",
			Timeout:  10 * time.Second,
			Limit:    15,
		},
	}
}

// PatternConfig converts the analysis section into the core's call-time config.
func (c *Config) PatternConfig() pattern.Config {
	a := c.Analysis
	return pattern.Config{
		Threshold:      a.Threshold,
		DateWeight:     a.DateWeight,
		SignalWeight:   a.SignalWeight,
		TopN:           a.TopN,
		HotspotScore:   a.HotspotScore,
		HighRiskScore:  a.HighRiskScore,
		MaxProbability: a.MaxProbability,
		GapMinutes:     a.GapMinutes,
		AOIRadius:      a.AOIRadius,
		Palette:        a.Palette,
		NameOverrides:  a.NameOverrides,
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.Analysis.Threshold <= 0 {
		return errors.New("analysis.threshold must be positive")
	}
	if c.Analysis.TopN <= 0 {
		return errors.New("analysis.topN must be positive")
	}
	if c.Analysis.GapMinutes < 0 {
		return errors.New("analysis.gapMinutes cannot be negative")
	}
	if len(c.Analysis.Palette) == 0 {
		return errors.New("analysis.palette cannot be empty")
	}
	switch c.Dataset.Driver {
	case "file":
		if strings.TrimSpace(c.Dataset.Path) == "" {
			return errors.New("dataset.path cannot be empty for the file driver")
		}
	case "postgres":
		if strings.TrimSpace(c.Dataset.Postgres.DSN) == "" {
			return errors.New("dataset.postgres.dsn cannot be empty for the postgres driver")
		}
	case "sqlite":
		if strings.TrimSpace(c.Dataset.SQLite.Path) == "" {
			return errors.New("dataset.sqlite.path cannot be empty for the sqlite driver")
		}
	case "s3":
		if c.Dataset.Object.Endpoint == "" || c.Dataset.Object.Bucket == "" || c.Dataset.Object.Key == "" {
			return errors.New("dataset.object endpoint, bucket and key are required for the s3 driver")
		}
	default:
		return fmt.Errorf("dataset.driver %q is not supported", c.Dataset.Driver)
	}
	if c.Cache.TTL < 0 {
		return errors.New("cache.ttl cannot be negative")
	}
	if c.Cache.Redis.Enabled && strings.TrimSpace(c.Cache.Redis.Addr) == "" {
		return errors.New("cache.redis.addr cannot be empty when redis cache is enabled")
	}
	if c.Routing.MaxPoints < 2 {
		return errors.New("routing.maxPoints must be at least 2")
	}
	if c.Routing.Concurrency <= 0 {
		return errors.New("routing.concurrency must be positive")
	}
	if c.Narrative.MaxPromptTokens <= 0 {
		return errors.New("narrative.maxPromptTokens must be positive")
	}
	if c.Narrative.GridCellLevel < 0 || c.Narrative.GridCellLevel > 30 {
		return errors.New("narrative.gridCellLevel must be within 0..30")
	}
	if c.Places.Enabled && c.Places.Limit <= 0 {
		return errors.New("places.limit must be positive when places lookup is enabled")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.HTTP.Retry.Enabled {
		if c.HTTP.Retry.MaxAttempts <= 0 {
			return errors.New("http.retry.maxAttempts must be positive")
		}
		if c.HTTP.Retry.BaseBackoff <= 0 {
			return errors.New("http.retry.baseBackoff must be positive")
		}
	}
	return nil
}
