package narrative

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/yanqian/patternlife/internal/domain/pattern"
	"github.com/yanqian/patternlife/internal/domain/signal"
	"github.com/yanqian/patternlife/internal/infra/llm/chatgpt"
	"github.com/yanqian/patternlife/pkg/metrics"
)

// Service produces analyst narratives. It never fails: upstream errors degrade to fixed text.
type Service interface {
	AnalyzeDay(ctx context.Context, day string, points []signal.Point) DayAnalysis
	ClusterIntel(ctx context.Context, cluster pattern.Cluster) string
	AOIIntel(ctx context.Context, aoi pattern.AOI) string
	LocationIntel(ctx context.Context, lat, lng float64) string
}

type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error)
}

var errNoClient = errors.New("no language model configured")

type service struct {
	cfg     Config
	client  ChatClient
	counter TokenCounter
	places  PlaceFinder
	logger  *slog.Logger

	mu    sync.Mutex
	usage metrics.TokenUsage
}

// NewService wires up the narrative domain. client and places may be nil.
func NewService(cfg Config, client ChatClient, counter TokenCounter, places PlaceFinder, logger *slog.Logger) Service {
	if cfg.SearchRadiusM <= 0 {
		cfg.SearchRadiusM = 400
	}
	if cfg.GridCellLevel <= 0 {
		cfg.GridCellLevel = 16
	}
	return &service{
		cfg:     cfg,
		client:  client,
		counter: counter,
		places:  places,
		logger:  logger.With("component", "narrative.service"),
	}
}

func (s *service) AnalyzeDay(ctx context.Context, day string, points []signal.Point) DayAnalysis {
	prompt, omitted := dayPrompt(day, points, s.cfg.MaxPromptTokens, s.counter)
	if omitted > 0 {
		s.logger.Info("day prompt trimmed to token budget", "day", day, "omitted", omitted, "budget", s.cfg.MaxPromptTokens)
	}

	content, err := s.complete(ctx, "day", prompt, true)
	if err != nil {
		s.logger.Error("day analysis failed", "day", day, "error", err)
		return unavailableDay()
	}
	analysis, err := parseDayAnalysis(content)
	if err != nil {
		s.logger.Error("day analysis malformed", "day", day, "error", err)
		return unavailableDay()
	}
	return analysis
}

func (s *service) ClusterIntel(ctx context.Context, cluster pattern.Cluster) string {
	places := s.nearby(ctx, cluster.Centroid.Lat, cluster.Centroid.Lng)
	content, err := s.complete(ctx, "cluster", clusterPrompt(cluster, places), false)
	if err != nil {
		s.logger.Warn("cluster intel failed, falling back to search", "cluster", cluster.Key, "error", err)
		return s.search(ctx, cluster.Centroid.Lat, cluster.Centroid.Lng, cluster.Description)
	}
	return orDefault(content, clusterEmpty)
}

func (s *service) AOIIntel(ctx context.Context, aoi pattern.AOI) string {
	content, err := s.complete(ctx, "aoi", aoiPrompt(aoi), false)
	if err != nil {
		s.logger.Warn("aoi intel failed, falling back to search", "aoi", aoi.Key, "error", err)
		return s.search(ctx, aoi.Center.Lat, aoi.Center.Lng, aoiContext(aoi))
	}
	return orDefault(content, aoiEmpty)
}

func (s *service) LocationIntel(ctx context.Context, lat, lng float64) string {
	places := s.nearby(ctx, lat, lng)
	content, err := s.complete(ctx, "location", locationPrompt(lat, lng, s.cfg.SearchRadiusM, s.cfg.GridCellLevel, places), false)
	if err != nil {
		s.logger.Warn("site survey failed, falling back to search", "lat", lat, "lng", lng, "error", err)
		return s.search(ctx, lat, lng, "Site Survey")
	}
	return orDefault(content, locationEmpty)
}

func (s *service) search(ctx context.Context, lat, lng float64, hint string) string {
	content, err := s.complete(ctx, "search", searchPrompt(lat, lng, hint), false)
	if err != nil {
		s.logger.Error("fallback search failed", "lat", lat, "lng", lng, "error", err)
		return failedText
	}
	return orDefault(content, fallbackEmpty)
}

// nearby is best effort; lookup failures only drop the places section.
func (s *service) nearby(ctx context.Context, lat, lng float64) []Place {
	if s.places == nil || s.client == nil {
		return nil
	}
	places, err := s.places.Nearby(ctx, lat, lng, s.cfg.SearchRadiusM)
	if err != nil {
		s.logger.Warn("nearby place lookup failed", "lat", lat, "lng", lng, "error", err)
		return nil
	}
	return places
}

func (s *service) complete(ctx context.Context, kind, prompt string, jsonReply bool) (string, error) {
	if s.client == nil {
		return "", errNoClient
	}
	req := chatgpt.ChatCompletionRequest{
		Model:       s.cfg.Model,
		Temperature: s.cfg.Temperature,
		Messages: []chatgpt.Message{
			{Role: "system", Content: s.cfg.SystemPrompt},
			{Role: "user", Content: prompt},
		},
	}
	if jsonReply {
		req.ResponseFormat = chatgpt.JSONObject
	}
	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	s.recordUsage(kind, resp.Usage)
	return resp.Content(), nil
}

func (s *service) recordUsage(kind string, usage metrics.TokenUsage) {
	if usage.IsZero() {
		return
	}
	s.mu.Lock()
	s.usage = s.usage.Add(usage)
	total := s.usage
	s.mu.Unlock()
	s.logger.Info("llm usage",
		"kind", kind,
		"prompt_tokens", usage.PromptTokens,
		"completion_tokens", usage.CompletionTokens,
		"total_tokens", usage.TotalTokens,
		"lifetime_total_tokens", total.TotalTokens,
	)
}

func parseDayAnalysis(raw string) (DayAnalysis, error) {
	sanitized := strings.TrimSpace(raw)
	sanitized = strings.TrimPrefix(sanitized, "```json")
	sanitized = strings.TrimSuffix(sanitized, "```")
	sanitized = strings.TrimSpace(strings.Trim(sanitized, "`"))
	if sanitized == "" {
		sanitized = "{}"
	}

	var out DayAnalysis
	if err := json.Unmarshal([]byte(sanitized), &out); err != nil {
		return DayAnalysis{}, err
	}
	out.Summary = strings.TrimSpace(out.Summary)
	switch level := strings.ToUpper(strings.TrimSpace(out.AttentionLevel)); level {
	case AttentionLow, AttentionMedium, AttentionHigh:
		out.AttentionLevel = level
	default:
		out.AttentionLevel = AttentionLow
	}
	insights := make([]string, 0, len(out.KeyInsights))
	for _, item := range out.KeyInsights {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			insights = append(insights, trimmed)
		}
	}
	out.KeyInsights = insights
	return out, nil
}

func orDefault(content, fallback string) string {
	if strings.TrimSpace(content) == "" {
		return fallback
	}
	return content
}
