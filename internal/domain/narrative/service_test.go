package narrative

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/patternlife/internal/domain/pattern"
	"github.com/yanqian/patternlife/internal/domain/signal"
	"github.com/yanqian/patternlife/internal/infra/llm/chatgpt"
	"github.com/yanqian/patternlife/pkg/metrics"
)

type stubReply struct {
	content string
	err     error
}

type stubChatClient struct {
	replies  []stubReply
	requests []chatgpt.ChatCompletionRequest
}

func (s *stubChatClient) CreateChatCompletion(_ context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error) {
	s.requests = append(s.requests, req)
	if len(s.replies) == 0 {
		return chatgpt.ChatCompletionResponse{}, errors.New("no reply scripted")
	}
	reply := s.replies[0]
	s.replies = s.replies[1:]
	if reply.err != nil {
		return chatgpt.ChatCompletionResponse{}, reply.err
	}
	return chatgpt.ChatCompletionResponse{
		Choices: []chatgpt.Choice{{Message: chatgpt.Message{Role: "assistant", Content: reply.content}}},
		Usage:   metrics.TokenUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
	}, nil
}

type wordCounter struct{}

func (wordCounter) Count(text string) int { return len(strings.Fields(text)) }

type stubPlaces struct {
	places []Place
	err    error
	radius int
}

func (s *stubPlaces) Nearby(_ context.Context, _, _ float64, radiusM int) ([]Place, error) {
	s.radius = radiusM
	return s.places, s.err
}

func newTestService(client ChatClient) Service {
	return NewService(Config{Model: "gpt-test", SystemPrompt: "analyst"}, client, wordCounter{}, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

var mondayPoints = []signal.Point{
	{Lat: 32.78, Lng: -97.38, Date: "2024-03-04", Time: "08:00", Day: "MON", Description: "Walmart lot"},
	{Lat: 32.79, Lng: -97.39, Date: "2024-03-04", Time: "09:10", Day: "MON"},
}

func TestAnalyzeDaySuccess(t *testing.T) {
	client := &stubChatClient{replies: []stubReply{{content: "```json\n{\"summary\":\" Routine commute \",\"attentionLevel\":\"medium\",\"keyInsights\":[\"Stop at Walmart\",\" \"]}\n```"}}}
	got := newTestService(client).AnalyzeDay(context.Background(), "MON", mondayPoints)

	require.Equal(t, DayAnalysis{Summary: "Routine commute", AttentionLevel: AttentionMedium, KeyInsights: []string{"Stop at Walmart"}}, got)
	require.Len(t, client.requests, 1)
	req := client.requests[0]
	require.Equal(t, chatgpt.JSONObject, req.ResponseFormat)
	require.Equal(t, "analyst", req.Messages[0].Content)
	require.Contains(t, req.Messages[1].Content, "- 08:00: 32.7800, -97.3800 (Walmart lot)")
	require.Contains(t, req.Messages[1].Content, "- 09:10: 32.7900, -97.3900 (Unknown)")
}

func TestAnalyzeDayFallbacks(t *testing.T) {
	want := DayAnalysis{
		Summary:        "Analysis unavailable due to connection error.",
		AttentionLevel: AttentionLow,
		KeyInsights:    []string{"Data unavailable"},
	}
	failing := &stubChatClient{replies: []stubReply{{err: errors.New("timeout")}}}
	require.Equal(t, want, newTestService(failing).AnalyzeDay(context.Background(), "MON", mondayPoints))

	malformed := &stubChatClient{replies: []stubReply{{content: "not json"}}}
	require.Equal(t, want, newTestService(malformed).AnalyzeDay(context.Background(), "MON", mondayPoints))

	require.Equal(t, want, newTestService(nil).AnalyzeDay(context.Background(), "MON", mondayPoints))
}

func TestAnalyzeDayEmptyReply(t *testing.T) {
	client := &stubChatClient{replies: []stubReply{{content: ""}}}
	got := newTestService(client).AnalyzeDay(context.Background(), "MON", nil)
	require.Equal(t, AttentionLow, got.AttentionLevel)
	require.Empty(t, got.KeyInsights)
}

func TestDayPromptRespectsBudget(t *testing.T) {
	_, omitted := dayPrompt("MON", mondayPoints, 0, wordCounter{})
	require.Zero(t, omitted)

	headAndTail := wordCounter{}.Count("Analyze the following movement data for MON.\n\nData:\n") + wordCounter{}.Count("\n\n"+dayInstructions)
	oneLine := wordCounter{}.Count(pointLine(mondayPoints[0]))
	trimmed, omitted := dayPrompt("MON", mondayPoints, headAndTail+oneLine, wordCounter{})
	require.Equal(t, 1, omitted)
	require.Contains(t, trimmed, "(Walmart lot)")
	require.NotContains(t, trimmed, "09:10")
	require.Contains(t, trimmed, "1 later points omitted")
}

func TestClusterIntel(t *testing.T) {
	cluster := pattern.Cluster{Key: "k", Centroid: pattern.LatLng{Lat: 32.78, Lng: -97.38}, Description: "Detected on 2 unique dates with 4 total signals."}

	ok := &stubChatClient{replies: []stubReply{{content: "Retail strip."}}}
	require.Equal(t, "Retail strip.", newTestService(ok).ClusterIntel(context.Background(), cluster))
	require.Contains(t, ok.requests[0].Messages[1].Content, "coordinates: 32.78, -97.38")
	require.Nil(t, ok.requests[0].ResponseFormat)

	empty := &stubChatClient{replies: []stubReply{{content: "  "}}}
	require.Equal(t, "No intelligence available.", newTestService(empty).ClusterIntel(context.Background(), cluster))

	fallback := &stubChatClient{replies: []stubReply{{err: errors.New("rejected")}, {content: "Residential block."}}}
	require.Equal(t, "Residential block.", newTestService(fallback).ClusterIntel(context.Background(), cluster))
	require.Len(t, fallback.requests, 2)
	require.Contains(t, fallback.requests[1].Messages[1].Content, "Context: Detected on 2 unique dates")
}

func TestAOIIntel(t *testing.T) {
	aoi := pattern.AOI{Key: "a", Center: pattern.LatLng{Lat: 32.7, Lng: -97.3}, Type: pattern.AOIGap, Duration: "1h 20m"}

	ok := &stubChatClient{replies: []stubReply{{content: "Parking garage."}}}
	require.Equal(t, "Parking garage.", newTestService(ok).AOIIntel(context.Background(), aoi))
	require.Contains(t, ok.requests[0].Messages[1].Content, "Context: Signal lost for 1h 20m.")

	empty := &stubChatClient{replies: []stubReply{{content: ""}}}
	require.Equal(t, "Analysis unavailable.", newTestService(empty).AOIIntel(context.Background(), aoi))

	dwell := aoi
	dwell.Type = pattern.AOIDwell
	require.Equal(t, "Dwell time of 1h 20m.", aoiContext(dwell))

	fallbackEmptyReply := &stubChatClient{replies: []stubReply{{err: errors.New("x")}, {content: ""}}}
	require.Equal(t, "Fallback analysis unavailable.", newTestService(fallbackEmptyReply).AOIIntel(context.Background(), aoi))
}

func TestLocationIntel(t *testing.T) {
	ok := &stubChatClient{replies: []stubReply{{content: ""}}}
	require.Equal(t, "Site analysis unavailable.", newTestService(ok).LocationIntel(context.Background(), -33.86, 151.2))
	prompt := ok.requests[0].Messages[1].Content
	require.Contains(t, prompt, "-33.86 (South), 151.2 (East)")
	require.Contains(t, prompt, "400m radius")
	require.Contains(t, prompt, "S2 Cell (level 16): "+gridReference(-33.86, 151.2, 16))

	down := &stubChatClient{replies: []stubReply{{err: errors.New("a")}, {err: errors.New("b")}}}
	require.Equal(t, "Analysis failed completely.", newTestService(down).LocationIntel(context.Background(), 1, 2))
	require.Contains(t, down.requests[1].Messages[1].Content, "Context: Site Survey")

	require.Equal(t, "Analysis failed completely.", newTestService(nil).LocationIntel(context.Background(), 1, 2))
}

func TestLocationIntelIncludesNearbyPlaces(t *testing.T) {
	client := &stubChatClient{replies: []stubReply{{content: "Strip mall."}}}
	places := &stubPlaces{places: []Place{{Name: "Shell", Kind: "amenity=fuel"}}}
	svc := NewService(Config{SearchRadiusM: 250}, client, wordCounter{}, places, slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.Equal(t, "Strip mall.", svc.LocationIntel(context.Background(), 32.78, -97.38))
	require.Equal(t, 250, places.radius)
	require.Contains(t, client.requests[0].Messages[1].Content, "Mapped places nearby (OpenStreetMap):\n- Shell (amenity=fuel)")
}

func TestClusterIntelIgnoresPlaceLookupFailure(t *testing.T) {
	client := &stubChatClient{replies: []stubReply{{content: "Depot."}}}
	places := &stubPlaces{err: errors.New("overpass busy")}
	svc := NewService(Config{}, client, wordCounter{}, places, slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.Equal(t, "Depot.", svc.ClusterIntel(context.Background(), pattern.Cluster{Description: "d"}))
	require.NotContains(t, client.requests[0].Messages[1].Content, "Mapped places")
}

func TestGridReference(t *testing.T) {
	token := gridReference(32.78, -97.38, 16)
	require.NotEqual(t, "Unknown", token)
	require.Equal(t, token, gridReference(32.78, -97.38, 16))
	require.Equal(t, "Unknown", gridReference(32.78, -97.38, 31))
	require.Equal(t, "Unknown", gridReference(95, 0, 10))
}

func TestHemispheres(t *testing.T) {
	lat, lng := hemispheres(0, -0.1)
	require.Equal(t, "North", lat)
	require.Equal(t, "West", lng)
}
