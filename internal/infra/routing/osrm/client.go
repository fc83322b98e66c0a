package osrm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

const (
	defaultBaseURL = "https://router.project-osrm.org"
	defaultProfile = "driving"
)

// ErrNoRoute is returned when the router answers but has no usable route.
var ErrNoRoute = errors.New("osrm returned no route")

// Client fetches road-following geometry from an OSRM server.
type Client struct {
	baseURL    string
	profile    string
	httpClient *http.Client
}

// NewClient builds a routing client. A zero timeout means 10s.
func NewClient(baseURL, profile string, timeout time.Duration) *Client {
	url := strings.TrimSpace(baseURL)
	if url == "" {
		url = defaultBaseURL
	}
	if strings.TrimSpace(profile) == "" {
		profile = defaultProfile
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(url, "/"),
		profile: profile,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Route returns the full geometry of the best route through waypoints, given as [lng, lat].
func (c *Client) Route(ctx context.Context, waypoints orb.LineString) (orb.LineString, error) {
	if len(waypoints) < 2 {
		return nil, fmt.Errorf("route needs at least 2 waypoints, got %d", len(waypoints))
	}
	endpoint := fmt.Sprintf("%s/route/v1/%s/%s?overview=full&geometries=geojson", c.baseURL, c.profile, encodeWaypoints(waypoints))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build route request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("route request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("route request error: status=%d body=%s", resp.StatusCode, string(payload))
	}

	var raw apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode route response: %w", err)
	}
	if raw.Code != "Ok" {
		return nil, fmt.Errorf("osrm error %s: %s", raw.Code, raw.Message)
	}
	return firstLine(raw.Routes)
}

type apiResponse struct {
	Code    string     `json:"code"`
	Message string     `json:"message"`
	Routes  []apiRoute `json:"routes"`
}

type apiRoute struct {
	Geometry *geojson.Geometry `json:"geometry"`
	Distance float64           `json:"distance"`
	Duration float64           `json:"duration"`
}

func firstLine(routes []apiRoute) (orb.LineString, error) {
	if len(routes) == 0 || routes[0].Geometry == nil {
		return nil, ErrNoRoute
	}
	line, ok := routes[0].Geometry.Geometry().(orb.LineString)
	if !ok || len(line) < 2 {
		return nil, ErrNoRoute
	}
	return line, nil
}

func encodeWaypoints(waypoints orb.LineString) string {
	parts := make([]string, 0, len(waypoints))
	for _, p := range waypoints {
		parts = append(parts, strconv.FormatFloat(p.Lon(), 'f', -1, 64)+","+strconv.FormatFloat(p.Lat(), 'f', -1, 64))
	}
	return strings.Join(parts, ";")
}
