package overpass

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/serjvanilla/go-overpass"

	"github.com/yanqian/patternlife/internal/domain/narrative"
)

const defaultEndpoint = "https://overpass-api.de/api/interpreter"

// Client looks up named OpenStreetMap features around a coordinate.
type Client struct {
	client  overpass.Client
	timeout time.Duration
	limit   int
}

// NewClient builds a lookup client. limit caps how many places are returned.
func NewClient(endpoint string, timeout time.Duration, limit int) *Client {
	if strings.TrimSpace(endpoint) == "" {
		endpoint = defaultEndpoint
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if limit <= 0 {
		limit = 15
	}
	httpClient := &http.Client{Timeout: timeout}
	return &Client{
		client:  overpass.NewWithSettings(endpoint, 2, httpClient),
		timeout: timeout,
		limit:   limit,
	}
}

// Nearby returns named shops, amenities and offices within radiusM metres, sorted by name.
func (c *Client) Nearby(ctx context.Context, lat, lng float64, radiusM int) ([]narrative.Place, error) {
	query := nearbyQuery(lat, lng, radiusM, c.timeout)

	type outcome struct {
		result overpass.Result
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := c.client.Query(query)
		done <- outcome{result: res, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case out := <-done:
		if out.err != nil {
			return nil, fmt.Errorf("overpass query failed: %w", out.err)
		}
		return c.places(tagsOf(&out.result)), nil
	}
}

func nearbyQuery(lat, lng float64, radiusM int, timeout time.Duration) string {
	around := fmt.Sprintf("(around:%d,%.6f,%.6f)", radiusM, lat, lng)
	return fmt.Sprintf(`[out:json][timeout:%d];
(
	node["name"]["shop"]%[2]s;
	node["name"]["amenity"]%[2]s;
	node["name"]["office"]%[2]s;
	way["name"]["shop"]%[2]s;
	way["name"]["amenity"]%[2]s;
);
out body;`, int(timeout.Seconds()), around)
}

func tagsOf(result *overpass.Result) []map[string]string {
	tags := make([]map[string]string, 0, len(result.Nodes)+len(result.Ways))
	for _, node := range result.Nodes {
		tags = append(tags, node.Tags)
	}
	for _, way := range result.Ways {
		tags = append(tags, way.Tags)
	}
	return tags
}

func (c *Client) places(tagSets []map[string]string) []narrative.Place {
	seen := make(map[string]struct{})
	out := make([]narrative.Place, 0, len(tagSets))
	for _, tags := range tagSets {
		name := strings.TrimSpace(tags["name"])
		if name == "" {
			continue
		}
		kind := kindOf(tags)
		key := name + "|" + kind
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, narrative.Place{Name: name, Kind: kind})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].Kind < out[j].Kind
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > c.limit {
		out = out[:c.limit]
	}
	return out
}

func kindOf(tags map[string]string) string {
	for _, key := range []string{"shop", "amenity", "office"} {
		if v := tags[key]; v != "" {
			return key + "=" + v
		}
	}
	return "place"
}
