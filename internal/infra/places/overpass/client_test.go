package overpass

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/patternlife/internal/domain/narrative"
)

func TestPlacesDedupesAndSorts(t *testing.T) {
	result := []map[string]string{
		{"name": "Walmart Supercenter", "shop": "supermarket"},
		{"name": "Cafe Bella", "amenity": "cafe"},
		{"shop": "kiosk"},
		{"name": "Walmart Supercenter", "shop": "supermarket"},
	}
	c := &Client{limit: 15}
	require.Equal(t, []narrative.Place{
		{Name: "Cafe Bella", Kind: "amenity=cafe"},
		{Name: "Walmart Supercenter", Kind: "shop=supermarket"},
	}, c.places(result))

	c.limit = 1
	require.Len(t, c.places(result), 1)
}

func TestNearbyQueryShape(t *testing.T) {
	q := nearbyQuery(32.78, -97.38, 400, 10*time.Second)
	require.Contains(t, q, "[out:json][timeout:10];")
	require.Contains(t, q, `node["name"]["shop"](around:400,32.780000,-97.380000);`)
}

func TestNearbyAgainstServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"elements":[{"type":"node","id":7,"lat":32.78,"lon":-97.38,"tags":{"name":"Shell","amenity":"fuel"}}]}`))
	}))
	defer srv.Close()

	places, err := NewClient(srv.URL, time.Second, 0).Nearby(context.Background(), 32.78, -97.38, 400)
	require.NoError(t, err)
	require.Equal(t, []narrative.Place{{Name: "Shell", Kind: "amenity=fuel"}}, places)
}

func TestKindOf(t *testing.T) {
	require.Equal(t, "office=company", kindOf(map[string]string{"office": "company"}))
	require.Equal(t, "place", kindOf(map[string]string{}))
}
