package pattern

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/patternlife/internal/domain/signal"
	apperrors "github.com/yanqian/patternlife/pkg/errors"
)

func TestServiceViewComputesAndCaches(t *testing.T) {
	store := &stubStore{dataset: signal.NewDataset(mondayDataset())}
	cache := newStubCache()
	svc := NewService(ServiceConfig{Analysis: DefaultConfig(), CacheTTL: time.Minute}, store, cache, newTestLogger())

	view, err := svc.View(context.Background(), "mon")
	require.NoError(t, err)
	require.Len(t, view.Clusters, 2)
	require.Equal(t, 1, cache.puts)
	require.Equal(t, time.Minute, cache.lastTTL)

	again, err := svc.View(context.Background(), "MON")
	require.NoError(t, err)
	require.Equal(t, view, again)
	require.Equal(t, 1, cache.puts)
	require.Equal(t, 1, cache.hits)
}

func TestServiceViewCacheFailureIsNotFatal(t *testing.T) {
	store := &stubStore{dataset: signal.NewDataset(mondayDataset())}
	cache := newStubCache()
	cache.err = errors.New("cache down")
	svc := NewService(ServiceConfig{Analysis: DefaultConfig()}, store, cache, newTestLogger())

	view, err := svc.View(context.Background(), "ALL")
	require.NoError(t, err)
	require.True(t, view.ShowHistory)
}

func TestServiceViewRejectsUnknownDay(t *testing.T) {
	svc := NewService(ServiceConfig{Analysis: DefaultConfig()}, &stubStore{}, nil, newTestLogger())
	_, err := svc.View(context.Background(), "someday")
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestServiceViewWrapsStoreFailure(t *testing.T) {
	svc := NewService(ServiceConfig{Analysis: DefaultConfig()}, &stubStore{err: errors.New("db gone")}, nil, newTestLogger())
	_, err := svc.View(context.Background(), "MON")
	require.True(t, apperrors.IsCode(err, apperrors.CodeDataset))
}

func TestServiceDayPoints(t *testing.T) {
	svc := NewService(ServiceConfig{Analysis: DefaultConfig()}, &stubStore{dataset: signal.NewDataset(mondayDataset())}, nil, newTestLogger())

	points, err := svc.DayPoints(context.Background(), "mon")
	require.NoError(t, err)
	require.Len(t, points, 5)
	require.Equal(t, "08:00", points[0].Time)
	require.Equal(t, "10:40", points[4].Time)

	_, err = svc.DayPoints(context.Background(), "ALL")
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestServiceLookups(t *testing.T) {
	svc := NewService(ServiceConfig{Analysis: DefaultConfig()}, &stubStore{dataset: signal.NewDataset(mondayDataset())}, nil, newTestLogger())
	ctx := context.Background()

	c, err := svc.Cluster(ctx, "MON", 101)
	require.NoError(t, err)
	require.Equal(t, "NODE-2", c.Code)

	_, err = svc.Cluster(ctx, "MON", 107)
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))

	a, err := svc.AOI(ctx, "MON", "gap-1")
	require.NoError(t, err)
	require.Equal(t, "Last seen: 08:10", a.Label)

	_, err = svc.AOI(ctx, "ALL", "gap-1")
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

type stubStore struct {
	dataset signal.Dataset
	err     error
}

func (s *stubStore) Load(context.Context) (signal.Dataset, error) {
	if s.err != nil {
		return signal.Dataset{}, s.err
	}
	return s.dataset, nil
}

type stubCache struct {
	views   map[string]View
	err     error
	puts    int
	hits    int
	lastTTL time.Duration
}

func newStubCache() *stubCache {
	return &stubCache{views: make(map[string]View)}
}

func (c *stubCache) Get(_ context.Context, key string) (View, bool, error) {
	if c.err != nil {
		return View{}, false, c.err
	}
	v, ok := c.views[key]
	if ok {
		c.hits++
	}
	return v, ok, nil
}

func (c *stubCache) Put(_ context.Context, key string, view View, ttl time.Duration) error {
	if c.err != nil {
		return c.err
	}
	c.views[key] = view
	c.puts++
	c.lastTTL = ttl
	return nil
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
