package route

import (
	"context"
	"log/slog"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"golang.org/x/sync/errgroup"

	"github.com/yanqian/patternlife/internal/domain/signal"
	apperrors "github.com/yanqian/patternlife/pkg/errors"
)

// Service resolves movement paths for the dates locked by a day selector.
type Service interface {
	Routes(ctx context.Context, day string) ([]Route, error)
}

// Provider returns road-following geometry through waypoints given as [lng, lat].
type Provider interface {
	Route(ctx context.Context, waypoints orb.LineString) (orb.LineString, error)
}

type service struct {
	cfg      Config
	store    signal.Store
	provider Provider
	logger   *slog.Logger
}

// NewService wires up the route domain. A nil provider yields straight-line paths only.
func NewService(cfg Config, store signal.Store, provider Provider, logger *slog.Logger) Service {
	if cfg.MaxWaypoints <= 0 {
		cfg.MaxWaypoints = DefaultConfig().MaxWaypoints
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &service{
		cfg:      cfg,
		store:    store,
		provider: provider,
		logger:   logger.With("component", "route.service"),
	}
}

func (s *service) Routes(ctx context.Context, day string) ([]Route, error) {
	sel, err := signal.ParseSelector(day)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "day must be ALL or one of MON..SUN", err)
	}
	dataset, err := s.store.Load(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDataset, "failed to load signal dataset", err)
	}

	filtered := signal.Filter(dataset.Points, sel)
	dates := signal.LockedDates(filtered, sel)
	byDate := signal.GroupByDate(filtered)

	results := make([]*Route, len(dates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for i, date := range dates {
		i, date := i, date
		points := signal.SortByTime(byDate[date])
		if len(points) < 2 {
			continue
		}
		g.Go(func() error {
			r := s.build(gctx, date, points)
			results[i] = &r
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	routes := make([]Route, 0, len(dates))
	fallbacks := 0
	for _, r := range results {
		if r == nil {
			continue
		}
		if r.Fallback {
			fallbacks++
		}
		routes = append(routes, *r)
	}
	s.logger.Info("routes resolved", "selector", sel, "dates", len(dates), "routes", len(routes), "fallbacks", fallbacks)
	return routes, nil
}

func (s *service) build(ctx context.Context, date string, points []signal.Point) Route {
	waypoints := points
	if len(waypoints) > s.cfg.MaxWaypoints {
		waypoints = waypoints[:s.cfg.MaxWaypoints]
	}

	var (
		line     orb.LineString
		fallback bool
	)
	if s.provider != nil {
		routed, err := s.provider.Route(ctx, lineOf(waypoints))
		if err != nil {
			s.logger.Warn("route provider failed, using straight segments", "date", date, "error", err)
		}
		line = routed
	}
	if len(line) < 2 {
		line = lineOf(points)
		fallback = true
	}
	line = simplifyLine(line, s.cfg.Simplify)

	return Route{
		Date:         date,
		Path:         geojson.NewGeometry(line),
		Hits:         points,
		Waypoints:    len(waypoints),
		LengthMeters: lengthMeters(line),
		Fallback:     fallback,
	}
}
