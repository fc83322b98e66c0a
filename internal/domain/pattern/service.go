package pattern

import (
	"context"
	"log/slog"
	"strings"

	"github.com/yanqian/patternlife/internal/domain/signal"
	apperrors "github.com/yanqian/patternlife/pkg/errors"
)

// Service is the host layer around Analyze: it resolves the selector, loads the dataset
// and memoizes results.
type Service interface {
	View(ctx context.Context, day string) (View, error)
	DayPoints(ctx context.Context, day string) ([]signal.Point, error)
	Cluster(ctx context.Context, day string, id int) (Cluster, error)
	AOI(ctx context.Context, day, id string) (AOI, error)
}

type service struct {
	cfg    ServiceConfig
	store  signal.Store
	cache  ResultCache
	logger *slog.Logger
}

// NewService wires up the pattern domain.
func NewService(cfg ServiceConfig, store signal.Store, cache ResultCache, logger *slog.Logger) Service {
	return &service{
		cfg:    cfg,
		store:  store,
		cache:  cache,
		logger: logger.With("component", "pattern.service"),
	}
}

func (s *service) View(ctx context.Context, day string) (View, error) {
	sel, err := signal.ParseSelector(day)
	if err != nil {
		return View{}, apperrors.Wrap(apperrors.CodeInvalidInput, "day must be ALL or one of MON..SUN", err)
	}
	dataset, err := s.load(ctx)
	if err != nil {
		return View{}, err
	}

	key := cacheKey(dataset.Fingerprint, sel)
	if s.cache != nil {
		view, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.Warn("result cache lookup failed", "key", key, "error", err)
		} else if ok {
			s.logger.Debug("result cache hit", "key", key)
			return view, nil
		}
	}

	view := Analyze(dataset.Points, sel, s.cfg.Analysis)
	s.logger.Info("pattern view computed",
		"selector", sel,
		"points", len(dataset.Points),
		"clusters", len(view.Clusters),
		"aois", len(view.AOIs),
	)

	if s.cache != nil {
		if err := s.cache.Put(ctx, key, view, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("result cache store failed", "key", key, "error", err)
		}
	}
	return view, nil
}

func (s *service) DayPoints(ctx context.Context, day string) ([]signal.Point, error) {
	sel, err := signal.ParseSelector(day)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "day must be one of MON..SUN", err)
	}
	if sel == signal.All {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "a single weekday is required", nil)
	}
	dataset, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return signal.SortByTime(signal.Filter(dataset.Points, sel)), nil
}

func (s *service) Cluster(ctx context.Context, day string, id int) (Cluster, error) {
	view, err := s.View(ctx, day)
	if err != nil {
		return Cluster{}, err
	}
	for _, c := range view.Clusters {
		if c.ID == id {
			return c, nil
		}
	}
	return Cluster{}, apperrors.Wrap(apperrors.CodeNotFound, "cluster not found for selector", nil)
}

func (s *service) AOI(ctx context.Context, day, id string) (AOI, error) {
	view, err := s.View(ctx, day)
	if err != nil {
		return AOI{}, err
	}
	for _, a := range view.AOIs {
		if a.ID == id {
			return a, nil
		}
	}
	return AOI{}, apperrors.Wrap(apperrors.CodeNotFound, "area of interest not found for selector", nil)
}

func (s *service) load(ctx context.Context) (signal.Dataset, error) {
	dataset, err := s.store.Load(ctx)
	if err != nil {
		return signal.Dataset{}, apperrors.Wrap(apperrors.CodeDataset, "failed to load signal dataset", err)
	}
	if dataset.Fingerprint == "" {
		dataset.Fingerprint = signal.Fingerprint(dataset.Points)
	}
	return dataset, nil
}

func cacheKey(fingerprint string, sel signal.Selector) string {
	return strings.Join([]string{"view", fingerprint, string(sel)}, ":")
}
