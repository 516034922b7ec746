package onet

import (
	"context"
	"strings"
	"time"

	"careerpath/internal/domain/career"
	"careerpath/internal/infrastructure/cache"

	"go.uber.org/zap"
)

// Store is an occupation source that can report whether it holds any data.
type Store interface {
	career.Source
	Count(ctx context.Context) (int, error)
}

// FallbackSource reads from primary and switches to fallback while primary
// is empty.
type FallbackSource struct {
	primary  Store
	fallback career.Source
	logger   *zap.Logger
}

func NewFallbackSource(primary Store, fallback career.Source, logger *zap.Logger) *FallbackSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FallbackSource{primary: primary, fallback: fallback, logger: logger}
}

func (s *FallbackSource) pick(ctx context.Context) (career.Source, error) {
	n, err := s.primary.Count(ctx)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		s.logger.Debug("occupation tables empty, using built-in catalog")
		return s.fallback, nil
	}
	return s.primary, nil
}

func (s *FallbackSource) List(ctx context.Context) ([]career.Occupation, error) {
	src, err := s.pick(ctx)
	if err != nil {
		return nil, err
	}
	return src.List(ctx)
}

func (s *FallbackSource) Get(ctx context.Context, code string) (career.Occupation, error) {
	src, err := s.pick(ctx)
	if err != nil {
		return career.Occupation{}, err
	}
	return src.Get(ctx, code)
}

type JSONCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

type CacheRecorder interface {
	CacheHit(cache string)
	CacheMiss(cache string)
}

// CachedSource keeps the full occupation list in the cache under
// cache.OccupationsKey. Cache failures fall through to next.
type CachedSource struct {
	next    career.Source
	cache   JSONCache
	ttl     time.Duration
	metrics CacheRecorder
	logger  *zap.Logger
}

func NewCachedSource(next career.Source, c JSONCache, ttl time.Duration, rec CacheRecorder, logger *zap.Logger) *CachedSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedSource{next: next, cache: c, ttl: ttl, metrics: rec, logger: logger}
}

func (s *CachedSource) List(ctx context.Context) ([]career.Occupation, error) {
	var occs []career.Occupation
	ok, err := s.cache.GetJSON(ctx, cache.OccupationsKey, &occs)
	if err != nil {
		s.logger.Warn("occupation cache read failed", zap.Error(err))
	}
	if ok {
		s.hit()
		return occs, nil
	}
	s.miss()

	occs, err = s.next.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetJSON(ctx, cache.OccupationsKey, occs, s.ttl); err != nil {
		s.logger.Warn("occupation cache write failed", zap.Error(err))
	}
	return occs, nil
}

func (s *CachedSource) Get(ctx context.Context, code string) (career.Occupation, error) {
	occs, err := s.List(ctx)
	if err != nil {
		return career.Occupation{}, err
	}
	code = strings.TrimSpace(code)
	for _, o := range occs {
		if o.Code == code {
			return o, nil
		}
	}
	return career.Occupation{}, career.ErrNotFound
}

func (s *CachedSource) hit() {
	if s.metrics != nil {
		s.metrics.CacheHit("occupations")
	}
}

func (s *CachedSource) miss() {
	if s.metrics != nil {
		s.metrics.CacheMiss("occupations")
	}
}
