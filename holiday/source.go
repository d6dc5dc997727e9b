package holiday

import (
	"context"
	"fmt"
	"sync"

	"github.com/manzoomehweb/bookingcal/pkg/logger"
)

// CachedSource keeps the last successfully fetched dataset in memory so that
// every new picker session does not hit the feed. Refresh is driven by a
// server-level schedule; sessions that already snapshotted an older dataset
// keep it until they end.
type CachedSource struct {
	upstream Source

	mu     sync.RWMutex
	ds     Dataset
	loaded bool
}

// NewCachedSource wraps an upstream source.
func NewCachedSource(upstream Source) *CachedSource {
	return &CachedSource{upstream: upstream}
}

// Fetch returns the cached dataset, fetching from upstream on first use.
func (s *CachedSource) Fetch(ctx context.Context) (Dataset, error) {
	s.mu.RLock()
	if s.loaded {
		ds := s.ds
		s.mu.RUnlock()
		return ds, nil
	}
	s.mu.RUnlock()

	if err := s.Refresh(ctx); err != nil {
		return Dataset{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return Dataset{}, fmt.Errorf("holiday source: refresh produced no dataset")
	}
	return s.ds, nil
}

// Refresh re-fetches from upstream. On failure the previously cached dataset
// stays in place.
func (s *CachedSource) Refresh(ctx context.Context) error {
	ds, err := s.upstream.Fetch(ctx)
	if err != nil {
		logger.Warn("holiday dataset refresh failed, keeping previous dataset", "error", err)
		return err
	}

	s.mu.Lock()
	s.ds = ds
	s.loaded = true
	s.mu.Unlock()

	logger.Info("holiday dataset refreshed",
		"fixed_entries", len(ds.FixedHolidays), "lunar_years", len(ds.LunarHolidays))
	return nil
}

// Loaded reports whether a dataset has ever been fetched successfully.
func (s *CachedSource) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}
