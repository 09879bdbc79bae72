package storage

import (
	"fmt"

	"github.com/maypok86/otter/v2"
	"github.com/maypok86/otter/v2/stats"

	"github.com/eugenenazirov/pallet-planner/internal/packing"
)

// CacheStats summarises enumeration cache usage.
type CacheStats struct {
	Hits   uint64 `json:"hits"`
	Misses uint64 `json:"misses"`
	Size   int    `json:"size"`
}

// CachedEnumerator memoises rankings by their inputs. Rankings are copied on
// the way in and out, so callers can never alter a cached value.
type CachedEnumerator struct {
	next    packing.Enumerator
	cache   *otter.Cache[packing.Inputs, packing.Ranking]
	counter *stats.Counter
}

// NewCachedEnumerator wraps next with a cache of at most capacity rankings.
func NewCachedEnumerator(next packing.Enumerator, capacity int) (*CachedEnumerator, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("enumeration cache: %w", ErrInvalidCapacity)
	}

	counter := stats.NewCounter()
	cache, err := otter.New(&otter.Options[packing.Inputs, packing.Ranking]{
		MaximumSize:   capacity,
		StatsRecorder: counter,
	})
	if err != nil {
		return nil, fmt.Errorf("enumeration cache: %w", err)
	}

	return &CachedEnumerator{next: next, cache: cache, counter: counter}, nil
}

// Enumerate returns the cached ranking for in, computing it on a miss.
func (c *CachedEnumerator) Enumerate(in packing.Inputs) packing.Ranking {
	// Invalid inputs all collapse to the same empty ranking; don't spend cache slots on them.
	if !in.Valid() {
		return c.next.Enumerate(in)
	}
	if ranking, ok := c.cache.GetIfPresent(in); ok {
		return ranking.Clone()
	}

	ranking := c.next.Enumerate(in)
	c.cache.Set(in, ranking.Clone())
	return ranking
}

// Stats returns a snapshot of hit and miss counts.
func (c *CachedEnumerator) Stats() CacheStats {
	snapshot := c.counter.Snapshot()
	return CacheStats{
		Hits:   snapshot.Hits,
		Misses: snapshot.Misses,
		Size:   c.cache.EstimatedSize(),
	}
}
