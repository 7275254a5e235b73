package store

import (
	"errors"
	"sync"
	"time"

	"github.com/agroyield/crop-yield-service/internal/yield"
)

var (
	// ErrNotFound is returned when no statistics exist for a district.
	ErrNotFound = errors.New("no vegetation statistics for district")
)

// StatsHistory holds a time-ordered list of vegetation statistics for one district.
type StatsHistory struct {
	Stats []yield.VegetationStats
}

// MemoryStore is a concurrency-safe in-memory store of per-district
// vegetation-index statistics, written by the background refresh job and read
// as the historical proxy source during prediction.
type MemoryStore struct {
	mu sync.RWMutex

	// key: district name, value: history
	data map[string]*StatsHistory

	// retention configuration
	maxHistory int           // max number of stats entries per district
	maxAge     time.Duration // optional max age for stats entries
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string]*StatsHistory),
		maxHistory: maxHistory,
		maxAge:     maxAge,
	}
}

// SaveStats appends new statistics for a district and enforces retention.
func (s *MemoryStore) SaveStats(district string, stats yield.VegetationStats) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.data[district]
	if !ok {
		history = &StatsHistory{}
		s.data[district] = history
	}

	history.Stats = append(history.Stats, stats)

	// Enforce retention by count.
	if s.maxHistory > 0 && len(history.Stats) > s.maxHistory {
		over := len(history.Stats) - s.maxHistory
		history.Stats = history.Stats[over:]
	}

	// Enforce retention by age. When every entry is expired the history goes
	// empty, so stale means stop serving as a proxy and the default takes over.
	if s.maxAge > 0 {
		cutoff := time.Now().Add(-s.maxAge)
		i := 0
		for ; i < len(history.Stats); i++ {
			if !history.Stats[i].UpdatedAt.Before(cutoff) {
				break
			}
		}
		if i > 0 {
			history.Stats = history.Stats[i:]
		}
	}
}

// Latest returns the most recent statistics for a district.
func (s *MemoryStore) Latest(district string) (yield.VegetationStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[district]
	if !ok || len(history.Stats) == 0 {
		return yield.VegetationStats{}, ErrNotFound
	}
	return history.Stats[len(history.Stats)-1], nil
}

// HistoricalMean implements yield.ProxySource: the latest measured NDVI mean
// for a district, when the refresh job has produced one.
func (s *MemoryStore) HistoricalMean(district string) (float64, bool) {
	stats, err := s.Latest(district)
	if err != nil {
		return 0, false
	}
	return stats.MeanNDVI, true
}
