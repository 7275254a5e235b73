package scheduler

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/agroyield/crop-yield-service/internal/store"
	"github.com/agroyield/crop-yield-service/internal/yield"
)

// stubVegetation serves a fixed series for every district.
type stubVegetation struct {
	series yield.Series
}

func (s *stubVegetation) Name() string { return "stub" }

func (s *stubVegetation) FetchIndex(ctx context.Context, pt yield.GeoPoint, start, end time.Time) (yield.Series, error) {
	return s.series, nil
}

func TestRefreshAllStoresDistrictMeans(t *testing.T) {
	memStore := store.NewMemoryStore(10, 0)
	veg := &stubVegetation{series: yield.Series{
		{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Value: 0.4},
		{Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), Value: 0.6},
	}}

	s := New(veg, memStore, []string{"Gasabo", "Huye"}, time.Hour)
	s.refreshAll()

	for _, district := range []string{"Gasabo", "Huye"} {
		stats, err := memStore.Latest(district)
		if err != nil {
			t.Fatalf("no stats stored for %s: %v", district, err)
		}
		if math.Abs(stats.MeanNDVI-0.5) > 1e-12 {
			t.Fatalf("%s MeanNDVI = %v, want 0.5", district, stats.MeanNDVI)
		}
		if stats.Observations != 2 {
			t.Fatalf("%s Observations = %d, want 2", district, stats.Observations)
		}
	}
}

// Empty fetches keep the previous statistics (and so the default proxy)
// in force.
func TestRefreshAllSkipsEmptyFetches(t *testing.T) {
	memStore := store.NewMemoryStore(10, 0)
	veg := &stubVegetation{series: yield.Series{}}

	s := New(veg, memStore, []string{"Gasabo"}, time.Hour)
	s.refreshAll()

	if _, err := memStore.Latest("Gasabo"); err == nil {
		t.Fatal("expected no stats for an empty fetch")
	}
}

func TestRefreshAllSkipsUnknownDistricts(t *testing.T) {
	memStore := store.NewMemoryStore(10, 0)
	veg := &stubVegetation{series: yield.Series{
		{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Value: 0.4},
	}}

	s := New(veg, memStore, []string{"Atlantis", "Gasabo"}, time.Hour)
	s.refreshAll()

	if _, err := memStore.Latest("Atlantis"); err == nil {
		t.Fatal("expected no stats for unknown district")
	}
	if _, err := memStore.Latest("Gasabo"); err != nil {
		t.Fatalf("expected stats for known district: %v", err)
	}
}
