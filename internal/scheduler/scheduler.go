package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"gonum.org/v1/gonum/stat"

	"github.com/agroyield/crop-yield-service/internal/store"
	"github.com/agroyield/crop-yield-service/internal/yield"
)

// historyDays is the trailing window the refresh job samples per district.
const historyDays = 365

// Scheduler periodically refreshes per-district vegetation-index statistics
// so the forecast-time NDVI proxy can use a measured historical mean instead
// of the configured default constant.
type Scheduler struct {
	scheduler  *gocron.Scheduler
	vegetation yield.VegetationProvider
	store      *store.MemoryStore
	districts  []string
	interval   time.Duration
}

// New creates a new Scheduler.
func New(vegetation yield.VegetationProvider, memStore *store.MemoryStore, districts []string, interval time.Duration) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler:  s,
		vegetation: vegetation,
		store:      memStore,
		districts:  districts,
		interval:   interval,
	}
}

// Start schedules the periodic refresh and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if len(s.districts) == 0 {
		log.Println("scheduler: no districts configured; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 24 * 60
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(s.refreshAll)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// refreshAll fetches trailing-year NDVI for every district and stores its
// mean. Empty fetches are skipped so the last good statistics (or the default
// proxy) stay in force.
func (s *Scheduler) refreshAll() {
	log.Println("scheduler: running vegetation statistics refresh")

	end := time.Now()
	start := end.AddDate(0, 0, -historyDays)

	var wg sync.WaitGroup
	for _, district := range s.districts {
		district := district
		pt, err := yield.ResolveDistrict(district)
		if err != nil {
			log.Printf("scheduler: skipping %s: %v", district, err)
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			series, err := s.vegetation.FetchIndex(ctx, pt, start, end)
			if err != nil {
				log.Printf("scheduler: vegetation fetch failed for %s: %v", district, err)
				return
			}
			if len(series) == 0 {
				log.Printf("scheduler: no vegetation observations for %s; keeping previous statistics", district)
				return
			}

			values := make([]float64, len(series))
			for i, obs := range series {
				values[i] = obs.Value
			}

			s.store.SaveStats(district, yield.VegetationStats{
				District:     district,
				MeanNDVI:     stat.Mean(values, nil),
				Observations: len(series),
				UpdatedAt:    time.Now().UTC(),
			})
		}()
	}
	wg.Wait()

	log.Println("scheduler: completed vegetation statistics refresh")
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
