package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/weather-report-backend/internal/weather"
)

// Scheduler periodically refreshes observations for the tracked coordinate.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *weather.Service
	lat, lon  float64
	pastDays  int
	interval  time.Duration
}

// New creates a new Scheduler. An interval of 0 disables refreshes.
func New(lat, lon float64, pastDays int, interval time.Duration, service *weather.Service) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   service,
		lat:       lat,
		lon:       lon,
		pastDays:  pastDays,
		interval:  interval,
	}
}

// Start schedules the periodic refresh job and starts the underlying
// scheduler asynchronously.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		log.Println("scheduler: background refresh disabled")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		n, err := s.service.FetchAndStore(ctx, s.lat, s.lon, s.pastDays)
		if err != nil {
			log.Printf("scheduler: refresh failed for lat=%.2f lon=%.2f: %v", s.lat, s.lon, err)
			return
		}
		log.Printf("scheduler: refreshed %d observations", n)
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}
