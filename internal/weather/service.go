package weather

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

// ErrNoData is returned when a window query matches no stored observations.
// Exports must surface this as a not-found outcome, not as empty statistics.
var ErrNoData = errors.New("no observations in window")

// Service orchestrates ingestion from the upstream provider and windowed
// reads from the store.
type Service struct {
	store    Store
	provider Provider
}

// NewService creates a new Service.
func NewService(store Store, provider Provider) *Service {
	return &Service{
		store:    store,
		provider: provider,
	}
}

// FetchAndStore fetches pastDays trailing days of hourly observations for
// the coordinate and upserts them into the store. On provider failure the
// store is untouched. Returns the number of data points stored.
func (s *Service) FetchAndStore(ctx context.Context, lat, lon float64, pastDays int) (int, error) {
	obs, err := s.provider.FetchHourly(ctx, lat, lon, pastDays)
	if err != nil {
		return 0, err
	}

	if err := s.store.Upsert(ctx, obs); err != nil {
		return 0, fmt.Errorf("storing observations: %w", err)
	}

	log.Printf("stored %d observations for lat=%.2f lon=%.2f (provider %s)", len(obs), lat, lon, s.provider.Name())
	return len(obs), nil
}

// Windowed returns the stored observations from the trailing hoursBack-hour
// window, ascending by timestamp. "Now" is sampled once per call so the
// window does not shift mid-query. An empty window yields ErrNoData.
func (s *Service) Windowed(ctx context.Context, hoursBack int) ([]Observation, error) {
	now := time.Now().UTC()
	from := now.Add(-time.Duration(hoursBack) * time.Hour)

	obs, err := s.store.QueryRange(ctx, from, now)
	if err != nil {
		return nil, err
	}
	if len(obs) == 0 {
		return nil, ErrNoData
	}
	return obs, nil
}

// Stats delegates to the underlying store.
func (s *Service) Stats(ctx context.Context) (StoreStats, error) {
	return s.store.Stats(ctx)
}

// All delegates to the underlying store. Diagnostics only.
func (s *Service) All(ctx context.Context) ([]Observation, error) {
	return s.store.QueryAll(ctx)
}
