package weather

import (
	"context"
	"time"
)

// Provider abstracts the upstream hourly weather API (Open-Meteo).
type Provider interface {
	Name() string

	// FetchHourly issues one outbound call for pastDays trailing days of
	// hourly observations at the coordinate. It never touches the store.
	FetchHourly(ctx context.Context, lat, lon float64, pastDays int) ([]Observation, error)
}

// Store is the contract the sqlite store (and any future persistent store)
// must satisfy. Returned slices are ordered and must not be mutated by
// callers.
type Store interface {
	// Upsert inserts or replaces each observation by its natural key.
	// The batch is atomic: if any row is rejected, none are applied.
	Upsert(ctx context.Context, obs []Observation) error

	// QueryRange returns rows with from <= timestamp <= to, ascending.
	QueryRange(ctx context.Context, from, to time.Time) ([]Observation, error)

	// QueryAll returns every row, descending by timestamp. Diagnostics only.
	QueryAll(ctx context.Context) ([]Observation, error)

	// Stats reports row count and timestamp bounds of the dataset.
	Stats(ctx context.Context) (StoreStats, error)
}
