package store

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/i474232898/weather-report-backend/internal/weather"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	// Unique in-memory DB per test to avoid cross-test contamination.
	dsn := "file:store_" + strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()) + "?mode=memory&cache=shared"
	db, err := Open(dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	s, err := New(db)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return s
}

func fp(v float64) *float64 { return &v }

func obsAt(ts time.Time, temp, hum *float64) weather.Observation {
	return weather.Observation{
		Timestamp:   ts,
		Latitude:    47.37,
		Longitude:   8.55,
		Temperature: temp,
		Humidity:    hum,
	}
}

func TestUpsertReplacesByNaturalKey(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	if err := s.Upsert(ctx, []weather.Observation{obsAt(ts, fp(10), fp(60))}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if err := s.Upsert(ctx, []weather.Observation{obsAt(ts, fp(12.5), fp(55))}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	rows, err := s.QueryRange(ctx, ts.Add(-time.Hour), ts.Add(time.Hour))
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row after replace, got %d", len(rows))
	}
	if rows[0].Temperature == nil || *rows[0].Temperature != 12.5 {
		t.Fatalf("expected last-write temperature 12.5, got %v", rows[0].Temperature)
	}
	if rows[0].Humidity == nil || *rows[0].Humidity != 55 {
		t.Fatalf("expected last-write humidity 55, got %v", rows[0].Humidity)
	}
}

func TestUpsertRoundTripOrdering(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	// Insert 48 hourly rows deliberately out of order.
	batch := make([]weather.Observation, 0, 48)
	for i := 47; i >= 0; i-- {
		batch = append(batch, obsAt(base.Add(time.Duration(i)*time.Hour), fp(float64(i)), fp(50)))
	}
	if err := s.Upsert(ctx, batch); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	rows, err := s.QueryRange(ctx, base, base.Add(47*time.Hour))
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(rows) != 48 {
		t.Fatalf("expected 48 rows, got %d", len(rows))
	}
	for i, r := range rows {
		want := base.Add(time.Duration(i) * time.Hour)
		if !r.Timestamp.Equal(want) {
			t.Fatalf("row %d: expected timestamp %v, got %v", i, want, r.Timestamp)
		}
	}
}

func TestUpsertDuplicateKeysWithinBatch(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// Both rows share the natural key inside one batch; the later entry wins.
	batch := []weather.Observation{
		obsAt(ts, fp(10), fp(60)),
		obsAt(ts, fp(12.5), fp(55)),
	}
	if err := s.Upsert(ctx, batch); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	rows, err := s.QueryRange(ctx, ts, ts)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row for duplicate in-batch keys, got %d", len(rows))
	}
	if rows[0].Temperature == nil || *rows[0].Temperature != 12.5 {
		t.Fatalf("expected last-entry temperature 12.5, got %v", rows[0].Temperature)
	}
	if rows[0].Humidity == nil || *rows[0].Humidity != 55 {
		t.Fatalf("expected last-entry humidity 55, got %v", rows[0].Humidity)
	}
}

func TestUpsertFailureLeavesStoreUntouched(t *testing.T) {
	s := openTestStore(t)
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	seed := obsAt(ts, fp(1), fp(50))
	if err := s.Upsert(context.Background(), []weather.Observation{seed}); err != nil {
		t.Fatalf("seed upsert: %v", err)
	}

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	// The batch would replace the seeded row and add a new one; the failed
	// transaction must apply neither.
	batch := []weather.Observation{
		obsAt(ts, fp(99), fp(99)),
		obsAt(ts.Add(time.Hour), fp(2), nil),
	}
	if err := s.Upsert(cancelled, batch); err == nil {
		t.Fatalf("expected upsert failure with cancelled context")
	}

	rows, err := s.QueryAll(context.Background())
	if err != nil {
		t.Fatalf("query all: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected only the seeded row after failed batch, got %d", len(rows))
	}
	if rows[0].Temperature == nil || *rows[0].Temperature != 1 {
		t.Fatalf("expected seeded temperature 1, got %v", rows[0].Temperature)
	}
	if rows[0].Humidity == nil || *rows[0].Humidity != 50 {
		t.Fatalf("expected seeded humidity 50, got %v", rows[0].Humidity)
	}
}

func TestQueryRangeInclusiveBoundaries(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	batch := []weather.Observation{
		obsAt(ts.Add(-time.Hour), fp(9), nil),
		obsAt(ts, fp(10), nil),
		obsAt(ts.Add(time.Hour), fp(11), nil),
	}
	if err := s.Upsert(ctx, batch); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	exact, err := s.QueryRange(ctx, ts, ts)
	if err != nil {
		t.Fatalf("query exact: %v", err)
	}
	if len(exact) != 1 || !exact[0].Timestamp.Equal(ts) {
		t.Fatalf("expected exactly the boundary row, got %d rows", len(exact))
	}

	both, err := s.QueryRange(ctx, ts.Add(-time.Hour), ts)
	if err != nil {
		t.Fatalf("query inclusive: %v", err)
	}
	if len(both) != 2 {
		t.Fatalf("expected both boundary rows, got %d", len(both))
	}
}

func TestQueryAllDescending(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	batch := []weather.Observation{
		obsAt(base, fp(1), nil),
		obsAt(base.Add(time.Hour), fp(2), nil),
		obsAt(base.Add(2*time.Hour), fp(3), nil),
	}
	if err := s.Upsert(ctx, batch); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	rows, err := s.QueryAll(ctx)
	if err != nil {
		t.Fatalf("query all: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if !rows[0].Timestamp.Equal(base.Add(2 * time.Hour)) {
		t.Fatalf("expected newest row first, got %v", rows[0].Timestamp)
	}
}

func TestUpsertStampsReceivedAt(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	ts := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	if err := s.Upsert(ctx, []weather.Observation{obsAt(ts, fp(5), nil)}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	rows, err := s.QueryRange(ctx, ts, ts)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].ReceivedAt.IsZero() {
		t.Fatalf("expected store-stamped received_at, got zero value")
	}
}

func TestStats(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("stats on empty store: %v", err)
	}
	if stats.TotalRecords != 0 || stats.Oldest != nil || stats.Newest != nil {
		t.Fatalf("expected empty stats, got %+v", stats)
	}

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	batch := []weather.Observation{
		obsAt(base, fp(1), nil),
		obsAt(base.Add(5*time.Hour), fp(2), nil),
	}
	if err := s.Upsert(ctx, batch); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	stats, err = s.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalRecords != 2 {
		t.Fatalf("expected 2 records, got %d", stats.TotalRecords)
	}
	if stats.Oldest == nil || !stats.Oldest.Equal(base) {
		t.Fatalf("expected oldest %v, got %v", base, stats.Oldest)
	}
	if stats.Newest == nil || !stats.Newest.Equal(base.Add(5*time.Hour)) {
		t.Fatalf("expected newest %v, got %v", base.Add(5*time.Hour), stats.Newest)
	}
}
