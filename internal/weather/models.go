package weather

import (
	"time"
)

// Metric identifies a numeric observation field that can be aggregated.
type Metric string

const (
	MetricTemperature Metric = "temperature_2m"
	MetricHumidity    Metric = "relative_humidity_2m"
)

// Observation is one hourly weather reading for one coordinate.
// Timestamp, Latitude and Longitude form the natural key: re-ingesting the
// same key replaces the stored row (last write wins, no versioning).
// Metric values are pointers because the upstream may omit individual hours.
type Observation struct {
	Timestamp   time.Time `gorm:"primaryKey" json:"timestamp"`
	Latitude    float64   `gorm:"primaryKey" json:"latitude"`
	Longitude   float64   `gorm:"primaryKey" json:"longitude"`
	Temperature *float64  `gorm:"column:temperature_2m" json:"temperature_2m"`
	Humidity    *float64  `gorm:"column:relative_humidity_2m" json:"relative_humidity_2m"`

	// ReceivedAt is stamped by the store on write, not by callers.
	ReceivedAt time.Time `json:"received_at"`
}

// TableName keeps the sqlite table name stable regardless of gorm's pluralizer.
func (Observation) TableName() string { return "observations" }

// Value returns the observation's reading for the given metric, or nil when
// the upstream omitted it.
func (o Observation) Value(m Metric) *float64 {
	switch m {
	case MetricTemperature:
		return o.Temperature
	case MetricHumidity:
		return o.Humidity
	}
	return nil
}

// Summary holds derived statistics over one metric of a window.
type Summary struct {
	Mean  float64 `json:"mean"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// StoreStats describes the persisted dataset for diagnostics.
type StoreStats struct {
	TotalRecords int64      `json:"total_records"`
	Oldest       *time.Time `json:"oldest,omitempty"`
	Newest       *time.Time `json:"newest,omitempty"`
}
