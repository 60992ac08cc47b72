package export

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kelvins/geocoder"

	"github.com/i474232898/weather-report-backend/internal/weather"
)

// Report bundles everything the PDF renderer consumes: the ordered window,
// its derived statistics and presentation metadata.
type Report struct {
	Observations []weather.Observation
	Hours        int
	GeneratedAt  time.Time
	ReportID     string

	// PlaceName is the reverse-geocoded location, empty when no geocoder
	// key is configured or the lookup failed.
	PlaceName string

	Temperature    weather.Summary
	HasTemperature bool
	Humidity       weather.Summary
	HasHumidity    bool
}

// BuildReport derives statistics and metadata from a non-empty window.
func BuildReport(obs []weather.Observation, hours int) Report {
	r := Report{
		Observations: obs,
		Hours:        hours,
		GeneratedAt:  time.Now().UTC(),
		ReportID:     uuid.New().String(),
	}
	r.Temperature, r.HasTemperature = weather.Summarize(obs, weather.MetricTemperature)
	r.Humidity, r.HasHumidity = weather.Summarize(obs, weather.MetricHumidity)
	if len(obs) > 0 {
		r.PlaceName = placeName(obs[0].Latitude, obs[0].Longitude)
	}
	return r
}

// Location describes the report coordinate, preferring the geocoded place
// name over raw degrees.
func (r Report) Location() string {
	if r.PlaceName != "" {
		return r.PlaceName
	}
	if len(r.Observations) == 0 {
		return "n/a"
	}
	o := r.Observations[0]
	return fmt.Sprintf("Lat %.2f°, Lon %.2f°", o.Latitude, o.Longitude)
}

// placeName resolves the coordinate via the Google geocoding API. The
// lookup is best effort: any failure falls back to raw coordinates.
func placeName(lat, lon float64) string {
	if geocoder.ApiKey == "" {
		return ""
	}
	addresses, err := geocoder.GeocodingReverse(geocoder.Location{Latitude: lat, Longitude: lon})
	if err != nil || len(addresses) == 0 {
		return ""
	}
	a := addresses[0]
	if a.City != "" && a.Country != "" {
		return a.City + ", " + a.Country
	}
	return a.FormattedAddress
}
