package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/i474232898/weather-report-backend/internal/weather"
	"github.com/sony/gobreaker"
)

// hourlyTimeLayout is Open-Meteo's naive local-hour format. Parsed values
// are treated as UTC; no offset is persisted.
const hourlyTimeLayout = "2006-01-02T15:04"

// OpenMeteoProvider implements weather.Provider against the Open-Meteo
// forecast API. Open-Meteo requires no API key.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	client  *http.Client
	policy  RetryPolicy
	circuit *gobreaker.CircuitBreaker
}

// NewOpenMeteoProvider wraps the shared HTTP client (whose timeout bounds
// every outbound call) with the given retry policy and a circuit breaker.
func NewOpenMeteoProvider(client *http.Client, maxRetries int) *OpenMeteoProvider {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openmeteo",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: "https://api.open-meteo.com/v1/forecast",
		client:  client,
		policy: RetryPolicy{
			MaxRetries:      maxRetries,
			InitialInterval: 500 * time.Millisecond,
			MaxInterval:     5 * time.Second,
		},
		circuit: cb,
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

// FetchHourly requests hourly temperature and relative humidity for
// pastDays trailing days and maps the response's parallel time/value arrays
// into one Observation per index, keyed by the requested coordinate.
func (p *OpenMeteoProvider) FetchHourly(ctx context.Context, lat, lon float64, pastDays int) ([]weather.Observation, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%f", lat))
		values.Set("longitude", fmt.Sprintf("%f", lon))
		values.Set("hourly", "temperature_2m,relative_humidity_2m")
		values.Set("past_days", strconv.Itoa(pastDays))

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		req, err := http.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		return req, nil
	}

	resp, err := doResilient(ctx, p.client, p.circuit, p.policy, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Hourly struct {
			Time        []string   `json:"time"`
			Temperature []*float64 `json:"temperature_2m"`
			Humidity    []*float64 `json:"relative_humidity_2m"`
		} `json:"hourly"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decoding body: %v", ErrBadUpstreamData, err)
	}

	h := payload.Hourly
	if len(h.Time) == 0 {
		return nil, fmt.Errorf("%w: empty hourly time array", ErrBadUpstreamData)
	}
	if len(h.Temperature) != len(h.Time) || len(h.Humidity) != len(h.Time) {
		return nil, fmt.Errorf("%w: parallel array length mismatch (time=%d temperature=%d humidity=%d)",
			ErrBadUpstreamData, len(h.Time), len(h.Temperature), len(h.Humidity))
	}

	obs := make([]weather.Observation, 0, len(h.Time))
	for i, raw := range h.Time {
		ts, err := time.ParseInLocation(hourlyTimeLayout, raw, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("%w: timestamp %q: %v", ErrBadUpstreamData, raw, err)
		}
		obs = append(obs, weather.Observation{
			Timestamp:   ts,
			Latitude:    lat,
			Longitude:   lon,
			Temperature: h.Temperature[i],
			Humidity:    h.Humidity[i],
		})
	}
	return obs, nil
}
