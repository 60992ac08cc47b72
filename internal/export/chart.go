package export

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/i474232898/weather-report-backend/internal/weather"
)

// ErrNotEnoughPoints is returned when no metric has the two data points a
// time series needs. The PDF report omits its chart section in that case.
var ErrNotEnoughPoints = errors.New("not enough data points to chart")

const (
	panelWidth  = 900
	panelHeight = 320
)

// ChartPNG renders the window as two stacked time-series panels, temperature
// on top and relative humidity below, and returns the combined PNG. A metric
// with fewer than two non-null points is skipped.
func ChartPNG(obs []weather.Observation) ([]byte, error) {
	title := fmt.Sprintf("Temperature and Humidity Over Time (Last %d Hours)", len(obs))

	var panels [][]byte
	if p, err := renderPanel(obs, weather.MetricTemperature, title, "Temperature (°C)", drawing.ColorRed); err == nil {
		panels = append(panels, p)
	}
	if p, err := renderPanel(obs, weather.MetricHumidity, "", "Relative Humidity (%)", drawing.ColorBlue); err == nil {
		panels = append(panels, p)
	}
	if len(panels) == 0 {
		return nil, ErrNotEnoughPoints
	}
	return stackVertically(panels)
}

func renderPanel(obs []weather.Observation, m weather.Metric, title, seriesName string, color drawing.Color) ([]byte, error) {
	var xs []time.Time
	var ys []float64
	for _, o := range obs {
		if v := o.Value(m); v != nil {
			xs = append(xs, o.Timestamp)
			ys = append(ys, *v)
		}
	}
	if len(xs) < 2 {
		return nil, ErrNotEnoughPoints
	}

	series := chart.TimeSeries{
		Name:    seriesName,
		XValues: xs,
		YValues: ys,
		Style: chart.Style{
			StrokeColor: color,
			StrokeWidth: 2.0,
		},
	}

	graph := chart.Chart{
		Title:  title,
		Width:  panelWidth,
		Height: panelHeight,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("01-02 15:04"),
		},
		YAxis: chart.YAxis{
			Name: seriesName,
		},
		Series: []chart.Series{series},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("rendering %s panel: %w", m, err)
	}
	return buf.Bytes(), nil
}

// stackVertically decodes the panel PNGs and composes them into one image.
func stackVertically(panels [][]byte) ([]byte, error) {
	images := make([]image.Image, 0, len(panels))
	width, height := 0, 0
	for _, p := range panels {
		img, err := png.Decode(bytes.NewReader(p))
		if err != nil {
			return nil, fmt.Errorf("decoding panel: %w", err)
		}
		b := img.Bounds()
		if b.Dx() > width {
			width = b.Dx()
		}
		height += b.Dy()
		images = append(images, img)
	}

	combined := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(combined, combined.Bounds(), image.White, image.Point{}, draw.Src)
	y := 0
	for _, img := range images {
		b := img.Bounds()
		draw.Draw(combined, image.Rect(0, y, b.Dx(), y+b.Dy()), img, b.Min, draw.Src)
		y += b.Dy()
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, combined); err != nil {
		return nil, fmt.Errorf("encoding combined chart: %w", err)
	}
	return buf.Bytes(), nil
}
