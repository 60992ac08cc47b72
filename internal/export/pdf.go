package export

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/i474232898/weather-report-backend/internal/weather"
)

const (
	pageMargin   = 20.0 // mm
	contentWidth = 210 - 2*pageMargin
	sampleRows   = 10
)

// PDF renders the report as an A4 document: header, metadata block,
// statistics grid, the two-panel chart and a sample table of the first
// records. Only the chart is optional; a window too sparse to chart still
// produces a report. An empty window is an error, never a blank document.
func PDF(r Report) ([]byte, error) {
	if len(r.Observations) == 0 {
		return nil, errors.New("empty report window")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetTitle("Weather Data Report", true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	writeHeader(pdf)
	writeMetadata(pdf, r)
	writeStatistics(pdf, tr, r)

	if chartPNG, err := ChartPNG(r.Observations); err == nil {
		writeChart(pdf, chartPNG)
	}

	writeSampleTable(pdf, tr, r.Observations)
	writeFooter(pdf, r)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("serializing pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writeHeader(pdf *fpdf.Fpdf) {
	pdf.SetTextColor(44, 82, 130)
	pdf.SetFont("Helvetica", "B", 22)
	pdf.CellFormat(contentWidth, 10, "Weather Data Report", "", 1, "C", false, 0, "")

	pdf.SetTextColor(74, 85, 104)
	pdf.SetFont("Helvetica", "", 13)
	pdf.CellFormat(contentWidth, 8, "Temperature and Humidity Analysis", "", 1, "C", false, 0, "")

	pdf.SetDrawColor(44, 82, 130)
	pdf.SetLineWidth(0.8)
	y := pdf.GetY() + 2
	pdf.Line(pageMargin, y, pageMargin+contentWidth, y)
	pdf.SetY(y + 6)
}

func writeMetadata(pdf *fpdf.Fpdf, r Report) {
	first := r.Observations[0]
	last := r.Observations[len(r.Observations)-1]

	rows := [][2]string{
		{"Location:", r.Location()},
		{"Data Points:", fmt.Sprintf("%d records", len(r.Observations))},
		{"Date Range:", fmt.Sprintf("%s to %s",
			first.Timestamp.Format("2006-01-02 15:04"),
			last.Timestamp.Format("2006-01-02 15:04"))},
		{"Generated:", r.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Report ID:", r.ReportID},
	}

	pdf.SetFillColor(247, 250, 252)
	pdf.SetDrawColor(226, 232, 240)
	pdf.SetLineWidth(0.2)
	for _, row := range rows {
		pdf.SetTextColor(45, 55, 72)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 7, row[0], "B", 0, "L", true, 0, "")
		pdf.SetTextColor(74, 85, 104)
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(contentWidth-40, 7, row[1], "B", 1, "L", true, 0, "")
	}
	pdf.Ln(6)
}

func writeStatistics(pdf *fpdf.Fpdf, tr func(string) string, r Report) {
	pdf.SetTextColor(44, 82, 130)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentWidth, 8, "Statistical Summary", "", 1, "L", false, 0, "")

	avgTemp, minMaxTemp, tempRange := "n/a", "n/a", "n/a"
	if r.HasTemperature {
		avgTemp = tr(fmt.Sprintf("%.1f°C", r.Temperature.Mean))
		minMaxTemp = tr(fmt.Sprintf("%.1f°C / %.1f°C", r.Temperature.Min, r.Temperature.Max))
		tempRange = tr(fmt.Sprintf("%.1f°C", r.Temperature.Max-r.Temperature.Min))
	}
	avgHumidity := "n/a"
	if r.HasHumidity {
		avgHumidity = fmt.Sprintf("%.1f%%", r.Humidity.Mean)
	}

	boxes := [][2]string{
		{avgTemp, "Average Temperature"},
		{avgHumidity, "Average Humidity"},
		{minMaxTemp, "Min / Max Temperature"},
		{tempRange, "Temperature Range"},
	}

	boxWidth := (contentWidth - 10) / 2
	pdf.SetFillColor(237, 242, 247)
	pdf.SetDrawColor(226, 232, 240)
	for i := 0; i < len(boxes); i += 2 {
		x, y := pageMargin, pdf.GetY()
		for j := 0; j < 2; j++ {
			box := boxes[i+j]
			pdf.SetXY(x, y)
			pdf.SetTextColor(44, 82, 130)
			pdf.SetFont("Helvetica", "B", 14)
			pdf.CellFormat(boxWidth, 9, box[0], "LTR", 2, "C", true, 0, "")
			pdf.SetX(x)
			pdf.SetTextColor(113, 128, 150)
			pdf.SetFont("Helvetica", "", 9)
			pdf.CellFormat(boxWidth, 6, box[1], "LBR", 0, "C", true, 0, "")
			x += boxWidth + 10
		}
		pdf.SetXY(pageMargin, y+17)
	}
	pdf.Ln(4)
}

func writeChart(pdf *fpdf.Fpdf, chartPNG []byte) {
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("window-chart", opts, bytes.NewReader(chartPNG))
	pdf.ImageOptions("window-chart", pageMargin, pdf.GetY(), contentWidth, 0, true, opts, 0, "")
	pdf.Ln(6)
}

func writeSampleTable(pdf *fpdf.Fpdf, tr func(string) string, obs []weather.Observation) {
	n := len(obs)
	if n > sampleRows {
		n = sampleRows
	}

	pdf.AddPage()
	pdf.SetTextColor(44, 82, 130)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentWidth, 8, fmt.Sprintf("Recent Data Sample (First %d Records)", n), "", 1, "L", false, 0, "")

	colWidths := []float64{70, 50, 50}
	headers := []string{"Timestamp", "Temperature", "Humidity"}

	pdf.SetFillColor(44, 82, 130)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 10)
	for i, h := range headers {
		pdf.CellFormat(colWidths[i], 8, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetTextColor(45, 55, 72)
	pdf.SetFont("Helvetica", "", 10)
	for i := 0; i < n; i++ {
		o := obs[i]
		if i%2 == 1 {
			pdf.SetFillColor(247, 250, 252)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		pdf.CellFormat(colWidths[0], 7, o.Timestamp.Format("2006-01-02 15:04"), "1", 0, "L", true, 0, "")
		pdf.CellFormat(colWidths[1], 7, tr(metricCell(o.Temperature, "°C")), "1", 0, "L", true, 0, "")
		pdf.CellFormat(colWidths[2], 7, metricCell(o.Humidity, "%"), "1", 1, "L", true, 0, "")
	}
}

func metricCell(v *float64, unit string) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%s", *v, unit)
}

func writeFooter(pdf *fpdf.Fpdf, r Report) {
	pdf.Ln(10)
	pdf.SetDrawColor(226, 232, 240)
	pdf.SetLineWidth(0.2)
	y := pdf.GetY()
	pdf.Line(pageMargin, y, pageMargin+contentWidth, y)
	pdf.Ln(4)

	pdf.SetTextColor(113, 128, 150)
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentWidth, 5, "Data Source: Open-Meteo API", "", 1, "C", false, 0, "")
	pdf.CellFormat(contentWidth, 5, "Generated by: Weather Report Backend", "", 1, "C", false, 0, "")
	pdf.CellFormat(contentWidth, 5, fmt.Sprintf("Report Type: %d-Hour Weather Analysis", r.Hours), "", 1, "C", false, 0, "")
}
