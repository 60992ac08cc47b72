package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/i474232898/weather-report-backend/internal/weather"
)

const sheetName = "Weather Data"

// Excel renders the windowed observations into an xlsx workbook with one
// sheet and columns Timestamp / Temperature / Relative Humidity. Cells for
// omitted metric values stay blank.
func Excel(obs []weather.Observation) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("naming sheet: %w", err)
	}

	headers := []string{"Timestamp", "Temperature (°C)", "Relative Humidity (%)"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, err
		}
	}

	for i, o := range obs {
		row := i + 2
		if err := f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), o.Timestamp); err != nil {
			return nil, err
		}
		if o.Temperature != nil {
			if err := f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), *o.Temperature); err != nil {
				return nil, err
			}
		}
		if o.Humidity != nil {
			if err := f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), *o.Humidity); err != nil {
				return nil, err
			}
		}
	}

	tsFormat := "yyyy-mm-dd hh:mm:ss"
	tsStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &tsFormat})
	if err != nil {
		return nil, fmt.Errorf("building timestamp style: %w", err)
	}
	if len(obs) > 0 {
		if err := f.SetCellStyle(sheetName, "A2", fmt.Sprintf("A%d", len(obs)+1), tsStyle); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(sheetName, "A", "C", 22); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serializing workbook: %w", err)
	}
	return buf.Bytes(), nil
}
