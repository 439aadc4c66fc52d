package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
)

// CSVExporter renders a RegisterSheet into CSV bytes.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for the sheet. Holiday columns are
// emitted as "H" so the exported grid mirrors the on-screen register.
func (e *CSVExporter) Render(sheet RegisterSheet) ([]byte, error) {
	if len(sheet.Days) == 0 {
		return nil, fmt.Errorf("csv requires at least one day column")
	}

	header := []string{"Roll", "Name"}
	for _, day := range sheet.Days {
		header = append(header, strconv.Itoa(day.Day))
	}
	header = append(header, "Presents", "Absents")

	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	for _, row := range sheet.Rows {
		record := []string{row.Roll, row.Name}
		for _, day := range sheet.Days {
			record = append(record, cellMark(row, day))
		}
		record = append(record, strconv.Itoa(row.Presents), strconv.Itoa(row.Absents))
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func cellMark(row RegisterRow, day DayColumn) string {
	if day.Holiday {
		return "H"
	}
	return row.Marks[day.Day]
}
