package writer

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/insightdelivered/ride-history-converter/internal/models"
)

// CSVWriter writes rides in CSV format, one header row then one row per ride.
type CSVWriter struct{}

// Extension implements Writer.
func (w *CSVWriter) Extension() string { return ".csv" }

// Write writes the conversion in CSV format to the given writer.
func (w *CSVWriter) Write(out io.Writer, conv *models.Conversion) error {
	writer := csv.NewWriter(out)

	if err := writer.Write(conv.Columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	row := make([]string, len(conv.Columns))
	for _, ride := range conv.Rides {
		for i, col := range conv.Columns {
			row[i] = cellText(ride, col)
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
