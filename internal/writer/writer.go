package writer

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/insightdelivered/ride-history-converter/internal/models"
	"github.com/insightdelivered/ride-history-converter/internal/parser"
)

// Format is an output table format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// ParseFormat accepts a format name with or without a leading dot.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".")) {
	case FormatXLSX, "xls", "excel":
		return FormatXLSX, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unknown output format %q. Supported: xlsx, csv", s)
	}
}

// Writer stores a conversion as a table.
type Writer interface {
	Write(out io.Writer, conv *models.Conversion) error
	// Extension returns the file extension, including the dot.
	Extension() string
}

// New returns the writer for a format.
func New(format Format) (Writer, error) {
	switch format {
	case FormatXLSX:
		return &XLSXWriter{}, nil
	case FormatCSV:
		return &CSVWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %q", format)
	}
}

// WriteToFile creates path and writes the conversion into it.
func WriteToFile(w Writer, path string, conv *models.Conversion) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	if err := w.Write(f, conv); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// OutputName derives the export file name from a timestamp, e.g.
// "2018-01-15T10-30.xlsx".
func OutputName(now time.Time, w Writer) string {
	return now.Format("2006-01-02T15-04") + w.Extension()
}

const dateLayout = "2006-01-02"

// cellText renders one column of a ride the way it appears in a CSV cell.
// Null values render as an empty string.
func cellText(r models.Ride, column string) string {
	switch column {
	case parser.ColDate:
		return r.Date.Format(dateLayout)
	case parser.ColDriver:
		return r.Driver
	case parser.ColRideType:
		return r.RideType
	case parser.ColCity:
		return r.City
	case parser.ColPayment:
		return r.Payment
	case parser.ColSplitWith:
		return deref(r.SplitWith)
	case parser.ColRequestedBy:
		return deref(r.RequestedBy)
	case parser.ColCanceled:
		if r.Canceled {
			return "true"
		}
		return "false"
	case parser.ColCurrency:
		return deref(r.Currency)
	case parser.ColFare:
		return r.Fare.StringFixed(2)
	case parser.ColFareAfterSplit:
		if r.FareAfterSplit == nil {
			return ""
		}
		return r.FareAfterSplit.StringFixed(2)
	}
	return ""
}

// cellValue is cellText with native types for spreadsheet cells; nil leaves
// the cell empty.
func cellValue(r models.Ride, column string) interface{} {
	switch column {
	case parser.ColDate:
		return time.Date(r.Date.Year(), r.Date.Month(), r.Date.Day(), 0, 0, 0, 0, time.UTC)
	case parser.ColSplitWith:
		return nullable(r.SplitWith)
	case parser.ColRequestedBy:
		return nullable(r.RequestedBy)
	case parser.ColCurrency:
		return nullable(r.Currency)
	case parser.ColCanceled:
		return r.Canceled
	case parser.ColFare:
		return r.Fare.InexactFloat64()
	case parser.ColFareAfterSplit:
		if r.FareAfterSplit == nil {
			return nil
		}
		return r.FareAfterSplit.InexactFloat64()
	}
	return cellText(r, column)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nullable(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}
