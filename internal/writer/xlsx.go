package writer

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/insightdelivered/ride-history-converter/internal/models"
	"github.com/insightdelivered/ride-history-converter/internal/parser"
)

// DefaultSheet is the worksheet the rides are written to.
const DefaultSheet = "Rides"

// XLSXWriter writes rides to an Excel workbook.
type XLSXWriter struct {
	// Sheet overrides DefaultSheet when set.
	Sheet string
}

// Extension implements Writer.
func (w *XLSXWriter) Extension() string { return ".xlsx" }

func (w *XLSXWriter) sheet() string {
	if w.Sheet == "" {
		return DefaultSheet
	}
	return w.Sheet
}

// Write builds the workbook in memory and writes it to out.
func (w *XLSXWriter) Write(out io.Writer, conv *models.Conversion) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := w.sheet()
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("failed to name worksheet: %w", err)
	}

	header := make([]interface{}, len(conv.Columns))
	for i, col := range conv.Columns {
		header[i] = col
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, ride := range conv.Rides {
		row := make([]interface{}, len(conv.Columns))
		for j, col := range conv.Columns {
			row[j] = cellValue(ride, col)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write ride %d: %w", i+1, err)
		}
	}

	if err := w.applyStyles(f, sheet, conv); err != nil {
		return err
	}

	if err := f.Write(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func (w *XLSXWriter) applyStyles(f *excelize.File, sheet string, conv *models.Conversion) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	if len(conv.Rides) == 0 {
		return nil
	}

	dateFmt := "yyyy-mm-dd"
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt})
	if err != nil {
		return fmt.Errorf("failed to create date style: %w", err)
	}
	moneyFmt := "0.00"
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &moneyFmt})
	if err != nil {
		return fmt.Errorf("failed to create money style: %w", err)
	}

	lastRow := len(conv.Rides) + 1
	for i, col := range conv.Columns {
		var style int
		switch col {
		case parser.ColDate:
			style = dateStyle
		case parser.ColFare, parser.ColFareAfterSplit:
			style = moneyStyle
		default:
			continue
		}
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, name+"2", fmt.Sprintf("%s%d", name, lastRow), style); err != nil {
			return fmt.Errorf("failed to style column %s: %w", col, err)
		}
	}
	return nil
}
