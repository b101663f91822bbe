// Package export renders a finalized batch as an XLSX workbook.
package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/taxkit/bupot-extractor/internal/batch"
	"github.com/taxkit/bupot-extractor/internal/schema"
)

// Service produces XLSX bytes for extraction batches.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// WriteXLSX returns an XLSX workbook (as bytes) for the batch. Columns follow
// the canonical field order; a field absent from a record leaves its cell
// empty, so every record fits the same superset-of-columns layout.
func (s *Service) WriteXLSX(b batch.Batch) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Hasil Ekstraksi"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	if index, _ := f.GetSheetIndex("Sheet1"); index != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	for i, h := range schema.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, rec := range b.Records {
		for col, key := range schema.Columns {
			v, ok := rec[key]
			if !ok {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		row++
	}

	// Widen the identifier and name columns
	_ = f.SetColWidth(sheet, "A", "B", 20)
	_ = f.SetColWidth(sheet, "E", "F", 32)
	_ = f.SetColWidth(sheet, "L", "L", 40)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(b.Records),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
