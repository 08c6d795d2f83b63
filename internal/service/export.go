package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/idrefz/deltaboard/internal/domain"
)

var exportHeaders = []string{
	"Regional", "Witel",
	"OnGoing LoP", "OnGoing Port",
	"GoLive LoP", "GoLive Port",
	"Total LoP", "Total Port",
	"%", "Penambahan GoLive Port", "Penambahan GoLive LoP", "RANK",
}

// ExportXLSX renders the current dashboard as a two-sheet workbook
// (Regional and Witel tables). Returns nil when no snapshot exists.
func (s *ReportService) ExportXLSX(ctx context.Context, regional string) ([]byte, error) {
	report, err := s.Dashboard(ctx, regional)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, nil
	}

	f := excelize.NewFile()
	defer f.Close()

	regionSheet := f.GetSheetName(0)
	if err := f.SetSheetName(regionSheet, "Regional"); err != nil {
		return nil, err
	}
	if err := writeSummarySheet(f, "Regional", report.Regions); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet("Witel"); err != nil {
		return nil, err
	}
	if err := writeSummarySheet(f, "Witel", report.Witels); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("serialize export: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSummarySheet(f *excelize.File, sheet string, rows []domain.SummaryRow) error {
	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
	}
	for rowIdx, row := range rows {
		rank := interface{}(row.Rank)
		if row.Regional == domain.GrandTotalLabel {
			rank = ""
		}
		values := []interface{}{
			row.Regional, row.Witel,
			row.OnGoingLoP, row.OnGoingPorts,
			row.GoLiveLoP, row.GoLivePorts,
			row.TotalLoP, row.TotalPorts,
			fmt.Sprintf("%.1f%%", row.CompletionPct),
			row.DeltaGoLivePorts, row.DeltaGoLiveLoP,
			rank,
		}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}
