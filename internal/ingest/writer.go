package ingest

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/idrefz/deltaboard/internal/domain"
)

// WriteWorkbook renders tickets back into a single-sheet xlsx with the
// canonical columns. The file store persists snapshots in this shape so
// archived files stay openable with the same tooling that produced the
// original uploads.
func WriteWorkbook(tickets []domain.Ticket) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, header := range RequiredColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, fmt.Errorf("write header %s: %w", header, err)
		}
	}

	for rowIdx, t := range tickets {
		values := []interface{}{t.ID, t.Regional, t.Witel, t.Datel, t.Project, string(t.Status), t.Ports}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("write row %d: %w", rowIdx+2, err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
