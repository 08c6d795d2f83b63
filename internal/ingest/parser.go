package ingest

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/idrefz/deltaboard/internal/domain"
)

// Canonical column headers of the daily deployment export. Matching is
// case-insensitive on trimmed header text.
const (
	ColTicketID = "Ticket ID"
	ColRegional = "Regional"
	ColWitel    = "Witel"
	ColDatel    = "Datel"
	ColProject  = "Nama Project"
	ColStatus   = "Status Proyek"
	ColPorts    = "Total Port"
)

// RequiredColumns lists every column an upload must carry, in canonical order.
var RequiredColumns = []string{
	ColTicketID, ColRegional, ColWitel, ColDatel, ColProject, ColStatus, ColPorts,
}

// Dataset is the parse product of one uploaded workbook. Structural
// problems (missing columns, bad numbers, duplicate identifiers) are
// collected here rather than aborting the parse, so the validator can
// report all reasons at once.
type Dataset struct {
	Tickets []domain.Ticket

	MissingColumns []string
	BadPorts       []string
	DuplicateIDs   []string

	// DroppedRows counts rows skipped for a blank ticket ID or status.
	DroppedRows int
}

type columnIndex struct {
	ticketID int
	regional int
	witel    int
	datel    int
	project  int
	status   int
	ports    int
}

// ParseWorkbook reads the first sheet of an xlsx stream into a Dataset.
// It returns an error only when the workbook itself is unreadable or
// has no data rows; column-level problems land in the Dataset.
func ParseWorkbook(r io.Reader) (*Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet %q has no data rows", sheet)
	}

	headerMap := make(map[string]int, len(rows[0]))
	for i, header := range rows[0] {
		headerMap[strings.ToLower(strings.TrimSpace(header))] = i
	}

	ds := &Dataset{}
	cols := resolveColumns(headerMap, ds)
	if len(ds.MissingColumns) > 0 {
		return ds, nil
	}

	seen := make(map[string]struct{}, len(rows)-1)
	dupes := make(map[string]struct{})
	for i, row := range rows[1:] {
		ticket, ok, reason := parseRow(row, cols, i+2)
		if !ok {
			ds.DroppedRows++
			continue
		}
		if reason != "" {
			ds.BadPorts = append(ds.BadPorts, reason)
		}
		if _, exists := seen[ticket.ID]; exists {
			if _, noted := dupes[ticket.ID]; !noted {
				ds.DuplicateIDs = append(ds.DuplicateIDs, ticket.ID)
				dupes[ticket.ID] = struct{}{}
			}
		}
		seen[ticket.ID] = struct{}{}
		ds.Tickets = append(ds.Tickets, ticket)
	}

	return ds, nil
}

func resolveColumns(headerMap map[string]int, ds *Dataset) columnIndex {
	find := func(name string) int {
		if idx, ok := headerMap[strings.ToLower(name)]; ok {
			return idx
		}
		ds.MissingColumns = append(ds.MissingColumns, name)
		return -1
	}
	return columnIndex{
		ticketID: find(ColTicketID),
		regional: find(ColRegional),
		witel:    find(ColWitel),
		datel:    find(ColDatel),
		project:  find(ColProject),
		status:   find(ColStatus),
		ports:    find(ColPorts),
	}
}

// parseRow builds a ticket from one data row. ok is false when the row
// must be dropped (blank ID or status); reason is non-empty when the
// port cell is present but not numeric.
func parseRow(row []string, cols columnIndex, rowNum int) (domain.Ticket, bool, string) {
	cell := func(idx int) string {
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	ticket := domain.Ticket{
		ID:       cell(cols.ticketID),
		Regional: cell(cols.regional),
		Witel:    cell(cols.witel),
		Datel:    cell(cols.datel),
		Project:  cell(cols.project),
		Status:   domain.Status(cell(cols.status)),
	}
	if ticket.ID == "" || ticket.Status == "" {
		return domain.Ticket{}, false, ""
	}

	reason := ""
	if raw := cell(cols.ports); raw != "" {
		ports, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
		if err != nil {
			reason = fmt.Sprintf("row %d: %s %q is not numeric", rowNum, ColPorts, raw)
		} else {
			ticket.Ports = ports
		}
	}
	return ticket, true, reason
}
