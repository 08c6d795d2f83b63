package ingest

import "fmt"

// ValidationResult is the pass/fail verdict for one parsed upload.
type ValidationResult struct {
	OK      bool
	Reasons []string
}

// Validate checks a parsed dataset against the upload contract:
// every required column present, every non-blank port numeric, and
// no duplicate ticket identifiers. A failed validation blocks
// persistence; the previous snapshot stays authoritative.
func Validate(ds *Dataset) ValidationResult {
	var reasons []string

	for _, col := range ds.MissingColumns {
		reasons = append(reasons, fmt.Sprintf("required column %q not found", col))
	}
	reasons = append(reasons, ds.BadPorts...)
	for _, id := range ds.DuplicateIDs {
		reasons = append(reasons, fmt.Sprintf("duplicate Ticket ID %q", id))
	}
	if len(ds.MissingColumns) == 0 && len(ds.Tickets) == 0 {
		reasons = append(reasons, "no usable rows: every row is missing a Ticket ID or status")
	}

	return ValidationResult{OK: len(reasons) == 0, Reasons: reasons}
}
