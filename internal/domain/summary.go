package domain

// GrandTotalLabel names the combined row appended to summary tables.
// It never participates in ranking.
const GrandTotalLabel = "Grand Total"

// SummaryRow is one aggregated line of the region or witel table.
// For region rows Witel is empty; the Grand Total row has
// Regional == GrandTotalLabel and Rank 0.
type SummaryRow struct {
	Regional string
	Witel    string

	OnGoingLoP   int
	OnGoingPorts float64
	GoLiveLoP    int
	GoLivePorts  float64
	TotalLoP     int
	TotalPorts   float64

	// CompletionPct = GoLivePorts / TotalPorts * 100, 0 when TotalPorts is 0.
	CompletionPct float64

	// Day-over-day Go-Live additions from the comparator, 0 for rows
	// absent from the delta maps.
	DeltaGoLivePorts float64
	DeltaGoLiveLoP   int

	// Dense rank by GoLivePorts descending; witel rows are ranked
	// within their parent region only.
	Rank int
}

// Summary bundles both aggregation tables for one snapshot.
type Summary struct {
	Regions []SummaryRow
	Witels  []SummaryRow
}
