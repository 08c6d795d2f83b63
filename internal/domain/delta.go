package domain

// WitelKey addresses a sub-region within its parent region.
type WitelKey struct {
	Regional string
	Witel    string
}

// StatusChange records one ticket whose status differs between two
// consecutive snapshots. Ports and location come from the current side.
type StatusChange struct {
	TicketID  string
	Regional  string
	Witel     string
	OldStatus Status
	NewStatus Status
	Ports     float64
}

// DeltaResult is the derived comparison between the previous and
// current snapshots. It is computed per request, never stored.
type DeltaResult struct {
	// Baseline is true when no previous snapshot existed. Only CurTotal
	// is populated in that case; every delta field stays zero.
	Baseline bool

	PrevTotal int
	CurTotal  int

	Added   []string
	Removed []string
	Changed []StatusChange

	// Port and LoP sums of tickets that transitioned into Go Live,
	// grouped by region and by region+witel.
	GoLivePortsByRegion map[string]float64
	GoLiveLoPByRegion   map[string]int
	GoLivePortsByWitel  map[WitelKey]float64
	GoLiveLoPByWitel    map[WitelKey]int
}

// AddedCount returns the number of tickets present only in the current snapshot.
func (d *DeltaResult) AddedCount() int { return len(d.Added) }

// RemovedCount returns the number of tickets present only in the previous snapshot.
func (d *DeltaResult) RemovedCount() int { return len(d.Removed) }

// ChangedCount returns the number of common tickets whose status differs.
func (d *DeltaResult) ChangedCount() int { return len(d.Changed) }
