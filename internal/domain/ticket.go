package domain

// Status enumerates deployment lifecycle states for tickets.
type Status string

const (
	StatusOnGoing Status = "On Going"
	StatusGoLive  Status = "Go Live"
)

// IsKnown reports whether the status is one of the enumerated values.
func (s Status) IsKnown() bool {
	return s == StatusOnGoing || s == StatusGoLive
}

// Ticket is one deployment line item from a daily upload. LoP
// ("Line of Project") is 1 per record and kept implicit: record
// counts are tallied by counting tickets.
type Ticket struct {
	ID       string
	Regional string
	Witel    string
	Datel    string
	Project  string
	Status   Status
	Ports    float64
}
