package events

import (
	"time"

	"github.com/idrefz/deltaboard/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSnapshotCreated     EventType = "snapshot_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Actor     string      `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// SnapshotCreatedPayload describes one persisted upload.
type SnapshotCreatedPayload struct {
	Version     string `json:"version"`
	Hash        string `json:"hash"`
	FileName    string `json:"file_name"`
	TicketCount int    `json:"ticket_count"`
	Added       int    `json:"added"`
	Removed     int    `json:"removed"`
	Changed     int    `json:"changed"`
	Baseline    bool   `json:"baseline"`
}

// TicketStatusChangedPayload describes one ticket whose status moved
// between two consecutive snapshots.
type TicketStatusChangedPayload struct {
	TicketID  string        `json:"ticket_id"`
	Regional  string        `json:"regional"`
	Witel     string        `json:"witel"`
	OldStatus domain.Status `json:"old_status"`
	NewStatus domain.Status `json:"new_status"`
	Ports     float64       `json:"ports"`
}
