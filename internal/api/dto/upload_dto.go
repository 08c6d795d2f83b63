package dto

// UploadResponse reports the outcome of one processed upload.
type UploadResponse struct {
	Version     string                 `json:"version,omitempty"`
	Hash        string                 `json:"hash"`
	TicketCount int                    `json:"ticket_count"`
	DroppedRows int                    `json:"dropped_rows,omitempty"`
	Baseline    bool                   `json:"baseline"`
	Added       int                    `json:"added"`
	Removed     int                    `json:"removed"`
	Changed     int                    `json:"changed"`
	Changes     []StatusChangeResponse `json:"changes"`

	// Go-Live port additions per region for tickets that transitioned
	// in this upload.
	GoLivePortsByRegion map[string]float64 `json:"go_live_ports_by_region,omitempty"`
}
