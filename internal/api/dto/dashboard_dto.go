package dto

import "time"

// MetricsResponse is the headline counter block of the dashboard.
type MetricsResponse struct {
	Baseline  bool `json:"baseline"`
	TotalPrev int  `json:"total_previous"`
	TotalCur  int  `json:"total_current"`
	Added     int  `json:"added"`
	Removed   int  `json:"removed"`
	Changed   int  `json:"changed"`
}

// SummaryRowResponse is one line of the region or witel table.
type SummaryRowResponse struct {
	Regional         string  `json:"regional"`
	Witel            string  `json:"witel,omitempty"`
	OnGoingLoP       int     `json:"on_going_lop"`
	OnGoingPorts     float64 `json:"on_going_ports"`
	GoLiveLoP        int     `json:"go_live_lop"`
	GoLivePorts      float64 `json:"go_live_ports"`
	TotalLoP         int     `json:"total_lop"`
	TotalPorts       float64 `json:"total_ports"`
	CompletionPct    float64 `json:"completion_pct"`
	DeltaGoLivePorts float64 `json:"delta_go_live_ports"`
	DeltaGoLiveLoP   int     `json:"delta_go_live_lop"`
	Rank             int     `json:"rank,omitempty"`
}

// StatusChangeResponse is one row of the change drill-down table.
type StatusChangeResponse struct {
	TicketID  string  `json:"ticket_id"`
	Regional  string  `json:"regional"`
	Witel     string  `json:"witel"`
	OldStatus string  `json:"old_status"`
	NewStatus string  `json:"new_status"`
	Ports     float64 `json:"ports"`
}

// DashboardResponse is the full rendered dashboard.
type DashboardResponse struct {
	Version    string               `json:"version"`
	Hash       string               `json:"hash"`
	UploadedAt time.Time            `json:"uploaded_at"`
	Regional   string               `json:"regional,omitempty"`
	Metrics    MetricsResponse      `json:"metrics"`
	Regions    []SummaryRowResponse `json:"regions"`
	Witels     []SummaryRowResponse `json:"witels"`
}

// ChangesResponse wraps the drill-down table.
type ChangesResponse struct {
	Version  string                 `json:"version"`
	Regional string                 `json:"regional,omitempty"`
	Changes  []StatusChangeResponse `json:"changes"`
}

// UploadHistoryEntry is one upload log line.
type UploadHistoryEntry struct {
	UploadedAt time.Time `json:"uploaded_at"`
	Hash       string    `json:"hash"`
	Version    string    `json:"version"`
}
