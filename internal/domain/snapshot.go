package domain

import (
	"sort"
	"time"
)

// Snapshot is the full ticket dataset captured at one upload event.
// Snapshots are immutable once stored; a new upload supersedes the
// current one instead of mutating it.
type Snapshot struct {
	Version    string
	Hash       string
	FileName   string
	UploadedAt time.Time
	Tickets    []Ticket
}

// TicketsByID keys the snapshot's tickets by ticket identifier.
// Duplicate identifiers fold to the last occurrence; validation
// rejects duplicates before a snapshot is ever stored.
func (s *Snapshot) TicketsByID() map[string]Ticket {
	byID := make(map[string]Ticket, len(s.Tickets))
	for _, t := range s.Tickets {
		byID[t.ID] = t
	}
	return byID
}

// Regions returns the distinct, sorted region names in the snapshot.
func (s *Snapshot) Regions() []string {
	seen := make(map[string]struct{})
	var regions []string
	for _, t := range s.Tickets {
		if t.Regional == "" {
			continue
		}
		if _, ok := seen[t.Regional]; ok {
			continue
		}
		seen[t.Regional] = struct{}{}
		regions = append(regions, t.Regional)
	}
	sort.Strings(regions)
	return regions
}

// FilterRegion returns the subset of tickets belonging to the given
// region. An empty region selects everything.
func FilterRegion(tickets []Ticket, regional string) []Ticket {
	if regional == "" {
		return tickets
	}
	filtered := make([]Ticket, 0, len(tickets))
	for _, t := range tickets {
		if t.Regional == regional {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

// UploadEntry is one append-only upload history record.
type UploadEntry struct {
	UploadedAt time.Time
	Hash       string
	Version    string
}
