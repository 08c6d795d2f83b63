// Package compare computes the day-over-day delta between two
// consecutive snapshots: ticket-level set differences plus the
// Go-Live port additions attributed to each region and witel.
package compare

import (
	"sort"

	"github.com/idrefz/deltaboard/internal/domain"
)

// Diff compares the previous and current ticket sets keyed by ticket
// identifier. A nil previous side means first run: the current upload
// is the baseline and every delta is reported as zero.
//
// A common ticket counts as changed iff its status differs between the
// two sides. Changed tickets that transitioned into Go Live contribute
// their current-side ports and one LoP to the per-region and per-witel
// delta maps.
func Diff(previous, current []domain.Ticket) *domain.DeltaResult {
	if previous == nil {
		return &domain.DeltaResult{Baseline: true, CurTotal: len(keyByID(current))}
	}

	prevByID := keyByID(previous)
	curByID := keyByID(current)

	result := &domain.DeltaResult{
		PrevTotal:           len(prevByID),
		CurTotal:            len(curByID),
		GoLivePortsByRegion: make(map[string]float64),
		GoLiveLoPByRegion:   make(map[string]int),
		GoLivePortsByWitel:  make(map[domain.WitelKey]float64),
		GoLiveLoPByWitel:    make(map[domain.WitelKey]int),
	}

	for id := range curByID {
		if _, ok := prevByID[id]; !ok {
			result.Added = append(result.Added, id)
		}
	}
	for id := range prevByID {
		if _, ok := curByID[id]; !ok {
			result.Removed = append(result.Removed, id)
		}
	}

	for id, cur := range curByID {
		prev, ok := prevByID[id]
		if !ok || prev.Status == cur.Status {
			continue
		}
		result.Changed = append(result.Changed, domain.StatusChange{
			TicketID:  id,
			Regional:  cur.Regional,
			Witel:     cur.Witel,
			OldStatus: prev.Status,
			NewStatus: cur.Status,
			Ports:     cur.Ports,
		})
		if cur.Status == domain.StatusGoLive {
			key := domain.WitelKey{Regional: cur.Regional, Witel: cur.Witel}
			result.GoLivePortsByRegion[cur.Regional] += cur.Ports
			result.GoLiveLoPByRegion[cur.Regional]++
			result.GoLivePortsByWitel[key] += cur.Ports
			result.GoLiveLoPByWitel[key]++
		}
	}

	sort.Strings(result.Added)
	sort.Strings(result.Removed)
	sort.Slice(result.Changed, func(i, j int) bool {
		return result.Changed[i].TicketID < result.Changed[j].TicketID
	})

	return result
}

// keyByID drops records without an identifier and folds duplicates to
// the last occurrence. Validation rejects duplicates upstream; folding
// here keeps the set algebra well defined regardless.
func keyByID(tickets []domain.Ticket) map[string]domain.Ticket {
	byID := make(map[string]domain.Ticket, len(tickets))
	for _, t := range tickets {
		if t.ID == "" || t.Status == "" {
			continue
		}
		byID[t.ID] = t
	}
	return byID
}
