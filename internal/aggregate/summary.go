// Package aggregate builds the region and witel summary tables from a
// snapshot and the comparator's delta maps.
//
// Ranking rule: dense rank by Go-Live port sum, descending. Tied sums
// share a rank and no rank numbers are skipped. The Grand Total row is
// excluded from ranking, and witel rows are ranked within their parent
// region only.
package aggregate

import (
	"math"
	"sort"

	"github.com/idrefz/deltaboard/internal/domain"
)

// Summarize groups tickets by region and by region+witel, producing
// one table each with LoP and port sums per status, completion
// percentage, day-over-day Go-Live deltas and rank. Regions absent
// from the delta maps get a delta of 0.
func Summarize(tickets []domain.Ticket, delta *domain.DeltaResult) *domain.Summary {
	regionRows := pivot(tickets, func(t domain.Ticket) domain.WitelKey {
		return domain.WitelKey{Regional: t.Regional}
	})
	witelRows := pivot(tickets, func(t domain.Ticket) domain.WitelKey {
		return domain.WitelKey{Regional: t.Regional, Witel: t.Witel}
	})

	if delta != nil && !delta.Baseline {
		for i := range regionRows {
			regionRows[i].DeltaGoLivePorts = delta.GoLivePortsByRegion[regionRows[i].Regional]
			regionRows[i].DeltaGoLiveLoP = delta.GoLiveLoPByRegion[regionRows[i].Regional]
		}
		for i := range witelRows {
			key := domain.WitelKey{Regional: witelRows[i].Regional, Witel: witelRows[i].Witel}
			witelRows[i].DeltaGoLivePorts = delta.GoLivePortsByWitel[key]
			witelRows[i].DeltaGoLiveLoP = delta.GoLiveLoPByWitel[key]
		}
	}

	rank(regionRows)
	rankPartitioned(witelRows)

	sortRows(regionRows)
	sortRows(witelRows)

	return &domain.Summary{
		Regions: append(regionRows, grandTotal(regionRows)),
		Witels:  append(witelRows, grandTotal(witelRows)),
	}
}

func pivot(tickets []domain.Ticket, keyFn func(domain.Ticket) domain.WitelKey) []domain.SummaryRow {
	index := make(map[domain.WitelKey]int)
	var rows []domain.SummaryRow

	for _, t := range tickets {
		key := keyFn(t)
		i, ok := index[key]
		if !ok {
			i = len(rows)
			index[key] = i
			rows = append(rows, domain.SummaryRow{Regional: key.Regional, Witel: key.Witel})
		}
		switch t.Status {
		case domain.StatusGoLive:
			rows[i].GoLiveLoP++
			rows[i].GoLivePorts += t.Ports
		default:
			rows[i].OnGoingLoP++
			rows[i].OnGoingPorts += t.Ports
		}
		rows[i].TotalLoP++
		rows[i].TotalPorts += t.Ports
	}

	for i := range rows {
		rows[i].CompletionPct = completion(rows[i].GoLivePorts, rows[i].TotalPorts)
	}
	return rows
}

// completion is zero-safe: a zero port total yields 0, never NaN or Inf.
func completion(goLive, total float64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(goLive/total*1000) / 10
}

// rank assigns dense ranks by GoLivePorts descending across all rows.
func rank(rows []domain.SummaryRow) {
	assignDenseRanks(rows, indexRange(len(rows)))
}

// rankPartitioned ranks witel rows within their parent region.
func rankPartitioned(rows []domain.SummaryRow) {
	byRegion := make(map[string][]int)
	for i := range rows {
		byRegion[rows[i].Regional] = append(byRegion[rows[i].Regional], i)
	}
	for _, indices := range byRegion {
		assignDenseRanks(rows, indices)
	}
}

func assignDenseRanks(rows []domain.SummaryRow, indices []int) {
	distinct := make(map[float64]struct{}, len(indices))
	for _, i := range indices {
		distinct[rows[i].GoLivePorts] = struct{}{}
	}
	sums := make([]float64, 0, len(distinct))
	for sum := range distinct {
		sums = append(sums, sum)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(sums)))

	rankOf := make(map[float64]int, len(sums))
	for i, sum := range sums {
		rankOf[sum] = i + 1
	}
	for _, i := range indices {
		rows[i].Rank = rankOf[rows[i].GoLivePorts]
	}
}

func indexRange(n int) []int {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	return indices
}

func sortRows(rows []domain.SummaryRow) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Regional != rows[j].Regional {
			return rows[i].Regional < rows[j].Regional
		}
		if rows[i].Rank != rows[j].Rank {
			return rows[i].Rank < rows[j].Rank
		}
		return rows[i].Witel < rows[j].Witel
	})
}

// grandTotal folds every row into the combined total line. Rank stays
// 0: the total never competes with real rows.
func grandTotal(rows []domain.SummaryRow) domain.SummaryRow {
	total := domain.SummaryRow{Regional: domain.GrandTotalLabel}
	for _, r := range rows {
		total.OnGoingLoP += r.OnGoingLoP
		total.OnGoingPorts += r.OnGoingPorts
		total.GoLiveLoP += r.GoLiveLoP
		total.GoLivePorts += r.GoLivePorts
		total.TotalLoP += r.TotalLoP
		total.TotalPorts += r.TotalPorts
		total.DeltaGoLivePorts += r.DeltaGoLivePorts
		total.DeltaGoLiveLoP += r.DeltaGoLiveLoP
	}
	total.CompletionPct = completion(total.GoLivePorts, total.TotalPorts)
	return total
}
