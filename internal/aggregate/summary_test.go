package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idrefz/deltaboard/internal/domain"
)

func ticket(regional, witel string, status domain.Status, ports float64) domain.Ticket {
	return domain.Ticket{
		ID:       regional + "-" + witel + "-" + string(status) + "-x",
		Regional: regional,
		Witel:    witel,
		Status:   status,
		Ports:    ports,
	}
}

func rowFor(rows []domain.SummaryRow, regional, witel string) *domain.SummaryRow {
	for i := range rows {
		if rows[i].Regional == regional && rows[i].Witel == witel {
			return &rows[i]
		}
	}
	return nil
}

func TestSummarize_PivotAndGrandTotal(t *testing.T) {
	tickets := []domain.Ticket{
		{ID: "1", Regional: "R1", Witel: "W1", Status: domain.StatusGoLive, Ports: 100},
		{ID: "2", Regional: "R1", Witel: "W1", Status: domain.StatusOnGoing, Ports: 50},
		{ID: "3", Regional: "R1", Witel: "W2", Status: domain.StatusOnGoing, Ports: 30},
		{ID: "4", Regional: "R2", Witel: "W3", Status: domain.StatusGoLive, Ports: 20},
	}

	summary := Summarize(tickets, nil)

	r1 := rowFor(summary.Regions, "R1", "")
	require.NotNil(t, r1)
	assert.Equal(t, 1, r1.GoLiveLoP)
	assert.Equal(t, 100.0, r1.GoLivePorts)
	assert.Equal(t, 2, r1.OnGoingLoP)
	assert.Equal(t, 80.0, r1.OnGoingPorts)
	assert.Equal(t, 3, r1.TotalLoP)
	assert.Equal(t, 180.0, r1.TotalPorts)

	total := summary.Regions[len(summary.Regions)-1]
	assert.Equal(t, domain.GrandTotalLabel, total.Regional)
	assert.Equal(t, 4, total.TotalLoP)
	assert.Equal(t, 200.0, total.TotalPorts)
	assert.Equal(t, 120.0, total.GoLivePorts)
	assert.Zero(t, total.Rank, "grand total is excluded from ranking")
}

func TestSummarize_CompletionBounds(t *testing.T) {
	tickets := []domain.Ticket{
		{ID: "1", Regional: "Full", Witel: "W", Status: domain.StatusGoLive, Ports: 80},
		{ID: "2", Regional: "Half", Witel: "W", Status: domain.StatusGoLive, Ports: 50},
		{ID: "3", Regional: "Half", Witel: "W", Status: domain.StatusOnGoing, Ports: 50},
		{ID: "4", Regional: "Zero", Witel: "W", Status: domain.StatusOnGoing, Ports: 0},
	}

	summary := Summarize(tickets, nil)

	for _, row := range summary.Regions {
		assert.GreaterOrEqual(t, row.CompletionPct, 0.0, row.Regional)
		assert.LessOrEqual(t, row.CompletionPct, 100.0, row.Regional)
	}
	assert.Equal(t, 100.0, rowFor(summary.Regions, "Full", "").CompletionPct)
	assert.Equal(t, 50.0, rowFor(summary.Regions, "Half", "").CompletionPct)
	assert.Equal(t, 0.0, rowFor(summary.Regions, "Zero", "").CompletionPct, "zero total must not divide")
}

func TestSummarize_DenseRankWithTies(t *testing.T) {
	tickets := []domain.Ticket{
		{ID: "1", Regional: "A", Witel: "W", Status: domain.StatusGoLive, Ports: 100},
		{ID: "2", Regional: "B", Witel: "W", Status: domain.StatusGoLive, Ports: 100},
		{ID: "3", Regional: "C", Witel: "W", Status: domain.StatusGoLive, Ports: 40},
		{ID: "4", Regional: "D", Witel: "W", Status: domain.StatusOnGoing, Ports: 500},
	}

	summary := Summarize(tickets, nil)

	assert.Equal(t, 1, rowFor(summary.Regions, "A", "").Rank)
	assert.Equal(t, 1, rowFor(summary.Regions, "B", "").Rank, "equal sums share a rank")
	assert.Equal(t, 2, rowFor(summary.Regions, "C", "").Rank, "dense ranking leaves no gaps")
	assert.Equal(t, 3, rowFor(summary.Regions, "D", "").Rank, "rank follows Go-Live ports, not totals")
}

func TestSummarize_RankMonotonicity(t *testing.T) {
	tickets := []domain.Ticket{
		{ID: "1", Regional: "A", Witel: "W", Status: domain.StatusGoLive, Ports: 300},
		{ID: "2", Regional: "B", Witel: "W", Status: domain.StatusGoLive, Ports: 200},
		{ID: "3", Regional: "C", Witel: "W", Status: domain.StatusGoLive, Ports: 100},
	}

	summary := Summarize(tickets, nil)

	rows := summary.Regions[:len(summary.Regions)-1]
	for _, a := range rows {
		for _, b := range rows {
			if a.GoLivePorts > b.GoLivePorts {
				assert.Less(t, a.Rank, b.Rank)
			}
		}
	}
}

func TestSummarize_WitelRankPartitionedByRegion(t *testing.T) {
	tickets := []domain.Ticket{
		{ID: "1", Regional: "R1", Witel: "W1", Status: domain.StatusGoLive, Ports: 10},
		{ID: "2", Regional: "R1", Witel: "W2", Status: domain.StatusGoLive, Ports: 500},
		{ID: "3", Regional: "R2", Witel: "W3", Status: domain.StatusGoLive, Ports: 5},
	}

	summary := Summarize(tickets, nil)

	assert.Equal(t, 1, rowFor(summary.Witels, "R1", "W2").Rank)
	assert.Equal(t, 2, rowFor(summary.Witels, "R1", "W1").Rank)
	// W3 is alone in R2, so it ranks first there despite the smallest sum.
	assert.Equal(t, 1, rowFor(summary.Witels, "R2", "W3").Rank)
}

func TestSummarize_DeltaDefaultsToZero(t *testing.T) {
	tickets := []domain.Ticket{
		{ID: "1", Regional: "R1", Witel: "W1", Status: domain.StatusGoLive, Ports: 100},
		{ID: "2", Regional: "R2", Witel: "W2", Status: domain.StatusOnGoing, Ports: 40},
	}
	delta := &domain.DeltaResult{
		GoLivePortsByRegion: map[string]float64{"R1": 100},
		GoLiveLoPByRegion:   map[string]int{"R1": 1},
		GoLivePortsByWitel:  map[domain.WitelKey]float64{{Regional: "R1", Witel: "W1"}: 100},
		GoLiveLoPByWitel:    map[domain.WitelKey]int{{Regional: "R1", Witel: "W1"}: 1},
	}

	summary := Summarize(tickets, delta)

	assert.Equal(t, 100.0, rowFor(summary.Regions, "R1", "").DeltaGoLivePorts)
	assert.Equal(t, 0.0, rowFor(summary.Regions, "R2", "").DeltaGoLivePorts, "regions absent from the map default to 0")
	assert.Equal(t, 1, rowFor(summary.Witels, "R1", "W1").DeltaGoLiveLoP)
	assert.Equal(t, 0, rowFor(summary.Witels, "R2", "W2").DeltaGoLiveLoP)
}

func TestSummarize_BaselineDeltaIgnored(t *testing.T) {
	tickets := []domain.Ticket{
		{ID: "1", Regional: "R1", Witel: "W1", Status: domain.StatusGoLive, Ports: 100},
	}

	summary := Summarize(tickets, &domain.DeltaResult{Baseline: true})

	assert.Equal(t, 0.0, rowFor(summary.Regions, "R1", "").DeltaGoLivePorts)
}
