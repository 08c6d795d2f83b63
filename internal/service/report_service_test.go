package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/idrefz/deltaboard/internal/domain"
	"github.com/idrefz/deltaboard/internal/snapshot"
)

func newTestReportService(t *testing.T, store snapshot.Store) *ReportService {
	t.Helper()
	// No Redis in tests: the cache is bypassed when the client is absent.
	return NewReportService(ReportDependencies{Store: store, Logger: zap.NewNop()})
}

func seedTwoDays(t *testing.T, store snapshot.Store) {
	t.Helper()
	ctx := context.Background()
	_, err := store.Put(ctx, &domain.Snapshot{Hash: "h1", Tickets: dayOne()})
	require.NoError(t, err)
	_, err = store.Put(ctx, &domain.Snapshot{Hash: "h2", Tickets: dayTwo()})
	require.NoError(t, err)
}

func TestDashboard_NoSnapshotYet(t *testing.T) {
	svc := newTestReportService(t, snapshot.NewMemoryStore())

	report, err := svc.Dashboard(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, report)
}

func TestDashboard_MetricsAndTables(t *testing.T) {
	store := snapshot.NewMemoryStore()
	seedTwoDays(t, store)
	svc := newTestReportService(t, store)

	report, err := svc.Dashboard(context.Background(), "")
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.Equal(t, "h2", report.Hash)
	assert.Equal(t, 2, report.Metrics.TotalPrev)
	assert.Equal(t, 2, report.Metrics.TotalCur)
	assert.Equal(t, 1, report.Metrics.Added)
	assert.Equal(t, 1, report.Metrics.Removed)
	assert.Equal(t, 1, report.Metrics.Changed)

	// Region table: RegionX, RegionY, Grand Total.
	require.Len(t, report.Regions, 3)
	assert.Equal(t, domain.GrandTotalLabel, report.Regions[2].Regional)
	require.Len(t, report.Changes, 1)
	assert.Equal(t, "T1", report.Changes[0].TicketID)
}

func TestDashboard_RegionFilter(t *testing.T) {
	store := snapshot.NewMemoryStore()
	seedTwoDays(t, store)
	svc := newTestReportService(t, store)

	report, err := svc.Dashboard(context.Background(), "RegionY")
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.Equal(t, "RegionY", report.Regional)
	assert.Equal(t, 1, report.Metrics.TotalCur)
	assert.Equal(t, 0, report.Metrics.TotalPrev, "RegionY had no tickets on day one")
	require.Len(t, report.Regions, 2)
	assert.Equal(t, "RegionY", report.Regions[0].Regional)
	assert.Empty(t, report.Changes, "T1 belongs to RegionX")
}

func TestDashboard_FirstUploadIsBaseline(t *testing.T) {
	store := snapshot.NewMemoryStore()
	_, err := store.Put(context.Background(), &domain.Snapshot{Hash: "h1", Tickets: dayOne()})
	require.NoError(t, err)
	svc := newTestReportService(t, store)

	report, err := svc.Dashboard(context.Background(), "")
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.True(t, report.Metrics.Baseline)
	assert.Zero(t, report.Metrics.Added)
}

func TestRegions_DistinctSorted(t *testing.T) {
	store := snapshot.NewMemoryStore()
	seedTwoDays(t, store)
	svc := newTestReportService(t, store)

	regions, err := svc.Regions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"RegionX", "RegionY"}, regions)
}

func TestExportXLSX_TwoSheets(t *testing.T) {
	store := snapshot.NewMemoryStore()
	seedTwoDays(t, store)
	svc := newTestReportService(t, store)

	payload, err := svc.ExportXLSX(context.Background(), "")
	require.NoError(t, err)
	require.NotNil(t, payload)

	f, err := excelize.OpenReader(bytes.NewReader(payload))
	require.NoError(t, err)
	defer f.Close()
	assert.ElementsMatch(t, []string{"Regional", "Witel"}, f.GetSheetList())

	rows, err := f.GetRows("Regional")
	require.NoError(t, err)
	// Header + RegionX + RegionY + Grand Total.
	assert.Len(t, rows, 4)
}
