package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/idrefz/deltaboard/internal/domain"
	"github.com/idrefz/deltaboard/internal/events"
	"github.com/idrefz/deltaboard/internal/ingest"
	"github.com/idrefz/deltaboard/internal/observability"
	"github.com/idrefz/deltaboard/internal/snapshot"
	apperrors "github.com/idrefz/deltaboard/pkg/util/errorutil"
)

func newTestUploadService(t *testing.T, store snapshot.Store, dispatcher events.Dispatcher) *UploadService {
	t.Helper()
	return NewUploadService(UploadDependencies{
		Store:      store,
		Dispatcher: dispatcher,
		Metrics:    observability.NewMetrics(),
		Logger:     zap.NewNop(),
	})
}

func workbookBytes(t *testing.T, tickets ...domain.Ticket) []byte {
	t.Helper()
	raw, err := ingest.WriteWorkbook(tickets)
	require.NoError(t, err)
	return raw
}

func dayOne() []domain.Ticket {
	return []domain.Ticket{
		{ID: "T1", Regional: "RegionX", Witel: "W1", Datel: "D1", Project: "P1", Status: domain.StatusOnGoing, Ports: 100},
		{ID: "T2", Regional: "RegionX", Witel: "W1", Datel: "D1", Project: "P2", Status: domain.StatusGoLive, Ports: 50},
	}
}

func dayTwo() []domain.Ticket {
	return []domain.Ticket{
		{ID: "T1", Regional: "RegionX", Witel: "W1", Datel: "D1", Project: "P1", Status: domain.StatusGoLive, Ports: 100},
		{ID: "T3", Regional: "RegionY", Witel: "W2", Datel: "D2", Project: "P3", Status: domain.StatusOnGoing, Ports: 30},
	}
}

func TestProcessUpload_FirstRunBaseline(t *testing.T) {
	store := snapshot.NewMemoryStore()
	svc := newTestUploadService(t, store, nil)

	report, err := svc.ProcessUpload(context.Background(), "day1.xlsx", workbookBytes(t, dayOne()...), "admin")
	require.NoError(t, err)

	assert.False(t, report.Duplicate)
	assert.NotEmpty(t, report.Version)
	assert.Equal(t, 2, report.TicketCount)
	require.True(t, report.Delta.Baseline)
	assert.Zero(t, report.Delta.AddedCount())
	assert.Zero(t, report.Delta.ChangedCount())

	latest, err := store.Latest(context.Background())
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Len(t, latest.Tickets, 2)
}

func TestProcessUpload_DayOverDayDelta(t *testing.T) {
	store := snapshot.NewMemoryStore()
	svc := newTestUploadService(t, store, nil)
	ctx := context.Background()

	_, err := svc.ProcessUpload(ctx, "day1.xlsx", workbookBytes(t, dayOne()...), "admin")
	require.NoError(t, err)
	report, err := svc.ProcessUpload(ctx, "day2.xlsx", workbookBytes(t, dayTwo()...), "admin")
	require.NoError(t, err)

	delta := report.Delta
	require.False(t, delta.Baseline)
	assert.Equal(t, []string{"T3"}, delta.Added)
	assert.Equal(t, []string{"T2"}, delta.Removed)
	require.Len(t, delta.Changed, 1)
	assert.Equal(t, "T1", delta.Changed[0].TicketID)
	assert.Equal(t, 100.0, delta.GoLivePortsByRegion["RegionX"])
	_, ok := delta.GoLivePortsByRegion["RegionY"]
	assert.False(t, ok)
}

func TestProcessUpload_DuplicateIsIdempotent(t *testing.T) {
	store := snapshot.NewMemoryStore()
	svc := newTestUploadService(t, store, nil)
	ctx := context.Background()

	raw := workbookBytes(t, dayOne()...)
	first, err := svc.ProcessUpload(ctx, "day1.xlsx", raw, "admin")
	require.NoError(t, err)

	second, err := svc.ProcessUpload(ctx, "day1-again.xlsx", raw, "admin")
	require.NoError(t, err)
	assert.True(t, second.Duplicate)
	assert.Equal(t, first.Hash, second.Hash)
	assert.Empty(t, second.Version, "duplicate upload must not mint a version")

	history, err := store.History(ctx)
	require.NoError(t, err)
	assert.Len(t, history, 1, "duplicate upload must not append history")
}

func TestProcessUpload_ValidationBlocksPersistence(t *testing.T) {
	store := snapshot.NewMemoryStore()
	svc := newTestUploadService(t, store, nil)
	ctx := context.Background()

	_, err := svc.ProcessUpload(ctx, "day1.xlsx", workbookBytes(t, dayOne()...), "admin")
	require.NoError(t, err)

	bad := workbookBytes(t,
		domain.Ticket{ID: "T9", Regional: "R", Witel: "W", Status: domain.StatusGoLive, Ports: 1},
		domain.Ticket{ID: "T9", Regional: "R", Witel: "W", Status: domain.StatusOnGoing, Ports: 2},
	)
	_, err = svc.ProcessUpload(ctx, "bad.xlsx", bad, "admin")
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)

	latest, err := store.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, len(latest.Tickets), "previous snapshot stays authoritative")
	history, err := store.History(ctx)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestProcessUpload_GarbageBytesRejected(t *testing.T) {
	svc := newTestUploadService(t, snapshot.NewMemoryStore(), nil)

	_, err := svc.ProcessUpload(context.Background(), "junk.bin", []byte("not a workbook"), "admin")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestProcessUpload_PublishesEvents(t *testing.T) {
	store := snapshot.NewMemoryStore()
	dispatcher := events.NewInMemoryDispatcher()

	var created []events.Event
	var changed []events.Event
	dispatcher.Subscribe(events.EventSnapshotCreated, func(ctx context.Context, e events.Event) error {
		created = append(created, e)
		return nil
	})
	dispatcher.Subscribe(events.EventTicketStatusChanged, func(ctx context.Context, e events.Event) error {
		changed = append(changed, e)
		return nil
	})

	svc := newTestUploadService(t, store, dispatcher)
	ctx := context.Background()

	_, err := svc.ProcessUpload(ctx, "day1.xlsx", workbookBytes(t, dayOne()...), "admin")
	require.NoError(t, err)
	_, err = svc.ProcessUpload(ctx, "day2.xlsx", workbookBytes(t, dayTwo()...), "admin")
	require.NoError(t, err)

	require.Len(t, created, 2)
	require.Len(t, changed, 1)
	payload, ok := changed[0].Payload.(events.TicketStatusChangedPayload)
	require.True(t, ok)
	assert.Equal(t, "T1", payload.TicketID)
	assert.Equal(t, domain.StatusGoLive, payload.NewStatus)
}
