package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/idrefz/deltaboard/internal/aggregate"
	"github.com/idrefz/deltaboard/internal/compare"
	"github.com/idrefz/deltaboard/internal/domain"
	"github.com/idrefz/deltaboard/internal/persistence"
	"github.com/idrefz/deltaboard/internal/snapshot"
)

// ReportService derives dashboard views from the snapshot store. The
// delta is recomputed per request (it is never persisted); rendered
// reports are cached in Redis keyed by snapshot version and region
// filter, so the cache invalidates itself on every new upload.
type ReportService struct {
	store    snapshot.Store
	redis    *persistence.Redis
	cacheTTL time.Duration
	logger   *zap.Logger
}

// ReportDependencies bundles collaborators for the report service.
type ReportDependencies struct {
	Store    snapshot.Store
	Redis    *persistence.Redis
	CacheTTL time.Duration
	Logger   *zap.Logger
}

// MetricsBlock mirrors the headline counters of the dashboard.
type MetricsBlock struct {
	Baseline  bool `json:"baseline"`
	TotalPrev int  `json:"total_previous"`
	TotalCur  int  `json:"total_current"`
	Added     int  `json:"added"`
	Removed   int  `json:"removed"`
	Changed   int  `json:"changed"`
}

// DashboardReport is one rendered dashboard: headline metrics plus
// both summary tables, after the optional region filter.
type DashboardReport struct {
	Version    string                `json:"version"`
	Hash       string                `json:"hash"`
	UploadedAt time.Time             `json:"uploaded_at"`
	Regional   string                `json:"regional,omitempty"`
	Metrics    MetricsBlock          `json:"metrics"`
	Regions    []domain.SummaryRow   `json:"regions"`
	Witels     []domain.SummaryRow   `json:"witels"`
	Changes    []domain.StatusChange `json:"changes"`
}

// NewReportService constructs the service.
func NewReportService(deps ReportDependencies) *ReportService {
	return &ReportService{
		store:    deps.Store,
		redis:    deps.Redis,
		cacheTTL: deps.CacheTTL,
		logger:   deps.Logger,
	}
}

// Dashboard renders the current dashboard, or nil when no snapshot
// has been uploaded yet.
func (s *ReportService) Dashboard(ctx context.Context, regional string) (*DashboardReport, error) {
	latest, err := s.store.Latest(ctx)
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return nil, nil
	}

	cacheKey := fmt.Sprintf("deltaboard:dashboard:%s:%s", latest.Version, regional)
	if cached := s.cacheGet(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	previous, err := s.store.Previous(ctx)
	if err != nil {
		return nil, err
	}

	report := buildReport(latest, previous, regional)
	s.cacheSet(ctx, cacheKey, report)
	return report, nil
}

// Regions returns the distinct regions of the latest snapshot for the
// filter control. Empty before the first upload.
func (s *ReportService) Regions(ctx context.Context) ([]string, error) {
	latest, err := s.store.Latest(ctx)
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return nil, nil
	}
	return latest.Regions(), nil
}

// History returns the upload log, oldest first.
func (s *ReportService) History(ctx context.Context) ([]domain.UploadEntry, error) {
	return s.store.History(ctx)
}

func buildReport(latest, previous *domain.Snapshot, regional string) *DashboardReport {
	curTickets := domain.FilterRegion(latest.Tickets, regional)

	var prevTickets []domain.Ticket
	if previous != nil {
		prevTickets = domain.FilterRegion(previous.Tickets, regional)
	}
	delta := compare.Diff(prevTickets, curTickets)
	summary := aggregate.Summarize(curTickets, delta)

	changes := delta.Changed
	if changes == nil {
		changes = []domain.StatusChange{}
	}

	return &DashboardReport{
		Version:    latest.Version,
		Hash:       latest.Hash,
		UploadedAt: latest.UploadedAt,
		Regional:   regional,
		Metrics: MetricsBlock{
			Baseline:  delta.Baseline,
			TotalPrev: delta.PrevTotal,
			TotalCur:  delta.CurTotal,
			Added:     delta.AddedCount(),
			Removed:   delta.RemovedCount(),
			Changed:   delta.ChangedCount(),
		},
		Regions: summary.Regions,
		Witels:  summary.Witels,
		Changes: changes,
	}
}

func (s *ReportService) cacheGet(ctx context.Context, key string) *DashboardReport {
	if s.redis == nil || s.redis.Client == nil {
		return nil
	}
	raw, err := s.redis.Client.Get(ctx, key).Bytes()
	if err != nil {
		return nil
	}
	var report DashboardReport
	if err := json.Unmarshal(raw, &report); err != nil {
		s.logger.Warn("bad cached dashboard; ignoring", zap.String("key", key), zap.Error(err))
		return nil
	}
	return &report
}

func (s *ReportService) cacheSet(ctx context.Context, key string, report *DashboardReport) {
	if s.redis == nil || s.redis.Client == nil {
		return
	}
	raw, err := json.Marshal(report)
	if err != nil {
		return
	}
	if err := s.redis.Client.Set(ctx, key, raw, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("dashboard cache write failed", zap.String("key", key), zap.Error(err))
	}
}
