package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/idrefz/deltaboard/internal/compare"
	"github.com/idrefz/deltaboard/internal/domain"
	"github.com/idrefz/deltaboard/internal/events"
	"github.com/idrefz/deltaboard/internal/ingest"
	"github.com/idrefz/deltaboard/internal/observability"
	"github.com/idrefz/deltaboard/internal/snapshot"
	apperrors "github.com/idrefz/deltaboard/pkg/util/errorutil"
)

// UploadService runs the upload pipeline: hash for duplicate
// detection, validate, diff against the previous snapshot, persist,
// publish events.
type UploadService struct {
	store      snapshot.Store
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// UploadDependencies bundles collaborators for the upload service.
type UploadDependencies struct {
	Store      snapshot.Store
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// UploadReport is the caller-facing outcome of one processed upload.
type UploadReport struct {
	Version     string
	Hash        string
	Duplicate   bool
	TicketCount int
	DroppedRows int
	Delta       *domain.DeltaResult
}

// NewUploadService constructs the service.
func NewUploadService(deps UploadDependencies) *UploadService {
	return &UploadService{
		store:      deps.Store,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
	}
}

// ProcessUpload ingests one uploaded workbook. A re-upload of
// byte-identical content is a no-op reported with Duplicate set; a
// validation failure blocks persistence and surfaces every reason.
func (s *UploadService) ProcessUpload(ctx context.Context, fileName string, raw []byte, actor string) (*UploadReport, error) {
	sum := sha256.Sum256(raw)
	hash := hex.EncodeToString(sum[:])

	lastHash, err := s.store.LastHash(ctx)
	if err != nil {
		return nil, err
	}
	if lastHash != "" && lastHash == hash {
		s.metrics.RecordUpload("duplicate")
		s.logger.Info("duplicate upload skipped", zap.String("hash", hash), zap.String("actor", actor))
		return &UploadReport{Hash: hash, Duplicate: true}, nil
	}

	ds, err := ingest.ParseWorkbook(bytes.NewReader(raw))
	if err != nil {
		s.metrics.RecordUpload("rejected")
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}
	if verdict := ingest.Validate(ds); !verdict.OK {
		s.metrics.RecordUpload("rejected")
		s.logger.Warn("upload rejected",
			zap.String("file", fileName),
			zap.Strings("reasons", verdict.Reasons))
		return nil, apperrors.NewValidationError("upload failed validation", map[string]any{
			"reasons": verdict.Reasons,
		})
	}

	previous, err := s.store.Latest(ctx)
	if err != nil {
		return nil, err
	}
	var prevTickets []domain.Ticket
	if previous != nil {
		prevTickets = previous.Tickets
	}
	delta := compare.Diff(prevTickets, ds.Tickets)

	snap := &domain.Snapshot{
		Hash:       hash,
		FileName:   fileName,
		UploadedAt: time.Now().UTC(),
		Tickets:    ds.Tickets,
	}
	version, err := s.store.Put(ctx, snap)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordUpload("persisted")
	s.logger.Info("snapshot persisted",
		zap.String("version", version),
		zap.String("hash", hash),
		zap.Int("tickets", len(ds.Tickets)),
		zap.Int("dropped_rows", ds.DroppedRows))

	s.publishEvents(ctx, snap, delta, actor)

	return &UploadReport{
		Version:     version,
		Hash:        hash,
		TicketCount: len(ds.Tickets),
		DroppedRows: ds.DroppedRows,
		Delta:       delta,
	}, nil
}

func (s *UploadService) publishEvents(ctx context.Context, snap *domain.Snapshot, delta *domain.DeltaResult, actor string) {
	if s.dispatcher == nil {
		return
	}
	now := time.Now().UTC()
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventSnapshotCreated,
		Actor:     actor,
		Timestamp: now,
		Payload: events.SnapshotCreatedPayload{
			Version:     snap.Version,
			Hash:        snap.Hash,
			FileName:    snap.FileName,
			TicketCount: len(snap.Tickets),
			Added:       delta.AddedCount(),
			Removed:     delta.RemovedCount(),
			Changed:     delta.ChangedCount(),
			Baseline:    delta.Baseline,
		},
	})
	for _, change := range delta.Changed {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventTicketStatusChanged,
			Actor:     actor,
			Timestamp: now,
			Payload: events.TicketStatusChangedPayload{
				TicketID:  change.TicketID,
				Regional:  change.Regional,
				Witel:     change.Witel,
				OldStatus: change.OldStatus,
				NewStatus: change.NewStatus,
				Ports:     change.Ports,
			},
		})
	}
}
