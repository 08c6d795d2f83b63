package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/idrefz/deltaboard/internal/domain"
	"github.com/idrefz/deltaboard/internal/snapshot"
)

// SnapshotRepository is the Postgres-backed snapshot.Store. Snapshots
// and their tickets are written in one transaction; the upload_history
// table is append-only.
type SnapshotRepository struct {
	pool *pgxpool.Pool
}

var _ snapshot.Store = (*SnapshotRepository)(nil)

// NewSnapshotRepository instantiates the repository.
func NewSnapshotRepository(pool *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{pool: pool}
}

func (r *SnapshotRepository) Put(ctx context.Context, snap *domain.Snapshot) (string, error) {
	if snap.Version == "" {
		snap.Version = uuid.NewString()
	}
	if snap.UploadedAt.IsZero() {
		snap.UploadedAt = time.Now().UTC()
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var snapshotID int64
	const insertSnapshot = `
        INSERT INTO snapshots (version, content_hash, file_name, uploaded_at)
        VALUES ($1,$2,$3,$4)
        RETURNING id`
	if err := tx.QueryRow(ctx, insertSnapshot,
		snap.Version, snap.Hash, snap.FileName, snap.UploadedAt,
	).Scan(&snapshotID); err != nil {
		return "", fmt.Errorf("insert snapshot: %w", err)
	}

	rows := make([][]any, 0, len(snap.Tickets))
	for _, t := range snap.Tickets {
		rows = append(rows, []any{snapshotID, t.ID, t.Regional, t.Witel, t.Datel, t.Project, string(t.Status), t.Ports})
	}
	if _, err := tx.CopyFrom(ctx,
		pgx.Identifier{"snapshot_tickets"},
		[]string{"snapshot_id", "ticket_id", "regional", "witel", "datel", "project", "status", "ports"},
		pgx.CopyFromRows(rows),
	); err != nil {
		return "", fmt.Errorf("copy tickets: %w", err)
	}

	const insertHistory = `
        INSERT INTO upload_history (uploaded_at, content_hash, version)
        VALUES ($1,$2,$3)`
	if _, err := tx.Exec(ctx, insertHistory, snap.UploadedAt, snap.Hash, snap.Version); err != nil {
		return "", fmt.Errorf("append upload history: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return snap.Version, nil
}

func (r *SnapshotRepository) Latest(ctx context.Context) (*domain.Snapshot, error) {
	return r.fetchByOffset(ctx, 0)
}

func (r *SnapshotRepository) Previous(ctx context.Context) (*domain.Snapshot, error) {
	return r.fetchByOffset(ctx, 1)
}

func (r *SnapshotRepository) fetchByOffset(ctx context.Context, offset int) (*domain.Snapshot, error) {
	const query = `
        SELECT id, version, content_hash, file_name, uploaded_at
        FROM snapshots ORDER BY id DESC LIMIT 1 OFFSET $1`

	var (
		id   int64
		snap domain.Snapshot
	)
	err := r.pool.QueryRow(ctx, query, offset).Scan(&id, &snap.Version, &snap.Hash, &snap.FileName, &snap.UploadedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	tickets, err := r.fetchTickets(ctx, id)
	if err != nil {
		return nil, err
	}
	snap.Tickets = tickets
	return &snap, nil
}

func (r *SnapshotRepository) fetchTickets(ctx context.Context, snapshotID int64) ([]domain.Ticket, error) {
	const query = `
        SELECT ticket_id, regional, witel, datel, project, status, ports
        FROM snapshot_tickets WHERE snapshot_id=$1 ORDER BY ticket_id`

	rows, err := r.pool.Query(ctx, query, snapshotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []domain.Ticket
	for rows.Next() {
		var (
			t      domain.Ticket
			status string
		)
		if err := rows.Scan(&t.ID, &t.Regional, &t.Witel, &t.Datel, &t.Project, &status, &t.Ports); err != nil {
			return nil, err
		}
		t.Status = domain.Status(status)
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

func (r *SnapshotRepository) History(ctx context.Context) ([]domain.UploadEntry, error) {
	const query = `
        SELECT uploaded_at, content_hash, version
        FROM upload_history ORDER BY id ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.UploadEntry
	for rows.Next() {
		var entry domain.UploadEntry
		if err := rows.Scan(&entry.UploadedAt, &entry.Hash, &entry.Version); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *SnapshotRepository) LastHash(ctx context.Context) (string, error) {
	const query = `SELECT content_hash FROM upload_history ORDER BY id DESC LIMIT 1`

	var hash string
	err := r.pool.QueryRow(ctx, query).Scan(&hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return hash, nil
}
