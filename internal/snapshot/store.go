// Package snapshot defines the versioned snapshot store and its file
// and in-memory backends. The comparator and services depend on the
// Store interface only, never on filesystem paths.
package snapshot

import (
	"context"

	"github.com/idrefz/deltaboard/internal/domain"
)

// Store persists uploaded snapshots. Put supersedes the current
// snapshot without deleting it; the immediately prior one stays
// reachable through Previous for one-step delta comparison. Absence of
// a snapshot or of history is the normal first-run condition, reported
// as nil/empty rather than an error.
type Store interface {
	// Put stores snap as the new current snapshot and appends an
	// upload history entry. It assigns snap.Version when empty and
	// returns the version identifier.
	Put(ctx context.Context, snap *domain.Snapshot) (string, error)

	// Latest returns the current snapshot, or nil when none exists.
	Latest(ctx context.Context) (*domain.Snapshot, error)

	// Previous returns the snapshot superseded by the current one, or
	// nil when fewer than two uploads have happened.
	Previous(ctx context.Context) (*domain.Snapshot, error)

	// History returns the append-only upload log, oldest first.
	History(ctx context.Context) ([]domain.UploadEntry, error)

	// LastHash returns the content hash of the most recent upload, or
	// "" when the log is empty.
	LastHash(ctx context.Context) (string, error)
}
