package snapshot

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/idrefz/deltaboard/internal/domain"
	"github.com/idrefz/deltaboard/internal/ingest"
)

const (
	latestFile  = "latest.xlsx"
	archiveDir  = "archive"
	historyFile = "uploads.log"
)

// FileStore keeps snapshots as flat xlsx files under one data
// directory: latest.xlsx for the current snapshot, archive/<hash>.xlsx
// for superseded ones, and uploads.log as the append-only history.
// Writes go through a temp file and an atomic rename, serialized by a
// mutex, so a concurrent reader never observes a partial file.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

// NewFileStore creates the data directory layout if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Join(dir, archiveDir), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Put(ctx context.Context, snap *domain.Snapshot) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if snap.Version == "" {
		snap.Version = uuid.NewString()
	}
	if snap.UploadedAt.IsZero() {
		snap.UploadedAt = time.Now().UTC()
	}

	payload, err := ingest.WriteWorkbook(snap.Tickets)
	if err != nil {
		return "", err
	}

	// Archive the current snapshot under its hash before replacing it.
	entries, err := s.readHistory()
	if err != nil {
		return "", err
	}
	latest := filepath.Join(s.dir, latestFile)
	if len(entries) > 0 {
		prevHash := entries[len(entries)-1].Hash
		archived := filepath.Join(s.dir, archiveDir, prevHash+".xlsx")
		if err := os.Rename(latest, archived); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("archive previous snapshot: %w", err)
		}
	}

	if err := writeAtomic(latest, payload); err != nil {
		return "", err
	}
	if err := s.appendHistory(domain.UploadEntry{
		UploadedAt: snap.UploadedAt,
		Hash:       snap.Hash,
		Version:    snap.Version,
	}); err != nil {
		return "", err
	}
	return snap.Version, nil
}

func (s *FileStore) Latest(ctx context.Context) (*domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.readHistory()
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return s.loadSnapshot(filepath.Join(s.dir, latestFile), entries[len(entries)-1])
}

func (s *FileStore) Previous(ctx context.Context) (*domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.readHistory()
	if err != nil {
		return nil, err
	}
	if len(entries) < 2 {
		return nil, nil
	}
	entry := entries[len(entries)-2]
	return s.loadSnapshot(filepath.Join(s.dir, archiveDir, entry.Hash+".xlsx"), entry)
}

func (s *FileStore) History(ctx context.Context) ([]domain.UploadEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readHistory()
}

func (s *FileStore) LastHash(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.readHistory()
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", nil
	}
	return entries[len(entries)-1].Hash, nil
}

func (s *FileStore) loadSnapshot(path string, entry domain.UploadEntry) (*domain.Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read snapshot file: %w", err)
	}
	ds, err := ingest.ParseWorkbook(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse stored snapshot %s: %w", filepath.Base(path), err)
	}
	return &domain.Snapshot{
		Version:    entry.Version,
		Hash:       entry.Hash,
		UploadedAt: entry.UploadedAt,
		Tickets:    ds.Tickets,
	}, nil
}

// readHistory parses uploads.log. A missing log is an empty history.
func (s *FileStore) readHistory() ([]domain.UploadEntry, error) {
	f, err := os.Open(filepath.Join(s.dir, historyFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open upload log: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse upload log: %w", err)
	}

	entries := make([]domain.UploadEntry, 0, len(records))
	for i, rec := range records {
		if len(rec) != 3 {
			return nil, fmt.Errorf("upload log line %d: want 3 fields, got %d", i+1, len(rec))
		}
		ts, err := time.Parse(time.RFC3339, rec[0])
		if err != nil {
			return nil, fmt.Errorf("upload log line %d: bad timestamp: %w", i+1, err)
		}
		entries = append(entries, domain.UploadEntry{UploadedAt: ts, Hash: rec[1], Version: rec[2]})
	}
	return entries, nil
}

func (s *FileStore) appendHistory(entry domain.UploadEntry) error {
	f, err := os.OpenFile(filepath.Join(s.dir, historyFile), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open upload log: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{entry.UploadedAt.Format(time.RFC3339), entry.Hash, entry.Version}); err != nil {
		return fmt.Errorf("append upload log: %w", err)
	}
	w.Flush()
	return w.Error()
}

func writeAtomic(path string, payload []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp snapshot: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}
