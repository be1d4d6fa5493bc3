// Package backup exports and restores the whole entity store as a zip
// archive, so a shop can move its ledger between machines with one file.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/zip"

	"github.com/sokho/sokho/internal/store"
)

const (
	dataEntry     = "sokho-data.json"
	manifestEntry = "manifest.json"
)

// Manifest describes an exported archive.
type Manifest struct {
	Version    uint64    `json:"version"`
	ExportedAt time.Time `json:"exportedAt"`
}

// Service writes and reads backup archives.
type Service struct {
	store *store.Store
	now   func() time.Time
}

func NewService(st *store.Store) *Service {
	return &Service{store: st, now: func() time.Time { return time.Now().UTC() }}
}

// Write streams the current snapshot as a zip archive.
func (s *Service) Write(w io.Writer) error {
	data := s.store.Snapshot()
	archive := zip.NewWriter(w)

	manifest, err := archive.Create(manifestEntry)
	if err != nil {
		return fmt.Errorf("backup: create manifest: %w", err)
	}
	if err := json.NewEncoder(manifest).Encode(Manifest{
		Version:    s.store.Version(),
		ExportedAt: s.now(),
	}); err != nil {
		return fmt.Errorf("backup: encode manifest: %w", err)
	}

	payload, err := archive.Create(dataEntry)
	if err != nil {
		return fmt.Errorf("backup: create data entry: %w", err)
	}
	if err := json.NewEncoder(payload).Encode(data); err != nil {
		return fmt.Errorf("backup: encode data: %w", err)
	}

	if err := archive.Close(); err != nil {
		return fmt.Errorf("backup: close archive: %w", err)
	}
	return nil
}

// Restore replaces the whole store with the archive's content. The archive
// is validated in full before anything is swapped in; a malformed upload
// leaves the store untouched.
func (s *Service) Restore(ctx context.Context, r io.ReaderAt, size int64) error {
	archive, err := zip.NewReader(r, size)
	if err != nil {
		return fmt.Errorf("backup: open archive: %w", err)
	}

	var data store.Data
	found := false
	for _, entry := range archive.File {
		if entry.Name != dataEntry {
			continue
		}
		rc, err := entry.Open()
		if err != nil {
			return fmt.Errorf("backup: open data entry: %w", err)
		}
		err = json.NewDecoder(rc).Decode(&data)
		rc.Close()
		if err != nil {
			return fmt.Errorf("backup: decode data: %w", err)
		}
		found = true
		break
	}
	if !found {
		return fmt.Errorf("backup: archive has no %s entry", dataEntry)
	}
	return s.store.Replace(ctx, data)
}
