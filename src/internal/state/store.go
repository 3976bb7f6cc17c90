// Package state persists the last successfully committed configuration of
// every service as JSON files in the state directory.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/maksimkurb/hostconf/src/internal/errors"
	"github.com/maksimkurb/hostconf/src/internal/models"
)

// Record is the persisted form of a committed configuration.
type Record struct {
	Kind      models.ServiceKind `json:"kind"`
	ApplyID   string             `json:"applyId"`
	Checksum  string             `json:"checksum"`
	AppliedAt time.Time          `json:"appliedAt"`
	Config    json.RawMessage    `json:"config"`
}

// Store reads and writes one record file per service kind.
type Store struct {
	dir string
	mu  sync.RWMutex
}

// NewStore creates a store rooted at dir. The directory is created on first save.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) path(kind models.ServiceKind) string {
	return filepath.Join(s.dir, string(kind)+".json")
}

// Save persists cfg as the current configuration of its kind.
func (s *Store) Save(cfg *models.ServiceConfig, applyID, checksum string, appliedAt time.Time) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return errors.NewInternalError("failed to encode configuration", err)
	}

	data, err := json.MarshalIndent(Record{
		Kind:      cfg.Kind,
		ApplyID:   applyID,
		Checksum:  checksum,
		AppliedAt: appliedAt.UTC(),
		Config:    raw,
	}, "", "  ")
	if err != nil {
		return errors.NewInternalError("failed to encode state record", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return errors.NewIOError(fmt.Sprintf("failed to create state directory %s", s.dir), err)
	}

	// Write atomically
	path := s.path(cfg.Kind)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return errors.NewIOError(fmt.Sprintf("failed to write %s", tmpPath), err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return errors.NewIOError(fmt.Sprintf("failed to replace %s", path), err)
	}
	return nil
}

// Load returns the record of kind, or a NOT_FOUND error if none was saved.
func (s *Store) Load(kind models.ServiceKind) (*Record, *models.ServiceConfig, error) {
	s.mu.RLock()
	data, err := os.ReadFile(s.path(kind))
	s.mu.RUnlock()

	if os.IsNotExist(err) {
		return nil, nil, errors.NewNotFoundError(fmt.Sprintf("no configuration has been applied to %s yet", kind))
	}
	if err != nil {
		return nil, nil, errors.NewIOError(fmt.Sprintf("failed to read %s", s.path(kind)), err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, nil, errors.NewInternalError(fmt.Sprintf("corrupt state record for %s", kind), err)
	}
	cfg, err := models.DecodeServiceConfig(kind, rec.Config)
	if err != nil {
		return nil, nil, errors.NewInternalError(fmt.Sprintf("corrupt state record for %s", kind), err)
	}
	return &rec, cfg, nil
}
