package repository

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/noah-isme/register-share-api/internal/models"
	appErrors "github.com/noah-isme/register-share-api/pkg/errors"
)

// MemoryShareStore keeps snapshots in process memory. It is the development
// default and the test double for the durable backends. Entries are stored
// as marshalled JSON so reads hand out independent copies.
type MemoryShareStore struct {
	mu      sync.Mutex
	entries map[string][]byte
}

// NewMemoryShareStore constructs an empty in-memory store.
func NewMemoryShareStore() *MemoryShareStore {
	return &MemoryShareStore{entries: make(map[string][]byte)}
}

// Put stores a snapshot under the code.
func (s *MemoryShareStore) Put(ctx context.Context, code string, snap *models.ShareSnapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[code] = raw
	return nil
}

// Get returns a copy of the stored snapshot.
func (s *MemoryShareStore) Get(ctx context.Context, code string) (*models.ShareSnapshot, error) {
	s.mu.Lock()
	raw, ok := s.entries[code]
	s.mu.Unlock()
	if !ok {
		return nil, appErrors.ErrNotFound
	}
	snap := &models.ShareSnapshot{}
	if err := json.Unmarshal(raw, snap); err != nil {
		return nil, err
	}
	snap.Normalize()
	return snap, nil
}

// Update applies mutate under the store mutex.
func (s *MemoryShareStore) Update(ctx context.Context, code string, mutate func(*models.ShareSnapshot) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.entries[code]
	if !ok {
		return appErrors.ErrNotFound
	}
	snap := &models.ShareSnapshot{}
	if err := json.Unmarshal(raw, snap); err != nil {
		return err
	}
	snap.Normalize()
	if err := mutate(snap); err != nil {
		return err
	}
	updated, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	s.entries[code] = updated
	return nil
}

// Delete removes an entry if present.
func (s *MemoryShareStore) Delete(ctx context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, code)
	return nil
}

// PurgeExpired drops entries shared before the cutoff.
func (s *MemoryShareStore) PurgeExpired(ctx context.Context, olderThan time.Time) (int, error) {
	cutoff := olderThan.UnixMilli()
	s.mu.Lock()
	defer s.mu.Unlock()

	purged := 0
	for code, raw := range s.entries {
		snap := &models.ShareSnapshot{}
		if err := json.Unmarshal(raw, snap); err != nil {
			continue
		}
		if snap.SharedAt > 0 && snap.SharedAt < cutoff {
			delete(s.entries, code)
			purged++
		}
	}
	return purged, nil
}
