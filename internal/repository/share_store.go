package repository

import (
	"context"
	"time"

	"github.com/noah-isme/register-share-api/internal/models"
)

// ShareStore persists published class snapshots keyed by share code.
//
// Update is the single mutation point for existing entries: each backend
// runs the mutator under per-code serialization (row lock, optimistic
// transaction or process mutex), so concurrent writers to the same code can
// no longer lose each other's field changes through whole-document
// read-modify-write.
type ShareStore interface {
	// Put stores a full snapshot under the code, overwriting any entry.
	Put(ctx context.Context, code string, snap *models.ShareSnapshot) error
	// Get returns the snapshot or pkg/errors.ErrNotFound.
	Get(ctx context.Context, code string) (*models.ShareSnapshot, error)
	// Update loads the entry, applies mutate and writes the result back
	// atomically with respect to other Update calls on the same code.
	// Errors returned by mutate abort the write and surface unchanged.
	Update(ctx context.Context, code string, mutate func(*models.ShareSnapshot) error) error
	// Delete removes the entry. Deleting an absent code is not an error.
	Delete(ctx context.Context, code string) error
	// PurgeExpired removes entries shared before the cutoff and reports how
	// many were dropped. Backends with native expiry may return (0, nil).
	PurgeExpired(ctx context.Context, olderThan time.Time) (int, error)
}
