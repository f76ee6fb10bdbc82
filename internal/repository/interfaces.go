package repository

import (
	"context"
	"time"
)

// RecentDocument is one entry in the viewer's open history
type RecentDocument struct {
	Path          string    `json:"path"`
	Name          string    `json:"name"`
	SizeBytes     int64     `json:"sizeBytes"`
	OpenCount     int64     `json:"openCount"`
	FirstOpenedAt time.Time `json:"firstOpenedAt"`
	LastOpenedAt  time.Time `json:"lastOpenedAt"`
}

// RecentsRepository defines the interface for open-history persistence
type RecentsRepository interface {
	// RecordOpen inserts an entry for path, or bumps the open count and
	// recency of the existing one
	RecordOpen(ctx context.Context, path, name string, sizeBytes int64) error

	// ListRecent returns the history ordered by most recently opened first
	ListRecent(ctx context.Context) ([]RecentDocument, error)

	// Remove deletes the entry for path. Removing an unknown path is a no-op.
	Remove(ctx context.Context, path string) error

	// Clear empties the history
	Clear(ctx context.Context) error
}
