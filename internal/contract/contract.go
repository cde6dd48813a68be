// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"github.com/churnlab/churnscope/schema"
)

// SnapshotStore defines the interface for persisting analysis snapshots.
// This allows the storage layer to be mocked for testing.
type SnapshotStore interface {
	// Save persists one snapshot with its customer detail rows and returns
	// the assigned snapshot ID.
	Save(snap schema.AnalysisSnapshot) (int64, error)

	// List returns recent snapshot summaries without customer details,
	// newest first, capped at limit. A non-empty owner restricts the
	// listing to that owner's snapshots.
	List(owner string, limit int) ([]schema.AnalysisSnapshot, error)

	// Get returns one snapshot with its customer detail rows, ordered by
	// best churn probability descending.
	Get(id int64) (schema.AnalysisSnapshot, error)

	// Prune deletes all but the keep most recent snapshots, including their
	// customer detail rows, and returns the number of snapshots removed.
	// A non-empty owner prunes only that owner's snapshots.
	Prune(owner string, keep int) (int64, error)

	// Clear deletes every snapshot and detail row.
	Clear() error

	// GetStatus returns status information about the snapshot store.
	GetStatus() (schema.StoreStatus, error)

	// Close closes the underlying connection.
	Close() error
}
