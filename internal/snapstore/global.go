package snapstore

import (
	"fmt"
	"os"
	"sync"

	"github.com/churnlab/churnscope/internal/contract"
	"github.com/churnlab/churnscope/schema"
)

// Global store instance for main logic.
var (
	globalMu    sync.Mutex
	globalStore contract.SnapshotStore
	initOnce    sync.Once
	closeOnce   sync.Once
)

// InitStore initializes the global snapshot store.
func InitStore(backend schema.DatabaseBackend, connStr string) error {
	var initErr error

	initOnce.Do(func() {
		// This function body runs exactly once, even with concurrent calls.
		store, err := NewSnapshotStore(backend, connStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize snapshot store: %w", err)
			return
		}

		globalMu.Lock()
		globalStore = store
		globalMu.Unlock()
	})

	return initErr
}

// Store returns the global snapshot store, or nil before InitStore.
func Store() contract.SnapshotStore {
	globalMu.Lock()
	defer globalMu.Unlock()
	return globalStore
}

// CloseStore should be called on application shutdown.
func CloseStore() { // called in main defer
	closeOnce.Do(func() {
		globalMu.Lock()
		defer globalMu.Unlock()
		if globalStore != nil {
			_ = globalStore.Close()
		}
	})
}

// DropStorage removes the snapshot storage for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it clears the tables through the store.
// For NoneBackend, it does nothing.
func DropStorage(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		store, err := NewSnapshotStore(backend, connStr)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		return store.Clear()

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported backend for clearing: %s", backend)
	}
}
