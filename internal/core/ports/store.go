package ports

import "go.trai.ch/pkgdeps/internal/core/domain"

// SnapshotStore defines the interface for storing and retrieving resolution snapshots.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type SnapshotStore interface {
	// Get retrieves the snapshot stored under key.
	// Returns nil, nil if not found.
	Get(root, key string) (*domain.Snapshot, error)

	// Put stores the snapshot under its key.
	Put(root string, snapshot *domain.Snapshot) error
}
