package usecase

import (
	"sync/atomic"

	"ShowPulse/internal/domain/models"
)

// SnapshotStore holds the latest published snapshot behind an atomic pointer.
// Readers never block and always observe a complete snapshot or none at all;
// a rebuild publishes by swapping the pointer.
type SnapshotStore struct {
	current atomic.Pointer[models.Snapshot]
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

// Latest returns the current snapshot, nil before the first publish.
func (s *SnapshotStore) Latest() *models.Snapshot {
	return s.current.Load()
}

// Publish swaps in a new snapshot. The previous one stays valid for readers
// already holding it.
func (s *SnapshotStore) Publish(snap *models.Snapshot) {
	s.current.Store(snap)
}
