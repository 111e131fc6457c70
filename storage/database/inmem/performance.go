package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/bestroofingnow/RoofingTrainer/core/performance"
)

type performanceRepository struct {
	db *snapshotTable
}

var _ performance.Repository = (*performanceRepository)(nil) // interface compliance check

func NewPerformanceRepository(db *DB) *performanceRepository {
	return &performanceRepository{db: db.performance}
}

func (repo *performanceRepository) CreateSnapshot(ctx context.Context, snap performance.Snapshot) (performance.Snapshot, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, existing := range repo.db.table {
		if existing.UserID == snap.UserID && existing.Date.Equal(snap.Date) {
			return performance.Snapshot{}, performance.ErrSnapshotExists
		}
	}
	repo.db.pkCount++
	snap.ID = repo.db.pkCount
	snap.CreatedAt = time.Now().UTC()
	repo.db.table[snap.ID] = &snap
	return snap, nil
}

func (repo *performanceRepository) QuerySnapshots(ctx context.Context, userID string, from, to time.Time) ([]performance.Snapshot, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	snapshots := make([]performance.Snapshot, 0)
	for _, snap := range repo.db.table {
		if snap.UserID != userID || snap.Date.Before(from) {
			continue
		}
		if !to.IsZero() && snap.Date.After(to) {
			continue
		}
		snapshots = append(snapshots, *snap)
	}
	sort.Slice(snapshots, func(i, j int) bool { return snapshots[i].Date.After(snapshots[j].Date) })
	return snapshots, nil
}
