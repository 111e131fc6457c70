package inmemdb

import (
	"context"
	"sort"

	"github.com/bestroofingnow/RoofingTrainer/core/practice"
)

type practiceRepository struct {
	db *recordingTable
}

var _ practice.Repository = (*practiceRepository)(nil) // interface compliance check

func NewPracticeRepository(db *DB) *practiceRepository {
	return &practiceRepository{db: db.practice}
}

func (repo *practiceRepository) CreateRecording(ctx context.Context, rec practice.Recording) (practice.Recording, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.pkCount++
	rec.ID = repo.db.pkCount
	repo.db.table[rec.ID] = &rec
	return rec, nil
}

func (repo *practiceRepository) QueryRecordings(ctx context.Context, userID string) ([]practice.Recording, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	recordings := make([]practice.Recording, 0)
	for _, rec := range repo.db.table {
		if rec.UserID == userID {
			recordings = append(recordings, *rec)
		}
	}
	sort.Slice(recordings, func(i, j int) bool {
		if recordings[i].CreatedAt.Equal(recordings[j].CreatedAt) {
			return recordings[i].ID > recordings[j].ID
		}
		return recordings[i].CreatedAt.After(recordings[j].CreatedAt)
	})
	return recordings, nil
}
