package practice

import (
	"context"
	"time"
)

type (
	Repository interface {
		CreateRecording(ctx context.Context, rec Recording) (Recording, error)
		// QueryRecordings returns a user's recordings, newest first.
		QueryRecordings(ctx context.Context, userID string) ([]Recording, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) SaveRecording(ctx context.Context, userID string, nr NewRecording) (Recording, error) {
	rec := Recording{
		UserID:    userID,
		Scenario:  nr.Scenario,
		AudioURL:  nr.AudioURL,
		Score:     nr.Score,
		Feedback:  nr.Feedback,
		Duration:  nr.Duration,
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.CreateRecording(ctx, rec)
}

func (svc *Service) Recordings(ctx context.Context, userID string) ([]Recording, error) {
	return svc.repo.QueryRecordings(ctx, userID)
}
