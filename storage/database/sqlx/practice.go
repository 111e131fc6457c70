package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/bestroofingnow/RoofingTrainer/core/practice"
)

type recordingRow struct {
	ID        int         `db:"id"`
	UserID    string      `db:"user_id"`
	Scenario  string      `db:"scenario"`
	AudioURL  null.String `db:"audio_url"`
	Score     null.Int    `db:"score"`
	Feedback  null.String `db:"feedback"`
	Duration  null.Int    `db:"duration"`
	CreatedAt time.Time   `db:"created_at"`
}

type practiceRepository struct {
	db *sqlx.DB
}

var _ practice.Repository = (*practiceRepository)(nil) // interface compliance check

func NewPracticeRepository(db *sqlx.DB) *practiceRepository {
	return &practiceRepository{db: db}
}

func (repo practiceRepository) fromRow(row recordingRow) practice.Recording {
	return practice.Recording{
		ID:        row.ID,
		UserID:    row.UserID,
		Scenario:  row.Scenario,
		AudioURL:  row.AudioURL.String,
		Score:     row.Score.Ptr(),
		Feedback:  row.Feedback.String,
		Duration:  row.Duration.Int,
		CreatedAt: row.CreatedAt,
	}
}

func (repo practiceRepository) CreateRecording(ctx context.Context, rec practice.Recording) (practice.Recording, error) {
	query := `
		INSERT INTO practice_recording (user_id, scenario, audio_url, score, feedback, duration, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := repo.db.QueryRowxContext(ctx, query,
		rec.UserID, rec.Scenario, null.NewString(rec.AudioURL, rec.AudioURL != ""),
		null.IntFromPtr(rec.Score), null.NewString(rec.Feedback, rec.Feedback != ""),
		null.NewInt(rec.Duration, rec.Duration != 0), rec.CreatedAt.UTC(),
	).Scan(&rec.ID)
	if err != nil {
		return practice.Recording{}, errors.Wrap(err, "inserting recording")
	}
	return rec, nil
}

func (repo practiceRepository) QueryRecordings(ctx context.Context, userID string) ([]practice.Recording, error) {
	var rows []recordingRow
	query := `SELECT * FROM practice_recording WHERE user_id = $1 ORDER BY created_at DESC`
	if err := repo.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, errors.Wrap(err, "querying recordings")
	}
	recordings := make([]practice.Recording, 0, len(rows))
	for _, row := range rows {
		recordings = append(recordings, repo.fromRow(row))
	}
	return recordings, nil
}
