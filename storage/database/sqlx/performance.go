package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/bestroofingnow/RoofingTrainer/core/performance"
)

const pqUniqueViolationCode = "23505"

type snapshotRow struct {
	ID                   int       `db:"id"`
	UserID               string    `db:"user_id"`
	Date                 time.Time `db:"date"`
	DailyDials           int       `db:"daily_dials"`
	ContactRate          float64   `db:"contact_rate"`
	InspectionsSet       int       `db:"inspections_set"`
	InspectionToDealRate float64   `db:"inspection_to_deal_rate"`
	CreatedAt            time.Time `db:"created_at"`
}

type performanceRepository struct {
	db *sqlx.DB
}

var _ performance.Repository = (*performanceRepository)(nil) // interface compliance check

func NewPerformanceRepository(db *sqlx.DB) *performanceRepository {
	return &performanceRepository{db: db}
}

func (repo performanceRepository) fromRow(row snapshotRow) performance.Snapshot {
	return performance.Snapshot{
		ID:                   row.ID,
		UserID:               row.UserID,
		Date:                 row.Date,
		DailyDials:           row.DailyDials,
		ContactRate:          row.ContactRate,
		InspectionsSet:       row.InspectionsSet,
		InspectionToDealRate: row.InspectionToDealRate,
		CreatedAt:            row.CreatedAt,
	}
}

func (repo performanceRepository) CreateSnapshot(ctx context.Context, snap performance.Snapshot) (performance.Snapshot, error) {
	query := `
		INSERT INTO performance_snapshot (user_id, date, daily_dials, contact_rate, inspections_set, inspection_to_deal_rate, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		RETURNING id, created_at`
	err := repo.db.QueryRowxContext(ctx, query,
		snap.UserID, snap.Date.UTC(), snap.DailyDials, snap.ContactRate,
		snap.InspectionsSet, snap.InspectionToDealRate,
	).Scan(&snap.ID, &snap.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == pqUniqueViolationCode {
			return performance.Snapshot{}, performance.ErrSnapshotExists
		}
		return performance.Snapshot{}, errors.Wrap(err, "inserting snapshot")
	}
	return snap, nil
}

// QuerySnapshots treats zero from/to bounds as unbounded.
func (repo performanceRepository) QuerySnapshots(ctx context.Context, userID string, from, to time.Time) ([]performance.Snapshot, error) {
	if to.IsZero() {
		to = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)
	}
	var rows []snapshotRow
	query := `
		SELECT * FROM performance_snapshot
		WHERE user_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date DESC`
	if err := repo.db.SelectContext(ctx, &rows, query, userID, from.UTC(), to.UTC()); err != nil {
		return nil, errors.Wrap(err, "querying snapshots")
	}
	snapshots := make([]performance.Snapshot, 0, len(rows))
	for _, row := range rows {
		snapshots = append(snapshots, repo.fromRow(row))
	}
	return snapshots, nil
}
