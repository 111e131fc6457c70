package performance

import (
	"context"
	"errors"
	"time"

	"github.com/bestroofingnow/RoofingTrainer/core"
)

var (
	// errors
	ErrSnapshotExists = errors.New("a snapshot for this date already exists")
)

type (
	Repository interface {
		CreateSnapshot(ctx context.Context, snap Snapshot) (Snapshot, error)
		// QuerySnapshots returns a user's snapshots newest first, optionally
		// bounded by [from, to] (zero time means unbounded).
		QuerySnapshots(ctx context.Context, userID string, from, to time.Time) ([]Snapshot, error)
	}

	Service struct {
		repo Repository
		conf core.KPIConfig
	}

	// Metric is one KPI on the dashboard: its latest value, its target, the
	// band the value falls into, and its movement against the prior snapshot.
	Metric struct {
		Key    string  `json:"key"`
		Label  string  `json:"label"`
		Value  float64 `json:"value"`
		Target float64 `json:"target"`
		Band   string  `json:"band"`
		Trend  Trend   `json:"trend"`
	}

	Dashboard struct {
		Summary Summary  `json:"summary"`
		Metrics []Metric `json:"metrics"`
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo, conf: core.Conf.KPI}
}

// SaveSnapshot records one day's numbers. The date defaults to today (UTC);
// a second save for the same day is rejected, snapshots are never mutated.
func (svc *Service) SaveSnapshot(ctx context.Context, userID string, ns NewSnapshot) (Snapshot, error) {
	date := ns.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}
	snap := Snapshot{
		UserID:               userID,
		Date:                 date.UTC().Truncate(24 * time.Hour),
		DailyDials:           ns.DailyDials,
		ContactRate:          ns.ContactRate,
		InspectionsSet:       ns.InspectionsSet,
		InspectionToDealRate: ns.InspectionToDealRate,
		CreatedAt:            time.Now().UTC(),
	}
	snap, err := svc.repo.CreateSnapshot(ctx, snap)
	if err != nil {
		if err == ErrSnapshotExists {
			return Snapshot{}, core.NewValidationError(err, core.FieldError{Field: "date", Error: err.Error()})
		}
		return Snapshot{}, err
	}
	return snap, nil
}

func (svc *Service) Snapshots(ctx context.Context, userID string, from, to time.Time) ([]Snapshot, error) {
	return svc.repo.QuerySnapshots(ctx, userID, from, to)
}

// Dashboard assembles the KPI view: a rolling-window summary plus, for each
// metric, the latest value banded against its configured target and trended
// against the prior snapshot.
func (svc *Service) Dashboard(ctx context.Context, userID string) (Dashboard, error) {
	snaps, err := svc.repo.QuerySnapshots(ctx, userID, time.Time{}, time.Time{})
	if err != nil {
		return Dashboard{}, err
	}

	sum, err := Summarize(snaps, svc.conf.WindowSize)
	if err != nil {
		return Dashboard{}, err
	}

	var latest, previous Snapshot
	if len(snaps) > 0 {
		latest = snaps[0]
	}
	if len(snaps) > 1 {
		previous = snaps[1]
	}

	metrics := []Metric{
		svc.metric("daily_dials", "Daily Dials", float64(latest.DailyDials), float64(previous.DailyDials), svc.conf.DailyDialsTarget),
		svc.metric("contact_rate", "Contact Rate", latest.ContactRate, previous.ContactRate, svc.conf.ContactRateTarget),
		svc.metric("inspections_set", "Inspections Set", float64(latest.InspectionsSet), float64(previous.InspectionsSet), svc.conf.InspectionsSetTarget),
		svc.metric("inspection_to_deal_rate", "Inspection to Deal Rate", latest.InspectionToDealRate, previous.InspectionToDealRate, svc.conf.InspectionToDealRateTarget),
	}
	return Dashboard{Summary: sum, Metrics: metrics}, nil
}

func (svc *Service) metric(key, label string, value, previous, target float64) Metric {
	return Metric{
		Key:    key,
		Label:  label,
		Value:  value,
		Target: target,
		Band:   Classify(value, target),
		Trend:  ComputeTrend(value, previous),
	}
}
