package performance

import (
	"errors"
	"math"

	"github.com/bestroofingnow/RoofingTrainer/core"
)

// Trend directions
const (
	TrendUp      = "up"
	TrendDown    = "down"
	TrendNeutral = "neutral"
)

// Threshold bands
const (
	BandOnTarget    = "on_target"
	BandClose       = "close"
	BandBelowTarget = "below_target"
)

var errBadWindowSize = errors.New("window size must be positive")

// Trend is the movement of a metric against its prior period.
type Trend struct {
	Direction     string  `json:"direction"`
	PercentChange float64 `json:"percent_change"`
}

// Summary aggregates a rolling window of snapshots: count metrics are summed,
// rate metrics are averaged.
type Summary struct {
	Days                    int     `json:"days"` // snapshots actually covered
	TotalDials              int     `json:"total_dials"`
	AvgContactRate          float64 `json:"avg_contact_rate"`
	TotalInspections        int     `json:"total_inspections"`
	AvgInspectionToDealRate float64 `json:"avg_inspection_to_deal_rate"`
}

// ComputeTrend compares a metric to its prior-period value. A zero or absent
// prior period yields a neutral trend: there is nothing to move against.
func ComputeTrend(current, previous float64) Trend {
	if previous == 0 {
		return Trend{Direction: TrendNeutral, PercentChange: 0}
	}
	change := (current - previous) / previous * 100
	direction := TrendNeutral
	if current > previous {
		direction = TrendUp
	} else if current < previous {
		direction = TrendDown
	}
	return Trend{Direction: direction, PercentChange: math.Abs(change)}
}

// Classify places a metric value into a threshold band against its target:
// on_target at 100% of target or better, close at 80% or better, below_target
// otherwise. A zero target classifies as on_target: the metric is not being
// held to anything.
func Classify(value, target float64) string {
	if target == 0 {
		return BandOnTarget
	}
	ratio := value / target
	switch {
	case ratio >= 1.0:
		return BandOnTarget
	case ratio >= 0.8:
		return BandClose
	default:
		return BandBelowTarget
	}
}

// Summarize aggregates the most recent windowSize snapshots (snaps ordered
// newest first). Rate averages divide by the number of snapshots actually
// covered, so a short history is not deflated.
func Summarize(snaps []Snapshot, windowSize int) (Summary, error) {
	if windowSize <= 0 {
		return Summary{}, core.NewValidationError(errBadWindowSize, core.FieldError{Field: "window_size", Error: errBadWindowSize.Error()})
	}

	n := len(snaps)
	if windowSize < n {
		n = windowSize
	}
	if n == 0 {
		return Summary{}, nil
	}

	var sum Summary
	sum.Days = n
	var contactRate, dealRate float64
	for _, snap := range snaps[:n] {
		sum.TotalDials += snap.DailyDials
		sum.TotalInspections += snap.InspectionsSet
		contactRate += snap.ContactRate
		dealRate += snap.InspectionToDealRate
	}
	sum.AvgContactRate = contactRate / float64(n)
	sum.AvgInspectionToDealRate = dealRate / float64(n)
	return sum, nil
}
