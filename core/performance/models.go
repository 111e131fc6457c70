package performance

import (
	"time"

	"github.com/bestroofingnow/RoofingTrainer/core"
)

// Snapshot is one day's recorded performance metrics for a user.
// One row exists per user per day; rows are created by explicit save and
// never mutated.
type Snapshot struct {
	ID                   int       `json:"id"`
	UserID               string    `json:"user_id"`
	Date                 time.Time `json:"date"`
	DailyDials           int       `json:"daily_dials"`
	ContactRate          float64   `json:"contact_rate"`            // percentage
	InspectionsSet       int       `json:"inspections_set"`
	InspectionToDealRate float64   `json:"inspection_to_deal_rate"` // percentage
	CreatedAt            time.Time `json:"created_at"`              // UTC
}

// NewSnapshot contains a day's self-reported numbers.
type NewSnapshot struct {
	Date                 time.Time `json:"date"`
	DailyDials           int       `json:"daily_dials" validate:"gte=0"`
	ContactRate          float64   `json:"contact_rate" validate:"gte=0,lte=100"`
	InspectionsSet       int       `json:"inspections_set" validate:"gte=0"`
	InspectionToDealRate float64   `json:"inspection_to_deal_rate" validate:"gte=0,lte=100"`
}

func (ns *NewSnapshot) Validate() error {
	return core.Validate.Struct(ns)
}
