package practice

import (
	"time"

	"github.com/bestroofingnow/RoofingTrainer/core"
)

// Recording is one practice-call audio take with its review feedback.
type Recording struct {
	ID        int       `json:"id"`
	UserID    string    `json:"user_id"`
	Scenario  string    `json:"scenario"`
	AudioURL  string    `json:"audio_url"`
	Score     *int      `json:"score"`
	Feedback  string    `json:"feedback"`
	Duration  int       `json:"duration"` // seconds
	CreatedAt time.Time `json:"created_at"` // UTC
}

// NewRecording contains information needed to save a practice call.
type NewRecording struct {
	Scenario string `json:"scenario" validate:"required"`
	AudioURL string `json:"audio_url" validate:"omitempty,url"`
	Score    *int   `json:"score" validate:"omitempty,gte=0,lte=100"`
	Feedback string `json:"feedback"`
	Duration int    `json:"duration" validate:"omitempty,gte=0"` // seconds
}

func (nr *NewRecording) Validate() error {
	nr.Scenario = core.CleanString(nr.Scenario)
	return core.Validate.Struct(nr)
}
