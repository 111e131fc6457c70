package training

import (
	"time"

	"github.com/bestroofingnow/RoofingTrainer/core"
)

// Progress statuses
const (
	StatusNotStarted = "not_started"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Script categories
const (
	CategoryPostStorm           = "post_storm"
	CategoryAnnualWellness      = "annual_wellness"
	CategoryInsuranceAssistance = "insurance_assistance"
	CategoryGatekeepers         = "gatekeepers"
	CategoryVoicemail           = "voicemail"
)

var (
	AllStatuses   = []string{StatusNotStarted, StatusInProgress, StatusCompleted}
	AllCategories = []string{
		CategoryPostStorm,
		CategoryAnnualWellness,
		CategoryInsuranceAssistance,
		CategoryGatekeepers,
		CategoryVoicemail,
	}
)

// Module is one unit of training content within a numbered day of the program.
type Module struct {
	ID          int       `json:"id"`
	Day         int       `json:"day"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	OrderIndex  int       `json:"order_index"`
	IsLocked    bool      `json:"is_locked"`
	VideoURL    string    `json:"video_url"`
	Duration    int       `json:"duration"` // minutes
	CreatedAt   time.Time `json:"created_at"`
}

// Quiz is the knowledge check attached to a Module.
type Quiz struct {
	ID           int       `json:"id"`
	ModuleID     int       `json:"module_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	PassingScore int       `json:"passing_score"` // percentage; defaults to config when 0
	TimeLimit    int       `json:"time_limit"`    // minutes; defaults to config when 0
	CreatedAt    time.Time `json:"created_at"`
}

// Question belongs to exactly one Quiz; immutable once authored.
type Question struct {
	ID            int      `json:"id"`
	QuizID        int      `json:"quiz_id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
	OrderIndex    int      `json:"order_index"`
}

// Attempt is one scored submission of answers for a Quiz.
// Attempts are append-only: a user may hold any number of them per quiz and
// none is ever edited or deleted.
type Attempt struct {
	ID        int       `json:"id"`
	UserID    string    `json:"user_id"`
	QuizID    int       `json:"quiz_id"`
	Score     int       `json:"score"` // 0-100
	Answers   []*int    `json:"answers"`
	Passed    bool      `json:"passed"`
	TimeSpent int       `json:"time_spent"` // minutes
	CreatedAt time.Time `json:"created_at"` // UTC
}

// Progress is the per-user, per-module completion state.
// Exactly one row exists per (user, module) pair; it is upserted in place.
type Progress struct {
	ID          int       `json:"id"`
	UserID      string    `json:"user_id"`
	ModuleID    int       `json:"module_id"`
	Status      string    `json:"status"`
	Score       *int      `json:"score"`
	CompletedAt time.Time `json:"completed_at"` // UTC; zero unless Status == completed
	TimeSpent   int       `json:"time_spent"`   // minutes
	CreatedAt   time.Time `json:"created_at"`   // UTC
	UpdatedAt   time.Time `json:"updated_at"`   // UTC
}

// Script is one entry of the cold-call script library.
type Script struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	Content   string    `json:"content"`
	AudioURL  string    `json:"audio_url"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AttemptSubmission is a user's finalized answer sheet for a quiz.
// Answers[i] is the selected option index for question i in order_index order;
// a nil entry means the question was left unanswered. The slice may be shorter
// than the question count when the timer elapsed before the user got through
// the quiz; the tail counts as unanswered.
type AttemptSubmission struct {
	Answers   []*int `json:"answers" validate:"required"`
	TimeSpent int    `json:"time_spent" validate:"omitempty,gte=0"` // minutes
}

func (as *AttemptSubmission) Validate() error {
	return core.Validate.Struct(as)
}

// ProgressUpdate carries an upsert of a user's module progress. Transitions
// between statuses are free: a completed module may be reset to in_progress
// when the user reviews it.
type ProgressUpdate struct {
	Status    string `json:"status" validate:"required,progressstatus"`
	Score     *int   `json:"score" validate:"omitempty,gte=0,lte=100"`
	TimeSpent int    `json:"time_spent" validate:"omitempty,gte=0"` // minutes
}

func (pu *ProgressUpdate) Validate() error {
	return core.Validate.Struct(pu)
}

// ProgressSummary is the program-level view derived from a user's progress rows.
type ProgressSummary struct {
	TotalModules     int `json:"total_modules"`
	CompletedModules int `json:"completed_modules"`
	OverallProgress  int `json:"overall_progress"` // percentage
	CurrentDay       int `json:"current_day"`
	TotalDays        int `json:"total_days"`
}

// NewScript contains information needed to author a new Script.
type NewScript struct {
	Title    string   `json:"title" validate:"required"`
	Category string   `json:"category" validate:"required,scriptcategory"`
	Content  string   `json:"content" validate:"required"`
	AudioURL string   `json:"audio_url" validate:"omitempty,url"`
	Tags     []string `json:"tags"`
}

func (ns *NewScript) Validate() error {
	ns.Title = core.CleanString(ns.Title)
	ns.Category = core.CleanString(ns.Category, true /* lower */)
	return core.Validate.Struct(ns)
}
