package training

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/bestroofingnow/RoofingTrainer/core"
	"github.com/bestroofingnow/RoofingTrainer/core/user"
)

var (
	// errors
	ErrModuleNotFound   = errors.New("training module not found")
	ErrQuizNotFound     = errors.New("quiz not found")
	ErrScriptNotFound   = errors.New("script not found")
	ErrProgressNotFound = errors.New("module progress not found")

	errNoQuestions      = errors.New("quiz has no questions")
	errTooManyAnswers   = errors.New("more answers than questions")
	errAnswerOutOfRange = errors.New("answer index out of option range")
)

type (
	// Repository mirrors the relational schema: catalog reads, append-only
	// attempts, upserted progress and the script library.
	Repository interface {
		QueryAllModules(ctx context.Context) ([]Module, error)
		GetModuleByID(ctx context.Context, id int) (Module, error)
		CreateModule(ctx context.Context, mod Module) (Module, error)

		QueryQuizzesByModule(ctx context.Context, moduleID int) ([]Quiz, error)
		GetQuizByID(ctx context.Context, id int) (Quiz, error)
		CreateQuiz(ctx context.Context, qz Quiz) (Quiz, error)

		// QueryQuestionsByQuiz returns questions ordered by their order index.
		QueryQuestionsByQuiz(ctx context.Context, quizID int) ([]Question, error)
		CreateQuestion(ctx context.Context, q Question) (Question, error)

		CreateAttempt(ctx context.Context, att Attempt) (Attempt, error)
		// QueryAttempts returns a user's attempts for a quiz, newest first.
		QueryAttempts(ctx context.Context, userID string, quizID int) ([]Attempt, error)

		GetProgress(ctx context.Context, userID string, moduleID int) (Progress, error)
		QueryProgressByUser(ctx context.Context, userID string) ([]Progress, error)
		// UpsertProgress inserts the row or updates it in place, keyed on
		// (user_id, module_id), using the storage layer's atomic upsert.
		UpsertProgress(ctx context.Context, prog Progress) (Progress, error)

		QueryScripts(ctx context.Context) ([]Script, error)
		QueryScriptsByCategory(ctx context.Context, category string) ([]Script, error)
		CreateScript(ctx context.Context, scr Script) (Script, error)
	}

	// UserDirectory resolves user IDs to notification recipients.
	UserDirectory interface {
		GetByID(ctx context.Context, id string) (user.User, error)
	}

	Service struct {
		repo    Repository
		users   UserDirectory
		mailSvc core.EmailService
		conf    core.TrainingConfig
	}
)

func NewService(repo Repository, users UserDirectory, mailSvc core.EmailService) *Service {
	return &Service{
		repo:    repo,
		users:   users,
		mailSvc: mailSvc,
		conf:    core.Conf.Training,
	}
}

// Catalog

func (svc *Service) Modules(ctx context.Context) ([]Module, error) {
	return svc.repo.QueryAllModules(ctx)
}

func (svc *Service) GetModule(ctx context.Context, id int) (Module, error) {
	return svc.repo.GetModuleByID(ctx, id)
}

func (svc *Service) QuizzesByModule(ctx context.Context, moduleID int) ([]Quiz, error) {
	if _, err := svc.repo.GetModuleByID(ctx, moduleID); err != nil {
		return nil, err
	}
	return svc.repo.QueryQuizzesByModule(ctx, moduleID)
}

func (svc *Service) GetQuiz(ctx context.Context, id int) (Quiz, error) {
	return svc.repo.GetQuizByID(ctx, id)
}

// Questions returns a quiz's questions in their authored order.
func (svc *Service) Questions(ctx context.Context, quizID int) ([]Question, error) {
	if _, err := svc.repo.GetQuizByID(ctx, quizID); err != nil {
		return nil, err
	}
	return svc.repo.QueryQuestionsByQuiz(ctx, quizID)
}

// Attempts

// PassingScore returns the quiz's effective passing score.
func (svc *Service) PassingScore(qz Quiz) int {
	if qz.PassingScore > 0 {
		return qz.PassingScore
	}
	return svc.conf.DefaultPassingScore
}

// TimeLimit returns the quiz's effective time budget in minutes. The budget is
// cooperative: the caller's clock triggers submission, possibly with a partial
// answer sheet.
func (svc *Service) TimeLimit(qz Quiz) int {
	if qz.TimeLimit > 0 {
		return qz.TimeLimit
	}
	return svc.conf.DefaultTimeLimit
}

// SubmitAttempt scores a finalized answer sheet and appends one immutable
// Attempt to the user's history. Unanswered questions (nil entries, or a sheet
// shorter than the quiz) never count as correct. A quiz with no questions is
// rejected: an empty quiz is an authoring defect, not a 0% score.
func (svc *Service) SubmitAttempt(ctx context.Context, userID string, quizID int, sub AttemptSubmission) (Attempt, error) {
	qz, err := svc.repo.GetQuizByID(ctx, quizID)
	if err != nil {
		return Attempt{}, err
	}
	questions, err := svc.repo.QueryQuestionsByQuiz(ctx, quizID)
	if err != nil {
		return Attempt{}, err
	}

	if len(questions) == 0 {
		return Attempt{}, core.NewValidationError(errNoQuestions, core.FieldError{Field: "quiz_id", Error: errNoQuestions.Error()})
	}
	if len(sub.Answers) > len(questions) {
		return Attempt{}, core.NewValidationError(errTooManyAnswers, core.FieldError{Field: "answers", Error: errTooManyAnswers.Error()})
	}
	for i, ans := range sub.Answers {
		if ans == nil {
			continue
		}
		if *ans < 0 || *ans >= len(questions[i].Options) {
			return Attempt{}, core.NewValidationError(
				errAnswerOutOfRange,
				core.FieldError{Field: fmt.Sprintf("answers[%d]", i), Error: errAnswerOutOfRange.Error()},
			)
		}
	}

	correct := countCorrect(questions, sub.Answers)
	score := roundPct(correct, len(questions))
	passed := score >= svc.PassingScore(qz)

	att := Attempt{
		UserID:    userID,
		QuizID:    quizID,
		Score:     score,
		Answers:   sub.Answers,
		Passed:    passed,
		TimeSpent: sub.TimeSpent,
		CreatedAt: time.Now().UTC(),
	}
	att, err = svc.repo.CreateAttempt(ctx, att)
	if err != nil {
		return Attempt{}, err
	}

	if passed {
		svc.sendPassedEmail(ctx, userID, qz, score)
	}
	return att, nil
}

func (svc *Service) Attempts(ctx context.Context, userID string, quizID int) ([]Attempt, error) {
	if _, err := svc.repo.GetQuizByID(ctx, quizID); err != nil {
		return nil, err
	}
	return svc.repo.QueryAttempts(ctx, userID, quizID)
}

func (svc *Service) sendPassedEmail(ctx context.Context, userID string, qz Quiz, score int) {
	if svc.mailSvc == nil || svc.users == nil {
		return
	}
	usr, err := svc.users.GetByID(ctx, userID)
	if err != nil || usr.Email == "" {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: usr.FullName(), Address: usr.Email}},
		Subject:      fmt.Sprintf("You passed: %s", qz.Title),
		TemplateName: "quiz-passed",
		TemplateData: struct {
			Name  string
			Quiz  string
			Score int
		}{usr.FirstName, qz.Title, score},
	})
}

// countCorrect counts the positions where the selected option index equals the
// question's correct option index.
func countCorrect(questions []Question, answers []*int) int {
	var correct int
	for i, q := range questions {
		if i < len(answers) && answers[i] != nil && *answers[i] == q.CorrectAnswer {
			correct++
		}
	}
	return correct
}

// roundPct returns round(100 * part / total) using round-half-up integer math.
func roundPct(part, total int) int {
	if total == 0 {
		return 0
	}
	return (200*part + total) / (2 * total)
}

// Progress

// UpsertProgress records a status change for (userID, moduleID): one row per
// pair, created on first touch and updated in place thereafter. updatedAt is
// always stamped; completedAt is stamped only on the transition into
// completed, and cleared when the module is reopened.
func (svc *Service) UpsertProgress(ctx context.Context, userID string, moduleID int, pu ProgressUpdate) (Progress, error) {
	if _, err := svc.repo.GetModuleByID(ctx, moduleID); err != nil {
		return Progress{}, err
	}

	now := time.Now().UTC()
	prog := Progress{
		UserID:    userID,
		ModuleID:  moduleID,
		Status:    pu.Status,
		Score:     pu.Score,
		TimeSpent: pu.TimeSpent,
		CreatedAt: now,
		UpdatedAt: now,
	}

	existing, err := svc.repo.GetProgress(ctx, userID, moduleID)
	switch err {
	case nil:
		prog.CreatedAt = existing.CreatedAt
		if pu.Score == nil {
			prog.Score = existing.Score
		}
		prog.TimeSpent = existing.TimeSpent + pu.TimeSpent
		if pu.Status == StatusCompleted {
			if existing.Status == StatusCompleted {
				prog.CompletedAt = existing.CompletedAt
			} else {
				prog.CompletedAt = now
			}
		}
	case ErrProgressNotFound:
		if pu.Status == StatusCompleted {
			prog.CompletedAt = now
		}
	default:
		return Progress{}, err
	}

	return svc.repo.UpsertProgress(ctx, prog)
}

func (svc *Service) ProgressByUser(ctx context.Context, userID string) ([]Progress, error) {
	return svc.repo.QueryProgressByUser(ctx, userID)
}

// ProgressSummary derives the program-level view: overall completion
// percentage and the day the trainee is currently on.
func (svc *Service) ProgressSummary(ctx context.Context, userID string) (ProgressSummary, error) {
	modules, err := svc.repo.QueryAllModules(ctx)
	if err != nil {
		return ProgressSummary{}, err
	}
	rows, err := svc.repo.QueryProgressByUser(ctx, userID)
	if err != nil {
		return ProgressSummary{}, err
	}

	completed := CompletedCount(rows)
	return ProgressSummary{
		TotalModules:     len(modules),
		CompletedModules: completed,
		OverallProgress:  OverallProgress(rows, len(modules)),
		CurrentDay:       CurrentDay(completed, svc.conf.ModulesPerDay, svc.conf.TotalDays),
		TotalDays:        svc.conf.TotalDays,
	}, nil
}

// CompletedCount counts rows whose status is completed.
func CompletedCount(rows []Progress) int {
	var n int
	for _, row := range rows {
		if row.Status == StatusCompleted {
			n++
		}
	}
	return n
}

// OverallProgress returns round(100 * completed / totalModules).
// A catalog with no modules yields 0.
func OverallProgress(rows []Progress, totalModules int) int {
	if totalModules <= 0 {
		return 0
	}
	return roundPct(CompletedCount(rows), totalModules)
}

// CurrentDay maps modules completed to the day the trainee is on:
// min(completed/modulesPerDay + 1, totalDays).
func CurrentDay(completedModules, modulesPerDay, totalDays int) int {
	if modulesPerDay <= 0 {
		modulesPerDay = 1
	}
	day := completedModules/modulesPerDay + 1
	if day > totalDays {
		day = totalDays
	}
	return day
}

// Scripts

func (svc *Service) Scripts(ctx context.Context, category string) ([]Script, error) {
	if category == "" {
		return svc.repo.QueryScripts(ctx)
	}
	return svc.repo.QueryScriptsByCategory(ctx, core.CleanString(category, true /* lower */))
}

func (svc *Service) CreateScript(ctx context.Context, ns NewScript) (Script, error) {
	now := time.Now().UTC()
	scr := Script{
		Title:     ns.Title,
		Category:  ns.Category,
		Content:   ns.Content,
		AudioURL:  ns.AudioURL,
		Tags:      ns.Tags,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateScript(ctx, scr)
}
