package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
	"github.com/volatiletech/sqlboiler/v4/types"

	"github.com/bestroofingnow/RoofingTrainer/core/training"
)

type (
	moduleRow struct {
		ID          int         `db:"id"`
		Day         int         `db:"day"`
		Title       string      `db:"title"`
		Description null.String `db:"description"`
		OrderIndex  int         `db:"order_index"`
		IsLocked    bool        `db:"is_locked"`
		VideoURL    null.String `db:"video_url"`
		Duration    null.Int    `db:"duration"`
		CreatedAt   time.Time   `db:"created_at"`
	}

	quizRow struct {
		ID           int         `db:"id"`
		ModuleID     int         `db:"module_id"`
		Title        string      `db:"title"`
		Description  null.String `db:"description"`
		PassingScore int         `db:"passing_score"`
		TimeLimit    null.Int    `db:"time_limit"`
		CreatedAt    time.Time   `db:"created_at"`
	}

	questionRow struct {
		ID            int         `db:"id"`
		QuizID        int         `db:"quiz_id"`
		Question      string      `db:"question"`
		Options       types.JSON  `db:"options"`
		CorrectAnswer int         `db:"correct_answer"`
		Explanation   null.String `db:"explanation"`
		OrderIndex    int         `db:"order_index"`
	}

	attemptRow struct {
		ID        int        `db:"id"`
		UserID    string     `db:"user_id"`
		QuizID    int        `db:"quiz_id"`
		Score     int        `db:"score"`
		Answers   types.JSON `db:"answers"`
		Passed    bool       `db:"passed"`
		TimeSpent null.Int   `db:"time_spent"`
		CreatedAt time.Time  `db:"created_at"`
	}

	progressRow struct {
		ID          int       `db:"id"`
		UserID      string    `db:"user_id"`
		ModuleID    int       `db:"module_id"`
		Status      string    `db:"status"`
		Score       null.Int  `db:"score"`
		CompletedAt null.Time `db:"completed_at"`
		TimeSpent   null.Int  `db:"time_spent"`
		CreatedAt   time.Time `db:"created_at"`
		UpdatedAt   time.Time `db:"updated_at"`
	}

	scriptRow struct {
		ID        int         `db:"id"`
		Title     string      `db:"title"`
		Category  string      `db:"category"`
		Content   string      `db:"content"`
		AudioURL  null.String `db:"audio_url"`
		Tags      null.JSON   `db:"tags"`
		CreatedAt time.Time   `db:"created_at"`
		UpdatedAt time.Time   `db:"updated_at"`
	}
)

type trainingRepository struct {
	db *sqlx.DB
}

var _ training.Repository = (*trainingRepository)(nil) // interface compliance check

func NewTrainingRepository(db *sqlx.DB) *trainingRepository {
	return &trainingRepository{db: db}
}

// trapNoRowsErr maps psql "no rows" err to the given sentinel
func (repo trainingRepository) trapNoRowsErr(err, notFound error, msg string) error {
	if err == sql.ErrNoRows {
		return notFound
	}
	return errors.Wrap(err, msg)
}

func mustJSON(v interface{}) types.JSON {
	data, err := json.Marshal(v)
	if err != nil {
		return types.JSON("null")
	}
	return data
}

// Modules

func (repo trainingRepository) fromModuleRow(row moduleRow) training.Module {
	return training.Module{
		ID:          row.ID,
		Day:         row.Day,
		Title:       row.Title,
		Description: row.Description.String,
		OrderIndex:  row.OrderIndex,
		IsLocked:    row.IsLocked,
		VideoURL:    row.VideoURL.String,
		Duration:    row.Duration.Int,
		CreatedAt:   row.CreatedAt,
	}
}

func (repo trainingRepository) QueryAllModules(ctx context.Context) ([]training.Module, error) {
	var rows []moduleRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM training_module ORDER BY day, order_index`); err != nil {
		return nil, errors.Wrap(err, "querying modules")
	}
	modules := make([]training.Module, 0, len(rows))
	for _, row := range rows {
		modules = append(modules, repo.fromModuleRow(row))
	}
	return modules, nil
}

func (repo trainingRepository) GetModuleByID(ctx context.Context, id int) (training.Module, error) {
	var row moduleRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM training_module WHERE id = $1`, id); err != nil {
		return training.Module{}, repo.trapNoRowsErr(err, training.ErrModuleNotFound, "finding module by ID")
	}
	return repo.fromModuleRow(row), nil
}

func (repo trainingRepository) CreateModule(ctx context.Context, mod training.Module) (training.Module, error) {
	query := `
		INSERT INTO training_module (day, title, description, order_index, is_locked, video_url, duration, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		RETURNING id, created_at`
	err := repo.db.QueryRowxContext(ctx, query,
		mod.Day, mod.Title, null.NewString(mod.Description, mod.Description != ""), mod.OrderIndex,
		mod.IsLocked, null.NewString(mod.VideoURL, mod.VideoURL != ""), null.NewInt(mod.Duration, mod.Duration != 0),
	).Scan(&mod.ID, &mod.CreatedAt)
	if err != nil {
		return training.Module{}, errors.Wrap(err, "inserting module")
	}
	return mod, nil
}

// Quizzes

func (repo trainingRepository) fromQuizRow(row quizRow) training.Quiz {
	return training.Quiz{
		ID:           row.ID,
		ModuleID:     row.ModuleID,
		Title:        row.Title,
		Description:  row.Description.String,
		PassingScore: row.PassingScore,
		TimeLimit:    row.TimeLimit.Int,
		CreatedAt:    row.CreatedAt,
	}
}

func (repo trainingRepository) QueryQuizzesByModule(ctx context.Context, moduleID int) ([]training.Quiz, error) {
	var rows []quizRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM quiz WHERE module_id = $1 ORDER BY id`, moduleID); err != nil {
		return nil, errors.Wrap(err, "querying quizzes")
	}
	quizzes := make([]training.Quiz, 0, len(rows))
	for _, row := range rows {
		quizzes = append(quizzes, repo.fromQuizRow(row))
	}
	return quizzes, nil
}

func (repo trainingRepository) GetQuizByID(ctx context.Context, id int) (training.Quiz, error) {
	var row quizRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM quiz WHERE id = $1`, id); err != nil {
		return training.Quiz{}, repo.trapNoRowsErr(err, training.ErrQuizNotFound, "finding quiz by ID")
	}
	return repo.fromQuizRow(row), nil
}

func (repo trainingRepository) CreateQuiz(ctx context.Context, qz training.Quiz) (training.Quiz, error) {
	query := `
		INSERT INTO quiz (module_id, title, description, passing_score, time_limit, created_at)
		VALUES ($1, $2, $3, $4, $5, now())
		RETURNING id, created_at`
	err := repo.db.QueryRowxContext(ctx, query,
		qz.ModuleID, qz.Title, null.NewString(qz.Description, qz.Description != ""),
		qz.PassingScore, null.NewInt(qz.TimeLimit, qz.TimeLimit != 0),
	).Scan(&qz.ID, &qz.CreatedAt)
	if err != nil {
		return training.Quiz{}, errors.Wrap(err, "inserting quiz")
	}
	return qz, nil
}

// Questions

func (repo trainingRepository) fromQuestionRow(row questionRow) (training.Question, error) {
	var options []string
	if err := json.Unmarshal(row.Options, &options); err != nil {
		return training.Question{}, errors.Wrap(err, "decoding question options")
	}
	return training.Question{
		ID:            row.ID,
		QuizID:        row.QuizID,
		Question:      row.Question,
		Options:       options,
		CorrectAnswer: row.CorrectAnswer,
		Explanation:   row.Explanation.String,
		OrderIndex:    row.OrderIndex,
	}, nil
}

func (repo trainingRepository) QueryQuestionsByQuiz(ctx context.Context, quizID int) ([]training.Question, error) {
	var rows []questionRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM quiz_question WHERE quiz_id = $1 ORDER BY order_index`, quizID); err != nil {
		return nil, errors.Wrap(err, "querying questions")
	}
	questions := make([]training.Question, 0, len(rows))
	for _, row := range rows {
		q, err := repo.fromQuestionRow(row)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func (repo trainingRepository) CreateQuestion(ctx context.Context, q training.Question) (training.Question, error) {
	query := `
		INSERT INTO quiz_question (quiz_id, question, options, correct_answer, explanation, order_index)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := repo.db.QueryRowxContext(ctx, query,
		q.QuizID, q.Question, mustJSON(q.Options), q.CorrectAnswer,
		null.NewString(q.Explanation, q.Explanation != ""), q.OrderIndex,
	).Scan(&q.ID)
	if err != nil {
		return training.Question{}, errors.Wrap(err, "inserting question")
	}
	return q, nil
}

// Attempts

func (repo trainingRepository) fromAttemptRow(row attemptRow) (training.Attempt, error) {
	var answers []*int
	if err := json.Unmarshal(row.Answers, &answers); err != nil {
		return training.Attempt{}, errors.Wrap(err, "decoding attempt answers")
	}
	return training.Attempt{
		ID:        row.ID,
		UserID:    row.UserID,
		QuizID:    row.QuizID,
		Score:     row.Score,
		Answers:   answers,
		Passed:    row.Passed,
		TimeSpent: row.TimeSpent.Int,
		CreatedAt: row.CreatedAt,
	}, nil
}

func (repo trainingRepository) CreateAttempt(ctx context.Context, att training.Attempt) (training.Attempt, error) {
	query := `
		INSERT INTO quiz_attempt (user_id, quiz_id, score, answers, passed, time_spent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := repo.db.QueryRowxContext(ctx, query,
		att.UserID, att.QuizID, att.Score, mustJSON(att.Answers), att.Passed,
		null.NewInt(att.TimeSpent, att.TimeSpent != 0), att.CreatedAt.UTC(),
	).Scan(&att.ID)
	if err != nil {
		return training.Attempt{}, errors.Wrap(err, "inserting attempt")
	}
	return att, nil
}

func (repo trainingRepository) QueryAttempts(ctx context.Context, userID string, quizID int) ([]training.Attempt, error) {
	var rows []attemptRow
	query := `SELECT * FROM quiz_attempt WHERE user_id = $1 AND quiz_id = $2 ORDER BY created_at DESC`
	if err := repo.db.SelectContext(ctx, &rows, query, userID, quizID); err != nil {
		return nil, errors.Wrap(err, "querying attempts")
	}
	attempts := make([]training.Attempt, 0, len(rows))
	for _, row := range rows {
		att, err := repo.fromAttemptRow(row)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, att)
	}
	return attempts, nil
}

// Progress

func (repo trainingRepository) fromProgressRow(row progressRow) training.Progress {
	return training.Progress{
		ID:          row.ID,
		UserID:      row.UserID,
		ModuleID:    row.ModuleID,
		Status:      row.Status,
		Score:       row.Score.Ptr(),
		CompletedAt: row.CompletedAt.Time,
		TimeSpent:   row.TimeSpent.Int,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func (repo trainingRepository) GetProgress(ctx context.Context, userID string, moduleID int) (training.Progress, error) {
	var row progressRow
	query := `SELECT * FROM user_progress WHERE user_id = $1 AND module_id = $2`
	if err := repo.db.GetContext(ctx, &row, query, userID, moduleID); err != nil {
		return training.Progress{}, repo.trapNoRowsErr(err, training.ErrProgressNotFound, "finding module progress")
	}
	return repo.fromProgressRow(row), nil
}

func (repo trainingRepository) QueryProgressByUser(ctx context.Context, userID string) ([]training.Progress, error) {
	var rows []progressRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM user_progress WHERE user_id = $1 ORDER BY module_id`, userID); err != nil {
		return nil, errors.Wrap(err, "querying user progress")
	}
	progress := make([]training.Progress, 0, len(rows))
	for _, row := range rows {
		progress = append(progress, repo.fromProgressRow(row))
	}
	return progress, nil
}

// UpsertProgress relies on the (user_id, module_id) unique constraint so two
// concurrent upserts resolve to last-writer-wins inside the database.
func (repo trainingRepository) UpsertProgress(ctx context.Context, prog training.Progress) (training.Progress, error) {
	query := `
		INSERT INTO user_progress (user_id, module_id, status, score, completed_at, time_spent, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, module_id) DO UPDATE
		SET status = EXCLUDED.status, score = EXCLUDED.score, completed_at = EXCLUDED.completed_at,
		    time_spent = EXCLUDED.time_spent, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at`
	err := repo.db.QueryRowxContext(ctx, query,
		prog.UserID, prog.ModuleID, prog.Status, null.IntFromPtr(prog.Score),
		null.NewTime(prog.CompletedAt.UTC(), !prog.CompletedAt.IsZero()),
		null.NewInt(prog.TimeSpent, prog.TimeSpent != 0),
		prog.CreatedAt.UTC(), prog.UpdatedAt.UTC(),
	).Scan(&prog.ID, &prog.CreatedAt)
	if err != nil {
		return training.Progress{}, errors.Wrap(err, "upserting module progress")
	}
	return prog, nil
}

// Scripts

func (repo trainingRepository) fromScriptRow(row scriptRow) (training.Script, error) {
	var tags []string
	if row.Tags.Valid {
		if err := json.Unmarshal(row.Tags.JSON, &tags); err != nil {
			return training.Script{}, errors.Wrap(err, "decoding script tags")
		}
	}
	return training.Script{
		ID:        row.ID,
		Title:     row.Title,
		Category:  row.Category,
		Content:   row.Content,
		AudioURL:  row.AudioURL.String,
		Tags:      tags,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

func (repo trainingRepository) queryScripts(ctx context.Context, query string, args ...interface{}) ([]training.Script, error) {
	var rows []scriptRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying scripts")
	}
	scripts := make([]training.Script, 0, len(rows))
	for _, row := range rows {
		scr, err := repo.fromScriptRow(row)
		if err != nil {
			return nil, err
		}
		scripts = append(scripts, scr)
	}
	return scripts, nil
}

func (repo trainingRepository) QueryScripts(ctx context.Context) ([]training.Script, error) {
	return repo.queryScripts(ctx, `SELECT * FROM script ORDER BY category, title`)
}

func (repo trainingRepository) QueryScriptsByCategory(ctx context.Context, category string) ([]training.Script, error) {
	return repo.queryScripts(ctx, `SELECT * FROM script WHERE category = $1 ORDER BY title`, category)
}

func (repo trainingRepository) CreateScript(ctx context.Context, scr training.Script) (training.Script, error) {
	var tags null.JSON
	if scr.Tags != nil {
		tags = null.JSONFrom(mustJSON(scr.Tags))
	}
	query := `
		INSERT INTO script (title, category, content, audio_url, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := repo.db.QueryRowxContext(ctx, query,
		scr.Title, scr.Category, scr.Content, null.NewString(scr.AudioURL, scr.AudioURL != ""),
		tags, scr.CreatedAt.UTC(), scr.UpdatedAt.UTC(),
	).Scan(&scr.ID)
	if err != nil {
		return training.Script{}, errors.Wrap(err, "inserting script")
	}
	return scr, nil
}
