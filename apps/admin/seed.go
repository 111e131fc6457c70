package main

import (
	"context"
	"encoding/json"
	"io/fs"
	"time"

	"github.com/pkg/errors"

	"github.com/bestroofingnow/RoofingTrainer/core/training"
	appfs "github.com/bestroofingnow/RoofingTrainer/fs"
)

var curriculumFixture = "fixtures/curriculum.json"

type (
	questionFixture struct {
		Question      string   `json:"question"`
		Options       []string `json:"options"`
		CorrectAnswer int      `json:"correct_answer"`
		Explanation   string   `json:"explanation"`
	}

	quizFixture struct {
		Title        string            `json:"title"`
		Description  string            `json:"description"`
		PassingScore int               `json:"passing_score"`
		TimeLimit    int               `json:"time_limit"`
		Questions    []questionFixture `json:"questions"`
	}

	moduleFixture struct {
		Day         int           `json:"day"`
		Title       string        `json:"title"`
		Description string        `json:"description"`
		OrderIndex  int           `json:"order_index"`
		IsLocked    bool          `json:"is_locked"`
		VideoURL    string        `json:"video_url"`
		Duration    int           `json:"duration"`
		Quizzes     []quizFixture `json:"quizzes"`
	}

	scriptFixture struct {
		Title    string   `json:"title"`
		Category string   `json:"category"`
		Content  string   `json:"content"`
		Tags     []string `json:"tags"`
	}

	curriculumFixtureFile struct {
		Modules []moduleFixture `json:"modules"`
		Scripts []scriptFixture `json:"scripts"`
	}
)

// seed loads the embedded curriculum fixture. It refuses to run against a
// database that already holds modules.
func (cli *commandLine) seed() error {
	ctx := context.Background()

	existing, err := cli.trainingRepo.QueryAllModules(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return errors.New("database already seeded")
	}

	data, err := fs.ReadFile(appfs.FS, curriculumFixture)
	if err != nil {
		return errors.Wrap(err, "reading curriculum fixture")
	}
	var fixture curriculumFixtureFile
	if err := json.Unmarshal(data, &fixture); err != nil {
		return errors.Wrap(err, "decoding curriculum fixture")
	}

	for _, mf := range fixture.Modules {
		mod, err := cli.trainingRepo.CreateModule(ctx, training.Module{
			Day:         mf.Day,
			Title:       mf.Title,
			Description: mf.Description,
			OrderIndex:  mf.OrderIndex,
			IsLocked:    mf.IsLocked,
			VideoURL:    mf.VideoURL,
			Duration:    mf.Duration,
		})
		if err != nil {
			return errors.Wrapf(err, "seeding module %q", mf.Title)
		}

		for _, qf := range mf.Quizzes {
			qz, err := cli.trainingRepo.CreateQuiz(ctx, training.Quiz{
				ModuleID:     mod.ID,
				Title:        qf.Title,
				Description:  qf.Description,
				PassingScore: qf.PassingScore,
				TimeLimit:    qf.TimeLimit,
			})
			if err != nil {
				return errors.Wrapf(err, "seeding quiz %q", qf.Title)
			}

			for i, question := range qf.Questions {
				_, err := cli.trainingRepo.CreateQuestion(ctx, training.Question{
					QuizID:        qz.ID,
					Question:      question.Question,
					Options:       question.Options,
					CorrectAnswer: question.CorrectAnswer,
					Explanation:   question.Explanation,
					OrderIndex:    i + 1,
				})
				if err != nil {
					return errors.Wrapf(err, "seeding question %d of quiz %q", i+1, qf.Title)
				}
			}
		}
	}

	now := time.Now().UTC()
	for _, sf := range fixture.Scripts {
		_, err := cli.trainingRepo.CreateScript(ctx, training.Script{
			Title:     sf.Title,
			Category:  sf.Category,
			Content:   sf.Content,
			Tags:      sf.Tags,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return errors.Wrapf(err, "seeding script %q", sf.Title)
		}
	}

	logger.Printf("seeded %d modules and %d scripts\n", len(fixture.Modules), len(fixture.Scripts))
	return nil
}
