package inmemdb

import (
	"context"
	"sort"

	"github.com/bestroofingnow/RoofingTrainer/core/training"
)

type trainingRepository struct {
	db *trainingTables
}

var _ training.Repository = (*trainingRepository)(nil) // interface compliance check

func NewTrainingRepository(db *DB) *trainingRepository {
	return &trainingRepository{db: db.training}
}

// Modules

func (repo *trainingRepository) QueryAllModules(ctx context.Context) ([]training.Module, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	modules := make([]training.Module, 0, len(repo.db.modules))
	for _, mod := range repo.db.modules {
		modules = append(modules, *mod)
	}
	sort.Slice(modules, func(i, j int) bool {
		if modules[i].Day != modules[j].Day {
			return modules[i].Day < modules[j].Day
		}
		return modules[i].OrderIndex < modules[j].OrderIndex
	})
	return modules, nil
}

func (repo *trainingRepository) GetModuleByID(ctx context.Context, id int) (training.Module, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if mod, ok := repo.db.modules[id]; ok {
		return *mod, nil
	}
	return training.Module{}, training.ErrModuleNotFound
}

func (repo *trainingRepository) CreateModule(ctx context.Context, mod training.Module) (training.Module, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	mod.ID = repo.db.nextPK()
	repo.db.modules[mod.ID] = &mod
	return mod, nil
}

// Quizzes

func (repo *trainingRepository) QueryQuizzesByModule(ctx context.Context, moduleID int) ([]training.Quiz, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	quizzes := make([]training.Quiz, 0)
	for _, qz := range repo.db.quizzes {
		if qz.ModuleID == moduleID {
			quizzes = append(quizzes, *qz)
		}
	}
	sort.Slice(quizzes, func(i, j int) bool { return quizzes[i].ID < quizzes[j].ID })
	return quizzes, nil
}

func (repo *trainingRepository) GetQuizByID(ctx context.Context, id int) (training.Quiz, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if qz, ok := repo.db.quizzes[id]; ok {
		return *qz, nil
	}
	return training.Quiz{}, training.ErrQuizNotFound
}

func (repo *trainingRepository) CreateQuiz(ctx context.Context, qz training.Quiz) (training.Quiz, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	qz.ID = repo.db.nextPK()
	repo.db.quizzes[qz.ID] = &qz
	return qz, nil
}

// Questions

func (repo *trainingRepository) QueryQuestionsByQuiz(ctx context.Context, quizID int) ([]training.Question, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	questions := make([]training.Question, 0)
	for _, q := range repo.db.questions {
		if q.QuizID == quizID {
			questions = append(questions, *q)
		}
	}
	sort.Slice(questions, func(i, j int) bool { return questions[i].OrderIndex < questions[j].OrderIndex })
	return questions, nil
}

func (repo *trainingRepository) CreateQuestion(ctx context.Context, q training.Question) (training.Question, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	q.ID = repo.db.nextPK()
	repo.db.questions[q.ID] = &q
	return q, nil
}

// Attempts

func (repo *trainingRepository) CreateAttempt(ctx context.Context, att training.Attempt) (training.Attempt, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	att.ID = repo.db.nextPK()
	repo.db.attempts[att.ID] = &att
	return att, nil
}

func (repo *trainingRepository) QueryAttempts(ctx context.Context, userID string, quizID int) ([]training.Attempt, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	attempts := make([]training.Attempt, 0)
	for _, att := range repo.db.attempts {
		if att.UserID == userID && att.QuizID == quizID {
			attempts = append(attempts, *att)
		}
	}
	sort.Slice(attempts, func(i, j int) bool {
		if attempts[i].CreatedAt.Equal(attempts[j].CreatedAt) {
			return attempts[i].ID > attempts[j].ID
		}
		return attempts[i].CreatedAt.After(attempts[j].CreatedAt)
	})
	return attempts, nil
}

// Progress

func (repo *trainingRepository) GetProgress(ctx context.Context, userID string, moduleID int) (training.Progress, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, prog := range repo.db.progress {
		if prog.UserID == userID && prog.ModuleID == moduleID {
			return *prog, nil
		}
	}
	return training.Progress{}, training.ErrProgressNotFound
}

func (repo *trainingRepository) QueryProgressByUser(ctx context.Context, userID string) ([]training.Progress, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	rows := make([]training.Progress, 0)
	for _, prog := range repo.db.progress {
		if prog.UserID == userID {
			rows = append(rows, *prog)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ModuleID < rows[j].ModuleID })
	return rows, nil
}

func (repo *trainingRepository) UpsertProgress(ctx context.Context, prog training.Progress) (training.Progress, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for id, existing := range repo.db.progress {
		if existing.UserID == prog.UserID && existing.ModuleID == prog.ModuleID {
			prog.ID = id
			prog.CreatedAt = existing.CreatedAt
			repo.db.progress[id] = &prog
			return prog, nil
		}
	}
	prog.ID = repo.db.nextPK()
	repo.db.progress[prog.ID] = &prog
	return prog, nil
}

// Scripts

func (repo *trainingRepository) queryScripts(match func(training.Script) bool) []training.Script {
	scripts := make([]training.Script, 0)
	for _, scr := range repo.db.scripts {
		if match(*scr) {
			scripts = append(scripts, *scr)
		}
	}
	sort.Slice(scripts, func(i, j int) bool {
		if scripts[i].Category != scripts[j].Category {
			return scripts[i].Category < scripts[j].Category
		}
		return scripts[i].Title < scripts[j].Title
	})
	return scripts
}

func (repo *trainingRepository) QueryScripts(ctx context.Context) ([]training.Script, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.queryScripts(func(training.Script) bool { return true }), nil
}

func (repo *trainingRepository) QueryScriptsByCategory(ctx context.Context, category string) ([]training.Script, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.queryScripts(func(scr training.Script) bool { return scr.Category == category }), nil
}

func (repo *trainingRepository) CreateScript(ctx context.Context, scr training.Script) (training.Script, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	scr.ID = repo.db.nextPK()
	repo.db.scripts[scr.ID] = &scr
	return scr, nil
}
