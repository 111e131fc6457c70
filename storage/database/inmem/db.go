package inmemdb

import (
	"sync"

	"github.com/bestroofingnow/RoofingTrainer/core/performance"
	"github.com/bestroofingnow/RoofingTrainer/core/practice"
	"github.com/bestroofingnow/RoofingTrainer/core/training"
	"github.com/bestroofingnow/RoofingTrainer/core/user"
)

// DB is a map-backed store used in tests and local demos.
type (
	DB struct {
		user        *userTable
		training    *trainingTables
		performance *snapshotTable
		practice    *recordingTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	trainingTables struct {
		sync.RWMutex
		modules   map[int]*training.Module
		quizzes   map[int]*training.Quiz
		questions map[int]*training.Question
		attempts  map[int]*training.Attempt
		progress  map[int]*training.Progress
		scripts   map[int]*training.Script
		pkCount   int
	}

	snapshotTable struct {
		sync.RWMutex
		table   map[int]*performance.Snapshot
		pkCount int
	}

	recordingTable struct {
		sync.RWMutex
		table   map[int]*practice.Recording
		pkCount int
	}
)

func Open() (*DB, error) {
	db := &DB{
		user: &userTable{table: make(map[string]*user.User)},
		training: &trainingTables{
			modules:   make(map[int]*training.Module),
			quizzes:   make(map[int]*training.Quiz),
			questions: make(map[int]*training.Question),
			attempts:  make(map[int]*training.Attempt),
			progress:  make(map[int]*training.Progress),
			scripts:   make(map[int]*training.Script),
		},
		performance: &snapshotTable{table: make(map[int]*performance.Snapshot)},
		practice:    &recordingTable{table: make(map[int]*practice.Recording)},
	}
	return db, nil
}

func (tbl *trainingTables) nextPK() int {
	tbl.pkCount++
	return tbl.pkCount
}
