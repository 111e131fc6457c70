package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	. "github.com/bestroofingnow/RoofingTrainer/apps/api/echo"
	"github.com/bestroofingnow/RoofingTrainer/core"
	"github.com/bestroofingnow/RoofingTrainer/core/performance"
	"github.com/bestroofingnow/RoofingTrainer/core/practice"
	"github.com/bestroofingnow/RoofingTrainer/core/training"
	"github.com/bestroofingnow/RoofingTrainer/core/user"
	emailsvc "github.com/bestroofingnow/RoofingTrainer/services/email"
	logsvc "github.com/bestroofingnow/RoofingTrainer/services/logger"
	inmemdb "github.com/bestroofingnow/RoofingTrainer/storage/database/inmem"
)

const testPassword = "Str0ng&Secure"

var (
	usrRepo      user.Repository
	trainingRepo training.Repository

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
)

func setup(t *testing.T) Server {
	// error responses must use the production shape
	core.Conf.Debug = false
	core.Conf.TestMode = true

	// set up DB & repos
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	usrRepo = inmemdb.NewUserRepository(db)
	trainingRepo = inmemdb.NewTrainingRepository(db)

	// set up services
	mailSvc := emailsvc.NewConsoleServiceMock()
	usrSvc := user.NewService(usrRepo)

	logger := logsvc.NewConsoleLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags))
	logger.Enable(false)

	// set up server
	return NewServer(
		&Options{
			DisableReqLogs: true,
			Logger:         logger,
			SignalShutdown: func() {},
			UserSvc:        usrSvc,
			TrainingSvc:    training.NewService(trainingRepo, usrSvc, mailSvc),
			PerformanceSvc: performance.NewService(inmemdb.NewPerformanceRepository(db)),
			PracticeSvc:    practice.NewService(inmemdb.NewPracticeRepository(db)),
		},
	)
}

func createUser(t *testing.T, firstName, email, role string, isActive bool) user.User {
	t.Helper()
	now := time.Now().UTC()
	usr := user.User{
		Email:     email,
		FirstName: firstName,
		LastName:  "Doe",
		Role:      role,
		IsActive:  isActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(testPassword); err != nil {
		t.Fatalf("SetPassword() failed: %v", err)
	}
	usr, err := usrRepo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	return usr
}

func createModule(t *testing.T, day, orderIndex int, title string) training.Module {
	t.Helper()
	mod, err := trainingRepo.CreateModule(context.Background(), training.Module{
		Day:        day,
		Title:      title,
		OrderIndex: orderIndex,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("createModule() failed: %v", err)
	}
	return mod
}

// createQuiz creates a quiz with 4-option questions whose correct answers are
// the given option indexes.
func createQuiz(t *testing.T, moduleID, passingScore int, correctAnswers ...int) training.Quiz {
	t.Helper()
	ctx := context.Background()
	qz, err := trainingRepo.CreateQuiz(ctx, training.Quiz{
		ModuleID:     moduleID,
		Title:        "Knowledge Check",
		PassingScore: passingScore,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("createQuiz() failed: %v", err)
	}
	for i, correct := range correctAnswers {
		_, err := trainingRepo.CreateQuestion(ctx, training.Question{
			QuizID:        qz.ID,
			Question:      "Question?",
			Options:       []string{"A", "B", "C", "D"},
			CorrectAnswer: correct,
			OrderIndex:    i + 1,
		})
		if err != nil {
			t.Fatalf("createQuestion() failed: %v", err)
		}
	}
	return qz
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	claims := GetUserClaims(usr)
	token, err := GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

// nolint
func marchallList(t *testing.T, objs ...interface{}) []byte {
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
