package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/bestroofingnow/RoofingTrainer/core/practice"
	"github.com/bestroofingnow/RoofingTrainer/core/user"
)

func Test_practiceApi_recordings(t *testing.T) {
	app := setup(t)

	trainee := createUser(t, "Hero", "hero@test.com", user.RoleTrainee, true)
	other := createUser(t, "Zero", "zero@test.com", user.RoleTrainee, true)
	token := getToken(t, trainee)
	path := "/v1/practice/recordings"

	iPtr := func(i int) *int { return &i }
	recording := func(scenario string, score *int) []byte {
		return marchallObj(t, practice.NewRecording{
			Scenario: scenario,
			AudioURL: "https://cdn.test.com/takes/1.mp3",
			Score:    score,
			Feedback: "Good pace, slow down on the close.",
			Duration: 95,
		})
	}

	tests := []httpTest{
		{name: "Auth required", method: http.MethodPost, path: path, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Scenario required", method: http.MethodPost, path: path, token: token,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"scenario": "this field is required"}),
		},
		{
			name: "Score out of range", method: http.MethodPost, path: path, token: token,
			body:     recording("Post-storm door knock", iPtr(120)),
			wantCode: http.StatusBadRequest,
		},
		{name: "Save take", method: http.MethodPost, path: path, token: token, body: recording("Post-storm door knock", iPtr(85)), wantCode: http.StatusCreated},
		{name: "Save unscored take", method: http.MethodPost, path: path, token: token, body: recording("Gatekeeper handoff", nil), wantCode: http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusCreated {
				if rec.Code != tt.wantCode {
					t.Errorf("failed! code = %v; wantCode %v; data = %v", rec.Code, tt.wantCode, rec.Body.String())
				}
				var take practice.Recording
				if err := json.Unmarshal(rec.Body.Bytes(), &take); err != nil {
					t.Errorf("json.Unmarshal() failed! err %v", err)
				}
				if take.ID == 0 {
					t.Error("failed! empty recording ID")
				}
				if take.UserID != trainee.ID {
					t.Errorf("failed! user_id = %v; want %v", take.UserID, trainee.ID)
				}
				return
			}
			if tt.wantData == nil {
				if rec.Code != tt.wantCode {
					t.Errorf("failed! code = %v; wantCode %v; data = %v", rec.Code, tt.wantCode, rec.Body.String())
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}

	// own takes only, newest first
	req, rec := newAuthRequest(http.MethodGet, path, token)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("failed! code = %v; wantCode %v", rec.Code, http.StatusOK)
	}
	var takes []practice.Recording
	if err := json.Unmarshal(rec.Body.Bytes(), &takes); err != nil {
		t.Fatalf("json.Unmarshal() failed! err %v", err)
	}
	if len(takes) != 2 {
		t.Fatalf("failed! got %d recordings, want 2", len(takes))
	}
	if takes[0].Scenario != "Gatekeeper handoff" {
		t.Errorf("failed! first scenario = %v; want newest", takes[0].Scenario)
	}

	req, rec = newAuthRequest(http.MethodGet, path, getToken(t, other))
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t)}, rec)
}
