package tests

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	. "github.com/bestroofingnow/RoofingTrainer/apps/api/echo"
	"github.com/bestroofingnow/RoofingTrainer/core"
	"github.com/bestroofingnow/RoofingTrainer/core/user"
)

func Test_userApi_login(t *testing.T) {
	app := setup(t)

	jdoe := createUser(t, "John", "jdoe@test.com", user.RoleTrainee, true)
	naughty := createUser(t, "N", "ndog@test.com", user.RoleTrainee, false) // 😂

	tests := []httpTest{
		{
			name: "Empty body", wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"email": "this field is required", "password": "this field is required"}),
		},
		{
			name: "Invalid email", body: marchallObj(t, LoginRequest{Email: "lol", Password: "x"}), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"email": "email must be a valid email address"}),
		},
		{
			name: "Unknown email", body: marchallObj(t, LoginRequest{Email: "who@test.com", Password: testPassword}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "Wrong password", body: marchallObj(t, LoginRequest{Email: jdoe.Email, Password: "Wr0ng&Secure"}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "Deactivated account", body: marchallObj(t, LoginRequest{Email: naughty.Email, Password: testPassword}),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "account deactivated"}),
		},
		{
			name: "Login OK", body: marchallObj(t, LoginRequest{Email: "JDoe@Test.com ", Password: testPassword}), // cleaned
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/users/login", tt.body)
			app.ServeHTTP(rec, req)

			// cannot guess the token.. just check that it's not empty
			if tt.wantCode == http.StatusOK {
				if rec.Code != tt.wantCode {
					t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
				}
				var respData LoginResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &respData); err != nil {
					t.Errorf("json.Unmarshal() failed! err %v", err)
				}
				if respData.Token == "" {
					t.Error("failed! empty token")
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_userRefreshToken(t *testing.T) {
	app := setup(t)

	naughty := createUser(t, "N", "ndog@test.com", user.RoleTrainee, false) // 😂
	trainee := createUser(t, "Hero", "hero@test.com", user.RoleTrainee, true)

	// a token issued before the refresh threshold
	staleIat := time.Now().Add(-2 * core.Conf.Server.JWTRefreshExpirationDelta).Unix()
	unrefreshableToken, err := GenerateToken(GetUserClaims(trainee, staleIat))
	if err != nil {
		t.Fatalf("GenerateToken(): %v", err)
	}

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Inactive user not allowed", token: getToken(t, naughty), wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "account deactivated"}),
		},
		{
			name: "Refresh period expired", token: unrefreshableToken, wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "refresh has expired"}),
		},
		{name: "Token refreshed", token: getToken(t, trainee), wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/users/token-refresh", tt.token)
			app.ServeHTTP(rec, req)

			// cannot guess the new token.. just check that it's not empty
			if tt.wantCode == http.StatusOK {
				if rec.Code != tt.wantCode {
					t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
				}
				var respData LoginResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &respData); err != nil {
					t.Errorf("json.Unmarshal() failed! err %v", err)
				}
				if respData.Token == "" {
					t.Error("failed! empty token")
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_userQuery(t *testing.T) {
	app := setup(t)

	trainee := createUser(t, "Hero", "hero@test.com", user.RoleTrainee, true)
	instructor := createUser(t, "Coach", "coach@test.com", user.RoleInstructor, true)
	admin := createUser(t, "Admin", "admin@test.com", user.RoleAdmin, true)
	naughty := createUser(t, "N", "ndog@test.com", user.RoleTrainee, false) // 😂

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Admin required (trainee)", token: getToken(t, trainee), wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "Admin required (instructor)", token: getToken(t, instructor), wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "Get all", token: getToken(t, admin), wantCode: http.StatusOK,
			wantData: marchallList(t, trainee, instructor, admin, naughty),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/v1/users", tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_register(t *testing.T) {
	app := setup(t)

	trainee := createUser(t, "Hero", "hero@test.com", user.RoleTrainee, true)
	admin := createUser(t, "Admin", "admin@test.com", user.RoleAdmin, true)
	adminToken := getToken(t, admin)

	newUsr := func(email, role, pwd string) []byte {
		return marchallObj(t, user.NewUser{
			Email:           email,
			FirstName:       "New",
			LastName:        "Guy",
			Role:            role,
			Password:        pwd,
			PasswordConfirm: pwd,
		})
	}

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Admin required", token: getToken(t, trainee), body: newUsr("new@test.com", "", testPassword),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "Weak password rejected", token: adminToken, body: newUsr("new@test.com", "", "weak"),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"password": "password must contain at least 8 characters"}),
		},
		{
			name: "Duplicate email rejected", token: adminToken, body: newUsr(trainee.Email, "", testPassword),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"email": "a user with this email already exists"}),
		},
		{name: "Role defaults to trainee", token: adminToken, body: newUsr("new@test.com", "", testPassword), wantCode: http.StatusCreated, extra: user.RoleTrainee},
		{name: "Admin may create admin", token: adminToken, body: newUsr("boss@test.com", user.RoleAdmin, testPassword), wantCode: http.StatusCreated, extra: user.RoleAdmin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/users/register", tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusCreated {
				if rec.Code != tt.wantCode {
					t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
				}
				var usr user.User
				if err := json.Unmarshal(rec.Body.Bytes(), &usr); err != nil {
					t.Errorf("json.Unmarshal() failed! err %v", err)
				}
				if usr.ID == "" {
					t.Error("failed! empty user ID")
				}
				if wantRole := tt.extra.(string); usr.Role != wantRole {
					t.Errorf("failed! role = %v; want %v", usr.Role, wantRole)
				}
				if !usr.IsActive {
					t.Error("failed! new user not active")
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_userDetail(t *testing.T) {
	app := setup(t)

	trainee1 := createUser(t, "Hero", "hero@test.com", user.RoleTrainee, true)
	trainee2 := createUser(t, "Zero", "zero@test.com", user.RoleTrainee, true)
	admin := createUser(t, "Admin", "admin@test.com", user.RoleAdmin, true)

	tests := []httpTest{
		{name: "Auth required", path: "/v1/users/" + trainee1.ID, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Own profile", path: "/v1/users/" + trainee1.ID, token: getToken(t, trainee1),
			wantCode: http.StatusOK, wantData: marchallObj(t, trainee1),
		},
		{
			name: "Other profiles hidden", path: "/v1/users/" + trainee2.ID, token: getToken(t, trainee1),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{
			name: "Admin sees all", path: "/v1/users/" + trainee2.ID, token: getToken(t, admin),
			wantCode: http.StatusOK, wantData: marchallObj(t, trainee2),
		},
		{
			name: "Unknown user", path: "/v1/users/deadbeef", token: getToken(t, admin),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_userUpdate(t *testing.T) {
	app := setup(t)

	trainee1 := createUser(t, "Hero", "hero@test.com", user.RoleTrainee, true)
	trainee2 := createUser(t, "Zero", "zero@test.com", user.RoleTrainee, true)
	admin := createUser(t, "Admin", "admin@test.com", user.RoleAdmin, true)
	bPtr := func(b bool) *bool { return &b }

	tests := []httpTest{
		{
			name: "Cannot edit others", path: "/v1/users/" + trainee2.ID, token: getToken(t, trainee1),
			body:     marchallObj(t, user.UpdateUser{FirstName: "Pwned"}),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{
			name: "Cannot promote self", path: "/v1/users/" + trainee1.ID, token: getToken(t, trainee1),
			body:     marchallObj(t, user.UpdateUser{Role: user.RoleAdmin}),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "Cannot deactivate self", path: "/v1/users/" + trainee1.ID, token: getToken(t, trainee1),
			body:     marchallObj(t, user.UpdateUser{IsActive: bPtr(false)}),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "Edit own name", path: "/v1/users/" + trainee1.ID, token: getToken(t, trainee1),
			body:     marchallObj(t, user.UpdateUser{FirstName: "Johnny"}),
			wantCode: http.StatusOK, extra: "Johnny",
		},
		{
			name: "Admin changes role", path: "/v1/users/" + trainee2.ID, token: getToken(t, admin),
			body:     marchallObj(t, user.UpdateUser{Role: user.RoleInstructor}),
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPut, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusOK {
				if rec.Code != tt.wantCode {
					t.Errorf("failed! code = %v; wantCode %v; data = %v", rec.Code, tt.wantCode, rec.Body.String())
				}
				var usr user.User
				if err := json.Unmarshal(rec.Body.Bytes(), &usr); err != nil {
					t.Errorf("json.Unmarshal() failed! err %v", err)
				}
				if wantName, ok := tt.extra.(string); ok && usr.FirstName != wantName {
					t.Errorf("failed! first_name = %v; want %v", usr.FirstName, wantName)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_userDestroy(t *testing.T) {
	app := setup(t)

	trainee1 := createUser(t, "Hero", "hero@test.com", user.RoleTrainee, true)
	trainee2 := createUser(t, "Zero", "zero@test.com", user.RoleTrainee, true)
	admin := createUser(t, "Admin", "admin@test.com", user.RoleAdmin, true)
	adminToken := getToken(t, admin)

	tests := []httpTest{
		{
			name: "Admin required", method: http.MethodDelete, path: "/v1/users/" + trainee2.ID, token: getToken(t, trainee1),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "Cannot delete self", method: http.MethodDelete, path: "/v1/users/" + admin.ID, token: adminToken,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "Cannot delete self (bulk)", method: http.MethodDelete, path: "/v1/users?id=" + trainee1.ID + "&id=" + admin.ID, token: adminToken,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{name: "Delete one", method: http.MethodDelete, path: "/v1/users/" + trainee2.ID, token: adminToken, wantCode: http.StatusNoContent},
		{name: "Delete bulk", method: http.MethodDelete, path: "/v1/users?id=" + trainee1.ID, token: adminToken, wantCode: http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token)
			app.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusNoContent {
				if rec.Code != tt.wantCode {
					t.Errorf("failed! code = %v; wantCode %v; data = %v", rec.Code, tt.wantCode, rec.Body.String())
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}

	// only the admin is left
	req, rec := newAuthRequest(http.MethodGet, "/v1/users", adminToken)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t, admin)}, rec)
}

func Test_userApi_queryRoles(t *testing.T) {
	app := setup(t)

	trainee := createUser(t, "Hero", "hero@test.com", user.RoleTrainee, true)
	admin := createUser(t, "Admin", "admin@test.com", user.RoleAdmin, true)

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Admin required", token: getToken(t, trainee), wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{name: "Get roles", token: getToken(t, admin), wantCode: http.StatusOK, wantData: marchallObj(t, user.AllRoles)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/v1/users/roles", tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
