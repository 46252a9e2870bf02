package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"taskboard/backend/users-service/models"
	"taskboard/backend/users-service/repositories"
	"taskboard/backend/users-service/services"
	"taskboard/backend/utils"
)

func newTestRouter() *mux.Router {
	svc := services.NewAuthService(
		repositories.NewMemoryUserRepository(),
		services.NewJWTService("test-secret", time.Hour),
		services.NewMemoryRevocationStore(),
	).WithBcryptCost(bcrypt.MinCost)

	r := mux.NewRouter()
	NewUserHandler(svc, utils.NewIdentityExtractor("")).Register(r)
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRegisterLoginValidateFlow(t *testing.T) {
	r := newTestRouter()

	rec := doJSON(t, r, http.MethodPost, "/auth/register", map[string]string{
		"email": "ana@example.com", "password": "secret1", "name": "Ana",
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body = %s", rec.Code, rec.Body)
	}
	if bytes.Contains(rec.Body.Bytes(), []byte("password")) {
		t.Errorf("register response leaks password: %s", rec.Body)
	}

	rec = doJSON(t, r, http.MethodPost, "/auth/register", map[string]string{
		"email": "ana@example.com", "password": "secret1", "name": "Ana",
	}, nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate register status = %d", rec.Code)
	}

	rec = doJSON(t, r, http.MethodPost, "/auth/login", map[string]string{
		"email": "ana@example.com", "password": "secret1",
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body = %s", rec.Code, rec.Body)
	}
	var login models.LoginResponse
	json.NewDecoder(rec.Body).Decode(&login)

	rec = doJSON(t, r, http.MethodPost, "/auth/validate", map[string]string{"token": login.Token}, nil)
	var result models.VerifyResult
	json.NewDecoder(rec.Body).Decode(&result)
	if rec.Code != http.StatusOK || !result.Valid || result.User.Email != "ana@example.com" {
		t.Errorf("validate = %d %+v", rec.Code, result)
	}

	rec = doJSON(t, r, http.MethodPost, "/auth/validate", map[string]string{"token": "nope"}, nil)
	result = models.VerifyResult{}
	json.NewDecoder(rec.Body).Decode(&result)
	if rec.Code != http.StatusOK || result.Valid || result.User != nil {
		t.Errorf("validate bad token = %d %+v", rec.Code, result)
	}

	bearer := http.Header{"Authorization": {"Bearer " + login.Token}}
	if rec := doJSON(t, r, http.MethodGet, "/auth/profile", nil, bearer); rec.Code != http.StatusOK {
		t.Errorf("profile status = %d", rec.Code)
	}
	if rec := doJSON(t, r, http.MethodPost, "/auth/logout", nil, bearer); rec.Code != http.StatusOK {
		t.Errorf("logout status = %d", rec.Code)
	}
	if rec := doJSON(t, r, http.MethodGet, "/auth/profile", nil, bearer); rec.Code != http.StatusUnauthorized {
		t.Errorf("profile after logout status = %d", rec.Code)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	r := newTestRouter()
	doJSON(t, r, http.MethodPost, "/auth/register", map[string]string{
		"email": "ana@example.com", "password": "secret1", "name": "Ana",
	}, nil)

	rec := doJSON(t, r, http.MethodPost, "/auth/login", map[string]string{
		"email": "ana@example.com", "password": "wrong",
	}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d", rec.Code)
	}
	var body utils.ErrorBody
	json.NewDecoder(rec.Body).Decode(&body)
	if body.Message != "Invalid credentials" {
		t.Errorf("message = %q", body.Message)
	}
}

func TestUserLookupRequiresIdentity(t *testing.T) {
	r := newTestRouter()
	rec := doJSON(t, r, http.MethodPost, "/auth/register", map[string]string{
		"email": "ana@example.com", "password": "secret1", "name": "Ana",
	}, nil)
	var ana models.PublicUser
	json.NewDecoder(rec.Body).Decode(&ana)

	if rec := doJSON(t, r, http.MethodGet, "/auth/users", nil, nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous list status = %d", rec.Code)
	}

	h := http.Header{}
	utils.Identity{ID: ana.ID, Email: ana.Email, Name: ana.Name, Role: string(ana.Role)}.Apply(h)

	rec = doJSON(t, r, http.MethodGet, "/auth/users", nil, h)
	var users []models.PublicUser
	json.NewDecoder(rec.Body).Decode(&users)
	if rec.Code != http.StatusOK || len(users) != 1 {
		t.Errorf("list = %d, %d users", rec.Code, len(users))
	}

	if rec := doJSON(t, r, http.MethodGet, "/auth/user/"+ana.ID, nil, h); rec.Code != http.StatusOK {
		t.Errorf("get user status = %d", rec.Code)
	}
	if rec := doJSON(t, r, http.MethodGet, "/auth/user/bogus", nil, h); rec.Code != http.StatusNotFound {
		t.Errorf("get unknown user status = %d", rec.Code)
	}
}
