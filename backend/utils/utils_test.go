package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
)

func TestKindStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{NewValidation("bad"), http.StatusBadRequest},
		{NewUnauthorized("who"), http.StatusUnauthorized},
		{NewForbidden("no"), http.StatusForbidden},
		{NewNotFound("gone"), http.StatusNotFound},
		{NewConflict("dup"), http.StatusConflict},
		{NewUnavailable("down"), http.StatusServiceUnavailable},
		{fmt.Errorf("wrapped: %w", NewForbidden("no")), http.StatusForbidden},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		if got := KindOf(tc.err).Status(); got != tc.want {
			t.Errorf("KindOf(%v).Status() = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestWriteErrorHidesInternalMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, errors.New("mongo: connection refused"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	var body ErrorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if strings.Contains(body.Message, "mongo") {
		t.Errorf("internal detail leaked: %q", body.Message)
	}
}

func TestWriteErrorKeepsKindMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, NewNotFound("Task not found"))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	var body ErrorBody
	json.NewDecoder(rec.Body).Decode(&body)
	if body.Message != "Task not found" {
		t.Errorf("message = %q", body.Message)
	}
}

func TestIdentityExtractorHeadersOnly(t *testing.T) {
	ex := NewIdentityExtractor("")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, err := ex.Extract(req); !IsKind(err, KindUnauthorized) {
		t.Fatalf("missing header: err = %v, want Unauthorized", err)
	}

	Identity{ID: "u1", Email: "a@x.io", Name: "Ana", Role: "member"}.Apply(req.Header)
	id, err := ex.Extract(req)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if id.ID != "u1" || id.Name != "Ana" {
		t.Errorf("identity = %+v", id)
	}
}

func TestIdentityExtractorWithAssertion(t *testing.T) {
	const secret = "internal-secret"
	ex := NewIdentityExtractor(secret)
	signer := NewAssertionSigner(secret)
	id := Identity{ID: "u1", Email: "a@x.io", Name: "Ana", Role: "member"}

	token, err := signer.Sign(id)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	tests := []struct {
		name      string
		headers   Identity
		assertion string
		wantErr   bool
	}{
		{"valid", id, token, false},
		{"missing assertion", id, "", true},
		{"spoofed id", Identity{ID: "u2", Email: id.Email, Name: id.Name, Role: id.Role}, token, true},
		{"spoofed role", Identity{ID: id.ID, Email: id.Email, Name: id.Name, Role: "admin"}, token, true},
		{"garbage", id, "not-a-token", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tc.headers.Apply(req.Header)
			if tc.assertion != "" {
				req.Header.Set(HeaderAssertion, tc.assertion)
			}
			_, err := ex.Extract(req)
			if tc.wantErr && !IsKind(err, KindUnauthorized) {
				t.Errorf("err = %v, want Unauthorized", err)
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestAssertionFromOtherSecretRejected(t *testing.T) {
	id := Identity{ID: "u1"}
	token, _ := NewAssertionSigner("one").Sign(id)
	if err := NewAssertionSigner("two").Verify(token, id); err == nil {
		t.Error("assertion signed with another secret was accepted")
	}
}

func TestStripIdentity(t *testing.T) {
	h := http.Header{}
	Identity{ID: "u1", Email: "e", Name: "n", Role: "admin"}.Apply(h)
	h.Set(HeaderAssertion, "x")
	h.Set("Content-Type", "application/json")

	StripIdentity(h)

	for _, k := range []string{HeaderUserID, HeaderUserEmail, HeaderUserName, HeaderUserRole, HeaderAssertion} {
		if h.Get(k) != "" {
			t.Errorf("%s not stripped", k)
		}
	}
	if h.Get("Content-Type") == "" {
		t.Error("unrelated header removed")
	}
}

func TestDoJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			WriteJSON(w, http.StatusOK, map[string]string{"title": "Write docs"})
		case "/missing":
			WriteError(w, NewNotFound("Task not found"))
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	defer srv.Close()

	client := srv.Client()
	breaker := NewBreaker("test")

	var out struct {
		Title string `json:"title"`
	}
	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/ok", nil)
	if err := DoJSON(client, breaker, "tasks-service", req, &out); err != nil {
		t.Fatalf("DoJSON ok: %v", err)
	}
	if out.Title != "Write docs" {
		t.Errorf("title = %q", out.Title)
	}

	req, _ = http.NewRequest(http.MethodGet, srv.URL+"/missing", nil)
	err := DoJSON(client, breaker, "tasks-service", req, &out)
	var derr *DownstreamError
	if !errors.As(err, &derr) || derr.Status != http.StatusNotFound || derr.Message != "Task not found" {
		t.Errorf("missing: err = %v", err)
	}

	req, _ = http.NewRequest(http.MethodGet, srv.URL+"/broken", nil)
	if err := DoJSON(client, breaker, "tasks-service", req, nil); !errors.As(err, &derr) || derr.Status != http.StatusBadGateway {
		t.Errorf("broken: err = %v", err)
	}
}

func TestInstrumentUsesRouteTemplate(t *testing.T) {
	r := mux.NewRouter()
	r.Use(Instrument("test-service"))
	r.HandleFunc("/tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasks/abc", nil))
	if rec.Code != http.StatusTeapot {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestServiceRouterFallbacksAreJSON(t *testing.T) {
	r := NewServiceRouter("test-service")
	api := r.PathPrefix("/auth").Subrouter()
	api.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodPost)

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/nope", http.StatusNotFound},
		{http.MethodGet, "/auth/nope", http.StatusNotFound},
		{http.MethodPatch, "/auth/login", http.StatusMethodNotAllowed},
		{http.MethodDelete, "/health", http.StatusMethodNotAllowed},
	}

	for _, tc := range tests {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d", rec.Code, tc.status)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("content type = %q", ct)
			}
			var body ErrorBody
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil || body.Message == "" {
				t.Errorf("body = %+v, err = %v", body, err)
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc.def", "abc.def", true},
		{"bearer abc.def", "", false},
		{"Basic abc", "", false},
		{"Bearer ", "", false},
		{"", "", false},
	}

	for _, tc := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		got, ok := BearerToken(req)
		if got != tc.want || ok != tc.ok {
			t.Errorf("BearerToken(%q) = %q, %v; want %q, %v", tc.header, got, ok, tc.want, tc.ok)
		}
	}
}

func TestAsFault(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind Kind
	}{
		{"not found", &DownstreamError{Service: "tasks-service", Status: 404, Message: "Task not found"}, KindNotFound},
		{"forbidden", fmt.Errorf("wrapped: %w", &DownstreamError{Status: 403, Message: "no"}), KindForbidden},
		{"server error", &DownstreamError{Status: 500, Message: "boom"}, KindServiceUnavailable},
		{"transport", errors.New("connection refused"), KindServiceUnavailable},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := KindOf(AsFault(tc.err)); got != tc.kind {
				t.Errorf("kind = %s, want %s", got, tc.kind)
			}
		})
	}
}
