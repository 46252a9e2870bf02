package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"taskboard/backend/comments-service/models"
	"taskboard/backend/comments-service/repositories"
	"taskboard/backend/comments-service/services"
	"taskboard/backend/utils"
)

type nopDispatcher struct{}

func (nopDispatcher) Dispatch(_ context.Context, _ services.CommentEvent) {}

func newTestRouter() *mux.Router {
	r := mux.NewRouter()
	NewCommentHandler(
		services.NewCommentService(repositories.NewMemoryCommentRepository(), nopDispatcher{}),
		utils.NewIdentityExtractor(""),
	).Register(r)
	return r
}

func send(r http.Handler, method, path, body string, caller *utils.Identity) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if caller != nil {
		caller.Apply(req.Header)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCommentRoutes(t *testing.T) {
	r := newTestRouter()
	ana := &utils.Identity{ID: "ana", Name: "Ana"}
	bo := &utils.Identity{ID: "bo", Name: "Bo"}

	if rec := send(r, http.MethodPost, "/comments", `{"content":"hi","taskId":"t1"}`, nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous create = %d", rec.Code)
	}
	if rec := send(r, http.MethodPost, "/comments", `{"content":"hi","taskId":"t1"}`, &utils.Identity{ID: "ana"}); rec.Code != http.StatusUnauthorized {
		t.Errorf("create without name = %d", rec.Code)
	}
	if rec := send(r, http.MethodPost, "/comments", `{"taskId":"t1"}`, ana); rec.Code != http.StatusBadRequest {
		t.Errorf("create without content = %d", rec.Code)
	}

	rec := send(r, http.MethodPost, "/comments", `{"content":"hi","taskId":"t1"}`, ana)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d, body = %s", rec.Code, rec.Body)
	}
	var created models.Comment
	json.NewDecoder(rec.Body).Decode(&created)
	path := "/comments/" + created.ID.Hex()

	rec = send(r, http.MethodGet, "/comments/task/t1", "", bo)
	var list []models.Comment
	json.NewDecoder(rec.Body).Decode(&list)
	if rec.Code != http.StatusOK || len(list) != 1 || list[0].UserName != "Ana" {
		t.Errorf("list = %d %+v", rec.Code, list)
	}

	if rec := send(r, http.MethodPut, path, `{"content":"mine now"}`, bo); rec.Code != http.StatusForbidden {
		t.Errorf("foreign update = %d", rec.Code)
	}
	if rec := send(r, http.MethodPut, path, `{"content":"edited"}`, ana); rec.Code != http.StatusOK {
		t.Errorf("update = %d", rec.Code)
	}
	if rec := send(r, http.MethodDelete, path, "", bo); rec.Code != http.StatusForbidden {
		t.Errorf("foreign delete = %d", rec.Code)
	}
	if rec := send(r, http.MethodDelete, path, "", ana); rec.Code != http.StatusOK {
		t.Errorf("delete = %d", rec.Code)
	}
	if rec := send(r, http.MethodDelete, path, "", ana); rec.Code != http.StatusNotFound {
		t.Errorf("second delete = %d", rec.Code)
	}
}
