package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	notificationmodels "taskboard/backend/notifications-service/models"
	"taskboard/backend/utils"
)

func TestTasksClientForwardsIdentity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tasks/t1" || r.Header.Get(utils.HeaderUserID) != "bob" || r.Header.Get(utils.HeaderUserName) != "Bob" {
			utils.WriteError(w, utils.NewUnauthorized("bad request"))
			return
		}
		utils.WriteJSON(w, http.StatusOK, map[string]any{"title": "Write docs", "assignedTo": "alice", "createdBy": "alice"})
	}))
	defer srv.Close()

	c := NewTasksClient(srv.URL+"/", utils.NewHTTPClient(time.Second))
	task, err := c.GetTask(context.Background(), utils.Identity{ID: "bob", Name: "Bob"}, "t1")
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if task.Title != "Write docs" || len(task.AssignedTo) != 1 || task.AssignedTo[0] != "alice" {
		t.Errorf("task = %+v", task)
	}
}

func TestTasksClientNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteError(w, utils.NewNotFound("Task not found"))
	}))
	defer srv.Close()

	_, err := NewTasksClient(srv.URL, utils.NewHTTPClient(time.Second)).GetTask(context.Background(), utils.Identity{ID: "bob"}, "missing")
	derr, ok := err.(*utils.DownstreamError)
	if !ok || derr.Status != http.StatusNotFound || derr.Message != "Task not found" {
		t.Errorf("err = %#v", err)
	}
}

func TestNotificationsClientPostsBody(t *testing.T) {
	var got notificationmodels.CreateNotificationRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/notifications" || r.Header.Get(utils.HeaderUserID) != "bob" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		json.NewDecoder(r.Body).Decode(&got)
		utils.WriteJSON(w, http.StatusCreated, got)
	}))
	defer srv.Close()

	n := notificationmodels.CreateNotificationRequest{UserID: "alice", Type: notificationmodels.TypeComment, Title: "New comment", Message: "m"}
	if err := NewNotificationsClient(srv.URL, utils.NewHTTPClient(time.Second)).CreateNotification(context.Background(), utils.Identity{ID: "bob"}, n); err != nil {
		t.Fatalf("CreateNotification: %v", err)
	}
	if got != n {
		t.Errorf("received %+v, want %+v", got, n)
	}
}
