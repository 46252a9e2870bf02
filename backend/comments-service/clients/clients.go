// Package clients calls the tasks and notifications services on behalf of the comments service.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sony/gobreaker"

	notificationmodels "taskboard/backend/notifications-service/models"
	taskmodels "taskboard/backend/tasks-service/models"
	"taskboard/backend/utils"
)

const (
	tasksService         = "tasks-service"
	notificationsService = "notifications-service"
)

type TasksClient struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

func NewTasksClient(baseURL string, client *http.Client) *TasksClient {
	return &TasksClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		breaker: utils.NewBreaker("TasksServiceCB"),
	}
}

// GetTask reads a task as caller.
func (c *TasksClient) GetTask(ctx context.Context, caller utils.Identity, taskID string) (*taskmodels.Task, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/tasks/"+url.PathEscape(taskID), nil)
	if err != nil {
		return nil, fmt.Errorf("build task request: %w", err)
	}
	caller.Apply(req.Header)

	var task taskmodels.Task
	if err := utils.DoJSON(c.client, c.breaker, tasksService, req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

type NotificationsClient struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

func NewNotificationsClient(baseURL string, client *http.Client) *NotificationsClient {
	return &NotificationsClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		breaker: utils.NewBreaker("NotificationsServiceCB"),
	}
}

// CreateNotification posts one notification as caller.
func (c *NotificationsClient) CreateNotification(ctx context.Context, caller utils.Identity, n notificationmodels.CreateNotificationRequest) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/notifications", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	caller.Apply(req.Header)

	return utils.DoJSON(c.client, c.breaker, notificationsService, req, nil)
}
