package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sony/gobreaker"

	"taskboard/backend/api-composer-service/models"
	commentmodels "taskboard/backend/comments-service/models"
	"taskboard/backend/logging"
	projectmodels "taskboard/backend/projects-service/models"
	taskmodels "taskboard/backend/tasks-service/models"
	"taskboard/backend/utils"
)

type downstream struct {
	name    string
	baseURL string
	breaker *gobreaker.CircuitBreaker
}

func newDownstream(name, baseURL, breaker string) downstream {
	return downstream{name: name, baseURL: strings.TrimRight(baseURL, "/"), breaker: utils.NewBreaker(breaker)}
}

// ComposerService reads from the projects, tasks and comments services on behalf of the caller.
type ComposerService struct {
	client   *http.Client
	projects downstream
	tasks    downstream
	comments downstream
}

func NewComposerService(client *http.Client, projectsURL, tasksURL, commentsURL string) *ComposerService {
	return &ComposerService{
		client:   client,
		projects: newDownstream("projects-service", projectsURL, "ProjectsServiceCB"),
		tasks:    newDownstream("tasks-service", tasksURL, "TasksServiceCB"),
		comments: newDownstream("comments-service", commentsURL, "CommentsServiceCB"),
	}
}

// GetBoard composes the board of projectID. query is passed to the task listing unchanged, so
// the task filters work here too. Any failed read fails the whole board.
func (s *ComposerService) GetBoard(ctx context.Context, caller utils.Identity, projectID string, query url.Values) (*models.Board, error) {
	var project projectmodels.Project
	if err := s.get(ctx, caller, s.projects, "/projects/"+url.PathEscape(projectID), &project); err != nil {
		return nil, err
	}

	path := "/tasks/project/" + url.PathEscape(projectID)
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}
	var tasks []*taskmodels.Task
	if err := s.get(ctx, caller, s.tasks, path, &tasks); err != nil {
		return nil, err
	}

	board := &models.Board{Project: &project, Tasks: make([]models.BoardTask, 0, len(tasks))}
	for _, task := range tasks {
		comments := []*commentmodels.Comment{}
		if err := s.get(ctx, caller, s.comments, "/comments/task/"+task.ID.Hex(), &comments); err != nil {
			return nil, err
		}
		board.Tasks = append(board.Tasks, models.BoardTask{Task: task, Comments: comments})
	}

	logging.Logger.Debugf("Event ID: BOARD_COMPOSED, Description: Project %s: %d tasks for %s", projectID, len(tasks), caller.ID)
	return board, nil
}

func (s *ComposerService) get(ctx context.Context, caller utils.Identity, d downstream, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build %s request: %w", d.name, err)
	}
	caller.Apply(req.Header)

	if err := utils.DoJSON(s.client, d.breaker, d.name, req, out); err != nil {
		logging.Logger.Warnf("Event ID: COMPOSER_DOWNSTREAM_FAILED, Description: GET %s%s: %v", d.name, path, err)
		return utils.AsFault(err)
	}
	return nil
}
