package services

import (
	"context"
	"strings"
	"time"

	"taskboard/backend/logging"
	"taskboard/backend/tasks-service/models"
	"taskboard/backend/tasks-service/repositories"
	"taskboard/backend/utils"
)

type TaskService struct {
	tasks repositories.TaskRepository
}

func NewTaskService(tasks repositories.TaskRepository) *TaskService {
	return &TaskService{tasks: tasks}
}

// CreateTask records caller as the creator. Status defaults to todo and priority to medium.
func (s *TaskService) CreateTask(ctx context.Context, caller utils.Identity, req models.CreateTaskRequest) (*models.Task, error) {
	title := strings.TrimSpace(req.Title)
	projectID := strings.TrimSpace(req.ProjectID)

	switch {
	case title == "":
		return nil, utils.NewValidation("title is required")
	case req.Description == "":
		return nil, utils.NewValidation("description is required")
	case projectID == "":
		return nil, utils.NewValidation("projectId is required")
	case len(req.AssignedTo) == 0:
		return nil, utils.NewValidation("assignedTo is required")
	}

	status := req.Status
	if status == "" {
		status = models.StatusTodo
	}
	if !status.Valid() {
		return nil, utils.NewValidation("status must be one of todo, in_progress, completed")
	}

	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.Valid() {
		return nil, utils.NewValidation("priority must be one of low, medium, high")
	}

	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:       title,
		Description: req.Description,
		Status:      status,
		Priority:    priority,
		DueDate:     dueDate,
		AssignedTo:  models.NewAssignees(req.AssignedTo...),
		ProjectID:   projectID,
		CreatedBy:   caller.ID,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	logging.Logger.Infof("Event ID: TASK_CREATED, Description: Task %s created in project %s by %s", task.ID.Hex(), projectID, caller.ID)
	return task, nil
}

func (s *TaskService) ListProjectTasks(ctx context.Context, _ utils.Identity, projectID string, filter models.TaskFilter) ([]*models.Task, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, utils.NewValidation("status must be one of todo, in_progress, completed")
	}
	if filter.Priority != "" && !filter.Priority.Valid() {
		return nil, utils.NewValidation("priority must be one of low, medium, high")
	}
	return s.tasks.ListByProject(ctx, projectID, filter)
}

func (s *TaskService) GetTask(ctx context.Context, _ utils.Identity, id string) (*models.Task, error) {
	return s.tasks.FindByID(ctx, id)
}

// UpdateTask is allowed for the creator and any assignee. All changes are validated before the
// document is written, so a rejected update leaves it as it was.
func (s *TaskService) UpdateTask(ctx context.Context, caller utils.Identity, id string, req models.UpdateTaskRequest) (*models.Task, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !task.CanEdit(caller.ID) {
		logging.Logger.Warnf("Event ID: TASK_FORBIDDEN, Description: User %s denied update of task %s", caller.ID, id)
		return nil, utils.NewForbidden("Not authorized to update this task")
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, utils.NewValidation("title cannot be empty")
		}
		task.Title = title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, utils.NewValidation("status must be one of todo, in_progress, completed")
		}
		task.Status = *req.Status
	}
	if req.Priority != nil {
		if !req.Priority.Valid() {
			return nil, utils.NewValidation("priority must be one of low, medium, high")
		}
		task.Priority = *req.Priority
	}
	if req.DueDate != nil {
		due, err := parseDueDate(*req.DueDate)
		if err != nil {
			return nil, err
		}
		task.DueDate = due
	}
	if req.AssignedTo != nil {
		assignees := models.NewAssignees(*req.AssignedTo...)
		if len(assignees) == 0 {
			return nil, utils.NewValidation("assignedTo cannot be empty")
		}
		task.AssignedTo = assignees
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, caller utils.Identity, id string) (*models.Task, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.CreatedBy != caller.ID {
		logging.Logger.Warnf("Event ID: TASK_FORBIDDEN, Description: User %s denied delete of task %s", caller.ID, id)
		return nil, utils.NewForbidden("Only task creator can delete")
	}
	if err := s.tasks.Delete(ctx, id); err != nil {
		return nil, err
	}

	logging.Logger.Infof("Event ID: TASK_DELETED, Description: Task %s deleted by %s", id, caller.ID)
	return task, nil
}

var dueDateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04", "2006-01-02"}

func parseDueDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, utils.NewValidation("dueDate is required")
	}
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, utils.NewValidation("dueDate must be an ISO 8601 date")
}
