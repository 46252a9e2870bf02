package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Task struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description" bson:"description"`
	Status      TaskStatus         `json:"status" bson:"status"`
	Priority    TaskPriority       `json:"priority" bson:"priority"`
	DueDate     time.Time          `json:"dueDate" bson:"dueDate"`
	AssignedTo  Assignees          `json:"assignedTo" bson:"assignedTo"`
	ProjectID   string             `json:"projectId" bson:"projectId"`
	CreatedBy   string             `json:"createdBy" bson:"createdBy"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// CanEdit reports whether userID may update the task: its creator or any assignee.
func (t *Task) CanEdit(userID string) bool {
	return t.CreatedBy == userID || t.AssignedTo.Contains(userID)
}

type CreateTaskRequest struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status,omitempty"`
	Priority    TaskPriority `json:"priority,omitempty"`
	DueDate     string       `json:"dueDate"`
	AssignedTo  Assignees    `json:"assignedTo"`
	ProjectID   string       `json:"projectId"`
}

// UpdateTaskRequest carries only the fields the caller wants changed.
type UpdateTaskRequest struct {
	Title       *string       `json:"title,omitempty"`
	Description *string       `json:"description,omitempty"`
	Status      *TaskStatus   `json:"status,omitempty"`
	Priority    *TaskPriority `json:"priority,omitempty"`
	DueDate     *string       `json:"dueDate,omitempty"`
	AssignedTo  *Assignees    `json:"assignedTo,omitempty"`
}

// TaskFilter narrows a project's task list. Empty fields impose no constraint.
type TaskFilter struct {
	Status     TaskStatus
	Priority   TaskPriority
	AssignedTo string
	Search     string
}
