package models

import (
	commentmodels "taskboard/backend/comments-service/models"
	projectmodels "taskboard/backend/projects-service/models"
	taskmodels "taskboard/backend/tasks-service/models"
)

// Board is a project with its tasks and each task's comments, as one read.
type Board struct {
	Project *projectmodels.Project `json:"project"`
	Tasks   []BoardTask            `json:"tasks"`
}

type BoardTask struct {
	*taskmodels.Task
	Comments []*commentmodels.Comment `json:"comments"`
}
