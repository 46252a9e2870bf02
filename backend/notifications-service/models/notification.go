package models

import "time"

type NotificationType string

const (
	TypeComment      NotificationType = "comment"
	TypeTaskUpdate   NotificationType = "task_update"
	TypeTaskAssigned NotificationType = "task_assigned"
)

func (t NotificationType) Valid() bool {
	switch t {
	case TypeComment, TypeTaskUpdate, TypeTaskAssigned:
		return true
	}
	return false
}

// Notification ids are store generated strings: an ObjectID hex in Mongo, a time UUID in Cassandra.
type Notification struct {
	ID        string           `json:"id" bson:"_id"`
	UserID    string           `json:"userId" bson:"userId"`
	Type      NotificationType `json:"type" bson:"type"`
	Title     string           `json:"title" bson:"title"`
	Message   string           `json:"message" bson:"message"`
	TaskID    string           `json:"taskId,omitempty" bson:"taskId,omitempty"`
	ProjectID string           `json:"projectId,omitempty" bson:"projectId,omitempty"`
	Read      bool             `json:"read" bson:"read"`
	CreatedAt time.Time        `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt" bson:"updatedAt"`
}

type CreateNotificationRequest struct {
	UserID    string           `json:"userId"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	TaskID    string           `json:"taskId,omitempty"`
	ProjectID string           `json:"projectId,omitempty"`
}

type MarkAllReadResult struct {
	Modified int64 `json:"modified"`
}
