package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment keeps the author's display name as it was when the comment was written.
type Comment struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Content   string             `json:"content" bson:"content"`
	TaskID    string             `json:"taskId" bson:"taskId"`
	UserID    string             `json:"userId" bson:"userId"`
	UserName  string             `json:"userName" bson:"userName"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type CreateCommentRequest struct {
	Content string `json:"content"`
	TaskID  string `json:"taskId"`
}

type UpdateCommentRequest struct {
	Content string `json:"content"`
}
