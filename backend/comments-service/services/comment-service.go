package services

import (
	"context"
	"strings"

	"taskboard/backend/comments-service/models"
	"taskboard/backend/comments-service/repositories"
	"taskboard/backend/logging"
	"taskboard/backend/utils"
)

type CommentService struct {
	comments   repositories.CommentRepository
	dispatcher Dispatcher
}

func NewCommentService(comments repositories.CommentRepository, dispatcher Dispatcher) *CommentService {
	return &CommentService{comments: comments, dispatcher: dispatcher}
}

// CreateComment stores the comment under caller's id and name, then runs the notification
// fan-out. Fan-out problems never fail the request.
func (s *CommentService) CreateComment(ctx context.Context, caller utils.Identity, req models.CreateCommentRequest) (*models.Comment, error) {
	if caller.Name == "" {
		return nil, utils.NewUnauthorized("User name not found in headers")
	}

	content := strings.TrimSpace(req.Content)
	taskID := strings.TrimSpace(req.TaskID)
	if content == "" || taskID == "" {
		return nil, utils.NewValidation("content and taskId are required")
	}

	comment := &models.Comment{
		Content:  content,
		TaskID:   taskID,
		UserID:   caller.ID,
		UserName: caller.Name,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	logging.Logger.Infof("Event ID: COMMENT_CREATED, Description: Comment %s on task %s by %s", comment.ID.Hex(), taskID, caller.ID)

	if s.dispatcher != nil {
		s.dispatcher.Dispatch(ctx, CommentEvent{Comment: comment, Author: caller})
	}
	return comment, nil
}

func (s *CommentService) ListTaskComments(ctx context.Context, _ utils.Identity, taskID string) ([]*models.Comment, error) {
	return s.comments.ListByTask(ctx, taskID)
}

func (s *CommentService) UpdateComment(ctx context.Context, caller utils.Identity, id string, req models.UpdateCommentRequest) (*models.Comment, error) {
	if _, err := s.authoredComment(ctx, caller, id, "update"); err != nil {
		return nil, err
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, utils.NewValidation("content is required")
	}
	return s.comments.UpdateContent(ctx, id, content)
}

func (s *CommentService) DeleteComment(ctx context.Context, caller utils.Identity, id string) (*models.Comment, error) {
	comment, err := s.authoredComment(ctx, caller, id, "delete")
	if err != nil {
		return nil, err
	}
	if err := s.comments.Delete(ctx, id); err != nil {
		return nil, err
	}

	logging.Logger.Infof("Event ID: COMMENT_DELETED, Description: Comment %s deleted by %s", id, caller.ID)
	return comment, nil
}

func (s *CommentService) authoredComment(ctx context.Context, caller utils.Identity, id, action string) (*models.Comment, error) {
	comment, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment.UserID != caller.ID {
		logging.Logger.Warnf("Event ID: COMMENT_FORBIDDEN, Description: User %s denied %s of comment %s", caller.ID, action, id)
		return nil, utils.NewForbidden("Not authorized to " + action + " this comment")
	}
	return comment, nil
}
