package services

import (
	"context"
	"testing"

	"taskboard/backend/comments-service/models"
	"taskboard/backend/comments-service/repositories"
	"taskboard/backend/utils"
)

var (
	ana = utils.Identity{ID: "ana", Name: "Ana"}
	bo  = utils.Identity{ID: "bo", Name: "Bo"}
)

type recordingDispatcher struct {
	events []CommentEvent
}

func (d *recordingDispatcher) Dispatch(_ context.Context, ev CommentEvent) {
	d.events = append(d.events, ev)
}

func newTestCommentService() (*CommentService, *recordingDispatcher) {
	d := &recordingDispatcher{}
	return NewCommentService(repositories.NewMemoryCommentRepository(), d), d
}

func TestCreateComment(t *testing.T) {
	svc, d := newTestCommentService()
	ctx := context.Background()

	comment, err := svc.CreateComment(ctx, ana, models.CreateCommentRequest{Content: " looks good ", TaskID: "t1"})
	if err != nil {
		t.Fatalf("CreateComment: %v", err)
	}
	if comment.UserID != "ana" || comment.UserName != "Ana" || comment.Content != "looks good" {
		t.Errorf("comment = %+v", comment)
	}
	if len(d.events) != 1 || d.events[0].Comment.ID != comment.ID || d.events[0].Author.ID != "ana" {
		t.Errorf("dispatched = %+v", d.events)
	}
}

func TestCreateCommentRejected(t *testing.T) {
	svc, d := newTestCommentService()

	tests := []struct {
		name   string
		caller utils.Identity
		req    models.CreateCommentRequest
		kind   utils.Kind
	}{
		{"no name header", utils.Identity{ID: "ana"}, models.CreateCommentRequest{Content: "x", TaskID: "t1"}, utils.KindUnauthorized},
		{"blank content", ana, models.CreateCommentRequest{Content: "  ", TaskID: "t1"}, utils.KindValidation},
		{"missing task", ana, models.CreateCommentRequest{Content: "x"}, utils.KindValidation},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.CreateComment(context.Background(), tc.caller, tc.req); !utils.IsKind(err, tc.kind) {
				t.Errorf("err = %v, want %s", err, tc.kind)
			}
		})
	}
	if len(d.events) != 0 {
		t.Errorf("rejected comments dispatched %d events", len(d.events))
	}
}

func TestCommentOwnership(t *testing.T) {
	svc, _ := newTestCommentService()
	ctx := context.Background()
	comment, _ := svc.CreateComment(ctx, ana, models.CreateCommentRequest{Content: "first", TaskID: "t1"})
	id := comment.ID.Hex()

	if _, err := svc.UpdateComment(ctx, bo, id, models.UpdateCommentRequest{Content: "hijack"}); !utils.IsKind(err, utils.KindForbidden) {
		t.Errorf("update by other: err = %v", err)
	}
	if _, err := svc.DeleteComment(ctx, bo, id); !utils.IsKind(err, utils.KindForbidden) {
		t.Errorf("delete by other: err = %v", err)
	}
	if _, err := svc.UpdateComment(ctx, ana, id, models.UpdateCommentRequest{Content: ""}); !utils.IsKind(err, utils.KindValidation) {
		t.Errorf("empty update: err = %v", err)
	}

	updated, err := svc.UpdateComment(ctx, ana, id, models.UpdateCommentRequest{Content: "edited"})
	if err != nil || updated.Content != "edited" || updated.UserName != "Ana" {
		t.Fatalf("UpdateComment = %+v, %v", updated, err)
	}

	deleted, err := svc.DeleteComment(ctx, ana, id)
	if err != nil || deleted.ID != comment.ID {
		t.Fatalf("DeleteComment = %+v, %v", deleted, err)
	}
	if _, err := svc.DeleteComment(ctx, ana, id); !utils.IsKind(err, utils.KindNotFound) {
		t.Errorf("second delete: err = %v", err)
	}
	if _, err := svc.UpdateComment(ctx, ana, "bogus", models.UpdateCommentRequest{Content: "x"}); !utils.IsKind(err, utils.KindNotFound) {
		t.Errorf("malformed id: err = %v", err)
	}
}

func TestListTaskCommentsNewestFirst(t *testing.T) {
	svc, _ := newTestCommentService()
	ctx := context.Background()
	first, _ := svc.CreateComment(ctx, ana, models.CreateCommentRequest{Content: "one", TaskID: "t1"})
	second, _ := svc.CreateComment(ctx, bo, models.CreateCommentRequest{Content: "two", TaskID: "t1"})
	svc.CreateComment(ctx, bo, models.CreateCommentRequest{Content: "other", TaskID: "t2"})

	comments, err := svc.ListTaskComments(ctx, ana, "t1")
	if err != nil {
		t.Fatalf("ListTaskComments: %v", err)
	}
	if len(comments) != 2 || comments[0].ID != second.ID || comments[1].ID != first.ID {
		t.Errorf("order = %v", comments)
	}
}
