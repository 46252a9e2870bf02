package services

import (
	"context"
	"fmt"

	"taskboard/backend/comments-service/models"
	"taskboard/backend/logging"
	notificationmodels "taskboard/backend/notifications-service/models"
	taskmodels "taskboard/backend/tasks-service/models"
	"taskboard/backend/utils"
)

// Fan-out results recorded in utils.FanoutNotificationsTotal.
const (
	resultSent        = "sent"
	resultFailed      = "failed"
	resultTaskMissing = "task_unavailable"
)

type TaskReader interface {
	GetTask(ctx context.Context, caller utils.Identity, taskID string) (*taskmodels.Task, error)
}

type NotificationCreator interface {
	CreateNotification(ctx context.Context, caller utils.Identity, n notificationmodels.CreateNotificationRequest) error
}

// CommentEvent is handed to a Dispatcher once a comment has been stored.
type CommentEvent struct {
	Comment *models.Comment
	Author  utils.Identity
}

// Dispatcher runs the notification fan-out for new comments. Dispatch never reports failure to
// the caller.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev CommentEvent)
}

// FanoutReport summarizes one fan-out run.
type FanoutReport struct {
	Recipients []string
	Sent       int
	Failed     int
}

// InlineDispatcher runs the fan-out synchronously inside the request that created the comment.
type InlineDispatcher struct {
	tasks         TaskReader
	notifications NotificationCreator
}

func NewInlineDispatcher(tasks TaskReader, notifications NotificationCreator) *InlineDispatcher {
	return &InlineDispatcher{tasks: tasks, notifications: notifications}
}

func (d *InlineDispatcher) Dispatch(ctx context.Context, ev CommentEvent) {
	// The comment is already stored; a client hanging up must not cut the fan-out short.
	d.Fanout(context.WithoutCancel(ctx), ev)
}

// Fanout notifies every interested user of the comment's task except its author. A failure for
// one recipient is logged and counted and does not stop the others.
func (d *InlineDispatcher) Fanout(ctx context.Context, ev CommentEvent) FanoutReport {
	comment := ev.Comment

	task, err := d.tasks.GetTask(ctx, ev.Author, comment.TaskID)
	if err != nil {
		utils.FanoutNotificationsTotal.WithLabelValues(resultTaskMissing).Inc()
		logging.Logger.Warnf("Event ID: FANOUT_TASK_LOOKUP_FAILED, Description: Comment %s: cannot read task %s: %v", comment.ID.Hex(), comment.TaskID, err)
		return FanoutReport{}
	}

	report := FanoutReport{Recipients: Recipients(task, ev.Author.ID)}
	for _, recipient := range report.Recipients {
		n := notificationmodels.CreateNotificationRequest{
			UserID:    recipient,
			Type:      notificationmodels.TypeComment,
			Title:     "New comment",
			Message:   fmt.Sprintf(`%s commented on task "%s"`, comment.UserName, task.Title),
			TaskID:    task.ID.Hex(),
			ProjectID: task.ProjectID,
		}
		if err := d.notifications.CreateNotification(ctx, ev.Author, n); err != nil {
			report.Failed++
			utils.FanoutNotificationsTotal.WithLabelValues(resultFailed).Inc()
			logging.Logger.Errorf("Event ID: FANOUT_NOTIFICATION_FAILED, Description: Comment %s: notification for %s failed: %v", comment.ID.Hex(), recipient, err)
			continue
		}
		report.Sent++
		utils.FanoutNotificationsTotal.WithLabelValues(resultSent).Inc()
	}

	logging.Logger.Infof("Event ID: FANOUT_DONE, Description: Comment %s on task %s: %d sent, %d failed", comment.ID.Hex(), task.ID.Hex(), report.Sent, report.Failed)
	return report
}

// Recipients returns the task's assignees followed by its creator, without duplicates and
// without the comment author.
func Recipients(task *taskmodels.Task, authorID string) []string {
	seen := map[string]bool{authorID: true}
	out := []string{}
	add := func(id string) {
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		out = append(out, id)
	}

	for _, id := range task.AssignedTo {
		add(id)
	}
	add(task.CreatedBy)
	return out
}
