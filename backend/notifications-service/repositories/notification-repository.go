package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"taskboard/backend/notifications-service/models"
	"taskboard/backend/utils"
)

// NotificationRepository persists notifications per recipient. Every lookup by id is scoped to
// the recipient: another user's notification is reported as NotFound.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListForUser(ctx context.Context, userID string, limit int) ([]*models.Notification, error)
	MarkRead(ctx context.Context, userID, id string) (*models.Notification, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, userID, id string) (*models.Notification, error)
}

var errNotificationNotFound = utils.NewNotFound("Notification not found")

// MemoryNotificationRepository keeps notifications in process; used with NOTIFICATIONS_STORE=memory
// and in tests.
type MemoryNotificationRepository struct {
	mu            sync.RWMutex
	notifications map[string]*models.Notification
}

func NewMemoryNotificationRepository() *MemoryNotificationRepository {
	return &MemoryNotificationRepository{notifications: make(map[string]*models.Notification)}
}

func (r *MemoryNotificationRepository) Create(_ context.Context, n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	n.ID = primitive.NewObjectID().Hex()
	n.CreatedAt = now
	n.UpdatedAt = now
	c := *n
	r.notifications[n.ID] = &c
	return nil
}

func (r *MemoryNotificationRepository) ListForUser(_ context.Context, userID string, limit int) ([]*models.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*models.Notification{}
	for _, n := range r.notifications {
		if n.UserID == userID {
			c := *n
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryNotificationRepository) MarkRead(_ context.Context, userID, id string) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notifications[id]
	if !ok || n.UserID != userID {
		return nil, errNotificationNotFound
	}
	if !n.Read {
		n.Read = true
		n.UpdatedAt = time.Now().UTC()
	}
	c := *n
	return &c, nil
}

func (r *MemoryNotificationRepository) MarkAllRead(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var modified int64
	now := time.Now().UTC()
	for _, n := range r.notifications {
		if n.UserID == userID && !n.Read {
			n.Read = true
			n.UpdatedAt = now
			modified++
		}
	}
	return modified, nil
}

func (r *MemoryNotificationRepository) Delete(_ context.Context, userID, id string) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notifications[id]
	if !ok || n.UserID != userID {
		return nil, errNotificationNotFound
	}
	delete(r.notifications, id)
	return n, nil
}
