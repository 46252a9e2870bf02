package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/gocql/gocql"

	"taskboard/backend/logging"
	"taskboard/backend/notifications-service/models"
)

const notificationColumns = `id, user_id, type, title, message, task_id, project_id, is_read, created_at, updated_at`

// CassandraNotificationRepository keeps one partition per recipient, clustered newest first.
type CassandraNotificationRepository struct {
	session *gocql.Session
}

// NewCassandraNotificationRepository creates the keyspace if needed and connects to it.
func NewCassandraNotificationRepository(hosts []string, keyspace string) (*CassandraNotificationRepository, error) {
	cluster := gocql.NewCluster(hosts...)
	cluster.Keyspace = "system"
	cluster.Timeout = 5 * time.Second
	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("connect to cassandra: %w", err)
	}

	err = session.Query(fmt.Sprintf(
		`CREATE KEYSPACE IF NOT EXISTS %s
         WITH replication = {
             'class': 'SimpleStrategy',
             'replication_factor': 1
         }`, keyspace)).Exec()
	session.Close()
	if err != nil {
		return nil, fmt.Errorf("create keyspace %s: %w", keyspace, err)
	}

	cluster.Keyspace = keyspace
	cluster.Consistency = gocql.One
	session, err = cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("connect to keyspace %s: %w", keyspace, err)
	}

	logging.Logger.Infof("Event ID: CASSANDRA_CONNECTED, Description: Connected to Cassandra keyspace %s", keyspace)
	return &CassandraNotificationRepository{session: session}, nil
}

func (r *CassandraNotificationRepository) CloseSession() {
	r.session.Close()
	logging.Logger.Info("Event ID: CASSANDRA_CLOSED, Description: Cassandra session closed")
}

func (r *CassandraNotificationRepository) CreateTable() error {
	err := r.session.Query(
		`CREATE TABLE IF NOT EXISTS notifications (
			user_id TEXT,
			created_at TIMESTAMP,
			id TIMEUUID,
			type TEXT,
			title TEXT,
			message TEXT,
			task_id TEXT,
			project_id TEXT,
			is_read BOOLEAN,
			updated_at TIMESTAMP,
			PRIMARY KEY ((user_id), created_at, id)
		) WITH CLUSTERING ORDER BY (created_at DESC, id ASC)`).Exec()
	if err != nil {
		return fmt.Errorf("create notifications table: %w", err)
	}
	return nil
}

func (r *CassandraNotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	// Cassandra timestamps keep millisecond precision.
	now := time.Now().UTC().Truncate(time.Millisecond)
	id := gocql.TimeUUID()
	n.ID = id.String()
	n.CreatedAt = now
	n.UpdatedAt = now

	err := r.session.Query(
		`INSERT INTO notifications (`+notificationColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, n.UserID, string(n.Type), n.Title, n.Message, n.TaskID, n.ProjectID, n.Read, n.CreatedAt, n.UpdatedAt,
	).WithContext(ctx).Exec()
	if err != nil {
		return fmt.Errorf("failed to save notification: %w", err)
	}
	return nil
}

func (r *CassandraNotificationRepository) ListForUser(ctx context.Context, userID string, limit int) ([]*models.Notification, error) {
	stmt := `SELECT ` + notificationColumns + ` FROM notifications WHERE user_id = ?`
	args := []any{userID}
	if limit > 0 {
		stmt += ` LIMIT ?`
		args = append(args, limit)
	}

	iter := r.session.Query(stmt, args...).WithContext(ctx).Iter()
	out := []*models.Notification{}
	for {
		n, ok := scanNotification(iter)
		if !ok {
			break
		}
		out = append(out, n)
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}
	return out, nil
}

func (r *CassandraNotificationRepository) MarkRead(ctx context.Context, userID, id string) (*models.Notification, error) {
	n, err := r.find(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if n.Read {
		return n, nil
	}

	n.Read = true
	n.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	if err := r.setRead(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (r *CassandraNotificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	unread, err := r.ListForUser(ctx, userID, 0)
	if err != nil {
		return 0, err
	}

	var modified int64
	now := time.Now().UTC().Truncate(time.Millisecond)
	for _, n := range unread {
		if n.Read {
			continue
		}
		n.Read = true
		n.UpdatedAt = now
		if err := r.setRead(ctx, n); err != nil {
			return modified, err
		}
		modified++
	}
	return modified, nil
}

func (r *CassandraNotificationRepository) Delete(ctx context.Context, userID, id string) (*models.Notification, error) {
	n, err := r.find(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	uuid, err := notificationKey(n.ID)
	if err != nil {
		return nil, err
	}
	err = r.session.Query(
		`DELETE FROM notifications WHERE user_id = ? AND created_at = ? AND id = ?`,
		n.UserID, n.CreatedAt, uuid,
	).WithContext(ctx).Exec()
	if err != nil {
		return nil, fmt.Errorf("failed to delete notification: %w", err)
	}
	return n, nil
}

// notificationKey parses a notification id; ids that are not UUIDs cannot exist in the table.
func notificationKey(id string) (gocql.UUID, error) {
	uuid, err := gocql.ParseUUID(id)
	if err != nil {
		return gocql.UUID{}, errNotificationNotFound
	}
	return uuid, nil
}

// find looks id up inside the recipient's partition only.
func (r *CassandraNotificationRepository) find(ctx context.Context, userID, id string) (*models.Notification, error) {
	uuid, err := notificationKey(id)
	if err != nil {
		return nil, err
	}

	iter := r.session.Query(
		`SELECT `+notificationColumns+` FROM notifications WHERE user_id = ? AND id = ? ALLOW FILTERING`,
		userID, uuid,
	).WithContext(ctx).Iter()
	n, ok := scanNotification(iter)
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("failed to find notification: %w", err)
	}
	if !ok {
		return nil, errNotificationNotFound
	}
	return n, nil
}

func (r *CassandraNotificationRepository) setRead(ctx context.Context, n *models.Notification) error {
	uuid, err := notificationKey(n.ID)
	if err != nil {
		return err
	}
	err = r.session.Query(
		`UPDATE notifications SET is_read = ?, updated_at = ? WHERE user_id = ? AND created_at = ? AND id = ?`,
		n.Read, n.UpdatedAt, n.UserID, n.CreatedAt, uuid,
	).WithContext(ctx).Exec()
	if err != nil {
		return fmt.Errorf("failed to update notification: %w", err)
	}
	return nil
}

func scanNotification(iter *gocql.Iter) (*models.Notification, bool) {
	var (
		n     models.Notification
		id    gocql.UUID
		ntype string
	)
	if !iter.Scan(&id, &n.UserID, &ntype, &n.Title, &n.Message, &n.TaskID, &n.ProjectID, &n.Read, &n.CreatedAt, &n.UpdatedAt) {
		return nil, false
	}
	n.ID = id.String()
	n.Type = models.NotificationType(ntype)
	n.CreatedAt = n.CreatedAt.UTC()
	n.UpdatedAt = n.UpdatedAt.UTC()
	return &n, true
}
