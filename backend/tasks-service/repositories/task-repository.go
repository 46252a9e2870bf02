package repositories

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"taskboard/backend/tasks-service/models"
	"taskboard/backend/utils"
)

// TaskRepository persists tasks. Unknown or malformed ids yield a NotFound fault.
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, id string) (*models.Task, error)
	ListByProject(ctx context.Context, projectID string, filter models.TaskFilter) ([]*models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id string) error
}

var errTaskNotFound = utils.NewNotFound("Task not found")

type MongoTaskRepository struct {
	collection *mongo.Collection
}

func NewMongoTaskRepository(collection *mongo.Collection) *MongoTaskRepository {
	return &MongoTaskRepository{collection: collection}
}

func (r *MongoTaskRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "projectId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "assignedTo", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create task indexes: %w", err)
	}
	return nil
}

func (r *MongoTaskRepository) Create(ctx context.Context, task *models.Task) error {
	now := time.Now().UTC()
	task.ID = primitive.NewObjectID()
	task.CreatedAt = now
	task.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, task); err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

func (r *MongoTaskRepository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errTaskNotFound
	}

	var task models.Task
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&task); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &task, nil
}

// taskListQuery matches assignedTo against both stored shapes: an equality filter on a string
// field and an element match on an array field are the same Mongo query.
func taskListQuery(projectID string, filter models.TaskFilter) bson.M {
	query := bson.M{"projectId": projectID}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Priority != "" {
		query["priority"] = filter.Priority
	}
	if filter.AssignedTo != "" {
		query["assignedTo"] = filter.AssignedTo
	}
	if filter.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = []bson.M{
			{"title": pattern},
			{"description": pattern},
		}
	}
	return query
}

func (r *MongoTaskRepository) ListByProject(ctx context.Context, projectID string, filter models.TaskFilter) ([]*models.Task, error) {
	cursor, err := r.collection.Find(ctx, taskListQuery(projectID, filter), options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve tasks: %w", err)
	}
	defer cursor.Close(ctx)

	tasks := []*models.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	return tasks, nil
}

// Update replaces the stored document; the last writer wins.
func (r *MongoTaskRepository) Update(ctx context.Context, task *models.Task) error {
	task.UpdatedAt = time.Now().UTC()

	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": task.ID}, task)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if res.MatchedCount == 0 {
		return errTaskNotFound
	}
	return nil
}

func (r *MongoTaskRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errTaskNotFound
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if res.DeletedCount == 0 {
		return errTaskNotFound
	}
	return nil
}

// MemoryTaskRepository keeps tasks in process; used with STORE_DRIVER=memory and in tests.
type MemoryTaskRepository struct {
	mu    sync.RWMutex
	tasks map[string]*models.Task
}

func NewMemoryTaskRepository() *MemoryTaskRepository {
	return &MemoryTaskRepository{tasks: make(map[string]*models.Task)}
}

func cloneTask(t *models.Task) *models.Task {
	c := *t
	c.AssignedTo = append(models.Assignees(nil), t.AssignedTo...)
	return &c
}

func (r *MemoryTaskRepository) Create(_ context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	task.ID = primitive.NewObjectID()
	task.CreatedAt = now
	task.UpdatedAt = now
	r.tasks[task.ID.Hex()] = cloneTask(task)
	return nil
}

func (r *MemoryTaskRepository) FindByID(_ context.Context, id string) (*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tasks[id]
	if !ok {
		return nil, errTaskNotFound
	}
	return cloneTask(t), nil
}

func (r *MemoryTaskRepository) ListByProject(_ context.Context, projectID string, filter models.TaskFilter) ([]*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	search := strings.ToLower(filter.Search)
	tasks := []*models.Task{}
	for _, t := range r.tasks {
		switch {
		case t.ProjectID != projectID:
			continue
		case filter.Status != "" && t.Status != filter.Status:
			continue
		case filter.Priority != "" && t.Priority != filter.Priority:
			continue
		case filter.AssignedTo != "" && !t.AssignedTo.Contains(filter.AssignedTo):
			continue
		case search != "" &&
			!strings.Contains(strings.ToLower(t.Title), search) &&
			!strings.Contains(strings.ToLower(t.Description), search):
			continue
		}
		tasks = append(tasks, cloneTask(t))
	}

	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].ID.Hex() > tasks[j].ID.Hex()
		}
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	return tasks, nil
}

func (r *MemoryTaskRepository) Update(_ context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := task.ID.Hex()
	if _, ok := r.tasks[key]; !ok {
		return errTaskNotFound
	}
	task.UpdatedAt = time.Now().UTC()
	r.tasks[key] = cloneTask(task)
	return nil
}

func (r *MemoryTaskRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return errTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}
