package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"taskboard/backend/comments-service/models"
	"taskboard/backend/utils"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	FindByID(ctx context.Context, id string) (*models.Comment, error)
	ListByTask(ctx context.Context, taskID string) ([]*models.Comment, error)
	UpdateContent(ctx context.Context, id, content string) (*models.Comment, error)
	Delete(ctx context.Context, id string) error
}

var errCommentNotFound = utils.NewNotFound("Comment not found")

type MongoCommentRepository struct {
	collection *mongo.Collection
}

func NewMongoCommentRepository(collection *mongo.Collection) *MongoCommentRepository {
	return &MongoCommentRepository{collection: collection}
}

func (r *MongoCommentRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "taskId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create comment index: %w", err)
	}
	return nil
}

func (r *MongoCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	now := time.Now().UTC()
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = now
	comment.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, comment); err != nil {
		return fmt.Errorf("failed to save comment: %w", err)
	}
	return nil
}

func (r *MongoCommentRepository) FindByID(ctx context.Context, id string) (*models.Comment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errCommentNotFound
	}

	var comment models.Comment
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&comment); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errCommentNotFound
		}
		return nil, fmt.Errorf("failed to find comment: %w", err)
	}
	return &comment, nil
}

func (r *MongoCommentRepository) ListByTask(ctx context.Context, taskID string) ([]*models.Comment, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"taskId": taskID}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch comments: %w", err)
	}
	defer cursor.Close(ctx)

	comments := []*models.Comment{}
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, fmt.Errorf("failed to decode comments: %w", err)
	}
	return comments, nil
}

// UpdateContent changes only the content; the author fields are never rewritten.
func (r *MongoCommentRepository) UpdateContent(ctx context.Context, id, content string) (*models.Comment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errCommentNotFound
	}

	update := bson.M{"$set": bson.M{"content": content, "updatedAt": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var comment models.Comment
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&comment); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errCommentNotFound
		}
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}
	return &comment, nil
}

func (r *MongoCommentRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errCommentNotFound
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if res.DeletedCount == 0 {
		return errCommentNotFound
	}
	return nil
}

// MemoryCommentRepository keeps comments in process; used with STORE_DRIVER=memory and in tests.
type MemoryCommentRepository struct {
	mu       sync.RWMutex
	comments map[string]*models.Comment
}

func NewMemoryCommentRepository() *MemoryCommentRepository {
	return &MemoryCommentRepository{comments: make(map[string]*models.Comment)}
}

func (r *MemoryCommentRepository) Create(_ context.Context, comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = now
	comment.UpdatedAt = now
	c := *comment
	r.comments[comment.ID.Hex()] = &c
	return nil
}

func (r *MemoryCommentRepository) FindByID(_ context.Context, id string) (*models.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.comments[id]
	if !ok {
		return nil, errCommentNotFound
	}
	found := *c
	return &found, nil
}

func (r *MemoryCommentRepository) ListByTask(_ context.Context, taskID string) ([]*models.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	comments := []*models.Comment{}
	for _, c := range r.comments {
		if c.TaskID == taskID {
			found := *c
			comments = append(comments, &found)
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		if comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].ID.Hex() > comments[j].ID.Hex()
		}
		return comments[i].CreatedAt.After(comments[j].CreatedAt)
	})
	return comments, nil
}

func (r *MemoryCommentRepository) UpdateContent(_ context.Context, id, content string) (*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.comments[id]
	if !ok {
		return nil, errCommentNotFound
	}
	c.Content = content
	c.UpdatedAt = time.Now().UTC()
	found := *c
	return &found, nil
}

func (r *MemoryCommentRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.comments[id]; !ok {
		return errCommentNotFound
	}
	delete(r.comments, id)
	return nil
}
