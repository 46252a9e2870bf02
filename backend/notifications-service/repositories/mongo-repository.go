package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"taskboard/backend/notifications-service/models"
)

type MongoNotificationRepository struct {
	collection *mongo.Collection
}

func NewMongoNotificationRepository(collection *mongo.Collection) *MongoNotificationRepository {
	return &MongoNotificationRepository{collection: collection}
}

func (r *MongoNotificationRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create notification index: %w", err)
	}
	return nil
}

func (r *MongoNotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	now := time.Now().UTC()
	n.ID = primitive.NewObjectID().Hex()
	n.CreatedAt = now
	n.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, n); err != nil {
		return fmt.Errorf("failed to save notification: %w", err)
	}
	return nil
}

// recipientFilter scopes a single-document operation to the notification's recipient.
func recipientFilter(userID, id string) bson.M {
	return bson.M{"_id": id, "userId": userID}
}

func unreadFilter(userID string) bson.M {
	return bson.M{"userId": userID, "read": false}
}

func markReadUpdate(now time.Time) bson.M {
	return bson.M{"$set": bson.M{"read": true, "updatedAt": now}}
}

func (r *MongoNotificationRepository) ListForUser(ctx context.Context, userID string, limit int) ([]*models.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}
	defer cursor.Close(ctx)

	out := []*models.Notification{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}
	return out, nil
}

func (r *MongoNotificationRepository) MarkRead(ctx context.Context, userID, id string) (*models.Notification, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var n models.Notification
	if err := r.collection.FindOneAndUpdate(ctx, recipientFilter(userID, id), markReadUpdate(time.Now().UTC()), opts).Decode(&n); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errNotificationNotFound
		}
		return nil, fmt.Errorf("failed to mark notification read: %w", err)
	}
	return &n, nil
}

func (r *MongoNotificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	res, err := r.collection.UpdateMany(ctx, unreadFilter(userID), markReadUpdate(time.Now().UTC()))
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return res.ModifiedCount, nil
}

func (r *MongoNotificationRepository) Delete(ctx context.Context, userID, id string) (*models.Notification, error) {
	var n models.Notification
	if err := r.collection.FindOneAndDelete(ctx, recipientFilter(userID, id)).Decode(&n); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errNotificationNotFound
		}
		return nil, fmt.Errorf("failed to delete notification: %w", err)
	}
	return &n, nil
}
