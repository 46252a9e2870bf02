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

	"taskboard/backend/projects-service/models"
	"taskboard/backend/utils"
)

// ProjectRepository persists projects. Unknown or malformed ids yield a NotFound fault.
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	FindByID(ctx context.Context, id string) (*models.Project, error)
	ListForUser(ctx context.Context, userID string) ([]*models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id string) error
	AddMember(ctx context.Context, id, memberID string) (*models.Project, error)
	RemoveMember(ctx context.Context, id, memberID string) (*models.Project, error)
}

var errProjectNotFound = utils.NewNotFound("Project not found")

type MongoProjectRepository struct {
	collection *mongo.Collection
}

func NewMongoProjectRepository(collection *mongo.Collection) *MongoProjectRepository {
	return &MongoProjectRepository{collection: collection}
}

// EnsureIndexes indexes the fields used by the per-user listing.
func (r *MongoProjectRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "ownerId", Value: 1}}},
		{Keys: bson.D{{Key: "members", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create project indexes: %w", err)
	}
	return nil
}

func (r *MongoProjectRepository) Create(ctx context.Context, project *models.Project) error {
	now := time.Now().UTC()
	project.ID = primitive.NewObjectID()
	project.CreatedAt = now
	project.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, project); err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

func (r *MongoProjectRepository) FindByID(ctx context.Context, id string) (*models.Project, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errProjectNotFound
	}

	var project models.Project
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&project); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return &project, nil
}

// visibleToQuery matches projects userID owns or belongs to.
func visibleToQuery(userID string) bson.M {
	return bson.M{"$or": []bson.M{{"ownerId": userID}, {"members": userID}}}
}

func membershipUpdate(op, memberID string, now time.Time) bson.M {
	return bson.M{
		op:     bson.M{"members": memberID},
		"$set": bson.M{"updatedAt": now},
	}
}

func (r *MongoProjectRepository) ListForUser(ctx context.Context, userID string) ([]*models.Project, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, visibleToQuery(userID), opts)
	if err != nil {
		return nil, fmt.Errorf("unsuccessful procurement of projects: %w", err)
	}
	defer cursor.Close(ctx)

	projects := []*models.Project{}
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, fmt.Errorf("unsuccessful decoding of projects: %w", err)
	}
	return projects, nil
}

// Update replaces the stored document; the last writer wins.
func (r *MongoProjectRepository) Update(ctx context.Context, project *models.Project) error {
	project.UpdatedAt = time.Now().UTC()

	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": project.ID}, project)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	if res.MatchedCount == 0 {
		return errProjectNotFound
	}
	return nil
}

func (r *MongoProjectRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errProjectNotFound
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if res.DeletedCount == 0 {
		return errProjectNotFound
	}
	return nil
}

// AddMember adds memberID with $addToSet, so repeated calls leave a single entry.
func (r *MongoProjectRepository) AddMember(ctx context.Context, id, memberID string) (*models.Project, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errProjectNotFound
	}

	update := membershipUpdate("$addToSet", memberID, time.Now().UTC())
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var project models.Project
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&project); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errProjectNotFound
		}
		return nil, fmt.Errorf("failed to add member: %w", err)
	}
	return &project, nil
}

func (r *MongoProjectRepository) RemoveMember(ctx context.Context, id, memberID string) (*models.Project, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errProjectNotFound
	}

	update := membershipUpdate("$pull", memberID, time.Now().UTC())
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var project models.Project
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&project); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errProjectNotFound
		}
		return nil, fmt.Errorf("failed to remove member: %w", err)
	}
	return &project, nil
}

// MemoryProjectRepository keeps projects in process; used with STORE_DRIVER=memory and in tests.
type MemoryProjectRepository struct {
	mu       sync.RWMutex
	projects map[string]*models.Project
}

func NewMemoryProjectRepository() *MemoryProjectRepository {
	return &MemoryProjectRepository{projects: make(map[string]*models.Project)}
}

func cloneProject(p *models.Project) *models.Project {
	c := *p
	c.Members = append([]string(nil), p.Members...)
	return &c
}

func (r *MemoryProjectRepository) Create(_ context.Context, project *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	project.ID = primitive.NewObjectID()
	project.CreatedAt = now
	project.UpdatedAt = now
	r.projects[project.ID.Hex()] = cloneProject(project)
	return nil
}

func (r *MemoryProjectRepository) FindByID(_ context.Context, id string) (*models.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.projects[id]
	if !ok {
		return nil, errProjectNotFound
	}
	return cloneProject(p), nil
}

func (r *MemoryProjectRepository) ListForUser(_ context.Context, userID string) ([]*models.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	projects := []*models.Project{}
	for _, p := range r.projects {
		if p.OwnerID == userID || p.HasMember(userID) {
			projects = append(projects, cloneProject(p))
		}
	}
	sort.Slice(projects, func(i, j int) bool {
		return projects[i].CreatedAt.After(projects[j].CreatedAt)
	})
	return projects, nil
}

func (r *MemoryProjectRepository) Update(_ context.Context, project *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := project.ID.Hex()
	if _, ok := r.projects[key]; !ok {
		return errProjectNotFound
	}
	project.UpdatedAt = time.Now().UTC()
	r.projects[key] = cloneProject(project)
	return nil
}

func (r *MemoryProjectRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.projects[id]; !ok {
		return errProjectNotFound
	}
	delete(r.projects, id)
	return nil
}

func (r *MemoryProjectRepository) AddMember(_ context.Context, id, memberID string) (*models.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.projects[id]
	if !ok {
		return nil, errProjectNotFound
	}
	if !p.HasMember(memberID) {
		p.Members = append(p.Members, memberID)
		p.UpdatedAt = time.Now().UTC()
	}
	return cloneProject(p), nil
}

func (r *MemoryProjectRepository) RemoveMember(_ context.Context, id, memberID string) (*models.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.projects[id]
	if !ok {
		return nil, errProjectNotFound
	}
	members := p.Members[:0:0]
	for _, m := range p.Members {
		if m != memberID {
			members = append(members, m)
		}
	}
	p.Members = members
	p.UpdatedAt = time.Now().UTC()
	return cloneProject(p), nil
}
