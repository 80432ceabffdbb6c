package stores

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/zeeshanfreelancer/memegenerator/models"
	"github.com/zeeshanfreelancer/memegenerator/services"
)

// snapshotSort is the fixed order of the unfiltered snapshot: popularity
// descending, then creation time descending.
var snapshotSort = bson.D{{Key: "popularity", Value: -1}, {Key: "createdAt", Value: -1}}

// TemplateStore persists templates in the "templates" collection.
type TemplateStore struct {
	coll *mongo.Collection
}

func NewTemplateStore(db *mongo.Database) *TemplateStore {
	return &TemplateStore{coll: db.Collection("templates")}
}

func (s *TemplateStore) Find(ctx context.Context, filter bson.M, sort bson.D, skip, limit int64) ([]models.Template, error) {
	opts := options.Find().SetSort(sort).SetSkip(skip).SetLimit(limit)
	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find templates: %w", err)
	}
	defer cursor.Close(ctx)

	var templates []models.Template
	if err := cursor.All(ctx, &templates); err != nil {
		return nil, fmt.Errorf("decode templates: %w", err)
	}
	return templates, nil
}

func (s *TemplateStore) Count(ctx context.Context, filter bson.M) (int64, error) {
	count, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count templates: %w", err)
	}
	return count, nil
}

func (s *TemplateStore) FindAllActive(ctx context.Context) ([]models.Template, error) {
	return s.Find(ctx, bson.M{"status": models.TemplateStatusActive}, snapshotSort, 0, 0)
}

func (s *TemplateStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Template, error) {
	var t models.Template
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, services.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find template: %w", err)
	}
	return &t, nil
}

func (s *TemplateStore) Insert(ctx context.Context, t *models.Template) (primitive.ObjectID, error) {
	result, err := s.coll.InsertOne(ctx, t)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert template: %w", err)
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

func (s *TemplateStore) InsertMany(ctx context.Context, ts []models.Template) error {
	docs := make([]interface{}, 0, len(ts))
	for _, t := range ts {
		docs = append(docs, t)
	}
	if _, err := s.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert templates: %w", err)
	}
	return nil
}

func (s *TemplateStore) IncrementViews(ctx context.Context, id primitive.ObjectID) error {
	return s.increment(ctx, id, bson.M{"views": 1})
}

func (s *TemplateStore) IncrementUsage(ctx context.Context, id primitive.ObjectID) error {
	return s.increment(ctx, id, bson.M{"usageCount": 1})
}

// AdjustPopularity applies an atomic delta. Decrements are guarded by a
// popularity > 0 filter so the counter never goes negative; a guarded miss
// is a no-op, not an error.
func (s *TemplateStore) AdjustPopularity(ctx context.Context, id primitive.ObjectID, delta int) error {
	filter := bson.M{"_id": id}
	if delta < 0 {
		filter["popularity"] = bson.M{"$gt": 0}
	}
	_, err := s.coll.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"popularity": delta}})
	if err != nil {
		return fmt.Errorf("adjust popularity: %w", err)
	}
	return nil
}

func (s *TemplateStore) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	result, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return fmt.Errorf("set template status: %w", err)
	}
	if result.MatchedCount == 0 {
		return services.ErrNotFound
	}
	return nil
}

func (s *TemplateStore) increment(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	result, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": fields})
	if err != nil {
		return fmt.Errorf("increment template counters: %w", err)
	}
	if result.MatchedCount == 0 {
		return services.ErrNotFound
	}
	return nil
}
