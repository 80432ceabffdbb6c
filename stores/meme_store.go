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

// MemeStore persists memes in the "memes" collection.
type MemeStore struct {
	coll *mongo.Collection
}

func NewMemeStore(db *mongo.Database) *MemeStore {
	return &MemeStore{coll: db.Collection("memes")}
}

func (s *MemeStore) Insert(ctx context.Context, m *models.Meme) (primitive.ObjectID, error) {
	result, err := s.coll.InsertOne(ctx, m)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert meme: %w", err)
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

func (s *MemeStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Meme, error) {
	var m models.Meme
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, services.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find meme: %w", err)
	}
	return &m, nil
}

func (s *MemeStore) Find(ctx context.Context, filter bson.M, skip, limit int64) ([]models.Meme, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find memes: %w", err)
	}
	defer cursor.Close(ctx)

	var memes []models.Meme
	if err := cursor.All(ctx, &memes); err != nil {
		return nil, fmt.Errorf("decode memes: %w", err)
	}
	return memes, nil
}

func (s *MemeStore) Count(ctx context.Context, filter bson.M) (int64, error) {
	count, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count memes: %w", err)
	}
	return count, nil
}

func (s *MemeStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete meme: %w", err)
	}
	if result.DeletedCount == 0 {
		return services.ErrNotFound
	}
	return nil
}

// AddLike adds userID to the like set with $addToSet and, only when the set
// actually grew, bumps likesCount. The membership guard makes the paired
// increment safe under concurrent toggles by different users.
func (s *MemeStore) AddLike(ctx context.Context, memeID, userID primitive.ObjectID) (bool, error) {
	result, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": memeID},
		bson.M{"$addToSet": bson.M{"likes": userID}},
	)
	if err != nil {
		return false, fmt.Errorf("add like: %w", err)
	}
	if result.MatchedCount == 0 {
		return false, services.ErrNotFound
	}
	if result.ModifiedCount == 0 {
		return false, nil
	}

	if _, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": memeID},
		bson.M{"$inc": bson.M{"likesCount": 1}},
	); err != nil {
		return false, fmt.Errorf("increment like count: %w", err)
	}
	return true, nil
}

// RemoveLike is the inverse of AddLike.
func (s *MemeStore) RemoveLike(ctx context.Context, memeID, userID primitive.ObjectID) (bool, error) {
	result, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": memeID},
		bson.M{"$pull": bson.M{"likes": userID}},
	)
	if err != nil {
		return false, fmt.Errorf("remove like: %w", err)
	}
	if result.MatchedCount == 0 {
		return false, services.ErrNotFound
	}
	if result.ModifiedCount == 0 {
		return false, nil
	}

	if _, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": memeID},
		bson.M{"$inc": bson.M{"likesCount": -1}},
	); err != nil {
		return false, fmt.Errorf("decrement like count: %w", err)
	}
	return true, nil
}
