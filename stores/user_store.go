package stores

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/zeeshanfreelancer/memegenerator/models"
	"github.com/zeeshanfreelancer/memegenerator/services"
)

// UserStore persists users in the "users" collection.
type UserStore struct {
	coll *mongo.Collection
}

func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{coll: db.Collection("users")}
}

func (s *UserStore) FindByToken(ctx context.Context, token string) (*models.User, error) {
	var u models.User
	err := s.coll.FindOne(ctx, bson.M{"token": token}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, services.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user by token: %w", err)
	}
	return &u, nil
}

// AddFavorite adds the template to the user's favorites set. Reports false
// when it was already present.
func (s *UserStore) AddFavorite(ctx context.Context, userID, templateID primitive.ObjectID) (bool, error) {
	result, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$addToSet": bson.M{"favorites": templateID}},
	)
	if err != nil {
		return false, fmt.Errorf("add favorite: %w", err)
	}
	if result.MatchedCount == 0 {
		return false, services.ErrNotFound
	}
	return result.ModifiedCount > 0, nil
}

// RemoveFavorite removes the template from the user's favorites set. Reports
// false when it was not present.
func (s *UserStore) RemoveFavorite(ctx context.Context, userID, templateID primitive.ObjectID) (bool, error) {
	result, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$pull": bson.M{"favorites": templateID}},
	)
	if err != nil {
		return false, fmt.Errorf("remove favorite: %w", err)
	}
	if result.MatchedCount == 0 {
		return false, services.ErrNotFound
	}
	return result.ModifiedCount > 0, nil
}
