package stores

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// SeedLockStore hands out seeding locks through the "seed_locks" collection.
// The unique _id turns concurrent inserts into a compare-and-swap: exactly
// one caller wins, everyone else sees a duplicate key.
type SeedLockStore struct {
	coll *mongo.Collection
}

func NewSeedLockStore(db *mongo.Database) *SeedLockStore {
	return &SeedLockStore{coll: db.Collection("seed_locks")}
}

func (s *SeedLockStore) Acquire(ctx context.Context, name string) (bool, error) {
	_, err := s.coll.InsertOne(ctx, bson.M{
		"_id":       name,
		"createdAt": time.Now(),
	})
	if mongo.IsDuplicateKeyError(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("acquire seed lock: %w", err)
	}
	return true, nil
}

func (s *SeedLockStore) Release(ctx context.Context, name string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": name}); err != nil {
		return fmt.Errorf("release seed lock: %w", err)
	}
	return nil
}
