package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the minimal identity record the backend consults. Token issuance
// happens elsewhere; this service only resolves tokens to user ids.
type User struct {
	ID        primitive.ObjectID   `json:"_id,omitempty" bson:"_id,omitempty"`
	Username  string               `json:"username" bson:"username" validate:"required"`
	Token     string               `json:"-" bson:"token"`
	Favorites []primitive.ObjectID `json:"favorites" bson:"favorites"`
	CreatedAt time.Time            `json:"createdAt" bson:"createdAt"`
}
