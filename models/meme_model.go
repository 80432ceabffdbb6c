package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemeText is one user-supplied caption placed on the meme image.
type MemeText struct {
	Content    string  `json:"content" bson:"content" validate:"required"`
	X          float64 `json:"x" bson:"x"`
	Y          float64 `json:"y" bson:"y"`
	FontSize   int     `json:"fontSize" bson:"fontSize"`
	FontFamily string  `json:"fontFamily" bson:"fontFamily"`
	Color      string  `json:"color" bson:"color"`
}

// Meme references exactly one template. Likes holds each user id at most
// once; LikesCount tracks len(Likes) and is maintained by the like toggle.
type Meme struct {
	ID         primitive.ObjectID   `json:"_id,omitempty" bson:"_id,omitempty"`
	CreatedBy  primitive.ObjectID   `json:"createdBy" bson:"createdBy"`
	Template   primitive.ObjectID   `json:"template" bson:"template"`
	ImageURL   string               `json:"imageUrl" bson:"imageUrl"`
	PublicID   string               `json:"publicId,omitempty" bson:"publicId,omitempty"`
	Texts      []MemeText           `json:"texts" bson:"texts"`
	Likes      []primitive.ObjectID `json:"likes" bson:"likes"`
	LikesCount int                  `json:"likesCount" bson:"likesCount"`
	CreatedAt  time.Time            `json:"createdAt" bson:"createdAt"`
}
