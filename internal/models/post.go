package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a post document stored in MongoDB. Likes holds the user ids
// that liked the post, with set semantics. Deleted posts stay in storage and
// remain reachable by id but are excluded from listings.
type Post struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Text      string             `json:"text" bson:"text"`
	Images    []string           `json:"images,omitempty" bson:"images,omitempty"`
	Videos    []string           `json:"videos,omitempty" bson:"videos,omitempty"`
	IsPublic  bool               `json:"is_public" bson:"is_public"`
	Likes     []int64            `json:"likes" bson:"likes"`
	Deleted   bool               `json:"deleted" bson:"deleted"`
	AuthorID  int64              `json:"author_id" bson:"author_id"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// LikedBy reports whether the given user id is in the post's like set.
func (p *Post) LikedBy(userID int64) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// CreatePostRequest defines the request body for uploading a post.
type CreatePostRequest struct {
	Text     string   `json:"text" validate:"required,min=1,max=1000"`
	Images   []string `json:"images,omitempty" validate:"omitempty,dive,url"`
	Videos   []string `json:"videos,omitempty" validate:"omitempty,dive,url"`
	IsPublic *bool    `json:"is_public,omitempty"`
}
