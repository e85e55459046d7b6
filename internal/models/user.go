package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents an account document stored in MongoDB. UserID is the public
// identifier used throughout the API; the Mongo ObjectID stays internal.
type User struct {
	ID        primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	UserID    int64              `json:"user_id" bson:"user_id"`
	Name      string             `json:"name" bson:"name"`
	Email     string             `json:"email_id" bson:"email_id"`
	Username  string             `json:"user_name" bson:"user_name"`
	Password  string             `json:"-" bson:"password"` // bcrypt digest, never serialized
	Gender    string             `json:"gender" bson:"gender"`
	Mobile    string             `json:"mobile,omitempty" bson:"mobile,omitempty"`
	Following []int64            `json:"following" bson:"following"`
	Followers []int64            `json:"followers" bson:"followers"`
}

// UserSummary is the minimal account view returned by follower/following and
// liked-users listings.
type UserSummary struct {
	UserID   int64  `json:"user_id" bson:"user_id"`
	Name     string `json:"name" bson:"name"`
	Username string `json:"user_name" bson:"user_name"`
}

// Summary projects the listing view of a user.
func (u *User) Summary() UserSummary {
	return UserSummary{UserID: u.UserID, Name: u.Name, Username: u.Username}
}

// IsFollowing reports whether id is in the user's following list.
func (u *User) IsFollowing(id int64) bool {
	for _, f := range u.Following {
		if f == id {
			return true
		}
	}
	return false
}

// RegisterRequest defines the request body for user registration.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email_id" validate:"required,email"`
	Password string `json:"password" validate:"required,strongpassword"`
	Username string `json:"user_name" validate:"required,min=2,max=30"`
	Gender   string `json:"gender" validate:"required,oneof=male female other"`
	Mobile   string `json:"mobile,omitempty" validate:"omitempty,mobile"`
}

// LoginRequest defines the request body for user login.
type LoginRequest struct {
	Email    string `json:"email_id" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest defines the request body for profile updates.
type UpdateProfileRequest struct {
	Name     string `json:"name,omitempty" validate:"omitempty,min=2,max=50"`
	Username string `json:"user_name,omitempty" validate:"omitempty,min=2,max=30"`
	Gender   string `json:"gender,omitempty" validate:"omitempty,oneof=male female other"`
	Mobile   string `json:"mobile,omitempty" validate:"omitempty,mobile"`
}
