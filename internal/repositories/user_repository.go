package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/devarko/thunderstorm/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrUserNotFound is returned when no user document matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByUserID(ctx context.Context, userID int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUsersByUserIDs(ctx context.Context, userIDs []int64) ([]models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	MaxUserID(ctx context.Context) (int64, error)
	AddFollowing(ctx context.Context, userID, targetID int64) error
	RemoveFollowing(ctx context.Context, userID, targetID int64) error
	AddFollower(ctx context.Context, userID, followerID int64) error
	RemoveFollower(ctx context.Context, userID, followerID int64) error
}

// MongoUserRepository implements UserRepository for MongoDB.
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoUserRepository.
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{collection: db.Collection("users")}
}

// CreateUser inserts a new user document. The unique index on user_id makes
// the losing side of a concurrent registration fail with a duplicate-key
// error instead of corrupting the id sequence.
func (r *MongoUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	_, err := r.collection.InsertOne(ctx, user)
	return err
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByUserID retrieves a user by public user id.
func (r *MongoUserRepository) GetUserByUserID(ctx context.Context, userID int64) (*models.User, error) {
	return r.findOne(ctx, bson.M{"user_id": userID})
}

// GetUserByEmail retrieves a user by email.
func (r *MongoUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email_id": email})
}

// GetUserByUsername retrieves a user by username.
func (r *MongoUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"user_name": username})
}

// GetUsersByUserIDs retrieves all users whose user_id is in the given set.
// Ids with no matching account are silently dropped.
func (r *MongoUserRepository) GetUsersByUserIDs(ctx context.Context, userIDs []int64) ([]models.User, error) {
	if len(userIDs) == 0 {
		return []models.User{}, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": bson.M{"$in": userIDs}},
		options.Find().SetSort(bson.D{{Key: "user_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUser saves the mutable profile fields of an existing user.
func (r *MongoUserRepository) UpdateUser(ctx context.Context, user *models.User) error {
	update := bson.M{"$set": bson.M{
		"name":      user.Name,
		"user_name": user.Username,
		"gender":    user.Gender,
		"mobile":    user.Mobile,
	}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"user_id": user.UserID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// MaxUserID returns the highest assigned user id, or 0 when no users exist.
func (r *MongoUserRepository) MaxUserID(ctx context.Context) (int64, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{},
		options.FindOne().SetSort(bson.D{{Key: "user_id", Value: -1}})).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, nil
		}
		return 0, err
	}
	return user.UserID, nil
}

// AddFollowing adds targetID to the user's following set. $addToSet keeps the
// membership a set under concurrent writers.
func (r *MongoUserRepository) AddFollowing(ctx context.Context, userID, targetID int64) error {
	return r.updateSet(ctx, userID, bson.M{"$addToSet": bson.M{"following": targetID}})
}

// RemoveFollowing removes targetID from the user's following set.
func (r *MongoUserRepository) RemoveFollowing(ctx context.Context, userID, targetID int64) error {
	return r.updateSet(ctx, userID, bson.M{"$pull": bson.M{"following": targetID}})
}

// AddFollower adds followerID to the user's followers set.
func (r *MongoUserRepository) AddFollower(ctx context.Context, userID, followerID int64) error {
	return r.updateSet(ctx, userID, bson.M{"$addToSet": bson.M{"followers": followerID}})
}

// RemoveFollower removes followerID from the user's followers set.
func (r *MongoUserRepository) RemoveFollower(ctx context.Context, userID, followerID int64) error {
	return r.updateSet(ctx, userID, bson.M{"$pull": bson.M{"followers": followerID}})
}

func (r *MongoUserRepository) updateSet(ctx context.Context, userID int64, update bson.M) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"user_id": userID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// IsDuplicateKeyOn reports whether err is a Mongo duplicate-key error on an
// index covering the given field.
func IsDuplicateKeyOn(err error, field string) bool {
	return mongo.IsDuplicateKeyError(err) && strings.Contains(err.Error(), field)
}
