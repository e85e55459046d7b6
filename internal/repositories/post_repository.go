package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/devarko/thunderstorm/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrPostNotFound is returned when no post document matches the lookup.
var ErrPostNotFound = errors.New("post not found")

// PostRepository defines the interface for post data operations.
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	AddLike(ctx context.Context, id string, userID int64) error
	RemoveLike(ctx context.Context, id string, userID int64) error
	MarkDeleted(ctx context.Context, id string) error
	GetPublicPosts(ctx context.Context, skip, limit int64) ([]models.Post, error)
}

// MongoPostRepository implements PostRepository for MongoDB.
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository.
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// CreatePost inserts a new post document.
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

// GetPostByID retrieves a post by hex id. Deleted posts are still returned;
// visibility decisions belong to the caller.
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// A malformed id cannot name an existing post.
		return nil, ErrPostNotFound
	}

	var post models.Post
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// AddLike adds userID to the post's like set. The single-document $addToSet
// keeps concurrent like/unlike on the same post serialized by the store.
func (r *MongoPostRepository) AddLike(ctx context.Context, id string, userID int64) error {
	return r.updateByID(ctx, id, bson.M{
		"$addToSet": bson.M{"likes": userID},
		"$set":      bson.M{"updated_at": time.Now()},
	})
}

// RemoveLike removes userID from the post's like set.
func (r *MongoPostRepository) RemoveLike(ctx context.Context, id string, userID int64) error {
	return r.updateByID(ctx, id, bson.M{
		"$pull": bson.M{"likes": userID},
		"$set":  bson.M{"updated_at": time.Now()},
	})
}

// MarkDeleted soft-deletes a post. The document stays in storage.
func (r *MongoPostRepository) MarkDeleted(ctx context.Context, id string) error {
	return r.updateByID(ctx, id, bson.M{
		"$set": bson.M{"deleted": true, "updated_at": time.Now()},
	})
}

func (r *MongoPostRepository) updateByID(ctx context.Context, id string, update bson.M) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrPostNotFound
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}

// GetPublicPosts retrieves public, non-deleted posts, newest first.
func (r *MongoPostRepository) GetPublicPosts(ctx context.Context, skip, limit int64) ([]models.Post, error) {
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).
		SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"is_public": true, "deleted": false}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}
