package services

import (
	"context"
	"sync"
	"testing"

	"github.com/devarko/thunderstorm/backend/internal/models"
	"github.com/devarko/thunderstorm/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// memUserRepo is an in-memory UserRepository mimicking the document store,
// including its unique-index duplicate-key failures.
type memUserRepo struct {
	mu    sync.Mutex
	users map[int64]*models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[int64]*models.User)}
}

func duplicateKeyError(field string) error {
	return mongo.WriteException{WriteErrors: []mongo.WriteError{{
		Code:    11000,
		Message: "E11000 duplicate key error index: " + field,
	}}}
}

func (r *memUserRepo) CreateUser(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.UserID]; ok {
		return duplicateKeyError("user_id")
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return duplicateKeyError("email_id")
		}
		if u.Username == user.Username {
			return duplicateKeyError("user_name")
		}
	}
	clone := *user
	r.users[user.UserID] = &clone
	return nil
}

func (r *memUserRepo) get(userID int64) (*models.User, error) {
	u, ok := r.users[userID]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	clone := *u
	clone.Following = append([]int64(nil), u.Following...)
	clone.Followers = append([]int64(nil), u.Followers...)
	return &clone, nil
}

func (r *memUserRepo) GetUserByUserID(_ context.Context, userID int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(userID)
}

func (r *memUserRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, u := range r.users {
		if u.Email == email {
			return r.get(id)
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *memUserRepo) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, u := range r.users {
		if u.Username == username {
			return r.get(id)
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *memUserRepo) GetUsersByUserIDs(_ context.Context, userIDs []int64) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for _, id := range userIDs {
		if u, ok := r.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *memUserRepo) UpdateUser(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[user.UserID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	stored.Name = user.Name
	stored.Username = user.Username
	stored.Gender = user.Gender
	stored.Mobile = user.Mobile
	return nil
}

func (r *memUserRepo) MaxUserID(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var max int64
	for id := range r.users {
		if id > max {
			max = id
		}
	}
	return max, nil
}

func (r *memUserRepo) AddFollowing(_ context.Context, userID, targetID int64) error {
	return r.mutateSet(userID, func(u *models.User) {
		if !contains(u.Following, targetID) {
			u.Following = append(u.Following, targetID)
		}
	})
}

func (r *memUserRepo) RemoveFollowing(_ context.Context, userID, targetID int64) error {
	return r.mutateSet(userID, func(u *models.User) {
		u.Following = remove(u.Following, targetID)
	})
}

func (r *memUserRepo) AddFollower(_ context.Context, userID, followerID int64) error {
	return r.mutateSet(userID, func(u *models.User) {
		if !contains(u.Followers, followerID) {
			u.Followers = append(u.Followers, followerID)
		}
	})
}

func (r *memUserRepo) RemoveFollower(_ context.Context, userID, followerID int64) error {
	return r.mutateSet(userID, func(u *models.User) {
		u.Followers = remove(u.Followers, followerID)
	})
}

func (r *memUserRepo) mutateSet(userID int64, fn func(*models.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	fn(u)
	return nil
}

func contains(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func remove(ids []int64, id int64) []int64 {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// memPostRepo is an in-memory PostRepository.
type memPostRepo struct {
	mu    sync.Mutex
	posts map[string]*models.Post
}

func newMemPostRepo() *memPostRepo {
	return &memPostRepo{posts: make(map[string]*models.Post)}
}

func (r *memPostRepo) CreatePost(_ context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	post.ID = primitive.NewObjectID()
	clone := *post
	r.posts[post.ID.Hex()] = &clone
	return nil
}

func (r *memPostRepo) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, repositories.ErrPostNotFound
	}
	clone := *p
	clone.Likes = append([]int64(nil), p.Likes...)
	return &clone, nil
}

func (r *memPostRepo) AddLike(_ context.Context, id string, userID int64) error {
	return r.mutate(id, func(p *models.Post) {
		if !contains(p.Likes, userID) {
			p.Likes = append(p.Likes, userID)
		}
	})
}

func (r *memPostRepo) RemoveLike(_ context.Context, id string, userID int64) error {
	return r.mutate(id, func(p *models.Post) {
		p.Likes = remove(p.Likes, userID)
	})
}

func (r *memPostRepo) MarkDeleted(_ context.Context, id string) error {
	return r.mutate(id, func(p *models.Post) {
		p.Deleted = true
	})
}

func (r *memPostRepo) GetPublicPosts(_ context.Context, skip, limit int64) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Post
	for _, p := range r.posts {
		if p.IsPublic && !p.Deleted {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *memPostRepo) mutate(id string, fn func(*models.Post)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return repositories.ErrPostNotFound
	}
	fn(p)
	return nil
}

// newTestAuditRepo backs the journal with an in-memory sqlite database.
func newTestAuditRepo(t *testing.T) *repositories.GormAuditRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.GraphAudit{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return repositories.NewGormAuditRepository(db)
}
