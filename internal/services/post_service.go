package services

import (
	"context"

	"github.com/devarko/thunderstorm/backend/internal/models"
	"github.com/devarko/thunderstorm/backend/internal/repositories"
)

// PostService handles post creation, visibility and soft deletion.
type PostService struct {
	posts repositories.PostRepository
	users repositories.UserRepository
}

// NewPostService creates a new PostService.
func NewPostService(posts repositories.PostRepository, users repositories.UserRepository) *PostService {
	return &PostService{posts: posts, users: users}
}

// Upload creates a post owned by the caller. Posts are public unless the
// request says otherwise.
func (s *PostService) Upload(ctx context.Context, authorID int64, req models.CreatePostRequest) (*models.Post, error) {
	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}
	post := &models.Post{
		Text:     req.Text,
		Images:   req.Images,
		Videos:   req.Videos,
		IsPublic: isPublic,
		Likes:    []int64{},
		AuthorID: authorID,
	}
	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Delete soft-deletes a post. Only the author may delete; the record stays in
// storage and remains reachable by id.
func (s *PostService) Delete(ctx context.Context, callerID int64, postID string) error {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != callerID {
		return ErrForbidden
	}
	return s.posts.MarkDeleted(ctx, postID)
}

// Explore lists public posts, excluding soft-deleted ones.
func (s *PostService) Explore(ctx context.Context, skip, limit int64) ([]models.Post, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.posts.GetPublicPosts(ctx, skip, limit)
}

// LikedUsers resolves a post's like set to account summaries.
func (s *PostService) LikedUsers(ctx context.Context, postID string) ([]models.UserSummary, error) {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	users, err := s.users.GetUsersByUserIDs(ctx, post.Likes)
	if err != nil {
		return nil, err
	}
	summaries := make([]models.UserSummary, 0, len(users))
	for i := range users {
		summaries = append(summaries, users[i].Summary())
	}
	return summaries, nil
}
