package services

import (
	"context"

	"github.com/devarko/thunderstorm/backend/internal/cache"
	"github.com/devarko/thunderstorm/backend/internal/models"
	"github.com/devarko/thunderstorm/backend/internal/repositories"
)

// GraphService maintains the bidirectional follower graph and the post like
// sets. Follow and unfollow are two sequential single-document writes with no
// multi-document transaction: the follower-side write lands first, the peer
// write second, and the journal row in between records the window where a
// crash leaves a one-directional relationship for the reconciler.
type GraphService struct {
	users repositories.UserRepository
	posts repositories.PostRepository
	audit repositories.AuditRepository
	cache *cache.GraphCache
}

// NewGraphService creates a new GraphService. audit and graphCache may be nil.
func NewGraphService(users repositories.UserRepository, posts repositories.PostRepository, audit repositories.AuditRepository, graphCache *cache.GraphCache) *GraphService {
	return &GraphService{users: users, posts: posts, audit: audit, cache: graphCache}
}

// Follow adds targetID to the caller's following set and the caller to the
// target's followers set.
func (s *GraphService) Follow(ctx context.Context, callerID, targetID int64) error {
	if callerID == targetID {
		return ErrSelfFollow
	}
	caller, err := s.users.GetUserByUserID(ctx, callerID)
	if err != nil {
		return err
	}
	if _, err := s.users.GetUserByUserID(ctx, targetID); err != nil {
		return err
	}
	if caller.IsFollowing(targetID) {
		return ErrAlreadyFollowing
	}

	if err := s.users.AddFollowing(ctx, callerID, targetID); err != nil {
		return err
	}
	entry := s.recordForward(ctx, models.OpFollow, callerID, targetID)
	if err := s.users.AddFollower(ctx, targetID, callerID); err != nil {
		// The journal row stays in forward phase; the reconciler repairs it.
		return err
	}
	s.markDone(ctx, entry)
	s.cache.Invalidate(ctx, callerID, targetID)
	return nil
}

// Unfollow removes the symmetric pair of memberships.
func (s *GraphService) Unfollow(ctx context.Context, callerID, targetID int64) error {
	caller, err := s.users.GetUserByUserID(ctx, callerID)
	if err != nil {
		return err
	}
	if !caller.IsFollowing(targetID) {
		return ErrNotFollowing
	}

	if err := s.users.RemoveFollowing(ctx, callerID, targetID); err != nil {
		return err
	}
	entry := s.recordForward(ctx, models.OpUnfollow, callerID, targetID)
	if err := s.users.RemoveFollower(ctx, targetID, callerID); err != nil {
		return err
	}
	s.markDone(ctx, entry)
	s.cache.Invalidate(ctx, callerID, targetID)
	return nil
}

// Like adds the caller to the post's like set. A repeat like surfaces
// ErrAlreadyLiked rather than succeeding silently.
func (s *GraphService) Like(ctx context.Context, callerID int64, postID string) error {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID == callerID {
		return ErrSelfLike
	}
	if post.LikedBy(callerID) {
		return ErrAlreadyLiked
	}
	return s.posts.AddLike(ctx, postID, callerID)
}

// Unlike removes the caller from the post's like set.
func (s *GraphService) Unlike(ctx context.Context, callerID int64, postID string) error {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return err
	}
	if !post.LikedBy(callerID) {
		return ErrNotLiked
	}
	return s.posts.RemoveLike(ctx, postID, callerID)
}

// ListFollowers resolves the subject's follower ids to account summaries.
// Ids of accounts no longer present are dropped.
func (s *GraphService) ListFollowers(ctx context.Context, userID int64) ([]models.UserSummary, error) {
	if cached, ok := s.cache.GetFollowers(ctx, userID); ok {
		return cached, nil
	}
	user, err := s.users.GetUserByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	summaries, err := s.resolve(ctx, user.Followers)
	if err != nil {
		return nil, err
	}
	s.cache.SetFollowers(ctx, userID, summaries)
	return summaries, nil
}

// ListFollowing resolves the subject's following ids to account summaries.
func (s *GraphService) ListFollowing(ctx context.Context, userID int64) ([]models.UserSummary, error) {
	if cached, ok := s.cache.GetFollowing(ctx, userID); ok {
		return cached, nil
	}
	user, err := s.users.GetUserByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	summaries, err := s.resolve(ctx, user.Following)
	if err != nil {
		return nil, err
	}
	s.cache.SetFollowing(ctx, userID, summaries)
	return summaries, nil
}

// IncompleteAudits lists journal rows whose peer write was never confirmed.
func (s *GraphService) IncompleteAudits(ctx context.Context) ([]models.GraphAudit, error) {
	if s.audit == nil {
		return []models.GraphAudit{}, nil
	}
	return s.audit.ListIncomplete(ctx, 0)
}

func (s *GraphService) resolve(ctx context.Context, ids []int64) ([]models.UserSummary, error) {
	users, err := s.users.GetUsersByUserIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	summaries := make([]models.UserSummary, 0, len(users))
	for i := range users {
		summaries = append(summaries, users[i].Summary())
	}
	return summaries, nil
}

func (s *GraphService) recordForward(ctx context.Context, op string, actorID, targetID int64) *models.GraphAudit {
	if s.audit == nil {
		return nil
	}
	entry, err := s.audit.RecordForward(ctx, op, actorID, targetID)
	if err != nil {
		return nil
	}
	return entry
}

func (s *GraphService) markDone(ctx context.Context, entry *models.GraphAudit) {
	if s.audit == nil || entry == nil {
		return
	}
	_ = s.audit.MarkDone(ctx, entry.ID)
}
