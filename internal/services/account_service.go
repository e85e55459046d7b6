package services

import (
	"context"
	"fmt"

	"github.com/devarko/thunderstorm/backend/internal/models"
	"github.com/devarko/thunderstorm/backend/internal/repositories"
	"github.com/devarko/thunderstorm/backend/internal/token"
	"golang.org/x/crypto/bcrypt"
)

// maxAllocationAttempts bounds the retry loop when concurrent registrations
// race on the same user id.
const maxAllocationAttempts = 5

// AccountService handles registration, login and profile maintenance.
type AccountService struct {
	users  repositories.UserRepository
	tokens *token.Service
}

// NewAccountService creates a new AccountService.
func NewAccountService(users repositories.UserRepository, tokens *token.Service) *AccountService {
	return &AccountService{users: users, tokens: tokens}
}

// NextUserID allocates the next user id: max assigned + 1, starting at 1.
// Monotonicity is only guaranteed together with the unique index on user_id;
// a concurrent winner makes the insert fail and Register retries allocation.
func (s *AccountService) NextUserID(ctx context.Context) (int64, error) {
	max, err := s.users.MaxUserID(ctx)
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

// Register validates uniqueness, allocates a user id, stores the account with
// a bcrypt digest and returns the user plus a freshly issued token.
func (s *AccountService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, string, error) {
	if _, err := s.users.GetUserByEmail(ctx, req.Email); err == nil {
		return nil, "", ErrEmailTaken
	} else if err != repositories.ErrUserNotFound {
		return nil, "", err
	}
	if _, err := s.users.GetUserByUsername(ctx, req.Username); err == nil {
		return nil, "", ErrUsernameTaken
	} else if err != repositories.ErrUserNotFound {
		return nil, "", err
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		Name:      req.Name,
		Email:     req.Email,
		Username:  req.Username,
		Password:  string(digest),
		Gender:    req.Gender,
		Mobile:    req.Mobile,
		Following: []int64{},
		Followers: []int64{},
	}

	for attempt := 0; attempt < maxAllocationAttempts; attempt++ {
		user.UserID, err = s.NextUserID(ctx)
		if err != nil {
			return nil, "", err
		}
		err = s.users.CreateUser(ctx, user)
		if err == nil {
			break
		}
		// A concurrent registration won this id; re-read the maximum and retry.
		if repositories.IsDuplicateKeyOn(err, "user_id") {
			continue
		}
		if repositories.IsDuplicateKeyOn(err, "email_id") {
			return nil, "", ErrEmailTaken
		}
		if repositories.IsDuplicateKeyOn(err, "user_name") {
			return nil, "", ErrUsernameTaken
		}
		return nil, "", err
	}
	if err != nil {
		return nil, "", fmt.Errorf("allocating user id: %w", err)
	}

	t, err := s.tokens.Issue(user.UserID, user.Email, user.Username)
	if err != nil {
		return nil, "", err
	}
	return user, t, nil
}

// Login verifies the password digest and issues a token.
func (s *AccountService) Login(ctx context.Context, req models.LoginRequest) (*models.User, string, error) {
	user, err := s.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	t, err := s.tokens.Issue(user.UserID, user.Email, user.Username)
	if err != nil {
		return nil, "", err
	}
	return user, t, nil
}

// Profile fetches the account for the given user id.
func (s *AccountService) Profile(ctx context.Context, userID int64) (*models.User, error) {
	return s.users.GetUserByUserID(ctx, userID)
}

// UpdateProfile applies the non-empty fields of req to the account.
func (s *AccountService) UpdateProfile(ctx context.Context, userID int64, req models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.users.GetUserByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Username != "" && req.Username != user.Username {
		if _, err := s.users.GetUserByUsername(ctx, req.Username); err == nil {
			return nil, ErrUsernameTaken
		} else if err != repositories.ErrUserNotFound {
			return nil, err
		}
		user.Username = req.Username
	}
	if req.Gender != "" {
		user.Gender = req.Gender
	}
	if req.Mobile != "" {
		user.Mobile = req.Mobile
	}
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
