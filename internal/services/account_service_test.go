package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/devarko/thunderstorm/backend/internal/models"
	"github.com/devarko/thunderstorm/backend/internal/repositories"
	"github.com/devarko/thunderstorm/backend/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testRegisterRequest(i int) models.RegisterRequest {
	return models.RegisterRequest{
		Name:     fmt.Sprintf("User %d", i),
		Email:    fmt.Sprintf("user%d@example.com", i),
		Password: "Sup3rSecret&",
		Username: fmt.Sprintf("user%d", i),
		Gender:   "other",
	}
}

func newTestAccountService() (*AccountService, *memUserRepo) {
	users := newMemUserRepo()
	return newTestAccountServiceWith(users), users
}

func newTestAccountServiceWith(users repositories.UserRepository) *AccountService {
	return NewAccountService(users, token.NewService("test-secret"))
}

func TestRegisterAssignsSequentialUserIDs(t *testing.T) {
	svc, _ := newTestAccountService()
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		user, tok, err := svc.Register(ctx, testRegisterRequest(i))
		require.NoError(t, err)
		assert.Equal(t, int64(i), user.UserID)
		assert.NotEmpty(t, tok)
	}
}

func TestRegisterHashesPassword(t *testing.T) {
	svc, users := newTestAccountService()
	ctx := context.Background()

	req := testRegisterRequest(1)
	user, _, err := svc.Register(ctx, req)
	require.NoError(t, err)

	stored, err := users.GetUserByUserID(ctx, user.UserID)
	require.NoError(t, err)
	assert.NotEqual(t, req.Password, stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte(req.Password)))
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	svc, _ := newTestAccountService()
	ctx := context.Background()

	_, _, err := svc.Register(ctx, testRegisterRequest(1))
	require.NoError(t, err)

	dupEmail := testRegisterRequest(2)
	dupEmail.Email = testRegisterRequest(1).Email
	_, _, err = svc.Register(ctx, dupEmail)
	assert.ErrorIs(t, err, ErrEmailTaken)

	dupName := testRegisterRequest(3)
	dupName.Username = testRegisterRequest(1).Username
	_, _, err = svc.Register(ctx, dupName)
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

// racingUserRepo simulates a concurrent registration winning the allocated id:
// the first insert fails with a duplicate-key error on user_id.
type racingUserRepo struct {
	*memUserRepo
	raced bool
}

func (r *racingUserRepo) CreateUser(ctx context.Context, user *models.User) error {
	if !r.raced {
		r.raced = true
		winner := *user
		winner.Email = "winner@example.com"
		winner.Username = "winner"
		if err := r.memUserRepo.CreateUser(ctx, &winner); err != nil {
			return err
		}
	}
	return r.memUserRepo.CreateUser(ctx, user)
}

func TestRegisterRetriesOnIdentifierConflict(t *testing.T) {
	users := &racingUserRepo{memUserRepo: newMemUserRepo()}
	svc := NewAccountService(users, token.NewService("test-secret"))
	ctx := context.Background()

	user, _, err := svc.Register(ctx, testRegisterRequest(1))
	require.NoError(t, err)
	// The winner took id 1; the retried allocation must land on 2.
	assert.Equal(t, int64(2), user.UserID)
}

func TestLogin(t *testing.T) {
	svc, _ := newTestAccountService()
	ctx := context.Background()

	req := testRegisterRequest(1)
	_, _, err := svc.Register(ctx, req)
	require.NoError(t, err)

	user, tok, err := svc.Login(ctx, models.LoginRequest{Email: req.Email, Password: req.Password})
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.UserID)
	assert.NotEmpty(t, tok)

	_, _, err = svc.Login(ctx, models.LoginRequest{Email: req.Email, Password: "Wr0ngPass!"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := newTestAccountService()
	ctx := context.Background()

	_, _, err := svc.Register(ctx, testRegisterRequest(1))
	require.NoError(t, err)
	_, _, err = svc.Register(ctx, testRegisterRequest(2))
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, 1, models.UpdateProfileRequest{Name: "Renamed", Mobile: "+91-9876543210"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "+91-9876543210", updated.Mobile)

	// Taking another account's username is a conflict.
	_, err = svc.UpdateProfile(ctx, 1, models.UpdateProfileRequest{Username: "user2"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}
