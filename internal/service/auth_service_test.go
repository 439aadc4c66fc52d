package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/register-share-api/internal/dto"
	"github.com/noah-isme/register-share-api/internal/models"
	appErrors "github.com/noah-isme/register-share-api/pkg/errors"
)

type userRepoStub struct {
	byEmail map[string]*models.User
	byID    map[string]*models.User
}

func newUserRepoStub() *userRepoStub {
	return &userRepoStub{byEmail: map[string]*models.User{}, byID: map[string]*models.User{}}
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	s.byEmail[user.Email] = user
	s.byID[user.ID] = user
	return nil
}

func (s *userRepoStub) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := s.byEmail[email]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

func (s *userRepoStub) FindByID(ctx context.Context, id string) (*models.User, error) {
	if user, ok := s.byID[id]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

func newTestAuthService(repo *userRepoStub) *AuthService {
	return NewAuthService(repo, validator.New(), nil, AuthServiceConfig{
		TokenSecret: "test_secret",
		TokenExpiry: time.Hour,
		Issuer:      "register-share-api",
	})
}

func TestAuthSignupAndLogin(t *testing.T) {
	repo := newUserRepoStub()
	svc := newTestAuthService(repo)

	resp, err := svc.Signup(context.Background(), dto.SignupRequest{
		Name:     "Pat Teacher",
		Email:    "Pat@Example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "pat@example.com", resp.User.Email)

	login, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "pat@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(login.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
}

func TestAuthSignupDuplicateEmail(t *testing.T) {
	repo := newUserRepoStub()
	svc := newTestAuthService(repo)

	_, err := svc.Signup(context.Background(), dto.SignupRequest{Name: "Pat", Email: "pat@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), dto.SignupRequest{Name: "Pat", Email: "pat@example.com", Password: "correct-horse"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestAuthLoginWrongPassword(t *testing.T) {
	repo := newUserRepoStub()
	hash, err := bcrypt.GenerateFromPassword([]byte("right"), bcrypt.MinCost)
	require.NoError(t, err)
	repo.byEmail["pat@example.com"] = &models.User{ID: "u1", Email: "pat@example.com", PasswordHash: string(hash)}

	svc := newTestAuthService(repo)
	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "pat@example.com", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthValidateTokenRejectsGarbage(t *testing.T) {
	svc := newTestAuthService(newUserRepoStub())
	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
