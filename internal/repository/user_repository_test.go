package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/register-share-api/internal/models"
)

func newUserRepoMock(t *testing.T) (*UserRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	return NewUserRepository(sqlxDB), mock, func() {
		sqlxDB.Close()
		db.Close()
	}
}

func TestUserRepositoryCreate(t *testing.T) {
	repo, mock, cleanup := newUserRepoMock(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO users").
		WithArgs("u1", "Pat Teacher", "pat@example.com", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	user := &models.User{
		ID:           "u1",
		Name:         "Pat Teacher",
		Email:        "pat@example.com",
		PasswordHash: "$2a$10$hash",
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, repo.Create(context.Background(), user))
}

func TestUserRepositoryFindByEmailNormalizesInput(t *testing.T) {
	repo, mock, cleanup := newUserRepoMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "created_at"}).
		AddRow("u1", "Pat Teacher", "pat@example.com", "$2a$10$hash", time.Now())
	mock.ExpectQuery("SELECT id, name, email, password_hash, created_at FROM users WHERE email").
		WithArgs("pat@example.com").
		WillReturnRows(rows)

	user, err := repo.FindByEmail(context.Background(), "  Pat@Example.com ")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
}
