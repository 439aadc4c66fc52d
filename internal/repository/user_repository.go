package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/register-share-api/internal/models"
)

// UserRepository persists accounts.
//
// Schema:
//
//	CREATE TABLE users (
//	    id            TEXT PRIMARY KEY,
//	    name          TEXT NOT NULL,
//	    email         TEXT NOT NULL UNIQUE,
//	    password_hash TEXT NOT NULL,
//	    created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository constructs the repository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	const query = `INSERT INTO users (id, name, email, password_hash, created_at)
VALUES (:id, :name, :email, :password_hash, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// FindByEmail fetches a user by normalised email. Returns sql.ErrNoRows
// wrapped by the driver when absent.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	const query = `SELECT id, name, email, password_hash, created_at FROM users WHERE email = $1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, strings.ToLower(strings.TrimSpace(email))); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID fetches a user by id.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	const query = `SELECT id, name, email, password_hash, created_at FROM users WHERE id = $1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}
