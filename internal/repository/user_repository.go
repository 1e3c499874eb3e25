package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"wallboard/internal/model"
	"wallboard/internal/util"

	"github.com/jmoiron/sqlx"
)

const userColumns = `uuid, COALESCE(email, '') AS email, password_hash, is_anonymous, created_at`

type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

// CreateUser : stores a new user, anonymous users have no email
func (r *UserRepository) CreateUser(ctx context.Context, exec sqlx.ExtContext, user *model.User) (*model.User, error) {
	query := `
	INSERT INTO users (uuid, email, password_hash, is_anonymous)
	VALUES ($1, NULLIF($2, ''), $3, $4)
	RETURNING ` + userColumns

	var createdUser model.User
	err := sqlx.GetContext(ctx, exec, &createdUser, query, user.UUID, user.Email, user.PasswordHash, user.IsAnonymous)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("[UserRepo] %s: %w", user.Email, model.ErrUserEmailExists)
		}
		return nil, util.LogError("[UserRepo] insert failed", err)
	}

	return &createdUser, nil
}

func (r *UserRepository) FindByUUID(ctx context.Context, exec sqlx.ExtContext, uuid string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE uuid = $1`
	var user model.User
	err := sqlx.GetContext(ctx, exec, &user, query, uuid)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, util.LogError("[UserRepo] lookup by uuid failed", err)
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, exec sqlx.ExtContext, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	var user model.User
	err := sqlx.GetContext(ctx, exec, &user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, util.LogError("[UserRepo] lookup by email failed", err)
	}
	return &user, nil
}
