package repository

import (
	"context"
	"database/sql"
	"errors"

	"wallboard/internal/model"
	"wallboard/internal/util"

	"github.com/jmoiron/sqlx"
)

type AccessCodeRepository struct{}

func NewAccessCodeRepository() *AccessCodeRepository {
	return &AccessCodeRepository{}
}

// Create : fails with ErrAccessCodeExists when the code string is taken
func (r *AccessCodeRepository) Create(ctx context.Context, exec sqlx.ExtContext, code *model.AccessCode) error {
	query := `
		INSERT INTO access_codes (code, board_uuid, level, created_by, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	err := sqlx.GetContext(ctx, exec, &code.CreatedAt, query,
		code.Code, code.BoardUUID, code.Level, code.CreatedBy, code.ExpiresAt)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrAccessCodeExists
		}
		return util.LogError("[AccessCodeRepo] insert failed", err)
	}
	return nil
}

func (r *AccessCodeRepository) GetByCode(ctx context.Context, exec sqlx.ExtContext, code string) (*model.AccessCode, error) {
	query := `SELECT code, board_uuid, level, created_by, created_at, expires_at FROM access_codes WHERE code = $1`

	var accessCode model.AccessCode
	err := sqlx.GetContext(ctx, exec, &accessCode, query, code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrAccessCodeNotFound
	}
	if err != nil {
		return nil, util.LogError("[AccessCodeRepo] lookup failed", err)
	}
	return &accessCode, nil
}
