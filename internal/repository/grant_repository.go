package repository

import (
	"context"
	"database/sql"
	"errors"

	"wallboard/internal/model"
	"wallboard/internal/util"

	"github.com/jmoiron/sqlx"
)

type GrantRepository struct{}

func NewGrantRepository() *GrantRepository {
	return &GrantRepository{}
}

// Upsert : one grant per (board, user), a second write replaces the level and code
func (r *GrantRepository) Upsert(ctx context.Context, exec sqlx.ExtContext, grant *model.PermissionGrant) error {
	query := `
		INSERT INTO board_permissions (board_uuid, user_uuid, email, level, guest_code, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (board_uuid, user_uuid) DO UPDATE
		SET email = EXCLUDED.email, level = EXCLUDED.level, guest_code = EXCLUDED.guest_code
		RETURNING created_at
	`
	err := sqlx.GetContext(ctx, exec, &grant.CreatedAt, query,
		grant.BoardUUID, grant.UserUUID, grant.Email, grant.Level, grant.GuestCode)
	if err != nil {
		return util.LogError("[GrantRepo] upsert failed", err)
	}
	return nil
}

// Find : nil without error when the user holds no grant
func (r *GrantRepository) Find(ctx context.Context, exec sqlx.ExtContext, boardUUID, userUUID string) (*model.PermissionGrant, error) {
	query := `
		SELECT board_uuid, user_uuid, email, level, guest_code, created_at
		FROM board_permissions
		WHERE board_uuid = $1 AND user_uuid = $2
	`
	var grant model.PermissionGrant
	err := sqlx.GetContext(ctx, exec, &grant, query, boardUUID, userUUID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, util.LogError("[GrantRepo] lookup failed", err)
	}
	return &grant, nil
}

func (r *GrantRepository) Delete(ctx context.Context, exec sqlx.ExtContext, boardUUID, userUUID string) error {
	_, err := exec.ExecContext(ctx, `
        DELETE FROM board_permissions
        WHERE board_uuid = $1 AND user_uuid = $2
    `, boardUUID, userUUID)
	if err != nil {
		return util.LogError("[GrantRepo] delete failed", err)
	}
	return nil
}

func (r *GrantRepository) ListByBoard(ctx context.Context, exec sqlx.ExtContext, boardUUID string) ([]model.PermissionGrant, error) {
	grants := []model.PermissionGrant{}
	err := sqlx.SelectContext(ctx, exec, &grants, `
        SELECT board_uuid, user_uuid, email, level, guest_code, created_at
        FROM board_permissions
        WHERE board_uuid = $1
        ORDER BY created_at
    `, boardUUID)
	if err != nil {
		return nil, util.LogError("[GrantRepo] list failed", err)
	}
	return grants, nil
}
