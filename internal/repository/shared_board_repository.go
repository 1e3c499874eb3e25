package repository

import (
	"context"

	"wallboard/internal/model"
	"wallboard/internal/util"

	"github.com/jmoiron/sqlx"
)

type SharedBoardRepository struct{}

func NewSharedBoardRepository() *SharedBoardRepository {
	return &SharedBoardRepository{}
}

func (r *SharedBoardRepository) Add(ctx context.Context, exec sqlx.ExtContext, ref *model.SharedBoardRef) error {
	query := `
		INSERT INTO shared_boards (user_uuid, board_uuid, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_uuid, board_uuid) DO UPDATE SET user_uuid = EXCLUDED.user_uuid
		RETURNING created_at
	`
	if err := sqlx.GetContext(ctx, exec, &ref.CreatedAt, query, ref.UserUUID, ref.BoardUUID); err != nil {
		return util.LogError("[SharedBoardRepo] insert failed", err)
	}
	return nil
}

func (r *SharedBoardRepository) Remove(ctx context.Context, exec sqlx.ExtContext, userUUID, boardUUID string) error {
	_, err := exec.ExecContext(ctx, `DELETE FROM shared_boards WHERE user_uuid = $1 AND board_uuid = $2`, userUUID, boardUUID)
	if err != nil {
		return util.LogError("[SharedBoardRepo] delete failed", err)
	}
	return nil
}

// ListByUser : refs in the order they were shared
func (r *SharedBoardRepository) ListByUser(ctx context.Context, exec sqlx.ExtContext, userUUID string) ([]model.SharedBoardRef, error) {
	refs := []model.SharedBoardRef{}
	err := sqlx.SelectContext(ctx, exec, &refs, `
		SELECT user_uuid, board_uuid, created_at
		FROM shared_boards
		WHERE user_uuid = $1
		ORDER BY created_at, board_uuid
	`, userUUID)
	if err != nil {
		return nil, util.LogError("[SharedBoardRepo] list failed", err)
	}
	return refs, nil
}
