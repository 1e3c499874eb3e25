package repository

import (
	"context"
	"database/sql"
	"errors"

	"wallboard/internal/model"
	"wallboard/internal/util"

	"github.com/jmoiron/sqlx"
)

const boardColumns = `uuid, name, image_url, storage_path, image_width, image_height, owner_uuid, created_at`

type BoardRepository struct{}

func NewBoardRepository() *BoardRepository {
	return &BoardRepository{}
}

// Create : stores a new board, created_at comes from the database clock
func (r *BoardRepository) Create(ctx context.Context, exec sqlx.ExtContext, board *model.Board) error {
	query := `
		INSERT INTO boards (uuid, name, image_url, storage_path, image_width, image_height, owner_uuid)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`
	err := sqlx.GetContext(ctx, exec, &board.CreatedAt, query,
		board.UUID,
		board.Name,
		board.ImageURL,
		board.StoragePath,
		board.ImageWidth,
		board.ImageHeight,
		board.OwnerUUID,
	)
	if err != nil {
		return util.LogError("[BoardRepo] insert failed", err)
	}
	return nil
}

func (r *BoardRepository) GetByUUID(ctx context.Context, exec sqlx.ExtContext, boardUUID string) (*model.Board, error) {
	query := `SELECT ` + boardColumns + ` FROM boards WHERE uuid = $1`

	var board model.Board
	err := sqlx.GetContext(ctx, exec, &board, query, boardUUID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrBoardNotFound
	}
	if err != nil {
		return nil, util.LogError("[BoardRepo] lookup failed", err)
	}
	return &board, nil
}

// ListByOwner : owner's boards, newest first
func (r *BoardRepository) ListByOwner(ctx context.Context, exec sqlx.ExtContext, ownerUUID string) ([]model.Board, error) {
	query := `SELECT ` + boardColumns + ` FROM boards WHERE owner_uuid = $1 ORDER BY created_at DESC`

	boards := []model.Board{}
	if err := sqlx.SelectContext(ctx, exec, &boards, query, ownerUUID); err != nil {
		return nil, util.LogError("[BoardRepo] list failed", err)
	}
	return boards, nil
}
