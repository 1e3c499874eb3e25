package ports

import (
	"context"

	"wallboard/internal/model"

	"github.com/jmoiron/sqlx"
)

// BoardRepository : SQL layer
type BoardRepository interface {
	Create(ctx context.Context, exec sqlx.ExtContext, board *model.Board) error
	GetByUUID(ctx context.Context, exec sqlx.ExtContext, boardUUID string) (*model.Board, error)
	ListByOwner(ctx context.Context, exec sqlx.ExtContext, ownerUUID string) ([]model.Board, error)
}

type SharedBoardRepository interface {
	Add(ctx context.Context, exec sqlx.ExtContext, ref *model.SharedBoardRef) error
	Remove(ctx context.Context, exec sqlx.ExtContext, userUUID, boardUUID string) error
	ListByUser(ctx context.Context, exec sqlx.ExtContext, userUUID string) ([]model.SharedBoardRef, error)
}

type BoardService interface {
	UploadBoard(ctx context.Context, upload model.BoardUpload) (*model.Board, error)
	GetBoard(ctx context.Context, boardUUID string) (*model.Board, error)
	ListOwned(ctx context.Context, userUUID string) ([]model.Board, error)
	ListSharedRefs(ctx context.Context, userUUID string) ([]model.SharedBoardRef, error)
}
