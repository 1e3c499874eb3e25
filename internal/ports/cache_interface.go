package ports

import (
	"context"

	"wallboard/internal/model"
)

// CacheRepository : Redis layer
type CacheRepository interface {
	SetBoard(ctx context.Context, board *model.Board) error
	GetBoard(ctx context.Context, uuid string) (*model.Board, error)
	DeleteBoard(ctx context.Context, uuid string) error
}
