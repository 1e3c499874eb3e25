package ports

import (
	"context"
	"time"

	"wallboard/internal/model"
)

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	New() string
}

// BoardReader : read side of boards used by problems and access checks
type BoardReader interface {
	GetBoard(ctx context.Context, boardUUID string) (*model.Board, error)
}
