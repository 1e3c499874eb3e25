package ports

import (
	"context"

	"wallboard/internal/model"

	"github.com/jmoiron/sqlx"
)

type ProblemRepository interface {
	Create(ctx context.Context, exec sqlx.ExtContext, problem *model.Problem) error
	Update(ctx context.Context, exec sqlx.ExtContext, problem *model.Problem) error
	GetByUUID(ctx context.Context, exec sqlx.ExtContext, boardUUID, problemUUID string) (*model.Problem, error)
	ListByBoard(ctx context.Context, exec sqlx.ExtContext, boardUUID string) ([]model.Problem, error)
	Delete(ctx context.Context, exec sqlx.ExtContext, boardUUID, problemUUID string) error
}

type ProblemService interface {
	List(ctx context.Context, boardUUID string) ([]model.Problem, error)
	Get(ctx context.Context, boardUUID, problemUUID string) (*model.Problem, error)
	Create(ctx context.Context, boardUUID string, draft model.ProblemDraft) (*model.Problem, error)
	Update(ctx context.Context, boardUUID, problemUUID string, draft model.ProblemDraft) (*model.Problem, error)
	Delete(ctx context.Context, boardUUID, problemUUID string) error
}
