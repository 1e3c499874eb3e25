package repository

import (
	"context"
	"database/sql"
	"errors"

	"wallboard/internal/model"
	"wallboard/internal/util"

	"github.com/jmoiron/sqlx"
)

const problemColumns = `uuid, board_uuid, name, description, grade, holds, owner_uuid, created_at, updated_at`

type ProblemRepository struct{}

func NewProblemRepository() *ProblemRepository {
	return &ProblemRepository{}
}

func (r *ProblemRepository) Create(ctx context.Context, exec sqlx.ExtContext, problem *model.Problem) error {
	query := `
		INSERT INTO problems (uuid, board_uuid, name, description, grade, holds, owner_uuid)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	row := exec.QueryRowxContext(ctx, query,
		problem.UUID,
		problem.BoardUUID,
		problem.Name,
		problem.Description,
		problem.Grade,
		problem.Holds,
		problem.OwnerUUID,
	)
	if err := row.Scan(&problem.CreatedAt, &problem.UpdatedAt); err != nil {
		return util.LogError("[ProblemRepo] insert failed", err)
	}
	return nil
}

// Update : replaces the scalar fields and the whole holds array together
func (r *ProblemRepository) Update(ctx context.Context, exec sqlx.ExtContext, problem *model.Problem) error {
	query := `
		UPDATE problems
		SET name = $3, description = $4, grade = $5, holds = $6, updated_at = NOW()
		WHERE board_uuid = $1 AND uuid = $2
		RETURNING owner_uuid, created_at, updated_at
	`
	row := exec.QueryRowxContext(ctx, query,
		problem.BoardUUID,
		problem.UUID,
		problem.Name,
		problem.Description,
		problem.Grade,
		problem.Holds,
	)
	err := row.Scan(&problem.OwnerUUID, &problem.CreatedAt, &problem.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrProblemNotFound
	}
	if err != nil {
		return util.LogError("[ProblemRepo] update failed", err)
	}
	return nil
}

func (r *ProblemRepository) GetByUUID(ctx context.Context, exec sqlx.ExtContext, boardUUID, problemUUID string) (*model.Problem, error) {
	query := `SELECT ` + problemColumns + ` FROM problems WHERE board_uuid = $1 AND uuid = $2`

	var problem model.Problem
	err := sqlx.GetContext(ctx, exec, &problem, query, boardUUID, problemUUID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrProblemNotFound
	}
	if err != nil {
		return nil, util.LogError("[ProblemRepo] lookup failed", err)
	}
	return &problem, nil
}

// ListByBoard : newest first
func (r *ProblemRepository) ListByBoard(ctx context.Context, exec sqlx.ExtContext, boardUUID string) ([]model.Problem, error) {
	query := `SELECT ` + problemColumns + ` FROM problems WHERE board_uuid = $1 ORDER BY created_at DESC`

	problems := []model.Problem{}
	if err := sqlx.SelectContext(ctx, exec, &problems, query, boardUUID); err != nil {
		return nil, util.LogError("[ProblemRepo] list failed", err)
	}
	return problems, nil
}

func (r *ProblemRepository) Delete(ctx context.Context, exec sqlx.ExtContext, boardUUID, problemUUID string) error {
	result, err := exec.ExecContext(ctx, `DELETE FROM problems WHERE board_uuid = $1 AND uuid = $2`, boardUUID, problemUUID)
	if err != nil {
		return util.LogError("[ProblemRepo] delete failed", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return util.LogError("[ProblemRepo] rows affected unavailable", err)
	}
	if rows == 0 {
		return model.ErrProblemNotFound
	}
	return nil
}
