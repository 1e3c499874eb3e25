package service

import (
	"context"
	"fmt"
	"strings"

	"wallboard/internal/model"
	"wallboard/internal/ports"
	"wallboard/internal/realtime"
	"wallboard/internal/security"

	"go.uber.org/zap"
)

type ProblemService struct {
	txManager         ports.TxManager
	problemRepository ports.ProblemRepository
	boards            ports.BoardReader
	guard             ports.EditGuard
	publisher         ports.ChangePublisher
	ids               ports.IDGenerator
}

func NewProblemService(
	txManager ports.TxManager,
	problemRepository ports.ProblemRepository,
	boards ports.BoardReader,
	guard ports.EditGuard,
	publisher ports.ChangePublisher,
	ids ports.IDGenerator,
) *ProblemService {
	return &ProblemService{
		txManager:         txManager,
		problemRepository: problemRepository,
		boards:            boards,
		guard:             guard,
		publisher:         publisher,
		ids:               ids,
	}
}

// List : every problem on the board, newest first
func (s *ProblemService) List(ctx context.Context, boardUUID string) ([]model.Problem, error) {
	if _, err := s.boards.GetBoard(ctx, boardUUID); err != nil {
		return nil, err
	}

	problems, err := s.problemRepository.ListByBoard(ctx, s.txManager.Executor(), boardUUID)
	if err != nil {
		return nil, fmt.Errorf("[ProblemService] list: %w", err)
	}
	return problems, nil
}

func (s *ProblemService) Get(ctx context.Context, boardUUID, problemUUID string) (*model.Problem, error) {
	problem, err := s.problemRepository.GetByUUID(ctx, s.txManager.Executor(), boardUUID, problemUUID)
	if err != nil {
		return nil, fmt.Errorf("[ProblemService] get: %w", err)
	}
	return problem, nil
}

// Create : the author is recorded only for signed-in, non-anonymous users
func (s *ProblemService) Create(ctx context.Context, boardUUID string, draft model.ProblemDraft) (*model.Problem, error) {
	draft = normalizeDraft(draft)
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	if err := s.authorizeEdit(ctx, boardUUID, draft.GuestCode); err != nil {
		return nil, err
	}

	problem := &model.Problem{
		UUID:        s.ids.New(),
		BoardUUID:   boardUUID,
		Name:        draft.Name,
		Description: draft.Description,
		Grade:       draft.Grade,
		Holds:       model.Holds(draft.Holds),
		OwnerUUID:   authorUUID(ctx),
	}
	if err := s.problemRepository.Create(ctx, s.txManager.Executor(), problem); err != nil {
		return nil, fmt.Errorf("[ProblemService] create: %w", err)
	}

	s.publisher.Publish(ctx, realtime.ProblemsTopic(boardUUID))
	zap.L().Info("problem created", zap.String("board_uuid", boardUUID), zap.String("problem_uuid", problem.UUID))

	return problem, nil
}

// Update : replaces name, description, grade and holds together. Last write wins.
func (s *ProblemService) Update(ctx context.Context, boardUUID, problemUUID string, draft model.ProblemDraft) (*model.Problem, error) {
	draft = normalizeDraft(draft)
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	if err := s.authorizeEdit(ctx, boardUUID, draft.GuestCode); err != nil {
		return nil, err
	}

	problem := &model.Problem{
		UUID:        problemUUID,
		BoardUUID:   boardUUID,
		Name:        draft.Name,
		Description: draft.Description,
		Grade:       draft.Grade,
		Holds:       model.Holds(draft.Holds),
	}
	if err := s.problemRepository.Update(ctx, s.txManager.Executor(), problem); err != nil {
		return nil, fmt.Errorf("[ProblemService] update: %w", err)
	}

	s.publisher.Publish(ctx, realtime.ProblemsTopic(boardUUID))
	return problem, nil
}

// Delete : only the board owner removes problems
func (s *ProblemService) Delete(ctx context.Context, boardUUID, problemUUID string) error {
	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	board, err := s.boards.GetBoard(ctx, boardUUID)
	if err != nil {
		return err
	}
	if board.OwnerUUID != claims.UserUUID || claims.Anonymous {
		return fmt.Errorf("[ProblemService] only the board owner deletes problems: %w", model.ErrAccessDenied)
	}

	if err := s.problemRepository.Delete(ctx, s.txManager.Executor(), boardUUID, problemUUID); err != nil {
		return fmt.Errorf("[ProblemService] delete: %w", err)
	}

	s.publisher.Publish(ctx, realtime.ProblemsTopic(boardUUID))
	return nil
}

func (s *ProblemService) authorizeEdit(ctx context.Context, boardUUID, guestCode string) error {
	board, err := s.boards.GetBoard(ctx, boardUUID)
	if err != nil {
		return err
	}

	canEdit, err := s.guard.CanEdit(ctx, board, guestCode)
	if err != nil {
		return err
	}
	if !canEdit {
		return fmt.Errorf("[ProblemService] no edit access to board %s: %w", boardUUID, model.ErrAccessDenied)
	}
	return nil
}

func normalizeDraft(draft model.ProblemDraft) model.ProblemDraft {
	draft.Name = strings.TrimSpace(draft.Name)
	draft.Description = strings.TrimSpace(draft.Description)
	draft.Grade = strings.TrimSpace(draft.Grade)
	draft.GuestCode = strings.ToUpper(strings.TrimSpace(draft.GuestCode))
	return draft
}

func authorUUID(ctx context.Context) *string {
	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil || claims.Anonymous {
		return nil
	}
	owner := claims.UserUUID
	return &owner
}
