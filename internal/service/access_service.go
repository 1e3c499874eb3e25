package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"wallboard/config"
	"wallboard/internal/access"
	"wallboard/internal/model"
	"wallboard/internal/ports"
	"wallboard/internal/realtime"
	"wallboard/internal/security"
	"wallboard/internal/util"

	"go.uber.org/zap"
)

// AccessService : grants, access codes and the edit check every problem write goes through
type AccessService struct {
	txManager        ports.TxManager
	boards           ports.BoardReader
	grantRepository  ports.GrantRepository
	sharedRepository ports.SharedBoardRepository
	codeRepository   ports.AccessCodeRepository
	userRepository   ports.UserRepository
	publisher        ports.ChangePublisher
	clock            ports.Clock
	codes            config.AccessCodeConfig
}

func NewAccessService(
	txManager ports.TxManager,
	boards ports.BoardReader,
	grantRepository ports.GrantRepository,
	sharedRepository ports.SharedBoardRepository,
	codeRepository ports.AccessCodeRepository,
	userRepository ports.UserRepository,
	publisher ports.ChangePublisher,
	clock ports.Clock,
	codes config.AccessCodeConfig,
) *AccessService {
	if codes.Length <= 0 {
		codes.Length = 6
	}
	if codes.MaxAttempts <= 0 {
		codes.MaxAttempts = 5
	}
	return &AccessService{
		txManager:        txManager,
		boards:           boards,
		grantRepository:  grantRepository,
		sharedRepository: sharedRepository,
		codeRepository:   codeRepository,
		userRepository:   userRepository,
		publisher:        publisher,
		clock:            clock,
		codes:            codes,
	}
}

func identityFromContext(ctx context.Context) *access.Identity {
	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil {
		return nil
	}
	return &access.Identity{
		UserUUID:  claims.UserUUID,
		Email:     claims.Email,
		Anonymous: claims.Anonymous,
	}
}

// AccessLevel : the caller's standing on a board, recomputed on every call
func (s *AccessService) AccessLevel(ctx context.Context, boardUUID, guestCode string) (*model.BoardAccess, error) {
	board, err := s.boards.GetBoard(ctx, boardUUID)
	if err != nil {
		return nil, err
	}
	return s.evaluate(ctx, board, guestCode)
}

func (s *AccessService) CanEdit(ctx context.Context, board *model.Board, guestCode string) (bool, error) {
	standing, err := s.evaluate(ctx, board, guestCode)
	if err != nil {
		return false, err
	}
	return standing.CanEdit, nil
}

func (s *AccessService) evaluate(ctx context.Context, board *model.Board, guestCode string) (*model.BoardAccess, error) {
	identity := identityFromContext(ctx)

	var sharedLevel, guestLevel model.AccessLevel
	owner := identity.Authenticated() && board.OwnerUUID == identity.UserUUID

	switch {
	case owner:
	case identity.Authenticated():
		grant, err := s.grantRepository.Find(ctx, s.txManager.Executor(), board.UUID, identity.UserUUID)
		if err != nil {
			return nil, fmt.Errorf("[AccessService] grant lookup: %w", err)
		}
		if grant != nil {
			sharedLevel = grant.Level
		}
	default:
		level, err := s.guestLevel(ctx, board.UUID, guestCode)
		if err != nil {
			return nil, err
		}
		guestLevel = level
	}

	standing := &model.BoardAccess{
		BoardUUID: board.UUID,
		Owner:     owner,
		CanEdit:   access.CanEditCurrentBoard(identity, board, sharedLevel, guestLevel),
	}
	switch {
	case owner:
		standing.Level = model.AccessEdit
	case identity.Authenticated():
		standing.Level = sharedLevel
	default:
		standing.Level = guestLevel
	}
	return standing, nil
}

// guestLevel : the level a code carries on boardUUID. Unknown, expired or foreign codes carry none.
func (s *AccessService) guestLevel(ctx context.Context, boardUUID, guestCode string) (model.AccessLevel, error) {
	guestCode = normalizeCode(guestCode)
	if guestCode == "" {
		return model.AccessNone, nil
	}

	code, err := s.codeRepository.GetByCode(ctx, s.txManager.Executor(), guestCode)
	if errors.Is(err, model.ErrAccessCodeNotFound) {
		return model.AccessNone, nil
	}
	if err != nil {
		return model.AccessNone, fmt.Errorf("[AccessService] code lookup: %w", err)
	}
	if code.BoardUUID != boardUUID || code.Expired(s.clock.Now()) {
		return model.AccessNone, nil
	}
	return code.Level, nil
}

// CreateAccessCode : owner only. Collisions in the global code namespace are retried.
func (s *AccessService) CreateAccessCode(ctx context.Context, boardUUID string, level model.AccessLevel) (*model.AccessCode, error) {
	board, identity, err := s.requireOwner(ctx, boardUUID)
	if err != nil {
		return nil, err
	}
	if !level.CanRead() {
		return nil, fmt.Errorf("[AccessService] %w: unknown access level %q", model.ErrInvalidInput, level)
	}

	for attempt := 1; attempt <= s.codes.MaxAttempts; attempt++ {
		generated, err := util.GenerateAccessCode(s.codes.Length)
		if err != nil {
			return nil, util.LogError("[AccessService] code generation failed", err)
		}

		code := &model.AccessCode{
			Code:      generated,
			BoardUUID: board.UUID,
			Level:     level,
			CreatedBy: identity.UserUUID,
		}
		if s.codes.TTL > 0 {
			expiresAt := s.clock.Now().Add(s.codes.TTL)
			code.ExpiresAt = &expiresAt
		}

		err = s.codeRepository.Create(ctx, s.txManager.Executor(), code)
		if errors.Is(err, model.ErrAccessCodeExists) {
			zap.L().Debug("access code collision", zap.Int("attempt", attempt))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("[AccessService] create code: %w", err)
		}

		zap.L().Info("access code created", zap.String("board_uuid", board.UUID), zap.String("level", string(level)))
		return code, nil
	}

	return nil, util.LogError("[AccessService] no free access code", model.ErrAccessCodeExists)
}

// RedeemCode : resolves a code to its board and level without writing anything
func (s *AccessService) RedeemCode(ctx context.Context, code string) (*model.RedeemedCode, error) {
	code = normalizeCode(code)
	if code == "" {
		return nil, fmt.Errorf("[AccessService] %w: code is required", model.ErrInvalidInput)
	}

	accessCode, err := s.codeRepository.GetByCode(ctx, s.txManager.Executor(), code)
	if err != nil {
		return nil, fmt.Errorf("[AccessService] redeem: %w", err)
	}
	if accessCode.Expired(s.clock.Now()) {
		return nil, fmt.Errorf("[AccessService] redeem %s: %w", code, model.ErrAccessCodeExpired)
	}

	board, err := s.boards.GetBoard(ctx, accessCode.BoardUUID)
	if err != nil {
		return nil, fmt.Errorf("[AccessService] redeem: %w", err)
	}

	return &model.RedeemedCode{
		Code:      accessCode.Code,
		Level:     accessCode.Level,
		BoardUUID: board.UUID,
		BoardName: board.Name,
	}, nil
}

// GrantByEmail : owner only. Writes the grant and the grantee's shared ref together.
func (s *AccessService) GrantByEmail(ctx context.Context, boardUUID, email string, level model.AccessLevel) (*model.PermissionGrant, error) {
	board, _, err := s.requireOwner(ctx, boardUUID)
	if err != nil {
		return nil, err
	}
	if !level.CanRead() {
		return nil, fmt.Errorf("[AccessService] %w: unknown access level %q", model.ErrInvalidInput, level)
	}

	user, err := s.userRepository.FindByEmail(ctx, s.txManager.Executor(), strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		return nil, fmt.Errorf("[AccessService] grantee lookup: %w", err)
	}
	if user.UUID == board.OwnerUUID {
		return nil, fmt.Errorf("[AccessService] %w: the owner needs no grant", model.ErrInvalidInput)
	}

	grant := &model.PermissionGrant{
		BoardUUID: board.UUID,
		UserUUID:  user.UUID,
		Email:     user.Email,
		Level:     level,
	}
	if err := s.writeGrant(ctx, grant); err != nil {
		return nil, err
	}

	return grant, nil
}

// RevokeGrant : owner only. Removes the grant and the shared ref together.
func (s *AccessService) RevokeGrant(ctx context.Context, boardUUID, userUUID string) error {
	if _, _, err := s.requireOwner(ctx, boardUUID); err != nil {
		return err
	}

	exec, rollback, commit, err := s.txManager.BeginTX(ctx)
	if err != nil {
		return util.LogError("[AccessService] begin transaction failed", err)
	}
	defer rollback()

	if err := s.grantRepository.Delete(ctx, exec, boardUUID, userUUID); err != nil {
		return fmt.Errorf("[AccessService] revoke: %w", err)
	}
	if err := s.sharedRepository.Remove(ctx, exec, userUUID, boardUUID); err != nil {
		return fmt.Errorf("[AccessService] revoke: %w", err)
	}
	if err := commit(); err != nil {
		return util.LogError("[AccessService] commit failed", err)
	}

	s.publisher.Publish(ctx, realtime.SharedBoardsTopic(userUUID), realtime.BoardUsersTopic(boardUUID))
	return nil
}

func (s *AccessService) ListGrants(ctx context.Context, boardUUID string) ([]model.PermissionGrant, error) {
	if _, _, err := s.requireOwner(ctx, boardUUID); err != nil {
		return nil, err
	}

	grants, err := s.grantRepository.ListByBoard(ctx, s.txManager.Executor(), boardUUID)
	if err != nil {
		return nil, fmt.Errorf("[AccessService] list grants: %w", err)
	}
	return grants, nil
}

// PromoteGuest : turns a guest code held before sign-in into a durable grant for the caller.
// An existing edit grant is never downgraded. The board owner gets no grant and nil is returned.
func (s *AccessService) PromoteGuest(ctx context.Context, code string) (*model.PermissionGrant, error) {
	identity := identityFromContext(ctx)
	if !identity.Authenticated() {
		return nil, fmt.Errorf("[AccessService] promotion needs a signed-in user: %w", model.ErrUnauthenticated)
	}

	redeemed, err := s.RedeemCode(ctx, code)
	if err != nil {
		return nil, err
	}

	board, err := s.boards.GetBoard(ctx, redeemed.BoardUUID)
	if err != nil {
		return nil, err
	}
	if board.OwnerUUID == identity.UserUUID {
		return nil, nil
	}

	existing, err := s.grantRepository.Find(ctx, s.txManager.Executor(), board.UUID, identity.UserUUID)
	if err != nil {
		return nil, fmt.Errorf("[AccessService] grant lookup: %w", err)
	}
	if existing != nil && existing.Level.CanEdit() && !redeemed.Level.CanEdit() {
		return existing, nil
	}

	grant := &model.PermissionGrant{
		BoardUUID: board.UUID,
		UserUUID:  identity.UserUUID,
		Email:     identity.Email,
		Level:     redeemed.Level,
		GuestCode: redeemed.Code,
	}
	if err := s.writeGrant(ctx, grant); err != nil {
		return nil, err
	}

	zap.L().Info("guest promoted",
		zap.String("board_uuid", board.UUID),
		zap.String("user_uuid", identity.UserUUID),
		zap.String("level", string(grant.Level)),
	)
	return grant, nil
}

func (s *AccessService) writeGrant(ctx context.Context, grant *model.PermissionGrant) error {
	exec, rollback, commit, err := s.txManager.BeginTX(ctx)
	if err != nil {
		return util.LogError("[AccessService] begin transaction failed", err)
	}
	defer rollback()

	if err := s.grantRepository.Upsert(ctx, exec, grant); err != nil {
		return fmt.Errorf("[AccessService] grant: %w", err)
	}
	ref := &model.SharedBoardRef{UserUUID: grant.UserUUID, BoardUUID: grant.BoardUUID}
	if err := s.sharedRepository.Add(ctx, exec, ref); err != nil {
		return fmt.Errorf("[AccessService] shared ref: %w", err)
	}
	if err := commit(); err != nil {
		return util.LogError("[AccessService] commit failed", err)
	}

	s.publisher.Publish(ctx, realtime.SharedBoardsTopic(grant.UserUUID), realtime.BoardUsersTopic(grant.BoardUUID))
	return nil
}

func (s *AccessService) requireOwner(ctx context.Context, boardUUID string) (*model.Board, *access.Identity, error) {
	identity := identityFromContext(ctx)
	if !identity.Authenticated() {
		return nil, nil, fmt.Errorf("[AccessService] %w", model.ErrUnauthenticated)
	}

	board, err := s.boards.GetBoard(ctx, boardUUID)
	if err != nil {
		return nil, nil, err
	}
	if board.OwnerUUID != identity.UserUUID {
		return nil, nil, fmt.Errorf("[AccessService] board %s belongs to another user: %w", boardUUID, model.ErrAccessDenied)
	}
	return board, identity, nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
