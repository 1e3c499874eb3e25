package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"wallboard/config"
	"wallboard/internal/canvas"
	"wallboard/internal/model"
	"wallboard/internal/ports"
	"wallboard/internal/realtime"
	"wallboard/internal/security"
	"wallboard/internal/util"

	"go.uber.org/zap"
)

type BoardService struct {
	txManager        ports.TxManager
	boardRepository  ports.BoardRepository
	sharedRepository ports.SharedBoardRepository
	cacheRepository  ports.CacheRepository
	storage          ports.ImageStorage
	publisher        ports.ChangePublisher
	ids              ports.IDGenerator
	maxPixels        int64
}

func NewBoardService(
	txManager ports.TxManager,
	boardRepository ports.BoardRepository,
	sharedRepository ports.SharedBoardRepository,
	cacheRepository ports.CacheRepository,
	storage ports.ImageStorage,
	publisher ports.ChangePublisher,
	ids ports.IDGenerator,
	canvasConfig config.CanvasConfig,
) *BoardService {
	maxPixels := canvasConfig.MaxPixels
	if maxPixels <= 0 {
		maxPixels = canvas.DefaultMaxPixels
	}
	return &BoardService{
		txManager:        txManager,
		boardRepository:  boardRepository,
		sharedRepository: sharedRepository,
		cacheRepository:  cacheRepository,
		storage:          storage,
		publisher:        publisher,
		ids:              ids,
		maxPixels:        maxPixels,
	}
}

// UploadBoard : stores the image, then the board metadata, owned by the caller.
// The image is written first. If the metadata write fails the object stays behind and is only logged.
func (s *BoardService) UploadBoard(ctx context.Context, upload model.BoardUpload) (*model.Board, error) {
	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if claims.Anonymous {
		return nil, fmt.Errorf("[BoardService] anonymous users cannot upload boards: %w", model.ErrUnauthenticated)
	}

	name := strings.TrimSpace(upload.Name)
	if name == "" {
		return nil, fmt.Errorf("[BoardService] %w: board name is required", model.ErrInvalidInput)
	}
	if len(upload.Data) == 0 {
		return nil, fmt.Errorf("[BoardService] %w: image is required", model.ErrInvalidInput)
	}

	width, height, format, err := util.DecodeImageConfig(upload.Data, s.maxPixels)
	if err != nil {
		return nil, fmt.Errorf("[BoardService] %w: %v", model.ErrInvalidInput, err)
	}

	boardUUID := s.ids.New()
	ext := util.ImageExtension(format)
	key := fmt.Sprintf("layouts/%s/%s%s", claims.UserUUID, boardUUID, ext)

	imageURL, err := s.storage.Upload(ctx, key, util.ImageContentType(key), bytes.NewReader(upload.Data))
	if err != nil {
		return nil, fmt.Errorf("[BoardService] image upload: %w", err)
	}

	board := &model.Board{
		UUID:        boardUUID,
		Name:        name,
		ImageURL:    imageURL,
		StoragePath: key,
		ImageWidth:  width,
		ImageHeight: height,
		OwnerUUID:   claims.UserUUID,
	}
	if err := s.boardRepository.Create(ctx, s.txManager.Executor(), board); err != nil {
		zap.L().Warn("board image left without metadata", zap.String("storage_path", key), zap.Error(err))
		return nil, fmt.Errorf("[BoardService] saving board: %w", err)
	}

	if err := s.cacheRepository.SetBoard(ctx, board); err != nil {
		zap.L().Warn("board cache write failed", zap.String("board_uuid", board.UUID), zap.Error(err))
	}

	s.publisher.Publish(ctx, realtime.OwnedBoardsTopic(claims.UserUUID))
	zap.L().Info("board uploaded", zap.String("board_uuid", board.UUID), zap.String("owner_uuid", board.OwnerUUID))

	return board, nil
}

// GetBoard : cache first, then the database
func (s *BoardService) GetBoard(ctx context.Context, boardUUID string) (*model.Board, error) {
	board, err := s.cacheRepository.GetBoard(ctx, boardUUID)
	if err != nil {
		zap.L().Warn("board cache read failed", zap.String("board_uuid", boardUUID), zap.Error(err))
	}
	if board != nil {
		return board, nil
	}

	board, err = s.boardRepository.GetByUUID(ctx, s.txManager.Executor(), boardUUID)
	if err != nil {
		return nil, fmt.Errorf("[BoardService] get board: %w", err)
	}

	if err := s.cacheRepository.SetBoard(ctx, board); err != nil {
		zap.L().Warn("board cache write failed", zap.String("board_uuid", boardUUID), zap.Error(err))
	}

	return board, nil
}

func (s *BoardService) ListOwned(ctx context.Context, userUUID string) ([]model.Board, error) {
	boards, err := s.boardRepository.ListByOwner(ctx, s.txManager.Executor(), userUUID)
	if err != nil {
		return nil, fmt.Errorf("[BoardService] list owned: %w", err)
	}
	return boards, nil
}

func (s *BoardService) ListSharedRefs(ctx context.Context, userUUID string) ([]model.SharedBoardRef, error) {
	refs, err := s.sharedRepository.ListByUser(ctx, s.txManager.Executor(), userUUID)
	if err != nil {
		return nil, fmt.Errorf("[BoardService] list shared: %w", err)
	}
	return refs, nil
}
