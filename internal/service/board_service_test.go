package service_test

import (
	"context"
	"errors"
	"testing"

	"wallboard/config"
	"wallboard/internal/model"
	"wallboard/internal/realtime"
	"wallboard/internal/service"
	"wallboard/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadBoard_StoresImageAndMetadata(t *testing.T) {
	f := newFixture()
	ctx := f.user(t, "owner", "owner@example.com")

	board, err := f.boards.UploadBoard(ctx, model.BoardUpload{Name: "  Home wall ", Filename: "wall.png", Data: testutil.PNG(t, 40, 20)})

	require.NoError(t, err)
	assert.Equal(t, "Home wall", board.Name)
	assert.Equal(t, "owner", board.OwnerUUID)
	assert.Equal(t, 40, board.ImageWidth)
	assert.Equal(t, 20, board.ImageHeight)
	assert.Equal(t, "layouts/owner/"+board.UUID+".png", board.StoragePath)
	assert.Equal(t, "memory://"+board.StoragePath, board.ImageURL)
	assert.True(t, f.storage.Has(board.StoragePath))
	assert.Contains(t, f.publisher.Topics(), realtime.OwnedBoardsTopic("owner"))

	cached, err := f.cache.GetBoard(context.Background(), board.UUID)
	require.NoError(t, err)
	assert.Equal(t, board.UUID, cached.UUID)
}

func TestUploadBoard_RequiresSignedInUser(t *testing.T) {
	f := newFixture()
	upload := model.BoardUpload{Name: "wall", Data: testutil.PNG(t, 4, 4)}

	_, err := f.boards.UploadBoard(context.Background(), upload)
	assert.ErrorIs(t, err, model.ErrUnauthenticated)

	_, err = f.boards.UploadBoard(anonymous("anon"), upload)
	assert.ErrorIs(t, err, model.ErrUnauthenticated)
}

func TestUploadBoard_RejectsBadInput(t *testing.T) {
	f := newFixture()
	ctx := f.user(t, "owner", "owner@example.com")

	_, err := f.boards.UploadBoard(ctx, model.BoardUpload{Name: "", Data: testutil.PNG(t, 4, 4)})
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = f.boards.UploadBoard(ctx, model.BoardUpload{Name: "wall", Data: []byte("not an image")})
	assert.ErrorIs(t, err, model.ErrInvalidInput)
	assert.Empty(t, f.storage.Objects)
}

func TestUploadBoard_RejectsOversizedImage(t *testing.T) {
	f := newFixture()
	ctx := f.user(t, "owner", "owner@example.com")

	header := testutil.PNGHeader(t, 100000, 100000)
	_, err := f.boards.UploadBoard(ctx, model.BoardUpload{Name: "wall", Filename: "wall.png", Data: header})

	assert.ErrorIs(t, err, model.ErrInvalidInput)
	assert.Empty(t, f.storage.Objects)
	boards, err := f.boards.ListOwned(ctx, "owner")
	require.NoError(t, err)
	assert.Empty(t, boards)
}

func TestUploadBoard_PixelCapFromConfig(t *testing.T) {
	f := newFixture()
	ctx := f.user(t, "owner", "owner@example.com")
	small := service.NewBoardService(testutil.NoopTxManager{}, f.store.Boards(), f.store.Shared(), f.cache, f.storage,
		f.publisher, testutil.NewStubIDGenerator(), config.CanvasConfig{MaxPixels: 100})

	_, err := small.UploadBoard(ctx, model.BoardUpload{Name: "wall", Filename: "wall.png", Data: testutil.PNG(t, 20, 10)})
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	board, err := small.UploadBoard(ctx, model.BoardUpload{Name: "wall", Filename: "wall.png", Data: testutil.PNG(t, 10, 10)})
	require.NoError(t, err)
	assert.Equal(t, 10, board.ImageWidth)
}

func TestUploadBoard_StorageFailureWritesNothing(t *testing.T) {
	f := newFixture()
	ctx := f.user(t, "owner", "owner@example.com")
	f.storage.FailUploads = errors.New("bucket gone")

	_, err := f.boards.UploadBoard(ctx, model.BoardUpload{Name: "wall", Data: testutil.PNG(t, 4, 4)})

	assert.Error(t, err)
	owned, err := f.boards.ListOwned(context.Background(), "owner")
	require.NoError(t, err)
	assert.Empty(t, owned)
}

func TestGetBoard_FallsBackToDatabase(t *testing.T) {
	f := newFixture()
	ctx := f.user(t, "owner", "owner@example.com")
	board := f.board(t, ctx, "wall")
	require.NoError(t, f.cache.DeleteBoard(context.Background(), board.UUID))

	got, err := f.boards.GetBoard(context.Background(), board.UUID)

	require.NoError(t, err)
	assert.Equal(t, board.Name, got.Name)
	cached, _ := f.cache.GetBoard(context.Background(), board.UUID)
	assert.NotNil(t, cached)
}

func TestGetBoard_NotFound(t *testing.T) {
	f := newFixture()

	_, err := f.boards.GetBoard(context.Background(), "missing")

	assert.ErrorIs(t, err, model.ErrBoardNotFound)
}

func TestListOwned_NewestFirst(t *testing.T) {
	f := newFixture()
	ctx := f.user(t, "owner", "owner@example.com")
	first := f.board(t, ctx, "first")
	second := f.board(t, ctx, "second")

	owned, err := f.boards.ListOwned(context.Background(), "owner")

	require.NoError(t, err)
	require.Len(t, owned, 2)
	assert.Equal(t, second.UUID, owned[0].UUID)
	assert.Equal(t, first.UUID, owned[1].UUID)
}
