package service_test

import (
	"context"
	"testing"
	"time"

	"wallboard/config"
	"wallboard/internal/model"
	"wallboard/internal/security"
	"wallboard/internal/service"
	"wallboard/internal/testutil"

	"github.com/stretchr/testify/require"
)

type fixture struct {
	clock     *testutil.StubClock
	store     *testutil.MemoryStore
	storage   *testutil.MemoryStorage
	cache     *testutil.MemoryCache
	publisher *testutil.RecordingPublisher
	boards    *service.BoardService
	problems  *service.ProblemService
	access    *service.AccessService
}

func newFixture() *fixture {
	clock := testutil.FixedClock()
	store := testutil.NewMemoryStore(clock)
	ids := testutil.NewStubIDGenerator()
	f := &fixture{
		clock:     clock,
		store:     store,
		storage:   testutil.NewMemoryStorage(),
		cache:     testutil.NewMemoryCache(),
		publisher: &testutil.RecordingPublisher{},
	}

	tx := testutil.NoopTxManager{}
	f.boards = service.NewBoardService(tx, store.Boards(), store.Shared(), f.cache, f.storage, f.publisher, ids, config.CanvasConfig{})
	f.access = service.NewAccessService(tx, f.boards, store.Grants(), store.Shared(), store.AccessCodes(), store.Users(),
		f.publisher, clock, config.AccessCodeConfig{Length: 6, TTL: 24 * time.Hour, MaxAttempts: 5})
	f.problems = service.NewProblemService(tx, store.Problems(), f.boards, f.access, f.publisher, ids)
	return f
}

// user : stores a user and returns a context carrying their claims
func (f *fixture) user(t *testing.T, uuid, email string) context.Context {
	t.Helper()
	_, err := f.store.Users().CreateUser(context.Background(), nil, &model.User{UUID: uuid, Email: email})
	require.NoError(t, err)
	return security.WithClaims(context.Background(), &security.Claims{UserUUID: uuid, Email: email})
}

func anonymous(uuid string) context.Context {
	return security.WithClaims(context.Background(), &security.Claims{UserUUID: uuid, Anonymous: true})
}

func (f *fixture) board(t *testing.T, ctx context.Context, name string) *model.Board {
	t.Helper()
	board, err := f.boards.UploadBoard(ctx, model.BoardUpload{Name: name, Filename: "wall.png", Data: testutil.PNG(t, 40, 20)})
	require.NoError(t, err)
	return board
}

func simpleDraft(name string) model.ProblemDraft {
	return model.ProblemDraft{
		Name:  name,
		Grade: "V3",
		Holds: []model.Hold{{XRatio: 0.5, YRatio: 0.5, Type: model.HoldStart}},
	}
}
