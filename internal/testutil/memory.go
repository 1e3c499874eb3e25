package testutil

import (
	"bytes"
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"wallboard/internal/model"

	"github.com/jmoiron/sqlx"
)

// MemoryStore is an in-memory stand-in for the Postgres schema.
// Each table is reached through its own accessor since repository method names overlap.
// Rows get strictly increasing timestamps so "newest first" orderings are deterministic.
type MemoryStore struct {
	mu       sync.Mutex
	clock    *StubClock
	users    map[string]model.User
	tokens   map[string]model.RefreshToken
	boards   map[string]model.Board
	problems map[string]model.Problem
	grants   map[[2]string]model.PermissionGrant
	shared   map[[2]string]model.SharedBoardRef
	codes    map[string]model.AccessCode
}

func NewMemoryStore(clock *StubClock) *MemoryStore {
	if clock == nil {
		clock = FixedClock()
	}
	return &MemoryStore{
		clock:    clock,
		users:    make(map[string]model.User),
		tokens:   make(map[string]model.RefreshToken),
		boards:   make(map[string]model.Board),
		problems: make(map[string]model.Problem),
		grants:   make(map[[2]string]model.PermissionGrant),
		shared:   make(map[[2]string]model.SharedBoardRef),
		codes:    make(map[string]model.AccessCode),
	}
}

// tick : caller holds mu
func (s *MemoryStore) tick() time.Time {
	s.clock.Advance(time.Second)
	return s.clock.Now()
}

func (s *MemoryStore) Users() *MemoryUsers             { return &MemoryUsers{s} }
func (s *MemoryStore) Tokens() *MemoryTokens           { return &MemoryTokens{s} }
func (s *MemoryStore) Boards() *MemoryBoards           { return &MemoryBoards{s} }
func (s *MemoryStore) Problems() *MemoryProblems       { return &MemoryProblems{s} }
func (s *MemoryStore) Grants() *MemoryGrants           { return &MemoryGrants{s} }
func (s *MemoryStore) Shared() *MemorySharedBoards     { return &MemorySharedBoards{s} }
func (s *MemoryStore) AccessCodes() *MemoryAccessCodes { return &MemoryAccessCodes{s} }

type MemoryUsers struct{ s *MemoryStore }

func (r *MemoryUsers) CreateUser(_ context.Context, _ sqlx.ExtContext, user *model.User) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if user.Email != "" {
		for _, existing := range r.s.users {
			if existing.Email == user.Email {
				return nil, model.ErrUserEmailExists
			}
		}
	}
	created := *user
	created.CreatedAt = r.s.tick()
	r.s.users[created.UUID] = created
	return &created, nil
}

func (r *MemoryUsers) FindByUUID(_ context.Context, _ sqlx.ExtContext, uuid string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user, ok := r.s.users[uuid]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return &user, nil
}

func (r *MemoryUsers) FindByEmail(_ context.Context, _ sqlx.ExtContext, email string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, user := range r.s.users {
		if email != "" && user.Email == email {
			return &user, nil
		}
	}
	return nil, model.ErrUserNotFound
}

type MemoryTokens struct{ s *MemoryStore }

func (r *MemoryTokens) SaveRefreshToken(_ context.Context, token *model.RefreshToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored := *token
	stored.CreatedAt = r.s.tick()
	r.s.tokens[stored.UUID] = stored
	return nil
}

func (r *MemoryTokens) FindByUUID(_ context.Context, uuid string) (*model.RefreshToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	token, ok := r.s.tokens[uuid]
	if !ok {
		return nil, model.ErrUnauthenticated
	}
	return &token, nil
}

func (r *MemoryTokens) MarkRefreshTokenUsedByUUID(_ context.Context, uuid string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	token, ok := r.s.tokens[uuid]
	if !ok || token.Used {
		return model.ErrUnauthenticated
	}
	now := r.s.clock.Now()
	token.Used = true
	token.RevokedAt = &now
	r.s.tokens[uuid] = token
	return nil
}

type MemoryBoards struct{ s *MemoryStore }

func (r *MemoryBoards) Create(_ context.Context, _ sqlx.ExtContext, board *model.Board) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	board.CreatedAt = r.s.tick()
	r.s.boards[board.UUID] = *board
	return nil
}

func (r *MemoryBoards) GetByUUID(_ context.Context, _ sqlx.ExtContext, boardUUID string) (*model.Board, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	board, ok := r.s.boards[boardUUID]
	if !ok {
		return nil, model.ErrBoardNotFound
	}
	return &board, nil
}

func (r *MemoryBoards) ListByOwner(_ context.Context, _ sqlx.ExtContext, ownerUUID string) ([]model.Board, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	boards := []model.Board{}
	for _, board := range r.s.boards {
		if board.OwnerUUID == ownerUUID {
			boards = append(boards, board)
		}
	}
	sort.Slice(boards, func(i, j int) bool { return boards[i].CreatedAt.After(boards[j].CreatedAt) })
	return boards, nil
}

type MemoryProblems struct{ s *MemoryStore }

func (r *MemoryProblems) Create(_ context.Context, _ sqlx.ExtContext, problem *model.Problem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.tick()
	problem.CreatedAt, problem.UpdatedAt = now, now
	stored := *problem
	stored.Holds = append(model.Holds(nil), problem.Holds...)
	r.s.problems[problem.UUID] = stored
	return nil
}

func (r *MemoryProblems) Update(_ context.Context, _ sqlx.ExtContext, problem *model.Problem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.problems[problem.UUID]
	if !ok || stored.BoardUUID != problem.BoardUUID {
		return model.ErrProblemNotFound
	}
	stored.Name = problem.Name
	stored.Description = problem.Description
	stored.Grade = problem.Grade
	stored.Holds = append(model.Holds(nil), problem.Holds...)
	stored.UpdatedAt = r.s.tick()
	r.s.problems[problem.UUID] = stored

	problem.OwnerUUID = stored.OwnerUUID
	problem.CreatedAt = stored.CreatedAt
	problem.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *MemoryProblems) GetByUUID(_ context.Context, _ sqlx.ExtContext, boardUUID, problemUUID string) (*model.Problem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	problem, ok := r.s.problems[problemUUID]
	if !ok || problem.BoardUUID != boardUUID {
		return nil, model.ErrProblemNotFound
	}
	return &problem, nil
}

func (r *MemoryProblems) ListByBoard(_ context.Context, _ sqlx.ExtContext, boardUUID string) ([]model.Problem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	problems := []model.Problem{}
	for _, problem := range r.s.problems {
		if problem.BoardUUID == boardUUID {
			problems = append(problems, problem)
		}
	}
	sort.Slice(problems, func(i, j int) bool { return problems[i].CreatedAt.After(problems[j].CreatedAt) })
	return problems, nil
}

func (r *MemoryProblems) Delete(_ context.Context, _ sqlx.ExtContext, boardUUID, problemUUID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	problem, ok := r.s.problems[problemUUID]
	if !ok || problem.BoardUUID != boardUUID {
		return model.ErrProblemNotFound
	}
	delete(r.s.problems, problemUUID)
	return nil
}

type MemoryGrants struct{ s *MemoryStore }

func (r *MemoryGrants) Upsert(_ context.Context, _ sqlx.ExtContext, grant *model.PermissionGrant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := [2]string{grant.BoardUUID, grant.UserUUID}
	if existing, ok := r.s.grants[key]; ok {
		grant.CreatedAt = existing.CreatedAt
	} else {
		grant.CreatedAt = r.s.tick()
	}
	r.s.grants[key] = *grant
	return nil
}

func (r *MemoryGrants) Find(_ context.Context, _ sqlx.ExtContext, boardUUID, userUUID string) (*model.PermissionGrant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	grant, ok := r.s.grants[[2]string{boardUUID, userUUID}]
	if !ok {
		return nil, nil
	}
	return &grant, nil
}

func (r *MemoryGrants) Delete(_ context.Context, _ sqlx.ExtContext, boardUUID, userUUID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.grants, [2]string{boardUUID, userUUID})
	return nil
}

func (r *MemoryGrants) ListByBoard(_ context.Context, _ sqlx.ExtContext, boardUUID string) ([]model.PermissionGrant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	grants := []model.PermissionGrant{}
	for _, grant := range r.s.grants {
		if grant.BoardUUID == boardUUID {
			grants = append(grants, grant)
		}
	}
	sort.Slice(grants, func(i, j int) bool { return grants[i].CreatedAt.Before(grants[j].CreatedAt) })
	return grants, nil
}

type MemorySharedBoards struct{ s *MemoryStore }

func (r *MemorySharedBoards) Add(_ context.Context, _ sqlx.ExtContext, ref *model.SharedBoardRef) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := [2]string{ref.UserUUID, ref.BoardUUID}
	if existing, ok := r.s.shared[key]; ok {
		ref.CreatedAt = existing.CreatedAt
		return nil
	}
	ref.CreatedAt = r.s.tick()
	r.s.shared[key] = *ref
	return nil
}

func (r *MemorySharedBoards) Remove(_ context.Context, _ sqlx.ExtContext, userUUID, boardUUID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.shared, [2]string{userUUID, boardUUID})
	return nil
}

func (r *MemorySharedBoards) ListByUser(_ context.Context, _ sqlx.ExtContext, userUUID string) ([]model.SharedBoardRef, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	refs := []model.SharedBoardRef{}
	for _, ref := range r.s.shared {
		if ref.UserUUID == userUUID {
			refs = append(refs, ref)
		}
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].CreatedAt.Before(refs[j].CreatedAt) })
	return refs, nil
}

type MemoryAccessCodes struct{ s *MemoryStore }

func (r *MemoryAccessCodes) Create(_ context.Context, _ sqlx.ExtContext, code *model.AccessCode) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.codes[code.Code]; ok {
		return model.ErrAccessCodeExists
	}
	code.CreatedAt = r.s.clock.Now()
	r.s.codes[code.Code] = *code
	return nil
}

func (r *MemoryAccessCodes) GetByCode(_ context.Context, _ sqlx.ExtContext, code string) (*model.AccessCode, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.codes[code]
	if !ok {
		return nil, model.ErrAccessCodeNotFound
	}
	return &stored, nil
}

// NoopTxManager hands out a nil executor. The in-memory repositories ignore it.
type NoopTxManager struct{}

func (NoopTxManager) Executor() sqlx.ExtContext { return nil }

func (NoopTxManager) BeginTX(context.Context) (sqlx.ExtContext, func() error, func() error, error) {
	noop := func() error { return nil }
	return nil, noop, noop, nil
}

// MemoryCache never expires entries.
type MemoryCache struct {
	mu     sync.Mutex
	boards map[string]model.Board
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{boards: make(map[string]model.Board)}
}

func (c *MemoryCache) SetBoard(_ context.Context, board *model.Board) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.boards[board.UUID] = *board
	return nil
}

func (c *MemoryCache) GetBoard(_ context.Context, uuid string) (*model.Board, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	board, ok := c.boards[uuid]
	if !ok {
		return nil, nil
	}
	return &board, nil
}

func (c *MemoryCache) DeleteBoard(_ context.Context, uuid string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.boards, uuid)
	return nil
}

// MemoryStorage keeps uploaded objects by key.
type MemoryStorage struct {
	mu      sync.Mutex
	Objects map[string][]byte
	// FailUploads makes every Upload return this error
	FailUploads error
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{Objects: make(map[string][]byte)}
}

func (m *MemoryStorage) Upload(_ context.Context, key, _ string, body io.Reader) (string, error) {
	if m.FailUploads != nil {
		return "", m.FailUploads
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Objects[key] = buf.Bytes()
	return "memory://" + key, nil
}

func (m *MemoryStorage) GeneratePresignedGetURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "memory://" + key + "?signed", nil
}

func (m *MemoryStorage) DeleteObject(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Objects, key)
	return nil
}

func (m *MemoryStorage) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Objects[key]
	return ok
}
