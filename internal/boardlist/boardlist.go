// Package boardlist keeps a signed-in user's two board lists current.
//
// Owned boards and boards shared with the user are separate subscriptions and separate
// sections. They are never merged, every update carries one section's full list.
package boardlist

import (
	"context"
	"sync"

	"wallboard/internal/model"
	"wallboard/internal/realtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Section string

const (
	Owned  Section = "owned"
	Shared Section = "shared"
)

// Update : the complete current list of one section
type Update struct {
	Section Section       `json:"section"`
	Boards  []model.Board `json:"boards"`
	// AutoSelect is set on the first non-empty owned list of a session only
	AutoSelect *model.Board `json:"auto_select,omitempty"`
}

// Source : the queries behind both sections
type Source interface {
	ListOwned(ctx context.Context, userUUID string) ([]model.Board, error)
	ListSharedRefs(ctx context.Context, userUUID string) ([]model.SharedBoardRef, error)
	GetBoard(ctx context.Context, boardUUID string) (*model.Board, error)
}

const resolveParallelism = 8

// ResolveShared : point-reads every ref in parallel and returns the boards in ref order.
// Refs whose board is missing or unreadable are skipped.
func ResolveShared(ctx context.Context, source Source, refs []model.SharedBoardRef) []model.Board {
	resolved := make([]*model.Board, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(resolveParallelism)
	for i, ref := range refs {
		g.Go(func() error {
			board, err := source.GetBoard(gctx, ref.BoardUUID)
			if err != nil {
				zap.L().Debug("skipping shared board", zap.String("board_uuid", ref.BoardUUID), zap.Error(err))
				return nil
			}
			resolved[i] = board
			return nil
		})
	}
	_ = g.Wait()

	boards := make([]model.Board, 0, len(refs))
	for _, board := range resolved {
		if board != nil {
			boards = append(boards, *board)
		}
	}
	return boards
}

// Session : both subscriptions of one signed-in user
type Session struct {
	userUUID   string
	source     Source
	subscriber realtime.Subscriber
	log        *zap.Logger

	out    chan Update
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu           sync.Mutex
	subs         map[Section]*realtime.Subscription
	autoSelected bool
	closed       bool
}

// Open : starts both subscriptions. Each emits its current list, then again after every change.
func Open(ctx context.Context, userUUID string, source Source, subscriber realtime.Subscriber) *Session {
	ctx, cancel := context.WithCancel(ctx)
	s := &Session{
		userUUID:   userUUID,
		source:     source,
		subscriber: subscriber,
		log:        zap.L().With(zap.String("component", "BoardList"), zap.String("user_uuid", userUUID)),
		out:        make(chan Update),
		ctx:        ctx,
		cancel:     cancel,
		subs:       make(map[Section]*realtime.Subscription),
	}

	s.subscribe(Owned, realtime.OwnedBoardsTopic(userUUID))
	s.subscribe(Shared, realtime.SharedBoardsTopic(userUUID))

	return s
}

func (s *Session) Updates() <-chan Update {
	return s.out
}

// subscribe : tears down the section's previous subscription before creating the next one
func (s *Session) subscribe(section Section, topic string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if old := s.subs[section]; old != nil {
		old.Close()
		s.subs[section] = nil
	}
	sub := s.subscriber.Subscribe(topic)
	s.subs[section] = sub

	s.wg.Add(1)
	go s.pump(section, sub)
}

func (s *Session) pump(section Section, sub *realtime.Subscription) {
	defer s.wg.Done()

	s.refresh(section)
	for {
		select {
		case <-s.ctx.Done():
			return
		case _, ok := <-sub.C:
			if !ok {
				return
			}
			s.refresh(section)
		}
	}
}

func (s *Session) refresh(section Section) {
	var (
		boards []model.Board
		err    error
	)
	switch section {
	case Owned:
		boards, err = s.source.ListOwned(s.ctx, s.userUUID)
	case Shared:
		var refs []model.SharedBoardRef
		refs, err = s.source.ListSharedRefs(s.ctx, s.userUUID)
		if err == nil {
			boards = ResolveShared(s.ctx, s.source, refs)
		}
	}
	if err != nil {
		if s.ctx.Err() == nil {
			s.log.Warn("board list query failed", zap.String("section", string(section)), zap.Error(err))
		}
		return
	}

	update := Update{Section: section, Boards: boards}
	if section == Owned {
		update.AutoSelect = s.takeAutoSelect(boards)
	}

	select {
	case s.out <- update:
	case <-s.ctx.Done():
	}
}

// takeAutoSelect : the newest owned board, once per session
func (s *Session) takeAutoSelect(boards []model.Board) *model.Board {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.autoSelected || len(boards) == 0 {
		return nil
	}
	s.autoSelected = true

	newest := boards[0]
	for _, board := range boards[1:] {
		if board.CreatedAt.After(newest.CreatedAt) {
			newest = board
		}
	}
	return &newest
}

// Close : stops both subscriptions and closes Updates. Safe to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.cancel()
	for section, sub := range s.subs {
		if sub != nil {
			sub.Close()
		}
		delete(s.subs, section)
	}
	s.mu.Unlock()

	s.wg.Wait()
	close(s.out)
}
