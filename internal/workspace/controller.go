// Package workspace is the client application: one Controller owns the whole UI state and
// changes it only through dispatched commands.
//
// A client embeds it by building a Backend and a canvas.Surface, then forwarding user
// input as commands and re-rendering from State after each Dispatch:
//
//	backend := workspace.NewLocalBackend(auth, boards, problems, access, jwt, tokens, hub)
//	c := workspace.NewController(backend, surface, cfg.Canvas)
//	defer c.Close()
//	err := c.Dispatch(ctx, workspace.SignIn{Email: email, Password: password})
//	render(c.State())
//
// LocalBackend runs the services in process. A remote client implements Backend over the
// HTTP API instead. Board list updates arrive on their own goroutine and are applied
// through Dispatch as well, so a renderer that polls State sees them.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"wallboard/config"
	"wallboard/internal/access"
	"wallboard/internal/boardlist"
	"wallboard/internal/canvas"
	"wallboard/internal/model"
	"wallboard/internal/placement"

	"go.uber.org/zap"
)

var ErrNoBoard = errors.New("open a board first")

type Controller struct {
	mu      sync.Mutex
	backend Backend
	state   State
	session *model.Session
	machine *placement.Machine
	canvas  *canvas.SyncEngine
	log     *zap.Logger

	feed    BoardFeed
	feedGen uint64
}

func NewController(backend Backend, surface canvas.Surface, cfg config.CanvasConfig) *Controller {
	return &Controller{
		backend: backend,
		machine: placement.NewMachine(),
		canvas:  canvas.NewSyncEngine(surface, cfg.ResizeDebounce),
		log:     zap.L().With(zap.String("component", "Workspace")),
	}
}

// State : a copy of the current state with edit capability evaluated now
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state.clone()
	s.CanEdit = c.canEdit()
	s.Mode = c.machine.Mode()
	s.Tool = c.machine.Tool()
	s.Draft = c.machine.Draft()
	s.SaveErr = c.machine.Err()
	s.Canvas = c.canvas.State()
	s.Scale = c.canvas.Scale()
	return s
}

// Close : ends the board list feed
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeFeed()
	c.canvas.Reset()
}

// Dispatch : applies cmd and records a failure in Notice. Steps that already succeeded are not rolled back.
func (c *Controller) Dispatch(ctx context.Context, cmd Command) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, feed := cmd.(BoardsUpdated); !feed {
		c.state.Notice = ""
	}
	err := c.apply(ctx, cmd)
	if err != nil {
		c.state.Notice = err.Error()
		c.log.Debug("command failed", zap.String("command", fmt.Sprintf("%T", cmd)), zap.Error(err))
	}
	return err
}

func (c *Controller) apply(ctx context.Context, cmd Command) error {
	switch cmd := cmd.(type) {
	case SignIn:
		session, err := c.backend.SignIn(ctx, cmd.Email, cmd.Password)
		if err != nil {
			return err
		}
		c.authChanged(ctx, session)
	case SignUp:
		session, err := c.backend.SignUp(ctx, cmd.Email, cmd.Password)
		if err != nil {
			return err
		}
		c.authChanged(ctx, session)
	case SignInAnonymously:
		session, err := c.backend.SignInAnonymously(ctx)
		if err != nil {
			return err
		}
		c.authChanged(ctx, session)
	case SignOut:
		return c.signOut(ctx)
	case RedeemCode:
		return c.redeem(ctx, cmd.Code)
	case UploadBoard:
		return c.upload(ctx, cmd)
	case SelectBoard:
		return c.selectBoard(ctx, cmd.BoardUUID)
	case ImageLoaded:
		return c.canvas.ImageLoaded(cmd.Natural, cmd.Rendered)
	case ViewportResized:
		c.canvas.Resize(cmd.Rendered)
	case SelectProblem:
		return c.selectProblem(cmd.ProblemUUID)
	case NewProblem:
		if c.state.Board == nil {
			return ErrNoBoard
		}
		return c.machine.BeginNew(c.canEdit())
	case EditProblem:
		if c.state.SelectedProblem == nil {
			return model.ErrProblemNotFound
		}
		return c.machine.BeginEdit(c.canEdit(), c.state.SelectedProblem)
	case SelectTool:
		c.machine.SelectTool(cmd.Tool)
	case SortProblems:
		return c.sortProblems(cmd.Order)
	case CanvasClick:
		return c.click(cmd.At)
	case FinishPlacing:
		return c.machine.Finish()
	case CancelPlacing, CancelReview:
		c.machine.Cancel()
	case SaveProblem:
		return c.save(ctx, cmd)
	case DeleteProblem:
		return c.deleteProblem(ctx)
	case GenerateAccessCode:
		return c.generateCode(ctx, cmd.Level)
	case GrantAccess:
		if c.state.Board == nil {
			return ErrNoBoard
		}
		_, err := c.backend.GrantAccess(context.WithoutCancel(ctx), c.token(), c.state.Board.UUID, cmd.Email, cmd.Level)
		return err
	case RevokeAccess:
		if c.state.Board == nil {
			return ErrNoBoard
		}
		return c.backend.RevokeAccess(context.WithoutCancel(ctx), c.token(), c.state.Board.UUID, cmd.UserUUID)
	case BoardsUpdated:
		return c.boardsUpdated(ctx, cmd)
	default:
		return fmt.Errorf("%w: unknown command %T", model.ErrInvalidInput, cmd)
	}
	return nil
}

// canEdit : evaluated from the current inputs on every call
func (c *Controller) canEdit() bool {
	if c.state.Board == nil {
		return false
	}
	return access.CanEditCurrentBoard(c.state.User, c.state.Board, c.state.SharedLevel, c.state.Guest.LevelFor(c.state.Board.UUID))
}

func (c *Controller) token() string {
	if c.session == nil {
		return ""
	}
	return c.session.Tokens.AccessToken
}

func identityOf(session *model.Session) *access.Identity {
	if session == nil {
		return nil
	}
	return &access.Identity{
		UserUUID:  session.User.UUID,
		Email:     session.User.Email,
		Anonymous: session.User.IsAnonymous,
	}
}

// authChanged : the guest session is captured before anything else reacts to the new identity
func (c *Controller) authChanged(ctx context.Context, session *model.Session) {
	prior := c.state.Guest
	event := access.AuthChange{Previous: c.state.User, Current: identityOf(session)}

	c.session = session
	c.state.User = event.Current

	if promotion, ok := access.PlanPromotion(prior, event); ok {
		if _, err := c.backend.PromoteGuest(context.WithoutCancel(ctx), c.token(), promotion.Code); err != nil {
			c.log.Warn("guest promotion failed",
				zap.String("board_uuid", promotion.BoardUUID),
				zap.String("user_uuid", promotion.UserUUID),
				zap.Error(err),
			)
			c.state.Notice = "could not keep your guest access: " + err.Error()
		} else {
			c.state.Guest.Clear()
		}
	}

	c.replaceFeed(ctx)
	c.refreshSharedLevel(ctx)
}

func (c *Controller) signOut(ctx context.Context) error {
	if c.session == nil {
		return nil
	}
	if err := c.backend.SignOut(ctx, c.token()); err != nil && !errors.Is(err, model.ErrUnauthenticated) {
		return err
	}

	c.session = nil
	c.state.User = nil
	c.state.SharedLevel = model.AccessNone
	c.state.OwnedBoards = nil
	c.state.SharedBoards = nil
	c.state.LastCode = nil
	c.closeFeed()
	c.feedGen++
	return nil
}

// replaceFeed : the old feed is torn down before the next one is opened
func (c *Controller) replaceFeed(ctx context.Context) {
	c.closeFeed()
	c.feedGen++
	c.state.OwnedBoards = nil
	c.state.SharedBoards = nil

	if !c.state.User.Authenticated() {
		return
	}
	feed, err := c.backend.WatchBoards(context.WithoutCancel(ctx), c.token())
	if err != nil {
		c.log.Warn("board list unavailable", zap.Error(err))
		return
	}
	c.feed = feed
	go c.pump(feed, c.feedGen)
}

func (c *Controller) closeFeed() {
	if c.feed != nil {
		c.feed.Close()
		c.feed = nil
	}
}

func (c *Controller) pump(feed BoardFeed, generation uint64) {
	for update := range feed.Updates() {
		_ = c.Dispatch(context.Background(), BoardsUpdated{Update: update, generation: generation})
	}
}

func (c *Controller) boardsUpdated(ctx context.Context, cmd BoardsUpdated) error {
	if cmd.generation != c.feedGen {
		return nil
	}
	switch cmd.Update.Section {
	case boardlist.Owned:
		c.state.OwnedBoards = cmd.Update.Boards
		if cmd.Update.AutoSelect != nil && c.state.Board == nil {
			return c.selectBoard(ctx, cmd.Update.AutoSelect.UUID)
		}
	case boardlist.Shared:
		c.state.SharedBoards = cmd.Update.Boards
	}
	return nil
}

// refreshSharedLevel : the stored grant level of the signed-in user on the open board
func (c *Controller) refreshSharedLevel(ctx context.Context) {
	c.state.SharedLevel = model.AccessNone
	if c.state.Board == nil || !c.state.User.Authenticated() {
		return
	}
	standing, err := c.backend.BoardAccess(ctx, c.token(), c.state.Board.UUID)
	if err != nil {
		c.log.Warn("board access lookup failed", zap.String("board_uuid", c.state.Board.UUID), zap.Error(err))
		return
	}
	if !standing.Owner {
		c.state.SharedLevel = standing.Level
	}
}

// selectBoard : guest access only survives when the guest code is for this board
func (c *Controller) selectBoard(ctx context.Context, boardUUID string) error {
	board, err := c.backend.GetBoard(ctx, boardUUID)
	if err != nil {
		return err
	}
	problems, err := c.backend.ListProblems(ctx, boardUUID)
	if err != nil {
		return err
	}

	if !c.state.Guest.For(boardUUID) {
		c.state.Guest.Clear()
	}
	c.machine.Cancel()
	c.canvas.Reset()
	c.state.Board = board
	c.setProblems(problems)
	c.state.SelectedProblem = nil
	c.state.LastCode = nil
	c.refreshSharedLevel(ctx)
	return nil
}

// redeem : a signed-in user turns the code into a grant right away
func (c *Controller) redeem(ctx context.Context, code string) error {
	ctx = context.WithoutCancel(ctx)

	redeemed, err := c.backend.RedeemCode(ctx, code)
	if err != nil {
		return err
	}
	if c.state.User.Authenticated() {
		if _, err := c.backend.PromoteGuest(ctx, c.token(), redeemed.Code); err != nil {
			return err
		}
		return c.selectBoard(ctx, redeemed.BoardUUID)
	}

	c.state.Guest = access.NewGuestSession(redeemed)
	return c.selectBoard(ctx, redeemed.BoardUUID)
}

func (c *Controller) upload(ctx context.Context, cmd UploadBoard) error {
	if !c.state.User.Authenticated() {
		return fmt.Errorf("sign in to upload a board: %w", model.ErrUnauthenticated)
	}
	board, err := c.backend.UploadBoard(context.WithoutCancel(ctx), c.token(), model.BoardUpload{
		Name:     cmd.Name,
		Filename: cmd.Filename,
		Data:     cmd.Data,
	})
	if err != nil {
		return err
	}
	c.log.Info("board uploaded", zap.String("board_uuid", board.UUID))
	return nil
}

func (c *Controller) selectProblem(problemUUID string) error {
	if c.machine.Mode() != placement.Browsing {
		return placement.ErrWrongMode
	}
	if problemUUID == "" {
		c.state.SelectedProblem = nil
		return nil
	}
	for i := range c.state.Problems {
		if c.state.Problems[i].UUID == problemUUID {
			problem := c.state.Problems[i]
			c.state.SelectedProblem = &problem
			return nil
		}
	}
	return model.ErrProblemNotFound
}

func (c *Controller) click(at canvas.Point) error {
	if c.machine.Mode() != placement.Placing {
		return placement.ErrWrongMode
	}
	ratio, err := c.canvas.RatioAt(at)
	if err != nil {
		return err
	}
	_, err = c.machine.Click(ratio, c.canvas.Buffer())
	return err
}

func (c *Controller) save(ctx context.Context, cmd SaveProblem) error {
	if c.state.Board == nil {
		return ErrNoBoard
	}
	boardUUID := c.state.Board.UUID
	guestCode := ""
	if c.state.Guest.For(boardUUID) {
		guestCode = c.state.Guest.Code
	}

	var saved *model.Problem
	details := placement.Details{Name: cmd.Name, Description: cmd.Description, Grade: cmd.Grade}
	err := c.machine.Save(ctx, details, c.canEdit(), func(ctx context.Context, draft placement.Draft) error {
		body := model.ProblemDraft{
			Name:        draft.Name,
			Description: draft.Description,
			Grade:       draft.Grade,
			Holds:       draft.Holds,
			GuestCode:   guestCode,
		}
		ctx = context.WithoutCancel(ctx)

		var err error
		if draft.ProblemUUID == "" {
			saved, err = c.backend.CreateProblem(ctx, c.token(), boardUUID, body)
		} else {
			saved, err = c.backend.UpdateProblem(ctx, c.token(), boardUUID, draft.ProblemUUID, body)
		}
		return err
	})
	if err != nil {
		return err
	}

	c.state.SelectedProblem = saved
	return c.reloadProblems(ctx)
}

// deleteProblem : only the board owner deletes, checked before any write
func (c *Controller) deleteProblem(ctx context.Context) error {
	if c.state.Board == nil {
		return ErrNoBoard
	}
	if c.state.SelectedProblem == nil {
		return model.ErrProblemNotFound
	}
	if c.machine.Mode() != placement.Browsing {
		return placement.ErrWrongMode
	}
	if !c.state.User.Authenticated() || c.state.User.UserUUID != c.state.Board.OwnerUUID {
		return fmt.Errorf("only the board owner can delete problems: %w", model.ErrAccessDenied)
	}

	err := c.backend.DeleteProblem(context.WithoutCancel(ctx), c.token(), c.state.Board.UUID, c.state.SelectedProblem.UUID)
	if err != nil {
		return err
	}
	c.state.SelectedProblem = nil
	return c.reloadProblems(ctx)
}

func (c *Controller) reloadProblems(ctx context.Context) error {
	problems, err := c.backend.ListProblems(ctx, c.state.Board.UUID)
	if err != nil {
		return err
	}
	c.setProblems(problems)
	return nil
}

func (c *Controller) sortProblems(order ProblemOrder) error {
	switch order {
	case NewestFirst, ByGrade:
	default:
		return fmt.Errorf("%w: unknown problem order %q", model.ErrInvalidInput, order)
	}
	c.state.ProblemOrder = order
	c.setProblems(c.state.Problems)
	return nil
}

// setProblems : stores problems in the current order
func (c *Controller) setProblems(problems []model.Problem) {
	sort.SliceStable(problems, func(i, j int) bool { return problems[i].CreatedAt.After(problems[j].CreatedAt) })
	if c.state.ProblemOrder == ByGrade {
		placement.SortProblemsByGrade(problems)
	}
	c.state.Problems = problems
}

func (c *Controller) generateCode(ctx context.Context, level model.AccessLevel) error {
	if c.state.Board == nil {
		return ErrNoBoard
	}
	code, err := c.backend.CreateAccessCode(context.WithoutCancel(ctx), c.token(), c.state.Board.UUID, level)
	if err != nil {
		return err
	}
	c.state.LastCode = code
	return nil
}
