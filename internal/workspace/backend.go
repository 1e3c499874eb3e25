package workspace

import (
	"context"
	"fmt"

	"wallboard/internal/boardlist"
	"wallboard/internal/model"
	"wallboard/internal/ports"
	"wallboard/internal/realtime"
	"wallboard/internal/security"
)

// Backend : everything the controller asks of the backing service. An empty token means no session.
type Backend interface {
	SignUp(ctx context.Context, email, password string) (*model.Session, error)
	SignIn(ctx context.Context, email, password string) (*model.Session, error)
	SignInAnonymously(ctx context.Context) (*model.Session, error)
	SignOut(ctx context.Context, token string) error

	RedeemCode(ctx context.Context, code string) (*model.RedeemedCode, error)
	PromoteGuest(ctx context.Context, token, code string) (*model.PermissionGrant, error)
	CreateAccessCode(ctx context.Context, token, boardUUID string, level model.AccessLevel) (*model.AccessCode, error)
	GrantAccess(ctx context.Context, token, boardUUID, email string, level model.AccessLevel) (*model.PermissionGrant, error)
	RevokeAccess(ctx context.Context, token, boardUUID, userUUID string) error

	UploadBoard(ctx context.Context, token string, upload model.BoardUpload) (*model.Board, error)
	GetBoard(ctx context.Context, boardUUID string) (*model.Board, error)
	BoardAccess(ctx context.Context, token, boardUUID string) (*model.BoardAccess, error)
	WatchBoards(ctx context.Context, token string) (BoardFeed, error)

	ListProblems(ctx context.Context, boardUUID string) ([]model.Problem, error)
	CreateProblem(ctx context.Context, token, boardUUID string, draft model.ProblemDraft) (*model.Problem, error)
	UpdateProblem(ctx context.Context, token, boardUUID, problemUUID string, draft model.ProblemDraft) (*model.Problem, error)
	DeleteProblem(ctx context.Context, token, boardUUID, problemUUID string) error
}

// BoardFeed : a live board list subscription, closed when the session ends
type BoardFeed interface {
	Updates() <-chan boardlist.Update
	Close()
}

const localUserAgent = "wallboard-workspace"

// LocalBackend : Backend served by in-process services, authorizing calls the way the HTTP middleware does
type LocalBackend struct {
	auth     ports.AuthenticationService
	boards   ports.BoardService
	problems ports.ProblemService
	access   ports.AccessService
	jwt      *security.JWTService
	sessions security.RefreshTokenFinder
	feeds    realtime.Subscriber
}

func NewLocalBackend(
	auth ports.AuthenticationService,
	boards ports.BoardService,
	problems ports.ProblemService,
	accessService ports.AccessService,
	jwt *security.JWTService,
	sessions security.RefreshTokenFinder,
	feeds realtime.Subscriber,
) *LocalBackend {
	return &LocalBackend{
		auth:     auth,
		boards:   boards,
		problems: problems,
		access:   accessService,
		jwt:      jwt,
		sessions: sessions,
		feeds:    feeds,
	}
}

// authorize : attaches the token's claims to ctx. A closed session is rejected.
func (b *LocalBackend) authorize(ctx context.Context, token string) (context.Context, error) {
	if token == "" {
		return ctx, nil
	}
	claims, err := b.jwt.ParseAccessToken(token)
	if err != nil {
		return nil, fmt.Errorf("[LocalBackend] %w", model.ErrUnauthenticated)
	}
	refresh, err := b.sessions.FindByUUID(ctx, claims.RefreshTokenUUID)
	if err != nil || refresh.Used {
		return nil, fmt.Errorf("[LocalBackend] session closed: %w", model.ErrUnauthenticated)
	}
	return security.WithClaims(ctx, claims), nil
}

func (b *LocalBackend) SignUp(ctx context.Context, email, password string) (*model.Session, error) {
	return b.auth.SignUp(ctx, email, password, localUserAgent, "")
}

func (b *LocalBackend) SignIn(ctx context.Context, email, password string) (*model.Session, error) {
	return b.auth.Login(ctx, email, password, false, localUserAgent, "")
}

func (b *LocalBackend) SignInAnonymously(ctx context.Context) (*model.Session, error) {
	return b.auth.SignInAnonymously(ctx, localUserAgent, "")
}

// SignOut : closes the refresh session behind token, an expired access token is still accepted
func (b *LocalBackend) SignOut(ctx context.Context, token string) error {
	claims, err := b.jwt.ParseExpiredAccessToken(token)
	if err != nil {
		return fmt.Errorf("[LocalBackend] %w", model.ErrUnauthenticated)
	}
	return b.auth.Logout(ctx, claims.RefreshTokenUUID)
}

func (b *LocalBackend) RedeemCode(ctx context.Context, code string) (*model.RedeemedCode, error) {
	return b.access.RedeemCode(ctx, code)
}

func (b *LocalBackend) PromoteGuest(ctx context.Context, token, code string) (*model.PermissionGrant, error) {
	ctx, err := b.authorize(ctx, token)
	if err != nil {
		return nil, err
	}
	return b.access.PromoteGuest(ctx, code)
}

func (b *LocalBackend) CreateAccessCode(ctx context.Context, token, boardUUID string, level model.AccessLevel) (*model.AccessCode, error) {
	ctx, err := b.authorize(ctx, token)
	if err != nil {
		return nil, err
	}
	return b.access.CreateAccessCode(ctx, boardUUID, level)
}

func (b *LocalBackend) GrantAccess(ctx context.Context, token, boardUUID, email string, level model.AccessLevel) (*model.PermissionGrant, error) {
	ctx, err := b.authorize(ctx, token)
	if err != nil {
		return nil, err
	}
	return b.access.GrantByEmail(ctx, boardUUID, email, level)
}

func (b *LocalBackend) RevokeAccess(ctx context.Context, token, boardUUID, userUUID string) error {
	ctx, err := b.authorize(ctx, token)
	if err != nil {
		return err
	}
	return b.access.RevokeGrant(ctx, boardUUID, userUUID)
}

func (b *LocalBackend) UploadBoard(ctx context.Context, token string, upload model.BoardUpload) (*model.Board, error) {
	ctx, err := b.authorize(ctx, token)
	if err != nil {
		return nil, err
	}
	return b.boards.UploadBoard(ctx, upload)
}

func (b *LocalBackend) GetBoard(ctx context.Context, boardUUID string) (*model.Board, error) {
	return b.boards.GetBoard(ctx, boardUUID)
}

func (b *LocalBackend) BoardAccess(ctx context.Context, token, boardUUID string) (*model.BoardAccess, error) {
	ctx, err := b.authorize(ctx, token)
	if err != nil {
		return nil, err
	}
	return b.access.AccessLevel(ctx, boardUUID, "")
}

func (b *LocalBackend) WatchBoards(ctx context.Context, token string) (BoardFeed, error) {
	ctx, err := b.authorize(ctx, token)
	if err != nil {
		return nil, err
	}
	claims, err := security.GetClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return boardlist.Open(ctx, claims.UserUUID, b.boards, b.feeds), nil
}

func (b *LocalBackend) ListProblems(ctx context.Context, boardUUID string) ([]model.Problem, error) {
	return b.problems.List(ctx, boardUUID)
}

func (b *LocalBackend) CreateProblem(ctx context.Context, token, boardUUID string, draft model.ProblemDraft) (*model.Problem, error) {
	ctx, err := b.authorize(ctx, token)
	if err != nil {
		return nil, err
	}
	return b.problems.Create(ctx, boardUUID, draft)
}

func (b *LocalBackend) UpdateProblem(ctx context.Context, token, boardUUID, problemUUID string, draft model.ProblemDraft) (*model.Problem, error) {
	ctx, err := b.authorize(ctx, token)
	if err != nil {
		return nil, err
	}
	return b.problems.Update(ctx, boardUUID, problemUUID, draft)
}

func (b *LocalBackend) DeleteProblem(ctx context.Context, token, boardUUID, problemUUID string) error {
	ctx, err := b.authorize(ctx, token)
	if err != nil {
		return err
	}
	return b.problems.Delete(ctx, boardUUID, problemUUID)
}
