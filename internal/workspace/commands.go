package workspace

import (
	"wallboard/internal/boardlist"
	"wallboard/internal/canvas"
	"wallboard/internal/model"
	"wallboard/internal/placement"
)

// Command : one user intent, applied by Controller.Dispatch
type Command interface {
	command()
}

type SignIn struct {
	Email    string
	Password string
}

type SignUp struct {
	Email    string
	Password string
}

type SignInAnonymously struct{}

type SignOut struct{}

// RedeemCode : holds the code as a guest session and opens its board
type RedeemCode struct {
	Code string
}

type UploadBoard struct {
	Name     string
	Filename string
	Data     []byte
}

type SelectBoard struct {
	BoardUUID string
}

// ImageLoaded : the board image finished loading at its natural size and is shown at Rendered
type ImageLoaded struct {
	Natural  canvas.Size
	Rendered canvas.Size
}

type ViewportResized struct {
	Rendered canvas.Size
}

// SelectProblem : an empty ProblemUUID clears the selection
type SelectProblem struct {
	ProblemUUID string
}

type NewProblem struct{}

// EditProblem : starts placing on the selected problem
type EditProblem struct{}

type SelectTool struct {
	Tool placement.Tool
}

// CanvasClick : At is in on-screen pixels of the rendered image
type CanvasClick struct {
	At canvas.Point
}

type FinishPlacing struct{}

// SortProblems : reorders the problem list, the order is kept across reloads
type SortProblems struct {
	Order ProblemOrder
}

type CancelPlacing struct{}

type CancelReview struct{}

type SaveProblem struct {
	Name        string
	Description string
	Grade       string
}

// DeleteProblem : deletes the selected problem
type DeleteProblem struct{}

type GenerateAccessCode struct {
	Level model.AccessLevel
}

type GrantAccess struct {
	Email string
	Level model.AccessLevel
}

type RevokeAccess struct {
	UserUUID string
}

// BoardsUpdated : delivered by the board list feed. Updates from a replaced feed are dropped.
type BoardsUpdated struct {
	Update     boardlist.Update
	generation uint64
}

func (SignIn) command()             {}
func (SignUp) command()             {}
func (SignInAnonymously) command()  {}
func (SignOut) command()            {}
func (RedeemCode) command()         {}
func (UploadBoard) command()        {}
func (SelectBoard) command()        {}
func (ImageLoaded) command()        {}
func (ViewportResized) command()    {}
func (SelectProblem) command()      {}
func (NewProblem) command()         {}
func (EditProblem) command()        {}
func (SelectTool) command()         {}
func (SortProblems) command()       {}
func (CanvasClick) command()        {}
func (FinishPlacing) command()      {}
func (CancelPlacing) command()      {}
func (CancelReview) command()       {}
func (SaveProblem) command()        {}
func (DeleteProblem) command()      {}
func (GenerateAccessCode) command() {}
func (GrantAccess) command()        {}
func (RevokeAccess) command()       {}
func (BoardsUpdated) command()      {}
