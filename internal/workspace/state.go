package workspace

import (
	"wallboard/internal/access"
	"wallboard/internal/canvas"
	"wallboard/internal/model"
	"wallboard/internal/placement"
)

// ProblemOrder : how State.Problems is sorted
type ProblemOrder string

const (
	NewestFirst ProblemOrder = ""
	// ByGrade puts ungraded problems first, then ascending V grade
	ByGrade ProblemOrder = "grade"
)

// State : everything the UI renders. Read a copy through Controller.State.
type State struct {
	User  *access.Identity
	Guest access.GuestSession

	Board       *model.Board
	SharedLevel model.AccessLevel
	// CanEdit is evaluated when the copy is taken
	CanEdit bool

	Problems        []model.Problem
	ProblemOrder    ProblemOrder
	SelectedProblem *model.Problem

	OwnedBoards  []model.Board
	SharedBoards []model.Board

	Mode     placement.Mode
	Tool     placement.Tool
	Draft    placement.Draft
	SaveErr  error
	Canvas   canvas.State
	Scale    float64
	LastCode *model.AccessCode

	// Notice is the message of the last failed command, or a warning from the last one that succeeded
	Notice string
}

func (s State) clone() State {
	out := s
	if s.User != nil {
		user := *s.User
		out.User = &user
	}
	if s.Board != nil {
		board := *s.Board
		out.Board = &board
	}
	if s.SelectedProblem != nil {
		problem := *s.SelectedProblem
		out.SelectedProblem = &problem
	}
	if s.LastCode != nil {
		code := *s.LastCode
		out.LastCode = &code
	}
	out.Problems = append([]model.Problem(nil), s.Problems...)
	out.OwnedBoards = append([]model.Board(nil), s.OwnedBoards...)
	out.SharedBoards = append([]model.Board(nil), s.SharedBoards...)
	return out
}
