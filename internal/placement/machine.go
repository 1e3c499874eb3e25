// Package placement is the hold editing state machine: browsing, placing holds on the
// canvas, and reviewing the problem details before saving.
package placement

import (
	"context"
	"errors"
	"fmt"

	"wallboard/internal/canvas"
	"wallboard/internal/model"
)

type Mode int

const (
	Browsing Mode = iota
	Placing
	Reviewing
)

func (m Mode) String() string {
	switch m {
	case Placing:
		return "placing"
	case Reviewing:
		return "reviewing"
	default:
		return "browsing"
	}
}

type Tool string

const (
	ToolStart  Tool = "start"
	ToolHold   Tool = "hold"
	ToolFinish Tool = "finish"
	ToolDelete Tool = "delete"
)

func ParseTool(s string) (Tool, error) {
	switch Tool(s) {
	case ToolStart, ToolHold, ToolFinish, ToolDelete:
		return Tool(s), nil
	}
	return "", fmt.Errorf("%w: unknown tool %q", model.ErrInvalidInput, s)
}

var (
	ErrEditDenied   = fmt.Errorf("%w: you do not have edit access to this board", model.ErrAccessDenied)
	ErrNoHolds      = errors.New("place at least one hold before finishing")
	ErrNameRequired = errors.New("a problem needs a name")
	ErrWrongMode    = errors.New("not allowed in the current mode")
)

// Draft : the in-progress problem. ProblemUUID is empty for a new problem.
type Draft struct {
	ProblemUUID string
	Name        string
	Description string
	Grade       string
	Holds       []model.Hold
}

// Details : what the review sheet captures
type Details struct {
	Name        string
	Description string
	Grade       string
}

// PersistFunc : stores a reviewed draft
type PersistFunc func(ctx context.Context, draft Draft) error

// Machine is not safe for concurrent use, its owner serializes access.
type Machine struct {
	mode    Mode
	tool    Tool
	draft   Draft
	lastErr error
}

func NewMachine() *Machine {
	return &Machine{tool: ToolStart}
}

func (m *Machine) Mode() Mode { return m.mode }

func (m *Machine) Tool() Tool { return m.tool }

// Err : the last save failure while Reviewing
func (m *Machine) Err() error { return m.lastErr }

func (m *Machine) Draft() Draft {
	d := m.draft
	d.Holds = append([]model.Hold(nil), m.draft.Holds...)
	return d
}

// BeginNew : Browsing -> Placing with an empty draft
func (m *Machine) BeginNew(canEdit bool) error {
	if m.mode != Browsing {
		return ErrWrongMode
	}
	if !canEdit {
		return ErrEditDenied
	}
	m.draft = Draft{}
	m.mode = Placing
	return nil
}

// BeginEdit : Browsing -> Placing preloaded with the problem's holds and details
func (m *Machine) BeginEdit(canEdit bool, problem *model.Problem) error {
	if m.mode != Browsing {
		return ErrWrongMode
	}
	if !canEdit {
		return ErrEditDenied
	}
	if problem == nil {
		return model.ErrProblemNotFound
	}
	m.draft = Draft{
		ProblemUUID: problem.UUID,
		Name:        problem.Name,
		Description: problem.Description,
		Grade:       problem.Grade,
		Holds:       append([]model.Hold(nil), problem.Holds...),
	}
	m.mode = Placing
	return nil
}

func (m *Machine) SelectTool(tool Tool) {
	m.tool = tool
}

// Click : applies the active tool at a ratio coordinate. Reports whether the holds changed.
func (m *Machine) Click(ratio canvas.Point, native canvas.Size) (bool, error) {
	if m.mode != Placing {
		return false, ErrWrongMode
	}

	if m.tool == ToolDelete {
		click := canvas.RatioToNative(ratio, native)
		idx := NearestHold(m.draft.Holds, click, native, CaptureRadius)
		if idx < 0 {
			return false, nil
		}
		m.draft.Holds = append(m.draft.Holds[:idx], m.draft.Holds[idx+1:]...)
		return true, nil
	}

	m.draft.Holds = append(m.draft.Holds, model.Hold{
		XRatio: ratio.X,
		YRatio: ratio.Y,
		Type:   model.HoldType(m.tool),
	})
	return true, nil
}

// Finish : Placing -> Reviewing, only with at least one hold
func (m *Machine) Finish() error {
	if m.mode != Placing {
		return ErrWrongMode
	}
	if len(m.draft.Holds) == 0 {
		return ErrNoHolds
	}
	m.lastErr = nil
	m.mode = Reviewing
	return nil
}

// Cancel : back to Browsing from Placing or Reviewing, dropping the draft
func (m *Machine) Cancel() {
	m.mode = Browsing
	m.draft = Draft{}
	m.lastErr = nil
}

// Save : Reviewing -> Browsing once persist succeeds. Any failure keeps Reviewing so the user can retry.
func (m *Machine) Save(ctx context.Context, details Details, canEdit bool, persist PersistFunc) error {
	if m.mode != Reviewing {
		return ErrWrongMode
	}
	if details.Name == "" {
		m.lastErr = ErrNameRequired
		return m.lastErr
	}
	if !canEdit {
		m.lastErr = ErrEditDenied
		return m.lastErr
	}

	draft := m.Draft()
	draft.Name = details.Name
	draft.Description = details.Description
	draft.Grade = details.Grade

	if err := persist(ctx, draft); err != nil {
		m.lastErr = err
		return err
	}

	m.Cancel()
	return nil
}
