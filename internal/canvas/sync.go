// Package canvas keeps the overlay drawing buffer matched to the board image.
//
// The buffer always has the image's natural resolution while its on-screen size follows
// the rendered image, so every marker position is derived from stored ratios and the
// current scale factor.
package canvas

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"wallboard/internal/model"
)

type State int

const (
	Unsynced State = iota
	Synced
)

func (s State) String() string {
	if s == Synced {
		return "synced"
	}
	return "unsynced"
}

var ErrNotSynced = errors.New("canvas is not synced to an image")

// Surface : the drawing target being kept in sync
type Surface interface {
	AcquireContext() error
	SetBufferSize(width, height int)
	SetDisplaySize(width, height float64)
}

type SyncEngine struct {
	mu       sync.Mutex
	surface  Surface
	debounce time.Duration

	state      State
	hasContext bool
	buffer     Size
	display    Size

	pending  Size
	timer    *time.Timer
	onResync func()
}

func NewSyncEngine(surface Surface, debounce time.Duration) *SyncEngine {
	if surface == nil {
		surface = nopSurface{}
	}
	return &SyncEngine{surface: surface, debounce: debounce}
}

// OnResync : called after every dimension match, outside the engine lock
func (e *SyncEngine) OnResync(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onResync = fn
}

// ImageLoaded : unsynced -> synced. The context is acquired only the first time.
func (e *SyncEngine) ImageLoaded(natural, rendered Size) error {
	if natural.Empty() {
		return errors.New("image has no natural size")
	}

	e.mu.Lock()
	if !e.hasContext {
		if err := e.surface.AcquireContext(); err != nil {
			e.mu.Unlock()
			return err
		}
		e.hasContext = true
	}
	e.stopTimerLocked()
	e.buffer = natural
	e.surface.SetBufferSize(int(natural.Width), int(natural.Height))
	e.matchLocked(rendered)
	e.state = Synced
	cb := e.onResync
	e.mu.Unlock()

	if cb != nil {
		cb()
	}
	return nil
}

// Resize : schedules a dimension match, bursts within the debounce window collapse into one
func (e *SyncEngine) Resize(rendered Size) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != Synced {
		return
	}
	e.pending = rendered
	if e.timer != nil {
		e.timer.Stop()
	}
	e.timer = time.AfterFunc(e.debounce, e.flush)
}

func (e *SyncEngine) flush() {
	e.mu.Lock()
	if e.state != Synced || e.timer == nil {
		e.mu.Unlock()
		return
	}
	e.timer = nil
	e.matchLocked(e.pending)
	cb := e.onResync
	e.mu.Unlock()

	if cb != nil {
		cb()
	}
}

func (e *SyncEngine) matchLocked(rendered Size) {
	e.display = rendered
	e.surface.SetDisplaySize(rendered.Width, rendered.Height)
}

// Reset : back to unsynced for the next image, the acquired context is kept
func (e *SyncEngine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopTimerLocked()
	e.state = Unsynced
	e.buffer = Size{}
	e.display = Size{}
}

func (e *SyncEngine) stopTimerLocked() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

func (e *SyncEngine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *SyncEngine) Buffer() Size {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buffer
}

func (e *SyncEngine) Display() Size {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.display
}

// Scale : buffer width over on-screen width, computed from the current sizes on every call
func (e *SyncEngine) Scale() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scaleLocked()
}

func (e *SyncEngine) scaleLocked() float64 {
	if e.state != Synced || e.display.Width <= 0 {
		return 1
	}
	return e.buffer.Width / e.display.Width
}

// RatioAt : the stored-hold ratio for a click at display coordinates
func (e *SyncEngine) RatioAt(display Point) (Point, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != Synced {
		return Point{}, ErrNotSynced
	}
	if !finite(display.X) || !finite(display.Y) {
		return Point{}, fmt.Errorf("%w: click at (%g, %g)", model.ErrInvalidInput, display.X, display.Y)
	}
	native := DisplayToNative(display, e.scaleLocked())
	ratio := NativeToRatio(native, e.buffer)
	return Point{X: clampRatio(ratio.X), Y: clampRatio(ratio.Y)}, nil
}

type nopSurface struct{}

func (nopSurface) AcquireContext() error           { return nil }
func (nopSurface) SetBufferSize(int, int)          {}
func (nopSurface) SetDisplaySize(float64, float64) {}
