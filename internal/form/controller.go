// Package form implements the create/edit dialog state machine shared by every
// entity screen.
package form

import (
	"context"
	"errors"
	"fmt"
)

// Mode is the dialog state.
type Mode int

const (
	Closed Mode = iota
	Creating
	Editing
)

func (m Mode) String() string {
	switch m {
	case Creating:
		return "creating"
	case Editing:
		return "editing"
	default:
		return "closed"
	}
}

var (
	// ErrNotOpen is returned when submitting a closed dialog.
	ErrNotOpen = errors.New("form is not open")
	// ErrBusy is returned when a submission is already in flight.
	ErrBusy = errors.New("submission in progress")
)

// Input is implemented by request bodies that can tidy their own fields.
type Input[In any] interface {
	Normalize(clean func(string) string) In
}

// Target persists submissions and reloads the owning collection afterwards.
// *state.List satisfies it.
type Target[T any, In any] interface {
	Create(ctx context.Context, in In) (T, error)
	Update(ctx context.Context, id int64, in In) (T, error)
	Refresh(ctx context.Context) error
}

// Resyncer is implemented by targets that refetch on their own after every
// mutation. Persist does not refresh them a second time.
type Resyncer interface {
	Resyncs() bool
}

// Request is a validated submission ready to be persisted.
type Request[In any] struct {
	Mode  Mode
	ID    int64
	Input In
}

// Controller owns the dialog mode, the bound entity, the field values and the
// field errors. It is not safe for concurrent use; Bubble Tea calls it from
// the update loop and runs Persist in a command.
type Controller[T any, In Input[In]] struct {
	mode       Mode
	editingID  int64
	input      In
	errs       *ValidationError
	submitting bool

	defaults func() In
	bind     func(T) (int64, In)
}

// NewController builds a closed controller. defaults supplies the fields of a
// new entity and bind extracts the id and fields of an existing one.
func NewController[T any, In Input[In]](defaults func() In, bind func(T) (int64, In)) *Controller[T, In] {
	return &Controller[T, In]{defaults: defaults, bind: bind}
}

// OpenCreate resets the fields to their defaults and enters Creating.
func (c *Controller[T, In]) OpenCreate() {
	c.mode = Creating
	c.editingID = 0
	c.input = c.defaults()
	c.errs = nil
	c.submitting = false
}

// OpenEdit binds entity and enters Editing with its current values.
func (c *Controller[T, In]) OpenEdit(entity T) {
	c.mode = Editing
	c.editingID, c.input = c.bind(entity)
	c.errs = nil
	c.submitting = false
}

// Cancel closes the dialog without touching anything else.
func (c *Controller[T, In]) Cancel() {
	var zero In
	c.mode = Closed
	c.editingID = 0
	c.input = zero
	c.errs = nil
	c.submitting = false
}

// Mode returns the current state.
func (c *Controller[T, In]) Mode() Mode { return c.mode }

// IsOpen reports whether the dialog is Creating or Editing.
func (c *Controller[T, In]) IsOpen() bool { return c.mode != Closed }

// EditingID returns the id bound in Editing mode, otherwise zero.
func (c *Controller[T, In]) EditingID() int64 { return c.editingID }

// Input returns the current field values.
func (c *Controller[T, In]) Input() In { return c.input }

// SetInput replaces the field values. Errors from a previous attempt are kept
// until the next Prepare.
func (c *Controller[T, In]) SetInput(in In) {
	if c.mode == Closed {
		return
	}
	c.input = in
}

// Errors returns the field errors of the last failed validation, or nil.
func (c *Controller[T, In]) Errors() *ValidationError { return c.errs }

// Submitting reports whether a submission is in flight; the submit control
// stays disabled while it is.
func (c *Controller[T, In]) Submitting() bool { return c.submitting }

// Prepare normalizes and validates the current input. Invalid input records
// field errors and returns a *ValidationError; no request is built. Valid input
// marks the controller as submitting and returns the request to persist.
func (c *Controller[T, In]) Prepare() (Request[In], error) {
	if c.mode == Closed {
		return Request[In]{}, ErrNotOpen
	}
	if c.submitting {
		return Request[In]{}, ErrBusy
	}
	c.input = c.input.Normalize(Clean)
	if err := Validate(c.input); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			c.errs = verr
		}
		return Request[In]{}, err
	}
	c.errs = nil
	c.submitting = true
	return Request[In]{Mode: c.mode, ID: c.editingID, Input: c.input}, nil
}

// Complete applies the outcome of Persist. Success closes the dialog; failure
// re-enables submission and keeps the dialog open with the entered values.
func (c *Controller[T, In]) Complete(err error) {
	if err != nil {
		c.submitting = false
		return
	}
	c.Cancel()
}

// Submit runs Prepare, Persist and Complete in sequence.
func (c *Controller[T, In]) Submit(ctx context.Context, target Target[T, In]) (T, error) {
	req, err := c.Prepare()
	if err != nil {
		var zero T
		return zero, err
	}
	saved, err := Persist(ctx, target, req)
	c.Complete(err)
	return saved, err
}

// Persist issues the create or update for req and, once it succeeds, refreshes
// the target so the caller may assume the collection reflects the server. A
// failed refresh is left for the target to report. Targets that already
// resynced are not refreshed again.
func Persist[T any, In any](ctx context.Context, target Target[T, In], req Request[In]) (T, error) {
	var (
		saved T
		err   error
	)
	switch req.Mode {
	case Creating:
		saved, err = target.Create(ctx, req.Input)
	case Editing:
		saved, err = target.Update(ctx, req.ID, req.Input)
	default:
		return saved, ErrNotOpen
	}
	if err != nil {
		return saved, fmt.Errorf("%s: %w", verb(req.Mode), err)
	}
	if r, ok := target.(Resyncer); ok && r.Resyncs() {
		return saved, nil
	}
	_ = target.Refresh(ctx)
	return saved, nil
}

func verb(m Mode) string {
	if m == Editing {
		return "update"
	}
	return "create"
}
