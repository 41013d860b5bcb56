// Package confirm implements the modal used to confirm destructive directory actions.
//
// A Dialog is owned by one screen. Show blocks the caller until the user answers,
// while the screen renders State and forwards key presses to Confirm or Cancel.
package confirm

import (
	"context"
	"errors"
	"sync"
)

// ErrDialogBusy is returned by Show when another confirmation is still pending
var ErrDialogBusy = errors.New("confirm dialog already open")

// Options describes what the dialog asks
type Options struct {
	Title        string
	Message      string
	ConfirmLabel string
	CancelLabel  string
	Destructive  bool
}

// State is what a renderer needs to draw the dialog
type State struct {
	Open    bool
	Loading bool
	Options Options
}

// Dialog is a single confirmation modal
type Dialog struct {
	mu       sync.Mutex
	state    State
	pending  chan bool
	onChange func(State)
}

// New creates a closed dialog
func New() *Dialog {
	return &Dialog{}
}

// OnChange registers fn to be called with the new state after every change.
// fn runs on the goroutine that caused the change and must not block.
func (d *Dialog) OnChange(fn func(State)) {
	d.mu.Lock()
	d.onChange = fn
	d.mu.Unlock()
}

func (d *Dialog) changed() {
	d.mu.Lock()
	fn, state := d.onChange, d.state
	d.mu.Unlock()
	if fn != nil {
		fn(state)
	}
}

func withDefaults(opts Options) Options {
	if opts.ConfirmLabel == "" {
		opts.ConfirmLabel = "Confirm"
	}
	if opts.CancelLabel == "" {
		opts.CancelLabel = "Cancel"
	}
	return opts
}

// Show opens the dialog and waits for an answer. It returns true when the user
// confirmed. The dialog stays open after a confirmation so the caller can show
// progress with SetLoading and dismiss it with Close. A cancellation closes it.
func (d *Dialog) Show(ctx context.Context, opts Options) (bool, error) {
	d.mu.Lock()
	if d.pending != nil {
		d.mu.Unlock()
		return false, ErrDialogBusy
	}
	answer := make(chan bool, 1)
	d.pending = answer
	d.state = State{Open: true, Options: withDefaults(opts)}
	d.mu.Unlock()
	d.changed()

	select {
	case ok := <-answer:
		return ok, nil
	case <-ctx.Done():
		d.mu.Lock()
		abandoned := d.pending == answer
		if abandoned {
			d.pending = nil
			d.state = State{}
		}
		d.mu.Unlock()
		if abandoned {
			d.changed()
		}
		return false, ctx.Err()
	}
}

// Confirm answers the pending Show with true
func (d *Dialog) Confirm() {
	d.resolve(true)
}

// Cancel answers the pending Show with false and closes the dialog.
// Cancelling while the confirmed action runs is ignored.
func (d *Dialog) Cancel() {
	d.mu.Lock()
	loading := d.state.Loading
	d.mu.Unlock()
	if loading {
		return
	}
	d.resolve(false)
}

func (d *Dialog) resolve(ok bool) {
	d.mu.Lock()
	if d.pending == nil {
		d.mu.Unlock()
		return
	}
	d.pending <- ok
	d.pending = nil
	if !ok {
		d.state = State{}
	}
	d.mu.Unlock()
	d.changed()
}

// SetLoading toggles the progress indicator of an open dialog
func (d *Dialog) SetLoading(loading bool) {
	d.mu.Lock()
	open := d.state.Open
	if open {
		d.state.Loading = loading
	}
	d.mu.Unlock()
	if open {
		d.changed()
	}
}

// Close dismisses the dialog. An unanswered Show resolves to false.
func (d *Dialog) Close() {
	d.mu.Lock()
	if d.pending != nil {
		d.pending <- false
		d.pending = nil
	}
	d.state = State{}
	d.mu.Unlock()
	d.changed()
}

// State returns a snapshot for rendering
func (d *Dialog) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}
