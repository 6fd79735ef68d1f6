// Package windowtest provides an in-memory window for tests.
package windowtest

import (
	"context"
	"errors"
	"sync"

	"github.com/GriffinCanCode/agentshell/internal/domain/window"
)

// Handle is a fake OS window that records calls.
type Handle struct {
	mu        sync.Mutex
	Opts      window.Options
	shown     int
	minimized int
	maximized bool
	closed    bool

	// DirectoryResult and DirectoryErr are returned by OpenDirectory.
	DirectoryResult string
	DirectoryErr    error
}

func (h *Handle) Show()       { h.mu.Lock(); h.shown++; h.mu.Unlock() }
func (h *Handle) Minimize()   { h.mu.Lock(); h.minimized++; h.mu.Unlock() }
func (h *Handle) Maximize()   { h.mu.Lock(); h.maximized = true; h.mu.Unlock() }
func (h *Handle) Unmaximize() { h.mu.Lock(); h.maximized = false; h.mu.Unlock() }
func (h *Handle) Close()      { h.mu.Lock(); h.closed = true; h.mu.Unlock() }

func (h *Handle) IsMaximized() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.maximized
}

func (h *Handle) OpenDirectory(ctx context.Context, title string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.DirectoryResult, h.DirectoryErr
}

// SetMaximized simulates the OS changing the state (e.g. a snap gesture).
func (h *Handle) SetMaximized(v bool) { h.mu.Lock(); h.maximized = v; h.mu.Unlock() }

// ShowCount returns how many times Show was called
func (h *Handle) ShowCount() int { h.mu.Lock(); defer h.mu.Unlock(); return h.shown }

// MinimizeCount returns how many times Minimize was called
func (h *Handle) MinimizeCount() int { h.mu.Lock(); defer h.mu.Unlock(); return h.minimized }

// Closed reports whether Close was called
func (h *Handle) Closed() bool { h.mu.Lock(); defer h.mu.Unlock(); return h.closed }

// Factory creates fake handles and remembers them.
type Factory struct {
	mu      sync.Mutex
	Handles []*Handle
	// Fail makes the next Create return an error.
	Fail bool
	// Configure is applied to every new handle.
	Configure func(*Handle)
}

var ErrCreate = errors.New("windowtest: create failed")

func (f *Factory) Create(ctx context.Context, opts window.Options) (window.Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Fail {
		f.Fail = false
		return nil, ErrCreate
	}
	h := &Handle{Opts: opts}
	if f.Configure != nil {
		f.Configure(h)
	}
	f.Handles = append(f.Handles, h)
	return h, nil
}

// Created returns how many windows were allocated
func (f *Factory) Created() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Handles)
}

// Last returns the most recently created handle, or nil
func (f *Factory) Last() *Handle {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Handles) == 0 {
		return nil
	}
	return f.Handles[len(f.Handles)-1]
}
