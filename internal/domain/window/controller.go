package window

import (
	"context"
	"fmt"
	"sync"

	"github.com/GriffinCanCode/agentshell/internal/domain/events"
	"go.uber.org/zap"
)

// Handle is the OS window. Implementations must not call back into the
// Controller synchronously from these methods.
type Handle interface {
	Show()
	Minimize()
	Maximize()
	Unmaximize()
	IsMaximized() bool
	Close()
	// OpenDirectory shows a native directory picker attached to the window.
	// A cancelled dialog returns "" and a nil error.
	OpenDirectory(ctx context.Context, title string) (string, error)
}

// Factory allocates the OS window.
type Factory interface {
	Create(ctx context.Context, opts Options) (Handle, error)
}

// State is a snapshot of the controller's window state
type State struct {
	HasWindow bool `json:"has_window"`
	Visible   bool `json:"visible"`
	Maximized bool `json:"maximized"`
}

// Controller exclusively owns the single window handle. Every other component
// reaches the window through it; the mutex is the only funnel.
type Controller struct {
	mu        sync.Mutex
	factory   Factory
	opts      Options
	handle    Handle // Protected by mu; nil before creation and after close
	visible   bool   // Protected by mu
	maximized bool   // Protected by mu
	events    events.Publisher
	logger    *zap.Logger
}

// NewController creates a window controller
func NewController(factory Factory, opts Options, publisher events.Publisher, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		factory: factory,
		opts:    opts,
		events:  publisher,
		logger:  logger,
	}
}

// Options returns the creation parameters
func (c *Controller) Options() Options {
	return c.opts
}

// Create allocates the window hidden. It returns the existing handle if one
// is already open; a second window is never created.
func (c *Controller) Create(ctx context.Context) (Handle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.handle != nil {
		return c.handle, nil
	}

	h, err := c.factory.Create(ctx, c.opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	c.handle = h
	c.visible = false
	c.maximized = false
	c.logger.Info("window created",
		zap.Int("width", c.opts.Width),
		zap.Int("height", c.opts.Height),
		zap.Bool("translucent", c.opts.Background.Translucent),
	)
	return h, nil
}

// Activate creates a window when none exists and is a no-op otherwise.
func (c *Controller) Activate(ctx context.Context) error {
	if c.HasWindow() {
		return nil
	}
	_, err := c.Create(ctx)
	return err
}

// Ready is the hosted content's ready-to-paint signal. The first call after
// creation shows the window; later calls do nothing.
func (c *Controller) Ready() {
	c.mu.Lock()
	h := c.handle
	if h == nil || c.visible {
		c.mu.Unlock()
		return
	}
	c.visible = true
	c.mu.Unlock()

	h.Show()
	c.logger.Debug("window shown")
}

// Minimize minimizes the window, or does nothing without one.
func (c *Controller) Minimize() {
	if h := c.current(); h != nil {
		h.Minimize()
	}
}

// ToggleMaximize flips the OS maximize state, or does nothing without a window.
func (c *Controller) ToggleMaximize() {
	h := c.current()
	if h == nil {
		return
	}
	if h.IsMaximized() {
		h.Unmaximize()
	} else {
		h.Maximize()
	}
	c.report(h, h.IsMaximized())
}

// IsMaximized returns the OS maximize state, false without a window.
func (c *Controller) IsMaximized() bool {
	h := c.current()
	if h == nil {
		return false
	}
	return h.IsMaximized()
}

// Close closes the window and forgets the handle. No-op without a window.
func (c *Controller) Close() {
	c.mu.Lock()
	h := c.handle
	c.clearLocked()
	c.mu.Unlock()

	if h != nil {
		h.Close()
		c.logger.Info("window closed")
	}
}

// Closed records that the OS destroyed the window on its own (user close).
func (c *Controller) Closed() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handle != nil {
		c.clearLocked()
		c.logger.Info("window closed by user")
	}
}

// MaximizeChanged records an OS-reported maximize transition and pushes it to
// the UI. Repeated reports of the same state are not re-published.
func (c *Controller) MaximizeChanged(maximized bool) {
	if h := c.current(); h != nil {
		c.report(h, maximized)
	}
}

// OpenDirectoryDialog shows a directory picker scoped to the window. ok is
// false when there is no window or the user cancelled.
func (c *Controller) OpenDirectoryDialog(ctx context.Context, title string) (path string, ok bool, err error) {
	h := c.current()
	if h == nil {
		return "", false, nil
	}
	// The lock is not held while the dialog is up; a hung dialog blocks only this call.
	path, err = h.OpenDirectory(ctx, title)
	if err != nil {
		return "", false, err
	}
	return path, path != "", nil
}

// HasWindow reports whether a window handle is currently held
func (c *Controller) HasWindow() bool {
	return c.current() != nil
}

// State returns a snapshot of the window state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{HasWindow: c.handle != nil, Visible: c.visible, Maximized: c.maximized}
}

func (c *Controller) current() Handle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handle
}

// report applies a maximize state observed on h, ignoring stale handles.
func (c *Controller) report(h Handle, maximized bool) {
	c.mu.Lock()
	if c.handle != h || c.maximized == maximized {
		c.mu.Unlock()
		return
	}
	c.maximized = maximized
	c.mu.Unlock()

	c.logger.Debug("maximize state changed", zap.Bool("maximized", maximized))
	if c.events != nil {
		c.events.Publish(events.WindowMaximizeChanged, maximized)
	}
}

func (c *Controller) clearLocked() {
	c.handle = nil
	c.visible = false
	c.maximized = false
}
