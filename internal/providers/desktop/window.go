package desktop

import (
	"context"

	"github.com/GriffinCanCode/agentshell/internal/domain/window"
	"go.uber.org/zap"
)

// Factory hands the window Wails created at startup to the controller. The
// runtime owns exactly one native window, so Create binds a handle to it
// rather than allocating a new one.
type Factory struct {
	binding *Binding
	goos    string
	logger  *zap.Logger
}

// NewFactory creates a window factory for the given platform
func NewFactory(binding *Binding, goos string, logger *zap.Logger) *Factory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Factory{binding: binding, goos: goos, logger: logger}
}

// Create implements window.Factory.
func (f *Factory) Create(_ context.Context, opts window.Options) (window.Handle, error) {
	ctx, err := f.binding.Context()
	if err != nil {
		return nil, err
	}
	f.logger.Debug("binding native window", zap.String("title", opts.Title))
	return &Handle{rt: f.binding.Runtime(), ctx: ctx, goos: f.goos}, nil
}

// Handle drives the native window through the runtime.
type Handle struct {
	rt   Runtime
	ctx  context.Context
	goos string
}

func (h *Handle) Minimize()         { h.rt.WindowMinimise(h.ctx) }
func (h *Handle) Maximize()         { h.rt.WindowMaximise(h.ctx) }
func (h *Handle) Unmaximize()       { h.rt.WindowUnmaximise(h.ctx) }
func (h *Handle) IsMaximized() bool { return h.rt.WindowIsMaximised(h.ctx) }

// Show unhides the application on darwin before showing the window, since
// a closed darwin window leaves the whole application hidden.
func (h *Handle) Show() {
	if h.goos == "darwin" {
		h.rt.Show(h.ctx)
	}
	h.rt.WindowShow(h.ctx)
}

// Close hides the application on darwin, where the shell outlives its
// window, and quits everywhere else. The native close button takes the same
// darwin path, so the dock icon restores the window either way.
func (h *Handle) Close() {
	if h.goos == "darwin" {
		h.rt.Hide(h.ctx)
		return
	}
	h.rt.Quit(h.ctx)
}

// OpenDirectory shows the native picker. The runtime dialog cannot be
// cancelled, so ctx is only checked before it opens.
func (h *Handle) OpenDirectory(ctx context.Context, title string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return h.rt.OpenDirectoryDialog(h.ctx, title)
}
