package desktop

import (
	"context"
	"errors"
	"sync"

	wailsruntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

// ErrNotStarted is returned when the desktop runtime has not handed the
// shell its context yet.
var ErrNotStarted = errors.New("desktop runtime not started")

// Runtime is the slice of the Wails runtime the shell drives. Every call
// needs the context Wails passes to OnStartup.
type Runtime interface {
	WindowShow(ctx context.Context)
	WindowMinimise(ctx context.Context)
	WindowMaximise(ctx context.Context)
	WindowUnmaximise(ctx context.Context)
	WindowIsMaximised(ctx context.Context) bool
	// Hide and Show act on the whole application, the same way the darwin
	// close button and dock icon do.
	Hide(ctx context.Context)
	Show(ctx context.Context)
	Quit(ctx context.Context)
	BrowserOpenURL(ctx context.Context, url string)
	OpenDirectoryDialog(ctx context.Context, title string) (string, error)
	EventsEmit(ctx context.Context, name string, data ...interface{})
	EventsOn(ctx context.Context, name string, callback func(data ...interface{})) func()
}

// WailsRuntime forwards to github.com/wailsapp/wails/v2/pkg/runtime.
type WailsRuntime struct{}

func (WailsRuntime) WindowShow(ctx context.Context)       { wailsruntime.WindowShow(ctx) }
func (WailsRuntime) WindowMinimise(ctx context.Context)   { wailsruntime.WindowMinimise(ctx) }
func (WailsRuntime) WindowMaximise(ctx context.Context)   { wailsruntime.WindowMaximise(ctx) }
func (WailsRuntime) WindowUnmaximise(ctx context.Context) { wailsruntime.WindowUnmaximise(ctx) }
func (WailsRuntime) Hide(ctx context.Context)             { wailsruntime.Hide(ctx) }
func (WailsRuntime) Show(ctx context.Context)             { wailsruntime.Show(ctx) }
func (WailsRuntime) Quit(ctx context.Context)             { wailsruntime.Quit(ctx) }

func (WailsRuntime) WindowIsMaximised(ctx context.Context) bool {
	return wailsruntime.WindowIsMaximised(ctx)
}

func (WailsRuntime) BrowserOpenURL(ctx context.Context, url string) {
	wailsruntime.BrowserOpenURL(ctx, url)
}

func (WailsRuntime) OpenDirectoryDialog(ctx context.Context, title string) (string, error) {
	return wailsruntime.OpenDirectoryDialog(ctx, wailsruntime.OpenDialogOptions{
		Title:                title,
		CanCreateDirectories: true,
	})
}

func (WailsRuntime) EventsEmit(ctx context.Context, name string, data ...interface{}) {
	wailsruntime.EventsEmit(ctx, name, data...)
}

func (WailsRuntime) EventsOn(ctx context.Context, name string, callback func(data ...interface{})) func() {
	return wailsruntime.EventsOn(ctx, name, callback)
}

// Binding holds the runtime context once Wails has started.
type Binding struct {
	rt  Runtime
	mu  sync.RWMutex
	ctx context.Context
}

// NewBinding creates an unbound binding for rt
func NewBinding(rt Runtime) *Binding {
	return &Binding{rt: rt}
}

// Bind stores the OnStartup context
func (b *Binding) Bind(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ctx = ctx
}

// Context returns the runtime context, or ErrNotStarted before Bind.
func (b *Binding) Context() (context.Context, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.ctx == nil {
		return nil, ErrNotStarted
	}
	return b.ctx, nil
}

// Runtime returns the bound runtime
func (b *Binding) Runtime() Runtime {
	return b.rt
}
