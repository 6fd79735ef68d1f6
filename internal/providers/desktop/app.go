package desktop

import (
	"context"
	"io/fs"
	"sync"
	"time"

	"github.com/GriffinCanCode/agentshell/internal/domain/window"
	"github.com/wailsapp/wails/v2"
	wailslogger "github.com/wailsapp/wails/v2/pkg/logger"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/linux"
	"github.com/wailsapp/wails/v2/pkg/options/mac"
	"github.com/wailsapp/wails/v2/pkg/options/windows"
	"go.uber.org/zap"
)

// ReactivateEvent is emitted by the UI when its page becomes visible again,
// for instance after the dock icon restores a hidden darwin application.
const ReactivateEvent = "shell:reactivate"

// Lifecycle is the window controller as the desktop driver sees it.
type Lifecycle interface {
	Create(ctx context.Context) (window.Handle, error)
	Activate(ctx context.Context) error
	Ready()
	Closed()
	HasWindow() bool
	IsMaximized() bool
	MaximizeChanged(maximized bool)
	Options() window.Options
}

// Config configures the desktop driver
type Config struct {
	GOOS         string
	MaximizePoll time.Duration
	// UniqueID scopes the single-instance lock.
	UniqueID string
	Debug    bool
	Bridge   BridgeInfo
}

// App connects the Wails runtime callbacks to the window controller.
type App struct {
	cfg        Config
	binding    *Binding
	controller Lifecycle
	forwarder  *Forwarder
	logger     *zap.Logger

	mu       sync.Mutex
	cancel   context.CancelFunc
	unlisten func()
	wg       sync.WaitGroup
}

// NewApp creates the desktop driver. forwarder may be nil.
func NewApp(cfg Config, binding *Binding, controller Lifecycle, forwarder *Forwarder, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{
		cfg:        cfg,
		binding:    binding,
		controller: controller,
		forwarder:  forwarder,
		logger:     logger,
	}
}

// Run blocks until the desktop application exits.
func (a *App) Run(assets fs.FS) error {
	return wails.Run(a.Options(assets))
}

// Options builds the Wails application options. The window starts hidden
// and is shown by the controller once the UI reports ready.
func (a *App) Options(assets fs.FS) *options.App {
	opts := a.controller.Options()
	bg := opts.Background

	level := wailslogger.INFO
	if a.cfg.Debug {
		level = wailslogger.DEBUG
	}

	app := &options.App{
		Title:     opts.Title,
		Width:     opts.Width,
		Height:    opts.Height,
		MinWidth:  opts.MinWidth,
		MinHeight: opts.MinHeight,
		Frameless: opts.Frameless,
		// The shell outlives its window on darwin.
		HideWindowOnClose: a.cfg.GOOS == "darwin",
		StartHidden:       true,
		BackgroundColour: &options.RGBA{
			R: bg.Colour.R,
			G: bg.Colour.G,
			B: bg.Colour.B,
			A: bg.Colour.A,
		},
		AssetServer: &assetserver.Options{
			Assets:  assets,
			Handler: AssetHandler(a.cfg.Bridge),
		},
		OnStartup:          a.startup,
		OnDomReady:         a.domReady,
		OnBeforeClose:      a.beforeClose,
		OnShutdown:         a.shutdown,
		Logger:             NewLogger(a.logger.Named("runtime")),
		LogLevel:           level,
		LogLevelProduction: wailslogger.WARNING,
		Mac: &mac.Options{
			TitleBar:             mac.TitleBarHiddenInset(),
			WebviewIsTransparent: bg.Translucent,
			WindowIsTranslucent:  bg.Translucent,
		},
		Windows: &windows.Options{
			WebviewIsTransparent: bg.Translucent,
			WindowIsTranslucent:  bg.Translucent,
		},
		Linux: &linux.Options{
			WindowIsTranslucent: bg.Translucent,
		},
	}
	if a.cfg.UniqueID != "" {
		app.SingleInstanceLock = &options.SingleInstanceLock{
			UniqueId:               a.cfg.UniqueID,
			OnSecondInstanceLaunch: a.secondInstance,
		}
	}
	return app
}

func (a *App) startup(ctx context.Context) {
	a.binding.Bind(ctx)
	if _, err := a.controller.Create(ctx); err != nil {
		a.logger.Error("failed to create window", zap.Error(err))
	}

	unlisten := a.binding.Runtime().EventsOn(ctx, ReactivateEvent, func(...interface{}) {
		a.reactivate()
	})

	workers, cancel := context.WithCancel(ctx)
	a.mu.Lock()
	a.cancel = cancel
	a.unlisten = unlisten
	a.mu.Unlock()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		WatchMaximize(workers, a.cfg.MaximizePoll, a.controller)
	}()
	if a.forwarder != nil {
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			a.forwarder.Run(workers)
		}()
	}
	a.logger.Info("desktop runtime started", zap.String("platform", a.cfg.GOOS))
}

func (a *App) domReady(context.Context) {
	a.controller.Ready()
}

// beforeClose runs when the window is about to be destroyed. The runtime
// exits afterwards; darwin never gets here on a window close because the
// application hides instead.
func (a *App) beforeClose(context.Context) bool {
	a.controller.Closed()
	return false
}

func (a *App) shutdown(context.Context) {
	a.mu.Lock()
	cancel, unlisten := a.cancel, a.unlisten
	a.mu.Unlock()
	if unlisten != nil {
		unlisten()
	}
	if cancel != nil {
		cancel()
	}
	a.wg.Wait()
	a.logger.Info("desktop runtime stopped")
}

// secondInstance re-activates the shell.
func (a *App) secondInstance(data options.SecondInstanceData) {
	a.logger.Info("second instance launched", zap.Strings("args", data.Args))
	a.reactivate()
}

// reactivate rebinds and shows a window closed through the bridge; an
// existing one is left alone.
func (a *App) reactivate() {
	ctx, err := a.binding.Context()
	if err != nil {
		return
	}
	created := !a.controller.HasWindow()
	if err := a.controller.Activate(ctx); err != nil {
		a.logger.Error("failed to activate window", zap.Error(err))
		return
	}
	if created {
		// Content is already loaded, so no DOM-ready signal will follow.
		a.controller.Ready()
	}
}
