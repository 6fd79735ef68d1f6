package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/agentshell/frontend"
	"github.com/GriffinCanCode/agentshell/internal/domain/bridge"
	"github.com/GriffinCanCode/agentshell/internal/domain/events"
	"github.com/GriffinCanCode/agentshell/internal/domain/security"
	"github.com/GriffinCanCode/agentshell/internal/domain/skills"
	"github.com/GriffinCanCode/agentshell/internal/domain/window"
	"github.com/GriffinCanCode/agentshell/internal/infrastructure/config"
	"github.com/GriffinCanCode/agentshell/internal/infrastructure/logging"
	"github.com/GriffinCanCode/agentshell/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/agentshell/internal/infrastructure/server"
	"github.com/GriffinCanCode/agentshell/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/agentshell/internal/providers/backend"
	"github.com/GriffinCanCode/agentshell/internal/providers/desktop"
	"github.com/GriffinCanCode/agentshell/internal/shared/id"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

const instanceID = "dev.agentshell.shell"

func main() {
	configPath := flag.String("config", "", "TOML config file (overrides "+config.FileEnv+")")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version)
		return
	}
	if *configPath != "" {
		os.Setenv(config.FileEnv, *configPath)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Error("Shell exited with error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *logging.Logger) error {
	logger.Info("Starting agent shell",
		zap.String("version", version),
		zap.String("platform", runtime.GOOS),
		zap.String("backend", cfg.Backend.URL),
	)

	metrics := monitoring.NewMetrics()
	tracer := tracing.New(logger.Component("tracing"))
	defer tracer.Close()
	bus := events.NewBus(logger.Component("events"))

	backendCfg := backend.DefaultConfig(cfg.Backend.URL)
	backendCfg.Timeout = cfg.Backend.Timeout.Std()
	client := backend.New(backendCfg, logger.Component("backend"),
		backend.WithMetrics(metrics),
		backend.WithTracer(tracer),
	)

	workflow := skills.NewWorkflow(client, settleStrategy(cfg.Skills), bus, logger.Component("skills"))
	defer workflow.Close()

	binding := desktop.NewBinding(desktop.WailsRuntime{})
	gate := security.NewGate(cfg.Window.UIURL, desktop.NewOpener(binding, logger.Component("opener")), logger.Component("security"))
	controller := window.NewController(
		desktop.NewFactory(binding, runtime.GOOS, logger.Component("desktop")),
		windowOptions(cfg.Window),
		bus,
		logger.Component("window"),
	)

	commands := bridge.New(bridge.Deps{
		Window:   controller,
		Gate:     gate,
		Skills:   workflow,
		Host:     desktop.Host{},
		Observer: metrics,
	}, logger.Component("bridge"))

	token := id.NewToken()
	srv, err := server.NewServer(cfg, server.Deps{
		Bridge:  commands,
		Window:  controller,
		Backend: client,
		Events:  bus,
		Metrics: metrics,
		Tracer:  tracer,
		Token:   token.String(),
		Version: version,
	}, logger)
	if err != nil {
		return err
	}
	go func() {
		if err := srv.Run(); err != nil {
			logger.Error("Bridge server stopped", zap.Error(err))
		}
	}()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Close(ctx)
	}()

	// The first snapshot loads in the background; the UI can ask for it with
	// skills.state or wait for skills.reconciled.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Backend.Timeout.Std())
		defer cancel()
		if _, err := workflow.Load(ctx); err != nil {
			logger.Warn("Initial skill load failed", zap.Error(err))
		}
	}()

	go quitOnSignal(binding, logger)

	app := desktop.NewApp(desktop.Config{
		GOOS:         runtime.GOOS,
		MaximizePoll: cfg.Window.MaximizePoll.Std(),
		UniqueID:     instanceID,
		Debug:        logger.Verbose(),
		Bridge: desktop.BridgeInfo{
			Address: srv.URL(),
			Token:   token.String(),
		},
	}, binding, controller, desktop.NewForwarder(binding, bus, metrics, logger.Component("forwarder")), logger.Component("desktop"))

	if err := app.Run(frontend.Assets); err != nil {
		return fmt.Errorf("desktop runtime failed: %w", err)
	}
	logger.Info("Agent shell stopped")
	return nil
}

func windowOptions(cfg config.WindowConfig) window.Options {
	opts := window.DefaultOptions(runtime.GOOS)
	opts.Title = cfg.Title
	opts.Width = cfg.Width
	opts.Height = cfg.Height
	opts.MinWidth = cfg.MinWidth
	opts.MinHeight = cfg.MinHeight
	return opts
}

func settleStrategy(cfg config.SkillsConfig) skills.SettleStrategy {
	if cfg.SettleMode == "poll" {
		return skills.PollBackoff{Initial: cfg.SettleDelay.Std(), Attempts: cfg.PollAttempts}
	}
	return skills.FixedDelay{Delay: cfg.SettleDelay.Std()}
}

// quitOnSignal asks the runtime to exit on SIGINT/SIGTERM so shutdown hooks run.
func quitOnSignal(binding *desktop.Binding, logger *logging.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan

	logger.Info("Shutting down gracefully...", zap.String("signal", sig.String()))
	ctx, err := binding.Context()
	if err != nil {
		os.Exit(1)
	}
	binding.Runtime().Quit(ctx)
}
