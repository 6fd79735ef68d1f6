package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/agentshell/internal/api/http"
	"github.com/GriffinCanCode/agentshell/internal/api/middleware"
	"github.com/GriffinCanCode/agentshell/internal/api/ws"
	"github.com/GriffinCanCode/agentshell/internal/infrastructure/config"
	"github.com/GriffinCanCode/agentshell/internal/infrastructure/logging"
	"github.com/GriffinCanCode/agentshell/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/agentshell/internal/infrastructure/tracing"
)

// Deps are the collaborators the bridge server routes to
type Deps struct {
	Bridge  apihttp.Invoker
	Window  apihttp.WindowState
	Backend apihttp.BackendState
	Events  ws.Subscriber
	Metrics *monitoring.Metrics
	Tracer  *tracing.Tracer
	// Token is the per-launch secret every /bridge route requires.
	Token   string
	Version string
}

// Server is the loopback HTTP bridge between the UI and the host
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	cancel     context.CancelFunc
	closeOnce  sync.Once
	closeErr   error
	listener   net.Listener
	logger     *logging.Logger
	config     *config.Config
}

// NewServer binds the listener and registers routes. The listener is bound
// here so Addr is known before Run, which matters when the port is "0".
func NewServer(cfg *config.Config, deps Deps, logger *logging.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	if deps.Token == "" {
		return nil, errors.New("bridge token is required")
	}

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	corsConfig := middleware.DefaultCORSConfig(cfg.Window.UIURL)

	router.Use(gin.Recovery())
	if deps.Tracer != nil {
		router.Use(tracing.HTTPMiddleware(deps.Tracer))
	}
	if deps.Metrics != nil {
		router.Use(monitoring.Middleware(deps.Metrics))
	}
	router.Use(middleware.CORS(corsConfig))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
			Enabled:           true,
		}))
	}

	handlers := apihttp.NewHandlers(deps.Bridge, deps.Window, deps.Backend, deps.Metrics, deps.Version, logger.Component("http"))

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	bridge := router.Group("/bridge", middleware.RequireToken(deps.Token))
	bridge.GET("/commands", handlers.ListCommands)
	bridge.POST("/invoke/:command", handlers.Invoke)
	if deps.Events != nil {
		stream := ws.NewHandler(deps.Events, ws.DefaultConfig(corsConfig.AllowOrigins), deps.Metrics, logger.Component("ws"))
		bridge.GET("/events", stream.HandleConnection)
	}

	addr := net.JoinHostPort(cfg.Bridge.Host, cfg.Bridge.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	logger.Info("Bridge server initialized", zap.String("addr", listener.Addr().String()))

	// Hijacked stream connections outlive Shutdown; cancelling the base
	// context ends them.
	baseCtx, cancel := context.WithCancel(context.Background())
	httpServer := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}
	httpServer.RegisterOnShutdown(cancel)

	return &Server{
		router:     router,
		httpServer: httpServer,
		cancel:     cancel,
		listener:   listener,
		logger:     logger,
		config:     cfg,
	}, nil
}

// Addr returns the bound host:port
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// URL returns the base URL the UI reaches the bridge at
func (s *Server) URL() string {
	return "http://" + s.Addr()
}

// Handler exposes the router
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until Close. A clean shutdown returns nil.
func (s *Server) Run() error {
	s.logger.Info("Starting bridge server", zap.String("addr", s.Addr()))
	if err := s.httpServer.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("bridge server failed: %w", err)
	}
	return nil
}

// Close gracefully shuts down the server, waiting for in-flight commands
// until ctx expires. Later calls return the first result.
func (s *Server) Close(ctx context.Context) error {
	s.closeOnce.Do(func() {
		s.logger.Info("Shutting down bridge server...")
		defer s.cancel()
		err := s.httpServer.Shutdown(ctx)
		// Shutdown only closes listeners Serve has seen.
		_ = s.listener.Close()
		if err != nil {
			s.logger.Error("Failed to shut down bridge server", zap.Error(err))
			s.closeErr = fmt.Errorf("failed to shut down bridge server: %w", err)
		}
	})
	return s.closeErr
}
