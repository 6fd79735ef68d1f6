package http

import (
	"context"
	"io"
	"net/http"

	"github.com/GriffinCanCode/agentshell/internal/domain/bridge"
	"github.com/GriffinCanCode/agentshell/internal/domain/window"
	"github.com/GriffinCanCode/agentshell/internal/infrastructure/monitoring"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxPayload bounds a command payload; every catalog request is a few fields.
const maxPayload = 64 << 10

// Invoker runs bridge commands.
type Invoker interface {
	Invoke(ctx context.Context, name bridge.Name, payload []byte) bridge.Result
}

// WindowState reports the controller's window state.
type WindowState interface {
	State() window.State
}

// BackendState reports the backend circuit breaker state.
type BackendState interface {
	BreakerState() string
}

// Handlers contains all HTTP handlers
type Handlers struct {
	bridge  Invoker
	window  WindowState
	backend BackendState
	metrics *monitoring.Metrics
	version string
	logger  *zap.Logger
}

// NewHandlers creates a new handler set. window, backend and metrics may be nil.
func NewHandlers(
	invoker Invoker,
	windowState WindowState,
	backendState BackendState,
	metrics *monitoring.Metrics,
	version string,
	logger *zap.Logger,
) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		bridge:  invoker,
		window:  windowState,
		backend: backendState,
		metrics: metrics,
		version: version,
		logger:  logger,
	}
}

// Root handles the liveness probe
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "agentshell bridge",
		"version": h.version,
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	resp := gin.H{"status": "healthy"}
	if h.window != nil {
		resp["window"] = h.window.State()
	}
	if h.backend != nil {
		resp["backend"] = gin.H{"breaker": h.backend.BreakerState()}
	}
	if h.metrics != nil {
		resp["metrics"] = h.metrics.Snapshot()
	}
	c.JSON(http.StatusOK, resp)
}

// ListCommands returns the closed command catalog
func (h *Handlers) ListCommands(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"commands": bridge.Catalog()})
}

// Invoke runs one command. The body is the command's request payload and may
// be empty. Command outcomes, failures included, are always 200 with a
// Result body; only transport problems use other statuses.
func (h *Handlers) Invoke(c *gin.Context) {
	name := bridge.Name(c.Param("command"))

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxPayload+1))
	if err != nil {
		h.logger.Debug("failed to read command payload", zap.String("command", string(name)), zap.Error(err))
		c.JSON(http.StatusBadRequest, failure(bridge.CodeInvalidRequest, "unreadable request body"))
		return
	}
	if len(payload) > maxPayload {
		c.JSON(http.StatusRequestEntityTooLarge, failure(bridge.CodeInvalidRequest, "request body too large"))
		return
	}

	c.JSON(http.StatusOK, h.bridge.Invoke(c.Request.Context(), name, payload))
}

func failure(code, message string) bridge.Result {
	return bridge.Result{Error: &bridge.Failure{Code: code, Message: message}}
}
