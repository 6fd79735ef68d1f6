package ws

import (
	"net/http"
	"time"

	"github.com/GriffinCanCode/agentshell/internal/domain/events"
	"github.com/GriffinCanCode/agentshell/internal/infrastructure/monitoring"
	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Subscriber is the event source a stream drains.
type Subscriber interface {
	Subscribe() (<-chan events.Event, func())
}

// Config tunes the stream connection.
type Config struct {
	// AllowOrigins are compared exactly against the Origin header. Requests
	// without an Origin (non-browser clients) are accepted; they still need
	// the bridge token.
	AllowOrigins []string
	WriteTimeout time.Duration
	PingInterval time.Duration
	PongWait     time.Duration
}

// DefaultConfig returns stream defaults for the given origins
func DefaultConfig(origins []string) Config {
	return Config{
		AllowOrigins: origins,
		WriteTimeout: 10 * time.Second,
		PingInterval: 30 * time.Second,
		PongWait:     60 * time.Second,
	}
}

// Handler serves the push event stream
type Handler struct {
	bus      Subscriber
	cfg      Config
	upgrader websocket.Upgrader
	metrics  *monitoring.Metrics
	logger   *zap.Logger
}

// NewHandler creates a new stream handler. metrics may be nil.
func NewHandler(bus Subscriber, cfg Config, metrics *monitoring.Metrics, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{
		bus:     bus,
		cfg:     cfg,
		metrics: metrics,
		logger:  logger,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// HandleConnection upgrades the request and forwards every bus event to the
// client until either side goes away. Client frames are read only to service
// control messages.
func (h *Handler) HandleConnection(c *gin.Context) {
	// Subscribe before the handshake completes so nothing published after the
	// client sees the upgrade is missed.
	stream, cancel := h.bus.Subscribe()
	defer cancel()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("stream upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	if h.metrics != nil {
		h.metrics.IncStreamConnections()
		defer h.metrics.DecStreamConnections()
	}
	h.logger.Debug("stream connected", zap.String("remote", c.Request.RemoteAddr))

	done := make(chan struct{})
	go h.readPump(conn, done)

	ticker := time.NewTicker(h.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case evt, ok := <-stream:
			if !ok {
				h.writeClose(conn)
				return
			}
			if err := h.send(conn, evt); err != nil {
				h.logger.Debug("stream write failed", zap.Error(err))
				return
			}
			if h.metrics != nil {
				h.metrics.RecordEvent("ws", string(evt.Name))
			}
		case <-ticker.C:
			deadline := time.Now().Add(h.cfg.WriteTimeout)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				h.logger.Debug("stream ping failed", zap.Error(err))
				return
			}
		case <-done:
			h.logger.Debug("stream disconnected", zap.String("remote", c.Request.RemoteAddr))
			return
		case <-c.Request.Context().Done():
			return
		}
	}
}

// readPump drains client frames so pongs and close frames are processed.
func (h *Handler) readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

	conn.SetReadLimit(4096)
	_ = conn.SetReadDeadline(time.Now().Add(h.cfg.PongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(h.cfg.PongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("stream read error", zap.Error(err))
			}
			return
		}
	}
}

func (h *Handler) send(conn *websocket.Conn, evt events.Event) error {
	data, err := sonic.Marshal(evt)
	if err != nil {
		h.logger.Error("failed to encode event", zap.String("event", string(evt.Name)), zap.Error(err))
		return nil
	}
	_ = conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteTimeout))
	return conn.WriteMessage(websocket.TextMessage, data)
}

func (h *Handler) writeClose(conn *websocket.Conn) {
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(h.cfg.WriteTimeout))
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range h.cfg.AllowOrigins {
		if origin == allowed {
			return true
		}
	}
	h.logger.Warn("stream origin rejected", zap.String("origin", origin))
	return false
}
