package tracing

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/GriffinCanCode/agentshell/internal/shared/id"
	"go.uber.org/zap"
)

// Propagation headers
const (
	HeaderRequestID = "X-Request-ID"
	HeaderSpanID    = "X-Span-ID"
)

// Span represents a single timed operation within a request
type Span struct {
	RequestID id.RequestID
	SpanID    id.SpanID
	ParentID  id.SpanID
	Name      string
	StartTime time.Time
	Duration  time.Duration
	Tags      map[string]string
	Error     error
	Status    int
}

// SetTag adds a tag to the span
func (s *Span) SetTag(key, value string) {
	s.Tags[key] = value
}

// SetError records an error in the span
func (s *Span) SetError(err error) {
	s.Error = err
}

// SetStatus sets the HTTP status code
func (s *Span) SetStatus(code int) {
	s.Status = code
}

// Tracer hands finished spans to a background logger
type Tracer struct {
	logger *zap.Logger
	spans  chan *Span
	done   chan struct{}
	once   sync.Once
}

// New creates a tracer and starts its span collector
func New(logger *zap.Logger) *Tracer {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Tracer{
		logger: logger,
		spans:  make(chan *Span, 256),
		done:   make(chan struct{}),
	}
	go t.collect()
	return t
}

// StartSpan creates a span under the request and parent span found in ctx.
// A request ID is minted when ctx carries none.
func (t *Tracer) StartSpan(ctx context.Context, name string) (*Span, context.Context) {
	requestID := RequestID(ctx)
	if requestID == "" {
		requestID = id.NewRequestID()
	}
	span := &Span{
		RequestID: requestID,
		SpanID:    id.NewSpanID(),
		ParentID:  SpanID(ctx),
		Name:      name,
		StartTime: time.Now(),
		Tags:      make(map[string]string),
	}
	ctx = context.WithValue(ctx, requestIDKey, requestID)
	ctx = context.WithValue(ctx, spanIDKey, span.SpanID)
	return span, ctx
}

// Finish stamps the span's duration and queues it for logging. Spans are
// dropped when the buffer is full or the tracer is closed.
func (t *Tracer) Finish(span *Span) {
	span.Duration = time.Since(span.StartTime)
	select {
	case <-t.done:
		return
	default:
	}
	select {
	case t.spans <- span:
	default:
		t.logger.Warn("span buffer full, dropping span",
			zap.String("request_id", span.RequestID.String()),
			zap.String("span", span.Name),
		)
	}
}

// Close stops the collector; queued spans are discarded.
func (t *Tracer) Close() {
	t.once.Do(func() { close(t.done) })
}

func (t *Tracer) collect() {
	for {
		select {
		case <-t.done:
			return
		case span := <-t.spans:
			t.log(span)
		}
	}
}

func (t *Tracer) log(span *Span) {
	fields := []zap.Field{
		zap.String("request_id", span.RequestID.String()),
		zap.String("span_id", span.SpanID.String()),
		zap.String("operation", span.Name),
		zap.Duration("duration", span.Duration),
	}
	if span.ParentID != "" {
		fields = append(fields, zap.String("parent_id", span.ParentID.String()))
	}
	if span.Status != 0 {
		fields = append(fields, zap.Int("status", span.Status))
	}
	for k, v := range span.Tags {
		fields = append(fields, zap.String(k, v))
	}

	if span.Error != nil {
		t.logger.Warn("span completed with error", append(fields, zap.Error(span.Error))...)
		return
	}
	t.logger.Debug("span completed", fields...)
}

// Inject copies the request and span IDs in ctx onto outgoing headers
func Inject(ctx context.Context, header http.Header) {
	if requestID := RequestID(ctx); requestID != "" {
		header.Set(HeaderRequestID, requestID.String())
	}
	if spanID := SpanID(ctx); spanID != "" {
		header.Set(HeaderSpanID, spanID.String())
	}
}

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	spanIDKey    contextKey = "span_id"
)

// RequestID retrieves the request ID from context
func RequestID(ctx context.Context) id.RequestID {
	v, _ := ctx.Value(requestIDKey).(id.RequestID)
	return v
}

// SpanID retrieves the current span ID from context
func SpanID(ctx context.Context) id.SpanID {
	v, _ := ctx.Value(spanIDKey).(id.SpanID)
	return v
}

// WithRequestID returns ctx carrying requestID
func WithRequestID(ctx context.Context, requestID id.RequestID) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}
