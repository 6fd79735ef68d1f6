package tracing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedTracer(t *testing.T) (*Tracer, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	tracer := New(zap.New(core))
	t.Cleanup(tracer.Close)
	return tracer, logs
}

func TestStartSpanPropagates(t *testing.T) {
	tracer, _ := newObservedTracer(t)

	parent, ctx := tracer.StartSpan(context.Background(), "parent")
	require.NotEmpty(t, parent.RequestID)
	assert.True(t, strings.HasPrefix(parent.RequestID.String(), "req_"))
	assert.Empty(t, parent.ParentID)

	child, childCtx := tracer.StartSpan(ctx, "child")
	assert.Equal(t, parent.RequestID, child.RequestID)
	assert.Equal(t, parent.SpanID, child.ParentID)
	assert.Equal(t, child.SpanID, SpanID(childCtx))
}

func TestInject(t *testing.T) {
	tracer, _ := newObservedTracer(t)
	span, ctx := tracer.StartSpan(context.Background(), "backend.get_config")

	header := http.Header{}
	Inject(ctx, header)

	assert.Equal(t, span.RequestID.String(), header.Get(HeaderRequestID))
	assert.Equal(t, span.SpanID.String(), header.Get(HeaderSpanID))

	empty := http.Header{}
	Inject(context.Background(), empty)
	assert.Empty(t, empty)
}

func TestFinishLogsSpan(t *testing.T) {
	tracer, logs := newObservedTracer(t)

	span, _ := tracer.StartSpan(context.Background(), "backend.update_config")
	span.SetError(errors.New("connection refused"))
	tracer.Finish(span)

	assert.Eventually(t, func() bool {
		return logs.FilterMessage("span completed with error").Len() == 1
	}, time.Second, 5*time.Millisecond)

	entry := logs.FilterMessage("span completed with error").All()[0]
	assert.Equal(t, "backend.update_config", entry.ContextMap()["operation"])
}

func TestFinishAfterCloseIsDropped(t *testing.T) {
	tracer, _ := newObservedTracer(t)
	tracer.Close()
	tracer.Close()

	span, _ := tracer.StartSpan(context.Background(), "late")
	assert.NotPanics(t, func() { tracer.Finish(span) })
}

func TestHTTPMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tracer, logs := newObservedTracer(t)

	var seen string
	router := gin.New()
	router.Use(HTTPMiddleware(tracer))
	router.POST("/bridge/invoke/:command", func(c *gin.Context) {
		seen = RequestID(c.Request.Context()).String()
		c.Status(http.StatusOK)
	})

	t.Run("mints a request id", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/bridge/invoke/window.minimize", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get(HeaderRequestID))
		assert.Equal(t, seen, w.Header().Get(HeaderRequestID))
	})

	t.Run("reuses an incoming request id", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/bridge/invoke/window.close", nil)
		req.Header.Set(HeaderRequestID, "req_from_ui")
		router.ServeHTTP(w, req)

		assert.Equal(t, "req_from_ui", w.Header().Get(HeaderRequestID))
		assert.Equal(t, "req_from_ui", seen)
	})

	assert.Eventually(t, func() bool {
		return logs.FilterMessage("span completed").Len() == 2
	}, time.Second, 5*time.Millisecond)
	entry := logs.FilterMessage("span completed").All()[1]
	assert.Equal(t, "window.close", entry.ContextMap()["command"])
	assert.Equal(t, "POST /bridge/invoke/:command", entry.ContextMap()["operation"])
}
