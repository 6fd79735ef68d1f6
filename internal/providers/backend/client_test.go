package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/GriffinCanCode/agentshell/internal/domain/skills"
	"github.com/GriffinCanCode/agentshell/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/agentshell/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/agentshell/internal/infrastructure/tracing"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeServer is an in-memory skill backend.
type fakeServer struct {
	mu      sync.Mutex
	config  skills.Config
	sources []skills.Source
	patches []string
	headers []http.Header
	fail    atomic.Int32 // respond 500 this many times
}

func (f *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.headers = append(f.headers, r.Header.Clone())
	f.mu.Unlock()

	if f.fail.Load() > 0 {
		f.fail.Add(-1)
		http.Error(w, "boom", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/skills":
		f.mu.Lock()
		defer f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(f.sources)
	case r.Method == http.MethodGet && r.URL.Path == "/config":
		f.mu.Lock()
		defer f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"skills": f.config,
			"model":  "unrelated",
		})
	case r.Method == http.MethodPatch && r.URL.Path == "/config":
		body, _ := io.ReadAll(r.Body)
		var update struct {
			Skills skills.Config `json:"skills"`
		}
		if err := json.Unmarshal(body, &update); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.patches = append(f.patches, string(body))
		f.config = update.Skills
		f.mu.Unlock()
		_, _ = w.Write([]byte(`{"ok":true}`))
	default:
		http.NotFound(w, r)
	}
}

func testConfig(url string) Config {
	cfg := DefaultConfig(url)
	cfg.Timeout = 2 * time.Second
	cfg.RetryWaitMin = time.Millisecond
	cfg.RetryWaitMax = 2 * time.Millisecond
	return cfg
}

func newTestClient(t *testing.T, opts ...Option) (*Client, *fakeServer) {
	t.Helper()
	fake := &fakeServer{config: skills.Config{Paths: []string{}, URLs: []string{}}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	return New(testConfig(srv.URL+"/"), nil, opts...), fake
}

func TestGetSkills(t *testing.T) {
	client, fake := newTestClient(t)
	fake.sources = []skills.Source{
		{Name: "pdf", Description: "Read <b>PDFs</b><script>alert(1)</script>", Location: "/skills/pdf/SKILL.md", Content: "# PDF"},
		{Name: "<img src=x onerror=alert(1)>remote", Location: "https://x.dev/skills/remote"},
	}

	got, err := client.GetSkills(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "pdf", got[0].Name)
	assert.Equal(t, "Read PDFs", got[0].Description)
	assert.Equal(t, "# PDF", got[0].Content)
	assert.Equal(t, "remote", got[1].Name)
	assert.True(t, got[1].Remote())
}

func TestGetConfig(t *testing.T) {
	client, fake := newTestClient(t)
	fake.config = skills.Config{Paths: []string{"/a"}}

	got, err := client.GetConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"/a"}, got.Paths)
	assert.NotNil(t, got.URLs, "missing lists decode as empty, not nil")
}

func TestUpdateConfigWritesWholeObject(t *testing.T) {
	client, fake := newTestClient(t)

	err := client.UpdateConfig(context.Background(), skills.Config{URLs: []string{"https://x.dev"}})
	require.NoError(t, err)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	require.Len(t, fake.patches, 1)
	assert.JSONEq(t, `{"skills":{"paths":[],"urls":["https://x.dev"]}}`, fake.patches[0])
}

func TestTransportRetriesServerErrors(t *testing.T) {
	client, fake := newTestClient(t)
	fake.fail.Store(2)

	_, err := client.GetConfig(context.Background())
	require.NoError(t, err)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Len(t, fake.headers, 3)
}

func TestFailuresAreUnavailable(t *testing.T) {
	t.Run("server error after retries", func(t *testing.T) {
		client, fake := newTestClient(t)
		fake.fail.Store(100)

		_, err := client.GetSkills(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("client error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "no such route", http.StatusNotFound)
		}))
		defer srv.Close()

		client := New(testConfig(srv.URL), nil)
		err := client.UpdateConfig(context.Background(), skills.Config{})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnavailable)
		assert.Contains(t, err.Error(), "404")
	})

	t.Run("connection refused", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		client := New(testConfig(url), nil)
		_, err := client.GetConfig(context.Background())
		assert.ErrorIs(t, err, ErrUnavailable)
	})
}

func TestBreakerOpensAndFailsFast(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	metrics := monitoring.NewMetrics()
	cfg := testConfig(url)
	cfg.RetryMax = 0
	cfg.Breaker = resilience.Settings{FailureThreshold: 2, Cooldown: time.Minute}
	client := New(cfg, nil, WithMetrics(metrics))

	for i := 0; i < 2; i++ {
		_, err := client.GetSkills(context.Background())
		require.ErrorIs(t, err, ErrUnavailable)
	}
	require.Equal(t, resilience.StateOpen, client.Breaker().State())

	_, err := client.GetSkills(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.BackendCalls.WithLabelValues("get_skills", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.BackendCalls.WithLabelValues("get_skills", "rejected")))
	assert.Equal(t, float64(resilience.StateOpen), testutil.ToFloat64(metrics.BreakerState))
}

func TestCancelledContext(t *testing.T) {
	client, _ := newTestClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.GetSkills(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, resilience.StateClosed, client.Breaker().State())
}

func TestRequestIDIsForwarded(t *testing.T) {
	tracer := tracing.New(nil)
	defer tracer.Close()
	client, fake := newTestClient(t, WithTracer(tracer))

	_, ctx := tracer.StartSpan(context.Background(), "POST /bridge/invoke/:command")
	_, err := client.GetConfig(ctx)
	require.NoError(t, err)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	require.Len(t, fake.headers, 1)
	assert.Equal(t, tracing.RequestID(ctx).String(), fake.headers[0].Get(tracing.HeaderRequestID))
	assert.NotEmpty(t, fake.headers[0].Get(tracing.HeaderSpanID))
	assert.NotEqual(t, tracing.SpanID(ctx).String(), fake.headers[0].Get(tracing.HeaderSpanID), "the backend call runs in a child span")
}
