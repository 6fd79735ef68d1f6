package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "agentshell"

// Metrics holds all Prometheus metrics on a private registry
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Bridge metrics
	CommandsTotal   *prometheus.CounterVec
	CommandDuration *prometheus.HistogramVec

	// Backend metrics
	BackendCalls    *prometheus.CounterVec
	BackendDuration *prometheus.HistogramVec
	BreakerState    prometheus.Gauge

	// Push metrics
	StreamConnections prometheus.Gauge
	EventsDelivered   *prometheus.CounterVec

	startTime time.Time

	// Snapshot for /health - track current values
	snapshot Snapshot
	mu       sync.RWMutex
}

// Snapshot holds current metric values for the health endpoint
type Snapshot struct {
	TotalRequests     int64   `json:"total_requests"`
	TotalCommands     int64   `json:"total_commands"`
	FailedCommands    int64   `json:"failed_commands"`
	ActiveConnections int64   `json:"active_connections"`
	UptimeSeconds     float64 `json:"uptime_seconds"`
}

// NewMetrics creates a metrics collector with its own registry
func NewMetrics() *Metrics {
	m := &Metrics{
		registry:  prometheus.NewRegistry(),
		startTime: time.Now(),

		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of bridge HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Bridge HTTP request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "route"},
		),

		CommandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "bridge_commands_total",
				Help:      "Total number of bridge commands by result code",
			},
			[]string{"command", "code"},
		),
		CommandDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "bridge_command_duration_seconds",
				Help:      "Bridge command duration in seconds",
				// Directory dialogs stay open for as long as the user wants.
				Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5, 30, 120},
			},
			[]string{"command"},
		),

		BackendCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "backend_calls_total",
				Help:      "Total number of skill backend calls",
			},
			[]string{"operation", "status"},
		),
		BackendDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "backend_call_duration_seconds",
				Help:      "Skill backend call duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"operation"},
		),
		BreakerState: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "backend_breaker_state",
				Help:      "Backend circuit breaker state (0 closed, 1 half-open, 2 open)",
			},
		),

		StreamConnections: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "stream_connections",
				Help:      "Number of open push event streams",
			},
		),
		EventsDelivered: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "events_delivered_total",
				Help:      "Total number of push events delivered per sink",
			},
			[]string{"sink", "event"},
		),
	}

	uptime := prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "uptime_seconds",
			Help:      "Shell uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	m.registry.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.CommandsTotal,
		m.CommandDuration,
		m.BackendCalls,
		m.BackendDuration,
		m.BreakerState,
		m.StreamConnections,
		m.EventsDelivered,
		uptime,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Registry returns the registry the metrics are registered on
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records a bridge HTTP request
func (m *Metrics) RecordHTTPRequest(method, route, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, route, status).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())

	m.mu.Lock()
	m.snapshot.TotalRequests++
	m.mu.Unlock()
}

// ObserveCommand records one bridge command outcome
func (m *Metrics) ObserveCommand(command, code string, duration time.Duration) {
	m.CommandsTotal.WithLabelValues(command, code).Inc()
	m.CommandDuration.WithLabelValues(command).Observe(duration.Seconds())

	m.mu.Lock()
	m.snapshot.TotalCommands++
	if code != "ok" {
		m.snapshot.FailedCommands++
	}
	m.mu.Unlock()
}

// ObserveBackendCall records one call to the skill backend
func (m *Metrics) ObserveBackendCall(operation, status string, duration time.Duration) {
	m.BackendCalls.WithLabelValues(operation, status).Inc()
	m.BackendDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// SetBreakerState records the backend breaker state
func (m *Metrics) SetBreakerState(state int) {
	m.BreakerState.Set(float64(state))
}

// IncStreamConnections increments open push streams
func (m *Metrics) IncStreamConnections() {
	m.StreamConnections.Inc()
	m.mu.Lock()
	m.snapshot.ActiveConnections++
	m.mu.Unlock()
}

// DecStreamConnections decrements open push streams
func (m *Metrics) DecStreamConnections() {
	m.StreamConnections.Dec()
	m.mu.Lock()
	m.snapshot.ActiveConnections--
	m.mu.Unlock()
}

// RecordEvent records a push event delivered to a sink
func (m *Metrics) RecordEvent(sink, event string) {
	m.EventsDelivered.WithLabelValues(sink, event).Inc()
}

// Snapshot returns the current counters
func (m *Metrics) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := m.snapshot
	s.UptimeSeconds = time.Since(m.startTime).Seconds()
	return s
}
