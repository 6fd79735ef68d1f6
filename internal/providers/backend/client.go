package backend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/GriffinCanCode/agentshell/internal/domain/skills"
	"github.com/GriffinCanCode/agentshell/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/agentshell/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/agentshell/internal/infrastructure/tracing"
	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

// ErrUnavailable wraps every failure to reach the backend or get a 2xx from it.
var ErrUnavailable = errors.New("skill backend unavailable")

// Config configures the backend client
type Config struct {
	BaseURL      string
	Timeout      time.Duration
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	// Breaker settings; zero values get resilience defaults.
	Breaker resilience.Settings
}

// DefaultConfig returns the client defaults for baseURL
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:      baseURL,
		Timeout:      30 * time.Second,
		RetryMax:     2,
		RetryWaitMin: 200 * time.Millisecond,
		RetryWaitMax: 2 * time.Second,
		Breaker: resilience.Settings{
			FailureThreshold: 3,
			Cooldown:         5 * time.Second,
		},
	}
}

// configResponse is the subset of the backend's config document the shell reads.
type configResponse struct {
	Skills skills.Config `json:"skills"`
}

type configUpdate struct {
	Skills skills.Config `json:"skills"`
}

// Client talks to the out-of-process skill backend over HTTP. It implements
// skills.Backend.
type Client struct {
	resty     *resty.Client
	breaker   *resilience.Breaker
	sanitizer *bluemonday.Policy
	metrics   *monitoring.Metrics
	tracer    *tracing.Tracer
	logger    *zap.Logger
}

// Option configures optional client collaborators
type Option func(*Client)

// WithMetrics records call metrics and breaker state
func WithMetrics(m *monitoring.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithTracer opens a span per call and forwards the request ID
func WithTracer(t *tracing.Tracer) Option {
	return func(c *Client) { c.tracer = t }
}

// New creates a backend client
func New(cfg Config, logger *zap.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	// Connection-level retries live in the transport; resty itself never retries.
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.RetryMax
	retryClient.RetryWaitMin = cfg.RetryWaitMin
	retryClient.RetryWaitMax = cfg.RetryWaitMax
	retryClient.Logger = nil

	c := &Client{
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger,
	}
	for _, opt := range opts {
		opt(c)
	}

	settings := cfg.Breaker
	userHook := settings.OnStateChange
	settings.OnStateChange = func(name string, from, to resilience.State) {
		c.logger.Warn("backend breaker state changed",
			zap.String("breaker", name),
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
		if c.metrics != nil {
			c.metrics.SetBreakerState(int(to))
		}
		if userHook != nil {
			userHook(name, from, to)
		}
	}
	c.breaker = resilience.New("skills-backend", settings)

	c.resty = resty.NewWithClient(retryClient.StandardClient()).
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "agentshell/1.0").
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal)

	return c
}

// Breaker exposes the circuit breaker
func (c *Client) Breaker() *resilience.Breaker {
	return c.breaker
}

// BreakerState returns the circuit breaker state name
func (c *Client) BreakerState() string {
	return c.breaker.State().String()
}

// GetSkills returns every source the backend currently resolves.
func (c *Client) GetSkills(ctx context.Context) ([]skills.Source, error) {
	var out []skills.Source
	if err := c.call(ctx, "get_skills", func(req *resty.Request) (*resty.Response, error) {
		return req.SetResult(&out).ForceContentType("application/json").Get("/skills")
	}); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Name = c.sanitizer.Sanitize(out[i].Name)
		out[i].Description = c.sanitizer.Sanitize(out[i].Description)
	}
	return out, nil
}

// GetConfig returns the persisted skill configuration.
func (c *Client) GetConfig(ctx context.Context) (skills.Config, error) {
	var out configResponse
	if err := c.call(ctx, "get_config", func(req *resty.Request) (*resty.Response, error) {
		return req.SetResult(&out).ForceContentType("application/json").Get("/config")
	}); err != nil {
		return skills.Config{}, err
	}
	return out.Skills.Clone(), nil
}

// UpdateConfig writes the whole skill configuration.
func (c *Client) UpdateConfig(ctx context.Context, cfg skills.Config) error {
	body := configUpdate{Skills: cfg.Clone()}
	return c.call(ctx, "update_config", func(req *resty.Request) (*resty.Response, error) {
		return req.SetBody(body).Patch("/config")
	})
}

func (c *Client) call(ctx context.Context, operation string, do func(*resty.Request) (*resty.Response, error)) error {
	timer := monitoring.NewTimer(c.metrics, operation)

	var span *tracing.Span
	if c.tracer != nil {
		span, ctx = c.tracer.StartSpan(ctx, "backend."+operation)
		defer c.tracer.Finish(span)
	}

	resp, err := resilience.Do(c.breaker, func() (*resty.Response, error) {
		req := c.resty.R().SetContext(ctx)
		tracing.Inject(ctx, req.Header)
		resp, err := do(req)
		if err != nil {
			return resp, err
		}
		if resp.IsError() {
			return resp, fmt.Errorf("%s returned %s", resp.Request.URL, resp.Status())
		}
		return resp, nil
	})
	if err != nil {
		timer.Stop(status(err))
		if span != nil {
			span.SetError(err)
		}
		c.logger.Debug("backend call failed", zap.String("operation", operation), zap.Error(err))
		return fmt.Errorf("%w: %s: %w", ErrUnavailable, operation, err)
	}

	timer.Stop("success")
	if span != nil {
		span.SetStatus(resp.StatusCode())
	}
	return nil
}

func status(err error) string {
	switch {
	case errors.Is(err, resilience.ErrCircuitOpen), errors.Is(err, resilience.ErrTooManyRequests):
		return "rejected"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "error"
	}
}
