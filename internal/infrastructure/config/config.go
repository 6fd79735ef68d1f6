package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

// FileEnv names the environment variable pointing at an optional TOML file.
const FileEnv = "SHELL_CONFIG"

// Config holds all shell configuration.
type Config struct {
	Bridge    BridgeConfig    `toml:"bridge"`
	Window    WindowConfig    `toml:"window"`
	Backend   BackendConfig   `toml:"backend"`
	Skills    SkillsConfig    `toml:"skills"`
	Logging   LogConfig       `toml:"logging"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
}

// BridgeConfig holds the loopback command bridge listener.
type BridgeConfig struct {
	Host string `envconfig:"BRIDGE_HOST" toml:"host"`
	// Port "0" picks a free port; the UI learns it from /bridge.json.
	Port string `envconfig:"BRIDGE_PORT" toml:"port"`
}

// WindowConfig holds window creation parameters and the UI origin.
type WindowConfig struct {
	Title     string `envconfig:"WINDOW_TITLE" toml:"title"`
	Width     int    `envconfig:"WINDOW_WIDTH" toml:"width"`
	Height    int    `envconfig:"WINDOW_HEIGHT" toml:"height"`
	MinWidth  int    `envconfig:"WINDOW_MIN_WIDTH" toml:"min_width"`
	MinHeight int    `envconfig:"WINDOW_MIN_HEIGHT" toml:"min_height"`
	// UIURL is an extra origin the sandboxed UI may be loaded from, such as a
	// dev server. The embedded webview origins are always internal.
	UIURL string `envconfig:"UI_URL" toml:"ui_url"`
	// MaximizePoll is how often the desktop driver samples the OS maximize state.
	MaximizePoll Duration `envconfig:"WINDOW_MAXIMIZE_POLL" toml:"maximize_poll"`
}

// BackendConfig holds the external skill/agent backend endpoint.
type BackendConfig struct {
	URL     string   `envconfig:"BACKEND_URL" toml:"url"`
	Timeout Duration `envconfig:"BACKEND_TIMEOUT" toml:"timeout"`
}

// SkillsConfig holds resource sync settings.
type SkillsConfig struct {
	SettleDelay Duration `envconfig:"SKILLS_SETTLE_DELAY" toml:"settle_delay"`
	// SettleMode is "fixed" or "poll".
	SettleMode   string `envconfig:"SKILLS_SETTLE_MODE" toml:"settle_mode"`
	PollAttempts int    `envconfig:"SKILLS_POLL_ATTEMPTS" toml:"poll_attempts"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" toml:"level"`
	Development bool   `envconfig:"LOG_DEV" toml:"development"`
	// Outputs are zap sink URLs or file paths; LOG_OUTPUTS is comma separated.
	Outputs []string `envconfig:"LOG_OUTPUTS" toml:"outputs"`
}

// RateLimitConfig holds bridge rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" toml:"rps"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" toml:"burst"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" toml:"enabled"`
}

// Load builds configuration from defaults, the optional TOML file named by
// SHELL_CONFIG, and environment variables, in that order of precedence.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv(FileEnv); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads configuration or falls back to defaults.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Bridge: BridgeConfig{
			Host: "127.0.0.1",
			Port: "0",
		},
		Window: WindowConfig{
			Title:        "Agent Shell",
			Width:        1200,
			Height:       800,
			MinWidth:     450,
			MinHeight:    500,
			UIURL:        "wails://wails/",
			MaximizePoll: Duration(250 * time.Millisecond),
		},
		Backend: BackendConfig{
			URL:     "http://127.0.0.1:4096",
			Timeout: Duration(30 * time.Second),
		},
		Skills: SkillsConfig{
			SettleDelay:  Duration(1500 * time.Millisecond),
			SettleMode:   "fixed",
			PollAttempts: 4,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
			Outputs:     []string{"stderr"},
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}

// Validate rejects configurations the shell cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.Window.MinWidth <= 0 || c.Window.MinHeight <= 0 {
		errs = append(errs, errors.New("window minimum size must be positive"))
	}
	if c.Window.Width < c.Window.MinWidth || c.Window.Height < c.Window.MinHeight {
		errs = append(errs, errors.New("window size is below its minimum"))
	}
	if c.Window.UIURL == "" {
		errs = append(errs, errors.New("UI_URL is required"))
	}
	if c.Backend.URL == "" {
		errs = append(errs, errors.New("BACKEND_URL is required"))
	}
	if c.Skills.SettleDelay < 0 {
		errs = append(errs, errors.New("settle delay cannot be negative"))
	}
	switch c.Skills.SettleMode {
	case "fixed", "poll":
	default:
		errs = append(errs, fmt.Errorf("unknown settle mode %q", c.Skills.SettleMode))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Duration is a time.Duration that decodes from strings such as "1500ms",
// both in TOML files and in environment variables.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}
