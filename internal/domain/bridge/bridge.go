package bridge

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/GriffinCanCode/agentshell/internal/domain/security"
	"github.com/GriffinCanCode/agentshell/internal/domain/skills"
	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrInvalidRequest = errors.New("invalid request")
)

// Failure codes carried in a failed Result.
const (
	CodeDuplicate          = "duplicate"
	CodeNotFound           = "not_found"
	CodeBusy               = "busy"
	CodeBackendUnavailable = "backend_unavailable"
	CodeInvalidRequest     = "invalid_request"
	CodeUnknownCommand     = "unknown_command"
	CodeInternal           = "internal"
)

// Failure is the tagged error half of a Result.
type Failure struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Result is the response to every command. Data is null for commands with no
// return value and for an empty outcome such as a cancelled dialog.
type Result struct {
	OK    bool        `json:"ok"`
	Data  interface{} `json:"data"`
	Error *Failure    `json:"error,omitempty"`
}

// Window is the subset of the window controller the bridge drives.
type Window interface {
	Minimize()
	ToggleMaximize()
	Close()
	IsMaximized() bool
	OpenDirectoryDialog(ctx context.Context, title string) (string, bool, error)
}

// Gate is the navigation policy.
type Gate interface {
	OpenExternal(url string) bool
	HandleNavigation(url string) security.NavigationDecision
	HandleWindowOpen(url string) security.WindowOpenDecision
}

// Skills is the skill sync workflow.
type Skills interface {
	Snapshot() skills.Snapshot
	Load(ctx context.Context) (skills.Snapshot, error)
	AddPath(ctx context.Context, path string) (skills.Snapshot, error)
	RemovePath(ctx context.Context, path string) (skills.Snapshot, error)
	AddURL(ctx context.Context, url string) (skills.Snapshot, error)
	RemoveURL(ctx context.Context, url string) (skills.Snapshot, error)
}

// Host answers platform queries.
type Host interface {
	Platform() string
	HomeDir() (string, error)
}

// Observer receives one call per invoked command.
type Observer interface {
	ObserveCommand(name string, code string, duration time.Duration)
}

// Deps are the collaborators behind the catalog. Observer may be nil.
type Deps struct {
	Window   Window
	Gate     Gate
	Skills   Skills
	Host     Host
	Observer Observer
}

// DefaultDialogTitle is used when dialog.openDirectory carries no title.
const DefaultDialogTitle = "Select Skills Directory"

// Bridge dispatches named commands from the UI to the host.
type Bridge struct {
	deps   Deps
	logger *zap.Logger
}

// New creates a command bridge
func New(deps Deps, logger *zap.Logger) *Bridge {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bridge{deps: deps, logger: logger}
}

type urlRequest struct {
	URL string `json:"url"`
}

type pathRequest struct {
	Path string `json:"path"`
}

type dialogRequest struct {
	Title string `json:"title"`
}

// Invoke runs one command. It never panics and never returns a Go error:
// every outcome, including failures, is a Result.
func (b *Bridge) Invoke(ctx context.Context, name Name, payload []byte) (res Result) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("bridge command panicked", zap.String("command", string(name)), zap.Any("panic", r))
			res = fail(fmt.Errorf("command %s panicked", name))
		}
		code := "ok"
		if res.Error != nil {
			code = res.Error.Code
		}
		if b.deps.Observer != nil {
			b.deps.Observer.ObserveCommand(string(name), code, time.Since(start))
		}
	}()

	data, err := b.dispatch(ctx, name, payload)
	if err != nil {
		res = fail(err)
		b.logger.Warn("bridge command failed",
			zap.String("command", string(name)),
			zap.String("code", res.Error.Code),
			zap.Error(err),
		)
		return res
	}
	return Result{OK: true, Data: data}
}

func (b *Bridge) dispatch(ctx context.Context, name Name, payload []byte) (interface{}, error) {
	switch name {
	case WindowMinimize:
		b.deps.Window.Minimize()
		return nil, nil
	case WindowMaximizeToggle:
		b.deps.Window.ToggleMaximize()
		return nil, nil
	case WindowClose:
		b.deps.Window.Close()
		return nil, nil
	case WindowIsMaximized:
		return b.deps.Window.IsMaximized(), nil

	case PlatformGet:
		return b.deps.Host.Platform(), nil
	case PlatformHomeDir:
		dir, err := b.deps.Host.HomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		return dir, nil

	case ShellOpenExternal:
		var req urlRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		// Non-web schemes are a silent no-op, not a failure.
		b.deps.Gate.OpenExternal(req.URL)
		return nil, nil
	case DialogOpenDirectory:
		var req dialogRequest
		if err := decodeOptional(payload, &req); err != nil {
			return nil, err
		}
		if req.Title == "" {
			req.Title = DefaultDialogTitle
		}
		path, ok, err := b.deps.Window.OpenDirectoryDialog(ctx, req.Title)
		if err != nil {
			return nil, fmt.Errorf("directory dialog failed: %w", err)
		}
		if !ok {
			return nil, nil
		}
		return path, nil

	case NavigationWillNavigate:
		var req urlRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return b.deps.Gate.HandleNavigation(req.URL), nil
	case NavigationWindowOpen:
		var req urlRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return b.deps.Gate.HandleWindowOpen(req.URL), nil

	case SkillsState:
		return b.deps.Skills.Snapshot(), nil
	case SkillsRefresh:
		return b.deps.Skills.Load(ctx)
	case SkillsAddPath, SkillsRemovePath:
		var req pathRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		if name == SkillsAddPath {
			return b.deps.Skills.AddPath(ctx, req.Path)
		}
		return b.deps.Skills.RemovePath(ctx, req.Path)
	case SkillsAddURL, SkillsRemoveURL:
		var req urlRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		if name == SkillsAddURL {
			return b.deps.Skills.AddURL(ctx, req.URL)
		}
		return b.deps.Skills.RemoveURL(ctx, req.URL)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
}

func decode(payload []byte, v interface{}) error {
	if len(strings.TrimSpace(string(payload))) == 0 {
		return fmt.Errorf("%w: missing payload", ErrInvalidRequest)
	}
	if err := sonic.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}

func decodeOptional(payload []byte, v interface{}) error {
	trimmed := strings.TrimSpace(string(payload))
	if trimmed == "" || trimmed == "null" {
		return nil
	}
	return decode(payload, v)
}

func fail(err error) Result {
	return Result{Error: &Failure{Code: Code(err), Message: err.Error()}}
}

// Code maps an error to its failure code.
func Code(err error) string {
	switch {
	case errors.Is(err, skills.ErrDuplicate):
		return CodeDuplicate
	case errors.Is(err, skills.ErrNotFound):
		return CodeNotFound
	case errors.Is(err, skills.ErrBusy):
		return CodeBusy
	case errors.Is(err, skills.ErrBackend):
		return CodeBackendUnavailable
	case errors.Is(err, skills.ErrInvalid), errors.Is(err, ErrInvalidRequest):
		return CodeInvalidRequest
	case errors.Is(err, ErrUnknownCommand):
		return CodeUnknownCommand
	default:
		return CodeInternal
	}
}
