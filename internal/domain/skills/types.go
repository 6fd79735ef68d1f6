package skills

import (
	"context"
	"errors"

	"github.com/GriffinCanCode/agentshell/internal/domain/security"
)

var (
	ErrDuplicate = errors.New("skill source already configured")
	ErrNotFound  = errors.New("skill source not configured")
	ErrInvalid   = errors.New("invalid skill source")
	ErrBusy      = errors.New("a skill configuration change is still being applied")
	ErrBackend   = errors.New("skill backend call failed")
)

// Source is a skill resolved by the backend. Read-only to the shell.
type Source struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Content     string `json:"content"`
}

// Remote reports whether the source was resolved from a URL rather than a local path.
func (s Source) Remote() bool {
	return security.ParseScheme(s.Location).IsWeb()
}

// Config is the persisted list of places the backend scans for skills.
// Neither list contains duplicates; the workflow checks before every write.
type Config struct {
	Paths []string `json:"paths"`
	URLs  []string `json:"urls"`
}

// Clone returns a deep copy with non-nil slices, so an empty list is written
// as [] rather than null.
func (c Config) Clone() Config {
	out := Config{
		Paths: make([]string, len(c.Paths)),
		URLs:  make([]string, len(c.URLs)),
	}
	copy(out.Paths, c.Paths)
	copy(out.URLs, c.URLs)
	return out
}

// Backend is the external collaborator that persists Config and resolves sources.
type Backend interface {
	GetSkills(ctx context.Context) ([]Source, error)
	GetConfig(ctx context.Context) (Config, error)
	// UpdateConfig writes the entire Config, never a delta.
	UpdateConfig(ctx context.Context, cfg Config) error
}

// Snapshot is the workflow state handed to the UI.
type Snapshot struct {
	Config  Config   `json:"config"`
	Sources []Source `json:"sources"`
	// Pending is true between a write and the authoritative refetch.
	Pending bool `json:"pending"`
}

// ReconciledEvent is pushed once the refetch after an edit completes or fails.
type ReconciledEvent struct {
	Snapshot *Snapshot `json:"snapshot,omitempty"`
	Error    string    `json:"error,omitempty"`
}
