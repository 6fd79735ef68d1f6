package skills

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/GriffinCanCode/agentshell/internal/domain/events"
	"github.com/GriffinCanCode/agentshell/internal/domain/security"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Workflow edits the skill Config with an optimistic write followed by an
// authoritative refetch once the settle strategy decides the backend is done.
//
// At most one write/settle/refetch cycle runs at a time. Edits issued while a
// cycle is in flight fail with ErrBusy; duplicates fail with ErrDuplicate
// before the guard is consulted.
type Workflow struct {
	backend Backend
	settle  SettleStrategy
	events  events.Publisher
	logger  *zap.Logger

	mu       sync.Mutex
	config   Config   // Protected by mu
	sources  []Source // Protected by mu
	loaded   bool     // Protected by mu
	inFlight bool     // Protected by mu

	// Reconciliation outlives the request that started it.
	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewWorkflow creates a sync workflow
func NewWorkflow(backend Backend, settle SettleStrategy, publisher events.Publisher, logger *zap.Logger) *Workflow {
	if logger == nil {
		logger = zap.NewNop()
	}
	if settle == nil {
		settle = FixedDelay{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Workflow{
		backend: backend,
		settle:  settle,
		events:  publisher,
		logger:  logger,
		config:  Config{}.Clone(),
		baseCtx: ctx,
		cancel:  cancel,
	}
}

// Load reads the backend config and the resolved sources concurrently and
// replaces local state with them.
func (w *Workflow) Load(ctx context.Context) (Snapshot, error) {
	var (
		cfg     Config
		sources []Source
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cfg, err = w.backend.GetConfig(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		sources, err = w.backend.GetSkills(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		w.logger.Warn("failed to load skills", zap.Error(err))
		return Snapshot{}, fmt.Errorf("%w: %w", ErrBackend, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.config = cfg.Clone()
	w.sources = sources
	w.loaded = true
	return w.snapshotLocked(), nil
}

// Snapshot returns the current local state
func (w *Workflow) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshotLocked()
}

// AddPath adds a local directory to the config.
func (w *Workflow) AddPath(ctx context.Context, path string) (Snapshot, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Snapshot{}, fmt.Errorf("%w: empty path", ErrInvalid)
	}
	return w.edit(ctx, func(c *Config) error {
		return add(&c.Paths, path)
	})
}

// RemovePath removes a local directory from the config.
func (w *Workflow) RemovePath(ctx context.Context, path string) (Snapshot, error) {
	path = strings.TrimSpace(path)
	return w.edit(ctx, func(c *Config) error {
		return remove(&c.Paths, path)
	})
}

// AddURL adds a remote http(s) skill location to the config.
func (w *Workflow) AddURL(ctx context.Context, url string) (Snapshot, error) {
	url = strings.TrimSpace(url)
	if !security.ParseScheme(url).IsWeb() {
		return Snapshot{}, fmt.Errorf("%w: %q is not an http(s) URL", ErrInvalid, url)
	}
	return w.edit(ctx, func(c *Config) error {
		return add(&c.URLs, url)
	})
}

// RemoveURL removes a remote skill location from the config.
func (w *Workflow) RemoveURL(ctx context.Context, url string) (Snapshot, error) {
	url = strings.TrimSpace(url)
	return w.edit(ctx, func(c *Config) error {
		return remove(&c.URLs, url)
	})
}

// Wait blocks until any in-flight reconciliation has finished.
func (w *Workflow) Wait() {
	w.wg.Wait()
}

// Close cancels any pending settle wait and waits for it to unwind.
func (w *Workflow) Close() {
	w.cancel()
	w.wg.Wait()
}

func (w *Workflow) edit(ctx context.Context, mutate func(*Config) error) (Snapshot, error) {
	if !w.isLoaded() {
		if _, err := w.Load(ctx); err != nil {
			return Snapshot{}, err
		}
	}

	w.mu.Lock()
	next := w.config.Clone()
	if err := mutate(&next); err != nil {
		w.mu.Unlock()
		return Snapshot{}, err
	}
	if w.inFlight {
		w.mu.Unlock()
		return Snapshot{}, ErrBusy
	}
	w.inFlight = true
	w.mu.Unlock()

	if err := w.backend.UpdateConfig(ctx, next); err != nil {
		w.release()
		w.logger.Warn("failed to write skill config", zap.Error(err))
		return Snapshot{}, fmt.Errorf("%w: %w", ErrBackend, err)
	}

	// Optimistic: adopt the written value before the backend has re-resolved.
	w.mu.Lock()
	w.config = next
	snap := w.snapshotLocked()
	w.mu.Unlock()

	w.logger.Info("skill config written",
		zap.Strings("paths", next.Paths),
		zap.Strings("urls", next.URLs),
	)

	w.wg.Add(1)
	go w.reconcile(next.Clone())

	return snap, nil
}

func (w *Workflow) reconcile(written Config) {
	defer w.wg.Done()

	sources, err := w.settle.Settle(w.baseCtx, written, w.backend.GetSkills)

	w.mu.Lock()
	if err == nil {
		w.sources = sources
	}
	w.inFlight = false
	snap := w.snapshotLocked()
	w.mu.Unlock()

	if err != nil {
		w.logger.Warn("skill refetch failed", zap.Error(err))
		w.publish(ReconciledEvent{Error: fmt.Errorf("%w: %w", ErrBackend, err).Error()})
		return
	}
	w.logger.Debug("skills reconciled", zap.Int("sources", len(sources)))
	w.publish(ReconciledEvent{Snapshot: &snap})
}

func (w *Workflow) publish(evt ReconciledEvent) {
	if w.events != nil {
		w.events.Publish(events.SkillsReconciled, evt)
	}
}

func (w *Workflow) release() {
	w.mu.Lock()
	w.inFlight = false
	w.mu.Unlock()
}

func (w *Workflow) isLoaded() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.loaded
}

func (w *Workflow) snapshotLocked() Snapshot {
	sources := make([]Source, len(w.sources))
	copy(sources, w.sources)
	return Snapshot{Config: w.config.Clone(), Sources: sources, Pending: w.inFlight}
}

func add(list *[]string, entry string) error {
	for _, existing := range *list {
		if existing == entry {
			return fmt.Errorf("%w: %s", ErrDuplicate, entry)
		}
	}
	*list = append(*list, entry)
	return nil
}

func remove(list *[]string, entry string) error {
	for i, existing := range *list {
		if existing == entry {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, entry)
}
