package skills

import (
	"context"
	"strings"
	"time"
)

// FetchFunc reads the resolved source list from the backend.
type FetchFunc func(ctx context.Context) ([]Source, error)

// SettleStrategy decides when to refetch after a config write. The backend
// exposes no completion signal for re-resolution, so every strategy guesses.
type SettleStrategy interface {
	Settle(ctx context.Context, written Config, fetch FetchFunc) ([]Source, error)
}

// FixedDelay waits Delay once, then refetches.
type FixedDelay struct {
	Delay time.Duration
}

// Settle implements SettleStrategy
func (f FixedDelay) Settle(ctx context.Context, _ Config, fetch FetchFunc) ([]Source, error) {
	if err := sleep(ctx, f.Delay); err != nil {
		return nil, err
	}
	return fetch(ctx)
}

// PollBackoff waits Initial, refetches, and keeps refetching with doubling
// waits until every configured entry has resolved at least one source or
// Attempts is exhausted. The last result is returned either way: an entry
// that legitimately holds no skills is not an error.
type PollBackoff struct {
	Initial  time.Duration
	Attempts int
}

// Settle implements SettleStrategy
func (p PollBackoff) Settle(ctx context.Context, written Config, fetch FetchFunc) ([]Source, error) {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	wait := p.Initial

	var (
		sources []Source
		err     error
	)
	for i := 0; i < attempts; i++ {
		if err := sleep(ctx, wait); err != nil {
			return nil, err
		}
		sources, err = fetch(ctx)
		if err == nil && Covers(written, sources) {
			return sources, nil
		}
		wait *= 2
	}
	return sources, err
}

// Covers reports whether every configured path and URL contains at least one
// resolved source location.
func Covers(cfg Config, sources []Source) bool {
	entries := make([]string, 0, len(cfg.Paths)+len(cfg.URLs))
	entries = append(entries, cfg.Paths...)
	entries = append(entries, cfg.URLs...)

	for _, entry := range entries {
		found := false
		for _, src := range sources {
			if within(src.Location, entry) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// within reports whether location is entry itself or lies below it. Matching
// stops at a separator, so /a does not contain /ab.
func within(location, entry string) bool {
	if location == entry {
		return true
	}
	root := strings.TrimRight(entry, `/\`)
	return strings.HasPrefix(location, root+"/") || strings.HasPrefix(location, root+`\`)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
