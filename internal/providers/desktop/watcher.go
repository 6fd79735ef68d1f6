package desktop

import (
	"context"
	"time"
)

// MaximizeTarget receives polled maximize state.
type MaximizeTarget interface {
	HasWindow() bool
	IsMaximized() bool
	MaximizeChanged(maximized bool)
}

// WatchMaximize samples the OS maximize state every interval and reports it
// to target until ctx is done. The runtime raises no maximize event, and snap
// gestures or title-bar double clicks change the state without the bridge.
// target is expected to drop repeated reports of the same state.
func WatchMaximize(ctx context.Context, interval time.Duration, target MaximizeTarget) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if target.HasWindow() {
				target.MaximizeChanged(target.IsMaximized())
			}
		}
	}
}
