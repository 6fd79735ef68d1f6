package desktop

import (
	"fmt"

	"go.uber.org/zap"
)

// Opener hands URLs to the OS default browser. The security gate decides
// what reaches it.
type Opener struct {
	binding *Binding
	logger  *zap.Logger
}

// NewOpener creates a browser opener
func NewOpener(binding *Binding, logger *zap.Logger) *Opener {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Opener{binding: binding, logger: logger}
}

// OpenURL implements security.Opener.
func (o *Opener) OpenURL(url string) error {
	ctx, err := o.binding.Context()
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", url, err)
	}
	o.binding.Runtime().BrowserOpenURL(ctx, url)
	o.logger.Debug("opened in system browser", zap.String("url", url))
	return nil
}
