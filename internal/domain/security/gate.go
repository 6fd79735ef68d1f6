package security

import (
	"strings"

	"go.uber.org/zap"
)

// FileOrigin is always treated as internal: packaged UI assets load from disk.
const FileOrigin = "file://"

// Classification is the result of checking a URL against the internal origins.
type Classification int

const (
	Internal Classification = iota
	External
)

// String returns the string representation of the classification
func (c Classification) String() string {
	if c == Internal {
		return "internal"
	}
	return "external"
}

// Opener hands a URL to the operating system's default browser.
type Opener interface {
	OpenURL(url string) error
}

// WindowOpenAction is the outcome of a new-window request. Only Deny exists:
// the shell never creates a second window.
type WindowOpenAction string

const ActionDeny WindowOpenAction = "deny"

// WindowOpenDecision is returned for every new-window request.
type WindowOpenDecision struct {
	Action WindowOpenAction `json:"action"`
	// Forwarded is true when the URL was handed to the OS browser.
	Forwarded bool `json:"forwarded"`
}

// NavigationDecision is returned for every in-page navigation attempt.
type NavigationDecision struct {
	Allow     bool `json:"allow"`
	Forwarded bool `json:"forwarded"`
}

// Gate classifies navigations and routes external web URLs to the OS browser.
// The origin set is fixed at construction.
type Gate struct {
	origins []string
	opener  Opener
	logger  *zap.Logger
}

// NewGate creates a gate whose internal origins are the webview origins, the
// UI load URL and file://. Empty origins are ignored so that a blank UI URL
// cannot make every URL internal.
func NewGate(uiURL string, opener Opener, logger *zap.Logger) *Gate {
	if logger == nil {
		logger = zap.NewNop()
	}
	origins := make([]string, 0, 4)
	for _, o := range append(WebviewOrigins(), uiURL, FileOrigin) {
		if o != "" && !contains(origins, o) {
			origins = append(origins, o)
		}
	}
	return &Gate{origins: origins, opener: opener, logger: logger}
}

// Origins returns a copy of the internal origin prefixes.
func (g *Gate) Origins() []string {
	out := make([]string, len(g.origins))
	copy(out, g.origins)
	return out
}

// Classify reports External iff url starts with none of the internal origins.
func (g *Gate) Classify(url string) Classification {
	for _, origin := range g.origins {
		if strings.HasPrefix(url, origin) {
			return Internal
		}
	}
	return External
}

// HandleWindowOpen always denies the new window. Web URLs are forwarded to the
// OS browser; everything else is dropped.
func (g *Gate) HandleWindowOpen(url string) WindowOpenDecision {
	decision := WindowOpenDecision{Action: ActionDeny}
	decision.Forwarded = g.forward(url)
	g.logger.Debug("window open denied",
		zap.String("url", url),
		zap.Bool("forwarded", decision.Forwarded),
	)
	return decision
}

// HandleNavigation lets internal navigations proceed and cancels external ones,
// forwarding external web URLs to the OS browser.
func (g *Gate) HandleNavigation(url string) NavigationDecision {
	if g.Classify(url) == Internal {
		return NavigationDecision{Allow: true}
	}
	decision := NavigationDecision{Allow: false, Forwarded: g.forward(url)}
	g.logger.Debug("navigation cancelled",
		zap.String("url", url),
		zap.Bool("forwarded", decision.Forwarded),
	)
	return decision
}

// OpenExternal forwards url to the OS browser iff its scheme is http or https.
// It reports whether the URL was forwarded; other values are a silent no-op.
func (g *Gate) OpenExternal(url string) bool {
	return g.forward(url)
}

func (g *Gate) forward(url string) bool {
	switch ParseScheme(url) {
	case SchemeHTTP, SchemeHTTPS:
	case SchemeOther:
		return false
	}
	if g.opener == nil {
		return false
	}
	if err := g.opener.OpenURL(url); err != nil {
		// Denial already happened; a failed browser launch only gets logged.
		g.logger.Warn("failed to open external url", zap.String("url", url), zap.Error(err))
		return false
	}
	return true
}
