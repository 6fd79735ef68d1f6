package security

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingOpener struct {
	mu     sync.Mutex
	opened []string
	err    error
}

func (o *recordingOpener) OpenURL(url string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.err != nil {
		return o.err
	}
	o.opened = append(o.opened, url)
	return nil
}

func (o *recordingOpener) urls() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.opened...)
}

const uiURL = "http://localhost:5173"

func TestParseScheme(t *testing.T) {
	tests := []struct {
		raw  string
		want Scheme
	}{
		{"http://example.com", SchemeHTTP},
		{"https://example.com/path?q=1", SchemeHTTPS},
		{"", SchemeOther},
		{"file:///etc/passwd", SchemeOther},
		{"javascript:alert(1)", SchemeOther},
		{"mailto:someone@example.com", SchemeOther},
		{"/relative/path", SchemeOther},
		{"HTTPS://example.com", SchemeOther},
		{"http:/missing-slash", SchemeOther},
		{" https://leading-space", SchemeOther},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseScheme(tt.raw))
			assert.Equal(t, tt.want != SchemeOther, tt.want.IsWeb())
		})
	}
}

func TestClassify(t *testing.T) {
	gate := NewGate(uiURL, nil, nil)

	tests := []struct {
		url  string
		want Classification
	}{
		{uiURL, Internal},
		{uiURL + "/settings#skills", Internal},
		{"file:///Applications/Shell.app/index.html", Internal},
		{"https://example.com", External},
		{"http://localhost:3000", External},
		{"wails://wails/settings", Internal},
		{"http://wails.localhost/settings", Internal},
		{"http://wails.localhost.attacker.example/", External},
		{"wails://wails.attacker/", External},
		{"", External},
		{"about:blank", External},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, gate.Classify(tt.url))
			// Pure: a second call agrees with the first.
			assert.Equal(t, gate.Classify(tt.url), gate.Classify(tt.url))
		})
	}
}

func TestNewGateIgnoresEmptyUIURL(t *testing.T) {
	gate := NewGate("", nil, nil)

	assert.Equal(t, []string{"wails://wails/", "http://wails.localhost/", FileOrigin}, gate.Origins())
	assert.Equal(t, External, gate.Classify("https://example.com"))
}

func TestNewGateDeduplicatesWebviewUIURL(t *testing.T) {
	gate := NewGate("wails://wails/", nil, nil)

	assert.Equal(t, []string{"wails://wails/", "http://wails.localhost/", FileOrigin}, gate.Origins())
}

func TestWebviewNavigationStaysInWindow(t *testing.T) {
	tests := []string{
		"wails://wails/",
		"wails://wails/settings",
		"http://wails.localhost/",
		"http://wails.localhost/settings",
	}

	for _, url := range tests {
		t.Run(url, func(t *testing.T) {
			opener := &recordingOpener{}
			gate := NewGate("wails://wails/", opener, nil)

			decision := gate.HandleNavigation(url)

			assert.True(t, decision.Allow)
			assert.False(t, decision.Forwarded)
			assert.Empty(t, opener.urls(), "the app's own pages never reach the OS browser")
		})
	}
}

func TestHeaderOrigins(t *testing.T) {
	tests := []struct {
		uiURL string
		want  []string
	}{
		{"", []string{"wails://wails", "http://wails.localhost"}},
		{"wails://wails/", []string{"wails://wails", "http://wails.localhost"}},
		{"http://localhost:5173/app/", []string{"wails://wails", "http://wails.localhost", "http://localhost:5173"}},
		{"not a url", []string{"wails://wails", "http://wails.localhost"}},
	}

	for _, tt := range tests {
		t.Run(tt.uiURL, func(t *testing.T) {
			assert.Equal(t, tt.want, HeaderOrigins(tt.uiURL))
		})
	}
}

func TestOrigins_ReturnsCopy(t *testing.T) {
	gate := NewGate(uiURL, nil, nil)

	origins := gate.Origins()
	origins[0] = "https://"

	assert.Equal(t, External, gate.Classify("https://evil.example"))
}

func TestOpenExternal(t *testing.T) {
	tests := []struct {
		url     string
		forward bool
	}{
		{"http://example.com", true},
		{"https://example.com", true},
		{"", false},
		{"file:///tmp/x", false},
		{"ftp://example.com", false},
		{"not a url", false},
		{"./docs/index.html", false},
		{"smb://share/payload", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			opener := &recordingOpener{}
			gate := NewGate(uiURL, opener, nil)

			assert.Equal(t, tt.forward, gate.OpenExternal(tt.url))
			if tt.forward {
				assert.Equal(t, []string{tt.url}, opener.urls())
			} else {
				assert.Empty(t, opener.urls())
			}
		})
	}
}

func TestHandleWindowOpen(t *testing.T) {
	t.Run("https target goes to the OS browser", func(t *testing.T) {
		opener := &recordingOpener{}
		gate := NewGate(uiURL, opener, nil)

		decision := gate.HandleWindowOpen("https://example.com")

		assert.Equal(t, ActionDeny, decision.Action)
		assert.True(t, decision.Forwarded)
		assert.Equal(t, []string{"https://example.com"}, opener.urls())
	})

	t.Run("internal target is still denied", func(t *testing.T) {
		opener := &recordingOpener{}
		gate := NewGate(uiURL, opener, nil)

		decision := gate.HandleWindowOpen(uiURL + "/popup")

		assert.Equal(t, ActionDeny, decision.Action)
		// The UI URL here is http, so it is handed to the browser rather than a new window.
		assert.True(t, decision.Forwarded)
	})

	t.Run("other schemes are dropped", func(t *testing.T) {
		opener := &recordingOpener{}
		gate := NewGate(uiURL, opener, nil)

		decision := gate.HandleWindowOpen("vscode://open?file=/etc/hosts")

		assert.Equal(t, ActionDeny, decision.Action)
		assert.False(t, decision.Forwarded)
		assert.Empty(t, opener.urls())
	})
}

func TestHandleNavigation(t *testing.T) {
	opener := &recordingOpener{}
	gate := NewGate(uiURL, opener, nil)

	internal := gate.HandleNavigation(uiURL + "/agents")
	assert.True(t, internal.Allow)
	assert.False(t, internal.Forwarded)

	web := gate.HandleNavigation("https://docs.example.com")
	assert.False(t, web.Allow)
	assert.True(t, web.Forwarded)

	other := gate.HandleNavigation("data:text/html,<h1>x</h1>")
	assert.False(t, other.Allow)
	assert.False(t, other.Forwarded)

	require.Equal(t, []string{"https://docs.example.com"}, opener.urls())
}

func TestOpenerFailureIsNotForwarded(t *testing.T) {
	opener := &recordingOpener{err: errors.New("no browser")}
	gate := NewGate(uiURL, opener, nil)

	assert.False(t, gate.OpenExternal("https://example.com"))

	decision := gate.HandleNavigation("https://example.com")
	assert.False(t, decision.Allow)
	assert.False(t, decision.Forwarded)
}
