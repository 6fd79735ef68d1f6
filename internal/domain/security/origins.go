package security

import "net/url"

// WebviewOrigins returns the URLs the embedded webview serves the UI from:
// wails://wails/ on darwin and linux, http://wails.localhost/ on windows.
// Both end in a slash so that lookalike hosts never share the prefix.
func WebviewOrigins() []string {
	return []string{"wails://wails/", "http://wails.localhost/"}
}

// HeaderOrigin reduces raw to the scheme://host form a browser sends in the
// Origin header. It returns "" when raw has no scheme or host.
func HeaderOrigin(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// HeaderOrigins lists the exact Origin header values the UI can present:
// the webview origins plus the origin of uiURL.
func HeaderOrigins(uiURL string) []string {
	out := make([]string, 0, 3)
	for _, raw := range append(WebviewOrigins(), uiURL) {
		if o := HeaderOrigin(raw); o != "" && !contains(out, o) {
			out = append(out, o)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
