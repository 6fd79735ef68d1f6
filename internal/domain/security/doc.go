// Package security is the shell's only boundary against the hosted page.
//
// Every navigation and new-window request from the sandboxed UI is classified
// against a fixed set of internal origin prefixes (the webview origins, the UI
// load URL and file://):
//
//	Internal  -> the navigation proceeds unchanged
//	External  -> the navigation is cancelled; http(s) URLs go to the OS browser
//
// New-window requests are always denied. The page can therefore never point
// the window at remote content or spawn a second window, and the privileged
// host can never be used to launch arbitrary URL handlers.
package security
