// Package frontend embeds the built UI bundle served by the desktop asset
// server.
package frontend

import "embed"

// Assets holds the contents of dist/. The UI build writes its output there.
//
//go:embed all:dist
var Assets embed.FS
