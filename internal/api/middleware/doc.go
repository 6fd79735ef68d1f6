// Package middleware provides the HTTP middleware in front of the command bridge.
//
// Middleware stack:
//   - CORS: only the embedded webview origins and the configured UI URL
//   - RequireToken: per-launch token via X-Bridge-Token or ?token=
//   - RateLimit: one shared token bucket, disabled by config
//
// Rejections use the bridge result shape so the UI handles them like any
// other failed command.
//
// Example Usage:
//
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.Window.UIURL)))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
//	bridge := router.Group("/bridge", middleware.RequireToken(token))
package middleware
