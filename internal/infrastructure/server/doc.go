// Package server assembles the loopback command bridge.
//
// Middleware order: recovery, tracing, metrics, CORS, rate limiting. Every
// route under /bridge also requires the per-launch token, sent as the
// X-Bridge-Token header or, for the WebSocket upgrade, the token query
// parameter.
//
// The listener binds in NewServer so a "0" port resolves before the UI is
// told where to connect.
package server
