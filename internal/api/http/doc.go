// Package http exposes the command bridge over loopback HTTP.
//
// Routes:
//
//	GET  /                        liveness
//	GET  /health                  window, backend breaker and metrics snapshot
//	GET  /bridge/commands         the command catalog
//	POST /bridge/invoke/:command  run one command; body is its payload
//
// Bridge routes require the per-launch token.
package http
