// Package backend is the HTTP client for the out-of-process skill backend.
//
// Endpoints used:
//
//	GET   /skills  -> []Source
//	GET   /config  -> {"skills": {"paths": [...], "urls": [...]}, ...}
//	PATCH /config  <- {"skills": {"paths": [...], "urls": [...]}}
//
// The PATCH always carries the whole skills object. Transient transport and 5xx
// failures are retried by the transport; repeated failures open a circuit
// breaker so a dead backend fails fast. Every error wraps ErrUnavailable.
// Source names and descriptions are stripped of markup before they reach the UI.
package backend
