/*
Package resilience provides the circuit breaker guarding calls to the skill backend.

The backend is a separate process that may not be running yet or may have
exited. Once it has failed FailureThreshold times in a row the breaker opens and
calls fail immediately with ErrCircuitOpen, so a dead backend costs the UI one
fast failure instead of a full retry cycle per command. After Cooldown a limited
number of probe calls are let through.

	Closed --[failures]-> Open --[cooldown]-> Half-Open --[successes]-> Closed
	                                              |
	                                          [failure]
	                                              v
	                                            Open

Usage:

	breaker := resilience.New("skills-backend", resilience.Settings{
		FailureThreshold: 3,
		Cooldown:         5 * time.Second,
	})

	cfg, err := resilience.Do(breaker, func() (Config, error) {
		return fetchConfig(ctx)
	})

Context cancellation does not count as a failure by default.
*/
package resilience
