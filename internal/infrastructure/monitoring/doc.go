/*
Package monitoring provides Prometheus metrics for the shell.

Every Metrics value owns a private registry, so tests and multiple shells in
one process never collide on the global default registry.

Tracked:

  - bridge HTTP requests by route template and status
  - bridge commands by name and result code
  - skill backend calls and circuit breaker state
  - open push streams and delivered events per sink
  - Go runtime and process collectors, uptime

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	timer := monitoring.NewTimer(metrics, "get_skills")
	// ... call the backend ...
	timer.Stop("success")
*/
package monitoring
