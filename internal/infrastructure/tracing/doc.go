/*
Package tracing correlates a bridge request with the backend calls it causes.

Each bridge request gets a ULID request ID (X-Request-ID), reused from the
caller when present. Operations inside the request open child spans; the
backend client forwards both IDs so the backend's logs line up with ours.
Finished spans are logged by a single collector goroutine through a bounded
buffer, so tracing never blocks a request.

# Usage

	tracer := tracing.New(logger)
	defer tracer.Close()

	router.Use(tracing.HTTPMiddleware(tracer))

	span, ctx := tracer.StartSpan(ctx, "backend.get_skills")
	tracing.Inject(ctx, req.Header)
	defer tracer.Finish(span)
*/
package tracing
