// Package middleware provides the built-in pipeline middlewares:
// logging, metrics, authentication, error handling, rate limiting,
// response caching, and conditional wrapping.
//
// Each middleware implements pipeline.Middleware and can be plugged
// into a pipeline independently of the others:
//
//	p := pipeline.New()
//	p.Use(middleware.NewLogging(logger))
//	p.Use(middleware.NewMetrics())
//
// Middlewares communicate across the request/response boundary through
// the request extension bag: the logging middleware stores the request
// id and start time there, the metrics middleware its own start
// timestamp. Response hooks read the bag back through the response's
// originating request.
package middleware
