// Package observability provides logging and tracing functionality for
// the translation core.
//
// This package implements structured logging via zap and distributed
// tracing via OpenTelemetry with OTLP export. Request and response
// metrics live in the metrics middleware, which owns its Prometheus
// registry.
//
// # Logging
//
// The Logger interface provides structured logging:
//
//	logger, err := observability.NewLogger(observability.DefaultLogConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer logger.Sync()
//
//	logger.Info("request adapted",
//	    observability.String("adapter", "graphql"),
//	    observability.Int("status", 200),
//	)
//
// # Tracing
//
// The Tracer wraps an OTLP-exporting tracer provider:
//
//	tracer, err := observability.NewTracer(observability.TracerConfig{
//	    ServiceName:  "avapibridge",
//	    OTLPEndpoint: "localhost:4317",
//	    SamplingRate: 0.1,
//	    Enabled:      true,
//	})
//	defer tracer.Shutdown(ctx)
package observability
