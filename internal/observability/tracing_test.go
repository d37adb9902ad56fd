package observability

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestNewTracerDisabled(t *testing.T) {
	tracer, err := NewTracer(TracerConfig{Enabled: false})
	require.NoError(t, err)
	require.NotNil(t, tracer)

	ctx, span := tracer.StartSpan(context.Background(), "test-span")
	require.NotNil(t, span)
	span.End()

	assert.NoError(t, tracer.Shutdown(ctx))
}

func TestNewTracerEnabledWithoutEndpoint(t *testing.T) {
	tracer, err := NewTracer(TracerConfig{
		ServiceName:  "bridge-test",
		Enabled:      true,
		SamplingRate: 1.0,
	})
	require.NoError(t, err)
	require.NotNil(t, tracer)

	ctx := context.Background()
	_, span := tracer.StartSpan(ctx, "adapt")
	span.End()

	assert.NoError(t, tracer.Shutdown(ctx))
}

func TestCreateSampler(t *testing.T) {
	tests := []struct {
		name string
		rate float64
		want sdktrace.Sampler
	}{
		{name: "always", rate: 1.0, want: sdktrace.AlwaysSample()},
		{name: "above one", rate: 2.5, want: sdktrace.AlwaysSample()},
		{name: "never", rate: 0, want: sdktrace.NeverSample()},
		{name: "negative", rate: -1, want: sdktrace.NeverSample()},
		{name: "ratio", rate: 0.25, want: sdktrace.TraceIDRatioBased(0.25)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := createSampler(tt.rate)
			assert.Equal(t, tt.want.Description(), got.Description())
		})
	}
}

func TestBuildRetryConfig(t *testing.T) {
	t.Run("nil uses defaults", func(t *testing.T) {
		cfg := buildRetryConfig(nil)
		assert.True(t, cfg.Enabled)
		assert.Equal(t, DefaultOTLPRetryInitialInterval, cfg.InitialInterval)
		assert.Equal(t, DefaultOTLPRetryMaxInterval, cfg.MaxInterval)
		assert.Equal(t, DefaultOTLPRetryMaxElapsedTime, cfg.MaxElapsedTime)
	})

	t.Run("zero values filled with defaults", func(t *testing.T) {
		cfg := buildRetryConfig(&OTLPRetryConfig{Enabled: true, MaxInterval: 5 * time.Second})
		assert.True(t, cfg.Enabled)
		assert.Equal(t, DefaultOTLPRetryInitialInterval, cfg.InitialInterval)
		assert.Equal(t, 5*time.Second, cfg.MaxInterval)
		assert.Equal(t, DefaultOTLPRetryMaxElapsedTime, cfg.MaxElapsedTime)
	})

	t.Run("disabled preserved", func(t *testing.T) {
		cfg := buildRetryConfig(&OTLPRetryConfig{Enabled: false})
		assert.False(t, cfg.Enabled)
	})
}

func TestInjectTraceContext(t *testing.T) {
	req, err := http.NewRequest(http.MethodPost, "http://localhost/graphql", nil)
	require.NoError(t, err)

	// Without a recording span this is a no-op; it must not panic.
	InjectTraceContext(context.Background(), req)
}

func TestDefaultServiceNameApplied(t *testing.T) {
	tracer, err := NewTracer(TracerConfig{})
	require.NoError(t, err)
	assert.Equal(t, DefaultServiceName, tracer.config.ServiceName)
}
