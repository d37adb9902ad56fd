package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/avapibridge/internal/message"
)

func TestMetricsCountsRequests(t *testing.T) {
	t.Parallel()

	m := NewMetrics()
	assert.Equal(t, "metrics", m.Name())

	req := message.NewRequest("GET", "https://api.example.com/users")

	for i := 0; i < 3; i++ {
		_, err := m.OnRequest(context.Background(), req)
		require.NoError(t, err)
	}

	assert.Equal(t, float64(3), testutil.ToFloat64(m.requestsTotal))
}

func TestMetricsObservesDuration(t *testing.T) {
	t.Parallel()

	m := NewMetrics()

	req := message.NewRequest("GET", "https://api.example.com/users")

	out, err := m.OnRequest(context.Background(), req)
	require.NoError(t, err)

	_, ok := out.Extension(ExtKeyMetricsStart)
	require.True(t, ok)

	resp, err := message.NewResponse(200, message.WithRequest(out))
	require.NoError(t, err)

	_, err = m.OnResponse(context.Background(), resp)
	require.NoError(t, err)

	assert.Equal(t, 1, testutil.CollectAndCount(m.requestDuration))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.responsesTotal.WithLabelValues("200")))
}

func TestMetricsCountsResponsesByStatus(t *testing.T) {
	t.Parallel()

	m := NewMetrics()

	for _, status := range []int{200, 200, 404, 500} {
		resp, err := message.NewResponse(status)
		require.NoError(t, err)
		_, err = m.OnResponse(context.Background(), resp)
		require.NoError(t, err)
	}

	assert.Equal(t, float64(2), testutil.ToFloat64(m.responsesTotal.WithLabelValues("200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.responsesTotal.WithLabelValues("404")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.responsesTotal.WithLabelValues("500")))
}

func TestMetricsCountsErrors(t *testing.T) {
	t.Parallel()

	m := NewMetrics()

	resp, err := m.OnError(context.Background(), errors.New("boom"), nil)
	assert.Nil(t, resp)
	assert.NoError(t, err)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.errorsTotal))
}

func TestMetricsInstancesAreIsolated(t *testing.T) {
	t.Parallel()

	a := NewMetrics()
	b := NewMetrics()

	req := message.NewRequest("GET", "https://api.example.com/users")

	_, err := a.OnRequest(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, float64(1), testutil.ToFloat64(a.requestsTotal))
	assert.Equal(t, float64(0), testutil.ToFloat64(b.requestsTotal))
}

func TestMetricsSnapshot(t *testing.T) {
	t.Parallel()

	m := NewMetrics()

	req := message.NewRequest("GET", "https://api.example.com/users")
	_, err := m.OnRequest(context.Background(), req)
	require.NoError(t, err)

	families, err := m.Snapshot()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, mf := range families {
		names[mf.GetName()] = true
	}

	assert.True(t, names["avapibridge_pipeline_requests_total"])
}

func TestMetricsHandler(t *testing.T) {
	t.Parallel()

	m := NewMetrics()

	req := message.NewRequest("GET", "https://api.example.com/users")
	_, err := m.OnRequest(context.Background(), req)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "avapibridge_pipeline_requests_total 1")
}
