package adapter

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/avapibridge/internal/message"
	"github.com/vyrodovalexey/avapibridge/internal/serializer"
	"github.com/vyrodovalexey/avapibridge/internal/util"
)

func TestRemoteExecutorExecute(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)
		assert.Equal(t, "acme", r.Header.Get("X-Tenant"))
		assert.Equal(t, serializer.ContentTypeJSON, r.Header.Get(HeaderContentType))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"qty":2}`, string(body))

		w.Header().Set("X-Backend", "orders-v1")
		w.Header().Set(HeaderContentType, serializer.ContentTypeJSON)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":7}`))
	}))
	defer srv.Close()

	e := NewRemoteExecutor()
	req := message.NewRequest("POST", srv.URL+"/orders",
		message.WithHeader("X-Tenant", "acme"),
		message.WithBody([]byte(`{"qty":2}`), serializer.ContentTypeJSON))

	resp, err := e.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, resp.StatusCode())
	assert.Equal(t, "orders-v1", resp.Header("X-Backend"))
	assert.Equal(t, serializer.ContentTypeJSON, resp.ContentType())
	assert.JSONEq(t, `{"id":7}`, string(resp.Body()))
	assert.Same(t, req, resp.Request())
	assert.Equal(t, gobreaker.StateClosed, e.State())
}

func TestRemoteExecutorServerErrorsSurface(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(HeaderContentType, serializer.ContentTypeJSON)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"database down"}`))
	}))
	defer srv.Close()

	e := NewRemoteExecutor()

	resp, err := e.Execute(context.Background(),
		message.NewRequest("GET", srv.URL+"/health"))
	require.NoError(t, err)

	// The caller still sees the response; the failure only feeds the
	// breaker counts.
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode())
	assert.JSONEq(t, `{"error":"database down"}`, string(resp.Body()))
}

func TestRemoteExecutorBreakerOpens(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	e := NewRemoteExecutor()
	req := message.NewRequest("GET", srv.URL+"/flaky")

	// 1. Three server errors reach the caller and fill the breaker.
	for i := 0; i < 3; i++ {
		resp, err := e.Execute(context.Background(), req)
		require.NoError(t, err, "call %d", i)
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode())
	}
	assert.Equal(t, gobreaker.StateOpen, e.State())

	// 2. The next call is rejected without reaching the server.
	resp, err := e.Execute(context.Background(), req)
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.True(t, errors.Is(err, ErrRemoteUnavailable))
	assert.Equal(t, int64(3), hits.Load())
}

func TestRemoteExecutorBreakerThresholdOption(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	e := NewRemoteExecutor(
		WithExecutorName("orders-backend"),
		WithExecutorBreaker(1, time.Minute))
	req := message.NewRequest("GET", srv.URL+"/orders")

	_, err := e.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, gobreaker.StateOpen, e.State())

	_, err = e.Execute(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRemoteUnavailable))
	assert.Equal(t, int64(1), hits.Load())
}

func TestRemoteExecutorTransportFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	e := NewRemoteExecutor()

	resp, err := e.Execute(context.Background(), message.NewRequest("GET", url))
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.False(t, errors.Is(err, ErrRemoteUnavailable),
		"a transport failure is not a breaker rejection")
}

func TestRemoteExecutorNilRequest(t *testing.T) {
	t.Parallel()

	e := NewRemoteExecutor()

	_, err := e.Execute(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, util.ErrNilValue))
}

func TestRemoteExecutorContextCancellation(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	e := NewRemoteExecutor()
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := e.Execute(ctx, message.NewRequest("GET", srv.URL))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
