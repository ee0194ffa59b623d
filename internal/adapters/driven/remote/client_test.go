package remote

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/journai/journai-core/internal/core/domain"
)

type echoResponse struct {
	Got string `json:"got"`
}

func TestClient_PostJSON_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/echo", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"text":"hello"}`, string(body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"got":"hello"}`))
	}))
	defer server.Close()

	client := NewClient(Config{
		Service: "test",
		BaseURL: server.URL + "/",
		Headers: map[string]string{"Authorization": "Bearer secret"},
	})

	var out echoResponse
	err := client.PostJSON(context.Background(), "/echo", map[string]string{"text": "hello"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "hello", out.Got)
}

func TestClient_StatusClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "503 is service unavailable",
			status: http.StatusServiceUnavailable,
			body:   `{"error":{"message":"overloaded"}}`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, domain.ErrServiceUnavailable)
				assert.Contains(t, err.Error(), "overloaded")
			},
		},
		{
			name:   "429 is rate limited",
			status: http.StatusTooManyRequests,
			body:   `{"error":"slow down"}`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, domain.ErrRateLimited)
				assert.NotErrorIs(t, err, domain.ErrServiceUnavailable)
			},
		},
		{
			name:   "400 is a status error",
			status: http.StatusBadRequest,
			body:   `{"error":{"message":"bad model"}}`,
			check: func(t *testing.T, err error) {
				var statusErr *StatusError
				require.True(t, errors.As(err, &statusErr))
				assert.Equal(t, http.StatusBadRequest, statusErr.Code)
				assert.Equal(t, "bad model", statusErr.Message)
				assert.NotErrorIs(t, err, domain.ErrTransport)
			},
		},
		{
			name:   "500 with plain text body",
			status: http.StatusInternalServerError,
			body:   "boom",
			check: func(t *testing.T, err error) {
				var statusErr *StatusError
				require.True(t, errors.As(err, &statusErr))
				assert.Equal(t, "boom", statusErr.Message)
				assert.Equal(t, "test: API returned status 500: boom", err.Error())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(Config{Service: "test", BaseURL: server.URL})
			err := client.PostJSON(context.Background(), "/x", struct{}{}, nil)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestClient_ClosedServerIsTransport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(Config{Service: "test", BaseURL: url, Timeout: time.Second})
	err := client.Get(context.Background(), "/ping", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransport)
}

func TestClient_TruncatedBodyIsTransport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Length", "100")
		_, _ = w.Write([]byte(`{"got":`))
	}))
	defer server.Close()

	client := NewClient(Config{Service: "test", BaseURL: server.URL})
	var out echoResponse
	err := client.Get(context.Background(), "/x", &out)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransport)
}

func TestClient_CancelledContextIsNotTransport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(Config{Service: "test", BaseURL: server.URL})
	err := client.Get(ctx, "/x", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, domain.ErrTransport)
}

func TestClient_DecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client := NewClient(Config{Service: "test", BaseURL: server.URL})
	var out echoResponse
	err := client.Get(context.Background(), "/x", &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
	assert.NotErrorIs(t, err, domain.ErrTransport)
}

func TestClient_429OpensBackoffWindow(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	limiter := NewRateLimiter(RateLimitConfig{})
	client := NewClient(Config{Service: "test", BaseURL: server.URL, Limiter: limiter})

	before := time.Now()
	err := client.Get(context.Background(), "/x", nil)
	require.ErrorIs(t, err, domain.ErrRateLimited)

	retryAt := limiter.RetryAt()
	assert.True(t, retryAt.After(before.Add(6*time.Second)))
	assert.False(t, limiter.Allow())
}

func TestRetryAfter(t *testing.T) {
	assert.Equal(t, time.Duration(0), retryAfter(""))
	assert.Equal(t, time.Duration(0), retryAfter("soon"))
	assert.Equal(t, time.Duration(0), retryAfter("-3"))
	assert.Equal(t, 12*time.Second, retryAfter(" 12 "))
}
