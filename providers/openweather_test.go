package providers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, url string, retries int) *OpenWeatherProvider {
	t.Helper()
	return NewOpenWeatherProvider("test-key", Options{
		BaseURL: url,
		Client:  &http.Client{Timeout: 2 * time.Second},
		Backoff: BackoffConfig{
			MaxRetries:      retries,
			InitialInterval: time.Millisecond,
			MaxInterval:     5 * time.Millisecond,
		},
		RateLimit: 1000,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestOpenWeatherProvider_Fetch(t *testing.T) {
	const body = `{"cod":"200","list":[]}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/2.5/forecast", r.URL.Path)
		assert.Equal(t, "Austin,US", r.URL.Query().Get("q"))
		assert.Equal(t, "test-key", r.URL.Query().Get("appid"))
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL+"/data/2.5/", 0)

	got, err := p.Fetch(context.Background(), Query{Location: "Austin,US", Units: "metric"})
	require.NoError(t, err)
	assert.Equal(t, body, string(got))
}

func TestOpenWeatherProvider_OmitsEmptyUnits(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := r.URL.Query()["units"]
		assert.False(t, ok)
		_, _ = io.WriteString(w, "{}")
	}))
	defer srv.Close()

	_, err := newTestProvider(t, srv.URL, 0).Fetch(context.Background(), Query{Location: "Austin"})
	require.NoError(t, err)
}

func TestOpenWeatherProvider_NotConfigured(t *testing.T) {
	p := NewOpenWeatherProvider("", Options{})
	assert.False(t, p.IsAvailable())

	_, err := p.Fetch(context.Background(), Query{Location: "Austin"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestOpenWeatherProvider_RequiresLocation(t *testing.T) {
	p := NewOpenWeatherProvider("k", Options{})
	_, err := p.Fetch(context.Background(), Query{Location: "  "})
	assert.Error(t, err)
}

func TestOpenWeatherProvider_ClientErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"cod":"404","message":"city not found"}`)
	}))
	defer srv.Close()

	_, err := newTestProvider(t, srv.URL, 3).Fetch(context.Background(), Query{Location: "Nowhere"})
	require.ErrorIs(t, err, ErrAPI)
	assert.NotErrorIs(t, err, ErrServerError)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "404", apiErr.Code)
	assert.Equal(t, "city not found", apiErr.Message)
	assert.Equal(t, int32(1), calls.Load())
}

func TestOpenWeatherProvider_NumericErrorCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"cod":401,"message":"Invalid API key"}`)
	}))
	defer srv.Close()

	_, err := newTestProvider(t, srv.URL, 0).Fetch(context.Background(), Query{Location: "Austin"})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "401", apiErr.Code)
	assert.Contains(t, err.Error(), "Invalid API key")
}

func TestOpenWeatherProvider_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch calls.Add(1) {
		case 1:
			w.WriteHeader(http.StatusBadGateway)
		case 2:
			w.WriteHeader(http.StatusTooManyRequests)
		default:
			_, _ = io.WriteString(w, `{"cod":"200"}`)
		}
	}))
	defer srv.Close()

	got, err := newTestProvider(t, srv.URL, 3).Fetch(context.Background(), Query{Location: "Austin"})
	require.NoError(t, err)
	assert.Equal(t, `{"cod":"200"}`, string(got))
	assert.Equal(t, int32(3), calls.Load())
}

func TestOpenWeatherProvider_GivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestProvider(t, srv.URL, 2).Fetch(context.Background(), Query{Location: "Austin"})
	require.ErrorIs(t, err, ErrServerError)
	assert.Equal(t, int32(3), calls.Load())
}

func TestOpenWeatherProvider_CircuitOpens(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := NewOpenWeatherProvider("test-key", Options{
		BaseURL:          srv.URL,
		Backoff:          BackoffConfig{MaxRetries: 10, InitialInterval: time.Millisecond},
		RateLimit:        1000,
		BreakerThreshold: 2,
		Logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	_, err := p.Fetch(context.Background(), Query{Location: "Austin"})
	require.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, int32(2), calls.Load())
}

func TestOpenWeatherProvider_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewOpenWeatherProvider("test-key", Options{
		BaseURL:   srv.URL,
		Backoff:   BackoffConfig{MaxRetries: 5, InitialInterval: time.Hour},
		RateLimit: 1000,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := p.Fetch(ctx, Query{Location: "Austin"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestBackoffConfig_Delay(t *testing.T) {
	b := BackoffConfig{InitialInterval: 100 * time.Millisecond, MaxInterval: time.Second}

	assert.Equal(t, 100*time.Millisecond, b.delay(0))
	assert.Equal(t, 200*time.Millisecond, b.delay(1))
	assert.Equal(t, 800*time.Millisecond, b.delay(3))
	assert.Equal(t, time.Second, b.delay(4))
}

func TestResilientClient_InvalidBackoff(t *testing.T) {
	p := NewOpenWeatherProvider("k", Options{
		Backoff: BackoffConfig{MaxRetries: -1, InitialInterval: time.Millisecond},
	})

	_, err := p.Fetch(context.Background(), Query{Location: "Austin"})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNewOpenWeatherProvider_BaseURL(t *testing.T) {
	assert.Equal(t, DefaultBaseURL, NewOpenWeatherProvider("k", Options{}).baseURL)
	assert.Equal(t, "http://localhost:8080/api", NewOpenWeatherProvider("k", Options{BaseURL: "http://localhost:8080/api/"}).baseURL)
}
