package providers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the OpenWeatherMap API root used when none is configured.
const DefaultBaseURL = "https://api.openweathermap.org/data/2.5"

const maxBodySize = 8 << 20

// Options tunes an OpenWeatherProvider. Zero values select the defaults.
type Options struct {
	BaseURL          string
	Client           *http.Client
	Backoff          BackoffConfig
	RateLimit        float64 // requests per second
	BreakerThreshold uint32  // consecutive failures that open the breaker
	Logger           *slog.Logger
}

// OpenWeatherProvider fetches the 5 day / 3 hour forecast from OpenWeatherMap.
type OpenWeatherProvider struct {
	apiKey  string
	baseURL string
	client  *resilientClient
	logger  *slog.Logger
}

func NewOpenWeatherProvider(apiKey string, opts Options) *OpenWeatherProvider {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Client == nil {
		opts.Client = &http.Client{
			Timeout: 10 * time.Second,
		}
	}
	if opts.Backoff == (BackoffConfig{}) {
		opts.Backoff = BackoffConfig{
			MaxRetries:      3,
			InitialInterval: 500 * time.Millisecond,
			MaxInterval:     5 * time.Second,
		}
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 1
	}
	if opts.BreakerThreshold == 0 {
		opts.BreakerThreshold = 5
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	logger := opts.Logger.With("provider", "openweathermap")
	threshold := opts.BreakerThreshold

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweathermap",
		MaxRequests: 1,
		Interval:    1 * time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Debug("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return &OpenWeatherProvider{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		client: &resilientClient{
			client:  opts.Client,
			backoff: opts.Backoff,
			circuit: cb,
			limiter: rate.NewLimiter(rate.Limit(opts.RateLimit), 1),
			logger:  logger,
		},
		logger: logger,
	}
}

func (p *OpenWeatherProvider) Name() string {
	return "OpenWeatherMap"
}

func (p *OpenWeatherProvider) IsAvailable() bool {
	return p.apiKey != ""
}

// Fetch returns the raw forecast body for q.
func (p *OpenWeatherProvider) Fetch(ctx context.Context, q Query) ([]byte, error) {
	if !p.IsAvailable() {
		return nil, fmt.Errorf("%w: %s has no api key", ErrNotConfigured, p.Name())
	}
	if strings.TrimSpace(q.Location) == "" {
		return nil, fmt.Errorf("location is required")
	}

	reqURL, err := p.forecastURL(q)
	if err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	logger := p.logger.With("request_id", requestID)
	logger.Debug("fetching forecast", "location", q.Location, "units", q.Units)

	resp, err := p.client.do(ctx, func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("building request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Request-Id", requestID)
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Name(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%s: reading response: %w", p.Name(), err)
	}

	logger.Debug("forecast received", "status", resp.StatusCode, "bytes", len(body))

	return body, nil
}

func (p *OpenWeatherProvider) forecastURL(q Query) (string, error) {
	u, err := url.Parse(p.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base url %q: %w", p.baseURL, err)
	}
	u = u.JoinPath("forecast")

	query := url.Values{}
	query.Set("q", q.Location)
	query.Set("appid", p.apiKey)
	if q.Units != "" {
		query.Set("units", q.Units)
	}
	u.RawQuery = query.Encode()

	return u.String(), nil
}
