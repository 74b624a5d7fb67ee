package providers

import "context"

// Query selects the forecast to fetch.
type Query struct {
	Location string // city name, optionally "city,country"
	Units    string // imperial, metric or standard
}

// Provider fetches a raw forecast payload. Decoding is left to the caller.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, q Query) ([]byte, error)
	IsAvailable() bool
}
