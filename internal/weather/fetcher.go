package weather

import (
	"context"
	"errors"
)

// User-facing messages. These are the only two error strings the widget ever shows.
const (
	MsgEmptyInput   = "Please enter a valid location."
	MsgCityNotFound = "City not found. Please try again."
)

var (
	// ErrEmptyInput is returned when the trimmed query is empty.
	ErrEmptyInput = errors.New("empty location query")
	// ErrFetchFailure wraps any failure of the outbound call or of response mapping.
	ErrFetchFailure = errors.New("weather fetch failed")
)

// Fetcher abstracts the current-conditions source (e.g. WeatherAPI.com).
// Implementations return a fully mapped Snapshot or an error; they never
// return a partially filled Snapshot with a nil error.
type Fetcher interface {
	Current(ctx context.Context, query string) (Snapshot, error)
}

// FetcherFunc adapts a plain function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, query string) (Snapshot, error)

// Current calls f.
func (f FetcherFunc) Current(ctx context.Context, query string) (Snapshot, error) {
	return f(ctx, query)
}
