package widget

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/i474232898/weather-widget/internal/weather"
)

// InteractionState is everything a mounted widget knows. Snapshot and Error
// are never set at the same time; an empty Error means no error.
type InteractionState struct {
	Query     string            `json:"query"`
	Snapshot  *weather.Snapshot `json:"snapshot,omitempty"`
	Error     string            `json:"error,omitempty"`
	IsLoading bool              `json:"isLoading"`
	IsHovered bool              `json:"isHovered"`
}

// Widget is the fetch controller for one widget instance. It is safe for
// concurrent use; overlapping searches resolve as latest-issued-wins.
type Widget struct {
	fetcher weather.Fetcher
	logger  *zap.Logger

	mu         sync.Mutex
	state      InteractionState
	generation uint64 // token of the most recently issued search
	lastErr    error
}

// New creates a widget with empty state. A nil logger disables logging.
func New(fetcher weather.Fetcher, logger *zap.Logger) *Widget {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Widget{
		fetcher: fetcher,
		logger:  logger,
	}
}

// State returns a copy of the current state.
func (w *Widget) State() InteractionState {
	w.mu.Lock()
	defer w.mu.Unlock()

	s := w.state
	if s.Snapshot != nil {
		snap := *s.Snapshot
		s.Snapshot = &snap
	}
	return s
}

// LastError returns the classified cause of the most recent failed search:
// weather.ErrEmptyInput, or weather.ErrFetchFailure wrapping the fetcher error.
// It is nil after a successful search.
func (w *Widget) LastError() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

// SetQuery binds the text field.
func (w *Widget) SetQuery(q string) {
	w.mu.Lock()
	w.state.Query = q
	w.mu.Unlock()
}

// SetHovered toggles the visual hover flag.
func (w *Widget) SetHovered(hovered bool) {
	w.mu.Lock()
	w.state.IsHovered = hovered
	w.mu.Unlock()
}

// ResetSearch clears the query, the snapshot and the error. Hover and loading
// flags are left alone; an in-flight search still lands when it settles.
func (w *Widget) ResetSearch() {
	w.mu.Lock()
	w.state.Query = ""
	w.state.Snapshot = nil
	w.state.Error = ""
	w.lastErr = nil
	w.mu.Unlock()
}

// SubmitSearch validates raw and, if it is non-empty after trimming, starts
// one fetch for it. IsLoading is already true when SubmitSearch returns.
// The returned channel is closed once the outcome has been applied or
// discarded as stale; for empty input it is closed immediately.
func (w *Widget) SubmitSearch(ctx context.Context, raw string) <-chan struct{} {
	done := make(chan struct{})
	query := strings.TrimSpace(raw)

	w.mu.Lock()
	w.state.Query = raw
	if query == "" {
		w.state.Error = weather.MsgEmptyInput
		w.state.Snapshot = nil
		w.lastErr = weather.ErrEmptyInput
		w.mu.Unlock()

		close(done)
		return done
	}

	w.generation++
	token := w.generation
	w.state.IsLoading = true
	w.state.Error = ""
	w.mu.Unlock()

	go func() {
		defer close(done)
		snap, err := w.fetch(ctx, query)
		w.settle(token, query, snap, err)
	}()

	return done
}

// Search is the blocking form of SubmitSearch.
func (w *Widget) Search(ctx context.Context, raw string) {
	<-w.SubmitSearch(ctx, raw)
}

func (w *Widget) fetch(ctx context.Context, query string) (snap weather.Snapshot, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("fetcher panicked: %v", r)
		}
	}()
	return w.fetcher.Current(ctx, query)
}

func (w *Widget) settle(token uint64, query string, snap weather.Snapshot, err error) {
	w.mu.Lock()
	if token != w.generation {
		latest := w.generation
		w.mu.Unlock()
		w.logger.Debug("discarding stale search result",
			zap.String("query", query),
			zap.Uint64("token", token),
			zap.Uint64("latest", latest),
		)
		return
	}

	w.state.IsLoading = false
	if err != nil {
		w.state.Error = weather.MsgCityNotFound
		w.state.Snapshot = nil
		w.lastErr = fmt.Errorf("%w: %w", weather.ErrFetchFailure, err)
	} else {
		w.state.Snapshot = &snap
		w.state.Error = ""
		w.lastErr = nil
	}
	w.mu.Unlock()

	if err != nil {
		w.logger.Warn("error fetching weather data", zap.String("query", query), zap.Error(err))
		return
	}
	w.logger.Debug("weather data loaded",
		zap.String("query", query),
		zap.String("location", snap.Location),
		zap.Float64("temperature", snap.Temperature),
	)
}
