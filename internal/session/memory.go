package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/weather-widget/internal/widget"
)

var (
	// ErrNotFound is returned when no widget is mounted under a given id.
	ErrNotFound = errors.New("no widget session with that id")
)

// Factory mounts a fresh widget for a new session.
type Factory func() *widget.Widget

type entry struct {
	widget   *widget.Widget
	lastSeen time.Time
}

// MemoryStore is a concurrency-safe in-memory registry of mounted widgets,
// one per browser session.
type MemoryStore struct {
	mu sync.Mutex

	// key: session id
	data map[string]*entry

	// retention configuration
	maxSessions int           // max number of mounted widgets (0 = unlimited)
	maxAge      time.Duration // idle time after which a widget is unmounted (0 = unlimited)

	newWidget Factory
	clock     widget.Clock
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// A nil clock means the wall clock.
func NewMemoryStore(maxSessions int, maxAge time.Duration, newWidget Factory, clock widget.Clock) *MemoryStore {
	if clock == nil {
		clock = widget.RealClock{}
	}
	return &MemoryStore{
		data:        make(map[string]*entry),
		maxSessions: maxSessions,
		maxAge:      maxAge,
		newWidget:   newWidget,
		clock:       clock,
	}
}

// Create mounts a new widget under a fresh random id, evicting the
// least recently used session if the store is full.
func (s *MemoryStore) Create() (string, *widget.Widget) {
	id := uuid.NewString()
	w := s.newWidget()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.maxSessions > 0 && len(s.data) >= s.maxSessions {
		s.evictOldestLocked()
	}
	s.data[id] = &entry{widget: w, lastSeen: s.clock.Now()}
	return id, w
}

// Get returns the widget mounted under id and marks it as seen.
func (s *MemoryStore) Get(id string) (*widget.Widget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[id]
	if !ok {
		return nil, ErrNotFound
	}
	e.lastSeen = s.clock.Now()
	return e.widget, nil
}

// GetOrCreate returns the widget for id, mounting a new one (under a new id)
// when id is unknown. The returned id is the one the caller should keep.
func (s *MemoryStore) GetOrCreate(id string) (string, *widget.Widget, bool) {
	if id != "" {
		if w, err := s.Get(id); err == nil {
			return id, w, false
		}
	}
	newID, w := s.Create()
	return newID, w, true
}

// Delete unmounts the widget for id, if any.
func (s *MemoryStore) Delete(id string) {
	s.mu.Lock()
	delete(s.data, id)
	s.mu.Unlock()
}

// Len reports the number of mounted widgets.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

// Sweep unmounts widgets idle for longer than maxAge and returns how many
// were removed.
func (s *MemoryStore) Sweep() int {
	if s.maxAge <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.clock.Now().Add(-s.maxAge)
	removed := 0
	for id, e := range s.data {
		if e.lastSeen.Before(cutoff) {
			delete(s.data, id)
			removed++
		}
	}
	return removed
}

func (s *MemoryStore) evictOldestLocked() {
	var (
		oldestID string
		oldest   time.Time
	)
	for id, e := range s.data {
		if oldestID == "" || e.lastSeen.Before(oldest) {
			oldestID = id
			oldest = e.lastSeen
		}
	}
	if oldestID != "" {
		delete(s.data, oldestID)
	}
}
