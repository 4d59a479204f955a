package store

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/i474232898/weatherstack-dashboard/internal/observability"
	"github.com/i474232898/weatherstack-dashboard/internal/weather"
)

var (
	// ErrNotFound is returned when no session exists for an id.
	ErrNotFound = errors.New("dashboard session not found")
)

// Registry is a concurrency-safe set of dashboard sessions keyed by id.
type Registry struct {
	mu sync.RWMutex

	// key: session id
	sessions map[string]*Session

	historyLimit int
	filters      weather.SearchFilters // initial filters for new sessions
	clock        clockwork.Clock
	metrics      *observability.Metrics
}

// NewRegistry creates an empty Registry. clock and metrics may be nil.
func NewRegistry(historyLimit int, filters weather.SearchFilters, clock clockwork.Clock, metrics *observability.Metrics) *Registry {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Registry{
		sessions:     make(map[string]*Session),
		historyLimit: historyLimit,
		filters:      filters,
		clock:        clock,
		metrics:      metrics,
	}
}

// Create starts a new session with a random id.
func (r *Registry) Create() *Session {
	s := NewSession(uuid.NewString(), r.historyLimit, r.filters, r.clock)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[s.ID()] = s
	r.report()
	return s
}

// Get returns the session for id.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Delete removes the session for id.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(r.sessions, id)
	r.report()
	return nil
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// EvictIdle removes sessions not seen for longer than maxIdle and returns how
// many were removed. A non-positive maxIdle disables eviction.
func (r *Registry) EvictIdle(maxIdle time.Duration) int {
	if maxIdle <= 0 {
		return 0
	}
	cutoff := r.clock.Now().Add(-maxIdle)

	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for id, s := range r.sessions {
		if s.LastSeen().Before(cutoff) {
			delete(r.sessions, id)
			evicted++
		}
	}

	if evicted > 0 {
		r.report()
		if r.metrics != nil {
			r.metrics.SessionsEvicted.Add(float64(evicted))
		}
	}
	return evicted
}

// report must be called with mu held.
func (r *Registry) report() {
	if r.metrics != nil {
		r.metrics.ActiveSessions.Set(float64(len(r.sessions)))
	}
}
