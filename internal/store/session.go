package store

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/i474232898/weatherstack-dashboard/internal/weather"
)

// DefaultHistoryLimit caps the recent-search list when no limit is configured.
const DefaultHistoryLimit = 10

// RenderKind is what the presentation layer should draw for the active tab.
type RenderKind string

const (
	RenderLoading    RenderKind = "loading"
	RenderError      RenderKind = "error"
	RenderPayload    RenderKind = "payload"
	RenderDatePrompt RenderKind = "date_prompt"
	RenderEmpty      RenderKind = "empty"
)

// View is a consistent snapshot of a session, ready to render.
type View struct {
	ID        string                `json:"id"`
	ActiveTab weather.Category      `json:"activeTab"`
	Filters   weather.SearchFilters `json:"filters"`
	Query     string                `json:"query,omitempty"`
	Render    RenderKind            `json:"render"`
	Payload   weather.Payload       `json:"payload,omitempty"`
	Loading   bool                  `json:"loading"`
	Error     string                `json:"error,omitempty"`
	History   []string              `json:"history"`
}

// Session is the view-state of one dashboard: active tab, last filters,
// cached payload per tab, loading/error flags and recent searches.
//
// Action policy:
//
//	SetActiveTab      switch tab; payloads stay cached, error cleared
//	BeginFetch        new token; loading on, error cleared
//	AwaitDate         new token; loading off, error cleared (historical without date)
//	Reject            new token; loading off, error set (invalid input)
//	CompleteFetch     latest token only; payload stored under its tab, loading off
//	FailFetch         latest token only; error set, loading off, payloads untouched
//	RecordHistory     prepend if absent, unchanged if present, capped
//	ClearError        error cleared
//	ClearPayloads     all payloads and error cleared
type Session struct {
	mu sync.RWMutex

	id           string
	clock        clockwork.Clock
	lastSeen     time.Time
	historyLimit int

	activeTab weather.Category
	query     weather.Query
	submitted bool
	filters   weather.SearchFilters
	payloads  map[weather.Category]weather.Payload
	loading   bool
	err       string
	history   []string

	// latest is the most recently issued request token.
	latest uint64
}

// NewSession creates an empty session on the current tab.
// If historyLimit is <= 0, DefaultHistoryLimit is used.
func NewSession(id string, historyLimit int, filters weather.SearchFilters, clock clockwork.Clock) *Session {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Session{
		id:           id,
		clock:        clock,
		lastSeen:     clock.Now(),
		historyLimit: historyLimit,
		activeTab:    weather.CategoryCurrent,
		filters:      filters,
		payloads:     make(map[weather.Category]weather.Payload),
	}
}

func (s *Session) ID() string {
	return s.id
}

// LastSeen is the time of the most recent action or view.
func (s *Session) LastSeen() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSeen
}

func (s *Session) ActiveTab() weather.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeTab
}

// LastSubmission returns the last submitted query and the current filters.
// ok is false until something has been submitted.
func (s *Session) LastSubmission() (weather.Query, weather.SearchFilters, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query, s.filters, s.submitted
}

// Payload returns the cached payload for a tab.
func (s *Session) Payload(tab weather.Category) (weather.Payload, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.payloads[tab]
	return p, ok
}

// History returns the recent searches, most recent first.
func (s *Session) History() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.history...)
}

// SetActiveTab switches tabs and dismisses the error, even when tab is
// already active. Payloads are kept until refetched.
func (s *Session) SetActiveTab(tab weather.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	s.activeTab = tab
	s.err = ""
}

// SetHistoricalDate records the date-picker value without fetching.
func (s *Session) SetHistoricalDate(date time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	s.filters.HistoricalDate = date
	s.filters.DateRange = nil
}

// RecordHistory prepends query if it is not already present and truncates
// the list to the history limit. A query already present keeps its position.
func (s *Session) RecordHistory(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if query == "" {
		return
	}
	for _, h := range s.history {
		if h == query {
			return
		}
	}

	s.history = append([]string{query}, s.history...)
	if len(s.history) > s.historyLimit {
		s.history = s.history[:s.historyLimit]
	}
}

// BeginFetch marks a new request in flight and returns its token.
func (s *Session) BeginFetch(q weather.Query, f weather.SearchFilters) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	s.remember(q, f)
	s.loading = true
	s.err = ""
	s.latest++
	return s.latest
}

// AwaitDate supersedes any in-flight request and waits for a date selection.
func (s *Session) AwaitDate(q weather.Query, f weather.SearchFilters) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	s.remember(q, f)
	s.loading = false
	s.err = ""
	s.latest++
	return s.latest
}

// Reject supersedes any in-flight request and surfaces a validation message.
func (s *Session) Reject(message string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	s.loading = false
	s.err = message
	s.latest++
	return s.latest
}

// CompleteFetch commits p if token is still the latest. It reports whether
// the payload was stored.
func (s *Session) CompleteFetch(token uint64, p weather.Payload) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.latest || p == nil {
		return false
	}
	s.payloads[p.Category()] = p
	s.loading = false
	s.err = ""
	return true
}

// FailFetch commits message if token is still the latest. Cached payloads
// are left alone; the error hides them until cleared.
func (s *Session) FailFetch(token uint64, message string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.latest {
		return false
	}
	s.err = message
	s.loading = false
	return true
}

// ClearError dismisses the error without touching payloads.
func (s *Session) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	s.err = ""
}

// ClearPayloads drops every cached payload and the error.
func (s *Session) ClearPayloads() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	s.payloads = make(map[weather.Category]weather.Payload)
	s.err = ""
}

// View derives what to render: loading beats error, error beats payload, and
// a historical tab with no date asks for one before showing the empty state.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	v := View{
		ID:        s.id,
		ActiveTab: s.activeTab,
		Filters:   s.filters,
		Query:     s.query.Text,
		Loading:   s.loading,
		Error:     s.err,
		History:   append([]string{}, s.history...),
	}

	switch p, ok := s.payloads[s.activeTab]; {
	case s.loading:
		v.Render = RenderLoading
	case s.err != "":
		v.Render = RenderError
	case ok:
		v.Render = RenderPayload
		v.Payload = p
	case s.activeTab == weather.CategoryHistorical && !s.filters.HasDate():
		v.Render = RenderDatePrompt
	default:
		v.Render = RenderEmpty
	}
	return v
}

func (s *Session) remember(q weather.Query, f weather.SearchFilters) {
	s.query = q
	s.filters = f
	s.submitted = true
}

// touch must be called with mu held for writing.
func (s *Session) touch() {
	s.lastSeen = s.clock.Now()
}
