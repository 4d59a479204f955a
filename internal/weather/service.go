package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/i474232898/weatherstack-dashboard/internal/observability"
)

// Service turns a (tab, query, filters) submission into exactly one gateway
// call and commits the outcome to a StateStore.
type Service struct {
	gateway  Gateway
	geocoder Geocoder
	defaults Defaults
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// NewService creates a new Service. geocoder and metrics may be nil.
func NewService(gateway Gateway, geocoder Geocoder, defaults Defaults, metrics *observability.Metrics, logger *slog.Logger) *Service {
	if logger == nil {
		logger = observability.NopLogger()
	}
	if defaults.ForecastDays <= 0 {
		defaults.ForecastDays = NewDefaults().ForecastDays
	}
	if defaults.Language == "" {
		defaults.Language = NewDefaults().Language
	}
	return &Service{
		gateway:  gateway,
		geocoder: geocoder,
		defaults: defaults,
		metrics:  metrics,
		logger:   logger,
	}
}

// Defaults returns the filter defaults applied to every submission.
func (s *Service) Defaults() Defaults {
	return s.defaults
}

// Submit validates the submission, records it in the search history and runs
// the gateway call for its category. Failures land in the store as a display
// message and are also returned. A historical query without a date falls back
// to the date already picked; with none, it makes no call and leaves the store
// waiting for one.
func (s *Service) Submit(ctx context.Context, st StateStore, q Query, f SearchFilters) error {
	q.Text = strings.TrimSpace(q.Text)

	// The date picker is independent of the search controls.
	if q.Category == CategoryHistorical && !f.HasDate() {
		_, picked, _ := st.LastSubmission()
		f.HistoricalDate = picked.HistoricalDate
		f.DateRange = picked.DateRange
	}

	f, err := s.prepare(q, f)
	if err != nil {
		st.Reject(DisplayMessage(err))
		s.count(q.Category, "invalid")
		s.logger.Info("submission rejected", "tab", q.Category, "query", q.Text, "error", err)
		return err
	}

	st.RecordHistory(q.Text)

	if q.Category == CategoryHistorical && !f.HasDate() {
		st.AwaitDate(q, f)
		s.count(q.Category, "awaiting_date")
		return ErrDateRequired
	}

	token := st.BeginFetch(q, f)
	started := time.Now()

	payload, err := s.Fetch(ctx, q, f)
	if err != nil {
		if !st.FailFetch(token, DisplayMessage(err)) {
			s.stale(q, token)
		}
		s.count(q.Category, "error")
		s.logger.Warn("fetch failed", "tab", q.Category, "query", q.Text, "error", err)
		return err
	}

	if !st.CompleteFetch(token, payload) {
		s.stale(q, token)
	}
	s.count(q.Category, "success")
	s.logger.Debug("fetch complete", "tab", q.Category, "query", q.Text, "duration", time.Since(started))
	return nil
}

// SelectHistoricalDate stores the picked date and, when a query has already
// been submitted, immediately loads historical data for it.
func (s *Service) SelectHistoricalDate(ctx context.Context, st StateStore, date time.Time) error {
	st.SetActiveTab(CategoryHistorical)
	st.SetHistoricalDate(date)

	last, f, ok := st.LastSubmission()
	if !ok || last.Text == "" {
		return nil
	}
	f.HistoricalDate = date
	f.DateRange = nil
	return s.Submit(ctx, st, Query{Text: last.Text, Category: CategoryHistorical}, f)
}

// SelectLocation switches to the current tab and loads conditions for a
// place picked from location-search results.
func (s *Service) SelectLocation(ctx context.Context, st StateStore, place string) error {
	st.SetActiveTab(CategoryCurrent)
	_, f, _ := st.LastSubmission()
	return s.Submit(ctx, st, Query{Text: place, Category: CategoryCurrent}, f)
}

// Fetch performs the gateway call for q and normalizes the response. It does
// not touch any state; f must already have defaults applied.
func (s *Service) Fetch(ctx context.Context, q Query, f SearchFilters) (Payload, error) {
	opts := f.options()

	switch q.Category {
	case CategoryCurrent:
		resp, err := s.gateway.Current(ctx, q.Text, opts)
		if err != nil {
			return nil, err
		}
		return NormalizeCurrent(resp), nil

	case CategoryForecast:
		resp, err := s.gateway.Forecast(ctx, q.Text, f.ForecastDays, opts)
		if err != nil {
			return nil, err
		}
		return NormalizeForecast(resp), nil

	case CategoryHistorical:
		if r := f.DateRange; r != nil {
			resp, err := s.gateway.HistoricalRange(ctx, q.Text, r.Start, r.End, opts)
			if err != nil {
				return nil, err
			}
			return NormalizeHistorical(resp), nil
		}
		if f.HistoricalDate.IsZero() {
			return nil, ErrDateRequired
		}
		resp, err := s.gateway.Historical(ctx, q.Text, f.HistoricalDate, opts)
		if err != nil {
			return nil, err
		}
		return NormalizeHistorical(resp), nil

	case CategoryMarine:
		lat, lon, err := s.coordinates(ctx, q.Text)
		if err != nil {
			return nil, err
		}
		resp, err := s.gateway.Marine(ctx, lat, lon, opts, f.Tide)
		if err != nil {
			return nil, err
		}
		return NormalizeMarine(resp), nil

	case CategoryLocation:
		resp, err := s.gateway.SearchLocations(ctx, q.Text, s.defaults.SearchLimit)
		if err != nil {
			return nil, err
		}
		return NormalizeLocations(q.Text, resp), nil

	default:
		return nil, &ValidationError{Field: "tab", Message: fmt.Sprintf("unknown tab %q", q.Category)}
	}
}

// prepare applies defaults and rejects input that must not reach the gateway.
func (s *Service) prepare(q Query, f SearchFilters) (SearchFilters, error) {
	if !q.Category.Valid() {
		return f, &ValidationError{Field: "tab", Message: fmt.Sprintf("unknown tab %q", q.Category)}
	}
	if q.Text == "" {
		return f, &ValidationError{Field: "query", Message: "must not be empty"}
	}

	f, err := f.resolve(s.defaults)
	if err != nil {
		return f, err
	}

	// Place names are only acceptable for marine lookups when they can be geocoded.
	if q.Category == CategoryMarine && s.geocoder == nil {
		if _, _, err := ParseCoordinates(q.Text); err != nil {
			return f, err
		}
	}
	return f, nil
}

func (s *Service) coordinates(ctx context.Context, text string) (float64, float64, error) {
	lat, lon, err := ParseCoordinates(text)
	if err == nil {
		return lat, lon, nil
	}

	var valErr *ValidationError
	if s.geocoder == nil || !errors.As(err, &valErr) {
		return 0, 0, err
	}

	lat, lon, gerr := s.geocoder.Geocode(ctx, text)
	if gerr != nil {
		s.logger.Info("marine geocoding failed", "query", text, "error", gerr)
		return 0, 0, &ValidationError{Field: "query", Message: fmt.Sprintf("could not resolve %q to coordinates", text)}
	}
	return lat, lon, nil
}

func (s *Service) stale(q Query, token uint64) {
	s.logger.Debug("discarding superseded response", "tab", q.Category, "query", q.Text, "token", token)
	if s.metrics != nil {
		s.metrics.StaleResponses.Inc()
	}
}

func (s *Service) count(tab Category, outcome string) {
	if s.metrics != nil {
		s.metrics.Submissions.WithLabelValues(string(tab), outcome).Inc()
	}
}
