package weather

import (
	"context"
	"time"

	"github.com/i474232898/weatherstack-dashboard/internal/weatherstack"
)

// Gateway abstracts the upstream weather API, one method per endpoint.
type Gateway interface {
	Current(ctx context.Context, query string, opts weatherstack.Options) (*weatherstack.CurrentResponse, error)
	Forecast(ctx context.Context, query string, days int, opts weatherstack.Options) (*weatherstack.ForecastResponse, error)
	Historical(ctx context.Context, query string, date time.Time, opts weatherstack.Options) (*weatherstack.HistoricalResponse, error)
	HistoricalRange(ctx context.Context, query string, start, end time.Time, opts weatherstack.Options) (*weatherstack.HistoricalResponse, error)
	Marine(ctx context.Context, lat, lon float64, opts weatherstack.Options, tide bool) (*weatherstack.MarineResponse, error)
	SearchLocations(ctx context.Context, text string, limit int) (*weatherstack.LocationSearchResponse, error)
}

// Geocoder resolves a place name to coordinates. Optional; used for marine queries.
type Geocoder interface {
	Geocode(ctx context.Context, place string) (lat, lon float64, err error)
}

// StateStore is the contract the view-state (see internal/store) must satisfy.
//
// Every submission takes a token from BeginFetch, AwaitDate or Reject; only the
// most recently issued token may commit through CompleteFetch or FailFetch.
type StateStore interface {
	LastSubmission() (Query, SearchFilters, bool)
	SetActiveTab(tab Category)
	SetHistoricalDate(date time.Time)
	RecordHistory(query string)

	BeginFetch(q Query, f SearchFilters) uint64
	AwaitDate(q Query, f SearchFilters) uint64
	Reject(message string) uint64
	CompleteFetch(token uint64, p Payload) bool
	FailFetch(token uint64, message string) bool
}
